package engine

import (
	"io"
	"strings"
	"testing"

	"github.com/hyeong-lang/hyeong/internal/area"
	"github.com/hyeong-lang/hyeong/internal/number"
	"github.com/hyeong-lang/hyeong/internal/program"
	"github.com/hyeong-lang/hyeong/internal/state"
)

type bufSink struct{ b strings.Builder }

func (s *bufSink) WriteByte(b byte) error     { s.b.WriteByte(b); return nil }
func (s *bufSink) WriteString(x string) error { s.b.WriteString(x); return nil }

type lineSource struct {
	lines []string
	i     int
}

func (s *lineSource) ReadLine() (string, error) {
	if s.i >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.i]
	s.i++
	return line, nil
}

func instr(op program.Opcode, hangul, dot int, a *area.Tree) program.Instruction {
	return program.New(op, hangul, dot, a, program.SourceLocation{})
}

// TestPushRoutesThroughStackOneAsCharacterOutput exercises push
// interception: a positive finite value on stack 1
// writes its low byte, not its decimal text.
func TestPushRoutesThroughStackOneAsCharacterOutput(t *testing.T) {
	m := state.New[program.Instruction]()
	m.Current = 1
	Load(m, instr(program.OpPush, 65, 1, nil)) // hangul_count*dot_count = 65 = 'A'

	out := &bufSink{}
	errOut := &bufSink{}
	in := &lineSource{}

	exitCode, err := Run(m, out, errOut, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exit code = %d, want 0", exitCode)
	}
	if out.b.String() != "A" {
		t.Errorf("stdout = %q, want \"A\"", out.b.String())
	}
}

// TestStackOnePopHaltsWithExitZero models a program whose current
// stack is 1, so any pop (here via Dup) triggers the stack-1 pop
// intercept: a clean, exit-0 halt.
func TestStackOnePopHaltsWithExitZero(t *testing.T) {
	m := state.New[program.Instruction]()
	m.Current = 1
	Load(m, instr(program.OpDup, 1, 9, nil))

	out, errOut, in := &bufSink{}, &bufSink{}, &lineSource{}
	exitCode, err := Run(m, out, errOut, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exit code = %d, want 0 (stack-1 pop is a clean halt)", exitCode)
	}
}

// TestStackTwoPopHaltsWithExitOne mirrors the above for stack 2, the
// fatal-exit intercept.
func TestStackTwoPopHaltsWithExitOne(t *testing.T) {
	m := state.New[program.Instruction]()
	m.Current = 2
	Load(m, instr(program.OpDup, 1, 9, nil))

	out, errOut, in := &bufSink{}, &bufSink{}, &lineSource{}
	exitCode, err := Run(m, out, errOut, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exitCode != 1 {
		t.Errorf("exit code = %d, want 1 (stack-2 pop is a fatal halt)", exitCode)
	}
}

// TestStackZeroPopReadsALineInReverseCodepointOrder exercises the
// input interception: a line's runes are pushed onto stack 0 in
// reverse so the first rune of the line is the first one popped, and
// the unconsumed runes remain buffered on stack 0 for the next pop.
func TestStackZeroPopReadsALineInReverseCodepointOrder(t *testing.T) {
	m := state.New[program.Instruction]()
	m.Current = 0
	Load(m, instr(program.OpDup, 1, 5, nil))

	out, errOut := &bufSink{}, &bufSink{}
	in := &lineSource{lines: []string{"hi"}}

	if _, err := Run(m, out, errOut, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Stack(5); len(got) != 1 || got[0].ToInt64() != int64('h') {
		t.Errorf("stack 5 = %v, want ['h']", got)
	}
	if got := m.Stack(0); len(got) != 2 || got[1].ToInt64() != int64('h') {
		t.Errorf("stack 0 = %v, want ['i', 'h'] buffered with 'h' on top", got)
	}
}

// TestAreaJumpRegistersLabelOnce confirms a heart leaf's first landing
// registers the label at the instruction that branched and, with no
// earlier registration to jump to, falls through to the next
// instruction.
func TestAreaJumpRegistersLabelOnce(t *testing.T) {
	heart := area.NewLeaf(area.KindHeart0)
	m := state.New[program.Instruction]()
	m.Current = 9
	Load(m,
		instr(program.OpPush, 1, 1, heart), // index 0: pushes 1 onto 9, jumps to heart0
		instr(program.OpPush, 1, 1, nil),   // index 1: pushes another 1, falls through
	)

	out, errOut, in := &bufSink{}, &bufSink{}, &lineSource{}

	if _, err := Step(m, out, errOut, in); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if loc, ok := m.Point(uint8(area.KindHeart0)); !ok || loc != 0 {
		t.Errorf("Point(heart0) = (%d, %v), want (0, true)", loc, ok)
	}
	if m.IP != 1 {
		t.Errorf("IP after first jump = %d, want 1 (no prior registration, falls through)", m.IP)
	}
}

// TestDivisionByZeroBecomesSignedInfinityNotAPanic confirms
// flipping a zero yields +Inf rather than erroring, so a
// RecipMul over a zero operand never panics.
func TestDivisionByZeroBecomesSignedInfinityNotAPanic(t *testing.T) {
	m := state.New[program.Instruction]()
	m.Push(m.Current, number.Zero())
	Load(m, instr(program.OpRecipMul, 1, 9, nil))

	out, errOut, in := &bufSink{}, &bufSink{}, &lineSource{}
	if _, err := Run(m, out, errOut, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.Stack(9)
	if len(got) == 0 {
		t.Fatal("expected the scratch product to land on stack 9")
	}
	if got[len(got)-1].String() != "inf" {
		t.Errorf("product = %s, want inf", got[len(got)-1])
	}
}
