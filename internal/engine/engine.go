// Package engine implements the ExecutionEngine: a fetch-decode-execute
// cycle over a state.Model that dispatches on opcode, intercepts I/O on
// stacks 0/1/2, and evaluates each instruction's Area to pick the next
// instruction pointer.
package engine

import (
	"io"

	"github.com/hyeong-lang/hyeong/internal/area"
	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/number"
	"github.com/hyeong-lang/hyeong/internal/program"
	"github.com/hyeong-lang/hyeong/internal/state"
)

// Sink accepts output as single bytes or decimal strings; stacks 1 and
// 2 write through one of these instead of storing values.
type Sink interface {
	WriteByte(b byte) error
	WriteString(s string) error
}

// Source supplies one line of input at a time for stack-0 pops.
type Source interface {
	ReadLine() (string, error)
}

// Status is the outcome of a single Step.
type Status int

const (
	// Continued means more instructions remain to execute.
	Continued Status = iota
	// Halted means the program terminated (normally or via a
	// stack-1/2 pop).
	Halted
)

// Result is returned by Step and by Run.
type Result struct {
	Status   Status
	ExitCode int
}

const (
	stackIn  = 0
	stackOut = 1
	stackErr = 2
)

// Step executes exactly one instruction from m, intercepting I/O on
// stacks 0/1/2 through out/errSink/in, and advances (or halts) m
// accordingly. It never panics: arithmetic sentinels absorb division
// by zero and stack underflow yields NaN.
func Step[C program.Code](m *state.Model[C], out, errSink Sink, in Source) (Result, error) {
	if m.IP < 0 || m.IP >= m.CodeLen() {
		return Result{Status: Halted, ExitCode: 0}, nil
	}

	instr := m.CodeAt(m.IP)
	cur := m.Current

	switch instr.Opcode() {
	case program.OpPush:
		n := number.Mul(number.FromInt64(int64(instr.Hangul())), number.FromInt64(int64(instr.Dot())))
		if res, err, halted := push(m, cur, n, out, errSink); halted {
			return res, err
		}

	case program.OpAdd:
		sum := number.Zero()
		for i := 0; i < instr.Hangul(); i++ {
			n, res, err, halted := pop(m, cur, in)
			if halted {
				return res, err
			}
			sum = number.Add(sum, n)
		}
		if res, err, halted := push(m, instr.Dot(), sum, out, errSink); halted {
			return res, err
		}

	case program.OpMul:
		prod := number.One()
		for i := 0; i < instr.Hangul(); i++ {
			n, res, err, halted := pop(m, cur, in)
			if halted {
				return res, err
			}
			prod = number.Mul(prod, n)
		}
		if res, err, halted := push(m, instr.Dot(), prod, out, errSink); halted {
			return res, err
		}

	case program.OpNegSum:
		buf := make([]number.Number, 0, instr.Hangul())
		for i := 0; i < instr.Hangul(); i++ {
			n, res, err, halted := pop(m, cur, in)
			if halted {
				return res, err
			}
			buf = append(buf, n)
		}
		sum := number.Zero()
		for _, n := range buf {
			n = number.Neg(n)
			sum = number.Add(sum, n)
			if res, err, halted := push(m, cur, n, out, errSink); halted {
				return res, err
			}
		}
		if res, err, halted := push(m, instr.Dot(), sum, out, errSink); halted {
			return res, err
		}

	case program.OpRecipMul:
		buf := make([]number.Number, 0, instr.Hangul())
		for i := 0; i < instr.Hangul(); i++ {
			n, res, err, halted := pop(m, cur, in)
			if halted {
				return res, err
			}
			buf = append(buf, n)
		}
		prod := number.One()
		for _, n := range buf {
			n = number.Flip(n)
			prod = number.Mul(prod, n)
			if res, err, halted := push(m, cur, n, out, errSink); halted {
				return res, err
			}
		}
		if res, err, halted := push(m, instr.Dot(), prod, out, errSink); halted {
			return res, err
		}

	case program.OpDup:
		n, res, err, halted := pop(m, cur, in)
		if halted {
			return res, err
		}
		for i := 0; i < instr.Hangul(); i++ {
			if res, err, halted := push(m, instr.Dot(), n, out, errSink); halted {
				return res, err
			}
		}
		if res, err, halted := push(m, cur, n, out, errSink); halted {
			return res, err
		}
		m.Current = instr.Dot()

	default:
		return Result{}, hyeongerrors.New(hyeongerrors.InvalidOpcode, "unrecognized opcode")
	}

	top, empty := m.Peek(m.Current)
	outcome := area.Eval(instr.AreaTree(), top, empty)
	if !outcome.Branch {
		m.IP++
		return Result{Status: Continued}, nil
	}

	loc, hadBefore := m.Point(outcome.Label)
	m.SetPoint(outcome.Label, m.IP)
	switch {
	case hadBefore:
		m.IP = loc
	case outcome.Label == area.MaxLabel:
		// The last heart re-points to the current location and jumps
		// there immediately, so this instruction re-runs against the
		// stack state it just produced.
	default:
		m.IP++
	}
	return Result{Status: Continued}, nil
}

// Run steps m to completion, returning the process exit code: 0 on a
// normal end-of-code halt or a stack-1 pop, 1 on a stack-2 pop.
func Run[C program.Code](m *state.Model[C], out, errSink Sink, in Source) (int, error) {
	for {
		res, err := Step(m, out, errSink, in)
		if err != nil {
			return 1, err
		}
		if res.Status == Halted {
			return res.ExitCode, nil
		}
	}
}

// Load appends instrs to m's code vector and returns the index of the
// first one appended, matching the Engine API's `load`.
func Load[C program.Code](m *state.Model[C], instrs ...C) int {
	return m.AppendCode(instrs...)
}

// push implements push interception: stack 1 and 2 never store the
// value, they write it to the corresponding sink instead.
func push[C program.Code](m *state.Model[C], idx int, n number.Number, out, errSink Sink) (Result, error, bool) {
	var sink Sink
	switch idx {
	case stackOut:
		sink = out
	case stackErr:
		sink = errSink
	default:
		m.Push(idx, n)
		return Result{}, nil, false
	}

	if n.IsFinite() && n.IsPositive() {
		if err := sink.WriteByte(n.LowByte()); err != nil {
			return Result{}, hyeongerrors.Wrap(hyeongerrors.IOError, err), true
		}
		return Result{}, nil, false
	}
	if err := sink.WriteString(n.String()); err != nil {
		return Result{}, hyeongerrors.Wrap(hyeongerrors.IOError, err), true
	}
	return Result{}, nil, false
}

// pop implements pop interception: stack 0 blocks for a
// line of input and pushes each rune's code point in reverse before
// satisfying the pop; stacks 1 and 2 terminate the program outright.
func pop[C program.Code](m *state.Model[C], idx int, in Source) (number.Number, Result, error, bool) {
	switch idx {
	case stackOut:
		return number.Number{}, Result{Status: Halted, ExitCode: 0}, nil, true
	case stackErr:
		return number.Number{}, Result{Status: Halted, ExitCode: 1}, nil, true
	case stackIn:
		line, err := in.ReadLine()
		if err != nil && err != io.EOF {
			m.Push(stackIn, number.NaN())
		} else {
			runes := []rune(line)
			for i := len(runes) - 1; i >= 0; i-- {
				m.Push(stackIn, number.FromInt64(int64(runes[i])))
			}
		}
		n, _ := m.Pop(stackIn)
		return n, Result{}, nil, false
	default:
		n, _ := m.Pop(idx)
		return n, Result{}, nil, false
	}
}
