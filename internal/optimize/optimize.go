// Package optimize implements the equivalence-preserving rewriter that
// maps an unoptimized program.Instruction sequence to a (usually
// smaller) program.OptInstruction sequence, at levels 0, 1, and 2.
//
// The level-1/level-2 boundary is resolved conservatively: every
// rewrite this package performs is individually provable as
// observationally identical (same stdout/stderr bytes, same exit
// code, same termination status), at the cost of leaving some
// theoretically-foldable patterns (fractional or negative
// partial-evaluation results, dead code behind a branch, and pair
// collapsing or chain folding in any program whose Areas can jump) unoptimized
// rather than risk an unsound transform. See DESIGN.md for the worked
// justification.
package optimize

import (
	"github.com/hyeong-lang/hyeong/internal/area"
	"github.com/hyeong-lang/hyeong/internal/engine"
	"github.com/hyeong-lang/hyeong/internal/number"
	"github.com/hyeong-lang/hyeong/internal/program"
	"github.com/hyeong-lang/hyeong/internal/state"
)

// Level selects how aggressively Optimize rewrites a program.
type Level int

const (
	// Level0 performs no rewriting at all.
	Level0 Level = 0
	// Level1 precomputes AreaCount, folds contiguous constant Push
	// runs into canonical form, and collapses provably-inert
	// NegSum/RecipMul round-trip pairs.
	Level1 Level = 1
	// Level2 adds partial evaluation of closed, branch-free
	// arithmetic chains and dead-code elimination after a statically
	// inevitable stack-1/2 terminator.
	Level2 Level = 2
)

// Optimize rewrites in to an equivalent OptInstruction sequence at the
// given level.
func Optimize(in []program.Instruction, level Level) []program.OptInstruction {
	out := lift(in)
	// collapseNoOpPairs and foldClosedChains trust staticCurrentStacks,
	// which is exact only when no Area can jump.
	straightLine := true
	for _, instr := range in {
		if area.CanBranch(instr.Area) {
			straightLine = false
			break
		}
	}
	if level >= Level1 {
		out = foldPushRuns(out)
		if straightLine {
			out = collapseNoOpPairs(out)
		}
	}
	if level >= Level2 {
		if straightLine {
			out = foldClosedChains(out)
		}
		out = truncateDeadTail(out)
	}
	return out
}

func lift(in []program.Instruction) []program.OptInstruction {
	out := make([]program.OptInstruction, len(in))
	for i, instr := range in {
		out[i] = program.FromUnoptimized(instr)
	}
	return out
}

// staticCurrentStacks returns, for each instruction index, the current
// stack pointer the engine will use if control reaches that
// instruction by pure sequential flow (ip, ip+1, ip+2, ...), ignoring
// any Area-driven jump. Because Dup's destination is always a
// compile-time constant (program.Code.Dot()), this sequential
// simulation is exact when no Area can branch; an instruction reached
// through a jump may run with a different current stack. The rewrites
// that depend on it (collapseNoOpPairs, foldClosedChains,
// truncateDeadTail) therefore run only on programs without branching
// Areas.
func staticCurrentStacks[C program.Code](code []C) []int {
	cur := make([]int, len(code))
	s := state.InitialStack
	for i, instr := range code {
		cur[i] = s
		if instr.Opcode() == program.OpDup {
			s = instr.Dot()
		}
	}
	return cur
}

// deadStacks returns the set of stack indices that can never be the
// current stack at runtime: every index except the initial stack (3),
// the intercepted stacks (0,1,2), and any index ever named as the
// Dot() of a Dup instruction (the only way the current stack changes)
// is provably dead. Pushes onto a dead stack are never observable
// because nothing can ever pop from (or branch on the top of) a stack
// that is never current.
func deadStacks[C program.Code](code []C) map[int]bool {
	reachable := map[int]bool{state.InitialStack: true, 0: true, 1: true, 2: true}
	for _, instr := range code {
		if instr.Opcode() == program.OpDup {
			reachable[instr.Dot()] = true
		}
	}
	dead := make(map[int]bool)
	for _, instr := range code {
		if !reachable[instr.Dot()] {
			dead[instr.Dot()] = true
		}
	}
	return dead
}

// collapseNoOpPairs deletes adjacent (NegSum, NegSum) or (RecipMul,
// RecipMul) instruction pairs that are provably no-ops: both have
// hangul count 1, a Nil area, operate on the same current stack s (so
// the pair's only effect on s is a double negation/reciprocation,
// i.e. identity), and push their scratch sum/product onto a stack that
// deadStacks proves is never observable.
func collapseNoOpPairs(opt []program.OptInstruction) []program.OptInstruction {
	cur := staticCurrentStacks(opt)
	dead := deadStacks(opt)

	out := make([]program.OptInstruction, 0, len(opt))
	for i := 0; i < len(opt); i++ {
		if i+1 < len(opt) && isNoOpPair(opt[i], opt[i+1], cur[i], cur[i+1], dead) {
			i++ // skip both instructions of the pair
			continue
		}
		out = append(out, opt[i])
	}
	return out
}

func isNoOpPair(a, b program.OptInstruction, curA, curB int, dead map[int]bool) bool {
	if a.Op != b.Op {
		return false
	}
	if a.Op != program.OpNegSum && a.Op != program.OpRecipMul {
		return false
	}
	if a.HangulCount != 1 || b.HangulCount != 1 {
		return false
	}
	if a.Area != nil || b.Area != nil {
		return false
	}
	if curA != curB {
		return false
	}
	return dead[a.DotCount] && dead[b.DotCount]
}

// foldPushRuns rewrites Nil-area Push instructions whose destination
// stack is non-intercepted into canonical constant form: each Push's
// value h*d is computed once and re-encoded as Push(h=v, d=1), or
// Push(h=1, d=0) for zero. The pushed values and their order are
// unchanged, so the rewrite is observationally inert.
func foldPushRuns(opt []program.OptInstruction) []program.OptInstruction {
	cur := staticCurrentStacks(opt)
	out := append([]program.OptInstruction(nil), opt...)
	for i := range out {
		if out[i].Op != program.OpPush || out[i].Area != nil || cur[i] <= 2 {
			continue
		}
		out[i] = pushConst(int64(out[i].HangulCount) * int64(out[i].DotCount))
	}
	return out
}

// foldClosedChains partially evaluates maximal runs of Nil-area
// instructions drawn from {Push, Add, Mul, NegSum, RecipMul} that
// operate entirely on one non-intercepted current stack s (Add/Mul/
// NegSum/RecipMul in the run must target Dot()==s too, i.e. they're
// pure accumulation on s), by simulating the run against a scratch
// state.Model and re-emitting its final contribution to s as synthetic
// Push instructions. Folding only applies when every reproduced value
// is a non-negative integer or an integer reachable by appending a
// single negation against a dead scratch stack — fractional or
// otherwise non-representable results are left unfolded.
func foldClosedChains(opt []program.OptInstruction) []program.OptInstruction {
	dead := deadStacks(opt)
	scratchDead := pickScratchStack(opt, dead)
	cur := staticCurrentStacks(opt)

	out := make([]program.OptInstruction, 0, len(opt))
	i := 0
	for i < len(opt) {
		end, ok := closedChainEnd(opt, cur, i)
		if !ok {
			out = append(out, opt[i])
			i++
			continue
		}
		folded, ok := simulateChain(opt[i:end], cur[i], scratchDead)
		if !ok {
			out = append(out, opt[i])
			i++
			continue
		}
		out = append(out, folded...)
		i = end
	}
	return out
}

func pickScratchStack(opt []program.OptInstruction, dead map[int]bool) int {
	for idx := range dead {
		return idx
	}
	highest := state.InitialStack
	for _, instr := range opt {
		if instr.DotCount > highest {
			highest = instr.DotCount
		}
	}
	return highest + 1
}

// closedChainEnd returns the exclusive end index of the maximal
// closed, self-accumulating, branch-free run starting at i, and
// whether a run of length >= 2 was found.
func closedChainEnd(opt []program.OptInstruction, cur []int, i int) (int, bool) {
	if opt[i].Area != nil {
		return 0, false
	}
	s := cur[i]
	if s == 0 || s == 1 || s == 2 {
		return 0, false
	}
	j := i
loop:
	for j < len(opt) {
		instr := opt[j]
		if instr.Area != nil || cur[j] != s {
			break
		}
		switch instr.Op {
		case program.OpPush:
		case program.OpAdd, program.OpMul, program.OpNegSum, program.OpRecipMul:
			if instr.DotCount != s {
				break loop // not self-accumulating: stop before this instruction
			}
		default:
			break loop // OpDup changes the current stack: stop before it
		}
		j++
	}
	if j-i < 2 {
		return 0, false
	}
	return j, true
}

// simulateChain runs instrs (all confirmed Nil-area, self-accumulating
// on stack s) against a scratch engine and reports the resulting
// contents of s as a synthetic instruction sequence, or ok=false if
// any resulting value can't be represented by Push + at most one
// negation against scratchDead.
func simulateChain(instrs []program.OptInstruction, s int, scratchDead int) ([]program.OptInstruction, bool) {
	m := state.New[program.OptInstruction]()
	m.Current = s
	m.AppendCode(instrs...)

	discard := discardSink{}
	for m.IP < m.CodeLen() {
		res, err := engine.Step(m, discard, discard, discard)
		if err != nil {
			return nil, false
		}
		if res.Status == engine.Halted {
			return nil, false
		}
	}

	final := m.Stack(s)
	synth := make([]program.OptInstruction, 0, len(final))
	for _, n := range final {
		pushes, ok := encodeConstant(n, scratchDead)
		if !ok {
			return nil, false
		}
		synth = append(synth, pushes...)
	}
	return synth, true
}

// encodeConstant reproduces n on stack s using only Push (and, for
// negative integers, a trailing NegSum(h=1) whose scratch sum lands on
// a dead stack). Non-integers and non-finite values are not
// representable this way and return ok=false.
func encodeConstant(n number.Number, scratchDead int) ([]program.OptInstruction, bool) {
	if !n.IsFinite() {
		return nil, false
	}
	floor := number.Floor(n)
	if number.Compare(floor, n) != number.Equal {
		return nil, false // fractional
	}
	v := n.ToInt64()
	if v >= 0 {
		return []program.OptInstruction{pushConst(v)}, true
	}
	return []program.OptInstruction{
		pushConst(-v),
		{Op: program.OpNegSum, HangulCount: 1, DotCount: scratchDead, Area: nil, AreaCount: 1},
	}, true
}

// pushConst builds a Push instruction that places the non-negative
// integer v onto the current stack: Number(h*d) with d=1 directly
// encodes v via h=v, or h=1,d=0 for the zero value (h must stay
// positive).
func pushConst(v int64) program.OptInstruction {
	if v == 0 {
		return program.OptInstruction{Op: program.OpPush, HangulCount: 1, DotCount: 0, AreaCount: 0}
	}
	return program.OptInstruction{Op: program.OpPush, HangulCount: int(v), DotCount: 1, AreaCount: int(v)}
}

// truncateDeadTail implements dead-code elimination after a guaranteed
// terminator: only applied when the program contains no
// Area leaves anywhere (so sequential order is the only possible
// execution order), it truncates the code vector right after the
// first instruction that is guaranteed to halt the engine. An
// instruction only halts when its current stack is 1 or 2 AND it
// actually pops (Add/Mul/NegSum/RecipMul/Dup all pop at least once
// before doing anything else) — a Push on stack 1/2 only writes a
// byte and falls straight through, so it must not be mistaken for a
// terminator.
func truncateDeadTail(opt []program.OptInstruction) []program.OptInstruction {
	for _, instr := range opt {
		if area.CanBranch(instr.Area) {
			return opt
		}
	}
	cur := staticCurrentStacks(opt)
	for i, s := range cur {
		if (s == 1 || s == 2) && opt[i].Op != program.OpPush {
			return opt[:i+1]
		}
	}
	return opt
}

// discardSink is a no-op engine.Sink/engine.Source used while
// simulating a closed chain: closed chains are, by construction,
// confined to a non-intercepted stack, so these methods are never
// actually invoked; they exist only to satisfy the interfaces.
type discardSink struct{}

func (discardSink) WriteByte(b byte) error     { return nil }
func (discardSink) WriteString(s string) error { return nil }
func (discardSink) ReadLine() (string, error)  { return "", nil }
