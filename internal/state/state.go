// Package state implements the StateModel: the family of stacks
// indexed by non-negative integer, the current stack pointer, the code
// vector, the instruction pointer, and the label table that Area jumps
// resolve against.
//
// StateModel itself knows nothing about I/O interception on stacks
// 0/1/2 — that's layered on top in internal/engine as guards around
// the push/pop primitives, keeping this container a single uniform
// family of LIFO stacks.
package state

import (
	"github.com/hyeong-lang/hyeong/internal/number"
	"github.com/hyeong-lang/hyeong/internal/program"
)

// InitialStack is the current stack pointer's value in a fresh
// Model.
const InitialStack = 3

// Model is the StateModel, generic over the instruction flavor (an
// unoptimized program.Instruction or an optimized
// program.OptInstruction) so the engine can run either without
// duplicating the container.
type Model[C program.Code] struct {
	stacks  map[int][]number.Number
	Current int
	code    []C
	IP      int
	points  map[uint8]int
}

// New returns an empty StateModel: no stacks yet, current stack 3, no
// code, ip 0, no registered labels.
func New[C program.Code]() *Model[C] {
	return &Model[C]{
		stacks:  make(map[int][]number.Number),
		Current: InitialStack,
		points:  make(map[uint8]int),
	}
}

// Stack returns the ordered contents of stack idx (possibly empty).
// Intended for read-only inspection (the debugger's `state` command,
// tests); callers mutating stacks should use Push/Pop.
func (m *Model[C]) Stack(idx int) []number.Number {
	return m.stacks[idx]
}

// Push appends num onto stack idx. Does not perform I/O interception;
// callers that need that behavior for stacks 0/1/2 belong in
// internal/engine.
func (m *Model[C]) Push(idx int, num number.Number) {
	m.stacks[idx] = append(m.stacks[idx], num)
}

// Pop removes and returns the top of stack idx, or NaN if the stack is
// empty — an empty pop is never an error. The second
// return reports whether the stack was empty, which Area evaluation
// needs to treat the top as undefined.
func (m *Model[C]) Pop(idx int) (number.Number, bool) {
	s := m.stacks[idx]
	if len(s) == 0 {
		return number.NaN(), true
	}
	top := s[len(s)-1]
	m.stacks[idx] = s[:len(s)-1]
	return top, false
}

// Peek returns the top of stack idx without removing it, and whether
// the stack was empty.
func (m *Model[C]) Peek(idx int) (number.Number, bool) {
	s := m.stacks[idx]
	if len(s) == 0 {
		return number.NaN(), true
	}
	return s[len(s)-1], false
}

// AppendCode appends instructions to the code vector and returns the
// index of the first one appended, matching the Engine API's `load`.
func (m *Model[C]) AppendCode(instrs ...C) int {
	first := len(m.code)
	m.code = append(m.code, instrs...)
	return first
}

// CodeAt returns the instruction at index i.
func (m *Model[C]) CodeAt(i int) C {
	return m.code[i]
}

// CodeLen returns the number of instructions loaded.
func (m *Model[C]) CodeLen() int {
	return len(m.code)
}

// SetPoint registers label id -> code index loc, unless that label was
// already registered — a label once registered is never overwritten.
func (m *Model[C]) SetPoint(id uint8, loc int) {
	if _, ok := m.points[id]; ok {
		return
	}
	m.points[id] = loc
}

// Point returns the code index registered for label id, if any.
func (m *Model[C]) Point(id uint8) (int, bool) {
	loc, ok := m.points[id]
	return loc, ok
}

// Clone performs a structural deep copy: every stack's contents and
// the label table are copied, the instruction pointer and current
// stack pointer are copied by value, and the code vector is shared —
// it's immutable once loaded, so sharing it behind the new Model is
// safe and avoids an O(n) copy on every debugger step. This is what
// lets the debugger support backward stepping.
func (m *Model[C]) Clone() *Model[C] {
	cp := &Model[C]{
		stacks:  make(map[int][]number.Number, len(m.stacks)),
		Current: m.Current,
		code:    m.code,
		IP:      m.IP,
		points:  make(map[uint8]int, len(m.points)),
	}
	for idx, s := range m.stacks {
		cp.stacks[idx] = append([]number.Number(nil), s...)
	}
	for id, loc := range m.points {
		cp.points[id] = loc
	}
	return cp
}

// StackIndices returns the indices of every stack that has ever been
// touched, sorted ascending. Used by the debugger's `state` rendering.
func (m *Model[C]) StackIndices() []int {
	idxs := make([]int, 0, len(m.stacks))
	for idx := range m.stacks {
		idxs = append(idxs, idx)
	}
	for i := 1; i < len(idxs); i++ {
		for j := i; j > 0 && idxs[j-1] > idxs[j]; j-- {
			idxs[j-1], idxs[j] = idxs[j], idxs[j-1]
		}
	}
	return idxs
}
