package state

import (
	"testing"

	"github.com/hyeong-lang/hyeong/internal/number"
	"github.com/hyeong-lang/hyeong/internal/program"
)

func TestNewModelDefaults(t *testing.T) {
	m := New[program.Instruction]()
	if m.Current != InitialStack {
		t.Errorf("Current = %d, want %d", m.Current, InitialStack)
	}
	if m.IP != 0 || m.CodeLen() != 0 {
		t.Errorf("fresh model should have ip=0 and no code, got ip=%d len=%d", m.IP, m.CodeLen())
	}
}

func TestPushPop(t *testing.T) {
	m := New[program.Instruction]()
	m.Push(5, number.FromInt64(1))
	m.Push(5, number.FromInt64(2))

	top, empty := m.Pop(5)
	if empty || top.ToInt64() != 2 {
		t.Errorf("Pop = (%s, %v), want (2, false)", top, empty)
	}
	top, empty = m.Pop(5)
	if empty || top.ToInt64() != 1 {
		t.Errorf("Pop = (%s, %v), want (1, false)", top, empty)
	}
}

func TestPopEmptyYieldsNaN(t *testing.T) {
	m := New[program.Instruction]()
	top, empty := m.Pop(9)
	if !empty || !top.IsNaN() {
		t.Errorf("Pop on empty stack = (%s, %v), want (nan, true)", top, empty)
	}
}

func TestSetPointNeverOverwrites(t *testing.T) {
	m := New[program.Instruction]()
	m.SetPoint(2, 10)
	m.SetPoint(2, 20)
	loc, ok := m.Point(2)
	if !ok || loc != 10 {
		t.Errorf("Point(2) = (%d, %v), want (10, true)", loc, ok)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := New[program.Instruction]()
	m.Push(3, number.FromInt64(1))
	m.IP = 5

	cp := m.Clone()
	cp.Push(3, number.FromInt64(2))
	cp.IP = 9

	if len(m.Stack(3)) != 1 {
		t.Errorf("mutating the clone's stack mutated the original: %v", m.Stack(3))
	}
	if m.IP != 5 {
		t.Errorf("mutating the clone's IP mutated the original: %d", m.IP)
	}
	if len(cp.Stack(3)) != 2 {
		t.Errorf("clone should see both pushes, got %v", cp.Stack(3))
	}
}

func TestStackIndicesSorted(t *testing.T) {
	m := New[program.Instruction]()
	m.Push(9, number.Zero())
	m.Push(1, number.Zero())
	m.Push(5, number.Zero())

	got := m.StackIndices()
	want := []int{1, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("StackIndices() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("StackIndices() = %v, want %v", got, want)
		}
	}
}

func TestAppendCodeReturnsFirstIndex(t *testing.T) {
	m := New[program.Instruction]()
	m.AppendCode(program.New(program.OpPush, 1, 1, nil, program.SourceLocation{}))
	first := m.AppendCode(
		program.New(program.OpAdd, 1, 0, nil, program.SourceLocation{}),
		program.New(program.OpMul, 1, 0, nil, program.SourceLocation{}),
	)
	if first != 1 {
		t.Errorf("AppendCode returned %d, want 1", first)
	}
	if m.CodeLen() != 3 {
		t.Errorf("CodeLen() = %d, want 3", m.CodeLen())
	}
}
