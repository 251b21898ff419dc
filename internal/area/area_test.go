package area

import (
	"testing"

	"github.com/hyeong-lang/hyeong/internal/number"
)

func TestEvalNilIsNoBranch(t *testing.T) {
	got := Eval(nil, number.Zero(), false)
	if got.Branch {
		t.Errorf("Eval(nil, ...) = %+v, want no branch", got)
	}
}

func TestEvalQuestionBranchesOnUndefined(t *testing.T) {
	tree := NewBinary(KindQuestion, NewLeaf(KindHeart0), NewLeaf(KindHeart1))

	if got := Eval(tree, number.Zero(), true); !got.Branch || got.Label != uint8(KindHeart1) {
		t.Errorf("Eval on empty pop = %+v, want branch to heart1", got)
	}
	if got := Eval(tree, number.NaN(), false); !got.Branch || got.Label != uint8(KindHeart1) {
		t.Errorf("Eval on NaN = %+v, want branch to heart1", got)
	}
	if got := Eval(tree, number.Zero(), false); !got.Branch || got.Label != uint8(KindHeart0) {
		t.Errorf("Eval on defined value = %+v, want branch to heart0", got)
	}
}

func TestEvalBangBranchesOnNegative(t *testing.T) {
	tree := NewBinary(KindBang, NewLeaf(KindHeart0), NewLeaf(KindHeart1))

	if got := Eval(tree, number.FromInt64(-1), false); !got.Branch || got.Label != uint8(KindHeart1) {
		t.Errorf("Eval on negative = %+v, want branch to heart1", got)
	}
	if got := Eval(tree, number.FromInt64(1), false); !got.Branch || got.Label != uint8(KindHeart0) {
		t.Errorf("Eval on positive = %+v, want branch to heart0", got)
	}
	if got := Eval(tree, number.Zero(), true); !got.Branch || got.Label != uint8(KindHeart0) {
		t.Errorf("Eval on empty pop is never negative: = %+v, want branch to heart0", got)
	}
}

func TestEvalStopsAtNilSubtree(t *testing.T) {
	tree := NewBinary(KindQuestion, nil, NewLeaf(KindHeart0))
	if got := Eval(tree, number.Zero(), false); got.Branch {
		t.Errorf("Eval with a Nil left subtree = %+v, want no branch", got)
	}
}

func TestCanBranch(t *testing.T) {
	tests := []struct {
		name string
		t    *Tree
		want bool
	}{
		{"nil tree", nil, false},
		{"bare leaf", NewLeaf(KindHeart0), true},
		{"both subtrees nil", NewBinary(KindQuestion, nil, nil), false},
		{"one live subtree", NewBinary(KindQuestion, nil, NewLeaf(KindHeart0)), true},
		{"nested dead ends", NewBinary(KindBang, NewBinary(KindQuestion, nil, nil), nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanBranch(tt.t); got != tt.want {
				t.Errorf("CanBranch(%s) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestStringRoundTripsSurfaceSyntax(t *testing.T) {
	tree := NewBinary(KindQuestion, NewLeaf(KindHeart0), nil)
	want := "[♥]?[_]"
	if got := tree.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStringNilIsUnderscore(t *testing.T) {
	var tree *Tree
	if got := tree.String(); got != "_" {
		t.Errorf("String() on nil = %q, want \"_\"", got)
	}
}
