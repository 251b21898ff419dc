// Package area implements the Area expression tree: the branching
// sub-language attached to every instruction that picks the next
// instruction from the sign/finiteness of the current stack's top
// value.
package area

import "github.com/hyeong-lang/hyeong/internal/number"

// Kind identifies an Area node. Kinds 0 and 1 are binary operators;
// kinds 2..13 are the twelve "heart" leaves, each naming a direct jump
// target equal to its own kind.
type Kind uint8

const (
	KindQuestion Kind = 0 // "?": branch on undefined (NaN or empty pop)
	KindBang     Kind = 1 // "!": branch on strictly-negative
	// KindHeart0..KindHeart11 are jump-target leaves 2..13.
	KindHeart0 Kind = 2
	KindHeart1 Kind = 3
	KindHeart2 Kind = 4
	KindHeart3 Kind = 5
	KindHeart4 Kind = 6
	KindHeart5 Kind = 7
	KindHeart6 Kind = 8
	KindHeart7 Kind = 9
	KindHeart8 Kind = 10
	KindHeart9 Kind = 11
	KindHeart10 Kind = 12
	KindHeart11 Kind = 13
)

// MinLabel and MaxLabel bound the jump-target leaf kinds.
const (
	MinLabel = 2
	MaxLabel = 13
)

// Tree is an immutable Area node. A nil *Tree denotes "no subtree"
// (an empty Area): no branch taken, advance by one instruction.
type Tree struct {
	kind  Kind
	left  *Tree // only set for binary kinds 0/1
	right *Tree
}

// Nil is the canonical empty Area subtree.
var Nil *Tree

// NewLeaf builds a leaf node for kind k (k must be in [2, 13]).
func NewLeaf(k Kind) *Tree {
	return &Tree{kind: k}
}

// NewBinary builds a binary "?" (kind 0) or "!" (kind 1) node over the
// given subtrees, either of which may be Nil.
func NewBinary(k Kind, left, right *Tree) *Tree {
	return &Tree{kind: k, left: left, right: right}
}

// Outcome is the result of evaluating a Tree: either no branch, or a
// jump to a label id.
type Outcome struct {
	Branch bool
	Label  uint8
}

// noBranch is the "advance by one" outcome.
var noBranch = Outcome{}

// Eval walks t against the stack top value (isEmpty marks an empty
// pop, treated as an undefined top for "?" purposes). A Nil subtree
// anywhere in the walk yields "no branch". A reached Leaf(k) for k in
// [2,13] yields a jump to label k.
func Eval(t *Tree, top number.Number, isEmpty bool) Outcome {
	for {
		if t == nil {
			return noBranch
		}
		switch t.kind {
		case KindQuestion:
			if isEmpty || top.IsNaN() {
				t = t.right
			} else {
				t = t.left
			}
		case KindBang:
			if !isEmpty && number.Compare(top, number.Zero()) == number.Less {
				t = t.right
			} else {
				t = t.left
			}
		default:
			return Outcome{Branch: true, Label: uint8(t.kind)}
		}
	}
}

// CanBranch reports whether t could, for some input, resolve to a
// jump (Eval returning Branch=true). A Nil subtree anywhere in a
// decision path only ever suppresses that path, so a tree can branch
// iff it reaches a Leaf along at least one path. Used by the optimizer
// to prove a branch-free region before eliminating code after a
// terminator.
func CanBranch(t *Tree) bool {
	if t == nil {
		return false
	}
	switch t.kind {
	case KindQuestion, KindBang:
		return CanBranch(t.left) || CanBranch(t.right)
	default:
		return true
	}
}

// String renders t using the surface syntax: "?"/"!" for the binary
// kinds bracketing their subtrees, the literal heart glyphs for
// leaves, and "_" for Nil. It exists for `check`'s normalized
// instruction dump.
func (t *Tree) String() string {
	var b []byte
	b = appendTree(b, t)
	return string(b)
}

var leafGlyphs = [...]string{
	"?", "!", "♥", "❤", "💕", "💖", "💗", "💘", "💙", "💚", "💛", "💜", "💝", "♡",
}

func appendTree(b []byte, t *Tree) []byte {
	if t == nil {
		return append(b, '_')
	}
	if t.kind == KindQuestion || t.kind == KindBang {
		b = append(b, '[')
		b = appendTree(b, t.left)
		b = append(b, ']')
		b = append(b, leafGlyphs[t.kind]...)
		b = append(b, '[')
		b = appendTree(b, t.right)
		b = append(b, ']')
		return b
	}
	return append(b, leafGlyphs[t.kind]...)
}
