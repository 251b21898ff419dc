// Package program defines the compiled instruction record the parser
// hands to the engine, and the two code-vector container flavors
// (unoptimized and optimized) the optimizer maps between.
package program

import "github.com/hyeong-lang/hyeong/internal/area"

// Opcode identifies one of the six hyeong instructions, mapped from
// surface hangul syllables by the parser:
//
//	형 -> 0 Push     항 -> 1 Add      핫 -> 2 Mul
//	흣 -> 3 NegSum   흡 -> 4 RecipMul 흑 -> 5 Dup
type Opcode uint8

const (
	OpPush Opcode = iota
	OpAdd
	OpMul
	OpNegSum
	OpRecipMul
	OpDup
)

// Names mirrors the surface token for each opcode, used by `check`'s
// normalized instruction dump.
var Names = [...]string{"형", "항", "핫", "흣", "흡", "흑"}

func (o Opcode) String() string {
	if int(o) < len(Names) {
		return Names[o]
	}
	return "?"
}

// SourceLocation is the (line, column) the parser recorded for an
// unoptimized instruction.
type SourceLocation struct {
	Line, Column int
}

// Instruction is an unoptimized instruction: opcode, hangul/dot
// counts, an Area, and the source location it was parsed from.
// Immutable once built.
type Instruction struct {
	Op          Opcode
	HangulCount int
	DotCount    int
	Area        *area.Tree
	Loc         SourceLocation
}

// New builds an unoptimized Instruction.
func New(op Opcode, hangulCount, dotCount int, a *area.Tree, loc SourceLocation) Instruction {
	return Instruction{Op: op, HangulCount: hangulCount, DotCount: dotCount, Area: a, Loc: loc}
}

// OptInstruction is an optimized instruction: it drops the source
// location in favor of a pre-computed AreaCount summary the optimizer
// fast paths consume. AreaCount carries no semantic meaning beyond
// being populated by the optimizer.
type OptInstruction struct {
	Op          Opcode
	HangulCount int
	DotCount    int
	Area        *area.Tree
	AreaCount   int
}

// FromUnoptimized lifts an unoptimized Instruction to optimizer level
// 0 ("no rewriting"): the AreaCount summary is simply hangul*dot.
func FromUnoptimized(in Instruction) OptInstruction {
	return OptInstruction{
		Op:          in.Op,
		HangulCount: in.HangulCount,
		DotCount:    in.DotCount,
		Area:        in.Area,
		AreaCount:   in.HangulCount * in.DotCount,
	}
}

// Code is implemented by both Instruction and OptInstruction so the
// engine can dispatch over either without caring which optimization
// level produced the code vector.
type Code interface {
	Opcode() Opcode
	Hangul() int
	Dot() int
	AreaTree() *area.Tree
}

func (in Instruction) Opcode() Opcode       { return in.Op }
func (in Instruction) Hangul() int          { return in.HangulCount }
func (in Instruction) Dot() int             { return in.DotCount }
func (in Instruction) AreaTree() *area.Tree { return in.Area }

func (in OptInstruction) Opcode() Opcode       { return in.Op }
func (in OptInstruction) Hangul() int          { return in.HangulCount }
func (in OptInstruction) Dot() int             { return in.DotCount }
func (in OptInstruction) AreaTree() *area.Tree { return in.Area }
