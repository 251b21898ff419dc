// Package parser turns surface hangul syllables and area punctuation
// into a sequence of program.Instruction values the core consumes. The
// core itself treats parsing as an external boundary, but the CLI this
// repo adds (run/check/debug/REPL) needs a concrete implementation to
// have anything to feed the engine, so this package supplies one.
package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/hyeong-lang/hyeong/internal/area"
	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/program"
)

// hangulBase and hangulBlockSize bound the precomposed Hangul syllable
// block (U+AC00-U+D7A3): syllable = base + initial*21*28 + medial*28 + final.
const (
	hangulBase  = 0xAC00
	hangulLast  = 0xD7A3
	medialCount = 21
	finalCount  = 28
)

// jamoKey packs (medial, final) into one comparable map key: the final
// consonant alone is not enough to distinguish every canonical
// syllable (형 and 항 both end in the ㅇ final, and 핫 and 흣 both end
// in the ㅅ final), so the opcode table below is keyed on the full
// (medial, final) pair decoded from each syllable.
type jamoKey struct{ medial, final int }

// The initial consonant is ㅎ for every hyeong instruction syllable,
// and ㅇ for the placeholder initial that carries a stretched
// instruction's continuation vowel (see scanInstruction); opcodeByJamo
// maps each canonical syllable's own decoded (medial, final) pair to
// its opcode, derived at init time rather than from hand-computed
// jamo indices.
var initialHieut = initialOf('형')
var initialIeung = initialOf('아')

var opcodeByJamo = map[jamoKey]program.Opcode{
	jamoPair('형'): program.OpPush,
	jamoPair('항'): program.OpAdd,
	jamoPair('핫'): program.OpMul,
	jamoPair('흣'): program.OpNegSum,
	jamoPair('흡'): program.OpRecipMul,
	jamoPair('흑'): program.OpDup,
}

func jamoPair(r rune) jamoKey {
	_, medial, final, _ := decompose(r)
	return jamoKey{medial: medial, final: final}
}

func decompose(r rune) (initial, medial, final int, ok bool) {
	if r < hangulBase || r > hangulLast {
		return 0, 0, 0, false
	}
	idx := int(r) - hangulBase
	final = idx % finalCount
	medial = (idx / finalCount) % medialCount
	initial = idx / (finalCount * medialCount)
	return initial, medial, final, true
}

func initialOf(r rune) int {
	initial, _, _, _ := decompose(r)
	return initial
}

// isInstructionStart reports whether r could begin a hyeong
// instruction token: either a bare canonical syllable (형, 항, ...) or
// the open first syllable (ㅎ + medial, no final) of a stretched token
// (혀엉, 하앙, ...). It does not itself validate a stretched token's
// closing syllable; scanInstruction does that.
func isInstructionStart(r rune) bool {
	initial, medial, final, ok := decompose(r)
	if !ok || initial != initialHieut {
		return false
	}
	if final == 0 {
		return true
	}
	_, ok = opcodeByJamo[jamoKey{medial: medial, final: final}]
	return ok
}

// scanInstruction consumes one hyeong instruction token starting at
// s's current position and reports its opcode and hangul_count (the
// number of syllables the token spans), or ok=false without consuming
// anything if no valid token starts there.
//
// A canonical instruction syllable (형, 항, 핫, 흣, 흡, 흑) carries its
// initial, medial, and final all in one syllable and has hangul_count
// 1. The surface language also allows "stretching" a syllable by
// inserting extra medial-only syllables before the one carrying the
// final consonant (형 -> 혀엉 -> 혀어엉 -> 혀어어엉 -> ...): an open
// first syllable (ㅎ + medial, no final) followed by one or more
// syllables under a placeholder ㅇ initial, the last of which supplies
// the final consonant that fixes the opcode. The placeholder syllables
// repeat the open syllable's medial, except that 혀 continues with ㅓ.
// hangul_count is the total syllable count of the token.
func scanInstruction(s *scanner) (program.Opcode, int, program.SourceLocation, bool) {
	r0, ok := s.peek()
	if !ok {
		return 0, 0, program.SourceLocation{}, false
	}
	initial0, medial0, final0, isHangul := decompose(r0)
	if !isHangul || initial0 != initialHieut {
		return 0, 0, program.SourceLocation{}, false
	}
	loc := s.loc()

	if final0 != 0 {
		op, ok := opcodeByJamo[jamoKey{medial: medial0, final: final0}]
		if !ok {
			return 0, 0, program.SourceLocation{}, false
		}
		s.advance()
		return op, 1, loc, true
	}

	// 혀 continues with ㅓ syllables (혀엉, 혀어엉); 하 and 흐 repeat
	// their own vowel (하앙, 흐읏).
	fill := medial0
	if _, m, _, _ := decompose('혀'); medial0 == m {
		_, fill, _, _ = decompose('어')
	}
	count := 1
	idx := s.pos + 1
	for idx < len(s.src) {
		initial, medial, final, isHangul := decompose(s.src[idx])
		if !isHangul || initial != initialIeung || medial != fill {
			break
		}
		count++
		idx++
		if final != 0 {
			op, ok := opcodeByJamo[jamoKey{medial: medial0, final: final}]
			if !ok {
				return 0, 0, program.SourceLocation{}, false
			}
			for i := 0; i < count; i++ {
				s.advance()
			}
			return op, count, loc, true
		}
	}
	return 0, 0, program.SourceLocation{}, false
}

var leafKindByGlyph = map[rune]area.Kind{
	'♥': area.KindHeart0, '❤': area.KindHeart1, '💕': area.KindHeart2,
	'💖': area.KindHeart3, '💗': area.KindHeart4, '💘': area.KindHeart5,
	'💙': area.KindHeart6, '💚': area.KindHeart7, '💛': area.KindHeart8,
	'💜': area.KindHeart9, '💝': area.KindHeart10, '♡': area.KindHeart11,
}

type scanner struct {
	src       []rune
	pos       int
	line, col int
}

func newScanner(src string) *scanner {
	return &scanner{src: []rune(src), line: 1, col: 1}
}

func (s *scanner) peek() (rune, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

func (s *scanner) advance() rune {
	r := s.src[s.pos]
	s.pos++
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *scanner) loc() program.SourceLocation {
	return program.SourceLocation{Line: s.line, Column: s.col}
}

func (s *scanner) skipTrivia() {
	for {
		r, ok := s.peek()
		if !ok {
			return
		}
		switch r {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return
		}
	}
}

// Parse turns surface hyeong source into an ordered instruction
// sequence, or a *hyeongerrors.HyeongError of kind ParseError on
// malformed input.
func Parse(src string) ([]program.Instruction, error) {
	if !utf8.ValidString(src) {
		return nil, hyeongerrors.New(hyeongerrors.ParseError, "source is not valid UTF-8")
	}
	s := newScanner(src)
	var out []program.Instruction

	for {
		s.skipTrivia()
		_, ok := s.peek()
		if !ok {
			break
		}
		op, hangul, loc, ok := scanInstruction(s)
		if !ok {
			return nil, hyeongerrors.New(hyeongerrors.ParseError,
				"unrecognized instruction syllable at "+locString(s.loc()))
		}

		dot := 0
		for {
			r, ok := s.peek()
			if !ok || r != '.' {
				break
			}
			s.advance()
			dot++
		}

		tree, err := parseArea(s)
		if err != nil {
			return nil, err
		}

		out = append(out, program.New(op, hangul, dot, tree, loc))
	}
	return out, nil
}

// parseArea parses an optional Area at the scanner's current
// position: absence (EOF, or the start of another instruction syllable
// or whitespace) is Nil, same as an explicit "_".
func parseArea(s *scanner) (*area.Tree, error) {
	r, ok := s.peek()
	if !ok {
		return area.Nil, nil
	}
	if isInstructionStart(r) {
		return area.Nil, nil
	}
	switch {
	case r == '_':
		s.advance()
		return area.Nil, nil
	case r == ' ' || r == '\t' || r == '\r' || r == '\n':
		return area.Nil, nil
	case r == '[':
		return parseBinary(s)
	default:
		if kind, ok := leafKindByGlyph[r]; ok {
			s.advance()
			return area.NewLeaf(kind), nil
		}
		return nil, hyeongerrors.New(hyeongerrors.ParseError,
			"unrecognized area token at "+locString(s.loc()))
	}
}

// parseBinary parses "[" left "]" op "[" right "]" where op is "?" or
// "!", per area.go's own String() rendering (the canonical surface
// form this parser and the printer agree on).
func parseBinary(s *scanner) (*area.Tree, error) {
	if err := expect(s, '['); err != nil {
		return nil, err
	}
	left, err := parseArea(s)
	if err != nil {
		return nil, err
	}
	if err := expect(s, ']'); err != nil {
		return nil, err
	}

	opR, ok := s.peek()
	if !ok || (opR != '?' && opR != '!') {
		return nil, hyeongerrors.New(hyeongerrors.ParseError,
			"expected '?' or '!' at "+locString(s.loc()))
	}
	s.advance()
	kind := area.KindQuestion
	if opR == '!' {
		kind = area.KindBang
	}

	if err := expect(s, '['); err != nil {
		return nil, err
	}
	right, err := parseArea(s)
	if err != nil {
		return nil, err
	}
	if err := expect(s, ']'); err != nil {
		return nil, err
	}

	return area.NewBinary(kind, left, right), nil
}

func expect(s *scanner, want rune) error {
	r, ok := s.peek()
	if !ok || r != want {
		return hyeongerrors.New(hyeongerrors.ParseError,
			"expected '"+string(want)+"' at "+locString(s.loc()))
	}
	s.advance()
	return nil
}

func locString(loc program.SourceLocation) string {
	return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
}
