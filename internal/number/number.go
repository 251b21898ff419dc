// Package number implements the rational value type the hyeong engine
// operates on: a canonical Finite(numerator, denominator) plus three
// non-finite sentinels (NaN, +Inf, -Inf) with total, panic-free
// arithmetic and ordering.
package number

import (
	"fmt"

	"github.com/hyeong-lang/hyeong/internal/bignum"
)

// kind distinguishes the four disjoint Number variants.
type kind uint8

const (
	kindFinite kind = iota
	kindNaN
	kindPosInf
	kindNegInf
)

// Number is a value object: every operation returns a fresh Number, and
// numerator/denominator are never shared by mutation.
type Number struct {
	k        kind
	num, den bignum.Int // only meaningful when k == kindFinite
}

// NaN returns the not-a-number sentinel.
func NaN() Number { return Number{k: kindNaN} }

// PosInf returns positive infinity.
func PosInf() Number { return Number{k: kindPosInf} }

// NegInf returns negative infinity.
func NegInf() Number { return Number{k: kindNegInf} }

// Zero returns the canonical Finite(0, 1).
func Zero() Number { return Number{k: kindFinite, num: bignum.Zero(), den: bignum.One()} }

// One returns the canonical Finite(1, 1).
func One() Number { return Number{k: kindFinite, num: bignum.One(), den: bignum.One()} }

// FromInt64 builds a Finite number from a signed machine integer.
func FromInt64(n int64) Number {
	return Number{k: kindFinite, num: bignum.FromInt64(n), den: bignum.One()}
}

// FromRatio builds a canonical Finite number from an integer numerator
// and a non-zero integer denominator; a zero denominator yields the
// signed infinity matching the numerator's sign (or NaN if the
// numerator is also zero), matching the Number.div non-finite table.
func FromRatio(num, den bignum.Int) Number {
	if den.IsZero() {
		if num.IsZero() {
			return NaN()
		}
		if num.IsPositive() {
			return PosInf()
		}
		return NegInf()
	}
	return canonicalize(num, den)
}

// canonicalize divides numerator and denominator by their gcd, then
// forces the denominator positive, folding its sign into the
// numerator.
func canonicalize(num, den bignum.Int) Number {
	if num.IsZero() {
		return Zero()
	}
	if !den.IsPositive() {
		num, den = num.Neg(), den.Neg()
	}
	g := bignum.GCD(num, den)
	if !g.IsZero() && !g.Equal(bignum.One()) {
		q1, _, _ := bignum.QuoRem(num, g)
		q2, _, _ := bignum.QuoRem(den, g)
		num, den = q1, q2
	}
	return Number{k: kindFinite, num: num, den: den}
}

// IsNaN reports whether n is the NaN sentinel.
func (n Number) IsNaN() bool { return n.k == kindNaN }

// IsFinite reports whether n is a Finite value.
func (n Number) IsFinite() bool { return n.k == kindFinite }

// IsZero reports whether n is Finite(0, 1). Infinities and NaN are
// never zero.
func (n Number) IsZero() bool { return n.k == kindFinite && n.num.IsZero() }

// IsPositive reports whether n is strictly greater than zero. NaN is
// never positive; +Inf is positive, -Inf is not.
func (n Number) IsPositive() bool {
	switch n.k {
	case kindFinite:
		return !n.num.IsZero() && n.num.IsPositive()
	case kindPosInf:
		return true
	default:
		return false
	}
}

// Ordering is the result of comparing two Numbers.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
	Unordered
)

// Compare implements the total-ish order required by Area evaluation
// and the engine: NaN compares Unordered against everything, including
// itself.
func Compare(a, b Number) Ordering {
	if a.k == kindNaN || b.k == kindNaN {
		return Unordered
	}
	if a.k == kindFinite && b.k == kindFinite {
		// cross-multiply: a.num/a.den vs b.num/b.den, both dens > 0
		lhs := bignum.Mul(a.num, b.den)
		rhs := bignum.Mul(b.num, a.den)
		switch lhs.Cmp(rhs) {
		case -1:
			return Less
		case 1:
			return Greater
		default:
			return Equal
		}
	}
	rank := func(n Number) int {
		switch n.k {
		case kindNegInf:
			return -1
		case kindPosInf:
			return 1
		default:
			if n.num.IsZero() {
				return 0
			}
			if n.num.IsPositive() {
				return 1
			}
			return -1
		}
	}
	ra, rb := rank(a), rank(b)
	switch {
	case ra < rb:
		return Less
	case ra > rb:
		return Greater
	case a.k == b.k:
		// two infinities of the same polarity
		return Equal
	case a.k == kindPosInf || b.k == kindNegInf:
		// same sign rank, but the infinite side dominates the finite one
		return Greater
	default:
		return Less
	}
}

// NumbersEqual reports whether a and b compare Equal (never true across NaN).
func NumbersEqual(a, b Number) bool { return Compare(a, b) == Equal }

// Add: any NaN operand, or (+Inf)+(-Inf), yields NaN; an infinite
// operand otherwise absorbs any finite addend, keeping its sign.
func Add(a, b Number) Number {
	if a.k == kindNaN || b.k == kindNaN {
		return NaN()
	}
	if a.k == kindPosInf || b.k == kindPosInf {
		if a.k == kindNegInf || b.k == kindNegInf {
			return NaN()
		}
		return PosInf()
	}
	if a.k == kindNegInf || b.k == kindNegInf {
		return NegInf()
	}
	num := bignum.Add(bignum.Mul(a.num, b.den), bignum.Mul(b.num, a.den))
	den := bignum.Mul(a.den, b.den)
	return canonicalize(num, den)
}

// Sub returns a - b, defined as Add(a, Neg(b)).
func Sub(a, b Number) Number {
	return Add(a, Neg(b))
}

// Neg flips the sign of a Finite value; infinities flip polarity; NaN
// is unaffected.
func Neg(a Number) Number {
	switch a.k {
	case kindFinite:
		if a.num.IsZero() {
			return a
		}
		return Number{k: kindFinite, num: a.num.Neg(), den: a.den}
	case kindPosInf:
		return NegInf()
	case kindNegInf:
		return PosInf()
	default:
		return NaN()
	}
}

// Mul implements the non-finite table: any NaN, or zero times an
// infinity, yields NaN; otherwise an infinite operand yields an
// infinity whose sign is the product of the operand signs.
func Mul(a, b Number) Number {
	if a.k == kindNaN || b.k == kindNaN {
		return NaN()
	}
	if a.k != kindFinite || b.k != kindFinite {
		if (a.k == kindFinite && a.IsZero()) || (b.k == kindFinite && b.IsZero()) {
			return NaN()
		}
		if infiniteSignPositive(a) == infiniteSignPositive(b) {
			return PosInf()
		}
		return NegInf()
	}
	num := bignum.Mul(a.num, b.num)
	den := bignum.Mul(a.den, b.den)
	return canonicalize(num, den)
}

// infiniteSignPositive reports the effective sign of a or, for finite
// non-zero a, its sign; only called once zero/NaN cases are excluded.
func infiniteSignPositive(a Number) bool {
	switch a.k {
	case kindPosInf:
		return true
	case kindNegInf:
		return false
	default:
		return a.IsPositive()
	}
}

// Div implements the non-finite table: NaN on any NaN, Inf/Inf, or
// 0/0; division by a finite zero produces a signed infinity carrying
// the numerator's sign; an infinite numerator over a non-zero finite
// denominator carries the combined sign.
func Div(a, b Number) Number {
	if a.k == kindNaN || b.k == kindNaN {
		return NaN()
	}
	if b.k != kindFinite {
		if a.k != kindFinite {
			return NaN() // ∞/∞
		}
		return Zero() // finite/∞ = 0
	}
	if b.IsZero() {
		if a.k == kindFinite && a.IsZero() {
			return NaN() // 0/0
		}
		if infiniteSignPositive(a) {
			return PosInf()
		}
		return NegInf()
	}
	if a.k != kindFinite {
		if infiniteSignPositive(a) == b.IsPositive() {
			return PosInf()
		}
		return NegInf()
	}
	num := bignum.Mul(a.num, b.den)
	den := bignum.Mul(a.den, b.num)
	if !den.IsPositive() {
		num, den = num.Neg(), den.Neg()
	}
	return canonicalize(num, den)
}

// Flip returns the reciprocal: NaN maps to NaN, 0 maps to +Inf, and
// either infinity maps to 0.
func Flip(a Number) Number {
	switch a.k {
	case kindNaN:
		return NaN()
	case kindPosInf, kindNegInf:
		return Zero()
	default:
		if a.num.IsZero() {
			return PosInf()
		}
		num, den := a.num, a.den
		if !num.IsPositive() {
			num, den = num.Neg(), den.Neg()
		}
		return canonicalize(den, num)
	}
}

// Floor rounds a Finite value toward negative infinity; NaN and
// infinities are returned unchanged.
func Floor(a Number) Number {
	if a.k != kindFinite {
		return a
	}
	q, r, err := bignum.QuoRem(a.num, a.den)
	if err != nil {
		return NaN()
	}
	if !r.IsZero() && !a.num.IsPositive() {
		q = bignum.Sub(q, bignum.One())
	}
	return Number{k: kindFinite, num: q, den: bignum.One()}
}

// ToInt64 floors a and saturates to the int64 range; NaN saturates to
// 0, +Inf to the max value, -Inf to the min value.
func (n Number) ToInt64() int64 {
	switch n.k {
	case kindNaN:
		return 0
	case kindPosInf:
		return 1<<63 - 1
	case kindNegInf:
		return -1 << 63
	default:
		f := Floor(n)
		return f.num.ToInt64()
	}
}

// LowByte returns byte(floor(n) mod 256) for a positive finite n,
// computed over the full magnitude rather than a saturating machine
// conversion. Callers guard on IsFinite/IsPositive first.
func (n Number) LowByte() byte {
	f := Floor(n)
	_, r, err := bignum.QuoRem(f.num, bignum.FromInt64(256))
	if err != nil {
		return 0
	}
	b := r.ToInt64()
	if b < 0 {
		b += 256
	}
	return byte(b)
}

// String renders a human-readable decimal form: an integer for whole
// Finite values, "n/d" otherwise, and the non-finite tokens used by
// I/O interception ("nan", "inf", "-inf").
func (n Number) String() string {
	switch n.k {
	case kindNaN:
		return "nan"
	case kindPosInf:
		return "inf"
	case kindNegInf:
		return "-inf"
	default:
		if n.den.Equal(bignum.One()) {
			return n.num.String()
		}
		return fmt.Sprintf("%s/%s", n.num.String(), n.den.String())
	}
}
