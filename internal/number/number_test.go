package number

import (
	"testing"

	"github.com/hyeong-lang/hyeong/internal/bignum"
)

func TestAddNonFiniteTable(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Number
		want   Number
	}{
		{"finite plus finite", FromInt64(2), FromInt64(3), FromInt64(5)},
		{"nan absorbs", NaN(), FromInt64(1), NaN()},
		{"pos inf absorbs finite", PosInf(), FromInt64(1), PosInf()},
		{"neg inf absorbs finite", NegInf(), FromInt64(1), NegInf()},
		{"pos inf plus neg inf is nan", PosInf(), NegInf(), NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Add(tt.a, tt.b)
			if !sameShape(got, tt.want) {
				t.Errorf("Add(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMulNonFiniteTable(t *testing.T) {
	tests := []struct {
		name string
		a, b Number
		want Number
	}{
		{"finite times finite", FromInt64(4), FromInt64(5), FromInt64(20)},
		{"zero times inf is nan", Zero(), PosInf(), NaN()},
		{"pos times pos inf", FromInt64(2), PosInf(), PosInf()},
		{"neg times pos inf", FromInt64(-2), PosInf(), NegInf()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mul(tt.a, tt.b)
			if !sameShape(got, tt.want) {
				t.Errorf("Mul(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDivNonFiniteTable(t *testing.T) {
	tests := []struct {
		name string
		a, b Number
		want Number
	}{
		{"finite by zero takes numerator sign", FromInt64(3), Zero(), PosInf()},
		{"negative by zero", FromInt64(-3), Zero(), NegInf()},
		{"zero by zero is nan", Zero(), Zero(), NaN()},
		{"inf by inf is nan", PosInf(), NegInf(), NaN()},
		{"finite by inf is zero", FromInt64(5), PosInf(), Zero()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Div(tt.a, tt.b)
			if !sameShape(got, tt.want) {
				t.Errorf("Div(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFlip(t *testing.T) {
	if got := Flip(Zero()); !sameShape(got, PosInf()) {
		t.Errorf("Flip(0) = %s, want inf", got)
	}
	if got := Flip(PosInf()); !sameShape(got, Zero()) {
		t.Errorf("Flip(inf) = %s, want 0", got)
	}
	if got := Flip(FromRatio(bignum.FromInt64(2), bignum.FromInt64(3))); got.String() != "3/2" {
		t.Errorf("Flip(2/3) = %s, want 3/2", got)
	}
}

func TestCompareOrdersAcrossKinds(t *testing.T) {
	tests := []struct {
		name string
		a, b Number
		want Ordering
	}{
		{"neg inf less than finite", NegInf(), Zero(), Less},
		{"finite less than pos inf", FromInt64(100), PosInf(), Less},
		{"nan is unordered with itself", NaN(), NaN(), Unordered},
		{"nan unordered with finite", NaN(), Zero(), Unordered},
		{"equal fractions reduce", FromRatio(bignum.FromInt64(2), bignum.FromInt64(4)), FromRatio(bignum.FromInt64(1), bignum.FromInt64(2)), Equal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFloor(t *testing.T) {
	tests := []struct {
		name string
		n    Number
		want int64
	}{
		{"positive fraction floors down", FromRatio(bignum.FromInt64(7), bignum.FromInt64(2)), 3},
		{"negative fraction floors toward -inf", FromRatio(bignum.FromInt64(-7), bignum.FromInt64(2)), -4},
		{"whole number is unchanged", FromInt64(5), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Floor(tt.n).ToInt64(); got != tt.want {
				t.Errorf("Floor(%s) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func TestStringRendersFractionsAndSentinels(t *testing.T) {
	if got := FromRatio(bignum.FromInt64(3), bignum.FromInt64(2)).String(); got != "3/2" {
		t.Errorf("String() = %q, want \"3/2\"", got)
	}
	if got := NaN().String(); got != "nan" {
		t.Errorf("String() = %q, want \"nan\"", got)
	}
	if got := PosInf().String(); got != "inf" {
		t.Errorf("String() = %q, want \"inf\"", got)
	}
	if got := NegInf().String(); got != "-inf" {
		t.Errorf("String() = %q, want \"-inf\"", got)
	}
}

// sameShape compares two Numbers by their observable properties rather
// than struct equality, since Number carries unexported bignum fields.
func sameShape(a, b Number) bool {
	if a.IsNaN() || b.IsNaN() {
		return a.IsNaN() && b.IsNaN()
	}
	return Compare(a, b) == Equal && a.k == b.k
}

