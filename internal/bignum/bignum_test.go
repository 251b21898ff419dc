package bignum

import "testing"

func TestAdd(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{"positive plus positive", 7, 5, 12},
		{"positive plus negative", 7, -5, 2},
		{"negative plus negative", -7, -5, -12},
		{"crosses a limb boundary", 1<<32 - 1, 1, 1 << 32},
		{"cancels to zero", 9, -9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Add(FromInt64(tt.a), FromInt64(tt.b))
			if got.ToInt64() != tt.want {
				t.Errorf("Add(%d, %d) = %s, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMul(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{"positive times positive", 6, 7, 42},
		{"positive times negative", 6, -7, -42},
		{"negative times negative", -6, -7, 42},
		{"multiply by zero", 12345, 0, 0},
		{"overflows a single limb", 1 << 20, 1 << 20, 1 << 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mul(FromInt64(tt.a), FromInt64(tt.b))
			if got.ToInt64() != tt.want {
				t.Errorf("Mul(%d, %d) = %s, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestQuoRem(t *testing.T) {
	q, r, err := QuoRem(FromInt64(17), FromInt64(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ToInt64() != 3 || r.ToInt64() != 2 {
		t.Errorf("QuoRem(17, 5) = (%s, %s), want (3, 2)", q, r)
	}

	if _, _, err := QuoRem(FromInt64(1), Zero()); err != ErrDivisionByZero {
		t.Errorf("QuoRem(1, 0) error = %v, want ErrDivisionByZero", err)
	}
}

func TestGCD(t *testing.T) {
	got := GCD(FromInt64(48), FromInt64(-18))
	if got.ToInt64() != 6 {
		t.Errorf("GCD(48, -18) = %s, want 6", got)
	}
}

func TestCmp(t *testing.T) {
	tests := []struct {
		a, b int64
		want int
	}{
		{1, 2, -1},
		{2, 1, 1},
		{2, 2, 0},
		{-1, 1, -1},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := FromInt64(tt.a).Cmp(FromInt64(tt.b)); got != tt.want {
			t.Errorf("Cmp(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFromDecimalStringRoundTrip(t *testing.T) {
	big := "123456789012345678901234567890"
	v, err := FromDecimalString(big)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != big {
		t.Errorf("round trip = %s, want %s", v.String(), big)
	}

	neg := "-987654321098765432109876543210"
	v, err = FromDecimalString(neg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != neg {
		t.Errorf("round trip = %s, want %s", v.String(), neg)
	}
}

func TestFromDecimalStringInvalid(t *testing.T) {
	if _, err := FromDecimalString("not a number"); err == nil {
		t.Error("expected an error for a non-numeric literal")
	}
	if _, err := FromDecimalString(""); err == nil {
		t.Error("expected an error for an empty literal")
	}
}

func TestNegZeroCanonicalizesPositive(t *testing.T) {
	z := Zero().Neg()
	if !z.IsPositive() {
		t.Error("negating zero should keep the canonical +0 sign")
	}
}

func TestToInt64Saturates(t *testing.T) {
	huge, _ := FromDecimalString("99999999999999999999999999999999999999")
	if huge.ToInt64() != 1<<63-1 {
		t.Errorf("ToInt64() = %d, want max int64", huge.ToInt64())
	}
	tinyNeg, _ := FromDecimalString("-99999999999999999999999999999999999999")
	if tinyNeg.ToInt64() != -1<<63 {
		t.Errorf("ToInt64() = %d, want min int64", tinyNeg.ToInt64())
	}
}
