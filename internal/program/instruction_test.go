package program

import "testing"

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpPush, "형"},
		{OpAdd, "항"},
		{OpMul, "핫"},
		{OpNegSum, "흣"},
		{OpRecipMul, "흡"},
		{OpDup, "흑"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestFromUnoptimizedComputesAreaCount(t *testing.T) {
	in := New(OpPush, 3, 4, nil, SourceLocation{Line: 1, Column: 1})
	opt := FromUnoptimized(in)
	if opt.AreaCount != 12 {
		t.Errorf("AreaCount = %d, want 12", opt.AreaCount)
	}
	if opt.Op != OpPush || opt.HangulCount != 3 || opt.DotCount != 4 {
		t.Errorf("FromUnoptimized dropped a field: %+v", opt)
	}
}

func TestCodeInterfaceSatisfiedByBothFlavors(t *testing.T) {
	var _ Code = Instruction{}
	var _ Code = OptInstruction{}
}
