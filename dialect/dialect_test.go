package dialect

import "testing"

func TestDialectString(t *testing.T) {
	tests := []struct {
		d    Dialect
		want string
	}{
		{Spv, "spv"},
		{Sop1, "sop1"},
		{Sop2, "sop2"},
		{Sopc, "sopc"},
		{Sopk, "sopk"},
		{Sopp, "sopp"},
		{Vop1, "vop1"},
		{Vop2, "vop2"},
		{Vop3, "vop3"},
		{Vopc, "vopc"},
		{Smrd, "smrd"},
		{Mubuf, "mubuf"},
		{Mtbuf, "mtbuf"},
		{Mimg, "mimg"},
		{Ds, "ds"},
		{Exp, "exp"},
		{Vintrp, "vintrp"},
		{AmdGpu, "amdgpu"},
		{MemSSA, "memssa"},
		{Dialect(255), "unknown-dialect"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Dialect(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestMnemonicScenarioOpcodes(t *testing.T) {
	// Covers the mnemonics named explicitly by the worked scenarios: empty
	// shader, move+return, resolvable indirect branch, conditional diamond.
	tests := []struct {
		d    Dialect
		op   Op
		want string
	}{
		{Sopp, SoppEndPgm, "s_endpgm"},
		{Sop1, Sop1Mov, "s_mov_b32"},
		{Sop1, Sop1GetPC, "s_getpc_b64"},
		{Sop2, Sop2Add, "s_add_u32"},
		{Sop2, Sop2AddC, "s_addc_u32"},
		{Sop1, Sop1SetPC, "s_setpc_b64"},
		{Sopc, SopcCmpEqU32, "s_cmp_eq_u32"},
		{Sopp, SoppCBranchSCC1, "s_cbranch_scc1"},
		{Sopp, SoppBranch, "s_branch"},
	}
	for _, tt := range tests {
		if got := Mnemonic(tt.d, tt.op); got != tt.want {
			t.Errorf("Mnemonic(%v, %d) = %q, want %q", tt.d, tt.op, got, tt.want)
		}
	}
}

func TestMnemonicUnknownOpIsEmpty(t *testing.T) {
	if got := Mnemonic(Sop1, Op(9999)); got != "" {
		t.Errorf("Mnemonic(Sop1, 9999) = %q, want empty string", got)
	}
}

func TestMnemonicExpIsConstant(t *testing.T) {
	if got := Mnemonic(Exp, Op(0)); got != "exp" {
		t.Errorf("Mnemonic(Exp, 0) = %q, want \"exp\"", got)
	}
	if got := Mnemonic(Exp, Op(7)); got != "exp" {
		t.Errorf("Mnemonic(Exp, 7) = %q, want \"exp\" (Exp has no op-indexed table)", got)
	}
}

func TestAccessFlags(t *testing.T) {
	if AccessReadWrite&AccessRead == 0 || AccessReadWrite&AccessWrite == 0 {
		t.Fatal("AccessReadWrite must include both AccessRead and AccessWrite")
	}
}
