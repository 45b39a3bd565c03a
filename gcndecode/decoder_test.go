package gcndecode

import (
	"math"
	"testing"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

func wordReader(words ...uint32) ReadWord {
	return func(addr uint64) uint32 {
		idx := addr / 4
		if int(idx) >= len(words) {
			return 0
		}
		return words[idx]
	}
}

func TestDecodeEndpgm(t *testing.T) {
	inst, err := Decode(wordReader(0xBF810000), 0)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if inst.Dialect != dialect.Sopp || inst.Op != dialect.SoppEndPgm {
		t.Fatalf("expected (Sopp, SoppEndPgm), got (%v, %d)", inst.Dialect, inst.Op)
	}
	if inst.Length != 4 {
		t.Fatalf("expected length 4, got %d", inst.Length)
	}
}

func TestDecodeMovImmediate(t *testing.T) {
	// s_mov_b32 s0, 42: SOP1 word with op=Sop1Mov, sdst=0, ssrc0=255 (imm32),
	// followed by the literal 42.
	sop1Top9 := uint32(0b1_01111_101)
	word := (sop1Top9 << 23) | (uint32(dialect.Sop1Mov) << 8) | 255
	inst, err := Decode(wordReader(word, 42), 0)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if inst.Dialect != dialect.Sop1 || inst.Op != dialect.Sop1Mov {
		t.Fatalf("expected (Sop1, Sop1Mov), got (%v, %d)", inst.Dialect, inst.Op)
	}
	if inst.Length != 8 {
		t.Fatalf("expected length 8 (op word + literal), got %d", inst.Length)
	}
	if len(inst.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(inst.Operands))
	}
	src := inst.Operands[1]
	if src.Kind != OperandImmediate {
		t.Fatalf("expected source operand to be OperandImmediate, got %v", src.Kind)
	}
	if src.ImmediateAddress != 4 {
		t.Fatalf("expected immediate literal address 4, got %d", src.ImmediateAddress)
	}
}

func TestDecodeInvalidEncoding(t *testing.T) {
	// No family mask matches a word of all 1s in its top 9 bits combined
	// with a low bit set that breaks every remaining prefix test... in
	// practice VOP2's 1-bit mask (top bit 0) catches everything with a
	// clear top bit, so an invalid encoding must set every discriminating
	// prefix bit inconsistently with all tables; 0xFFFFFFFF is reserved in
	// every real family and is used here as the canonical unmatched input.
	_, err := Decode(wordReader(0xFFFFFFFF), 0)
	if err == nil {
		t.Fatal("expected an error for an unmatched encoding")
	}
	if _, ok := err.(*InvalidError); !ok {
		t.Fatalf("expected *InvalidError, got %T", err)
	}
}

func TestResolveScalarSourceSpecials(t *testing.T) {
	op, lit, err := resolveScalarSource(wordReader(), 0, 0, 106, dialect.AccessRead)
	if err != nil || op.Kind != OperandSpecial || lit != 0 {
		t.Fatalf("expected vcc_lo special with no literal, got %+v lit=%d err=%v", op, lit, err)
	}
	op, lit, err = resolveScalarSource(wordReader(), 0, 0, 255, dialect.AccessRead)
	if err != nil || op.Kind != OperandImmediate || lit != 4 {
		t.Fatalf("expected imm32 to consume 4 literal bytes, got %+v lit=%d err=%v", op, lit, err)
	}
	op, _, err = resolveScalarSource(wordReader(), 0, 0, 129, dialect.AccessRead)
	if err != nil || op.Kind != OperandConstant || op.ConstantBits != 1 {
		t.Fatalf("expected small integer constant 1, got %+v err=%v", op, err)
	}
}

// TestResolveScalarSourceInlineFloats covers the 240-247 inline-float range
// the decoder previously folded into a zero constant, per
// original_source/rpcsx-gpu/lib/gcn-shader/src/GcnInstruction.cpp's
// createSgprOperands() table.
func TestResolveScalarSourceInlineFloats(t *testing.T) {
	cases := []struct {
		idx  uint32
		want float32
	}{
		{240, 0.5}, {241, -0.5},
		{242, 1.0}, {243, -1.0},
		{244, 2.0}, {245, -2.0},
		{246, 4.0}, {247, -4.0},
	}
	for _, c := range cases {
		op, lit, err := resolveScalarSource(wordReader(), 0, 0, c.idx, dialect.AccessRead)
		if err != nil {
			t.Fatalf("idx %d: unexpected error %v", c.idx, err)
		}
		if op.Kind != OperandConstant || lit != 0 {
			t.Fatalf("idx %d: expected bare constant, got %+v lit=%d", c.idx, op, lit)
		}
		if got := math.Float32frombits(op.ConstantBits); got != c.want {
			t.Fatalf("idx %d: expected float constant %v, got %v", c.idx, c.want, got)
		}
	}
}

// TestResolveScalarSourceVgprRange covers the 256-511 range, the standard
// way VOP1/VOP2/VOPC/VOP3's 9-bit source fields address a VGPR rather than
// an SGPR (same source).
func TestResolveScalarSourceVgprRange(t *testing.T) {
	op, lit, err := resolveScalarSource(wordReader(), 0, 0, 256, dialect.AccessRead)
	if err != nil || op.Kind != OperandVgpr || op.Index != 0 || lit != 0 {
		t.Fatalf("expected v0, got %+v lit=%d err=%v", op, lit, err)
	}
	op, lit, err = resolveScalarSource(wordReader(), 0, 0, 511, dialect.AccessRead)
	if err != nil || op.Kind != OperandVgpr || op.Index != 255 || lit != 0 {
		t.Fatalf("expected v255, got %+v lit=%d err=%v", op, lit, err)
	}
}

func TestResolveScalarSourceLdsDirect(t *testing.T) {
	op, lit, err := resolveScalarSource(wordReader(), 0, 0, 254, dialect.AccessRead)
	if err != nil || op.Kind != OperandSpecial || op.Special != regfile.RegLdsDirect || lit != 0 {
		t.Fatalf("expected lds_direct special, got %+v lit=%d err=%v", op, lit, err)
	}
}

// TestResolveScalarSourceReserved covers the GCN ISA's genuinely undefined
// source slots, which must now fail instead of silently decoding as a zero
// constant.
func TestResolveScalarSourceReserved(t *testing.T) {
	for _, idx := range []uint32{209, 230, 239, 248, 250} {
		_, _, err := resolveScalarSource(wordReader(), 0x1000, 0x1004, idx, dialect.AccessRead)
		if err == nil {
			t.Fatalf("idx %d: expected an error for a reserved source slot", idx)
		}
		if _, ok := err.(*InvalidError); !ok {
			t.Fatalf("idx %d: expected *InvalidError, got %T", idx, err)
		}
	}
}
