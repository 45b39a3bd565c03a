package recompiler

import (
	"bytes"
	"testing"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/spirvcodec"
)

// sop1Top9 and sopp9 are the classifying prefixes gcndecode.Decode switches
// on for the Sop1 and Sopp families, mirroring lifter_test.go's encoders.
const (
	sop1Top9 = 0x17D
	sopp9    = 0x17F
)

func encodeSop1(op dialect.Op, sdst, ssrc0 uint32) uint32 {
	return sop1Top9<<23 | (sdst&0x7F)<<16 | uint32(op)<<8 | (ssrc0 & 0xFF)
}

func encodeSopp(op dialect.Op, simm16 uint32) uint32 {
	return sopp9<<23 | uint32(op)<<16 | (simm16 & 0xFFFF)
}

func mustEmptySemanticModuleData(t *testing.T) []byte {
	t.Helper()
	ctx := ir.NewContext()
	m := spirvcodec.NewModule(ctx)
	data, err := spirvcodec.Serialize(ctx, m)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return data
}

// buildMovSemanticsData serializes a semantic module binding "s_mov_b32" to
// void s_mov_b32(u32* dest, u32 src) { *dest = src; }, matching
// lifter_test.go's buildMovSemantics but returning the raw SPIR-V bytes
// Compile takes instead of a loaded *semantic.Module.
func buildMovSemanticsData(t *testing.T) []byte {
	t.Helper()

	ctx := ir.NewContext()
	m := spirvcodec.NewModule(ctx)

	u32 := ctx.TypeInt(32, false)
	ptrU32 := ctx.TypePointer(dialect.StorageClassFunction, u32)
	fnType := ctx.TypeFunction(nil, []*ir.Type{ptrU32, u32})

	fb := ir.NewBuilderAtEnd(ctx, m.Functions)
	fn := fb.Append(fb.New(dialect.Spv, dialect.OpFunction, ctx.TypeVoid(),
		[]ir.Operand{ir.OperandI32(0), ir.OperandType(fnType)}, ir.UnknownLocation))
	dest := fb.Append(fb.New(dialect.Spv, dialect.OpFunctionParameter, ptrU32, nil, ir.UnknownLocation))
	src := fb.Append(fb.New(dialect.Spv, dialect.OpFunctionParameter, u32, nil, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpStore, nil, []ir.Operand{ir.OperandValue(dest), ir.OperandValue(src)}, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpReturn, nil, nil, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpFunctionEnd, nil, nil, ir.UnknownLocation))

	debugs := ir.NewBuilderAtEnd(ctx, m.Debugs)
	debugs.Append(debugs.New(dialect.Spv, dialect.OpName, nil,
		[]ir.Operand{ir.OperandValue(fn), ir.OperandString("s_mov_b32")}, ir.UnknownLocation))

	data, err := spirvcodec.Serialize(ctx, m)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return data
}

func wordReader(words map[uint64]uint32) func(uint64) uint32 {
	return func(addr uint64) uint32 { return words[addr] }
}

func TestCompileEmptyShaderProducesValidModule(t *testing.T) {
	words := map[uint64]uint32{
		0: encodeSopp(dialect.SoppEndPgm, 0),
	}

	env := DefaultEnvironment()
	data, err := Compile(wordReader(words), &env, mustEmptySemanticModuleData(t), 0, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if len(data) < 4 || !bytes.Equal(data[:4], []byte{0x03, 0x02, 0x23, 0x07}) {
		t.Fatalf("output does not start with the SPIR-V magic: %x", data[:min(4, len(data))])
	}

	_, mod, err := spirvcodec.Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if mod.EntryPoints.Len() != 1 {
		t.Errorf("EntryPoints region has %d instructions, want 1", mod.EntryPoints.Len())
	}
	if n := countOp(mod.Functions, dialect.Spv, dialect.OpFunctionEnd); n != 1 {
		t.Errorf("OpFunctionEnd count in Functions = %d, want 1", n)
	}
}

func TestCompileMovThenReturnCallsSemanticFunction(t *testing.T) {
	words := map[uint64]uint32{
		0: encodeSop1(dialect.Sop1Mov, 1, 2), // s_mov_b32 s1, s2
		4: encodeSopp(dialect.SoppEndPgm, 0),
	}

	env := DefaultEnvironment()
	data, err := Compile(wordReader(words), &env, buildMovSemanticsData(t), 0, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	_, mod, err := spirvcodec.Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if n := countOp(mod.Functions, dialect.Spv, dialect.OpFunctionCall); n != 1 {
		t.Errorf("OpFunctionCall count = %d, want 1 (the inlined s_mov_b32 body)", n)
	}
	if mod.Globals.Len() == 0 {
		t.Error("expected at least one register variable placed in Globals")
	}
}

func TestCompileRejectsBadSemanticModule(t *testing.T) {
	words := map[uint64]uint32{0: encodeSopp(dialect.SoppEndPgm, 0)}
	env := DefaultEnvironment()
	_, err := Compile(wordReader(words), &env, []byte("not a spir-v module"), 0, DefaultOptions())
	if err == nil {
		t.Fatal("Compile succeeded on garbage semantic module data, want an error")
	}
	if _, ok := err.(*BadSemanticModuleError); !ok {
		t.Errorf("error type = %T, want *BadSemanticModuleError", err)
	}
}

func countOp(region *ir.Region, d dialect.Dialect, op dialect.Op) int {
	n := 0
	for _, i := range region.Instructions() {
		if i.Dialect == d && i.Op == op {
			n++
		}
	}
	return n
}
