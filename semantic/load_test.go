package semantic

import (
	"testing"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/regfile"
	"github.com/RPCSX/rpcsx-sub002/spirvcodec"
)

// buildAddF32Module builds a one-function semantic module: f32 v_add_f32(f32
// a, f32 b) { return a + b; }, with scc exposed as a read-only global so
// register discovery has something to find.
func buildAddF32Module(t *testing.T) []byte {
	t.Helper()

	ctx := ir.NewContext()
	m := spirvcodec.NewModule(ctx)

	f32 := ctx.TypeFloat(32)
	fnType := ctx.TypeFunction(f32, []*ir.Type{f32, f32})

	globals := ir.NewBuilderAtEnd(ctx, m.Globals)
	sccPtr := ctx.TypePointer(dialect.StorageClassPrivate, ctx.TypeBool())
	sccVar := globals.Append(globals.New(dialect.Spv, dialect.OpVariable, sccPtr,
		[]ir.Operand{ir.OperandI32(int32(dialect.StorageClassPrivate))}, ir.UnknownLocation))

	fb := ir.NewBuilderAtEnd(ctx, m.Functions)
	fn := fb.Append(fb.New(dialect.Spv, dialect.OpFunction, f32,
		[]ir.Operand{ir.OperandI32(0), ir.OperandType(fnType)}, ir.UnknownLocation))
	a := fb.Append(fb.New(dialect.Spv, dialect.OpFunctionParameter, f32, nil, ir.UnknownLocation))
	b := fb.Append(fb.New(dialect.Spv, dialect.OpFunctionParameter, f32, nil, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation))
	sum := fb.Append(fb.New(dialect.Spv, dialect.OpFAdd, f32,
		[]ir.Operand{ir.OperandValue(a), ir.OperandValue(b)}, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpReturnValue, nil,
		[]ir.Operand{ir.OperandValue(sum)}, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpFunctionEnd, nil, nil, ir.UnknownLocation))

	debugs := ir.NewBuilderAtEnd(ctx, m.Debugs)
	debugs.Append(debugs.New(dialect.Spv, dialect.OpName, nil,
		[]ir.Operand{ir.OperandValue(fn), ir.OperandString("v_add_f32")}, ir.UnknownLocation))
	debugs.Append(debugs.New(dialect.Spv, dialect.OpName, nil,
		[]ir.Operand{ir.OperandValue(sccVar), ir.OperandString("scc")}, ir.UnknownLocation))

	data, err := spirvcodec.Serialize(ctx, m)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return data
}

func TestLoadMatchesFullMnemonic(t *testing.T) {
	data := buildAddF32Module(t)

	mod, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s, ok := mod.Lookup(dialect.Vop2, dialect.Vop2AddF32)
	if !ok {
		t.Fatalf("Lookup(Vop2, Vop2AddF32) found nothing, want v_add_f32")
	}
	if s.Mnemonic != "v_add_f32" {
		t.Errorf("Mnemonic = %q, want v_add_f32", s.Mnemonic)
	}
	if len(s.Params) != 2 {
		t.Fatalf("len(Params) = %d, want 2", len(s.Params))
	}
	for i, p := range s.Params {
		if p.Access != dialect.AccessRead {
			t.Errorf("Params[%d].Access = %v, want AccessRead (non-pointer param)", i, p.Access)
		}
	}
	if rt := s.ReturnType(); rt == nil || rt.Kind != ir.TypeFloatKind || rt.Width != 32 {
		t.Errorf("ReturnType() = %v, want f32", rt)
	}

	if len(s.Registers) != 1 || s.Registers[0].Register != regfile.RegScc {
		t.Errorf("Registers = %v, want a single entry for scc", s.Registers)
	}
}

func TestLoadRejectsRegisterWidthMismatch(t *testing.T) {
	ctx := ir.NewContext()
	m := spirvcodec.NewModule(ctx)

	f32 := ctx.TypeFloat(32)
	fnType := ctx.TypeFunction(nil, []*ir.Type{f32})

	globals := ir.NewBuilderAtEnd(ctx, m.Globals)
	// scc is a KindScalarBool register; declaring it as a pointer-to-f32
	// variable must be rejected.
	badPtr := ctx.TypePointer(dialect.StorageClassPrivate, f32)
	sccVar := globals.Append(globals.New(dialect.Spv, dialect.OpVariable, badPtr,
		[]ir.Operand{ir.OperandI32(int32(dialect.StorageClassPrivate))}, ir.UnknownLocation))

	fb := ir.NewBuilderAtEnd(ctx, m.Functions)
	fn := fb.Append(fb.New(dialect.Spv, dialect.OpFunction, ctx.TypeVoid(),
		[]ir.Operand{ir.OperandI32(0), ir.OperandType(fnType)}, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpFunctionParameter, f32, nil, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpReturn, nil, nil, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpFunctionEnd, nil, nil, ir.UnknownLocation))

	debugs := ir.NewBuilderAtEnd(ctx, m.Debugs)
	debugs.Append(debugs.New(dialect.Spv, dialect.OpName, nil,
		[]ir.Operand{ir.OperandValue(fn), ir.OperandString("s_nop")}, ir.UnknownLocation))
	debugs.Append(debugs.New(dialect.Spv, dialect.OpName, nil,
		[]ir.Operand{ir.OperandValue(sccVar), ir.OperandString("scc")}, ir.UnknownLocation))

	data, err := spirvcodec.Serialize(ctx, m)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if _, err := Load(data); err == nil {
		t.Fatal("Load succeeded, want a BadSemanticModuleError for scc's mismatched type")
	} else if _, ok := err.(*BadSemanticModuleError); !ok {
		t.Errorf("Load error type = %T, want *BadSemanticModuleError", err)
	}
}

func TestMnemonicHelpers(t *testing.T) {
	if got := bareMnemonic("v_add_f32"); got != "add_f32" {
		t.Errorf("bareMnemonic(v_add_f32) = %q, want add_f32", got)
	}
	if got := bareMnemonic("s_mov_b32"); got != "mov_b32" {
		t.Errorf("bareMnemonic(s_mov_b32) = %q, want mov_b32", got)
	}
	if got := wideName(dialect.Vop3, "v_add_f32"); got != "vop3_add_f32" {
		t.Errorf("wideName(Vop3, v_add_f32) = %q, want vop3_add_f32", got)
	}
	if got := stripSignature("v_add_f32(ff)f"); got != "v_add_f32" {
		t.Errorf("stripSignature = %q, want v_add_f32", got)
	}
	if got := stripSignature("v_add_f32"); got != "v_add_f32" {
		t.Errorf("stripSignature = %q, want v_add_f32", got)
	}
}
