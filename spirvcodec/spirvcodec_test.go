package spirvcodec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// buildSampleModule constructs a small but representative module exercising
// most regions (extensions, extended-instruction imports and annotations
// stay empty): a capability, a memory model, an entry point and
// execution mode, a Private global, debug names, and a function body doing
// real arithmetic over a constant and a loaded global.
func buildSampleModule(t *testing.T) (*ir.Context, *Module) {
	t.Helper()

	ctx := ir.NewContext()
	m := NewModule(ctx)

	capB := ir.NewBuilderAtEnd(ctx, m.Capabilities)
	capB.Append(capB.New(dialect.Spv, dialect.OpCapability, nil,
		[]ir.Operand{ir.OperandI32(int32(dialect.CapabilityShader))}, ir.UnknownLocation))

	mmB := ir.NewBuilderAtEnd(ctx, m.MemoryModel)
	mmB.Append(mmB.New(dialect.Spv, dialect.OpMemoryModel, nil, []ir.Operand{
		ir.OperandI32(int32(dialect.AddressingModelLogical)),
		ir.OperandI32(int32(dialect.MemoryModelGLSL450)),
	}, ir.UnknownLocation))

	u32 := ctx.TypeInt(32, false)
	ptrU32 := ctx.TypePointer(dialect.StorageClassPrivate, u32)

	globals := ir.NewBuilderAtEnd(ctx, m.Globals)
	counter := globals.Append(globals.New(dialect.Spv, dialect.OpVariable, ptrU32,
		[]ir.Operand{ir.OperandI32(int32(dialect.StorageClassPrivate))}, ir.UnknownLocation))

	fnType := ctx.TypeFunction(nil, nil)
	fb := ir.NewBuilderAtEnd(ctx, m.Functions)
	fn := fb.Append(fb.New(dialect.Spv, dialect.OpFunction, ctx.TypeVoid(),
		[]ir.Operand{ir.OperandI32(0), ir.OperandType(fnType)}, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation))
	loaded := fb.Append(fb.New(dialect.Spv, dialect.OpLoad, u32, []ir.Operand{ir.OperandValue(counter)}, ir.UnknownLocation))
	one := ctx.ConstantInt(32, false, 1)
	sum := fb.Append(fb.New(dialect.Spv, dialect.OpIAdd, u32,
		[]ir.Operand{ir.OperandValue(loaded), ir.OperandValue(one)}, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpStore, nil,
		[]ir.Operand{ir.OperandValue(counter), ir.OperandValue(sum)}, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpReturn, nil, nil, ir.UnknownLocation))
	fb.Append(fb.New(dialect.Spv, dialect.OpFunctionEnd, nil, nil, ir.UnknownLocation))

	epB := ir.NewBuilderAtEnd(ctx, m.EntryPoints)
	epB.Append(epB.New(dialect.Spv, dialect.OpEntryPoint, nil, []ir.Operand{
		ir.OperandI32(int32(dialect.ExecutionModelGLCompute)), ir.OperandValue(fn), ir.OperandString("main"),
		ir.OperandValue(counter),
	}, ir.UnknownLocation))

	emB := ir.NewBuilderAtEnd(ctx, m.ExecutionModes)
	emB.Append(emB.New(dialect.Spv, dialect.OpExecutionMode, nil, []ir.Operand{
		ir.OperandValue(fn), ir.OperandI32(int32(dialect.ExecutionModeLocalSize)),
		ir.OperandI32(1), ir.OperandI32(1), ir.OperandI32(1),
	}, ir.UnknownLocation))

	debugs := ir.NewBuilderAtEnd(ctx, m.Debugs)
	debugs.Append(debugs.New(dialect.Spv, dialect.OpName, nil,
		[]ir.Operand{ir.OperandValue(fn), ir.OperandString("main")}, ir.UnknownLocation))
	debugs.Append(debugs.New(dialect.Spv, dialect.OpName, nil,
		[]ir.Operand{ir.OperandValue(counter), ir.OperandString("counter")}, ir.UnknownLocation))

	return ctx, m
}

// dumpModule renders every region of m, in serialization order, through
// ctx.Dump, giving a structural text form independent of id numbering that
// a round trip (which reallocates every id) can still be compared against.
func dumpModule(t *testing.T, ctx *ir.Context, m *Module) string {
	t.Helper()
	var buf bytes.Buffer
	for _, r := range m.regions() {
		if err := ctx.Dump(&buf, r); err != nil {
			t.Fatalf("Dump: %v", err)
		}
	}
	return buf.String()
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	ctx, m := buildSampleModule(t)
	want := dumpModule(t, ctx, m)

	data, err := Serialize(ctx, m)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	ctx2, m2, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	got := dumpModule(t, ctx2, m2)

	if diff := cmp.Diff(want, got); diff != "" {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(want, got, false)
		t.Errorf("round trip changed the module's structural dump (-want +got):\n%s\n\nunified diff:\n%s",
			diff, dmp.DiffPrettyText(diffs))
	}
}

func TestSerializeDeserializeRoundTripIsStableUnderRepeat(t *testing.T) {
	// Serializing an already-round-tripped module a second time should
	// reach a fixpoint: no further structural drift once every id has been
	// reallocated once.
	ctx, m := buildSampleModule(t)
	data1, err := Serialize(ctx, m)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	ctx2, m2, err := Deserialize(data1)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	data2, err := Serialize(ctx2, m2)
	if err != nil {
		t.Fatalf("Serialize (second pass): %v", err)
	}
	ctx3, m3, err := Deserialize(data2)
	if err != nil {
		t.Fatalf("Deserialize (second pass): %v", err)
	}

	first := dumpModule(t, ctx2, m2)
	second := dumpModule(t, ctx3, m3)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second round trip drifted from the first (-first +second):\n%s", diff)
	}
}

func TestDeserializeRejectsTruncatedHeader(t *testing.T) {
	_, _, err := Deserialize([]byte{0x03, 0x02, 0x23, 0x07})
	if err == nil {
		t.Fatal("Deserialize succeeded on a 4-byte input, want a DeserializeError")
	}
	if !strings.Contains(err.Error(), "header") {
		t.Errorf("error = %q, want it to mention the truncated header", err)
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	data := make([]byte, 20)
	_, _, err := Deserialize(data)
	if err == nil {
		t.Fatal("Deserialize succeeded with an all-zero header, want a DeserializeError for bad magic")
	}
}
