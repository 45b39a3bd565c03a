package evaluator

import (
	"runtime"
	"testing"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// BenchmarkEvaluateConstantArithmetic benchmarks folding a short chain of
// constant-folded arithmetic, the shape a lifted AmdGpu.BRANCH condition
// reduces to once its operands are all constants.
func BenchmarkEvaluateConstantArithmetic(b *testing.B) {
	ctx := ir.NewContext()
	region := ctx.NewRegion(ir.RegionBlock)
	fn, bld := buildFunc(ctx, region)

	i32 := ctx.TypeInt(32, false)
	c1 := ctx.ConstantInt(32, false, 10)
	c2 := ctx.ConstantInt(32, false, 32)
	add := bld.New(dialect.Spv, dialect.OpIAdd, i32, []ir.Operand{ir.OperandValue(c1), ir.OperandValue(c2)}, ir.UnknownLocation)
	bld.Append(add)
	c3 := ctx.ConstantInt(32, false, 4)
	mul := bld.New(dialect.Spv, dialect.OpIMul, i32, []ir.Operand{ir.OperandValue(add), ir.OperandValue(c3)}, ir.UnknownLocation)
	bld.Append(mul)
	finishFunc(bld)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e := New(ctx, fn, fakeEnv{})
		v := e.Evaluate(mul)
		if !v.Ok {
			b.Fatal("expected a resolved value")
		}
		runtime.KeepAlive(v)
	}
}

// BenchmarkEvaluateLoadThroughStore benchmarks resolving a load whose only
// reaching definition is a single prior store, the pattern AmdGpu.BRANCH
// target resolution exercises on every register read.
func BenchmarkEvaluateLoadThroughStore(b *testing.B) {
	ctx := ir.NewContext()
	region := ctx.NewRegion(ir.RegionBlock)
	fn, bld := buildFunc(ctx, region)

	i32 := ctx.TypeInt(32, false)
	ptrI32 := ctx.TypePointer(dialect.StorageClassPrivate, i32)
	v := bld.New(dialect.Spv, dialect.OpVariable, ptrI32, []ir.Operand{ir.OperandI32(int32(dialect.StorageClassPrivate))}, ir.UnknownLocation)
	bld.Append(v)
	c := ctx.ConstantInt(32, false, 7)
	store := bld.New(dialect.Spv, dialect.OpStore, nil, []ir.Operand{ir.OperandValue(v), ir.OperandValue(c)}, ir.UnknownLocation)
	bld.Append(store)
	load := bld.New(dialect.Spv, dialect.OpLoad, i32, []ir.Operand{ir.OperandValue(v)}, ir.UnknownLocation)
	bld.Append(load)
	finishFunc(bld)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e := New(ctx, fn, fakeEnv{})
		val := e.Evaluate(load)
		if !val.Ok {
			b.Fatal("expected a resolved value")
		}
		runtime.KeepAlive(val)
	}
}

// BenchmarkEvaluateRepeatedCacheHit benchmarks re-evaluating the same
// instruction on an already-warm Evaluator, the cost a single lift's
// repeated folds of one branch condition pay after the first call.
func BenchmarkEvaluateRepeatedCacheHit(b *testing.B) {
	ctx := ir.NewContext()
	region := ctx.NewRegion(ir.RegionBlock)
	fn, bld := buildFunc(ctx, region)

	i32 := ctx.TypeInt(32, false)
	c1 := ctx.ConstantInt(32, false, 5)
	c2 := ctx.ConstantInt(32, false, 6)
	add := bld.New(dialect.Spv, dialect.OpIAdd, i32, []ir.Operand{ir.OperandValue(c1), ir.OperandValue(c2)}, ir.UnknownLocation)
	bld.Append(add)
	finishFunc(bld)

	e := New(ctx, fn, fakeEnv{})
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		v := e.Evaluate(add)
		runtime.KeepAlive(v)
	}
}
