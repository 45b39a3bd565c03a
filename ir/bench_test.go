package ir

import (
	"runtime"
	"testing"

	"github.com/RPCSX/rpcsx-sub002/dialect"
)

// BenchmarkTypeInternFresh benchmarks interning a distinct scalar type on
// every call, the worst case for the type arena (every call grows it).
func BenchmarkTypeInternFresh(b *testing.B) {
	ctx := NewContext()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		t := ctx.TypeInt(uint32(32+i%32), i%2 == 0)
		runtime.KeepAlive(t)
	}
}

// BenchmarkTypeInternRepeat benchmarks the common case: interning the same
// handful of types repeatedly, which a lift's registerType calls do for
// every scalar/bool/pointer register access.
func BenchmarkTypeInternRepeat(b *testing.B) {
	ctx := NewContext()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		u32 := ctx.TypeInt(32, false)
		f32 := ctx.TypeFloat(32)
		boolT := ctx.TypeBool()
		ptr := ctx.TypePointer(dialect.StorageClassPrivate, u32)
		runtime.KeepAlive(f32)
		runtime.KeepAlive(boolT)
		runtime.KeepAlive(ptr)
	}
}

// BenchmarkTypeInternCompound benchmarks a TypeFunction lookup, the most
// expensive InternType case since its identity depends on a result type
// plus a parameter slice.
func BenchmarkTypeInternCompound(b *testing.B) {
	ctx := NewContext()
	u32 := ctx.TypeInt(32, false)
	ptrU32 := ctx.TypePointer(dialect.StorageClassFunction, u32)
	void := ctx.TypeVoid()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		fn := ctx.TypeFunction(void, []*Type{ptrU32, u32})
		runtime.KeepAlive(fn)
	}
}

// BenchmarkConstantInternRepeat benchmarks re-interning the same constant,
// the pattern evaluator.Evaluate's memoized folds and the lifter's
// AmdGpu.IMM handling exercise on every re-visit of a hot loop body.
func BenchmarkConstantInternRepeat(b *testing.B) {
	ctx := NewContext()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c := ctx.ConstantInt(32, false, 42)
		runtime.KeepAlive(c)
	}
}

// BenchmarkConstantInternFresh benchmarks interning a distinct constant
// value on every call, the worst case for the constant arena.
func BenchmarkConstantInternFresh(b *testing.B) {
	ctx := NewContext()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c := ctx.ConstantInt(32, false, uint64(i))
		runtime.KeepAlive(c)
	}
}
