package gcndecode

import (
	"runtime"
	"testing"

	"github.com/RPCSX/rpcsx-sub002/dialect"
)

// BenchmarkDecodeEndpgm benchmarks the shortest possible instruction: a
// single Sopp word with no literal, the common case for a loop's back edge.
func BenchmarkDecodeEndpgm(b *testing.B) {
	read := wordReader(0xBF810000)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		inst, err := Decode(read, 0)
		if err != nil {
			b.Fatalf("Decode: %v", err)
		}
		runtime.KeepAlive(inst)
	}
}

// BenchmarkDecodeMovImmediate benchmarks a Sop1 instruction carrying a
// trailing 32-bit literal, the worst case for operand decoding's extra word
// read.
func BenchmarkDecodeMovImmediate(b *testing.B) {
	sop1Top9 := uint32(0b1_01111_101)
	word := (sop1Top9 << 23) | (uint32(dialect.Sop1Mov) << 8) | 255
	read := wordReader(word, 42)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		inst, err := Decode(read, 0)
		if err != nil {
			b.Fatalf("Decode: %v", err)
		}
		runtime.KeepAlive(inst)
	}
}

// BenchmarkDecodeMixedStream benchmarks a representative instruction
// sequence (one plain mov, one literal-carrying mov, one endpgm), the
// pattern liftBlock's decode loop walks over a real block.
func BenchmarkDecodeMixedStream(b *testing.B) {
	sop1Top9 := uint32(0b1_01111_101)
	movReg := (sop1Top9 << 23) | (uint32(dialect.Sop1Mov) << 8) | 1
	movImm := (sop1Top9 << 23) | (uint32(dialect.Sop1Mov) << 8) | 255
	endpgm := uint32(0xBF810000)
	read := wordReader(movReg, movImm, 42, endpgm)

	addrs := []uint64{0, 4, 12}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, addr := range addrs {
			inst, err := Decode(read, addr)
			if err != nil {
				b.Fatalf("Decode at %#x: %v", addr, err)
			}
			runtime.KeepAlive(inst)
		}
	}
}
