// Package regfile defines the closed set of logical GCN registers the
// recompiler exposes to the lifter and semantic modules.
//
// Every register is realized as one SPIR-V Private-storage variable whose
// type is fixed by the register's kind (see Kind). The mapping from a
// Register to its realized SPIR-V type lives here so the lifter, the
// semantic-module loader, and the IR kernel agree on a single layout.
package regfile

// Register names one entry in the closed GCN register-file enum.
type Register uint32

const (
	// RegInvalid is the zero value and never a valid register.
	RegInvalid Register = iota

	// RegSgprBase is the first of 256 scalar registers: Sgpr[0..256).
	// Use Sgpr(i) to build a specific index.
	RegSgprBase

	// RegVgprBase is the first of 512 per-lane vector registers, each
	// holding one 32-bit slot per lane across 64 lanes: Vgpr[0..512).
	// Use Vgpr(i) to build a specific index.
	RegVgprBase = RegSgprBase + 256

	RegM0 = RegVgprBase + 512 + iota
	RegScc
	RegVccLo
	RegVccHi
	RegExecLo
	RegExecHi
	RegVccZ
	RegExecZ
	RegLdsDirect
	RegSgprCount
	RegVgprCount
	RegThreadID
	RegMemoryTable
	RegGds

	regSgprEnd = RegSgprBase + 256
	regVgprEnd = RegVgprBase + 512
)

// Sgpr returns the Register naming scalar register i (0..255).
func Sgpr(i uint32) Register {
	if i >= 256 {
		panic("regfile: sgpr index out of range")
	}
	return RegSgprBase + Register(i)
}

// Vgpr returns the Register naming vector register i (0..511).
func Vgpr(i uint32) Register {
	if i >= 512 {
		panic("regfile: vgpr index out of range")
	}
	return RegVgprBase + Register(i)
}

// IsSgpr reports whether r names a scalar register, and its index if so.
func IsSgpr(r Register) (index uint32, ok bool) {
	if r >= RegSgprBase && r < regSgprEnd {
		return uint32(r - RegSgprBase), true
	}
	return 0, false
}

// IsVgpr reports whether r names a vector register, and its index if so.
func IsVgpr(r Register) (index uint32, ok bool) {
	if r >= RegVgprBase && r < regVgprEnd {
		return uint32(r - RegVgprBase), true
	}
	return 0, false
}

// Kind describes the SPIR-V-visible shape of a register's storage.
type Kind uint8

const (
	// KindScalarU32 is a single 32-bit unsigned integer slot.
	KindScalarU32 Kind = iota
	// KindScalarBool is a single bool slot (Scc, VccZ, ExecZ).
	KindScalarBool
	// KindPairU32 is two 32-bit unsigned integer slots (Vcc, Exec).
	KindPairU32
	// KindVectorU32Lanes is one 32-bit slot per lane, 64 lanes (Vgpr).
	KindVectorU32Lanes
	// KindOpaquePointer is an implementation-defined pointer-sized handle
	// (MemoryTable, Gds).
	KindOpaquePointer
)

// LayoutOf returns the storage kind realized for register r.
func LayoutOf(r Register) Kind {
	if _, ok := IsSgpr(r); ok {
		return KindScalarU32
	}
	if _, ok := IsVgpr(r); ok {
		return KindVectorU32Lanes
	}
	switch r {
	case RegScc, RegVccZ, RegExecZ:
		return KindScalarBool
	case RegVccLo, RegVccHi, RegExecLo, RegExecHi:
		return KindScalarU32
	case RegM0, RegLdsDirect, RegSgprCount, RegVgprCount, RegThreadID:
		return KindScalarU32
	case RegMemoryTable, RegGds:
		return KindOpaquePointer
	default:
		return KindScalarU32
	}
}

// Name returns a debug-friendly name for r, matching the mnemonics a GCN
// disassembler would print (s0, v12, vcc_lo, ...).
func Name(r Register) string {
	if i, ok := IsSgpr(r); ok {
		return sgprName(i)
	}
	if i, ok := IsVgpr(r); ok {
		return vgprName(i)
	}
	switch r {
	case RegM0:
		return "m0"
	case RegScc:
		return "scc"
	case RegVccLo:
		return "vcc_lo"
	case RegVccHi:
		return "vcc_hi"
	case RegExecLo:
		return "exec_lo"
	case RegExecHi:
		return "exec_hi"
	case RegVccZ:
		return "vccz"
	case RegExecZ:
		return "execz"
	case RegLdsDirect:
		return "lds_direct"
	case RegSgprCount:
		return "sgpr_count"
	case RegVgprCount:
		return "vgpr_count"
	case RegThreadID:
		return "thread_id"
	case RegMemoryTable:
		return "memory_table"
	case RegGds:
		return "gds"
	default:
		return "invalid"
	}
}

func sgprName(i uint32) string { return "s" + itoa(i) }
func vgprName(i uint32) string { return "v" + itoa(i) }

// itoa avoids pulling in strconv for this tiny hot path used only in debug
// name formatting; registers/itoa are allocation-free for the whole 0..511
// range that matters here.
func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
