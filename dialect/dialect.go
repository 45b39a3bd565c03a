// Package dialect defines the closed set of instruction dialects the IR
// kernel tags every instruction with, and the per-dialect opcode and
// mnemonic tables the lifter, semantic loader, and serializer read from.
//
// An instruction's identity is the pair (Dialect, Op): the dialect picks
// which table Op is looked up in. Op numbers are not required to be dense
// or exhaustive — the GCN family tables only name the opcodes this
// recompiler's lifter and tests exercise; an unrecognized Op still decodes
// and lifts (as an opaque call into the semantic module keyed by raw
// mnemonic), it simply has no entry in Mnemonic for debug printing.
package dialect

// Dialect distinguishes which opcode table an instruction's Op belongs to.
type Dialect uint8

const (
	// Spv tags instructions whose Op is a SPIR-V opcode (§4.3, §6).
	Spv Dialect = iota
	// Sop1 tags GCN scalar ALU, 1 source, 1 destination.
	Sop1
	// Sop2 tags GCN scalar ALU, 2 sources, 1 destination.
	Sop2
	// Sopc tags GCN scalar comparison (writes SCC only).
	Sopc
	// Sopk tags GCN scalar ALU with a 16-bit immediate.
	Sopk
	// Sopp tags GCN scalar program control (branches, waits, endpgm).
	Sopp
	// Vop1 tags GCN vector ALU, 1 source, 1 destination.
	Vop1
	// Vop2 tags GCN vector ALU, 2 sources, 1 destination.
	Vop2
	// Vop3 tags GCN vector ALU, up to 3 sources, extended encoding.
	Vop3
	// Vopc tags GCN vector comparison (writes VCC).
	Vopc
	// Smrd tags GCN scalar memory reads (constant/buffer loads).
	Smrd
	// Mubuf tags GCN untyped buffer memory access.
	Mubuf
	// Mtbuf tags GCN typed buffer memory access.
	Mtbuf
	// Mimg tags GCN image/texture memory access.
	Mimg
	// Ds tags GCN local/shared (LDS) and GDS memory access.
	Ds
	// Exp tags GCN parameter/render-target export.
	Exp
	// Vintrp tags GCN vertex attribute interpolation.
	Vintrp
	// AmdGpu tags recompiler-internal pseudo-ops with no GCN or SPIR-V
	// encoding of their own: BRANCH, VBUFFER, TBUFFER, SAMPLER, NEG_ABS,
	// OMOD, USER_SGPR, IMM, MOVREL (spec §4.5).
	AmdGpu
	// MemSSA tags the internal memory-SSA markers the MemorySSA analysis
	// attaches to loads/stores (spec §4.7); never serialized.
	MemSSA
)

// String returns the dialect's name as used in debug dumps.
func (d Dialect) String() string {
	switch d {
	case Spv:
		return "spv"
	case Sop1:
		return "sop1"
	case Sop2:
		return "sop2"
	case Sopc:
		return "sopc"
	case Sopk:
		return "sopk"
	case Sopp:
		return "sopp"
	case Vop1:
		return "vop1"
	case Vop2:
		return "vop2"
	case Vop3:
		return "vop3"
	case Vopc:
		return "vopc"
	case Smrd:
		return "smrd"
	case Mubuf:
		return "mubuf"
	case Mtbuf:
		return "mtbuf"
	case Mimg:
		return "mimg"
	case Ds:
		return "ds"
	case Exp:
		return "exp"
	case Vintrp:
		return "vintrp"
	case AmdGpu:
		return "amdgpu"
	case MemSSA:
		return "memssa"
	default:
		return "unknown-dialect"
	}
}

// Op is a dialect-relative opcode number. Its meaning depends on the
// Dialect it is paired with.
type Op uint16

// Access describes how an instruction's operand is used, per spec §3/§4.4.
type Access uint8

const (
	AccessRead Access = 1 << iota
	AccessWrite
)

const AccessReadWrite = AccessRead | AccessWrite

// Mnemonic returns the canonical lower_snake_case mnemonic for (d, op), or
// "" if the pair has no table entry (still a legal, decodable instruction;
// see package doc).
func Mnemonic(d Dialect, op Op) string {
	switch d {
	case Spv:
		return spvMnemonics[op]
	case Sop1:
		return sop1Mnemonics[op]
	case Sop2:
		return sop2Mnemonics[op]
	case Sopc:
		return sopcMnemonics[op]
	case Sopk:
		return sopkMnemonics[op]
	case Sopp:
		return soppMnemonics[op]
	case Vop1:
		return vop1Mnemonics[op]
	case Vop2:
		return vop2Mnemonics[op]
	case Vop3:
		return vop3Mnemonics[op]
	case Vopc:
		return vopcMnemonics[op]
	case Smrd:
		return smrdMnemonics[op]
	case Mubuf:
		return mubufMnemonics[op]
	case Mtbuf:
		return mtbufMnemonics[op]
	case Mimg:
		return mimgMnemonics[op]
	case Ds:
		return dsMnemonics[op]
	case Exp:
		return "exp"
	case Vintrp:
		return vintrpMnemonics[op]
	case AmdGpu:
		return amdGpuMnemonics[op]
	case MemSSA:
		return memSSAMnemonics[op]
	default:
		return ""
	}
}
