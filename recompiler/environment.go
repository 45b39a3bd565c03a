package recompiler

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/gcndecode"
)

// userSgprSlots mirrors lifter.userSgprSlots; kept in sync by the
// "up to 16 words" field comment below.
const userSgprSlots = 16

// Environment is the host-supplied configuration for one compile (spec §6):
// shader stage, feature bits, user-SGPR initial values, and the fixed
// register counts the entry block stores. Exported fields only, so a caller
// (cmd/gcnspv) can decode one straight off an encoding/json.Unmarshal without
// a custom codec.
type Environment struct {
	// Stage selects the SPIR-V execution model the entry point declares.
	Stage dialect.ExecutionModel

	// Barycentric reports whether the caller's pipeline exposes barycentric
	// coordinates to a fragment shader. Neither Compile nor the lifter reads
	// it.
	Barycentric bool

	// UserSgprs holds up to 16 host-configured words seeded into
	// Sgpr[0..16) before the lifted program runs.
	UserSgprs [userSgprSlots]uint32

	// Sgprs and Vgprs are the configured scalar/vector register counts,
	// stored into RegSgprCount/RegVgprCount by the entry block.
	Sgprs uint32
	Vgprs uint32

	// LocalSize is the compute workgroup size, consulted only when Stage is
	// dialect.ExecutionModelGLCompute.
	LocalSize [3]uint32
}

// UserSgpr implements evaluator.Environment: slot i's configured value, or
// false if i is out of range.
func (e *Environment) UserSgpr(i uint32) (uint32, bool) {
	if i >= userSgprSlots {
		return 0, false
	}
	return e.UserSgprs[i], true
}

// SgprCount implements lifter.Environment.
func (e *Environment) SgprCount() uint32 { return e.Sgprs }

// VgprCount implements lifter.Environment.
func (e *Environment) VgprCount() uint32 { return e.Vgprs }

// DefaultEnvironment returns a fragment-stage Environment with zeroed
// user-SGPRs and a generous register budget, the shape a caller typically
// starts from before overriding Stage and the counts that matter.
func DefaultEnvironment() Environment {
	return Environment{
		Stage: dialect.ExecutionModelFragment,
		Sgprs: 16,
		Vgprs: 64,
	}
}

// dataEnvironment adapts an *Environment plus the caller's single
// read_word callback (spec §6: "A GCN binary, accessible only through
// fn read_word(u64) -> u32" — the same callback backs both instruction
// fetch and AmdGpu.IMM's data-segment reads) into lifter.Environment.
type dataEnvironment struct {
	*Environment
	read gcndecode.ReadWord
}

// ReadWord implements evaluator.Environment.
func (e dataEnvironment) ReadWord(addr uint64) (uint32, bool) {
	return e.read(addr), true
}
