package gcndecode

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

// OperandKind distinguishes the closed GCN operand variant (spec §3).
type OperandKind uint8

const (
	OperandConstant OperandKind = iota
	OperandImmediate
	OperandSpecial
	OperandSgpr
	OperandVgpr
	OperandAttr
	OperandBuffer
	OperandTexture128
	OperandTexture256
	OperandSampler
	OperandPointer
)

// Operand is one decoded GCN instruction operand. Which fields are
// meaningful depends on Kind; see the per-kind comments on the fields below.
type Operand struct {
	Kind   OperandKind
	Access dialect.Access

	// OperandConstant
	ConstantBits uint32

	// OperandImmediate: the instruction's trailing literal word. Its value
	// is not stored here — ImmediateAddress names the stream address it
	// sits at, and the lifter reads the word from there.
	ImmediateAddress uint64

	// OperandSpecial
	Special regfile.Register

	// OperandSgpr / OperandVgpr: register index.
	Index uint32

	// OperandAttr
	AttrID      uint32
	AttrChannel uint32

	// OperandBuffer / OperandTexture128 / OperandTexture256 / OperandSampler:
	// index of the first constituent SGPR; the composite spans 4 (Buffer),
	// 4 (Texture128), 8 (Texture256), or 4 (Sampler) consecutive SGPRs.
	BaseSgpr uint32

	// OperandPointer
	PointerBaseSgpr   uint32
	PointerOffsetSgpr uint32
	PointeeSize       uint32

	// Floating-point modifiers, valid on any scalar/vector source operand.
	Neg   bool
	Abs   bool
	Clamp bool
	Omod  uint8
}
