package ir

import (
	"math"
	"strconv"

	"github.com/RPCSX/rpcsx-sub002/dialect"
)

// Constants are modeled as ordinary Instructions tagged (dialect.Spv,
// ConstOp*) rather than a separate node type, per the "every IR entity is a
// node" contract. These Op values are internal bookkeeping, not SPIR-V
// opcode numbers (real SPIR-V opcodes top out well below 1000); spirvcodec
// maps them to OpConstantTrue/OpConstantFalse/OpConstant on emission.
const (
	ConstOpBool  dialect.Op = 1000
	ConstOpInt   dialect.Op = 1001
	ConstOpFloat dialect.Op = 1002
)

// constInterner deduplicates constant Instructions by (type, value) key, the
// same structural-equality contract as typeInterner, and remembers creation
// order so spirvcodec can emit declarations before first use.
type constInterner struct {
	byKey map[string]*Instruction
	order []*Instruction
}

func newConstInterner() *constInterner {
	return &constInterner{byKey: make(map[string]*Instruction, 16)}
}

func (in *constInterner) intern(key string, build func() *Instruction) *Instruction {
	if i, ok := in.byKey[key]; ok {
		return i
	}
	i := build()
	in.byKey[key] = i
	in.order = append(in.order, i)
	return i
}

// ConstantBool returns the interned boolean constant.
func (c *Context) ConstantBool(v bool) *Instruction {
	key := "cbool:" + strconv.FormatBool(v)
	return c.consts.intern(key, func() *Instruction {
		return &Instruction{
			Dialect:  dialect.Spv,
			Op:       ConstOpBool,
			Type:     c.TypeBool(),
			Operands: []Operand{OperandBool(v)},
			Loc:      UnknownLocation,
		}
	})
}

// ConstantInt returns the interned integer constant of the given width,
// signedness, and bit-pattern value.
func (c *Context) ConstantInt(width uint32, signed bool, value uint64) *Instruction {
	t := c.TypeInt(width, signed)
	key := "cint:" + t.key() + ":" + strconv.FormatUint(value, 16)
	return c.consts.intern(key, func() *Instruction {
		return &Instruction{
			Dialect:  dialect.Spv,
			Op:       ConstOpInt,
			Type:     t,
			Operands: []Operand{OperandI64(int64(value))},
			Loc:      UnknownLocation,
		}
	})
}

// ConstantFloat32 returns the interned 32-bit float constant.
func (c *Context) ConstantFloat32(v float32) *Instruction {
	t := c.TypeFloat(32)
	key := "cf32:" + strconv.FormatUint(uint64(math.Float32bits(v)), 16)
	return c.consts.intern(key, func() *Instruction {
		return &Instruction{
			Dialect:  dialect.Spv,
			Op:       ConstOpFloat,
			Type:     t,
			Operands: []Operand{OperandF32(v)},
			Loc:      UnknownLocation,
		}
	})
}

// ConstantFloat64 returns the interned 64-bit float constant.
func (c *Context) ConstantFloat64(v float64) *Instruction {
	t := c.TypeFloat(64)
	key := "cf64:" + strconv.FormatUint(math.Float64bits(v), 16)
	return c.consts.intern(key, func() *Instruction {
		return &Instruction{
			Dialect:  dialect.Spv,
			Op:       ConstOpFloat,
			Type:     t,
			Operands: []Operand{OperandF64(v)},
			Loc:      UnknownLocation,
		}
	})
}

// InternConstant re-interns src, one of the four ConstOp* instructions, into
// c, the same cross-context import InternType does for types: it is not
// enough to deep-copy a constant's Instruction struct, since spirvcodec
// emits declarations from ConstantsInOrder(), which only a constant created
// through one of the constructors above ever joins. Instructions that are
// not a recognized constant op are returned unchanged (the caller, CloneMap,
// only calls this on operands already known to need it).
func (c *Context) InternConstant(src *Instruction) *Instruction {
	switch src.Op {
	case ConstOpBool:
		return c.ConstantBool(src.Operands[0].Bool)
	case ConstOpInt:
		t := src.Type
		return c.ConstantInt(t.Width, t.Signed, uint64(src.Operands[0].I64))
	case ConstOpFloat:
		if src.Type.Width == 64 {
			return c.ConstantFloat64(src.Operands[0].F64)
		}
		return c.ConstantFloat32(src.Operands[0].F32)
	default:
		return src
	}
}

// IsConstant reports whether i is one of the four ConstOp* instructions.
func IsConstant(i *Instruction) bool {
	switch i.Op {
	case ConstOpBool, ConstOpInt, ConstOpFloat:
		return true
	default:
		return false
	}
}
