package evaluator

import (
	"github.com/RPCSX/rpcsx-sub002/analyses"
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// Environment supplies the two host callbacks the evaluator needs to fold
// AmdGpu.USER_SGPR and AmdGpu.IMM (spec §4.6, §6).
type Environment interface {
	// UserSgpr returns the host-configured value of user-SGPR slot i.
	UserSgpr(i uint32) (uint32, bool)
	// ReadWord returns the 32-bit word at addr in the GCN binary's data
	// segment, for AmdGpu.IMM's literal-address folding.
	ReadWord(addr uint64) (uint32, bool)
}

// Evaluator folds Values to compile-time constants within one function,
// memoizing per instruction and recording which user-SGPR slots were
// actually read so the caller knows which ones must be bound.
type Evaluator struct {
	ctx   *ir.Context
	fn    *ir.Instruction
	env   Environment
	cache map[*ir.Instruction]Value

	UsedUserSgprs map[uint32]bool
}

// New returns an Evaluator for instructions within fn, an OpFunction.
func New(ctx *ir.Context, fn *ir.Instruction, env Environment) *Evaluator {
	return &Evaluator{
		ctx:           ctx,
		fn:            fn,
		env:           env,
		cache:         make(map[*ir.Instruction]Value),
		UsedUserSgprs: make(map[uint32]bool),
	}
}

// Evaluate folds instr to a constant Value, or returns Unknown if any input
// it depends on does not resolve. Results are cached: re-evaluating the same
// instruction is O(1) after the first call.
func (e *Evaluator) Evaluate(instr *ir.Instruction) Value {
	if instr == nil {
		return Unknown
	}
	if v, ok := e.cache[instr]; ok {
		return v
	}
	// Break cycles conservatively: a node reached while it is already being
	// evaluated resolves to Unknown rather than recursing forever.
	e.cache[instr] = Unknown
	v := e.evaluate(instr)
	e.cache[instr] = v
	return v
}

func (e *Evaluator) evaluate(instr *ir.Instruction) Value {
	if instr.Dialect == dialect.AmdGpu {
		return e.evaluateAmdGpu(instr)
	}
	if instr.Dialect != dialect.Spv {
		return Unknown
	}

	switch instr.Op {
	case ir.ConstOpBool, ir.ConstOpInt, ir.ConstOpFloat:
		return e.evaluateConstant(instr)

	case dialect.OpBitcast:
		src := e.Evaluate(instr.Operands[0].Value)
		if !src.Ok {
			return Unknown
		}
		return scalar(instr.Type, src.Bits)

	case dialect.OpSConvert, dialect.OpUConvert:
		return e.evaluateConvert(instr)

	case dialect.OpIAdd, dialect.OpISub, dialect.OpIMul, dialect.OpUDiv, dialect.OpSDiv,
		dialect.OpUMod, dialect.OpSMod,
		dialect.OpFAdd, dialect.OpFSub, dialect.OpFMul, dialect.OpFDiv, dialect.OpFMod,
		dialect.OpLogicalAnd, dialect.OpLogicalOr,
		dialect.OpIEqual, dialect.OpINotEqual,
		dialect.OpUGreaterThan, dialect.OpSGreaterThan, dialect.OpUGreaterThanEqual, dialect.OpSGreaterThanEqual,
		dialect.OpULessThan, dialect.OpSLessThan, dialect.OpULessThanEqual, dialect.OpSLessThanEqual,
		dialect.OpFOrdEqual, dialect.OpFUnordEqual, dialect.OpFOrdNotEqual, dialect.OpFUnordNotEqual,
		dialect.OpFOrdLessThan, dialect.OpFUnordLessThan,
		dialect.OpFOrdGreaterThan, dialect.OpFUnordGreaterThan,
		dialect.OpFOrdLessThanEqual, dialect.OpFUnordLessThanEqual,
		dialect.OpFOrdGreaterThanEqual, dialect.OpFUnordGreaterThanEqual,
		dialect.OpShiftRightLogical, dialect.OpShiftRightArithmetic, dialect.OpShiftLeftLogical,
		dialect.OpBitwiseOr, dialect.OpBitwiseXor, dialect.OpBitwiseAnd:
		return e.evaluateBinary(instr)

	case dialect.OpIsNan, dialect.OpIsInf, dialect.OpIsFinite:
		return e.evaluateFloatClassify(instr)

	case dialect.OpCompositeConstruct:
		elems := make([]Value, len(instr.Operands))
		for i, op := range instr.Operands {
			v := e.Evaluate(op.Value)
			if !v.Ok {
				return Unknown
			}
			elems[i] = v
		}
		return Value{Ok: true, Type: instr.Type, Elems: elems}

	case dialect.OpCompositeExtract:
		base := e.Evaluate(instr.Operands[0].Value)
		if !base.Ok {
			return Unknown
		}
		cur := base
		for _, op := range instr.Operands[1:] {
			idx := int(op.I32)
			if idx < 0 || idx >= len(cur.Elems) {
				return Unknown
			}
			cur = cur.Elems[idx]
		}
		return cur

	case dialect.OpLoad:
		return e.evaluateLoad(instr)

	default:
		return Unknown
	}
}

func (e *Evaluator) evaluateConstant(instr *ir.Instruction) Value {
	switch instr.Op {
	case ir.ConstOpBool:
		b := uint64(0)
		if instr.Operands[0].Bool {
			b = 1
		}
		return scalar(instr.Type, b)
	case ir.ConstOpInt:
		return scalar(instr.Type, uint64(instr.Operands[0].I64))
	case ir.ConstOpFloat:
		if instr.Type.Width > 32 {
			return scalar(instr.Type, doubleBits(instr.Operands[0].F64))
		}
		return scalar(instr.Type, uint64(floatBits(instr.Operands[0].F32)))
	}
	return Unknown
}

func (e *Evaluator) evaluateConvert(instr *ir.Instruction) Value {
	src := e.Evaluate(instr.Operands[0].Value)
	if !src.Ok {
		return Unknown
	}
	dst := instr.Type
	if dst.Width >= src.Type.Width {
		if src.Type.Signed && instr.Op == dialect.OpSConvert {
			return scalar(dst, uint64(signExtend(src.Bits, src.Type.Width)))
		}
		return scalar(dst, src.Bits&widthMask(src.Type.Width))
	}
	return scalar(dst, src.Bits&widthMask(dst.Width))
}

// evaluateLoad resolves an OpLoad through the enclosing function's memory-SSA
// form: it only folds when the reaching definition is a store to this exact
// pointer instruction, never by reasoning about aliasing between distinct
// pointers (spec §4.6).
func (e *Evaluator) evaluateLoad(instr *ir.Instruction) Value {
	ssa := analyses.MemorySSAOf(e.ctx, e.fn)
	state, ok := ssa.ByInstr[instr]
	if !ok || state.Reaching == nil {
		return Unknown
	}
	reaching := state.Reaching
	if reaching.Op != dialect.MemSSADef || reaching.Instr == nil {
		return Unknown
	}
	store := reaching.Instr
	if store.Operands[0].Value != instr.Operands[0].Value {
		return Unknown
	}
	return e.Evaluate(store.Operands[1].Value)
}

func (e *Evaluator) evaluateAmdGpu(instr *ir.Instruction) Value {
	switch instr.Op {
	case dialect.AmdGpuUserSgpr:
		slot := uint32(instr.Operands[0].I32)
		v, ok := e.env.UserSgpr(slot)
		if !ok {
			return Unknown
		}
		e.UsedUserSgprs[slot] = true
		return scalar(instr.Type, uint64(v))

	case dialect.AmdGpuImm:
		addr, ok := e.resolveAddress(instr.Operands[0])
		if !ok {
			return Unknown
		}
		v, ok := e.env.ReadWord(addr)
		if !ok {
			return Unknown
		}
		return scalar(instr.Type, uint64(v))

	default:
		return Unknown
	}
}

func (e *Evaluator) resolveAddress(op ir.Operand) (uint64, bool) {
	switch op.Kind {
	case ir.OperandI64Kind:
		return uint64(op.I64), true
	case ir.OperandI32Kind:
		return uint64(uint32(op.I32)), true
	case ir.OperandValueKind:
		v := e.Evaluate(op.Value)
		if !v.Ok {
			return 0, false
		}
		return v.Bits, true
	default:
		return 0, false
	}
}
