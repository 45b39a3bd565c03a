package evaluator

import (
	"math"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

func widthMask(width uint32) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

func signExtend(bits uint64, width uint32) int64 {
	if width >= 64 {
		return int64(bits)
	}
	shift := 64 - width
	return int64(bits<<shift) >> shift
}

func floatBits(f float32) uint32 { return math.Float32bits(f) }
func doubleBits(f float64) uint64 { return math.Float64bits(f) }

func boolBits(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// evaluateBinary folds the scalar arithmetic, comparison, shift, and bitwise
// SPIR-V ops the lifter's semantic calls produce. Both operands are
// evaluated through the same recursion as everything else; the op's own
// operand type tells us whether to read bits as signed, unsigned, or
// floating.
func (e *Evaluator) evaluateBinary(instr *ir.Instruction) Value {
	lhsInstr := instr.Operands[0].Value
	rhsInstr := instr.Operands[1].Value
	lhs := e.Evaluate(lhsInstr)
	if !lhs.Ok {
		return Unknown
	}
	rhs := e.Evaluate(rhsInstr)
	if !rhs.Ok {
		return Unknown
	}

	opType := lhsInstr.Type
	width := uint32(32)
	if opType != nil {
		width = opType.Width
	}

	switch instr.Op {
	case dialect.OpFAdd, dialect.OpFSub, dialect.OpFMul, dialect.OpFDiv, dialect.OpFMod,
		dialect.OpFOrdEqual, dialect.OpFUnordEqual, dialect.OpFOrdNotEqual, dialect.OpFUnordNotEqual,
		dialect.OpFOrdLessThan, dialect.OpFUnordLessThan,
		dialect.OpFOrdGreaterThan, dialect.OpFUnordGreaterThan,
		dialect.OpFOrdLessThanEqual, dialect.OpFUnordLessThanEqual,
		dialect.OpFOrdGreaterThanEqual, dialect.OpFUnordGreaterThanEqual:
		return e.evaluateFloatBinary(instr, lhs, rhs, width)
	}

	a := lhs.Bits & widthMask(width)
	b := rhs.Bits & widthMask(width)
	sa := signExtend(a, width)
	sb := signExtend(b, width)

	switch instr.Op {
	case dialect.OpIAdd:
		return scalar(instr.Type, (a+b)&widthMask(width))
	case dialect.OpISub:
		return scalar(instr.Type, (a-b)&widthMask(width))
	case dialect.OpIMul:
		return scalar(instr.Type, (a*b)&widthMask(width))
	case dialect.OpUDiv:
		if b == 0 {
			return Unknown
		}
		return scalar(instr.Type, a/b)
	case dialect.OpSDiv:
		if sb == 0 {
			return Unknown
		}
		return scalar(instr.Type, uint64(sa/sb)&widthMask(width))
	case dialect.OpUMod:
		if b == 0 {
			return Unknown
		}
		return scalar(instr.Type, a%b)
	case dialect.OpSMod:
		if sb == 0 {
			return Unknown
		}
		m := sa % sb
		if m != 0 && (m < 0) != (sb < 0) {
			m += sb
		}
		return scalar(instr.Type, uint64(m)&widthMask(width))
	case dialect.OpLogicalAnd:
		return scalar(instr.Type, boolBits(lhs.Bool() && rhs.Bool()))
	case dialect.OpLogicalOr:
		return scalar(instr.Type, boolBits(lhs.Bool() || rhs.Bool()))
	case dialect.OpIEqual:
		return scalar(instr.Type, boolBits(a == b))
	case dialect.OpINotEqual:
		return scalar(instr.Type, boolBits(a != b))
	case dialect.OpUGreaterThan:
		return scalar(instr.Type, boolBits(a > b))
	case dialect.OpSGreaterThan:
		return scalar(instr.Type, boolBits(sa > sb))
	case dialect.OpUGreaterThanEqual:
		return scalar(instr.Type, boolBits(a >= b))
	case dialect.OpSGreaterThanEqual:
		return scalar(instr.Type, boolBits(sa >= sb))
	case dialect.OpULessThan:
		return scalar(instr.Type, boolBits(a < b))
	case dialect.OpSLessThan:
		return scalar(instr.Type, boolBits(sa < sb))
	case dialect.OpULessThanEqual:
		return scalar(instr.Type, boolBits(a <= b))
	case dialect.OpSLessThanEqual:
		return scalar(instr.Type, boolBits(sa <= sb))
	case dialect.OpShiftRightLogical:
		return scalar(instr.Type, (a>>uint(b))&widthMask(width))
	case dialect.OpShiftRightArithmetic:
		return scalar(instr.Type, uint64(sa>>uint(b))&widthMask(width))
	case dialect.OpShiftLeftLogical:
		return scalar(instr.Type, (a<<uint(b))&widthMask(width))
	case dialect.OpBitwiseOr:
		return scalar(instr.Type, a|b)
	case dialect.OpBitwiseXor:
		return scalar(instr.Type, a^b)
	case dialect.OpBitwiseAnd:
		return scalar(instr.Type, a&b)
	default:
		return Unknown
	}
}

func (e *Evaluator) evaluateFloatBinary(instr *ir.Instruction, lhs, rhs Value, width uint32) Value {
	if width > 32 {
		a, b := lhs.Float64(), rhs.Float64()
		switch instr.Op {
		case dialect.OpFAdd:
			return scalar(instr.Type, doubleBits(a+b))
		case dialect.OpFSub:
			return scalar(instr.Type, doubleBits(a-b))
		case dialect.OpFMul:
			return scalar(instr.Type, doubleBits(a*b))
		case dialect.OpFDiv:
			return scalar(instr.Type, doubleBits(a/b))
		case dialect.OpFMod:
			return scalar(instr.Type, doubleBits(math.Mod(a, b)))
		case dialect.OpFOrdEqual:
			return scalar(instr.Type, boolBits(a == b))
		case dialect.OpFOrdNotEqual:
			return scalar(instr.Type, boolBits(!math.IsNaN(a) && !math.IsNaN(b) && a != b))
		case dialect.OpFOrdLessThan:
			return scalar(instr.Type, boolBits(a < b))
		case dialect.OpFOrdGreaterThan:
			return scalar(instr.Type, boolBits(a > b))
		case dialect.OpFOrdLessThanEqual:
			return scalar(instr.Type, boolBits(a <= b))
		case dialect.OpFOrdGreaterThanEqual:
			return scalar(instr.Type, boolBits(a >= b))
		// The Unord family treats a NaN operand as making the comparison true
		// rather than false, per original_source/rpcsx/gpu/lib/gcn-shader/
		// src/Evaluator.cpp's eval(): `isNan(lhs) || isNan(rhs) || <ordered
		// result>`.
		case dialect.OpFUnordEqual:
			return scalar(instr.Type, boolBits(math.IsNaN(a) || math.IsNaN(b) || a == b))
		case dialect.OpFUnordNotEqual:
			return scalar(instr.Type, boolBits(math.IsNaN(a) || math.IsNaN(b) || a != b))
		case dialect.OpFUnordLessThan:
			return scalar(instr.Type, boolBits(math.IsNaN(a) || math.IsNaN(b) || a < b))
		case dialect.OpFUnordGreaterThan:
			return scalar(instr.Type, boolBits(math.IsNaN(a) || math.IsNaN(b) || a > b))
		case dialect.OpFUnordLessThanEqual:
			return scalar(instr.Type, boolBits(math.IsNaN(a) || math.IsNaN(b) || a <= b))
		case dialect.OpFUnordGreaterThanEqual:
			return scalar(instr.Type, boolBits(math.IsNaN(a) || math.IsNaN(b) || a >= b))
		}
		return Unknown
	}

	a, b := lhs.Float32(), rhs.Float32()
	switch instr.Op {
	case dialect.OpFAdd:
		return scalar(instr.Type, uint64(floatBits(a+b)))
	case dialect.OpFSub:
		return scalar(instr.Type, uint64(floatBits(a-b)))
	case dialect.OpFMul:
		return scalar(instr.Type, uint64(floatBits(a*b)))
	case dialect.OpFDiv:
		return scalar(instr.Type, uint64(floatBits(a/b)))
	case dialect.OpFMod:
		return scalar(instr.Type, uint64(floatBits(float32(math.Mod(float64(a), float64(b))))))
	case dialect.OpFOrdEqual:
		return scalar(instr.Type, boolBits(a == b))
	case dialect.OpFOrdNotEqual:
		return scalar(instr.Type, boolBits(!isNaN32(a) && !isNaN32(b) && a != b))
	case dialect.OpFOrdLessThan:
		return scalar(instr.Type, boolBits(a < b))
	case dialect.OpFOrdGreaterThan:
		return scalar(instr.Type, boolBits(a > b))
	case dialect.OpFOrdLessThanEqual:
		return scalar(instr.Type, boolBits(a <= b))
	case dialect.OpFOrdGreaterThanEqual:
		return scalar(instr.Type, boolBits(a >= b))
	case dialect.OpFUnordEqual:
		return scalar(instr.Type, boolBits(isNaN32(a) || isNaN32(b) || a == b))
	case dialect.OpFUnordNotEqual:
		return scalar(instr.Type, boolBits(isNaN32(a) || isNaN32(b) || a != b))
	case dialect.OpFUnordLessThan:
		return scalar(instr.Type, boolBits(isNaN32(a) || isNaN32(b) || a < b))
	case dialect.OpFUnordGreaterThan:
		return scalar(instr.Type, boolBits(isNaN32(a) || isNaN32(b) || a > b))
	case dialect.OpFUnordLessThanEqual:
		return scalar(instr.Type, boolBits(isNaN32(a) || isNaN32(b) || a <= b))
	case dialect.OpFUnordGreaterThanEqual:
		return scalar(instr.Type, boolBits(isNaN32(a) || isNaN32(b) || a >= b))
	}
	return Unknown
}

func isNaN32(f float32) bool { return f != f }

// evaluateFloatClassify folds OpIsNan/OpIsInf/OpIsFinite, the classification
// predicates original_source/rpcsx/gpu/lib/gcn-shader/src/Evaluator.cpp
// dispatches straight to isNan()/isInf()/isFinite() on the operand Value.
func (e *Evaluator) evaluateFloatClassify(instr *ir.Instruction) Value {
	operand := e.Evaluate(instr.Operands[0].Value)
	if !operand.Ok {
		return Unknown
	}

	width := uint32(32)
	if t := instr.Operands[0].Value.Type; t != nil {
		width = t.Width
	}
	f := float64(operand.Float32())
	if width > 32 {
		f = operand.Float64()
	}

	switch instr.Op {
	case dialect.OpIsNan:
		return scalar(instr.Type, boolBits(math.IsNaN(f)))
	case dialect.OpIsInf:
		return scalar(instr.Type, boolBits(math.IsInf(f, 0)))
	case dialect.OpIsFinite:
		return scalar(instr.Type, boolBits(!math.IsNaN(f) && !math.IsInf(f, 0)))
	default:
		return Unknown
	}
}
