package spirvcodec

import "github.com/RPCSX/rpcsx-sub002/dialect"

// resultShape classifies how an instruction's result is encoded in the word
// stream. Most of SPIR-V's instructions fit ir's Type!=nil <=> IsValue()
// model directly (typeAndID), but a handful declare a result id with no
// result type at all (idOnly) — OpLabel and OpExtInstImport chief among
// them — and the rest declare neither.
type resultShape uint8

const (
	noResult resultShape = iota
	idOnly
	typeAndID
)

// shapeOf reports op's resultShape among the generic (non type-declaring,
// non constant-declaring) opcodes; OpType*/OpConstant* are handled entirely
// by typeConstEmitter and never consulted here.
func shapeOf(op dialect.Op) resultShape {
	switch op {
	case dialect.OpString, dialect.OpExtInstImport, dialect.OpLabel:
		return idOnly

	case dialect.OpExtInst, dialect.OpPhi,
		dialect.OpFunction, dialect.OpFunctionParameter, dialect.OpFunctionCall,
		dialect.OpVariable, dialect.OpLoad, dialect.OpAccessChain,
		dialect.OpVectorShuffle, dialect.OpCompositeConstruct, dialect.OpCompositeExtract,
		dialect.OpConvertFToU, dialect.OpConvertFToS, dialect.OpConvertSToF, dialect.OpConvertUToF,
		dialect.OpUConvert, dialect.OpSConvert, dialect.OpBitcast,
		dialect.OpSNegate, dialect.OpFNegate,
		dialect.OpIAdd, dialect.OpFAdd, dialect.OpISub, dialect.OpFSub,
		dialect.OpIMul, dialect.OpFMul, dialect.OpUDiv, dialect.OpSDiv, dialect.OpFDiv,
		dialect.OpUMod, dialect.OpSMod, dialect.OpFMod,
		dialect.OpLogicalOr, dialect.OpLogicalAnd, dialect.OpLogicalNot, dialect.OpSelect,
		dialect.OpIEqual, dialect.OpINotEqual,
		dialect.OpUGreaterThan, dialect.OpSGreaterThan, dialect.OpUGreaterThanEqual, dialect.OpSGreaterThanEqual,
		dialect.OpULessThan, dialect.OpSLessThan, dialect.OpULessThanEqual, dialect.OpSLessThanEqual,
		dialect.OpFOrdEqual, dialect.OpFUnordEqual, dialect.OpFOrdNotEqual, dialect.OpFUnordNotEqual,
		dialect.OpFOrdLessThan, dialect.OpFUnordLessThan,
		dialect.OpFOrdGreaterThan, dialect.OpFUnordGreaterThan,
		dialect.OpFOrdLessThanEqual, dialect.OpFUnordLessThanEqual,
		dialect.OpFOrdGreaterThanEqual, dialect.OpFUnordGreaterThanEqual,
		dialect.OpIsNan, dialect.OpIsInf, dialect.OpIsFinite,
		dialect.OpShiftRightLogical, dialect.OpShiftRightArithmetic, dialect.OpShiftLeftLogical,
		dialect.OpBitwiseOr, dialect.OpBitwiseXor, dialect.OpBitwiseAnd, dialect.OpNot:
		return typeAndID

	default:
		return noResult
	}
}
