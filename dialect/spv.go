package dialect

// SPIR-V opcode numbers used by the Spv dialect. Values are the opcode
// field of SPIR-V's word 0 (the low 16 bits), per the Khronos SPIR-V
// specification; this recompiler only targets the subset the lifted IR and
// the inlined semantic module actually emit.
const (
	OpNop               Op = 0
	OpSource            Op = 3
	OpString            Op = 7
	OpName              Op = 5
	OpMemberName        Op = 6
	OpExtension         Op = 10
	OpExtInstImport     Op = 11
	OpExtInst           Op = 12
	OpMemoryModel       Op = 14
	OpEntryPoint        Op = 15
	OpExecutionMode     Op = 16
	OpCapability        Op = 17
	OpTypeVoid          Op = 19
	OpTypeBool          Op = 20
	OpTypeInt           Op = 21
	OpTypeFloat         Op = 22
	OpTypeVector        Op = 23
	OpTypeMatrix        Op = 24
	OpTypeImage         Op = 25
	OpTypeSampler       Op = 26
	OpTypeSampledImage  Op = 27
	OpTypeArray         Op = 28
	OpTypeRuntimeArray  Op = 29
	OpTypeStruct        Op = 30
	OpTypePointer       Op = 32
	OpTypeFunction      Op = 33
	OpConstantTrue      Op = 41
	OpConstantFalse     Op = 42
	OpConstant          Op = 43
	OpConstantComposite Op = 44
	OpConstantNull      Op = 46
	OpFunction          Op = 54
	OpFunctionParameter Op = 55
	OpFunctionEnd       Op = 56
	OpFunctionCall      Op = 57
	OpVariable          Op = 59
	OpLoad              Op = 61
	OpStore             Op = 62
	OpAccessChain       Op = 65
	OpDecorate          Op = 71
	OpMemberDecorate    Op = 72
	OpVectorShuffle     Op = 79
	OpCompositeConstruct Op = 80
	OpCompositeExtract  Op = 81
	OpConvertFToU       Op = 109
	OpConvertFToS       Op = 110
	OpConvertSToF       Op = 111
	OpConvertUToF       Op = 112
	OpUConvert          Op = 113
	OpSConvert          Op = 114
	OpBitcast           Op = 124
	OpSNegate           Op = 126
	OpFNegate           Op = 127
	OpIAdd              Op = 128
	OpFAdd              Op = 129
	OpISub              Op = 130
	OpFSub              Op = 131
	OpIMul              Op = 132
	OpFMul              Op = 133
	OpUDiv              Op = 134
	OpSDiv              Op = 135
	OpFDiv              Op = 136
	OpUMod              Op = 137
	OpSMod              Op = 139
	OpFMod              Op = 141
	OpIsNan             Op = 156
	OpIsInf             Op = 157
	OpIsFinite          Op = 158
	OpLogicalOr         Op = 166
	OpLogicalAnd        Op = 167
	OpLogicalNot        Op = 168
	OpSelect            Op = 169
	OpIEqual            Op = 170
	OpINotEqual         Op = 171
	OpUGreaterThan      Op = 172
	OpSGreaterThan      Op = 173
	OpUGreaterThanEqual Op = 174
	OpSGreaterThanEqual Op = 175
	OpULessThan         Op = 176
	OpSLessThan         Op = 177
	OpULessThanEqual    Op = 178
	OpSLessThanEqual    Op = 179
	OpFOrdEqual            Op = 180
	OpFUnordEqual          Op = 181
	OpFOrdNotEqual         Op = 182
	OpFUnordNotEqual       Op = 183
	OpFOrdLessThan         Op = 184
	OpFUnordLessThan       Op = 185
	OpFOrdGreaterThan      Op = 186
	OpFUnordGreaterThan    Op = 187
	OpFOrdLessThanEqual    Op = 188
	OpFUnordLessThanEqual  Op = 189
	OpFOrdGreaterThanEqual Op = 190
	OpFUnordGreaterThanEqual Op = 191
	OpShiftRightLogical    Op = 194
	OpShiftRightArithmetic Op = 195
	OpShiftLeftLogical     Op = 196
	OpBitwiseOr            Op = 197
	OpBitwiseXor           Op = 198
	OpBitwiseAnd           Op = 199
	OpNot                  Op = 200
	OpControlBarrier    Op = 224
	OpMemoryBarrier     Op = 225
	OpPhi               Op = 245
	OpLoopMerge         Op = 246
	OpSelectionMerge    Op = 247
	OpLabel             Op = 248
	OpBranch            Op = 249
	OpBranchConditional Op = 250
	OpSwitch            Op = 251
	OpKill              Op = 252
	OpReturn            Op = 253
	OpReturnValue       Op = 254
	OpUnreachable       Op = 255
)

var spvMnemonics = map[Op]string{
	OpNop: "OpNop", OpSource: "OpSource", OpString: "OpString",
	OpName: "OpName", OpMemberName: "OpMemberName", OpExtension: "OpExtension",
	OpExtInstImport: "OpExtInstImport", OpExtInst: "OpExtInst",
	OpMemoryModel: "OpMemoryModel", OpEntryPoint: "OpEntryPoint",
	OpExecutionMode: "OpExecutionMode", OpCapability: "OpCapability",
	OpTypeVoid: "OpTypeVoid", OpTypeBool: "OpTypeBool", OpTypeInt: "OpTypeInt",
	OpTypeFloat: "OpTypeFloat", OpTypeVector: "OpTypeVector",
	OpTypeMatrix: "OpTypeMatrix", OpTypeImage: "OpTypeImage",
	OpTypeSampler: "OpTypeSampler", OpTypeSampledImage: "OpTypeSampledImage",
	OpTypeArray: "OpTypeArray", OpTypeRuntimeArray: "OpTypeRuntimeArray",
	OpTypeStruct: "OpTypeStruct", OpTypePointer: "OpTypePointer",
	OpTypeFunction: "OpTypeFunction", OpConstantTrue: "OpConstantTrue",
	OpConstantFalse: "OpConstantFalse", OpConstant: "OpConstant",
	OpConstantComposite: "OpConstantComposite", OpConstantNull: "OpConstantNull",
	OpFunction: "OpFunction", OpFunctionParameter: "OpFunctionParameter",
	OpFunctionEnd: "OpFunctionEnd", OpFunctionCall: "OpFunctionCall",
	OpVariable: "OpVariable", OpLoad: "OpLoad", OpStore: "OpStore",
	OpAccessChain: "OpAccessChain", OpDecorate: "OpDecorate",
	OpMemberDecorate: "OpMemberDecorate", OpVectorShuffle: "OpVectorShuffle",
	OpCompositeConstruct: "OpCompositeConstruct", OpCompositeExtract: "OpCompositeExtract",
	OpConvertFToU: "OpConvertFToU", OpConvertFToS: "OpConvertFToS",
	OpConvertSToF: "OpConvertSToF", OpConvertUToF: "OpConvertUToF",
	OpUConvert: "OpUConvert", OpSConvert: "OpSConvert", OpBitcast: "OpBitcast",
	OpSNegate: "OpSNegate", OpFNegate: "OpFNegate", OpIAdd: "OpIAdd",
	OpFAdd: "OpFAdd", OpISub: "OpISub", OpFSub: "OpFSub", OpIMul: "OpIMul",
	OpFMul: "OpFMul", OpUDiv: "OpUDiv", OpSDiv: "OpSDiv", OpFDiv: "OpFDiv",
	OpUMod: "OpUMod", OpSMod: "OpSMod", OpFMod: "OpFMod",
	OpLogicalOr: "OpLogicalOr", OpLogicalAnd: "OpLogicalAnd",
	OpLogicalNot: "OpLogicalNot", OpSelect: "OpSelect", OpIEqual: "OpIEqual",
	OpINotEqual: "OpINotEqual", OpUGreaterThan: "OpUGreaterThan",
	OpSGreaterThan: "OpSGreaterThan", OpUGreaterThanEqual: "OpUGreaterThanEqual",
	OpSGreaterThanEqual: "OpSGreaterThanEqual", OpULessThan: "OpULessThan",
	OpSLessThan: "OpSLessThan", OpULessThanEqual: "OpULessThanEqual",
	OpSLessThanEqual: "OpSLessThanEqual", OpFOrdEqual: "OpFOrdEqual",
	OpFUnordEqual: "OpFUnordEqual",
	OpFOrdNotEqual: "OpFOrdNotEqual", OpFUnordNotEqual: "OpFUnordNotEqual",
	OpFOrdLessThan: "OpFOrdLessThan", OpFUnordLessThan: "OpFUnordLessThan",
	OpFOrdGreaterThan: "OpFOrdGreaterThan", OpFUnordGreaterThan: "OpFUnordGreaterThan",
	OpFOrdLessThanEqual: "OpFOrdLessThanEqual", OpFUnordLessThanEqual: "OpFUnordLessThanEqual",
	OpFOrdGreaterThanEqual: "OpFOrdGreaterThanEqual", OpFUnordGreaterThanEqual: "OpFUnordGreaterThanEqual",
	OpIsNan: "OpIsNan", OpIsInf: "OpIsInf", OpIsFinite: "OpIsFinite",
	OpShiftRightLogical: "OpShiftRightLogical", OpShiftRightArithmetic: "OpShiftRightArithmetic",
	OpShiftLeftLogical: "OpShiftLeftLogical", OpBitwiseOr: "OpBitwiseOr",
	OpBitwiseXor: "OpBitwiseXor", OpBitwiseAnd: "OpBitwiseAnd", OpNot: "OpNot",
	OpControlBarrier: "OpControlBarrier", OpMemoryBarrier: "OpMemoryBarrier",
	OpPhi: "OpPhi", OpLoopMerge: "OpLoopMerge", OpSelectionMerge: "OpSelectionMerge",
	OpLabel: "OpLabel", OpBranch: "OpBranch", OpBranchConditional: "OpBranchConditional",
	OpSwitch: "OpSwitch", OpKill: "OpKill", OpReturn: "OpReturn",
	OpReturnValue: "OpReturnValue", OpUnreachable: "OpUnreachable",
}

// StorageClass is a SPIR-V storage class value, used by Pointer types.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassPushConstant    StorageClass = 9
	StorageClassStorageBuffer   StorageClass = 12
)

// Capability is a SPIR-V capability value.
type Capability uint32

const (
	CapabilityMatrix Capability = 0
	CapabilityShader Capability = 1
)

// ExecutionModel is a SPIR-V execution model value.
type ExecutionModel uint32

const (
	ExecutionModelVertex    ExecutionModel = 0
	ExecutionModelFragment  ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// ExecutionMode is a SPIR-V execution mode value.
type ExecutionMode uint32

const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeLocalSize       ExecutionMode = 17
)

// AddressingModel is OpMemoryModel's first operand.
type AddressingModel uint32

const (
	AddressingModelLogical AddressingModel = 0
)

// MemoryModelValue is OpMemoryModel's second operand.
type MemoryModelValue uint32

const (
	MemoryModelGLSL450 MemoryModelValue = 1
)
