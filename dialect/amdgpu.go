package dialect

// AmdGpu pseudo-ops have no GCN or SPIR-V encoding of their own; the lifter
// synthesizes them to carry information the two ISAs don't directly share
// (spec §4.5). They never appear in a decoded instruction stream and are
// never serialized — SerializerInvariant fires if one reaches spirvcodec.
const (
	// AmdGpuBranch placeholders an unresolved indirect branch (s_setpc_b64,
	// s_swappc_b64) whose target the partial evaluator could not fold to a
	// known address at lift time.
	AmdGpuBranch Op = 0
	// AmdGpuVBuffer materializes a V# buffer descriptor composite from its
	// constituent SGPRs.
	AmdGpuVBuffer Op = 1
	// AmdGpuTBuffer materializes a typed-buffer (T#) descriptor composite.
	AmdGpuTBuffer Op = 2
	// AmdGpuSampler materializes a sampler (S#) descriptor composite.
	AmdGpuSampler Op = 3
	// AmdGpuNegAbs applies VOP3's per-operand negate/absolute-value modifier.
	AmdGpuNegAbs Op = 4
	// AmdGpuOmod applies VOP3's output multiply modifier (×1, ×2, ×4, ÷2).
	AmdGpuOmod Op = 5
	// AmdGpuUserSgpr names a user-SGPR slot populated by the synthetic entry
	// block before the lifted program's first real instruction runs.
	AmdGpuUserSgpr Op = 6
	// AmdGpuImm carries an immediate value too wide for a single GCN operand
	// encoding (e.g. 64-bit literal split across two 32-bit fields).
	AmdGpuImm Op = 7
	// AmdGpuMovRel tags the dynamic register-relative addressing performed by
	// s_movrels_b32/s_movrelsd_b32/v_movrels_b32 families.
	AmdGpuMovRel Op = 8
)

var amdGpuMnemonics = map[Op]string{
	AmdGpuBranch:   "AmdGpu.BRANCH",
	AmdGpuVBuffer:  "AmdGpu.VBUFFER",
	AmdGpuTBuffer:  "AmdGpu.TBUFFER",
	AmdGpuSampler:  "AmdGpu.SAMPLER",
	AmdGpuNegAbs:   "AmdGpu.NEG_ABS",
	AmdGpuOmod:     "AmdGpu.OMOD",
	AmdGpuUserSgpr: "AmdGpu.USER_SGPR",
	AmdGpuImm:      "AmdGpu.IMM",
	AmdGpuMovRel:   "AmdGpu.MOVREL",
}
