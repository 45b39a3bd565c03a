package dialect

// GCN opcode numbers, one const block per instruction family. Each family's
// Op space is independent (spec §6): the same numeric value means different
// things in Sop1 versus Vop2, for instance. Numbering and mnemonics follow
// the field layouts spec §6 tabulates; families are table-driven the way
// other_examples' go6502 instruction set names its opsym/opcodeImpl pairs,
// rather than one giant switch per mnemonic.

// Sop1: scalar ALU, 1 source, 1 destination.
const (
	Sop1Mov         Op = 0
	Sop1MovB64      Op = 1
	Sop1Cmov        Op = 2
	Sop1Not         Op = 3
	Sop1WqmB32      Op = 4
	Sop1Bitset0     Op = 5
	Sop1Bitset1     Op = 6
	Sop1GetPC       Op = 7
	Sop1SetPC       Op = 8
	Sop1SwapPC      Op = 9
	Sop1RfE         Op = 10
	Sop1AndSaveExec Op = 11
	Sop1MovRelS     Op = 12
	Sop1MovRelD     Op = 13
)

var sop1Mnemonics = map[Op]string{
	Sop1Mov:         "s_mov_b32",
	Sop1MovB64:      "s_mov_b64",
	Sop1Cmov:        "s_cmov_b32",
	Sop1Not:         "s_not_b32",
	Sop1WqmB32:      "s_wqm_b32",
	Sop1Bitset0:     "s_bitset0_b32",
	Sop1Bitset1:     "s_bitset1_b32",
	Sop1GetPC:       "s_getpc_b64",
	Sop1SetPC:       "s_setpc_b64",
	Sop1SwapPC:      "s_swappc_b64",
	Sop1RfE:         "s_rfe_b64",
	Sop1AndSaveExec: "s_and_saveexec_b64",
	Sop1MovRelS:     "s_movrels_b32",
	Sop1MovRelD:     "s_movrelsd_b32",
}

// Sop2: scalar ALU, 2 sources, 1 destination.
const (
	Sop2Add       Op = 0
	Sop2Sub       Op = 1
	Sop2AddC      Op = 2
	Sop2SubB      Op = 3
	Sop2Min       Op = 4
	Sop2Max       Op = 5
	Sop2And       Op = 6
	Sop2Or        Op = 7
	Sop2Xor       Op = 8
	Sop2Andn2     Op = 9
	Sop2Orn2      Op = 10
	Sop2LShl      Op = 11
	Sop2LShr      Op = 12
	Sop2AShr      Op = 13
	Sop2Mul       Op = 14
	Sop2BfeU      Op = 15
	Sop2BfeS      Op = 16
	Sop2CSelect   Op = 17
)

var sop2Mnemonics = map[Op]string{
	Sop2Add:     "s_add_u32",
	Sop2Sub:     "s_sub_u32",
	Sop2AddC:    "s_addc_u32",
	Sop2SubB:    "s_subb_u32",
	Sop2Min:     "s_min_u32",
	Sop2Max:     "s_max_u32",
	Sop2And:     "s_and_b32",
	Sop2Or:      "s_or_b32",
	Sop2Xor:     "s_xor_b32",
	Sop2Andn2:   "s_andn2_b32",
	Sop2Orn2:    "s_orn2_b32",
	Sop2LShl:    "s_lshl_b32",
	Sop2LShr:    "s_lshr_b32",
	Sop2AShr:    "s_ashr_i32",
	Sop2Mul:     "s_mul_i32",
	Sop2BfeU:    "s_bfe_u32",
	Sop2BfeS:    "s_bfe_i32",
	Sop2CSelect: "s_cselect_b32",
}

// Sopc: scalar comparison, writes SCC only.
const (
	SopcCmpEqU32  Op = 0
	SopcCmpLgU32  Op = 1
	SopcCmpGtU32  Op = 2
	SopcCmpGeU32  Op = 3
	SopcCmpLtU32  Op = 4
	SopcCmpLeU32  Op = 5
	SopcCmpEqI32  Op = 6
	SopcCmpLgI32  Op = 7
	SopcCmpGtI32  Op = 8
	SopcCmpGeI32  Op = 9
	SopcCmpLtI32  Op = 10
	SopcCmpLeI32  Op = 11
	SopcBitcmp0   Op = 12
	SopcBitcmp1   Op = 13
)

var sopcMnemonics = map[Op]string{
	SopcCmpEqU32: "s_cmp_eq_u32",
	SopcCmpLgU32: "s_cmp_lg_u32",
	SopcCmpGtU32: "s_cmp_gt_u32",
	SopcCmpGeU32: "s_cmp_ge_u32",
	SopcCmpLtU32: "s_cmp_lt_u32",
	SopcCmpLeU32: "s_cmp_le_u32",
	SopcCmpEqI32: "s_cmp_eq_i32",
	SopcCmpLgI32: "s_cmp_lg_i32",
	SopcCmpGtI32: "s_cmp_gt_i32",
	SopcCmpGeI32: "s_cmp_ge_i32",
	SopcCmpLtI32: "s_cmp_lt_i32",
	SopcCmpLeI32: "s_cmp_le_i32",
	SopcBitcmp0:  "s_bitcmp0_b32",
	SopcBitcmp1:  "s_bitcmp1_b32",
}

// Sopk: scalar ALU with a 16-bit immediate.
const (
	SopkMovK    Op = 0
	SopkCMovK   Op = 1
	SopkAddI    Op = 2
	SopkMulI    Op = 3
	SopkCmpEqI  Op = 4
	SopkCmpLtI  Op = 5
	SopkCmpGtI  Op = 6
)

var sopkMnemonics = map[Op]string{
	SopkMovK:   "s_movk_i32",
	SopkCMovK:  "s_cmovk_i32",
	SopkAddI:   "s_addk_i32",
	SopkMulI:   "s_mulk_i32",
	SopkCmpEqI: "s_cmpk_eq_i32",
	SopkCmpLtI: "s_cmpk_lt_i32",
	SopkCmpGtI: "s_cmpk_gt_i32",
}

// Sopp: scalar program control (branches, waits, program end).
const (
	SoppNop          Op = 0
	SoppEndPgm       Op = 1
	SoppBranch       Op = 2
	SoppCBranchSCC0  Op = 3
	SoppCBranchSCC1  Op = 4
	SoppCBranchVCCZ  Op = 5
	SoppCBranchVCCNZ Op = 6
	SoppCBranchEXECZ Op = 7
	SoppCBranchEXECNZ Op = 8
	SoppWaitCnt      Op = 9
	SoppBarrier      Op = 10
)

var soppMnemonics = map[Op]string{
	SoppNop:            "s_nop",
	SoppEndPgm:         "s_endpgm",
	SoppBranch:         "s_branch",
	SoppCBranchSCC0:    "s_cbranch_scc0",
	SoppCBranchSCC1:    "s_cbranch_scc1",
	SoppCBranchVCCZ:    "s_cbranch_vccz",
	SoppCBranchVCCNZ:   "s_cbranch_vccnz",
	SoppCBranchEXECZ:   "s_cbranch_execz",
	SoppCBranchEXECNZ:  "s_cbranch_execnz",
	SoppWaitCnt:        "s_waitcnt",
	SoppBarrier:        "s_barrier",
}

// Vop1: vector ALU, 1 source, 1 destination.
const (
	Vop1Mov      Op = 0
	Vop1Cvt      Op = 1
	Vop1Mov32    Op = 2
	Vop1Rcp      Op = 3
	Vop1Rsq      Op = 4
	Vop1Sqrt     Op = 5
	Vop1Log      Op = 6
	Vop1Exp      Op = 7
	Vop1Frac     Op = 8
	Vop1Floor    Op = 9
	Vop1Ffbh     Op = 10
)

var vop1Mnemonics = map[Op]string{
	Vop1Mov:   "v_mov_b32",
	Vop1Cvt:   "v_cvt_f32_i32",
	Vop1Mov32: "v_mov_b32_e32",
	Vop1Rcp:   "v_rcp_f32",
	Vop1Rsq:   "v_rsq_f32",
	Vop1Sqrt:  "v_sqrt_f32",
	Vop1Log:   "v_log_f32",
	Vop1Exp:   "v_exp_f32",
	Vop1Frac:  "v_fract_f32",
	Vop1Floor: "v_floor_f32",
	Vop1Ffbh:  "v_ffbh_u32",
}

// Vop2: vector ALU, 2 sources, 1 destination.
const (
	Vop2AddF32  Op = 0
	Vop2SubF32  Op = 1
	Vop2MulF32  Op = 2
	Vop2MacF32  Op = 3
	Vop2MinF32  Op = 4
	Vop2MaxF32  Op = 5
	Vop2AddU32  Op = 6
	Vop2SubU32  Op = 7
	Vop2And     Op = 8
	Vop2Or      Op = 9
	Vop2Xor     Op = 10
	Vop2LShl    Op = 11
	Vop2LShr    Op = 12
	Vop2AShr    Op = 13
	Vop2CndMask Op = 14
)

var vop2Mnemonics = map[Op]string{
	Vop2AddF32:  "v_add_f32",
	Vop2SubF32:  "v_sub_f32",
	Vop2MulF32:  "v_mul_f32",
	Vop2MacF32:  "v_mac_f32",
	Vop2MinF32:  "v_min_f32",
	Vop2MaxF32:  "v_max_f32",
	Vop2AddU32:  "v_add_u32",
	Vop2SubU32:  "v_sub_u32",
	Vop2And:     "v_and_b32",
	Vop2Or:      "v_or_b32",
	Vop2Xor:     "v_xor_b32",
	Vop2LShl:    "v_lshl_b32",
	Vop2LShr:    "v_lshr_b32",
	Vop2AShr:    "v_ashr_i32",
	Vop2CndMask: "v_cndmask_b32",
}

// Vop3: vector ALU, up to 3 sources, extended encoding (abs/neg/omod/clamp).
const (
	Vop3Mad    Op = 0
	Vop3FmaF32 Op = 1
	Vop3BfeU32 Op = 2
	Vop3BfeI32 Op = 3
	Vop3BfiB32 Op = 4
	Vop3Lerp   Op = 5
	Vop3Div    Op = 6
)

var vop3Mnemonics = map[Op]string{
	Vop3Mad:    "v_mad_f32",
	Vop3FmaF32: "v_fma_f32",
	Vop3BfeU32: "v_bfe_u32",
	Vop3BfeI32: "v_bfe_i32",
	Vop3BfiB32: "v_bfi_b32",
	Vop3Lerp:   "v_lerp_u8",
	Vop3Div:    "v_div_fmas_f32",
}

// Vopc: vector comparison, writes VCC.
const (
	VopcCmpEqF32 Op = 0
	VopcCmpLtF32 Op = 1
	VopcCmpLeF32 Op = 2
	VopcCmpGtF32 Op = 3
	VopcCmpGeF32 Op = 4
	VopcCmpEqU32 Op = 5
	VopcCmpLtU32 Op = 6
	VopcCmpGtU32 Op = 7
)

var vopcMnemonics = map[Op]string{
	VopcCmpEqF32: "v_cmp_eq_f32",
	VopcCmpLtF32: "v_cmp_lt_f32",
	VopcCmpLeF32: "v_cmp_le_f32",
	VopcCmpGtF32: "v_cmp_gt_f32",
	VopcCmpGeF32: "v_cmp_ge_f32",
	VopcCmpEqU32: "v_cmp_eq_u32",
	VopcCmpLtU32: "v_cmp_lt_u32",
	VopcCmpGtU32: "v_cmp_gt_u32",
}

// Smrd: scalar memory reads (constant/buffer loads).
const (
	SmrdLoadDword   Op = 0
	SmrdLoadDwordx2 Op = 1
	SmrdLoadDwordx4 Op = 2
	SmrdLoadDwordx8 Op = 3
	SmrdBufferLoad  Op = 4
)

var smrdMnemonics = map[Op]string{
	SmrdLoadDword:   "s_load_dword",
	SmrdLoadDwordx2: "s_load_dwordx2",
	SmrdLoadDwordx4: "s_load_dwordx4",
	SmrdLoadDwordx8: "s_load_dwordx8",
	SmrdBufferLoad:  "s_buffer_load_dword",
}

// Mubuf: untyped buffer memory access.
const (
	MubufLoadDword  Op = 0
	MubufLoadFormat Op = 1
	MubufStoreDword Op = 2
	MubufAtomicAdd  Op = 3
	MubufAtomicCmpSwap Op = 4
)

var mubufMnemonics = map[Op]string{
	MubufLoadDword:     "buffer_load_dword",
	MubufLoadFormat:    "buffer_load_format_xyzw",
	MubufStoreDword:    "buffer_store_dword",
	MubufAtomicAdd:     "buffer_atomic_add",
	MubufAtomicCmpSwap: "buffer_atomic_cmpswap",
}

// Mtbuf: typed buffer memory access.
const (
	MtbufLoadFormat  Op = 0
	MtbufStoreFormat Op = 1
)

var mtbufMnemonics = map[Op]string{
	MtbufLoadFormat:  "tbuffer_load_format_xyzw",
	MtbufStoreFormat: "tbuffer_store_format_xyzw",
}

// Mimg: image/texture memory access.
const (
	MimgSample     Op = 0
	MimgSampleLZ   Op = 1
	MimgLoad       Op = 2
	MimgStore      Op = 3
	MimgGetResInfo Op = 4
)

var mimgMnemonics = map[Op]string{
	MimgSample:     "image_sample",
	MimgSampleLZ:   "image_sample_lz",
	MimgLoad:       "image_load",
	MimgStore:      "image_store",
	MimgGetResInfo: "image_get_resinfo",
}

// Ds: local/shared (LDS) and GDS memory access.
const (
	DsReadB32     Op = 0
	DsWriteB32    Op = 1
	DsAddU32      Op = 2
	DsGwsBarrier  Op = 3
)

var dsMnemonics = map[Op]string{
	DsReadB32:    "ds_read_b32",
	DsWriteB32:   "ds_write_b32",
	DsAddU32:     "ds_add_u32",
	DsGwsBarrier: "ds_gws_barrier",
}

// Vintrp: vertex attribute interpolation.
const (
	VintrpP1F32 Op = 0
	VintrpP2F32 Op = 1
	VintrpMov   Op = 2
)

var vintrpMnemonics = map[Op]string{
	VintrpP1F32: "v_interp_p1_f32",
	VintrpP2F32: "v_interp_p2_f32",
	VintrpMov:   "v_interp_mov_f32",
}
