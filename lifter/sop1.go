package lifter

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/gcndecode"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

// isPCRelativeSop1 reports whether op is one of the Sop1 PC-manipulation
// opcodes the decoder cannot express as a plain semantic call, since their
// result depends on the lifted instruction's own address rather than on
// register inputs alone (spec §4.5: "s_getpc_b64").
func isPCRelativeSop1(op dialect.Op) bool {
	switch op {
	case dialect.Sop1GetPC, dialect.Sop1SetPC, dialect.Sop1SwapPC:
		return true
	}
	return false
}

// liftSop1PCRelative handles s_getpc_b64 / s_setpc_b64 / s_swappc_b64. The
// destination and, for SetPC/SwapPC, the source operand name the low SGPR
// of a 64-bit pair; the high half lives in the next SGPR.
func (lf *Lifter) liftSop1PCRelative(b *ir.Builder, instr gcndecode.Instruction, next uint64, loc ir.Location) bool {
	dest := instr.Operands[0]

	switch instr.Op {
	case dialect.Sop1GetPC:
		lo := lf.ctx.ConstantInt(32, false, next&0xFFFFFFFF)
		hi := lf.ctx.ConstantInt(32, false, next>>32)
		lf.writeRegister(b, regfile.Sgpr(dest.Index), lo)
		lf.writeRegister(b, regfile.Sgpr(dest.Index+1), hi)
		return false

	case dialect.Sop1SetPC, dialect.Sop1SwapPC:
		if instr.Op == dialect.Sop1SwapPC {
			lo := lf.ctx.ConstantInt(32, false, next&0xFFFFFFFF)
			hi := lf.ctx.ConstantInt(32, false, next>>32)
			lf.writeRegister(b, regfile.Sgpr(dest.Index), lo)
			lf.writeRegister(b, regfile.Sgpr(dest.Index+1), hi)
		}
		src := instr.Operands[1]
		u64 := lf.ctx.TypeInt(64, false)
		lo := lf.readRegister(b, regfile.Sgpr(src.Index))
		hi := lf.readRegister(b, regfile.Sgpr(src.Index+1))
		loExt := lf.convert(b, lo, u64)
		hiExt := lf.convert(b, hi, u64)
		shift32 := lf.ctx.ConstantInt(64, false, 32)
		hiShifted := b.New(dialect.Spv, dialect.OpShiftLeftLogical, u64, []ir.Operand{ir.OperandValue(hiExt), ir.OperandValue(shift32)}, loc)
		b.Append(hiShifted)
		addr64 := b.New(dialect.Spv, dialect.OpBitwiseOr, u64, []ir.Operand{ir.OperandValue(loExt), ir.OperandValue(hiShifted)}, loc)
		b.Append(addr64)

		target := b.New(dialect.AmdGpu, dialect.AmdGpuBranch, nil, []ir.Operand{ir.OperandValue(addr64)}, loc)
		b.Append(target)
		lf.pending = append(lf.pending, target)
		return true
	}
	return false
}
