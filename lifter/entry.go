package lifter

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

// userSgprSlots is the number of user-SGPR words the Environment configures
// (spec §6: "user-SGPR initial values (up to 16 words)").
const userSgprSlots = 16

// synthesizeEntryBlock emits the block that runs before the lifted
// program's first real instruction: it seeds Sgpr[0..16) from the
// AmdGpu.USER_SGPR pseudo-op, stores the configured register counts, and
// branches into the decoded stream at entry (spec §4.5).
func (lf *Lifter) synthesizeEntryBlock(entry uint64) {
	b := lf.builder()
	label := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	b.Append(label)

	u32 := lf.ctx.TypeInt(32, false)
	for i := uint32(0); i < userSgprSlots; i++ {
		sgpr := b.New(dialect.AmdGpu, dialect.AmdGpuUserSgpr, u32, []ir.Operand{ir.OperandI32(int32(i))}, ir.UnknownLocation)
		b.Append(sgpr)
		lf.writeRegister(b, regfile.Sgpr(i), sgpr)
	}

	lf.writeRegister(b, regfile.RegSgprCount, lf.ctx.ConstantInt(32, false, uint64(lf.env.SgprCount())))
	lf.writeRegister(b, regfile.RegVgprCount, lf.ctx.ConstantInt(32, false, uint64(lf.env.VgprCount())))

	entryLbl := lf.enqueue(entry)
	br := b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(entryLbl)}, ir.UnknownLocation)
	b.Append(br)
}
