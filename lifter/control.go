package lifter

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/gcndecode"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

// liftSopp handles GCN's scalar program-control family: branches, waits,
// barrier, and end-of-program (spec §4.5). It returns true when it closed
// the current block with a terminator.
func (lf *Lifter) liftSopp(b *ir.Builder, instr gcndecode.Instruction, next uint64, loc ir.Location) bool {
	switch instr.Op {
	case dialect.SoppNop, dialect.SoppWaitCnt:
		return false // dropped: no side effect in this IR

	case dialect.SoppBarrier:
		barrier := b.New(dialect.Spv, dialect.OpControlBarrier, nil, nil, loc)
		b.Append(barrier)
		return false

	case dialect.SoppEndPgm:
		br := b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(lf.epilogueLabel())}, loc)
		b.Append(br)
		return true

	case dialect.SoppBranch:
		target := branchTarget(next, instr.Operands[0].ConstantBits)
		lbl := lf.enqueue(target)
		br := b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(lbl)}, loc)
		b.Append(br)
		return true

	case dialect.SoppCBranchSCC0, dialect.SoppCBranchSCC1,
		dialect.SoppCBranchVCCZ, dialect.SoppCBranchVCCNZ,
		dialect.SoppCBranchEXECZ, dialect.SoppCBranchEXECNZ:
		lf.liftConditionalBranch(b, instr, next, loc)
		return true

	default:
		unreachable := b.New(dialect.Spv, dialect.OpUnreachable, nil, nil, loc)
		b.Append(unreachable)
		return true
	}
}

func branchTarget(next uint64, simm16 uint32) uint64 {
	signed := int64(int16(uint16(simm16)))
	return uint64(int64(next) + signed*4)
}

// liftConditionalBranch tests the register the family names and emits
// OpBranchConditional, enqueueing both successors. The "taken" sense of
// each s_cbranch_* variant is whether the tested condition is nonzero
// (*NZ / SCC1) or zero (*Z / SCC0); the false edge always falls through to
// the instruction stream immediately after this one.
func (lf *Lifter) liftConditionalBranch(b *ir.Builder, instr gcndecode.Instruction, next uint64, loc ir.Location) {
	reg, invert := conditionRegister(instr.Op)
	cond := lf.readRegister(b, reg)
	if invert {
		notCond := b.New(dialect.Spv, dialect.OpLogicalNot, cond.Type, []ir.Operand{ir.OperandValue(cond)}, loc)
		b.Append(notCond)
		cond = notCond
	}

	target := branchTarget(next, instr.Operands[0].ConstantBits)
	taken := lf.enqueue(target)
	fallthroughLbl := lf.enqueue(next)

	br := b.New(dialect.Spv, dialect.OpBranchConditional, nil,
		[]ir.Operand{ir.OperandValue(cond), ir.OperandValue(taken), ir.OperandValue(fallthroughLbl)}, loc)
	b.Append(br)
}

// conditionRegister returns the bool register an s_cbranch_* variant tests,
// and whether the decoded condition must be inverted to get "branch taken".
func conditionRegister(op dialect.Op) (regfile.Register, bool) {
	switch op {
	case dialect.SoppCBranchSCC0:
		return regfile.RegScc, true
	case dialect.SoppCBranchSCC1:
		return regfile.RegScc, false
	case dialect.SoppCBranchVCCZ:
		return regfile.RegVccZ, false
	case dialect.SoppCBranchVCCNZ:
		return regfile.RegVccZ, true
	case dialect.SoppCBranchEXECZ:
		return regfile.RegExecZ, false
	case dialect.SoppCBranchEXECNZ:
		return regfile.RegExecZ, true
	default:
		return regfile.RegScc, false
	}
}

// epilogueLabel returns the label of the dedicated epilogue block every
// s_endpgm branches to, creating it on first use; the block's body, a bare
// OpReturn, is appended later by closeEpilogue.
func (lf *Lifter) epilogueLabel() *ir.Instruction {
	if lf.epilogue != nil {
		return lf.epilogue
	}
	b := lf.builder()
	lbl := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	lf.epilogue = lbl
	// The epilogue body is appended once, lazily, by Run after the worklist
	// drains: see (*Lifter).closeEpilogue.
	return lbl
}

// closeEpilogue appends the epilogue block's body, if one was requested.
// Must run after every other block has been emitted, since blocks are
// appended to the same flat region in the order they are built.
func (lf *Lifter) closeEpilogue() {
	if lf.epilogue == nil || lf.epilogue.Region() != nil {
		return
	}
	b := lf.builder()
	b.Append(lf.epilogue)
	ret := b.New(dialect.Spv, dialect.OpReturn, nil, nil, ir.UnknownLocation)
	b.Append(ret)
}
