package lifter

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/gcndecode"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// liftSemanticCall lifts the common case (spec §4.5): a decoded instruction
// whose opcode has a matching semantic function. Each operand becomes a
// stack-allocated Function-storage variable seeded from the GCN source (for
// readable params) and read back into the destination GCN operand (for
// writable params) after the call.
//
// An instruction with no matching semantic is not an error: it is emitted
// as OpUnreachable so a missing semantic module entry fails loudly at the
// point of use instead of silently dropping an opcode. liftSemanticCall
// reports true in that case, since OpUnreachable terminates its block.
func (lf *Lifter) liftSemanticCall(b *ir.Builder, instr gcndecode.Instruction, loc ir.Location) bool {
	sem, ok := lf.sema.Lookup(instr.Dialect, instr.Op)
	if !ok {
		unreachable := b.New(dialect.Spv, dialect.OpUnreachable, nil, nil, loc)
		b.Append(unreachable)
		return true
	}

	args := make([]ir.Operand, 0, len(sem.Params)+1)
	args = append(args, ir.OperandValue(sem.Func))

	n := len(sem.Params)
	if len(instr.Operands) < n {
		n = len(instr.Operands)
	}

	vars := make([]*ir.Instruction, n)
	for i := 0; i < n; i++ {
		param := sem.Params[i]
		ptrType := lf.ctx.TypePointer(dialect.StorageClassFunction, param.Type)
		v := b.New(dialect.Spv, dialect.OpVariable, ptrType, []ir.Operand{ir.OperandI32(int32(dialect.StorageClassFunction))}, loc)
		b.Append(v)
		vars[i] = v

		if param.Access&dialect.AccessRead != 0 {
			in := lf.materializeSource(b, instr.Operands[i], param.Type)
			store := b.New(dialect.Spv, dialect.OpStore, nil, []ir.Operand{ir.OperandValue(v), ir.OperandValue(in)}, loc)
			b.Append(store)
		}
		args = append(args, ir.OperandValue(v))
	}

	call := b.New(dialect.Spv, dialect.OpFunctionCall, sem.ReturnType(), args, loc)
	b.Append(call)

	for i := 0; i < n; i++ {
		param := sem.Params[i]
		if param.Access&dialect.AccessWrite == 0 {
			continue
		}
		load := b.New(dialect.Spv, dialect.OpLoad, param.Type, []ir.Operand{ir.OperandValue(vars[i])}, loc)
		b.Append(load)
		lf.writeBack(b, instr.Operands[i], load)
	}
	return false
}
