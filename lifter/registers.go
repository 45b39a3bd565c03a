package lifter

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

// readRegister loads r's current value at its canonical register-file type.
func (lf *Lifter) readRegister(b *ir.Builder, r regfile.Register) *ir.Instruction {
	v := registerVariable(lf.ctx, r)
	load := b.New(dialect.Spv, dialect.OpLoad, registerType(lf.ctx, r), []ir.Operand{ir.OperandValue(v)}, ir.UnknownLocation)
	b.Append(load)
	return load
}

// writeRegister stores value into r, converting it to r's canonical type
// first if it does not already match (spec §3: "reads and writes to
// registers of different widths than the slot decompose through bitcast +
// split/join; sub-u32 reads use integer conversions; bool registers
// round-trip through Select").
func (lf *Lifter) writeRegister(b *ir.Builder, r regfile.Register, value *ir.Instruction) {
	v := registerVariable(lf.ctx, r)
	converted := lf.convert(b, value, registerType(lf.ctx, r))
	store := b.New(dialect.Spv, dialect.OpStore, nil, []ir.Operand{ir.OperandValue(v), ir.OperandValue(converted)}, ir.UnknownLocation)
	b.Append(store)
}

// convert reshapes value to target, inserting the narrowest conversion that
// applies: identity if the types already match, Select for bool<->int,
// bitcast for same-width reinterpretation, and S/UConvert for width changes.
func (lf *Lifter) convert(b *ir.Builder, value *ir.Instruction, target *ir.Type) *ir.Instruction {
	src := value.Type
	if src == target {
		return value
	}

	if target.Kind == ir.TypeBoolKind && src.Kind == ir.TypeIntKind {
		zero := lf.ctx.ConstantInt(src.Width, src.Signed, 0)
		cmp := b.New(dialect.Spv, dialect.OpINotEqual, target, []ir.Operand{ir.OperandValue(value), ir.OperandValue(zero)}, ir.UnknownLocation)
		b.Append(cmp)
		return cmp
	}
	if src.Kind == ir.TypeBoolKind && target.Kind == ir.TypeIntKind {
		one := lf.ctx.ConstantInt(target.Width, target.Signed, 1)
		zero := lf.ctx.ConstantInt(target.Width, target.Signed, 0)
		sel := b.New(dialect.Spv, dialect.OpSelect, target, []ir.Operand{ir.OperandValue(value), ir.OperandValue(one), ir.OperandValue(zero)}, ir.UnknownLocation)
		b.Append(sel)
		return sel
	}

	if src.Kind == ir.TypeIntKind && target.Kind == ir.TypeIntKind {
		if src.Width == target.Width {
			if src.Signed == target.Signed {
				return value
			}
			bc := b.New(dialect.Spv, dialect.OpBitcast, target, []ir.Operand{ir.OperandValue(value)}, ir.UnknownLocation)
			b.Append(bc)
			return bc
		}
		op := dialect.OpUConvert
		if src.Signed {
			op = dialect.OpSConvert
		}
		cv := b.New(dialect.Spv, op, target, []ir.Operand{ir.OperandValue(value)}, ir.UnknownLocation)
		b.Append(cv)
		return cv
	}

	// Fixed-width reinterpretation (e.g. int32 <-> float32, or array<u32,64>
	// <-> vector<u32,64>-shaped register aliasing): bitcast is always the
	// teacher-style fallback when the bit width already matches.
	bc := b.New(dialect.Spv, dialect.OpBitcast, target, []ir.Operand{ir.OperandValue(value)}, ir.UnknownLocation)
	b.Append(bc)
	return bc
}
