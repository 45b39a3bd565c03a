package spirvcodec

import (
	"math"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// idAllocator hands out a dense [1, bound) id space shared by types and
// instructions, SPIR-V's single result-id namespace.
type idAllocator struct {
	next   uint32
	types  map[*ir.Type]uint32
	instrs map[*ir.Instruction]uint32
}

func newIDAllocator() *idAllocator {
	return &idAllocator{
		next:   1,
		types:  make(map[*ir.Type]uint32, 16),
		instrs: make(map[*ir.Instruction]uint32, 64),
	}
}

func (a *idAllocator) alloc() uint32 {
	id := a.next
	a.next++
	return id
}

func (a *idAllocator) typeID(t *ir.Type) uint32 {
	if id, ok := a.types[t]; ok {
		return id
	}
	id := a.alloc()
	a.types[t] = id
	return id
}

func (a *idAllocator) instrID(i *ir.Instruction) uint32 {
	if id, ok := a.instrs[i]; ok {
		return id
	}
	id := a.alloc()
	a.instrs[i] = id
	return id
}

func (a *idAllocator) bound() uint32 { return a.next }

// typeConstEmitter emits OpType*/OpConstant* declarations in dependency
// order: a composite type or a constant is only written once every type and
// constant it references has already been written, regardless of the
// Context's interning order. Both are forward-referenceable from elsewhere
// in the module (an EntryPoint can name a Function declared later), so
// reaching a type or constant lazily from any section is safe — only the
// declarations among themselves must respect def-before-use.
type typeConstEmitter struct {
	ids          *idAllocator
	out          *wordStreamBuilder
	emittedType  map[*ir.Type]bool
	emittedConst map[*ir.Instruction]bool
	voidType     *ir.Type
}

func newTypeConstEmitter(ctx *ir.Context, ids *idAllocator, out *wordStreamBuilder) *typeConstEmitter {
	return &typeConstEmitter{
		ids:          ids,
		out:          out,
		emittedType:  make(map[*ir.Type]bool, 16),
		emittedConst: make(map[*ir.Instruction]bool, 16),
		voidType:     ctx.TypeVoid(),
	}
}

func (e *typeConstEmitter) ensureType(t *ir.Type) error {
	if e.emittedType[t] {
		return nil
	}
	e.emittedType[t] = true

	switch t.Kind {
	case ir.TypeVectorKind, ir.TypeArrayKind, ir.TypePointerKind:
		if err := e.ensureType(t.Elem); err != nil {
			return err
		}
	case ir.TypeFunctionKind:
		if t.Result != nil {
			if err := e.ensureType(t.Result); err != nil {
				return err
			}
		} else if err := e.ensureType(e.voidType); err != nil {
			return err
		}
		for _, p := range t.Params {
			if err := e.ensureType(p); err != nil {
				return err
			}
		}
	}
	if t.Kind == ir.TypeArrayKind && t.LengthConst != nil {
		if err := e.ensureConst(t.LengthConst); err != nil {
			return err
		}
	}

	ri, err := e.buildTypeInstr(t)
	if err != nil {
		return err
	}
	e.out.emit(ri)
	return nil
}

func (e *typeConstEmitter) ensureConst(c *ir.Instruction) error {
	if e.emittedConst[c] {
		return nil
	}
	e.emittedConst[c] = true
	if err := e.ensureType(c.Type); err != nil {
		return err
	}
	ri, err := e.buildConstInstr(c)
	if err != nil {
		return err
	}
	e.out.emit(ri)
	return nil
}

func (e *typeConstEmitter) buildTypeInstr(t *ir.Type) (rawInstruction, error) {
	id := e.ids.typeID(t)
	b := &instructionBuilder{}
	switch t.Kind {
	case ir.TypeVoidKind:
		return b.addWord(id).build(uint16(dialect.OpTypeVoid)), nil
	case ir.TypeBoolKind:
		return b.addWord(id).build(uint16(dialect.OpTypeBool)), nil
	case ir.TypeIntKind:
		signedness := uint32(0)
		if t.Signed {
			signedness = 1
		}
		return b.addWord(id).addWord(t.Width).addWord(signedness).build(uint16(dialect.OpTypeInt)), nil
	case ir.TypeFloatKind:
		return b.addWord(id).addWord(t.Width).build(uint16(dialect.OpTypeFloat)), nil
	case ir.TypeVectorKind:
		return b.addWord(id).addWord(e.ids.typeID(t.Elem)).addWord(t.Len).build(uint16(dialect.OpTypeVector)), nil
	case ir.TypeArrayKind:
		if t.Length == nil {
			return b.addWord(id).addWord(e.ids.typeID(t.Elem)).build(uint16(dialect.OpTypeRuntimeArray)), nil
		}
		return b.addWord(id).addWord(e.ids.typeID(t.Elem)).addWord(e.ids.instrID(t.LengthConst)).
			build(uint16(dialect.OpTypeArray)), nil
	case ir.TypePointerKind:
		return b.addWord(id).addWord(uint32(t.Storage)).addWord(e.ids.typeID(t.Elem)).
			build(uint16(dialect.OpTypePointer)), nil
	case ir.TypeFunctionKind:
		resultID := e.ids.typeID(e.voidType)
		if t.Result != nil {
			resultID = e.ids.typeID(t.Result)
		}
		b.addWord(id).addWord(resultID)
		for _, p := range t.Params {
			b.addWord(e.ids.typeID(p))
		}
		return b.build(uint16(dialect.OpTypeFunction)), nil
	default:
		return rawInstruction{}, &InvariantError{Reason: "type with unrecognized kind reached serialization"}
	}
}

func (e *typeConstEmitter) buildConstInstr(c *ir.Instruction) (rawInstruction, error) {
	id := e.ids.instrID(c)
	typeID := e.ids.typeID(c.Type)
	b := &instructionBuilder{}
	switch c.Op {
	case ir.ConstOpBool:
		if c.Operands[0].Bool {
			return b.addWord(typeID).addWord(id).build(uint16(dialect.OpConstantTrue)), nil
		}
		return b.addWord(typeID).addWord(id).build(uint16(dialect.OpConstantFalse)), nil
	case ir.ConstOpInt:
		b.addWord(typeID).addWord(id)
		v := uint64(c.Operands[0].I64)
		if c.Type.Width > 32 {
			b.addWord(uint32(v)).addWord(uint32(v >> 32))
		} else {
			b.addWord(uint32(v))
		}
		return b.build(uint16(dialect.OpConstant)), nil
	case ir.ConstOpFloat:
		b.addWord(typeID).addWord(id)
		if c.Type.Width > 32 {
			bits := math.Float64bits(c.Operands[0].F64)
			b.addWord(uint32(bits)).addWord(uint32(bits >> 32))
		} else {
			b.addWord(math.Float32bits(c.Operands[0].F32))
		}
		return b.build(uint16(dialect.OpConstant)), nil
	default:
		return rawInstruction{}, &InvariantError{Reason: "constant instruction tagged with an unrecognized ConstOp"}
	}
}

func isConstInstruction(i *ir.Instruction) bool {
	return i.Dialect == dialect.Spv &&
		(i.Op == ir.ConstOpBool || i.Op == ir.ConstOpInt || i.Op == ir.ConstOpFloat)
}

// emitInstruction renders i generically: Value instructions get a
// [typeId, resultId, ...operands] header, others just their operand words.
// Any type or constant an operand reaches is declared on demand through e,
// so a constant used only as, say, an OpVariable initializer is still
// written before its use even though the types/constants walk never found
// it as a root.
func emitInstruction(i *ir.Instruction, ids *idAllocator, e *typeConstEmitter) (rawInstruction, error) {
	b := &instructionBuilder{}
	switch shapeOf(i.Op) {
	case typeAndID:
		if !i.IsValue() {
			return rawInstruction{}, &InvariantError{Reason: "instruction's opcode requires a result type but none is set"}
		}
		if err := e.ensureType(i.Type); err != nil {
			return rawInstruction{}, err
		}
		b.addWord(ids.typeID(i.Type)).addWord(ids.instrID(i))
	case idOnly:
		b.addWord(ids.instrID(i))
	}

	for _, op := range i.Operands {
		switch op.Kind {
		case ir.OperandValueKind:
			if isConstInstruction(op.Value) {
				if err := e.ensureConst(op.Value); err != nil {
					return rawInstruction{}, err
				}
			}
			b.addWord(ids.instrID(op.Value))
		case ir.OperandTypeKind:
			if err := e.ensureType(op.Typ); err != nil {
				return rawInstruction{}, err
			}
			b.addWord(ids.typeID(op.Typ))
		case ir.OperandI32Kind:
			b.addWord(uint32(op.I32))
		case ir.OperandI64Kind:
			v := uint64(op.I64)
			b.addWord(uint32(v)).addWord(uint32(v >> 32))
		case ir.OperandBoolKind:
			if op.Bool {
				b.addWord(1)
			} else {
				b.addWord(0)
			}
		case ir.OperandF32Kind:
			b.addWord(math.Float32bits(op.F32))
		case ir.OperandF64Kind:
			bits := math.Float64bits(op.F64)
			b.addWord(uint32(bits)).addWord(uint32(bits >> 32))
		case ir.OperandStringKind:
			b.addString(op.Str)
		default:
			return rawInstruction{}, &InvariantError{Reason: "instruction operand has an unrecognized kind"}
		}
	}

	if i.Dialect != dialect.Spv {
		return rawInstruction{}, &InvariantError{Reason: "instruction reaching serialization is not tagged with the Spv dialect"}
	}
	return b.build(uint16(i.Op)), nil
}

// Serialize walks m's regions in SPIR-V's mandated section order and
// renders them, together with ctx's interned types and constants, into a
// binary SPIR-V module. Ids are allocated fresh on each call; the Context's
// own identity of its nodes plays no part in the numbering.
func Serialize(ctx *ir.Context, m *Module) ([]byte, error) {
	ids := newIDAllocator()
	out := &wordStreamBuilder{}
	tc := newTypeConstEmitter(ctx, ids, out)

	for _, region := range m.regions() {
		if region == m.Globals {
			for _, t := range ctx.TypesInOrder() {
				if err := tc.ensureType(t); err != nil {
					return nil, err
				}
			}
			for _, c := range ctx.ConstantsInOrder() {
				if err := tc.ensureConst(c); err != nil {
					return nil, err
				}
			}
		}
		for i := region.First(); i != nil; i = i.Next() {
			ri, err := emitInstruction(i, ids, tc)
			if err != nil {
				return nil, err
			}
			out.emit(ri)
		}
	}

	header := out.buildHeader(m.Version, m.Generator, ids.bound())
	body := out.buildBody()
	result := make([]byte, 0, len(header)+len(body))
	result = append(result, header...)
	result = append(result, body...)
	return result, nil
}
