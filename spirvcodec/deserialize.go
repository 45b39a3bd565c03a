package spirvcodec

import (
	"encoding/binary"
	"math"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// wordEntry is one instruction recovered from the word stream, before its
// operands have been interpreted.
type wordEntry struct {
	opcode uint16
	ops    []uint32 // everything after word 0
}

// Deserialize parses a binary SPIR-V module into a fresh Context and Module,
// the reverse of Serialize. Ids in the input need not be densely packed or
// start anywhere in particular — SPIR-V only requires them nonzero and
// below the header's bound — but every id a decoded instruction references
// must be defined somewhere in the stream, forward or backward.
func Deserialize(data []byte) (*ir.Context, *Module, error) {
	if len(data) < 20 {
		return nil, nil, &DeserializeError{Offset: 0, Reason: "file shorter than the 20-byte header"}
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != Magic {
		return nil, nil, &DeserializeError{Offset: 0, Reason: "bad magic number"}
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	generator := binary.LittleEndian.Uint32(data[8:12])

	entries, err := scanWords(data)
	if err != nil {
		return nil, nil, err
	}

	ctx := ir.NewContext()
	m := NewModule(ctx)
	m.Version = version
	m.Generator = generator

	d := &decoder{ctx: ctx, entries: entries}
	d.indexDefiners()
	if err := d.resolveTypesAndConstants(); err != nil {
		return nil, nil, err
	}
	if err := d.buildShells(); err != nil {
		return nil, nil, err
	}
	if err := d.placeInstructions(m); err != nil {
		return nil, nil, err
	}
	return ctx, m, nil
}

// scanWords recovers the raw instruction stream after the header, mirroring
// the teacher's spvdis decode loop: read word 0, split it into word count
// and opcode, slice off that many words, repeat.
func scanWords(data []byte) ([]wordEntry, error) {
	var entries []wordEntry
	offset := 20
	for offset < len(data) {
		if offset+4 > len(data) {
			return nil, &DeserializeError{Offset: offset, Reason: "truncated instruction header"}
		}
		word0 := binary.LittleEndian.Uint32(data[offset:])
		opcode := uint16(word0 & 0xFFFF)
		wordCount := int(word0 >> 16)
		if wordCount == 0 || offset+wordCount*4 > len(data) {
			return nil, &DeserializeError{Offset: offset, Reason: "invalid instruction word count"}
		}
		ops := make([]uint32, wordCount-1)
		for i := range ops {
			ops[i] = binary.LittleEndian.Uint32(data[offset+4+i*4:])
		}
		entries = append(entries, wordEntry{opcode: opcode, ops: ops})
		offset += wordCount * 4
	}
	return entries, nil
}

// decodeString reads a zero-terminated, 4-byte-padded string starting at
// words[0], returning the string and how many words it occupied.
func decodeString(words []uint32) (string, int) {
	buf := make([]byte, 0, len(words)*4)
	for i, w := range words {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], w)
		for _, c := range b {
			if c == 0 {
				return string(buf), i + 1
			}
			buf = append(buf, c)
		}
	}
	return string(buf), len(words)
}

func isTypeOpcode(op dialect.Op) bool {
	switch op {
	case dialect.OpTypeVoid, dialect.OpTypeBool, dialect.OpTypeInt, dialect.OpTypeFloat,
		dialect.OpTypeVector, dialect.OpTypeArray, dialect.OpTypeRuntimeArray,
		dialect.OpTypePointer, dialect.OpTypeFunction:
		return true
	default:
		return false
	}
}

func isConstOpcode(op dialect.Op) bool {
	switch op {
	case dialect.OpConstantTrue, dialect.OpConstantFalse, dialect.OpConstant:
		return true
	default:
		return false
	}
}

// decoder holds the in-progress state of one Deserialize call.
type decoder struct {
	ctx     *ir.Context
	entries []wordEntry

	// definerOf maps a result id to the index of the entry that defines it,
	// across the whole stream, so forward references (an EntryPoint naming
	// a Function declared later) resolve regardless of scan order.
	definerOf map[uint32]int

	types     map[uint32]*ir.Type
	consts    map[uint32]*ir.Instruction
	instrs    map[uint32]*ir.Instruction
	resolving map[uint32]bool
}

func (d *decoder) indexDefiners() {
	d.definerOf = make(map[uint32]int, len(d.entries))
	for i, e := range d.entries {
		op := dialect.Op(e.opcode)
		switch {
		case isTypeOpcode(op):
			if len(e.ops) > 0 {
				d.definerOf[e.ops[0]] = i
			}
		case isConstOpcode(op):
			if len(e.ops) > 1 {
				d.definerOf[e.ops[1]] = i
			}
		case shapeOf(op) == idOnly:
			if len(e.ops) > 0 {
				d.definerOf[e.ops[0]] = i
			}
		case shapeOf(op) == typeAndID:
			if len(e.ops) > 1 {
				d.definerOf[e.ops[1]] = i
			}
		}
	}
}

// resolveTypesAndConstants recursively interns every OpType*/OpConstant*
// entry. SPIR-V mandates types and constants are declared in dependency
// order, so plain recursion (memoized against cycles) always terminates.
func (d *decoder) resolveTypesAndConstants() error {
	d.types = make(map[uint32]*ir.Type, 16)
	d.consts = make(map[uint32]*ir.Instruction, 16)
	d.resolving = make(map[uint32]bool, 16)
	for id, idx := range d.definerOf {
		op := dialect.Op(d.entries[idx].opcode)
		if isTypeOpcode(op) {
			if _, err := d.resolveType(id); err != nil {
				return err
			}
		} else if isConstOpcode(op) {
			if _, err := d.resolveConst(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) resolveType(id uint32) (*ir.Type, error) {
	if t, ok := d.types[id]; ok {
		return t, nil
	}
	idx, ok := d.definerOf[id]
	if !ok {
		return nil, &DeserializeError{Reason: "reference to an id with no OpType* definition"}
	}
	e := d.entries[idx]
	if d.resolving[id] {
		return nil, &DeserializeError{Reason: "cyclic type definition"}
	}
	d.resolving[id] = true
	defer delete(d.resolving, id)

	ops := e.ops[1:] // ops[0] is the type's own id
	var t *ir.Type
	switch dialect.Op(e.opcode) {
	case dialect.OpTypeVoid:
		t = d.ctx.TypeVoid()
	case dialect.OpTypeBool:
		t = d.ctx.TypeBool()
	case dialect.OpTypeInt:
		t = d.ctx.TypeInt(ops[0], ops[1] == 1)
	case dialect.OpTypeFloat:
		t = d.ctx.TypeFloat(ops[0])
	case dialect.OpTypeVector:
		elem, err := d.resolveType(ops[0])
		if err != nil {
			return nil, err
		}
		t = d.ctx.TypeVector(elem, ops[1])
	case dialect.OpTypeArray:
		elem, err := d.resolveType(ops[0])
		if err != nil {
			return nil, err
		}
		lengthConst, err := d.resolveConst(ops[1])
		if err != nil {
			return nil, err
		}
		length := uint32(lengthConst.Operands[0].I64)
		t = d.ctx.TypeArray(elem, &length)
	case dialect.OpTypeRuntimeArray:
		elem, err := d.resolveType(ops[0])
		if err != nil {
			return nil, err
		}
		t = d.ctx.TypeArray(elem, nil)
	case dialect.OpTypePointer:
		pointee, err := d.resolveType(ops[1])
		if err != nil {
			return nil, err
		}
		t = d.ctx.TypePointer(dialect.StorageClass(ops[0]), pointee)
	case dialect.OpTypeFunction:
		result, err := d.resolveType(ops[0])
		if err != nil {
			return nil, err
		}
		if result.Kind == ir.TypeVoidKind {
			result = nil
		}
		params := make([]*ir.Type, 0, len(ops)-1)
		for _, p := range ops[1:] {
			pt, err := d.resolveType(p)
			if err != nil {
				return nil, err
			}
			params = append(params, pt)
		}
		t = d.ctx.TypeFunction(result, params)
	default:
		return nil, &DeserializeError{Reason: "id expected to be a type but its defining opcode is not an OpType*"}
	}
	d.types[id] = t
	return t, nil
}

func (d *decoder) resolveConst(id uint32) (*ir.Instruction, error) {
	if c, ok := d.consts[id]; ok {
		return c, nil
	}
	idx, ok := d.definerOf[id]
	if !ok {
		return nil, &DeserializeError{Reason: "reference to an id with no OpConstant* definition"}
	}
	e := d.entries[idx]
	typ, err := d.resolveType(e.ops[0])
	if err != nil {
		return nil, err
	}

	var c *ir.Instruction
	switch dialect.Op(e.opcode) {
	case dialect.OpConstantTrue:
		c = d.ctx.ConstantBool(true)
	case dialect.OpConstantFalse:
		c = d.ctx.ConstantBool(false)
	case dialect.OpConstant:
		lit := e.ops[2:]
		switch typ.Kind {
		case ir.TypeIntKind:
			var v uint64
			if typ.Width > 32 {
				v = uint64(lit[0]) | uint64(lit[1])<<32
			} else {
				v = uint64(lit[0])
			}
			c = d.ctx.ConstantInt(typ.Width, typ.Signed, v)
		case ir.TypeFloatKind:
			if typ.Width > 32 {
				bits := uint64(lit[0]) | uint64(lit[1])<<32
				c = d.ctx.ConstantFloat64(math.Float64frombits(bits))
			} else {
				c = d.ctx.ConstantFloat32(math.Float32frombits(lit[0]))
			}
		default:
			return nil, &DeserializeError{Reason: "OpConstant with a non-scalar result type"}
		}
	default:
		return nil, &DeserializeError{Reason: "id expected to be a constant but its defining opcode is not an OpConstant*"}
	}
	d.consts[id] = c
	return c, nil
}

// buildShells pre-creates an empty Instruction for every id-bearing generic
// instruction, across the whole stream, so operand resolution in
// placeInstructions can reference an id regardless of whether its defining
// instruction has been placed yet.
func (d *decoder) buildShells() error {
	d.instrs = make(map[uint32]*ir.Instruction, len(d.entries))
	for _, e := range d.entries {
		op := dialect.Op(e.opcode)
		shape := shapeOf(op)
		if shape == noResult {
			continue
		}
		var id uint32
		var typ *ir.Type
		if shape == typeAndID {
			t, err := d.resolveType(e.ops[0])
			if err != nil {
				return err
			}
			typ, id = t, e.ops[1]
		} else {
			id = e.ops[0]
		}
		d.instrs[id] = &ir.Instruction{Dialect: dialect.Spv, Op: op, Type: typ, Loc: ir.UnknownLocation}
	}
	return nil
}

// idFor resolves id to the Instruction a value-reference operand names,
// whether it is a generic instruction or an interned constant.
func (d *decoder) idFor(id uint32) (*ir.Instruction, error) {
	if v, ok := d.instrs[id]; ok {
		return v, nil
	}
	if v, ok := d.consts[id]; ok {
		return v, nil
	}
	return nil, &DeserializeError{Reason: "value reference to an id with no instruction or constant definition"}
}

func wireOperand(v *ir.Instruction, idx int, operands []ir.Operand) {
	o := operands[idx]
	if o.Kind == ir.OperandValueKind && o.Value != nil {
		o.Value.Uses = append(o.Value.Uses, ir.Use{User: v, Index: idx})
	}
}

// placeInstructions walks the stream a second time, now resolving every
// generic instruction's operands and appending it to the module region its
// opcode belongs to.
func (d *decoder) placeInstructions(m *Module) error {
	sawFunction := false
	for _, e := range d.entries {
		op := dialect.Op(e.opcode)
		if isTypeOpcode(op) || isConstOpcode(op) {
			continue
		}

		shape := shapeOf(op)
		var header []uint32
		switch shape {
		case typeAndID:
			header = e.ops[:2]
		case idOnly:
			header = e.ops[:1]
		}
		rest := e.ops[len(header):]

		operands, err := d.decodeOperands(op, rest)
		if err != nil {
			return err
		}

		var inst *ir.Instruction
		if shape == noResult {
			inst = &ir.Instruction{Dialect: dialect.Spv, Op: op, Loc: ir.UnknownLocation}
		} else {
			id := header[len(header)-1]
			inst = d.instrs[id]
		}
		inst.Operands = operands
		for idx := range operands {
			wireOperand(inst, idx, operands)
		}

		region := d.regionFor(m, op, sawFunction)
		ir.NewBuilderAtEnd(d.ctx, region).Append(inst)

		switch op {
		case dialect.OpFunction:
			sawFunction = true
		case dialect.OpFunctionEnd:
			sawFunction = false
		}
	}
	return nil
}

func (d *decoder) regionFor(m *Module, op dialect.Op, sawFunction bool) *ir.Region {
	switch op {
	case dialect.OpCapability:
		return m.Capabilities
	case dialect.OpExtension:
		return m.Extensions
	case dialect.OpExtInstImport:
		return m.ExtInstImports
	case dialect.OpMemoryModel:
		return m.MemoryModel
	case dialect.OpEntryPoint:
		return m.EntryPoints
	case dialect.OpExecutionMode:
		return m.ExecutionModes
	case dialect.OpSource, dialect.OpString, dialect.OpName, dialect.OpMemberName:
		return m.Debugs
	case dialect.OpDecorate, dialect.OpMemberDecorate:
		return m.Annotations
	case dialect.OpVariable:
		if sawFunction {
			return m.Functions
		}
		return m.Globals
	default:
		return m.Functions
	}
}

// decodeOperands turns the words following an instruction's header into
// Operands, grounded on the same per-opcode knowledge the teacher's spvdis
// disassembler switch encodes, but building an Operand union instead of
// printing text.
func (d *decoder) decodeOperands(op dialect.Op, ops []uint32) ([]ir.Operand, error) {
	val := func(id uint32) (ir.Operand, error) {
		v, err := d.idFor(id)
		if err != nil {
			return ir.Operand{}, err
		}
		return ir.OperandValue(v), nil
	}
	valsFrom := func(ids []uint32) ([]ir.Operand, error) {
		out := make([]ir.Operand, 0, len(ids))
		for _, id := range ids {
			o, err := val(id)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
		return out, nil
	}
	lits := func(xs []uint32) []ir.Operand {
		out := make([]ir.Operand, len(xs))
		for i, x := range xs {
			out[i] = ir.OperandI32(int32(x))
		}
		return out
	}

	switch op {
	case dialect.OpString:
		s, _ := decodeString(ops)
		return []ir.Operand{ir.OperandString(s)}, nil

	case dialect.OpExtInstImport:
		s, _ := decodeString(ops)
		return []ir.Operand{ir.OperandString(s)}, nil

	case dialect.OpCapability:
		return lits(ops), nil

	case dialect.OpExtension:
		s, _ := decodeString(ops)
		return []ir.Operand{ir.OperandString(s)}, nil

	case dialect.OpMemoryModel:
		return lits(ops), nil

	case dialect.OpEntryPoint:
		fn, err := val(ops[1])
		if err != nil {
			return nil, err
		}
		name, words := decodeString(ops[2:])
		iface, err := valsFrom(ops[2+words:])
		if err != nil {
			return nil, err
		}
		out := append([]ir.Operand{ir.OperandI32(int32(ops[0])), fn, ir.OperandString(name)}, iface...)
		return out, nil

	case dialect.OpExecutionMode:
		target, err := val(ops[0])
		if err != nil {
			return nil, err
		}
		out := append([]ir.Operand{target}, lits(ops[1:])...)
		return out, nil

	case dialect.OpName:
		target, err := val(ops[0])
		if err != nil {
			return nil, err
		}
		s, _ := decodeString(ops[1:])
		return []ir.Operand{target, ir.OperandString(s)}, nil

	case dialect.OpMemberName:
		target, err := val(ops[0])
		if err != nil {
			return nil, err
		}
		s, _ := decodeString(ops[2:])
		return []ir.Operand{target, ir.OperandI32(int32(ops[1])), ir.OperandString(s)}, nil

	case dialect.OpDecorate:
		target, err := val(ops[0])
		if err != nil {
			return nil, err
		}
		out := append([]ir.Operand{target}, lits(ops[1:])...)
		return out, nil

	case dialect.OpMemberDecorate:
		target, err := val(ops[0])
		if err != nil {
			return nil, err
		}
		out := append([]ir.Operand{target, ir.OperandI32(int32(ops[1]))}, lits(ops[2:])...)
		return out, nil

	case dialect.OpFunction:
		ft, err := d.resolveType(ops[1])
		if err != nil {
			return nil, err
		}
		return []ir.Operand{ir.OperandI32(int32(ops[0])), ir.OperandType(ft)}, nil

	case dialect.OpFunctionParameter, dialect.OpLabel:
		return nil, nil

	case dialect.OpFunctionCall:
		return valsFrom(ops)

	case dialect.OpVariable:
		out := []ir.Operand{ir.OperandI32(int32(ops[0]))}
		rest, err := valsFrom(ops[1:])
		if err != nil {
			return nil, err
		}
		return append(out, rest...), nil

	case dialect.OpLoad, dialect.OpReturnValue, dialect.OpBranch:
		return valsFrom(ops[:1])

	case dialect.OpStore:
		return valsFrom(ops[:2])

	case dialect.OpAccessChain, dialect.OpCompositeConstruct:
		return valsFrom(ops)

	case dialect.OpCompositeExtract:
		base, err := val(ops[0])
		if err != nil {
			return nil, err
		}
		return append([]ir.Operand{base}, lits(ops[1:])...), nil

	case dialect.OpVectorShuffle:
		vs, err := valsFrom(ops[:2])
		if err != nil {
			return nil, err
		}
		return append(vs, lits(ops[2:])...), nil

	case dialect.OpConvertFToU, dialect.OpConvertFToS, dialect.OpConvertSToF, dialect.OpConvertUToF,
		dialect.OpUConvert, dialect.OpSConvert, dialect.OpBitcast,
		dialect.OpSNegate, dialect.OpFNegate, dialect.OpLogicalNot, dialect.OpNot,
		dialect.OpIsNan, dialect.OpIsInf, dialect.OpIsFinite:
		return valsFrom(ops[:1])

	case dialect.OpIAdd, dialect.OpFAdd, dialect.OpISub, dialect.OpFSub, dialect.OpIMul, dialect.OpFMul,
		dialect.OpUDiv, dialect.OpSDiv, dialect.OpFDiv, dialect.OpUMod, dialect.OpSMod, dialect.OpFMod,
		dialect.OpLogicalOr, dialect.OpLogicalAnd,
		dialect.OpIEqual, dialect.OpINotEqual,
		dialect.OpUGreaterThan, dialect.OpSGreaterThan, dialect.OpUGreaterThanEqual, dialect.OpSGreaterThanEqual,
		dialect.OpULessThan, dialect.OpSLessThan, dialect.OpULessThanEqual, dialect.OpSLessThanEqual,
		dialect.OpFOrdEqual, dialect.OpFUnordEqual, dialect.OpFOrdNotEqual, dialect.OpFUnordNotEqual,
		dialect.OpFOrdLessThan, dialect.OpFUnordLessThan,
		dialect.OpFOrdGreaterThan, dialect.OpFUnordGreaterThan,
		dialect.OpFOrdLessThanEqual, dialect.OpFUnordLessThanEqual,
		dialect.OpFOrdGreaterThanEqual, dialect.OpFUnordGreaterThanEqual,
		dialect.OpShiftRightLogical, dialect.OpShiftRightArithmetic, dialect.OpShiftLeftLogical,
		dialect.OpBitwiseOr, dialect.OpBitwiseXor, dialect.OpBitwiseAnd:
		return valsFrom(ops[:2])

	case dialect.OpSelect:
		return valsFrom(ops[:3])

	case dialect.OpBranchConditional:
		return valsFrom(ops[:3])

	case dialect.OpSwitch:
		// Literal/label target pairs beyond the default are not round-tripped.
		return valsFrom(ops[:2])

	case dialect.OpPhi:
		// Every operand is a (Variable, Parent Block) id pair.
		return valsFrom(ops)

	case dialect.OpSelectionMerge:
		merge, err := val(ops[0])
		if err != nil {
			return nil, err
		}
		return []ir.Operand{merge, ir.OperandI32(int32(ops[1]))}, nil

	case dialect.OpLoopMerge:
		vs, err := valsFrom(ops[:2])
		if err != nil {
			return nil, err
		}
		return append(vs, ir.OperandI32(int32(ops[2]))), nil

	case dialect.OpControlBarrier:
		return valsFrom(ops[:3])

	case dialect.OpMemoryBarrier:
		return valsFrom(ops[:2])

	case dialect.OpSource:
		return lits(ops), nil

	case dialect.OpFunctionEnd, dialect.OpReturn, dialect.OpKill, dialect.OpUnreachable, dialect.OpNop:
		return nil, nil

	default:
		return nil, &DeserializeError{Reason: "no operand decoding rule for this opcode"}
	}
}
