package ir

// OperandKind distinguishes which field of an Operand is live.
type OperandKind uint8

const (
	OperandValueKind OperandKind = iota
	OperandI32Kind
	OperandI64Kind
	OperandBoolKind
	OperandF32Kind
	OperandF64Kind
	OperandStringKind
	OperandTypeKind
)

// Operand is a tagged union over a value reference and the literal kinds an
// instruction can carry directly: i32, i64, bool, f32, f64, and an interned
// string (used for OpName/OpString-style debug and entry-point operands).
type Operand struct {
	Kind  OperandKind
	Value *Instruction
	I32   int32
	I64   int64
	Bool  bool
	F32   float32
	F64   float64
	Str   string
	Typ   *Type
}

// OperandValue builds a value-reference operand.
func OperandValue(v *Instruction) Operand { return Operand{Kind: OperandValueKind, Value: v} }

// OperandI32 builds a literal i32 operand.
func OperandI32(v int32) Operand { return Operand{Kind: OperandI32Kind, I32: v} }

// OperandI64 builds a literal i64 operand.
func OperandI64(v int64) Operand { return Operand{Kind: OperandI64Kind, I64: v} }

// OperandBool builds a literal bool operand.
func OperandBool(v bool) Operand { return Operand{Kind: OperandBoolKind, Bool: v} }

// OperandF32 builds a literal f32 operand.
func OperandF32(v float32) Operand { return Operand{Kind: OperandF32Kind, F32: v} }

// OperandF64 builds a literal f64 operand.
func OperandF64(v float64) Operand { return Operand{Kind: OperandF64Kind, F64: v} }

// OperandString builds an interned-string operand.
func OperandString(v string) Operand { return Operand{Kind: OperandStringKind, Str: v} }

// OperandType builds an operand referencing a type directly, used by the
// handful of instructions (OpFunction's function-type operand) that name a
// type beyond their own result type.
func OperandType(t *Type) Operand { return Operand{Kind: OperandTypeKind, Typ: t} }
