package ir

// CloneMap routes operand lookups during a clone of an instruction graph:
// pinned nodes (interned types and constants, register variables, imported
// globals) map to themselves, already-cloned nodes map to their clone, and
// anything else is cloned fresh and remembered before its operands are
// visited (so cycles through phi-style back references terminate).
type CloneMap struct {
	ctx       *Context
	overrides map[*Instruction]*Instruction
}

// NewCloneMap returns an empty CloneMap for cloning into ctx.
func NewCloneMap(ctx *Context) *CloneMap {
	return &CloneMap{ctx: ctx, overrides: make(map[*Instruction]*Instruction)}
}

// Pin fixes src's clone to itself: src is shared, not duplicated.
func (m *CloneMap) Pin(src *Instruction) {
	m.overrides[src] = src
}

// PinTo fixes src's clone to dst explicitly.
func (m *CloneMap) PinTo(src, dst *Instruction) {
	m.overrides[src] = dst
}

// Get returns the clone previously produced or pinned for src, if any.
func (m *CloneMap) Get(src *Instruction) (*Instruction, bool) {
	dst, ok := m.overrides[src]
	return dst, ok
}

// Clone deep-copies src's instruction graph (following OperandValueKind
// operands transitively) into m's context, reusing pinned or already-cloned
// targets where the map says to. It does not insert the resulting
// instructions into any region — the caller does that via a Builder once
// cloning settles, since clones of a structured region are typically
// reordered relative to the source.
func (m *CloneMap) Clone(src *Instruction) *Instruction {
	if dst, ok := m.overrides[src]; ok {
		return dst
	}

	if IsConstant(src) {
		dst := m.ctx.InternConstant(src)
		m.overrides[src] = dst
		return dst
	}

	dst := &Instruction{
		Dialect: src.Dialect,
		Op:      src.Op,
		Type:    m.ctx.InternType(src.Type),
		Loc:     src.Loc,
	}
	m.overrides[src] = dst

	dst.Operands = make([]Operand, len(src.Operands))
	for idx, o := range src.Operands {
		switch {
		case o.Kind == OperandValueKind && o.Value != nil:
			cv := m.Clone(o.Value)
			dst.Operands[idx] = OperandValue(cv)
			cv.Uses = append(cv.Uses, Use{User: dst, Index: idx})
		case o.Kind == OperandTypeKind:
			dst.Operands[idx] = OperandType(m.ctx.InternType(o.Typ))
		default:
			dst.Operands[idx] = o
		}
	}

	if name := m.ctx.Name(src); name != "" {
		m.ctx.SetName(dst, name)
	}
	return dst
}
