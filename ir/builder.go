package ir

import "github.com/RPCSX/rpcsx-sub002/dialect"

// Builder inserts instructions into one region relative to a cursor,
// wiring def-use edges automatically. Callers that need to build multiple
// dialects against the same region reuse one Builder; dialect-specific
// helper packages (lifter, structurize) take a *Builder rather than a
// region+cursor pair.
type Builder struct {
	ctx    *Context
	region *Region
	cursor *Instruction // last instruction Append placed; Append does not read it
}

// NewBuilderAtEnd returns a Builder that appends to the end of region.
func NewBuilderAtEnd(ctx *Context, region *Region) *Builder {
	return &Builder{ctx: ctx, region: region, cursor: region.last}
}

// NewBuilderBefore returns a Builder over at's region whose cursor starts at
// at's predecessor. Append does not consult the cursor: it still adds to
// the end of the region, not before at.
func NewBuilderBefore(ctx *Context, at *Instruction) *Builder {
	return &Builder{ctx: ctx, region: at.region, cursor: at.prev}
}

// Region returns the region this builder inserts into.
func (b *Builder) Region() *Region { return b.region }

// New allocates a new instruction tagged (d, op) with result type typ (nil
// for no result) and the given operands, at loc, wiring def-use edges for
// every OperandValueKind operand. It does not insert the instruction into
// any region; call Append/Prepend/InsertBefore/InsertAfter for that.
func (b *Builder) New(d dialect.Dialect, op dialect.Op, typ *Type, operands []Operand, loc Location) *Instruction {
	i := &Instruction{Dialect: d, Op: op, Type: typ, Operands: operands, Loc: loc}
	for idx, o := range operands {
		if o.Kind == OperandValueKind && o.Value != nil {
			o.Value.Uses = append(o.Value.Uses, Use{User: i, Index: idx})
		}
	}
	return i
}

// Append inserts i at the end of the builder's region and moves the cursor
// to i.
func (b *Builder) Append(i *Instruction) *Instruction {
	i.region = b.region
	i.prev = b.region.last
	i.next = nil
	if b.region.last != nil {
		b.region.last.next = i
	} else {
		b.region.first = i
	}
	b.region.last = i
	b.region.count++
	b.cursor = i
	return i
}

// Prepend inserts i at the start of the builder's region.
func (b *Builder) Prepend(i *Instruction) *Instruction {
	i.region = b.region
	i.next = b.region.first
	i.prev = nil
	if b.region.first != nil {
		b.region.first.prev = i
	} else {
		b.region.last = i
	}
	b.region.first = i
	b.region.count++
	return i
}

// InsertBefore inserts i immediately before at, within at's region.
func InsertBefore(at, i *Instruction) *Instruction {
	r := at.region
	i.region = r
	i.prev = at.prev
	i.next = at
	if at.prev != nil {
		at.prev.next = i
	} else {
		r.first = i
	}
	at.prev = i
	r.count++
	return i
}

// InsertAfter inserts i immediately after at, within at's region.
func InsertAfter(at, i *Instruction) *Instruction {
	r := at.region
	i.region = r
	i.next = at.next
	i.prev = at
	if at.next != nil {
		at.next.prev = i
	} else {
		r.last = i
	}
	at.next = i
	r.count++
	return i
}

// ReplaceOperand rewrites i's operand at index to o, updating def-use edges
// on both the old and new referenced values (if any).
func ReplaceOperand(i *Instruction, index int, o Operand) {
	old := i.Operands[index]
	if old.Kind == OperandValueKind && old.Value != nil {
		removeUse(old.Value, i, index)
	}
	i.Operands[index] = o
	if o.Kind == OperandValueKind && o.Value != nil {
		o.Value.Uses = append(o.Value.Uses, Use{User: i, Index: index})
	}
}

// ReplaceAllUsesWith rewrites every operand referencing v to reference w
// instead, and clears v's use list.
func ReplaceAllUsesWith(v, w *Instruction) {
	uses := v.Uses
	v.Uses = nil
	for _, u := range uses {
		u.User.Operands[u.Index] = OperandValue(w)
		w.Uses = append(w.Uses, u)
	}
}

// Remove unlinks i from its region and clears its use list. It is a
// programmer error to call Remove while i still has live uses; callers must
// ReplaceAllUsesWith first.
func Remove(i *Instruction) {
	r := i.region
	if r == nil {
		return
	}
	if i.prev != nil {
		i.prev.next = i.next
	} else {
		r.first = i.next
	}
	if i.next != nil {
		i.next.prev = i.prev
	} else {
		r.last = i.prev
	}
	r.count--
	i.prev, i.next, i.region = nil, nil, nil
	i.Uses = nil
}

func removeUse(v, user *Instruction, index int) {
	for k, u := range v.Uses {
		if u.User == user && u.Index == index {
			v.Uses = append(v.Uses[:k], v.Uses[k+1:]...)
			return
		}
	}
}
