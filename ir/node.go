package ir

import "github.com/RPCSX/rpcsx-sub002/dialect"

// Location attributes an instruction to its origin: either unknown, or a
// byte range in the GCN stream it was lifted from.
type Location struct {
	Known   bool
	Address uint64
	Size    uint64
}

// UnknownLocation is the Location used for instructions with no GCN origin
// (synthesized control flow, semantic-module imports, type/constant nodes).
var UnknownLocation = Location{}

// AddressLocation builds a Location for the instruction decoded at address,
// occupying size bytes.
func AddressLocation(address, size uint64) Location {
	return Location{Known: true, Address: address, Size: size}
}

// Use records one occurrence of a Value as an operand of an instruction, at
// a specific operand index. An instruction's Uses slice holds one Use per
// reference to it, so that (I, O) is represented exactly once.
type Use struct {
	User  *Instruction
	Index int
}

// Instruction is the single node type every IR entity is built from: an
// opcode tagged (Dialect, Op), an ordered operand list, an optional result
// Type (present iff the instruction is a Value), and the doubly-linked-list
// pointers that place it inside a Region.
//
// Instructions are owned by the Context that created them; they must never
// be shared across contexts.
type Instruction struct {
	Dialect dialect.Dialect
	Op      dialect.Op
	Type    *Type // nil unless this instruction yields a value
	Operands []Operand
	Loc     Location

	Uses []Use // one entry per OperandValueKind operand referring to this instruction

	region     *Region
	prev, next *Instruction
}

// IsValue reports whether the instruction yields a result.
func (i *Instruction) IsValue() bool { return i.Type != nil }

// Region returns the region the instruction currently belongs to, or nil if
// it has been removed or was never inserted.
func (i *Instruction) Region() *Region { return i.region }

// Next returns the following instruction in program order within the same
// region, or nil at the region's end.
func (i *Instruction) Next() *Instruction { return i.next }

// Prev returns the preceding instruction in program order within the same
// region, or nil at the region's start.
func (i *Instruction) Prev() *Instruction { return i.prev }

// RegionKind distinguishes a region's role, enforcing the invariant that a
// region's instructions are either all top-level module sections or all
// block-body instructions between a label and a terminator.
type RegionKind uint8

const (
	// RegionModule holds one SPIR-V layout section (Capabilities, Types,
	// Globals, Functions, ...).
	RegionModule RegionKind = iota
	// RegionBlock holds the body of a function or basic block.
	RegionBlock
)

// Region is an ordered, doubly-linked sequence of instructions.
type Region struct {
	Kind        RegionKind
	first, last *Instruction
	count       int
}

// First returns the region's first instruction, or nil if empty.
func (r *Region) First() *Instruction { return r.first }

// Last returns the region's last instruction, or nil if empty.
func (r *Region) Last() *Instruction { return r.last }

// Len returns the number of instructions currently in the region.
func (r *Region) Len() int { return r.count }

// Instructions returns the region's contents as a slice, in program order.
// Intended for analysis and dump code, not hot paths.
func (r *Region) Instructions() []*Instruction {
	out := make([]*Instruction, 0, r.count)
	for i := r.first; i != nil; i = i.next {
		out = append(out, i)
	}
	return out
}
