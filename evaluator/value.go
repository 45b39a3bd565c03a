// Package evaluator implements the partial evaluator (spec §4.6): a
// recursive-descent, per-node-cached resolver that folds a Value back to a
// compile-time constant when its inputs allow, and never errors — an
// unresolvable input just yields the empty Value.
package evaluator

import (
	"math"

	"github.com/RPCSX/rpcsx-sub002/ir"
)

// Value is the evaluator's result for one node: either unknown (Ok == false)
// or a resolved scalar/composite constant. Scalars carry their bit pattern
// in Bits, reinterpreted through Type to get a signed, unsigned, or floating
// reading; composites carry their constituents in Elems.
type Value struct {
	Ok    bool
	Type  *ir.Type
	Bits  uint64
	Elems []Value
}

// Unknown is the zero Value, returned for every input the evaluator cannot
// resolve.
var Unknown = Value{}

func scalar(t *ir.Type, bits uint64) Value {
	return Value{Ok: true, Type: t, Bits: bits}
}

// Uint32 reads v's bit pattern as an unsigned 32-bit integer.
func (v Value) Uint32() uint32 { return uint32(v.Bits) }

// Int32 reads v's bit pattern as a signed 32-bit integer.
func (v Value) Int32() int32 { return int32(uint32(v.Bits)) }

// Uint64 reads v's bit pattern as an unsigned 64-bit integer.
func (v Value) Uint64() uint64 { return v.Bits }

// Int64 reads v's bit pattern as a signed 64-bit integer.
func (v Value) Int64() int64 { return int64(v.Bits) }

// Float32 reinterprets v's low 32 bits as an IEEE-754 single.
func (v Value) Float32() float32 { return math.Float32frombits(uint32(v.Bits)) }

// Float64 reinterprets v's 64 bits as an IEEE-754 double.
func (v Value) Float64() float64 { return math.Float64frombits(v.Bits) }

// Bool reads v's bit pattern as a boolean (nonzero is true).
func (v Value) Bool() bool { return v.Bits != 0 }
