package ir

import (
	"fmt"
	"io"
)

// Dump writes a textual rendering of region to w, one instruction per line:
// result id (if any), dialect name and numeric opcode (e.g. spv.248), and
// operands. It assigns dense
// per-dump ids to instructions as it encounters them, purely for display —
// these ids have no bearing on the serializer's id allocation.
//
// Intended for debugging the lifter and structurizer, the way the teacher's
// cmd/spvdis renders a SPIR-V binary as text; not part of the compiled
// output.
func (c *Context) Dump(w io.Writer, region *Region) error {
	ids := make(map[*Instruction]int)
	next := 1
	idOf := func(i *Instruction) int {
		if id, ok := ids[i]; ok {
			return id
		}
		id := next
		next++
		ids[i] = id
		return id
	}

	for i := region.First(); i != nil; i = i.Next() {
		var err error
		if i.IsValue() {
			_, err = fmt.Fprintf(w, "%%%d = %s.%d", idOf(i), i.Dialect, uint16(i.Op))
		} else {
			_, err = fmt.Fprintf(w, "%s.%d", i.Dialect, uint16(i.Op))
		}
		if err != nil {
			return err
		}
		if name := c.Name(i); name != "" {
			if _, err := fmt.Fprintf(w, " ; %s", name); err != nil {
				return err
			}
		}
		for _, o := range i.Operands {
			if err := dumpOperand(w, o, idOf); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func dumpOperand(w io.Writer, o Operand, idOf func(*Instruction) int) error {
	var err error
	switch o.Kind {
	case OperandValueKind:
		if o.Value == nil {
			_, err = fmt.Fprint(w, " <nil>")
		} else {
			_, err = fmt.Fprintf(w, " %%%d", idOf(o.Value))
		}
	case OperandI32Kind:
		_, err = fmt.Fprintf(w, " %d", o.I32)
	case OperandI64Kind:
		_, err = fmt.Fprintf(w, " %d", o.I64)
	case OperandBoolKind:
		_, err = fmt.Fprintf(w, " %v", o.Bool)
	case OperandF32Kind:
		_, err = fmt.Fprintf(w, " %g", o.F32)
	case OperandF64Kind:
		_, err = fmt.Fprintf(w, " %g", o.F64)
	case OperandStringKind:
		_, err = fmt.Fprintf(w, " %q", o.Str)
	}
	return err
}
