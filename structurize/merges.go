package structurize

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// insertMergeAnnotations inserts OpSelectionMerge or OpLoopMerge before
// each construct's header terminator (spec §4.8 step 4), skipping headers
// a previous pass already annotated. It reports whether it inserted
// anything, and fails with *GaveUpError if a construct never found a
// usable merge (an exit-free loop, or a successor set post-dominators
// could not intersect).
func insertMergeAnnotations(ctx *ir.Context, constructs []*construct) (bool, error) {
	changed := false
	for _, c := range constructs {
		instrs := c.header.Instructions
		if len(instrs) >= 2 {
			if prev := instrs[len(instrs)-2]; prev.Op == dialect.OpSelectionMerge || prev.Op == dialect.OpLoopMerge {
				continue
			}
		}
		if c.merge == nil {
			return changed, &GaveUpError{Reason: "a loop header has no reachable exit to serve as its merge block"}
		}

		term := c.header.Terminator()
		b := ir.NewBuilderAtEnd(ctx, c.header.Label.Region())
		if c.isLoop {
			continueLabel := c.merge.Label
			if c.continueBlk != nil {
				continueLabel = c.continueBlk.Label
			}
			merge := b.New(dialect.Spv, dialect.OpLoopMerge, nil, []ir.Operand{
				ir.OperandValue(c.merge.Label), ir.OperandValue(continueLabel), ir.OperandI32(0),
			}, term.Loc)
			ir.InsertBefore(term, merge)
		} else {
			merge := b.New(dialect.Spv, dialect.OpSelectionMerge, nil, []ir.Operand{
				ir.OperandValue(c.merge.Label), ir.OperandI32(0),
			}, term.Loc)
			ir.InsertBefore(term, merge)
		}
		changed = true
	}
	return changed, nil
}
