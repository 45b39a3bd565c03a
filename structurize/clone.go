package structurize

import (
	"github.com/RPCSX/rpcsx-sub002/analyses"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// cloneBlockEntry duplicates b (its label and every instruction up to and
// including its terminator) and repoints external's branches at the
// duplicate, leaving b's own internal predecessors untouched.
func cloneBlockEntry(ctx *ir.Context, b *analyses.Block, external []*analyses.Block) {
	local := make(map[*ir.Instruction]bool, len(b.Instructions))
	for _, i := range b.Instructions {
		local[i] = true
	}

	cm := ir.NewCloneMap(ctx)
	pinned := make(map[*ir.Instruction]bool)
	for _, i := range b.Instructions {
		pinExternalOperands(cm, local, pinned, i)
	}

	cloned := make([]*ir.Instruction, len(b.Instructions))
	for idx, i := range b.Instructions {
		cloned[idx] = cm.Clone(i)
	}
	appendBeforeFunctionEnd(b.Label.Region(), cloned...)
	clonedLabel := cloned[0]

	for _, p := range external {
		retarget(p.Terminator(), b.Label, clonedLabel)
	}
}

// pinExternalOperands pins (maps to itself, rather than cloning) every
// operand i references that is not one of the instructions being cloned:
// register variables, interned constants, the semantic module's functions,
// and any label outside the cloned block. Clone() would otherwise follow
// those references transitively and duplicate shared state that must stay
// shared.
func pinExternalOperands(cm *ir.CloneMap, local, pinned map[*ir.Instruction]bool, i *ir.Instruction) {
	for _, o := range i.Operands {
		if o.Kind != ir.OperandValueKind || o.Value == nil {
			continue
		}
		v := o.Value
		if local[v] || pinned[v] {
			continue
		}
		pinned[v] = true
		cm.Pin(v)
	}
}
