package analyses

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// MemoryState is one node of a function's memory-SSA graph: the heap
// version reaching a load (Use), produced by a store (Def), merged at a
// block with more than one predecessor (Phi), or the version in effect
// before the function's first instruction (LiveOnEntry).
//
// The recompiler tracks a single whole-heap version rather than per-pointer
// versions: GCN's memory operands (buffer descriptors, LDS offsets,
// pointer-composite reads) are not disambiguated at this layer, so treating
// every store as a potential definition of everything a later load might
// read is the only sound choice without a points-to analysis this
// recompiler does not build.
type MemoryState struct {
	Op        dialect.Op // MemSSALiveOnEntry, MemSSADef, MemSSAUse, or MemSSAPhi
	Instr     *ir.Instruction
	Block     *Block
	Reaching  *MemoryState   // Def/Use: the version this node reads
	PhiInputs []*MemoryState // Phi: one entry per b.Preds, same order
}

// MemorySSA is a function's memory-SSA form: every OpLoad/OpStore maps to
// the MemoryState node describing which version of memory it observes or
// produces.
type MemorySSA struct {
	ByInstr     map[*ir.Instruction]*MemoryState
	LiveOnEntry *MemoryState
}

const memorySSACacheKey = "memssa"

// MemorySSAOf returns fn's memory-SSA form, building and caching it on
// first request.
func MemorySSAOf(ctx *ir.Context, fn *ir.Instruction) *MemorySSA {
	if v, ok := ctx.CachedAnalysis(fn, memorySSACacheKey); ok {
		return v.(*MemorySSA)
	}
	m := buildMemorySSA(CFGOf(ctx, fn))
	ctx.CacheAnalysis(fn, memorySSACacheKey, m)
	return m
}

// buildMemorySSA runs a single reverse-postorder pass: a block with exactly
// one already-visited predecessor just inherits its exit version, any other
// shape (multiple preds, or a predecessor not yet visited because it closes
// a loop) gets a Phi. Back-edge inputs are necessarily supplied by a block
// later in reverse postorder, so they are recorded as pending and patched
// in once the whole pass has produced every block's exit state.
func buildMemorySSA(cfg *CFG) *MemorySSA {
	m := &MemorySSA{
		ByInstr:     make(map[*ir.Instruction]*MemoryState),
		LiveOnEntry: &MemoryState{Op: dialect.MemSSALiveOnEntry},
	}
	if cfg.Entry == nil {
		return m
	}

	order := reversePostOrder(cfg)
	rpoIndex := make(map[*Block]int, len(order))
	for i, b := range order {
		rpoIndex[b] = i
	}

	type pendingInput struct {
		phi   *MemoryState
		slot  int
		block *Block
	}
	var pending []pendingInput
	exitState := make(map[*Block]*MemoryState, len(order))

	for _, b := range order {
		var in *MemoryState
		switch {
		case b == cfg.Entry:
			in = m.LiveOnEntry
		case len(b.Preds) == 1 && rpoIndex[b.Preds[0]] < rpoIndex[b]:
			in = exitState[b.Preds[0]]
		default:
			phi := &MemoryState{Op: dialect.MemSSAPhi, Block: b, PhiInputs: make([]*MemoryState, len(b.Preds))}
			for slot, p := range b.Preds {
				if rpoIndex[p] < rpoIndex[b] {
					phi.PhiInputs[slot] = exitState[p]
				} else {
					pending = append(pending, pendingInput{phi: phi, slot: slot, block: p})
				}
			}
			in = phi
		}

		cur := in
		for _, instr := range b.Instructions {
			switch instr.Op {
			case dialect.OpStore:
				cur = &MemoryState{Op: dialect.MemSSADef, Instr: instr, Block: b, Reaching: cur}
				m.ByInstr[instr] = cur
			case dialect.OpLoad:
				m.ByInstr[instr] = &MemoryState{Op: dialect.MemSSAUse, Instr: instr, Block: b, Reaching: cur}
			}
		}
		exitState[b] = cur
	}

	for _, p := range pending {
		p.phi.PhiInputs[p.slot] = exitState[p.block]
	}
	return m
}
