// Package analyses computes the CFG, dominator tree, back-edge set, and
// memory-SSA form the structurizer and partial evaluator read from (spec
// §4.7). Every analysis is a pure function of a function's OpFunction
// instruction, cached on the owning Context and invalidated wholesale by
// ir.Context.InvalidateAll whenever the lifter or structurizer mutates a
// region.
package analyses

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// Block is one SPIR-V basic block: an OpLabel and the instructions up to and
// including its terminator.
type Block struct {
	Label        *ir.Instruction
	Instructions []*ir.Instruction
	Preds, Succs []*Block

	id int
}

// Terminator returns the block's final instruction (a branch, switch, or
// return-family opcode).
func (b *Block) Terminator() *ir.Instruction {
	return b.Instructions[len(b.Instructions)-1]
}

// CFG is a function's basic blocks and the edges between them, in program
// order starting at Entry.
type CFG struct {
	Func    *ir.Instruction
	Entry   *Block
	Blocks  []*Block
	byLabel map[*ir.Instruction]*Block
}

// BlockOf returns the Block whose label is lbl.
func (c *CFG) BlockOf(lbl *ir.Instruction) *Block { return c.byLabel[lbl] }

const cfgCacheKey = "cfg"

// CFGOf returns fn's control-flow graph, building and caching it on first
// request.
func CFGOf(ctx *ir.Context, fn *ir.Instruction) *CFG {
	if v, ok := ctx.CachedAnalysis(fn, cfgCacheKey); ok {
		return v.(*CFG)
	}
	cfg := buildCFG(fn)
	ctx.CacheAnalysis(fn, cfgCacheKey, cfg)
	return cfg
}

func buildCFG(fn *ir.Instruction) *CFG {
	cfg := &CFG{Func: fn, byLabel: make(map[*ir.Instruction]*Block)}

	var cur *Block
	for i := fn.Next(); i != nil && i.Op != dialect.OpFunctionEnd; i = i.Next() {
		switch i.Op {
		case dialect.OpFunctionParameter:
			continue
		case dialect.OpLabel:
			cur = &Block{Label: i, id: len(cfg.Blocks)}
			cur.Instructions = append(cur.Instructions, i)
			cfg.Blocks = append(cfg.Blocks, cur)
			cfg.byLabel[i] = cur
		default:
			if cur == nil {
				continue
			}
			cur.Instructions = append(cur.Instructions, i)
		}
	}
	if len(cfg.Blocks) > 0 {
		cfg.Entry = cfg.Blocks[0]
	}

	for _, b := range cfg.Blocks {
		for _, lbl := range terminatorTargets(b.Terminator()) {
			succ := cfg.byLabel[lbl]
			b.Succs = append(b.Succs, succ)
			succ.Preds = append(succ.Preds, b)
		}
	}
	return cfg
}

// terminatorTargets lists the labels a terminator can transfer control to.
// An OpSwitch's operands are laid out Selector, Default, then (Literal,
// Label) pairs for every non-default case (structurize/fixups.go's
// multi-target external-exit merge is the only producer of a multi-case
// OpSwitch in this recompiler); spirvcodec's deserializer does not
// round-trip the non-default pairs (see its OpSwitch decoding comment), but
// the in-memory IR the structurizer itself builds and re-analyzes always
// carries them, so they are reported here.
func terminatorTargets(term *ir.Instruction) []*ir.Instruction {
	switch term.Op {
	case dialect.OpBranch:
		return []*ir.Instruction{term.Operands[0].Value}
	case dialect.OpBranchConditional:
		return []*ir.Instruction{term.Operands[1].Value, term.Operands[2].Value}
	case dialect.OpSwitch:
		targets := []*ir.Instruction{term.Operands[1].Value}
		for i := 3; i < len(term.Operands); i += 2 {
			targets = append(targets, term.Operands[i].Value)
		}
		return targets
	default:
		return nil
	}
}

func reversePostOrder(cfg *CFG) []*Block {
	if cfg.Entry == nil {
		return nil
	}
	visited := make(map[*Block]bool, len(cfg.Blocks))
	post := make([]*Block, 0, len(cfg.Blocks))
	var visit func(b *Block)
	visit = func(b *Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.Succs {
			visit(s)
		}
		post = append(post, b)
	}
	visit(cfg.Entry)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}
