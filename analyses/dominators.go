package analyses

import "github.com/RPCSX/rpcsx-sub002/ir"

// Dominators is a function's immediate-dominator tree, computed with the
// Cooper/Harvey/Kennedy iterative algorithm (the same approach
// other_examples' wazero ssa package uses for its basic-block dominator
// pass): a reverse-postorder walk intersecting each block's processed
// predecessors until the assignment stops changing.
type Dominators struct {
	idom     map[*Block]*Block
	rpoIndex map[*Block]int
}

const dominatorsCacheKey = "dominators"

// DominatorsOf returns fn's dominator tree, building and caching it on first
// request.
func DominatorsOf(ctx *ir.Context, fn *ir.Instruction) *Dominators {
	if v, ok := ctx.CachedAnalysis(fn, dominatorsCacheKey); ok {
		return v.(*Dominators)
	}
	d := computeDominators(CFGOf(ctx, fn))
	ctx.CacheAnalysis(fn, dominatorsCacheKey, d)
	return d
}

func computeDominators(cfg *CFG) *Dominators {
	order := reversePostOrder(cfg)
	d := &Dominators{idom: make(map[*Block]*Block, len(order)), rpoIndex: make(map[*Block]int, len(order))}
	if len(order) == 0 {
		return d
	}
	for i, b := range order {
		d.rpoIndex[b] = i
	}
	entry := order[0]
	d.idom[entry] = entry

	for changed := true; changed; {
		changed = false
		for _, b := range order[1:] {
			var newIdom *Block
			for _, p := range b.Preds {
				if d.idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = d.intersect(newIdom, p)
			}
			if d.idom[b] != newIdom {
				d.idom[b] = newIdom
				changed = true
			}
		}
	}
	return d
}

func (d *Dominators) intersect(a, b *Block) *Block {
	for a != b {
		for d.rpoIndex[a] > d.rpoIndex[b] {
			a = d.idom[a]
		}
		for d.rpoIndex[b] > d.rpoIndex[a] {
			b = d.idom[b]
		}
	}
	return a
}

// ImmediateDominator returns b's immediate dominator, or nil if b is the
// entry block.
func (d *Dominators) ImmediateDominator(b *Block) *Block {
	idom := d.idom[b]
	if idom == b {
		return nil
	}
	return idom
}

// Dominates reports whether a dominates b, a block dominating itself.
func (d *Dominators) Dominates(a, b *Block) bool {
	for {
		if b == a {
			return true
		}
		parent := d.idom[b]
		if parent == nil || parent == b {
			return a == b
		}
		b = parent
	}
}
