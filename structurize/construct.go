package structurize

import "github.com/RPCSX/rpcsx-sub002/analyses"

// construct is one candidate selection or loop region awaiting a merge (and,
// for loops, a continue) target, keyed on its header block (spec §4.8 step
// 2).
type construct struct {
	header      *analyses.Block
	isLoop      bool
	latches     []*analyses.Block
	merge       *analyses.Block
	continueBlk *analyses.Block
}

// postOrder returns g's blocks in post-order (successors visited before the
// block itself), so processing them in this order handles inner constructs
// before the constructs enclosing them (spec §4.8 step 2: "in post-order").
func postOrder(g *graph) []*analyses.Block {
	if g.cfg.Entry == nil {
		return nil
	}
	visited := make(map[*analyses.Block]bool, len(g.cfg.Blocks))
	var order []*analyses.Block
	var visit func(b *analyses.Block)
	visit = func(b *analyses.Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.Succs {
			visit(s)
		}
		order = append(order, b)
	}
	visit(g.cfg.Entry)
	return order
}

func latchesOf(g *graph, header *analyses.Block) []*analyses.Block {
	var latches []*analyses.Block
	for _, e := range g.backEdges {
		if e.To == header {
			latches = append(latches, e.From)
		}
	}
	return latches
}

// candidateConstructs returns every block that needs a merge (and, for
// loops, a continue) annotation, in post-order.
func candidateConstructs(g *graph) []*construct {
	var out []*construct
	for _, b := range postOrder(g) {
		latches := latchesOf(g, b)
		isLoop := len(latches) > 0
		if !isLoop && len(b.Succs) < 2 {
			continue
		}
		c := &construct{header: b, isLoop: isLoop, latches: latches}
		computeMerge(g, c)
		out = append(out, c)
	}
	return out
}

// blocksDominatedBy returns the set of blocks header dominates, header
// included: the approximation this package uses for "inside the
// construct" (spec §4.8 step 3's invalid-edge checks all key off it).
func blocksDominatedBy(g *graph, header *analyses.Block) map[*analyses.Block]bool {
	out := make(map[*analyses.Block]bool, len(g.cfg.Blocks))
	for _, b := range g.cfg.Blocks {
		if g.dom.Dominates(header, b) {
			out[b] = true
		}
	}
	return out
}

// computeMerge fills in c.merge and, for loops, c.continueBlk.
//
// For a selection header the merge is the post-dominator common ancestor
// of its successors (spec §4.8 step 2): neither successor can post-dominate
// the header, since the header has ≥2 of them, so the ancestor is always
// a block genuinely past the construct.
//
// A loop header often has only one successor (the lifter's GCN loops test
// their exit condition at the latch, not the header), so the header's own
// successor set is not enough to locate the exit: this instead collects
// every edge that leaves the set of blocks the header dominates and takes
// the post-dominator common ancestor of those targets, which is the point
// every loop-exiting path reconverges at regardless of which block tests
// the exit condition.
func computeMerge(g *graph, c *construct) {
	if !c.isLoop {
		if merge, ok := g.pdom.CommonAncestor(c.header.Succs); ok {
			c.merge = walkMergeForward(g, c, merge)
		}
		return
	}

	if len(c.latches) == 1 {
		c.continueBlk = c.latches[0]
	}

	inside := naturalLoopBlocks(c.header, c.latches)
	seen := make(map[*analyses.Block]bool)
	var exits []*analyses.Block
	for b := range inside {
		for _, s := range b.Succs {
			if inside[s] || seen[s] {
				continue
			}
			seen[s] = true
			exits = append(exits, s)
		}
	}
	if merge, ok := g.pdom.CommonAncestor(exits); ok {
		c.merge = walkMergeForward(g, c, merge)
	}
}

// naturalLoopBlocks returns header plus every block that can reach one of
// latches by walking predecessors without using header as a stepping
// stone twice: the standard natural-loop definition. Plain dominance is
// not enough here, since a reducible loop's header typically dominates its
// exit block too (there is usually no other way to reach it), which would
// wrongly count the exit as loop-interior and hide it from the exit scan
// above.
func naturalLoopBlocks(header *analyses.Block, latches []*analyses.Block) map[*analyses.Block]bool {
	inside := map[*analyses.Block]bool{header: true}
	stack := append([]*analyses.Block(nil), latches...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if inside[n] {
			continue
		}
		inside[n] = true
		stack = append(stack, n.Preds...)
	}
	return inside
}

// walkMergeForward advances past a merge candidate whose only way in is a
// single predecessor fully inside the construct: such a block is never a
// real decision point, so the construct's actual merge is whatever comes
// after it (spec §4.8 step 2, "picking the latest legal merge").
func walkMergeForward(g *graph, c *construct, merge *analyses.Block) *analyses.Block {
	for {
		if len(merge.Preds) != 1 {
			return merge
		}
		pred := merge.Preds[0]
		if pred == c.header || !g.dom.Dominates(c.header, pred) {
			return merge
		}
		next, ok := g.pdom.ImmediatePostDominator(merge)
		if !ok {
			return merge
		}
		merge = next
	}
}
