package analyses

import "github.com/RPCSX/rpcsx-sub002/ir"

// BackEdge is a CFG edge From->To where To dominates From: the defining
// shape of a natural loop's latch edge, and the structurizer's signal that
// the region between To and From is a loop body.
type BackEdge struct {
	From, To *Block
}

const backEdgesCacheKey = "backedges"

// BackEdgesOf returns fn's back edges, building and caching them on first
// request.
func BackEdgesOf(ctx *ir.Context, fn *ir.Instruction) []BackEdge {
	if v, ok := ctx.CachedAnalysis(fn, backEdgesCacheKey); ok {
		return v.([]BackEdge)
	}
	cfg := CFGOf(ctx, fn)
	doms := DominatorsOf(ctx, fn)
	var edges []BackEdge
	for _, b := range cfg.Blocks {
		for _, s := range b.Succs {
			if doms.Dominates(s, b) {
				edges = append(edges, BackEdge{From: b, To: s})
			}
		}
	}
	ctx.CacheAnalysis(fn, backEdgesCacheKey, edges)
	return edges
}

// IsLoopHeader reports whether b is the target of some back edge.
func IsLoopHeader(edges []BackEdge, b *Block) bool {
	for _, e := range edges {
		if e.To == b {
			return true
		}
	}
	return false
}
