package analyses

import "github.com/RPCSX/rpcsx-sub002/ir"

// PostDominators is a function's immediate-post-dominator tree: the same
// Cooper/Harvey/Kennedy iterative algorithm Dominators uses, run over the
// reversed CFG with a virtual exit node joining every block that has no
// successor (an OpReturn/OpReturnValue/OpUnreachable/OpKill terminator).
// The structurizer uses it to find a construct's merge block: the
// post-dominator of a multi-successor header is exactly the point every path
// out of that header reconverges at (spec §4.8).
//
// A block that cannot reach any exit (live-locked in a loop with no exit
// edge) has no post-dominator; ImmediatePostDominator reports that with ok
// == false rather than panicking.
type PostDominators struct {
	ipdom    map[*Block]*Block
	rpoIndex map[*Block]int
	exit     *Block
}

const postDominatorsCacheKey = "postdominators"

// PostDominatorsOf returns fn's post-dominator tree, building and caching it
// on first request.
func PostDominatorsOf(ctx *ir.Context, fn *ir.Instruction) *PostDominators {
	if v, ok := ctx.CachedAnalysis(fn, postDominatorsCacheKey); ok {
		return v.(*PostDominators)
	}
	pd := computePostDominators(CFGOf(ctx, fn))
	ctx.CacheAnalysis(fn, postDominatorsCacheKey, pd)
	return pd
}

// revPreds returns b's predecessors in the reversed CFG, i.e. its
// successors in the real one; an original exit block's sole reversed
// predecessor is the virtual exit node.
func (pd *PostDominators) revPreds(b *Block) []*Block {
	if len(b.Succs) == 0 {
		return []*Block{pd.exit}
	}
	return b.Succs
}

// revSuccs returns b's successors in the reversed CFG, i.e. its
// predecessors in the real one; the virtual exit's reversed successors are
// every real exit block.
func (pd *PostDominators) revSuccs(b *Block) []*Block {
	if b == pd.exit {
		return pd.exit.Preds
	}
	return b.Preds
}

func computePostDominators(cfg *CFG) *PostDominators {
	exit := &Block{id: -1}
	for _, b := range cfg.Blocks {
		if len(b.Succs) == 0 {
			exit.Preds = append(exit.Preds, b)
		}
	}

	pd := &PostDominators{
		ipdom:    make(map[*Block]*Block, len(cfg.Blocks)+1),
		rpoIndex: make(map[*Block]int, len(cfg.Blocks)+1),
		exit:     exit,
	}

	order := reversePostOrderOver(exit, pd.revSuccs)
	if len(order) == 0 {
		return pd
	}
	for i, b := range order {
		pd.rpoIndex[b] = i
	}
	pd.ipdom[exit] = exit

	for changed := true; changed; {
		changed = false
		for _, b := range order[1:] {
			var newIdom *Block
			for _, p := range pd.revPreds(b) {
				if pd.ipdom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = pd.intersect(newIdom, p)
			}
			if pd.ipdom[b] != newIdom {
				pd.ipdom[b] = newIdom
				changed = true
			}
		}
	}
	return pd
}

func (pd *PostDominators) intersect(a, b *Block) *Block {
	for a != b {
		for pd.rpoIndex[a] > pd.rpoIndex[b] {
			a = pd.ipdom[a]
		}
		for pd.rpoIndex[b] > pd.rpoIndex[a] {
			b = pd.ipdom[b]
		}
	}
	return a
}

// ImmediatePostDominator returns b's immediate post-dominator: the first
// block every path from b to the function's exit must pass through. ok is
// false for the virtual exit itself, for a block whose only post-dominator
// is the virtual exit (a returning block), or for a block no exit is
// reachable from.
func (pd *PostDominators) ImmediatePostDominator(b *Block) (*Block, bool) {
	ipdom, ok := pd.ipdom[b]
	if !ok || ipdom == b {
		return nil, false
	}
	if ipdom == pd.exit {
		return nil, false
	}
	return ipdom, true
}

// PostDominates reports whether a post-dominates b, a block post-dominating
// itself. Either argument missing from the tree (unreachable-to-exit)
// reports false.
func (pd *PostDominators) PostDominates(a, b *Block) bool {
	if _, ok := pd.ipdom[b]; !ok {
		return false
	}
	for {
		if b == a {
			return true
		}
		parent, ok := pd.ipdom[b]
		if !ok || parent == b || parent == pd.exit {
			return a == b
		}
		b = parent
	}
}

// CommonAncestor returns the nearest block that post-dominates every block
// in bs, or ok == false if bs is empty or any member has no post-dominator
// path to the exit.
func (pd *PostDominators) CommonAncestor(bs []*Block) (*Block, bool) {
	if len(bs) == 0 {
		return nil, false
	}
	cur := bs[0]
	if _, ok := pd.ipdom[cur]; !ok {
		return nil, false
	}
	for _, b := range bs[1:] {
		if _, ok := pd.ipdom[b]; !ok {
			return nil, false
		}
		cur = pd.intersect(cur, b)
	}
	if cur == pd.exit {
		return nil, false
	}
	return cur, true
}

// reversePostOrderOver walks neighbors(start) depth-first and returns the
// visited set in reverse-postorder, mirroring reversePostOrder's shape but
// parameterized over an arbitrary adjacency function so it can traverse
// either the real CFG or the reversed one rooted at a virtual node.
func reversePostOrderOver(start *Block, neighbors func(*Block) []*Block) []*Block {
	visited := make(map[*Block]bool)
	var post []*Block
	var visit func(b *Block)
	visit = func(b *Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, n := range neighbors(b) {
			visit(n)
		}
		post = append(post, b)
	}
	visit(start)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}
