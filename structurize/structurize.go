// Package structurize rewrites a lifted function's control-flow graph into
// SPIR-V's structured form (spec §4.8): every block with multiple
// successors gets a preceding OpSelectionMerge, every loop header gets
// OpLoopMerge, and every edge shape SPIR-V disallows inside a construct
// (an entry from outside the construct, an exit that bypasses the merge, a
// loop with more than one latch, a loop header that isn't a plain
// OpBranch) is resolved by cloning or trampoline insertion before the
// merge is chosen.
//
// Because the lifter's registers live in OpVariable storage rather than
// SSA values merged by OpPhi (semantic/load.go, lifter/call.go), cloning a
// block or splicing in a plain trampoline never needs to rebuild phi
// incomings for register data. The one exception is fixups.go's
// fixExternalExit: when a construct strays to more than one distinct block
// outside it, reconciling those distinct targets into the single successor
// a structured merge requires does need an OpPhi — not over register
// values, but over which stray exit a synthesized merge block was reached
// from, the same fan-in createMergeBlock builds in
// original_source/rpcsx/gpu/lib/gcn-shader/src/transform.cpp.
package structurize

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/RPCSX/rpcsx-sub002/analyses"
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// maxIterations bounds the fixpoint loop (spec §4.8 step 5, Open Question
// decision in SPEC_FULL.md §E): every structural change invalidates all
// analyses and restarts from the CFG rebuild, so this is also the bound on
// how many trampolines and clones one function can need.
const maxIterations = 4096

// GaveUpError reports that the structurizer could not reach a fixpoint
// within maxIterations, or found a construct shape outside what its
// fixups resolve (an ambiguous merge collision). The caller must treat the
// shader as unsupported, the same way it treats an
// *lifter.UnresolvedBranchError (spec §7).
type GaveUpError struct {
	Reason string
}

func (e *GaveUpError) Error() string {
	return fmt.Sprintf("structurize: gave up: %s", e.Reason)
}

// graph bundles one pass's worth of CFG-derived analyses; every fixup
// reads from it but nothing mutates it in place, since any structural
// change invalidates all of it (spec §4.8 step 5).
type graph struct {
	cfg       *analyses.CFG
	dom       *analyses.Dominators
	pdom      *analyses.PostDominators
	backEdges []analyses.BackEdge
}

// appendBeforeFunctionEnd splices instrs into region in order, immediately
// before its OpFunctionEnd. A Builder's Append always lands at the
// region's literal last instruction, which by the time the structurizer
// runs is OpFunctionEnd itself; every new block this package inserts has
// to land before that instead; so it can't use Append.
func appendBeforeFunctionEnd(region *ir.Region, instrs ...*ir.Instruction) {
	end := region.Last()
	for i := region.First(); i != nil; i = i.Next() {
		if i.Op == dialect.OpFunctionEnd {
			end = i
			break
		}
	}
	for _, instr := range instrs {
		ir.InsertBefore(end, instr)
	}
}

func buildGraph(ctx *ir.Context, fn *ir.Instruction) *graph {
	return &graph{
		cfg:       analyses.CFGOf(ctx, fn),
		dom:       analyses.DominatorsOf(ctx, fn),
		pdom:      analyses.PostDominatorsOf(ctx, fn),
		backEdges: analyses.BackEdgesOf(ctx, fn),
	}
}

// Run structures fn in place.
func Run(ctx *ir.Context, fn *ir.Instruction) error {
	for iter := 0; iter < maxIterations; iter++ {
		g := buildGraph(ctx, fn)
		constructs := candidateConstructs(g)

		if fixed, err := fixOneInvalidEdge(ctx, g, constructs); err != nil {
			return err
		} else if fixed {
			glog.V(1).Infof("structurize: iteration %d: fixed an invalid edge, rebuilding", iter)
			ctx.InvalidateAll()
			continue
		}

		changed, err := insertMergeAnnotations(ctx, constructs)
		if err != nil {
			return err
		}
		if !changed {
			glog.V(1).Infof("structurize: reached a fixpoint after %d iteration(s)", iter)
			return nil
		}
		ctx.InvalidateAll()
	}
	glog.Warningf("structurize: gave up after %d iterations without reaching a fixpoint", maxIterations)
	return &GaveUpError{Reason: "exceeded the iteration cap without reaching a fixpoint"}
}
