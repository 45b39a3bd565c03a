package structurize

import (
	"github.com/RPCSX/rpcsx-sub002/analyses"
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// fixOneInvalidEdge looks for the first construct with an edge shape
// OpSelectionMerge/OpLoopMerge cannot describe (spec §4.8 step 3) and
// repairs it, reporting whether it found and fixed one. The caller must
// rebuild every analysis before calling this again, since any fix it
// applies changes the CFG.
func fixOneInvalidEdge(ctx *ir.Context, g *graph, constructs []*construct) (bool, error) {
	assignedMerges := make(map[*analyses.Block]*construct)

	for _, c := range constructs {
		if fixExternalEntry(ctx, g, c) {
			return true, nil
		}
		if fixed, err := fixExternalExit(ctx, g, c); err != nil {
			return false, err
		} else if fixed {
			return true, nil
		}
		if fixInvalidLoopContinue(ctx, c) {
			return true, nil
		}
		if fixInvalidLoopHeader(ctx, c) {
			return true, nil
		}
		if c.merge != nil {
			if other, ok := assignedMerges[c.merge]; ok && other != c {
				return false, &GaveUpError{Reason: "a construct's merge block coincides with an enclosing construct's merge block"}
			}
			assignedMerges[c.merge] = c
		}
	}
	return false, nil
}

// fixInvalidLoopHeader relocates a loop header's terminator into a new
// block the header falls through to unconditionally, when the header
// itself carries the conditional exit (spec §4.8 step 3, "invalid loop
// header"): OpLoopMerge must be immediately followed by a plain OpBranch.
func fixInvalidLoopHeader(ctx *ir.Context, c *construct) bool {
	if !c.isLoop {
		return false
	}
	term := c.header.Terminator()
	if term.Op == dialect.OpBranch {
		return false
	}

	b := ir.NewBuilderAtEnd(ctx, c.header.Label.Region())
	trampoline := b.New(dialect.Spv, dialect.OpLabel, nil, nil, term.Loc)
	toTrampoline := b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(trampoline)}, term.Loc)

	prevLast := c.header.Instructions[len(c.header.Instructions)-2]
	ir.Remove(term)
	ir.InsertAfter(prevLast, toTrampoline)
	ir.InsertAfter(toTrampoline, trampoline)
	ir.InsertAfter(trampoline, term)
	return true
}

// fixInvalidLoopContinue gives a loop with more than one latch a single
// shared continue block: every latch branches to a new trampoline, which
// alone branches to the header (spec §4.8 step 3, "invalid loop continue").
func fixInvalidLoopContinue(ctx *ir.Context, c *construct) bool {
	if !c.isLoop || len(c.latches) <= 1 {
		return false
	}

	region := c.header.Label.Region()
	b := ir.NewBuilderAtEnd(ctx, region)
	trampoline := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	toHeader := b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(c.header.Label)}, ir.UnknownLocation)
	appendBeforeFunctionEnd(region, trampoline, toHeader)

	for _, latch := range c.latches {
		retarget(latch.Terminator(), c.header.Label, trampoline)
	}
	return true
}

// fixExternalEntry clones the single block a construct's first externally
// entered block consists of, so the clone absorbs the external
// predecessors and the original keeps only its internal ones (spec §4.8
// step 3, "external entry"). Cloning just the one block rather than the
// whole sub-CFG up to the merge is sufficient here because nothing in this
// IR merges values through OpPhi (see the package doc): both the clone and
// the original can fall through to the same shared successors.
func fixExternalEntry(ctx *ir.Context, g *graph, c *construct) bool {
	inside := blocksDominatedBy(g, c.header)
	for _, b := range g.cfg.Blocks {
		if b == c.header || !inside[b] {
			continue
		}
		var external []*analyses.Block
		for _, p := range b.Preds {
			if !inside[p] {
				external = append(external, p)
			}
		}
		if len(external) == 0 {
			continue
		}
		cloneBlockEntry(ctx, b, external)
		return true
	}
	return false
}

// exitEdge is one interior block branching to a block outside its
// construct.
type exitEdge struct {
	from *analyses.Block
	to   *analyses.Block
}

// fixExternalExit redirects every exit a construct's interior blocks take
// straight past the intended merge/continue through one shared merge block
// (spec §4.8 step 3, "external exit"). A single stray edge gets a plain
// trampoline; more than one distinct outside target needs the general
// phi+switch fan-in construction original_source/rpcsx/gpu/lib/gcn-shader/
// src/transform.cpp's createMergeBlock builds for exactly this case:
// every stray block instead branches to its own small "terminate" block,
// each of which feeds a distinct constant into an OpPhi the merge block
// uses (via OpBranchConditional for two distinct edges, OpSwitch for more)
// to reach the edge's real target.
func fixExternalExit(ctx *ir.Context, g *graph, c *construct) (bool, error) {
	inside := blocksDominatedBy(g, c.header)
	var edges []exitEdge

	for _, b := range g.cfg.Blocks {
		if !inside[b] || b == c.merge || b == c.continueBlk {
			continue
		}
		for _, s := range b.Succs {
			if inside[s] || s == c.merge || s == c.continueBlk {
				continue
			}
			edges = append(edges, exitEdge{from: b, to: s})
		}
	}
	if len(edges) == 0 {
		return false, nil
	}

	region := c.header.Label.Region()
	b := ir.NewBuilderAtEnd(ctx, region)
	mergeLabel := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)

	switch len(edges) {
	case 1:
		toTarget := b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(edges[0].to.Label)}, ir.UnknownLocation)
		appendBeforeFunctionEnd(region, mergeLabel, toTarget)
		retarget(edges[0].from.Terminator(), edges[0].to.Label, mergeLabel)
	case 2:
		fanInBool(ctx, region, mergeLabel, edges)
	default:
		fanInSwitch(ctx, region, mergeLabel, edges)
	}
	return true, nil
}

// terminateBlock is a trivial block whose only job is to carry a fan-in
// edge's selector constant: it unconditionally branches to mergeLabel and
// exists only as an OpPhi incoming block.
func terminateBlock(b *ir.Builder, mergeLabel *ir.Instruction) (*ir.Instruction, *ir.Instruction) {
	lbl := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	br := b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(mergeLabel)}, ir.UnknownLocation)
	return lbl, br
}

// fanInBool handles exactly two distinct exit edges: the merge block picks
// between them with a bool OpPhi and an OpBranchConditional, the way
// createMergeBlock's edges.size() == 2 case does.
func fanInBool(ctx *ir.Context, region *ir.Region, mergeLabel *ir.Instruction, edges []exitEdge) {
	b := ir.NewBuilderAtEnd(ctx, region)

	term0, br0 := terminateBlock(b, mergeLabel)
	term1, br1 := terminateBlock(b, mergeLabel)

	phi := b.New(dialect.Spv, dialect.OpPhi, ctx.TypeBool(), []ir.Operand{
		ir.OperandValue(ctx.ConstantBool(false)), ir.OperandValue(term0),
		ir.OperandValue(ctx.ConstantBool(true)), ir.OperandValue(term1),
	}, ir.UnknownLocation)
	branch := b.New(dialect.Spv, dialect.OpBranchConditional, nil,
		[]ir.Operand{ir.OperandValue(phi), ir.OperandValue(edges[1].to.Label), ir.OperandValue(edges[0].to.Label)},
		ir.UnknownLocation)

	appendBeforeFunctionEnd(region, mergeLabel, phi, branch, term0, br0, term1, br1)

	retarget(edges[0].from.Terminator(), edges[0].to.Label, term0)
	retarget(edges[1].from.Terminator(), edges[1].to.Label, term1)
}

// fanInSwitch handles three or more exit edges: the merge block picks
// between them with a uint32 OpPhi and an OpSwitch keyed on it, the way
// createMergeBlock's general case does. edges[0]'s target doubles as the
// switch's default, matching the original.
func fanInSwitch(ctx *ir.Context, region *ir.Region, mergeLabel *ir.Instruction, edges []exitEdge) {
	b := ir.NewBuilderAtEnd(ctx, region)
	u32 := ctx.TypeInt(32, false)

	type term struct{ lbl, br *ir.Instruction }
	terms := make([]term, len(edges))
	for i := range edges {
		lbl, br := terminateBlock(b, mergeLabel)
		terms[i] = term{lbl, br}
	}

	phiOperands := make([]ir.Operand, 0, len(edges)*2)
	switchOperands := make([]ir.Operand, 0, 2+(len(edges)-1)*2)
	switchOperands = append(switchOperands, ir.Operand{}, ir.OperandValue(edges[0].to.Label))

	for i, e := range edges {
		id := ctx.ConstantInt(32, false, uint64(i))
		phiOperands = append(phiOperands, ir.OperandValue(id), ir.OperandValue(terms[i].lbl))
		if i != 0 {
			switchOperands = append(switchOperands, ir.OperandValue(id), ir.OperandValue(e.to.Label))
		}
	}

	phi := b.New(dialect.Spv, dialect.OpPhi, u32, phiOperands, ir.UnknownLocation)
	switchOperands[0] = ir.OperandValue(phi)
	sw := b.New(dialect.Spv, dialect.OpSwitch, nil, switchOperands, ir.UnknownLocation)

	instrs := make([]*ir.Instruction, 0, 2+len(edges)*2)
	instrs = append(instrs, mergeLabel, phi, sw)
	for _, t := range terms {
		instrs = append(instrs, t.lbl, t.br)
	}
	appendBeforeFunctionEnd(region, instrs...)

	for i, e := range edges {
		retarget(e.from.Terminator(), e.to.Label, terms[i].lbl)
	}
}

// retarget rewrites every operand of term that references from to
// reference to instead.
func retarget(term *ir.Instruction, from, to *ir.Instruction) {
	for idx, o := range term.Operands {
		if o.Kind == ir.OperandValueKind && o.Value == from {
			ir.ReplaceOperand(term, idx, ir.OperandValue(to))
		}
	}
}
