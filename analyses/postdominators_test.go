package analyses

import (
	"testing"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

func buildEmptyFunc(ctx *ir.Context, region *ir.Region) (*ir.Instruction, *ir.Builder) {
	b := ir.NewBuilderAtEnd(ctx, region)
	fnType := ctx.TypeFunction(nil, nil)
	fn := b.New(dialect.Spv, dialect.OpFunction, ctx.TypeVoid(), []ir.Operand{ir.OperandType(fnType)}, ir.UnknownLocation)
	b.Append(fn)
	return fn, b
}

func label(b *ir.Builder) *ir.Instruction {
	l := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	b.Append(l)
	return l
}

func branch(b *ir.Builder, target *ir.Instruction) {
	b.Append(b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(target)}, ir.UnknownLocation))
}

func cbranch(b *ir.Builder, cond, thenTarget, elseTarget *ir.Instruction) {
	b.Append(b.New(dialect.Spv, dialect.OpBranchConditional, nil, []ir.Operand{
		ir.OperandValue(cond), ir.OperandValue(thenTarget), ir.OperandValue(elseTarget),
	}, ir.UnknownLocation))
}

func ret(b *ir.Builder) {
	b.Append(b.New(dialect.Spv, dialect.OpReturn, nil, nil, ir.UnknownLocation))
}

func finish(b *ir.Builder) {
	b.Append(b.New(dialect.Spv, dialect.OpFunctionEnd, nil, nil, ir.UnknownLocation))
}

// TestPostDominatorsDiamond builds:
//
//	entry: cbranch -> then, els
//	then:  branch -> merge
//	els:   branch -> merge
//	merge: return
//
// and checks merge post-dominates entry, then, and els, but nothing
// post-dominates merge except itself.
func TestPostDominatorsDiamond(t *testing.T) {
	ctx := ir.NewContext()
	region := ctx.NewRegion(ir.RegionBlock)
	fn, b := buildEmptyFunc(ctx, region)
	cond := ctx.ConstantBool(true)

	label(b)
	thenL := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	elsL := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	mergeL := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)

	cbranch(b, cond, thenL, elsL)

	b.Append(thenL)
	branch(b, mergeL)

	b.Append(elsL)
	branch(b, mergeL)

	b.Append(mergeL)
	ret(b)
	finish(b)

	cfg := CFGOf(ctx, fn)
	pd := PostDominatorsOf(ctx, fn)

	entryBlock := cfg.Entry
	thenBlock := cfg.BlockOf(thenL)
	elsBlock := cfg.BlockOf(elsL)
	mergeBlock := cfg.BlockOf(mergeL)

	if !pd.PostDominates(mergeBlock, entryBlock) {
		t.Fatalf("expected merge to post-dominate entry")
	}
	if !pd.PostDominates(mergeBlock, thenBlock) {
		t.Fatalf("expected merge to post-dominate then")
	}
	if !pd.PostDominates(mergeBlock, elsBlock) {
		t.Fatalf("expected merge to post-dominate els")
	}
	if ipdom, ok := pd.ImmediatePostDominator(entryBlock); !ok || ipdom != mergeBlock {
		t.Fatalf("expected entry's immediate post-dominator to be merge, got %v ok=%v", ipdom, ok)
	}
	if _, ok := pd.ImmediatePostDominator(mergeBlock); ok {
		t.Fatalf("expected merge (the sole exit) to have no immediate post-dominator")
	}

	common, ok := pd.CommonAncestor([]*Block{thenBlock, elsBlock})
	if !ok || common != mergeBlock {
		t.Fatalf("expected common post-dominator of then/els to be merge, got %v ok=%v", common, ok)
	}
}

// TestPostDominatorsLoop builds a natural single-latch loop:
//
//	entry: branch -> header
//	header: branch -> body
//	body:  cbranch -> header, exit   (the latch)
//	exit:  return
//
// and checks exit post-dominates header and body, while header does not
// post-dominate body (the loop may never repeat, but in this shape it only
// post-dominates itself and entry).
func TestPostDominatorsLoop(t *testing.T) {
	ctx := ir.NewContext()
	region := ctx.NewRegion(ir.RegionBlock)
	fn, b := buildEmptyFunc(ctx, region)
	cond := ctx.ConstantBool(true)

	label(b)
	headerL := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	bodyL := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	exitL := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)

	branch(b, headerL)

	b.Append(headerL)
	branch(b, bodyL)

	b.Append(bodyL)
	cbranch(b, cond, headerL, exitL)

	b.Append(exitL)
	ret(b)
	finish(b)

	cfg := CFGOf(ctx, fn)
	pd := PostDominatorsOf(ctx, fn)

	headerBlock := cfg.BlockOf(headerL)
	bodyBlock := cfg.BlockOf(bodyL)
	exitBlock := cfg.BlockOf(exitL)

	if !pd.PostDominates(exitBlock, headerBlock) {
		t.Fatalf("expected exit to post-dominate header")
	}
	if !pd.PostDominates(exitBlock, bodyBlock) {
		t.Fatalf("expected exit to post-dominate body")
	}
	if pd.PostDominates(headerBlock, bodyBlock) {
		t.Fatalf("did not expect header to post-dominate body")
	}
	if ipdom, ok := pd.ImmediatePostDominator(headerBlock); !ok || ipdom != bodyBlock {
		t.Fatalf("expected header's immediate post-dominator to be body, got %v ok=%v", ipdom, ok)
	}
}

func TestPostDominatorsUnreachableLoopHasNoPostDominator(t *testing.T) {
	ctx := ir.NewContext()
	region := ctx.NewRegion(ir.RegionBlock)
	fn, b := buildEmptyFunc(ctx, region)

	label(b)
	spinL := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	branch(b, spinL)

	b.Append(spinL)
	branch(b, spinL)
	finish(b)

	cfg := CFGOf(ctx, fn)
	pd := PostDominatorsOf(ctx, fn)

	spinBlock := cfg.BlockOf(spinL)
	if _, ok := pd.ImmediatePostDominator(spinBlock); ok {
		t.Fatalf("expected a block that can never reach an exit to have no post-dominator")
	}
}
