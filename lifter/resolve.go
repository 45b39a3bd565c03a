package lifter

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/evaluator"
	"github.com/RPCSX/rpcsx-sub002/ir"
)

// resolvePendingBranches evaluates every still-unresolved AmdGpu.BRANCH
// placeholder and, for each one the partial evaluator can fold to a
// constant address, replaces it with a direct OpBranch to that address's
// (possibly newly lifted) label. It reports whether any placeholder
// resolved this round, since a freshly lifted target block can itself
// contain another indirect branch that only resolves once earlier ones do.
func (lf *Lifter) resolvePendingBranches() (bool, error) {
	if len(lf.pending) == 0 {
		return false, nil
	}

	eval := evaluator.New(lf.ctx, lf.fn, lf.env)
	var remaining []*ir.Instruction
	progressed := false

	for _, placeholder := range lf.pending {
		v := eval.Evaluate(placeholder.Operands[0].Value)
		if !v.Ok {
			remaining = append(remaining, placeholder)
			continue
		}
		target := v.Uint64()
		lbl := lf.enqueue(target)

		b := lf.builder()
		br := b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(lbl)}, placeholder.Loc)
		ir.InsertAfter(placeholder, br)
		ir.Remove(placeholder)
		progressed = true
	}

	lf.pending = remaining
	lf.ctx.InvalidateAll()
	return progressed, nil
}
