// Package lifter translates one decoded GCN instruction stream into the IR
// kernel's instructions (spec §4.5): a worklist walks code addresses,
// decodes one instruction at a time via gcndecode, and emits either a call
// into the inlined semantic module or a control-flow terminator. Indirect
// branches are resolved after the initial worklist drains, using the
// partial evaluator.
package lifter

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/RPCSX/rpcsx-sub002/analyses"
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/evaluator"
	"github.com/RPCSX/rpcsx-sub002/gcndecode"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/regfile"
	"github.com/RPCSX/rpcsx-sub002/semantic"
)

// Environment supplies the host-side configuration the lifter needs beyond
// the raw instruction stream: it is the superset evaluator.Environment asks
// for plus the fixed register counts the entry block stores (spec §6).
type Environment interface {
	evaluator.Environment
	SgprCount() uint32
	VgprCount() uint32
}

// UnresolvedBranchError reports an AmdGpu.BRANCH placeholder the partial
// evaluator could not fold to a known address; the caller must treat the
// shader as unsupported (spec §4.5).
type UnresolvedBranchError struct {
	Address uint64
}

func (e *UnresolvedBranchError) Error() string {
	return fmt.Sprintf("lifter: branch at 0x%x did not resolve to a constant target", e.Address)
}

// Lifter holds the state of one in-progress lift: the function body region,
// the worklist of addresses still to decode, and the labels already
// created for addresses reached by some branch.
type Lifter struct {
	ctx  *ir.Context
	env  Environment
	sema *semantic.Module
	read gcndecode.ReadWord

	fn     *ir.Instruction
	region *ir.Region

	labels    map[uint64]*ir.Instruction // address -> OpLabel
	worklist  []uint64
	queued    map[uint64]bool
	pending   []*ir.Instruction // AmdGpu.Branch placeholders awaiting resolution
	epilogue  *ir.Instruction
}

// New returns a Lifter that will emit into fn's body region, a single
// RegionBlock already holding fn's OpFunction header.
func New(ctx *ir.Context, fn *ir.Instruction, region *ir.Region, env Environment, sema *semantic.Module, read gcndecode.ReadWord) *Lifter {
	return &Lifter{
		ctx:    ctx,
		env:    env,
		sema:   sema,
		read:   read,
		fn:     fn,
		region: region,
		labels: make(map[uint64]*ir.Instruction),
		queued: make(map[uint64]bool),
	}
}

// Run lifts the program reachable from entry, synthesizing the entry block,
// draining the worklist, and resolving every indirect branch it can. It
// returns an *UnresolvedBranchError (wrapping the first such branch found)
// if any AmdGpu.BRANCH placeholder remains after resolution converges.
func (lf *Lifter) Run(entry uint64) error {
	glog.V(1).Infof("lifter: starting at entry 0x%x", entry)
	lf.synthesizeEntryBlock(entry)

	for len(lf.worklist) > 0 {
		addr := lf.worklist[0]
		lf.worklist = lf.worklist[1:]
		lf.liftBlock(addr)
	}

	for {
		progressed, err := lf.resolvePendingBranches()
		if err != nil {
			return err
		}
		if progressed {
			glog.V(1).Infof("lifter: resolved an indirect branch, %d still pending", len(lf.pending))
		}
		for len(lf.worklist) > 0 {
			addr := lf.worklist[0]
			lf.worklist = lf.worklist[1:]
			lf.liftBlock(addr)
		}
		if !progressed {
			break
		}
	}

	lf.closeEpilogue()

	if len(lf.pending) > 0 {
		glog.Warningf("lifter: %d indirect branch(es) left unresolved, first at 0x%x", len(lf.pending), lf.pending[0].Loc.Address)
		return &UnresolvedBranchError{Address: lf.pending[0].Loc.Address}
	}
	glog.V(1).Infof("lifter: finished, %d block(s) lifted", len(lf.labels))
	return nil
}

// enqueue records addr as needing a label and a lift pass, if not already
// queued or lifted.
func (lf *Lifter) enqueue(addr uint64) *ir.Instruction {
	if lbl, ok := lf.labels[addr]; ok {
		return lbl
	}
	lbl := lf.builder().New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
	lf.labels[addr] = lbl
	if !lf.queued[addr] {
		lf.queued[addr] = true
		lf.worklist = append(lf.worklist, addr)
	}
	return lbl
}

func (lf *Lifter) builder() *ir.Builder {
	return ir.NewBuilderAtEnd(lf.ctx, lf.region)
}

// liftBlock decodes and emits instructions starting at addr until it hits a
// terminator (branch family or endpgm) or falls into an already-labeled
// address, in which case it closes the block with a fallthrough OpBranch.
func (lf *Lifter) liftBlock(addr uint64) {
	glog.V(2).Infof("lifter: visiting block 0x%x", addr)
	b := lf.builder()
	if lbl, ok := lf.labels[addr]; ok {
		b.Append(lbl)
	} else {
		lbl := b.New(dialect.Spv, dialect.OpLabel, nil, nil, ir.UnknownLocation)
		b.Append(lbl)
		lf.labels[addr] = lbl
	}

	for {
		instr, err := gcndecode.Decode(lf.read, addr)
		if err != nil {
			b.Append(b.New(dialect.Spv, dialect.OpUnreachable, nil, nil, ir.AddressLocation(addr, 4)))
			return
		}

		next := addr + uint64(instr.Length)
		terminal := lf.liftOne(b, instr, next)
		if terminal {
			return
		}
		addr = next
		if lbl, ok := lf.labels[addr]; ok {
			b.Append(b.New(dialect.Spv, dialect.OpBranch, nil, []ir.Operand{ir.OperandValue(lbl)}, ir.AddressLocation(addr, 0)))
			return
		}
	}
}

// liftOne emits IR for one decoded instruction and reports whether it
// terminated the current block.
func (lf *Lifter) liftOne(b *ir.Builder, instr gcndecode.Instruction, next uint64) bool {
	loc := ir.AddressLocation(instr.Address, uint64(instr.Length))

	switch {
	case instr.Dialect == dialect.Sopp:
		return lf.liftSopp(b, instr, next, loc)
	case instr.Dialect == dialect.Sop1 && isPCRelativeSop1(instr.Op):
		return lf.liftSop1PCRelative(b, instr, next, loc)
	case instr.Dialect == dialect.Sop1 && isMovRel(instr.Op):
		lf.liftMovRel(b, instr, loc)
		return false
	default:
		return lf.liftSemanticCall(b, instr, loc)
	}
}

// CFGFor returns the control-flow graph analyses build over fn, exposed so
// callers (structurize, tests) don't need to know the region's shape.
func (lf *Lifter) CFGFor() *analyses.CFG {
	return analyses.CFGOf(lf.ctx, lf.fn)
}

// Variable returns the Private-storage OpVariable realizing r in ctx,
// creating it lazily. Exported so recompiler can pin a loaded semantic
// module's register-named globals to the same storage the lifter itself
// reads and writes (spec §3, §4.4).
func Variable(ctx *ir.Context, r regfile.Register) *ir.Instruction {
	return registerVariable(ctx, r)
}

// registerVariable returns the Private-storage OpVariable realizing r,
// creating it lazily.
func registerVariable(ctx *ir.Context, r regfile.Register) *ir.Instruction {
	return ctx.Register(r, func() *ir.Instruction {
		t := registerType(ctx, r)
		ptr := ctx.TypePointer(dialect.StorageClassPrivate, t)
		v := &ir.Instruction{
			Dialect:  dialect.Spv,
			Op:       dialect.OpVariable,
			Type:     ptr,
			Operands: []ir.Operand{ir.OperandI32(int32(dialect.StorageClassPrivate))},
			Loc:      ir.UnknownLocation,
		}
		ctx.SetName(v, regfile.Name(r))
		return v
	})
}

func registerType(ctx *ir.Context, r regfile.Register) *ir.Type {
	switch regfile.LayoutOf(r) {
	case regfile.KindScalarU32:
		return ctx.TypeInt(32, false)
	case regfile.KindScalarBool:
		return ctx.TypeBool()
	case regfile.KindPairU32:
		return ctx.TypeVector(ctx.TypeInt(32, false), 2)
	case regfile.KindVectorU32Lanes:
		n := uint32(64)
		return ctx.TypeArray(ctx.TypeInt(32, false), &n)
	case regfile.KindOpaquePointer:
		return ctx.TypePointer(dialect.StorageClassPrivate, ctx.TypeInt(32, false))
	default:
		return ctx.TypeInt(32, false)
	}
}
