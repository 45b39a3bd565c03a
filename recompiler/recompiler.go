// Package recompiler wires the decoder, semantic-module loader, lifter,
// structurizer, and SPIR-V codec into the single entry point spec §6
// describes: a GCN binary plus an Environment plus a semantic module in,
// one SPIR-V binary out.
package recompiler

import (
	"fmt"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/gcndecode"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/lifter"
	"github.com/RPCSX/rpcsx-sub002/semantic"
	"github.com/RPCSX/rpcsx-sub002/spirvcodec"
	"github.com/RPCSX/rpcsx-sub002/structurize"
)

// Compile recompiles one GCN shader reachable from entry into a SPIR-V
// binary (spec §6). read supplies both the instruction stream and, through
// env, AmdGpu.IMM's data-segment reads; semanticModuleData is a SPIR-V
// binary providing hand-written bodies for the mnemonics the lifter calls
// into rather than synthesizes itself.
func Compile(read gcndecode.ReadWord, env *Environment, semanticModuleData []byte, entry uint64, opts Options) ([]byte, error) {
	semaMod, err := semantic.Load(semanticModuleData)
	if err != nil {
		return nil, &BadSemanticModuleError{Err: err}
	}

	ctx := ir.NewContext()
	mod := spirvcodec.NewModule(ctx)
	mod.Generator = opts.Generator

	regVar := func(ra semantic.RegisterAccess) *ir.Instruction {
		return lifter.Variable(ctx, ra.Register)
	}
	inlined := semantic.Inline(ctx, mod, semaMod, regVar)

	// The lifter and structurizer both assume fn's body region holds exactly
	// one function (structurize's appendBeforeFunctionEnd finds the region's
	// first OpFunctionEnd, and the analyses walk it start to finish), so the
	// lifted function is built and structured in its own region, separate
	// from the inlined semantic functions already appended to mod.Functions,
	// and only spliced into mod.Functions once structuring has settled.
	body := ctx.NewRegion(ir.RegionBlock)
	fb := ir.NewBuilderAtEnd(ctx, body)
	fnType := ctx.TypeFunction(nil, nil)
	fn := fb.Append(fb.New(dialect.Spv, dialect.OpFunction, ctx.TypeVoid(),
		[]ir.Operand{ir.OperandI32(0), ir.OperandType(fnType)}, ir.UnknownLocation))

	// A malformed encoding doesn't fail the lift outright: liftBlock emits
	// OpUnreachable and stops that block (lifter/lifter.go's liftBlock), so
	// the only error Run itself returns is an unresolved indirect branch.
	lfEnv := dataEnvironment{Environment: env, read: read}
	lf := lifter.New(ctx, fn, body, lfEnv, inlined, read)
	if err := lf.Run(entry); err != nil {
		return nil, &UnresolvedBranchError{Err: err}
	}

	fb.Append(fb.New(dialect.Spv, dialect.OpFunctionEnd, nil, nil, ir.UnknownLocation))

	if opts.DumpIR != nil {
		if err := ctx.Dump(opts.DumpIR, body); err != nil {
			return nil, fmt.Errorf("recompiler: dumping IR: %w", err)
		}
	}

	if err := structurize.Run(ctx, fn); err != nil {
		return nil, &StructurizerGaveUpError{Err: err}
	}

	funcsB := ir.NewBuilderAtEnd(ctx, mod.Functions)
	for _, i := range body.Instructions() {
		funcsB.Append(i)
	}

	emitModuleHeader(ctx, mod, env, fn, opts)

	data, err := spirvcodec.Serialize(ctx, mod)
	if err != nil {
		return nil, &SerializerInvariantError{Err: err}
	}
	return data, nil
}

// emitModuleHeader synthesizes the module-level declarations Compile's
// pipeline never produces on its own: the capability, memory model, entry
// point, and (for fragment/compute stages) execution mode, plus placing
// every register-file variable the lift touched into the Globals region and
// the entry point's interface list (spec §6's Vulkan 1.2 environment
// requires every module-scope variable referenced by the entry point to be
// listed there).
func emitModuleHeader(ctx *ir.Context, mod *spirvcodec.Module, env *Environment, fn *ir.Instruction, opts Options) {
	capB := ir.NewBuilderAtEnd(ctx, mod.Capabilities)
	capB.Append(capB.New(dialect.Spv, dialect.OpCapability, nil,
		[]ir.Operand{ir.OperandI32(int32(dialect.CapabilityShader))}, ir.UnknownLocation))

	mmB := ir.NewBuilderAtEnd(ctx, mod.MemoryModel)
	mmB.Append(mmB.New(dialect.Spv, dialect.OpMemoryModel, nil, []ir.Operand{
		ir.OperandI32(int32(dialect.AddressingModelLogical)),
		ir.OperandI32(int32(dialect.MemoryModelGLSL450)),
	}, ir.UnknownLocation))

	globalsB := ir.NewBuilderAtEnd(ctx, mod.Globals)
	iface := []ir.Operand{ir.OperandI32(int32(env.Stage)), ir.OperandValue(fn), ir.OperandString(opts.entryName())}
	for _, v := range ctx.RegistersInOrder() {
		globalsB.Append(v)
		iface = append(iface, ir.OperandValue(v))
	}

	epB := ir.NewBuilderAtEnd(ctx, mod.EntryPoints)
	epB.Append(epB.New(dialect.Spv, dialect.OpEntryPoint, nil, iface, ir.UnknownLocation))

	if env.Stage == dialect.ExecutionModelFragment {
		emB := ir.NewBuilderAtEnd(ctx, mod.ExecutionModes)
		emB.Append(emB.New(dialect.Spv, dialect.OpExecutionMode, nil,
			[]ir.Operand{ir.OperandValue(fn), ir.OperandI32(int32(dialect.ExecutionModeOriginUpperLeft))},
			ir.UnknownLocation))
	} else if env.Stage == dialect.ExecutionModelGLCompute {
		emB := ir.NewBuilderAtEnd(ctx, mod.ExecutionModes)
		emB.Append(emB.New(dialect.Spv, dialect.OpExecutionMode, nil, []ir.Operand{
			ir.OperandValue(fn),
			ir.OperandI32(int32(dialect.ExecutionModeLocalSize)),
			ir.OperandI32(int32(env.LocalSize[0])),
			ir.OperandI32(int32(env.LocalSize[1])),
			ir.OperandI32(int32(env.LocalSize[2])),
		}, ir.UnknownLocation))
	}
}

func (o Options) entryName() string {
	if o.EntryName == "" {
		return "main"
	}
	return o.EntryName
}
