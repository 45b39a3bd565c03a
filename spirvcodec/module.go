// Package spirvcodec converts between a SPIR-V binary word stream and the
// ir package's instruction graph (spec §4.3). Deserialization maps each
// SPIR-V result id to a freshly created ir.Instruction and recovers the
// module's mandated layout regions; serialization walks those regions back
// into a compliant word stream with freshly allocated, densely numbered ids.
package spirvcodec

import "github.com/RPCSX/rpcsx-sub002/ir"

// Magic is the required first word of every SPIR-V module.
const Magic uint32 = 0x07230203

// Module holds one SPIR-V module's ten mandated layout regions, in the
// order they must be serialized (spec §4.3). Every region is flat: a
// function's basic blocks are OpLabel/terminator-delimited spans within
// Functions, not separate ir.Region values, mirroring the binary format's
// own flat instruction stream.
type Module struct {
	Version   uint32
	Generator uint32

	Capabilities   *ir.Region
	Extensions     *ir.Region
	ExtInstImports *ir.Region
	MemoryModel    *ir.Region
	EntryPoints    *ir.Region
	ExecutionModes *ir.Region
	Debugs         *ir.Region
	Annotations    *ir.Region
	Globals        *ir.Region
	Functions      *ir.Region
}

// NewModule returns an empty Module with all ten regions allocated in ctx.
func NewModule(ctx *ir.Context) *Module {
	return &Module{
		Version:        0x00010500, // SPIR-V 1.5
		Capabilities:   ctx.NewRegion(ir.RegionModule),
		Extensions:     ctx.NewRegion(ir.RegionModule),
		ExtInstImports: ctx.NewRegion(ir.RegionModule),
		MemoryModel:    ctx.NewRegion(ir.RegionModule),
		EntryPoints:    ctx.NewRegion(ir.RegionModule),
		ExecutionModes: ctx.NewRegion(ir.RegionModule),
		Debugs:         ctx.NewRegion(ir.RegionModule),
		Annotations:    ctx.NewRegion(ir.RegionModule),
		Globals:        ctx.NewRegion(ir.RegionModule),
		Functions:      ctx.NewRegion(ir.RegionModule),
	}
}

// regions returns the module's regions in SPIR-V's mandated section order.
func (m *Module) regions() []*ir.Region {
	return []*ir.Region{
		m.Capabilities, m.Extensions, m.ExtInstImports, m.MemoryModel,
		m.EntryPoints, m.ExecutionModes, m.Debugs, m.Annotations,
		m.Globals, m.Functions,
	}
}
