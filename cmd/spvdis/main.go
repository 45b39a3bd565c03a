// Command spvdis disassembles a SPIR-V binary module, printing each of its
// ten mandated layout regions (spec §4.3) as a labeled block of
// instructions named by dialect and numeric opcode, via the same ir.Context.Dump the
// lifter and structurizer use for their own debug output.
//
// Usage:
//
//	spvdis <input.spv>
package main

import (
	"fmt"
	"os"

	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/spirvcodec"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: spvdis <input.spv>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	ctx, mod, err := spirvcodec.Deserialize(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("; SPIR-V\n; Version: %d.%d\n; Generator: %#08x\n\n",
		(mod.Version>>16)&0xFF, (mod.Version>>8)&0xFF, mod.Generator)

	sections := []struct {
		name   string
		region *ir.Region
	}{
		{"Capabilities", mod.Capabilities},
		{"Extensions", mod.Extensions},
		{"ExtInstImports", mod.ExtInstImports},
		{"MemoryModel", mod.MemoryModel},
		{"EntryPoints", mod.EntryPoints},
		{"ExecutionModes", mod.ExecutionModes},
		{"Debugs", mod.Debugs},
		{"Annotations", mod.Annotations},
		{"Globals", mod.Globals},
		{"Functions", mod.Functions},
	}

	for _, sec := range sections {
		if sec.region.Len() == 0 {
			continue
		}
		fmt.Printf("; -- %s --\n", sec.name)
		if err := ctx.Dump(os.Stdout, sec.region); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
	}
}
