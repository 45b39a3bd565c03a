package recompiler

import "io"

// Options configures one Compile call, following the teacher's
// Options/CompileOptions struct pattern (spirv.Options, naga.CompileOptions):
// a plain exported struct with a Default constructor, no config file or env
// var layer.
type Options struct {
	// Generator is the SPIR-V header's generator magic number; spec §6
	// leaves this caller-supplied.
	Generator uint32

	// EntryName is the OpEntryPoint name; defaults to "main" when empty.
	EntryName string

	// DumpIR, if non-nil, receives a textual dump of the lifted-but-not-yet-
	// structurized function body (ir.Context.Dump), the way cmd/gcnspv's
	// -dump-ir flag exposes it for debugging the lifter and structurizer.
	DumpIR io.Writer
}

// DefaultOptions returns sensible defaults: no dump, generator 0, entry
// point named "main".
func DefaultOptions() Options {
	return Options{EntryName: "main"}
}
