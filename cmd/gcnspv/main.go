// Command gcnspv recompiles an AMD GCN shader binary into SPIR-V.
//
// Usage:
//
//	gcnspv [options] <shader.bin>
//
// Examples:
//
//	gcnspv -sema sema.spv shader.bin                 # compile to stdout
//	gcnspv -sema sema.spv -o shader.spv shader.bin   # compile to file
//	gcnspv -sema sema.spv -env env.json shader.bin   # with an explicit Environment
//	gcnspv -sema sema.spv -dump-ir shader.bin        # also dump the lifted IR to stderr
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/RPCSX/rpcsx-sub002/recompiler"
)

var (
	output    = flag.String("o", "", "output file (default: stdout)")
	semaPath  = flag.String("sema", "", "semantic module SPIR-V binary (required)")
	envPath   = flag.String("env", "", "Environment JSON file (default: DefaultEnvironment)")
	entryAddr = flag.Uint64("entry", 0, "byte offset of the shader's first instruction")
	entryName = flag.String("name", "main", "OpEntryPoint name")
	dumpIR    = flag.Bool("dump-ir", false, "dump the lifted-but-not-yet-structurized IR to stderr")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}
	if *semaPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -sema is required")
		usage()
		os.Exit(1)
	}

	shader, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading shader: %v\n", err)
		os.Exit(1)
	}
	sema, err := os.ReadFile(*semaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading semantic module: %v\n", err)
		os.Exit(1)
	}

	env := recompiler.DefaultEnvironment()
	if *envPath != "" {
		envData, err := os.ReadFile(*envPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(envData, &env); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing environment: %v\n", err)
			os.Exit(1)
		}
	}

	read := func(addr uint64) uint32 {
		if addr+4 > uint64(len(shader)) {
			return 0
		}
		return binary.LittleEndian.Uint32(shader[addr:])
	}

	opts := recompiler.DefaultOptions()
	opts.EntryName = *entryName
	if *dumpIR {
		opts.DumpIR = os.Stderr
	}

	spirvBytes, err := recompiler.Compile(read, &env, sema, *entryAddr, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation error: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, spirvBytes, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Successfully compiled %s to %s (%d bytes)\n", args[0], *output, len(spirvBytes))
		return
	}
	if _, err := os.Stdout.Write(spirvBytes); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: gcnspv [options] <shader.bin>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  gcnspv -sema sema.spv shader.bin               Compile to stdout\n")
	fmt.Fprintf(os.Stderr, "  gcnspv -sema sema.spv -o shader.spv shader.bin Compile to file\n")
}
