// Command gcndis disassembles a raw AMD GCN shader binary, printing one
// decoded instruction per line in a mnemonic-and-operands form, the way the
// teacher's cmd/spvdis renders a SPIR-V binary as text.
//
// Usage:
//
//	gcndis [-entry addr] <input.bin>
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/gcndecode"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

var entry = flag.Uint64("entry", 0, "byte offset of the first instruction")

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	read := func(addr uint64) uint32 {
		if addr+4 > uint64(len(data)) {
			return 0
		}
		return binary.LittleEndian.Uint32(data[addr:])
	}

	addr := *entry
	for addr < uint64(len(data)) {
		inst, err := gcndecode.Decode(read, addr)
		if err != nil {
			fmt.Printf("%06x: <invalid: %v>\n", addr, err)
			addr += 4
			continue
		}
		fmt.Printf("%06x: %s\n", addr, format(inst))
		addr += uint64(inst.Length)
	}
}

func format(inst gcndecode.Instruction) string {
	name := dialect.Mnemonic(inst.Dialect, inst.Op)
	if name == "" {
		name = fmt.Sprintf("%s.%d", inst.Dialect, uint16(inst.Op))
	}
	s := name
	for _, op := range inst.Operands {
		s += " " + formatOperand(op)
	}
	return s
}

func formatOperand(op gcndecode.Operand) string {
	var s string
	switch op.Kind {
	case gcndecode.OperandConstant:
		s = fmt.Sprintf("%d", op.ConstantBits)
	case gcndecode.OperandImmediate:
		s = fmt.Sprintf("imm@%#x", op.ImmediateAddress)
	case gcndecode.OperandSpecial:
		s = regfile.Name(op.Special)
	case gcndecode.OperandSgpr:
		s = regfile.Name(regfile.Sgpr(op.Index))
	case gcndecode.OperandVgpr:
		s = regfile.Name(regfile.Vgpr(op.Index))
	case gcndecode.OperandAttr:
		s = fmt.Sprintf("attr%d.%d", op.AttrID, op.AttrChannel)
	case gcndecode.OperandBuffer:
		s = fmt.Sprintf("buf[s%d:%d]", op.BaseSgpr, op.BaseSgpr+3)
	case gcndecode.OperandTexture128:
		s = fmt.Sprintf("tex128[s%d:%d]", op.BaseSgpr, op.BaseSgpr+3)
	case gcndecode.OperandTexture256:
		s = fmt.Sprintf("tex256[s%d:%d]", op.BaseSgpr, op.BaseSgpr+7)
	case gcndecode.OperandSampler:
		s = fmt.Sprintf("samp[s%d:%d]", op.BaseSgpr, op.BaseSgpr+3)
	case gcndecode.OperandPointer:
		s = fmt.Sprintf("ptr(s%d+s%d, size=%d)", op.PointerBaseSgpr, op.PointerOffsetSgpr, op.PointeeSize)
	default:
		s = "?"
	}
	if op.Neg {
		s = "-" + s
	}
	if op.Abs {
		s = "|" + s + "|"
	}
	if op.Clamp {
		s += " clamp"
	}
	if op.Omod != 0 {
		s += fmt.Sprintf(" omod:%d", op.Omod)
	}
	return s
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: gcndis [-entry addr] <input.bin>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}
