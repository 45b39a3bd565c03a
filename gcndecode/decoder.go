// Package gcndecode decodes one AMD GCN instruction at a time from a
// caller-supplied word stream, classifying it into one of 16 encoding
// families by progressively widening top-bit masks and extracting each
// family's fixed operand/modifier fields (spec §4.1, §6).
package gcndecode

import (
	"math"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

// ReadWord fetches the 32-bit little-endian word at addr in the GCN stream.
// The decoder and, later, the lifter and partial evaluator all take this as
// their sole memory-reading dependency.
type ReadWord func(addr uint64) uint32

// Instruction is one decoded GCN instruction: its dialect/op pair, source
// address and byte length, and its operands in schema order.
type Instruction struct {
	Dialect  dialect.Dialect
	Op       dialect.Op
	Address  uint64
	Length   uint32 // bytes consumed, including any trailing literal
	Operands []Operand
}

// Decode reads and classifies one instruction at addr. On an unmatched
// encoding it returns *InvalidError; the caller should stop lifting this
// stream.
func Decode(read ReadWord, addr uint64) (Instruction, error) {
	word := read(addr)

	switch {
	case word>>23 == 0b1_01111_101:
		return decodeSop1(read, addr, word)
	case word>>23 == 0b1_01111_110:
		return decodeSopc(read, addr, word)
	case word>>23 == 0b1_01111_111:
		return decodeSopp(read, addr, word)
	case word>>25 == 0b0111111:
		return decodeVop1(read, addr, word)
	case word>>25 == 0b0111110:
		return decodeVopc(read, addr, word)
	case word>>26 == 0b110100:
		return decodeVop3(read, addr, word)
	case word>>26 == 0b111000:
		return decodeMubuf(read, addr, word)
	case word>>26 == 0b111010:
		return decodeMtbuf(read, addr, word)
	case word>>26 == 0b111100:
		return decodeMimg(read, addr, word)
	case word>>26 == 0b110110:
		return decodeDs(read, addr, word)
	case word>>26 == 0b110010:
		return decodeVintrp(read, addr, word)
	case word>>26 == 0b111110:
		return decodeExp(read, addr, word)
	case word>>27 == 0b11000:
		return decodeSmrd(read, addr, word)
	case word>>28 == 0b1011:
		return decodeSopk(read, addr, word)
	case word>>30 == 0b10:
		return decodeSop2(read, addr, word)
	case word>>31 == 0b0:
		return decodeVop2(read, addr, word)
	default:
		return Instruction{}, &InvalidError{Address: addr, Word: word}
	}
}

// inlineFloatConstants holds the IEEE-754 bit patterns for source indices
// 240-247, in index order starting at 240: ±0.5, ±1, ±2, ±4 (the GCN ISA's
// inline-float encoding; original_source/rpcsx-gpu/lib/gcn-shader/src/
// GcnInstruction.cpp's createSgprOperands()).
var inlineFloatConstants = [8]uint32{
	math.Float32bits(0.5), math.Float32bits(-0.5),
	math.Float32bits(1.0), math.Float32bits(-1.0),
	math.Float32bits(2.0), math.Float32bits(-2.0),
	math.Float32bits(4.0), math.Float32bits(-4.0),
}

// resolveScalarSource maps a 9-bit (or truncated 8/7-bit) scalar-source
// field to its semantic operand, per the standard GCN SGPR layout: plain
// SGPR indices, named specials, small integer/float constants, the VGPR
// range a 9-bit field can also address, and the imm32 (255) literal-word
// escape. Returns the operand and the number of trailing literal bytes it
// consumed (0 or 4). addr is the owning instruction's address, used only to
// attribute an *InvalidError should idx land on any slot without a case
// here (104-105, 108-123, 125, 209-239, 248-250).
func resolveScalarSource(read ReadWord, addr, literalAddr uint64, idx uint32, access dialect.Access) (Operand, uint32, error) {
	switch {
	case idx <= 103:
		return Operand{Kind: OperandSgpr, Index: idx, Access: access}, 0, nil
	case idx == 106:
		return Operand{Kind: OperandSpecial, Special: regfile.RegVccLo, Access: access}, 0, nil
	case idx == 107:
		return Operand{Kind: OperandSpecial, Special: regfile.RegVccHi, Access: access}, 0, nil
	case idx == 124:
		return Operand{Kind: OperandSpecial, Special: regfile.RegM0, Access: access}, 0, nil
	case idx == 126:
		return Operand{Kind: OperandSpecial, Special: regfile.RegExecLo, Access: access}, 0, nil
	case idx == 127:
		return Operand{Kind: OperandSpecial, Special: regfile.RegExecHi, Access: access}, 0, nil
	case idx == 128:
		return Operand{Kind: OperandConstant, ConstantBits: 0, Access: access}, 0, nil
	case idx >= 129 && idx <= 192:
		return Operand{Kind: OperandConstant, ConstantBits: idx - 128, Access: access}, 0, nil
	case idx >= 193 && idx <= 208:
		return Operand{Kind: OperandConstant, ConstantBits: uint32(int32(-(int32(idx) - 192))), Access: access}, 0, nil
	case idx >= 240 && idx <= 247:
		return Operand{Kind: OperandConstant, ConstantBits: inlineFloatConstants[idx-240], Access: access}, 0, nil
	case idx == 251:
		return Operand{Kind: OperandSpecial, Special: regfile.RegVccZ, Access: access}, 0, nil
	case idx == 252:
		return Operand{Kind: OperandSpecial, Special: regfile.RegExecZ, Access: access}, 0, nil
	case idx == 253:
		return Operand{Kind: OperandSpecial, Special: regfile.RegScc, Access: access}, 0, nil
	case idx == 254:
		return Operand{Kind: OperandSpecial, Special: regfile.RegLdsDirect, Access: access}, 0, nil
	case idx == 255:
		return Operand{Kind: OperandImmediate, ImmediateAddress: literalAddr, Access: access}, 4, nil
	case idx >= 256 && idx <= 511:
		return Operand{Kind: OperandVgpr, Index: idx - 256, Access: access}, 0, nil
	default:
		return Operand{}, 0, &InvalidError{Address: addr, Word: idx}
	}
}

func decodeSop1(read ReadWord, addr uint64, word uint32) (Instruction, error) {
	op := dialect.Op((word >> 8) & 0xFF)
	sdst := (word >> 16) & 0x7F
	ssrc0 := word & 0xFF

	literalAddr := addr + 4
	src, litBytes, err := resolveScalarSource(read, addr, literalAddr, ssrc0, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}

	operands := []Operand{
		{Kind: OperandSgpr, Index: sdst, Access: dialect.AccessWrite},
		src,
	}
	return Instruction{Dialect: dialect.Sop1, Op: op, Address: addr, Length: 4 + litBytes, Operands: operands}, nil
}

func decodeSop2(read ReadWord, addr uint64, word uint32) (Instruction, error) {
	op := dialect.Op((word >> 23) & 0x7F)
	sdst := (word >> 16) & 0x7F
	ssrc1 := (word >> 8) & 0xFF
	ssrc0 := word & 0xFF

	literalAddr := addr + 4
	src0, lit0, err := resolveScalarSource(read, addr, literalAddr, ssrc0, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}
	src1, lit1, err := resolveScalarSource(read, addr, literalAddr, ssrc1, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}

	operands := []Operand{
		{Kind: OperandSgpr, Index: sdst, Access: dialect.AccessWrite},
		src0,
		src1,
	}
	return Instruction{Dialect: dialect.Sop2, Op: op, Address: addr, Length: 4 + lit0 + lit1, Operands: operands}, nil
}

func decodeSopc(read ReadWord, addr uint64, word uint32) (Instruction, error) {
	op := dialect.Op((word >> 16) & 0x7F)
	ssrc1 := (word >> 8) & 0xFF
	ssrc0 := word & 0xFF

	literalAddr := addr + 4
	src0, lit0, err := resolveScalarSource(read, addr, literalAddr, ssrc0, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}
	src1, lit1, err := resolveScalarSource(read, addr, literalAddr, ssrc1, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}

	operands := []Operand{src0, src1}
	return Instruction{Dialect: dialect.Sopc, Op: op, Address: addr, Length: 4 + lit0 + lit1, Operands: operands}, nil
}

func decodeSopk(read ReadWord, addr uint64, word uint32) (Instruction, error) {
	op := dialect.Op((word >> 23) & 0x1F)
	sdst := (word >> 16) & 0x7F
	simm16 := word & 0xFFFF

	operands := []Operand{
		{Kind: OperandSgpr, Index: sdst, Access: dialect.AccessReadWrite},
		{Kind: OperandConstant, ConstantBits: simm16, Access: dialect.AccessRead},
	}
	return Instruction{Dialect: dialect.Sopk, Op: op, Address: addr, Length: 4, Operands: operands}, nil
}

func decodeSopp(read ReadWord, addr uint64, word uint32) (Instruction, error) {
	op := dialect.Op((word >> 16) & 0x7F)
	simm16 := word & 0xFFFF

	operands := []Operand{{Kind: OperandConstant, ConstantBits: simm16, Access: dialect.AccessRead}}
	return Instruction{Dialect: dialect.Sopp, Op: op, Address: addr, Length: 4, Operands: operands}, nil
}

func decodeVop1(read ReadWord, addr uint64, word uint32) (Instruction, error) {
	op := dialect.Op((word >> 9) & 0xFF)
	vdst := (word >> 17) & 0xFF
	src0 := word & 0x1FF

	literalAddr := addr + 4
	src, litBytes, err := resolveScalarSource(read, addr, literalAddr, src0, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}

	operands := []Operand{
		{Kind: OperandVgpr, Index: vdst, Access: dialect.AccessWrite},
		src,
	}
	return Instruction{Dialect: dialect.Vop1, Op: op, Address: addr, Length: 4 + litBytes, Operands: operands}, nil
}

func decodeVop2(read ReadWord, addr uint64, word uint32) (Instruction, error) {
	op := dialect.Op((word >> 25) & 0x3F)
	vdst := (word >> 17) & 0xFF
	vsrc1 := (word >> 9) & 0xFF
	src0 := word & 0x1FF

	literalAddr := addr + 4
	src, litBytes, err := resolveScalarSource(read, addr, literalAddr, src0, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}

	operands := []Operand{
		{Kind: OperandVgpr, Index: vdst, Access: dialect.AccessWrite},
		src,
		{Kind: OperandVgpr, Index: vsrc1, Access: dialect.AccessRead},
	}
	return Instruction{Dialect: dialect.Vop2, Op: op, Address: addr, Length: 4 + litBytes, Operands: operands}, nil
}

func decodeVopc(read ReadWord, addr uint64, word uint32) (Instruction, error) {
	op := dialect.Op((word >> 17) & 0xFF)
	vsrc1 := (word >> 9) & 0xFF
	src0 := word & 0x1FF

	literalAddr := addr + 4
	src, litBytes, err := resolveScalarSource(read, addr, literalAddr, src0, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}

	operands := []Operand{
		src,
		{Kind: OperandVgpr, Index: vsrc1, Access: dialect.AccessRead},
	}
	return Instruction{Dialect: dialect.Vopc, Op: op, Address: addr, Length: 4 + litBytes, Operands: operands}, nil
}

// decodeVop3 reads the second dword that VOP3's extended encoding always
// carries: the three source fields, per-operand neg/abs, clamp, and omod.
func decodeVop3(read ReadWord, addr uint64, word0 uint32) (Instruction, error) {
	op := dialect.Op((word0 >> 17) & 0x1FF)
	vdst := word0 & 0xFF
	abs := (word0 >> 8) & 0x7
	clamp := (word0>>11)&1 != 0

	word1 := read(addr + 4)
	src0 := word1 & 0x1FF
	src1 := (word1 >> 9) & 0x1FF
	src2 := (word1 >> 18) & 0x1FF
	omod := uint8((word1 >> 27) & 0x3)
	neg := (word1 >> 29) & 0x7

	literalAddr := addr + 8
	s0, lit0, err := resolveScalarSource(read, addr, literalAddr, src0, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}
	s0.Neg, s0.Abs = neg&1 != 0, abs&1 != 0
	s1, lit1, err := resolveScalarSource(read, addr, literalAddr, src1, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}
	s1.Neg, s1.Abs = (neg>>1)&1 != 0, (abs>>1)&1 != 0
	s2, lit2, err := resolveScalarSource(read, addr, literalAddr, src2, dialect.AccessRead)
	if err != nil {
		return Instruction{}, err
	}
	s2.Neg, s2.Abs = (neg>>2)&1 != 0, (abs>>2)&1 != 0

	dst := Operand{Kind: OperandVgpr, Index: vdst, Access: dialect.AccessWrite, Clamp: clamp, Omod: omod}
	operands := []Operand{dst, s0, s1, s2}
	return Instruction{Dialect: dialect.Vop3, Op: op, Address: addr, Length: 8 + lit0 + lit1 + lit2, Operands: operands}, nil
}

func decodeSmrd(read ReadWord, addr uint64, word uint32) (Instruction, error) {
	op := dialect.Op((word >> 22) & 0x1F)
	sdst := (word >> 15) & 0x7F
	sbase := (word >> 9) & 0x3F
	imm := (word>>8)&1 != 0
	offsetField := word & 0xFF

	var offset Operand
	if imm {
		offset = Operand{Kind: OperandConstant, ConstantBits: offsetField, Access: dialect.AccessRead}
	} else {
		offset = Operand{Kind: OperandSgpr, Index: offsetField & 0x7F, Access: dialect.AccessRead}
	}

	operands := []Operand{
		{Kind: OperandSgpr, Index: sdst, Access: dialect.AccessWrite},
		{Kind: OperandBuffer, BaseSgpr: sbase * 2, Access: dialect.AccessRead},
		offset,
	}
	return Instruction{Dialect: dialect.Smrd, Op: op, Address: addr, Length: 4, Operands: operands}, nil
}

func decodeMubuf(read ReadWord, addr uint64, word0 uint32) (Instruction, error) {
	op := dialect.Op((word0 >> 18) & 0x7F)
	word1 := read(addr + 4)
	vaddr := word1 & 0xFF
	vdata := (word1 >> 8) & 0xFF
	srsrc := (word1 >> 16) & 0x1F
	soffset := (word1 >> 24) & 0xFF
	offset := word0 & 0xFFF

	operands := []Operand{
		{Kind: OperandVgpr, Index: vdata, Access: dialect.AccessReadWrite},
		{Kind: OperandPointer, PointerBaseSgpr: vaddr, PointerOffsetSgpr: offset, PointeeSize: 4, Access: dialect.AccessRead},
		{Kind: OperandBuffer, BaseSgpr: srsrc * 4, Access: dialect.AccessRead},
		{Kind: OperandSgpr, Index: soffset, Access: dialect.AccessRead},
	}
	return Instruction{Dialect: dialect.Mubuf, Op: op, Address: addr, Length: 8, Operands: operands}, nil
}

func decodeMtbuf(read ReadWord, addr uint64, word0 uint32) (Instruction, error) {
	op := dialect.Op((word0 >> 16) & 0x7)
	word1 := read(addr + 4)
	vaddr := word1 & 0xFF
	vdata := (word1 >> 8) & 0xFF
	srsrc := (word1 >> 16) & 0x1F
	soffset := (word1 >> 24) & 0xFF
	offset := word0 & 0xFFF

	operands := []Operand{
		{Kind: OperandVgpr, Index: vdata, Access: dialect.AccessReadWrite},
		{Kind: OperandPointer, PointerBaseSgpr: vaddr, PointerOffsetSgpr: offset, PointeeSize: 4, Access: dialect.AccessRead},
		{Kind: OperandTexture128, BaseSgpr: srsrc * 4, Access: dialect.AccessRead},
		{Kind: OperandSgpr, Index: soffset, Access: dialect.AccessRead},
	}
	return Instruction{Dialect: dialect.Mtbuf, Op: op, Address: addr, Length: 8, Operands: operands}, nil
}

func decodeMimg(read ReadWord, addr uint64, word0 uint32) (Instruction, error) {
	op := dialect.Op((word0 >> 18) & 0x7F)
	dmask := (word0 >> 8) & 0xF
	word1 := read(addr + 4)
	vaddr := word1 & 0xFF
	vdata := (word1 >> 8) & 0xFF
	srsrc := (word1 >> 16) & 0x1F
	ssamp := (word1 >> 21) & 0x1F

	operands := []Operand{
		{Kind: OperandVgpr, Index: vdata, Access: dialect.AccessReadWrite},
		{Kind: OperandVgpr, Index: vaddr, Access: dialect.AccessRead},
		{Kind: OperandTexture256, BaseSgpr: srsrc * 4, Access: dialect.AccessRead, ConstantBits: dmask},
		{Kind: OperandSampler, BaseSgpr: ssamp * 4, Access: dialect.AccessRead},
	}
	return Instruction{Dialect: dialect.Mimg, Op: op, Address: addr, Length: 8, Operands: operands}, nil
}

func decodeDs(read ReadWord, addr uint64, word0 uint32) (Instruction, error) {
	op := dialect.Op((word0 >> 18) & 0xFF)
	offset0 := word0 & 0xFF
	offset1 := (word0 >> 8) & 0xFF
	word1 := read(addr + 4)
	addrReg := word1 & 0xFF
	data0 := (word1 >> 8) & 0xFF
	data1 := (word1 >> 16) & 0xFF
	vdst := (word1 >> 24) & 0xFF

	operands := []Operand{
		{Kind: OperandVgpr, Index: vdst, Access: dialect.AccessWrite},
		{Kind: OperandVgpr, Index: addrReg, Access: dialect.AccessRead},
		{Kind: OperandVgpr, Index: data0, Access: dialect.AccessRead},
		{Kind: OperandVgpr, Index: data1, Access: dialect.AccessRead},
		{Kind: OperandConstant, ConstantBits: offset0, Access: dialect.AccessRead},
		{Kind: OperandConstant, ConstantBits: offset1, Access: dialect.AccessRead},
	}
	return Instruction{Dialect: dialect.Ds, Op: op, Address: addr, Length: 8, Operands: operands}, nil
}

func decodeExp(read ReadWord, addr uint64, word0 uint32) (Instruction, error) {
	en := word0 & 0xF
	target := (word0 >> 4) & 0x3F
	compr := (word0>>10)&1 != 0
	done := (word0>>11)&1 != 0
	vm := (word0>>12)&1 != 0

	word1 := read(addr + 4)
	vsrc0 := word1 & 0xFF
	vsrc1 := (word1 >> 8) & 0xFF
	vsrc2 := (word1 >> 16) & 0xFF
	vsrc3 := (word1 >> 24) & 0xFF

	clampFlags := Operand{Kind: OperandConstant, ConstantBits: en, Access: dialect.AccessRead, Clamp: compr, Neg: done, Abs: vm}
	operands := []Operand{
		{Kind: OperandConstant, ConstantBits: target, Access: dialect.AccessRead},
		clampFlags,
		{Kind: OperandVgpr, Index: vsrc0, Access: dialect.AccessRead},
		{Kind: OperandVgpr, Index: vsrc1, Access: dialect.AccessRead},
		{Kind: OperandVgpr, Index: vsrc2, Access: dialect.AccessRead},
		{Kind: OperandVgpr, Index: vsrc3, Access: dialect.AccessRead},
	}
	return Instruction{Dialect: dialect.Exp, Op: dialect.Op(0), Address: addr, Length: 8, Operands: operands}, nil
}

func decodeVintrp(read ReadWord, addr uint64, word0 uint32) (Instruction, error) {
	op := dialect.Op((word0 >> 16) & 0x3)
	vdst := (word0 >> 18) & 0xFF
	vsrc := word0 & 0xFF
	attrChan := (word0 >> 8) & 0x3
	attr := (word0 >> 10) & 0x3F

	operands := []Operand{
		{Kind: OperandVgpr, Index: vdst, Access: dialect.AccessWrite},
		{Kind: OperandVgpr, Index: vsrc, Access: dialect.AccessRead},
		{Kind: OperandAttr, AttrID: attr, AttrChannel: attrChan, Access: dialect.AccessRead},
	}
	return Instruction{Dialect: dialect.Vintrp, Op: op, Address: addr, Length: 4, Operands: operands}, nil
}
