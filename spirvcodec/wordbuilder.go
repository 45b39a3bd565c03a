package spirvcodec

import "encoding/binary"

// rawInstruction is one emitted SPIR-V instruction before the word-count
// field is known.
type rawInstruction struct {
	opcode uint16
	words  []uint32
}

// instructionBuilder accumulates the operand words of one instruction.
type instructionBuilder struct {
	words []uint32
}

func (b *instructionBuilder) addWord(w uint32) *instructionBuilder {
	b.words = append(b.words, w)
	return b
}

func (b *instructionBuilder) addWords(ws ...uint32) *instructionBuilder {
	b.words = append(b.words, ws...)
	return b
}

// addString appends a zero-terminated, 4-byte-padded UTF-8 string, per
// SPIR-V's literal string encoding.
func (b *instructionBuilder) addString(s string) *instructionBuilder {
	bytes := []byte(s)
	bytes = append(bytes, 0)
	for len(bytes)%4 != 0 {
		bytes = append(bytes, 0)
	}
	for i := 0; i < len(bytes); i += 4 {
		b.words = append(b.words, binary.LittleEndian.Uint32(bytes[i:i+4]))
	}
	return b
}

func (b *instructionBuilder) build(opcode uint16) rawInstruction {
	return rawInstruction{opcode: opcode, words: b.words}
}

// wordStreamBuilder collects raw instructions in emission order and renders
// them into the final little-endian word stream, computing each
// instruction's word count into the high 16 bits of its first word.
type wordStreamBuilder struct {
	instructions []rawInstruction
}

func (b *wordStreamBuilder) emit(ri rawInstruction) {
	b.instructions = append(b.instructions, ri)
}

func (b *wordStreamBuilder) buildHeader(version, generator, bound uint32) []byte {
	header := make([]byte, 20)
	binary.LittleEndian.PutUint32(header[0:4], Magic)
	binary.LittleEndian.PutUint32(header[4:8], version)
	binary.LittleEndian.PutUint32(header[8:12], generator)
	binary.LittleEndian.PutUint32(header[12:16], bound)
	binary.LittleEndian.PutUint32(header[16:20], 0)
	return header
}

func (b *wordStreamBuilder) buildBody() []byte {
	out := make([]byte, 0, len(b.instructions)*8)
	buf := make([]byte, 4)
	for _, ri := range b.instructions {
		wordCount := uint32(len(ri.words) + 1)
		word0 := (wordCount << 16) | uint32(ri.opcode)
		binary.LittleEndian.PutUint32(buf, word0)
		out = append(out, buf...)
		for _, w := range ri.words {
			binary.LittleEndian.PutUint32(buf, w)
			out = append(out, buf...)
		}
	}
	return out
}
