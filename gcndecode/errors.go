package gcndecode

import "fmt"

// InvalidError reports an unmatched top-bit encoding pattern, or a 9-bit
// scalar-source field landing on a slot the decoder has no case for
// (104-105, 108-123, 125, 209-239, 248-250; spec §4.1, §7). A truncated
// stream is not reported: ReadWord has no way to signal the end of the
// stream. The caller is expected to stop lifting the stream.
type InvalidError struct {
	Address uint64
	Word    uint32
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("gcndecode: invalid instruction at address 0x%x (word 0x%08x)", e.Address, e.Word)
}
