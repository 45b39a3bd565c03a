package spirvcodec

import "fmt"

// InvariantError reports an instruction the serializer cannot encode: one
// not tagged with the Spv dialect, a value-producing opcode with no result
// type, or a type, constant or operand of unrecognized kind. Operand values
// are not range-checked against their type at emission time. This is a
// programming error, not a recoverable compilation failure: the caller
// should treat it as fatal.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("spirvcodec: serializer invariant violated: %s", e.Reason)
}

// DeserializeError reports a malformed SPIR-V word stream.
type DeserializeError struct {
	Offset int
	Reason string
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("spirvcodec: malformed module at byte offset %d: %s", e.Offset, e.Reason)
}
