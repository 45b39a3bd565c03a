package recompiler

import "fmt"

// The five error kinds below mirror spec §7's taxonomy. Each wraps the
// originating package's own typed error (gcndecode.InvalidError,
// semantic.BadSemanticModuleError, lifter.UnresolvedBranchError,
// structurize.GaveUpError, spirvcodec.InvariantError/DeserializeError)
// rather than duplicating its fields, the way wgsl.SourceError wraps a
// position without re-deriving it: Compile's caller can match on the
// recompiler-level kind without reaching into an inner package, and
// errors.As still finds the wrapped error for anyone who wants the detail.

// DecodeInvalidError reports that the GCN decoder rejected the stream.
type DecodeInvalidError struct {
	Err error
}

func (e *DecodeInvalidError) Error() string {
	return fmt.Sprintf("recompiler: decode failed: %s", e.Err)
}

func (e *DecodeInvalidError) Unwrap() error { return e.Err }

// BadSemanticModuleError reports that the supplied semantic module is
// unusable as loaded.
type BadSemanticModuleError struct {
	Err error
}

func (e *BadSemanticModuleError) Error() string {
	return fmt.Sprintf("recompiler: semantic module rejected: %s", e.Err)
}

func (e *BadSemanticModuleError) Unwrap() error { return e.Err }

// UnresolvedBranchError reports that the lifter could not resolve every
// indirect branch in the program.
type UnresolvedBranchError struct {
	Err error
}

func (e *UnresolvedBranchError) Error() string {
	return fmt.Sprintf("recompiler: lifting failed: %s", e.Err)
}

func (e *UnresolvedBranchError) Unwrap() error { return e.Err }

// StructurizerGaveUpError reports that the structurizer could not reach a
// fixpoint, or found a construct shape its fixups don't resolve.
type StructurizerGaveUpError struct {
	Err error
}

func (e *StructurizerGaveUpError) Error() string {
	return fmt.Sprintf("recompiler: structurizing failed: %s", e.Err)
}

func (e *StructurizerGaveUpError) Unwrap() error { return e.Err }

// SerializerInvariantError wraps a spirvcodec.InvariantError: an instruction
// the serializer cannot encode (operand values are not range-checked at
// SPIR-V emission time) — a programming error, not a recoverable
// compilation failure (spec §7 says the process should abort on this one;
// Compile still returns it so a caller embedding this as a library can
// decide how to fail).
type SerializerInvariantError struct {
	Err error
}

func (e *SerializerInvariantError) Error() string {
	return fmt.Sprintf("recompiler: serialization failed: %s", e.Err)
}

func (e *SerializerInvariantError) Unwrap() error { return e.Err }
