package fst

import "errors"

// Error classification sentinels.
//
// Callers must classify errors using errors.Is; implementations may wrap
// these with additional context via fmt.Errorf("...: %w", ...).
var (
	// OrderViolation indicates a key was presented out of non-decreasing
	// lexicographic order during build.
	OrderViolation = errors.New("fst: key out of order")

	// WriteError indicates the underlying output stream failed to write.
	// The builder is poisoned after this and the output file must be
	// discarded.
	WriteError = errors.New("fst: write failed")

	// FormatError indicates a decoded node has an impossible discriminator
	// byte or a truncated payload.
	FormatError = errors.New("fst: malformed node")

	// BoundError indicates a caller-supplied bound is not valid UTF-8 when
	// used with a UTF-8-aware automaton.
	BoundError = errors.New("fst: invalid bound")

	// ErrClosed indicates an operation on a Reader or Builder that has
	// already been closed or finished.
	ErrClosed = errors.New("fst: closed")

	// ErrInvalidInput indicates a caller supplied a structurally invalid
	// argument (e.g. a negative edit distance).
	ErrInvalidInput = errors.New("fst: invalid input")
)
