package succinct

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is wrapped by the panics raised when a query argument
	// violates its documented range.
	ErrOutOfRange = errors.New("argument out of range")

	// ErrInvalidBlockWidth is returned when an RRR block width cannot be encoded.
	ErrInvalidBlockWidth = errors.New("invalid block width")

	// ErrInvalidSampleRate is returned for a zero sampling stride.
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// ErrCapacity is returned when a sequence is too long for the sampling indexes.
	ErrCapacity = errors.New("sequence exceeds index capacity")

	// ErrUnknownKind is returned by New for an unrecognized Kind.
	ErrUnknownKind = errors.New("unknown bit vector kind")
)

// ErrBlockWidth indicates an RRR block width outside [1, MaxBlockWidth].
//
// errors.Is(err, ErrInvalidBlockWidth) reports true for it.
type ErrBlockWidth struct {
	Width uint
}

func (e *ErrBlockWidth) Error() string {
	return fmt.Sprintf("invalid block width: %d (must be in [1,%d])", e.Width, MaxBlockWidth)
}

func (e *ErrBlockWidth) Unwrap() error { return ErrInvalidBlockWidth }

// ErrTooLarge indicates a sequence longer than a representation can index.
//
// errors.Is(err, ErrCapacity) reports true for it.
type ErrTooLarge struct {
	Size  uint64
	Limit uint64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("sequence of %d bits exceeds limit of %d bits", e.Size, e.Limit)
}

func (e *ErrTooLarge) Unwrap() error { return ErrCapacity }

// outOfRange panics with an error wrapping ErrOutOfRange.
func outOfRange(format string, args ...any) {
	panic(fmt.Errorf("succinct: %w: %s", ErrOutOfRange, fmt.Sprintf(format, args...)))
}
