package nbt

import (
	"fmt"

	"github.com/scigolib/nbt/internal/core"
	"github.com/scigolib/nbt/internal/mutf8"
)

// ErrEndOfFile is returned when a bounds check fails mid-value: the input
// ended before the value it promises was complete.
var ErrEndOfFile = core.ErrEndOfFile

// InvalidTagError reports a tag byte outside 0..=12, or an End tag found
// where the format does not permit one.
type InvalidTagError = core.InvalidTagError

// TrailingDataError reports bytes remaining after the root value parsed
// successfully.
type TrailingDataError = core.TrailingDataError

// TagMismatchError reports that decoding requested a Go type whose NBT tag
// does not match the tag present in the stream.
type TagMismatchError = core.TagMismatchError

// StringDecodeError reports a malformed MUTF-8 sequence during strict
// string decoding.
type StringDecodeError = mutf8.DecodeError

// DecodeError is the generic catch-all for structural errors raised by the
// struct decoder that do not fit the wire-level taxonomy.
type DecodeError struct {
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return "nbt: " + e.Message
}

func decodeErrorf(format string, args ...interface{}) error {
	return &DecodeError{Message: fmt.Sprintf(format, args...)}
}
