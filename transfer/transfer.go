// Package transfer converts between typed values and raw byte buffers without
// interpreting them: two aliasing reinterpret views and two bounded copies.
//
// Every operation is gated on the layout checker (see the layout package). The
// gate is evaluated once per type and cached; a rejected type panics with the
// checker's diagnostic the first time it reaches any operation, which is this
// package's stand-in for a failed build. Register the wire types at package
// init to move that abort to program start, before any transfer runs:
//
//	var _ = transfer.MustRegister[Header]()
//
// The only runtime error in the package is ErrInsufficientLength; everything
// else is a programmer error and does not get an error path.
//
// Buffers are caller-owned throughout: nothing here allocates, retains a
// reference past the call, or inspects bytes beyond the transferred range.
// Concurrent use of a mutable view is the caller's data race, exactly as for
// any shared memory.
package transfer

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// ErrInsufficientLength gets returned when a copy source or target buffer is
// shorter than the transferred type. The failed call writes nothing at all, so
// retrying with a larger buffer is always safe.
var ErrInsufficientLength = errors.New("insufficient buffer length")

// Size returns the byte size of T's representation.
func Size[T any]() int {
	var value T

	return int(unsafe.Sizeof(value))
}

// AsBytes reinterprets the memory of value as a byte slice of exactly Size[T]
// bytes. No copy occurs: the slice aliases value, so mutations through either
// are visible through the other, and the slice must not outlive value.
func AsBytes[T any](value *T) []byte {
	ensure[T]()

	return unsafe.Slice((*byte)(unsafe.Pointer(value)), unsafe.Sizeof(*value))
}

// AsReadOnlyBytes is AsBytes for callers that only read. Go has no read-only
// slices, so the no-mutation rule is an obligation on the caller, not enforced
// by the type system.
func AsReadOnlyBytes[T any](value *T) []byte {
	ensure[T]()

	return unsafe.Slice((*byte)(unsafe.Pointer(value)), unsafe.Sizeof(*value))
}

// CopyInto copies the raw representation of value into the start of buf and
// returns ErrInsufficientLength if buf is shorter than Size[T]. Bytes of buf
// past Size[T] are left untouched. buf needs no particular alignment, it
// receives a plain byte copy.
func CopyInto[T any](buf []byte, value *T) error {
	ensure[T]()

	size := int(unsafe.Sizeof(*value))
	if len(buf) < size {
		return errors.Wrapf(ErrInsufficientLength, "need %d bytes, buffer holds %d", size, len(buf))
	}

	copy(buf[:size], unsafe.Slice((*byte)(unsafe.Pointer(value)), size))

	return nil
}

// CopyFrom overwrites the raw representation of value with the first Size[T]
// bytes of buf and returns ErrInsufficientLength if buf is shorter, leaving
// value byte-for-byte unchanged in that case.
func CopyFrom[T any](value *T, buf []byte) error {
	ensure[T]()

	size := int(unsafe.Sizeof(*value))
	if len(buf) < size {
		return errors.Wrapf(ErrInsufficientLength, "need %d bytes, buffer holds %d", size, len(buf))
	}

	copy(unsafe.Slice((*byte)(unsafe.Pointer(value)), size), buf[:size])

	return nil
}
