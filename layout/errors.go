package layout

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrArchDependentWidth gets returned when a type's width or signedness is
	// decided by the compilation target instead of the type itself (int, uint,
	// uintptr).
	ErrArchDependentWidth = errors.New("architecture-dependent width")
	// ErrImplicitLayout gets returned when a record type does not attest to an
	// explicit, padding-free layout by implementing Explicit.
	ErrImplicitLayout = errors.New("record does not attest to an explicit layout")
	// ErrHiddenPadding gets returned when a record attests to an explicit
	// layout but its measured field offsets reveal compiler-inserted padding.
	ErrHiddenPadding = errors.New("record layout contains hidden padding")
	// ErrUnsupportedType gets returned for every kind that has no fixed
	// representation at all (pointers, slices, maps, strings, channels,
	// functions, interfaces, complex numbers).
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrUnknownKind gets returned when decoding a descriptor with a kind this
	// version does not know.
	ErrUnknownKind = errors.New("unknown descriptor kind")
	// ErrMissingLayout gets returned when a manifest entry carries no layout
	// descriptor.
	ErrMissingLayout = errors.New("manifest entry has no layout")
	// ErrMissingFingerprint gets returned when a manifest entry carries no
	// fingerprint.
	ErrMissingFingerprint = errors.New("manifest entry has no fingerprint")
)
