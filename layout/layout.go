// Package layout decides whether a Go type has a fixed, architecture-independent
// memory representation that is safe to reinterpret as raw bytes.
/*

A type is transfer-safe iff every leaf in its recursive expansion is a bool, a
fixed-width integer (int8/16/32/64, uint8/16/32/64) or a float (float32/float64),
and every composite on the way down is either a fixed-size array of a
transfer-safe element type or an explicit-layout record.

A record (struct) qualifies only if both of the following hold:

	- it attests to an explicit layout by implementing the Explicit marker
	  interface (with a value receiver, since fields are owned values), and
	- its fields are actually packed: field offsets are contiguous in
	  declaration order and the struct size equals the sum of the field sizes.
	  The second condition is measured through reflection, not trusted, so a
	  struct whose field order forces the compiler to insert padding is
	  rejected even though it carries the attestation.

Everything else is rejected: int, uint and uintptr (their width is decided by
the target), pointers, slices, maps, strings, channels, functions, interfaces
and complex numbers. Rejections name the offending type, the path to it and the
violated rule, and are meant to surface at program start (see the transfer
package), never per call.
*/
package layout

import (
	"reflect"
)

// Explicit is the marker capability a record type must implement before it can
// be composed into a transfer-safe type. Implementing it attests that the
// struct's fields are laid out contiguously in declaration order with no
// padding; the checker verifies the claim against the actual field offsets.
type Explicit interface {
	ExplicitLayout()
}

var explicitType = reflect.TypeOf((*Explicit)(nil)).Elem()

// Kind enumerates the shapes a transfer-safe type can take.
type Kind uint8

const (
	// KindBool denotes the boolean leaf type.
	KindBool Kind = iota + 1
	// KindInt denotes a signed fixed-width integer leaf type.
	KindInt
	// KindUint denotes an unsigned fixed-width integer leaf type.
	KindUint
	// KindFloat denotes a floating point leaf type.
	KindFloat
	// KindArray denotes a fixed-size array of a transfer-safe element type.
	KindArray
	// KindRecord denotes an explicit-layout record of transfer-safe fields.
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "bool":
		*k = KindBool
	case "int":
		*k = KindInt
	case "uint":
		*k = KindUint
	case "float":
		*k = KindFloat
	case "array":
		*k = KindArray
	case "record":
		*k = KindRecord
	default:
		return ErrUnknownKind
	}

	return nil
}

// Field describes a single field of a record descriptor.
type Field struct {
	// Name is the field name as declared in the source record.
	Name string `json:"name"`
	// Offset is the field's byte offset from the start of the record.
	Offset int `json:"offset"`
	// Type is the descriptor of the field's type.
	Type *Descriptor `json:"type"`
}

// Descriptor is the recursive description of a transfer-safe type. It only
// ever describes accepted types; the checker returns an error instead of
// producing a descriptor for anything unsafe.
type Descriptor struct {
	// Kind is the shape of the described type.
	Kind Kind `json:"kind"`
	// Size is the total byte size of the described type.
	Size int `json:"size"`
	// Bits is the bit width of an integer or float leaf (0 otherwise).
	Bits int `json:"bits,omitempty"`
	// Len is the element count of an array (0 otherwise).
	Len int `json:"len,omitempty"`
	// Elem is the element descriptor of an array (nil otherwise).
	Elem *Descriptor `json:"elem,omitempty"`
	// Fields are the field descriptors of a record in declaration order.
	Fields []Field `json:"fields,omitempty"`
	// TypeName is the Go name of the described type, for diagnostics. It does
	// not participate in the fingerprint.
	TypeName string `json:"typeName,omitempty"`
}

// Describe runs the layout checker on T and returns its descriptor, or the
// rejection naming the offending type and the violated rule.
func Describe[T any]() (*Descriptor, error) {
	return DescribeType(reflect.TypeOf((*T)(nil)).Elem())
}

// DescribeType is the reflect.Type form of Describe.
func DescribeType(typ reflect.Type) (*Descriptor, error) {
	return defaultCache.describe(typ)
}

// Validate runs the layout checker on T and reports the rejection, if any.
func Validate[T any]() error {
	return ValidateType(reflect.TypeOf((*T)(nil)).Elem())
}

// ValidateType is the reflect.Type form of Validate.
func ValidateType(typ reflect.Type) error {
	_, err := DescribeType(typ)

	return err
}
