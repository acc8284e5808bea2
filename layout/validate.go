package layout

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
)

// describeType builds the descriptor for typ, descending depth-first and
// short-circuiting on the first rejection. Termination is guaranteed because
// Go forbids by-value self-reference in structs and arrays, so the descent is
// strictly structural.
func describeType(typ reflect.Type) (*Descriptor, error) {
	switch typ.Kind() {
	case reflect.Bool:
		return &Descriptor{
			Kind:     KindBool,
			Size:     int(typ.Size()),
			TypeName: typ.String(),
		}, nil

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Descriptor{
			Kind:     KindInt,
			Size:     int(typ.Size()),
			Bits:     typ.Bits(),
			TypeName: typ.String(),
		}, nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Descriptor{
			Kind:     KindUint,
			Size:     int(typ.Size()),
			Bits:     typ.Bits(),
			TypeName: typ.String(),
		}, nil

	case reflect.Float32, reflect.Float64:
		return &Descriptor{
			Kind:     KindFloat,
			Size:     int(typ.Size()),
			Bits:     typ.Bits(),
			TypeName: typ.String(),
		}, nil

	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return nil, errors.Wrapf(ErrArchDependentWidth, "type %s", typ)

	case reflect.Array:
		return describeArray(typ)

	case reflect.Struct:
		return describeRecord(typ)

	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "type %s of kind %s", typ, typ.Kind())
	}
}

func describeArray(arrayType reflect.Type) (*Descriptor, error) {
	elemDesc, err := describeType(arrayType.Elem())
	if err != nil {
		return nil, errors.Wrapf(err, "element of array type %s", arrayType)
	}

	return &Descriptor{
		Kind:     KindArray,
		Size:     int(arrayType.Size()),
		Len:      arrayType.Len(),
		Elem:     elemDesc,
		TypeName: arrayType.String(),
	}, nil
}

func describeRecord(structType reflect.Type) (*Descriptor, error) {
	// The attestation must come from the value type itself: fields are owned
	// values, so a pointer-receiver implementation would not travel with them.
	if !structType.Implements(explicitType) {
		return nil, errors.Wrapf(ErrImplicitLayout, "type %s", structType)
	}

	fields := make([]Field, 0, structType.NumField())

	// Unexported fields occupy memory like any other, so every field is
	// checked, not only the visible ones.
	var nextOffset uintptr
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		fieldDesc, err := describeType(field.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s of record type %s", field.Name, structType)
		}

		if field.Offset != nextOffset {
			return nil, errors.Wrapf(ErrHiddenPadding,
				"type %s: %d padding byte(s) before field %s",
				structType, field.Offset-nextOffset, field.Name)
		}
		nextOffset = field.Offset + field.Type.Size()

		fields = append(fields, Field{
			Name:   field.Name,
			Offset: int(field.Offset),
			Type:   fieldDesc,
		})
	}

	if nextOffset != structType.Size() {
		return nil, errors.Wrapf(ErrHiddenPadding,
			"type %s: %d trailing padding byte(s)",
			structType, structType.Size()-nextOffset)
	}

	return &Descriptor{
		Kind:     KindRecord,
		Size:     int(structType.Size()),
		Fields:   fields,
		TypeName: structType.String(),
	}, nil
}

type describeResult struct {
	desc *Descriptor
	err  error
}

// descriptorCache memoizes checker outcomes per reflect.Type, so validation
// runs once per type no matter how many call sites use it.
type descriptorCache struct {
	cacheMutex sync.RWMutex
	cache      map[reflect.Type]describeResult
}

var defaultCache = &descriptorCache{
	cache: make(map[reflect.Type]describeResult),
}

func (c *descriptorCache) describe(typ reflect.Type) (*Descriptor, error) {
	c.cacheMutex.RLock()
	result, exists := c.cache[typ]
	c.cacheMutex.RUnlock()
	if exists {
		return result.desc, result.err
	}

	desc, err := describeType(typ)

	c.cacheMutex.Lock()
	c.cache[typ] = describeResult{desc: desc, err: err}
	c.cacheMutex.Unlock()

	return desc, err
}
