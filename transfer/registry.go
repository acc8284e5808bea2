package transfer

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/memwire/memwire/layout"
)

// Register runs the layout checker on T and returns its rejection, if any.
// Checker outcomes are cached per type, so registering ahead of time makes the
// first transfer free and keeps rejections out of the hot path.
func Register[T any]() error {
	return layout.Validate[T]()
}

// MustRegister is Register for package-level assertions: it panics with the
// checker's diagnostic so that an unsafe wire type aborts the program at
// start, before any transfer can run.
//
//	var _ = transfer.MustRegister[Header]()
func MustRegister[T any]() bool {
	if err := Register[T](); err != nil {
		panic(err)
	}

	return true
}

// ensure gates an operation on the checker verdict for T. Rejected types are
// a programmer error, so there is no error path: the panic carries the same
// diagnostic MustRegister would have raised at startup.
func ensure[T any]() {
	if err := layout.ValidateType(reflect.TypeOf((*T)(nil)).Elem()); err != nil {
		panic(errors.Wrap(err, "transfer operation on rejected type"))
	}
}
