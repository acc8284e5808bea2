package stream

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/memwire/memwire/transfer"
)

// Write writes the raw representation of a fixed-layout value to the writer.
func Write[T any](writer io.Writer, value *T) error {
	if _, err := writer.Write(transfer.AsReadOnlyBytes(value)); err != nil {
		return errors.Wrap(err, "failed to write value bytes")
	}

	return nil
}

// WriteBytes writes the given bytes to the writer.
func WriteBytes(writer io.Writer, bytes []byte) error {
	if _, err := writer.Write(bytes); err != nil {
		return errors.Wrap(err, "failed to write bytes")
	}

	return nil
}
