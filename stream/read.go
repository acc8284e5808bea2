// Package stream moves validated fixed-layout values over io.Reader and
// io.Writer boundaries. Values travel in their native in-memory
// representation, unframed and unswapped; the layout fingerprint handshake
// (see the layout package) is what entitles two peers to read each other's
// bytes at all.
package stream

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/memwire/memwire/transfer"
)

// Read reads the raw representation of a fixed-layout value from the reader.
// The target is only written once all bytes arrived, so a short read leaves it
// untouched.
func Read[T any](reader io.Reader, target *T) error {
	var value T
	if _, err := io.ReadFull(reader, transfer.AsBytes(&value)); err != nil {
		return errors.Wrap(err, "failed to read value bytes")
	}
	*target = value

	return nil
}

// ReadBytes reads exactly length bytes from the reader.
func ReadBytes(reader io.Reader, length int) ([]byte, error) {
	readBytes := make([]byte, length)

	if _, err := io.ReadFull(reader, readBytes); err != nil {
		return nil, errors.Wrap(err, "failed to read serialized bytes")
	}

	return readBytes, nil
}
