// Package shm provides file-backed shared-memory byte buffers for passing
// fixed-layout messages between processes on the same machine. A Buffer is a
// plain caller-owned byte span: this package maps and unmaps it, everything in
// between (casting, copying, synchronization between the processes) belongs to
// the caller and the transfer package.
package shm

import (
	"os"

	"github.com/cockroachdb/errors"
)

// ErrUnsupportedPlatform gets returned on platforms without a shared-mapping
// implementation.
var ErrUnsupportedPlatform = errors.New("shared memory mappings are not supported on this platform")

// Buffer is a shared, writable memory mapping backed by a file.
type Buffer struct {
	data []byte
	f    *os.File
}

// Create creates (or truncates) the file at path, grows it to size bytes and
// maps it shared and writable.
func Create(path string, size int) (*Buffer, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create backing file")
	}

	if err := f.Truncate(int64(size)); err != nil {
		f.Close()

		return nil, errors.Wrap(err, "failed to size backing file")
	}

	return mapFile(f, size)
}

// Open maps the existing file at path shared and writable, at its current
// size.
func Open(path string) (*Buffer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open backing file")
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, errors.Wrap(err, "failed to stat backing file")
	}

	return mapFile(f, int(info.Size()))
}

// Bytes returns the mapped span. Writes are visible to every process mapping
// the same file; the slice is only valid until Close.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the length of the mapped span.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Close unmaps the buffer and closes the backing file. The span returned by
// Bytes must not be touched afterwards.
func (b *Buffer) Close() error {
	if b == nil {
		return nil
	}

	var err error
	if b.data != nil {
		err = munmap(b.data)
		b.data = nil
	}
	if b.f != nil {
		if closeErr := b.f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		b.f = nil
	}

	return err
}

func mapFile(f *os.File, size int) (*Buffer, error) {
	if size == 0 {
		return &Buffer{f: f}, nil
	}

	data, err := mmap(f, size)
	if err != nil {
		f.Close()

		return nil, errors.Wrap(err, "failed to map backing file")
	}

	return &Buffer{data: data, f: f}, nil
}
