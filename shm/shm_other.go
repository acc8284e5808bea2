//go:build !unix

package shm

import (
	"os"
)

func mmap(f *os.File, size int) ([]byte, error) {
	return nil, ErrUnsupportedPlatform
}

func munmap(data []byte) error {
	return ErrUnsupportedPlatform
}
