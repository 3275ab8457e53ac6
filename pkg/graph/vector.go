package graph

import (
	"fmt"
	"io"
	"os"
	"unsafe"
)

// Element is a fixed-width value that can be stored in a vector file.
type Element interface {
	~uint32 | ~int32 | ~float32 | ~uint64 | ~int64 | ~float64
}

// LoadVector reads a vector file: the raw little-endian values back to
// back, without header. The file size must be a multiple of the element
// size.
func LoadVector[T Element](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vector: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat vector: %w", err)
	}
	var zero T
	size := int64(unsafe.Sizeof(zero))
	if info.Size()%size != 0 {
		return nil, fmt.Errorf("vector %s: size %d is not a multiple of %d", path, info.Size(), size)
	}
	v := make([]T, info.Size()/size)
	if len(v) == 0 {
		return v, nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*int(size))
	if _, err := io.ReadFull(f, b); err != nil {
		return nil, fmt.Errorf("read vector %s: %w", path, err)
	}
	return v, nil
}

// SaveVector writes v in the format read by LoadVector. The file is
// written to a temporary name and renamed into place.
func SaveVector[T Element](path string, v []T) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	if len(v) > 0 {
		var zero T
		b := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*int(unsafe.Sizeof(zero)))
		if _, err := f.Write(b); err != nil {
			return fmt.Errorf("write vector %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
