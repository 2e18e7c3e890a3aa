package fsx

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("fsx: file not found")

// FileSystem is the storage abstraction used for generated files
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	DeleteFile(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	Join(elem ...string) string
}
