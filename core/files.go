package core

import (
	"context"
	"io"
)

// FileStore stores and serves uploaded resource files.
// The resource service only decides whether a principal may retrieve;
// storage and streaming live behind this interface.
type FileStore interface {
	// Store writes content under the given path and returns the stored path.
	Store(ctx context.Context, path string, content io.Reader) (string, error)
	// Retrieve opens the file stored under path; ErrNotFound if absent.
	Retrieve(ctx context.Context, path string) (io.ReadCloser, error)
}
