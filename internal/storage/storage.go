package storage

import (
	"context"
	"errors"
	"io"
)

var ErrImageNotFound = errors.New("image not found")

// ImageInfo describes a stored image.
type ImageInfo struct {
	FileName    string
	ContentType string
	Size        int64
}

// ImageStore keeps property image files outside the relational database.
type ImageStore interface {
	Upload(ctx context.Context, fileName, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, *ImageInfo, error)
	Delete(ctx context.Context, fileID string) error
}
