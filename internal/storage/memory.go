package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

type memoryImage struct {
	info ImageInfo
	data []byte
}

// MemoryImageStore keeps images in process memory. Used when MongoDB is not
// configured and in tests.
type MemoryImageStore struct {
	mu     sync.RWMutex
	images map[string]memoryImage
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{images: make(map[string]memoryImage)}
}

func (s *MemoryImageStore) Upload(_ context.Context, fileName, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", fileName, err)
	}

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[id] = memoryImage{
		info: ImageInfo{FileName: fileName, ContentType: contentType, Size: int64(len(data))},
		data: data,
	}
	return id, nil
}

func (s *MemoryImageStore) Open(_ context.Context, fileID string) (io.ReadCloser, *ImageInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[fileID]
	if !ok {
		return nil, nil, ErrImageNotFound
	}
	info := img.info
	return io.NopCloser(bytes.NewReader(img.data)), &info, nil
}

func (s *MemoryImageStore) Delete(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.images[fileID]; !ok {
		return ErrImageNotFound
	}
	delete(s.images, fileID)
	return nil
}

func (s *MemoryImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
