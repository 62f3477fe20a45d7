package media

import (
	"context"
	"errors"
	"sync"
)

// ErrImageNotFound is returned when no image is stored under a name.
var ErrImageNotFound = errors.New("image not found")

// Image is a stored image with its content type.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImageStore persists post images by name.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) error
	Open(ctx context.Context, name string) (*Image, error)
	Delete(ctx context.Context, name string) error
}

// MemoryStore keeps images in a map. Used for tests and memory-backed runs.
type MemoryStore struct {
	mu     sync.RWMutex
	images map[string]Image
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{images: make(map[string]Image)}
}

func (s *MemoryStore) Save(_ context.Context, name, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[name] = Image{Name: name, ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

func (s *MemoryStore) Open(_ context.Context, name string) (*Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[name]
	if !ok {
		return nil, ErrImageNotFound
	}
	return &img, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.images, name)
	return nil
}

// Len reports how many images are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
