package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrObjectNotFound = errors.New("object not found")

// Object describes a stored blob.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// BlobStore persists uploaded files. Delete of a missing key succeeds.
type BlobStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// InMemoryStore keeps blobs in process memory. Used in tests and when
// STORAGE_BACKEND=memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]memoryObject
}

type memoryObject struct {
	body        []byte
	contentType string
}

func NewInMemoryStore(baseURL string) *InMemoryStore {
	if baseURL == "" {
		baseURL = "memory://blobs"
	}
	return &InMemoryStore{baseURL: strings.TrimRight(baseURL, "/"), objects: map[string]memoryObject{}}
}

func (s *InMemoryStore) Put(_ context.Context, key string, body []byte, contentType string) (Object, error) {
	if err := validateKey(key); err != nil {
		return Object{}, err
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	s.mu.Lock()
	s.objects[key] = memoryObject{body: cp, contentType: contentType}
	s.mu.Unlock()
	return Object{Key: key, URL: s.baseURL + "/" + key, ContentType: contentType, Size: int64(len(body))}, nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the stored bytes.
func (s *InMemoryStore) Get(key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return append([]byte(nil), obj.body...), obj.contentType, nil
}

func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return errors.New("invalid object key")
	}
	return nil
}
