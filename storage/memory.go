package storage // import "github.com/storyhouse/storyhouse/storage"

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore is an in-memory ObjectStore. It backs tests and the
// storage_backend=memory mode used for local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

var _ ObjectStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string]Object{}}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, errors.Wrapf(ErrObjectNotFound, "key %s", key)
	}
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	return &Object{Data: data, ContentType: obj.ContentType, Metadata: obj.Metadata}, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = Object{Data: stored, ContentType: contentType, Metadata: metadata}
	return "memory://" + key, nil
}

func (s *MemoryStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[srcKey]
	if !ok {
		return errors.Wrapf(ErrObjectNotFound, "key %s", srcKey)
	}
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	s.objects[dstKey] = Object{Data: data, ContentType: obj.ContentType, Metadata: obj.Metadata}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Snapshot returns a copy of every stored object, used by tests to assert
// dry runs leave the store untouched.
func (s *MemoryStore) Snapshot() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[string][]byte, len(s.objects))
	for key, obj := range s.objects {
		data := make([]byte, len(obj.Data))
		copy(data, obj.Data)
		snap[key] = data
	}
	return snap
}
