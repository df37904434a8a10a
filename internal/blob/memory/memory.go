package memory

import (
	"context"
	"fmt"
	"sync"

	"movimenti/internal/blob"
)

// Store keeps objects in a map. Test fake and dev backend.
type Store struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailDelete makes Delete return an error, for exercising the
	// best-effort cleanup path.
	FailDelete bool
}

var _ blob.Store = (*Store)(nil)

func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

func (s *Store) Upload(_ context.Context, name string, data []byte, _ string) (string, error) {
	objectName := blob.Folder + name
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[objectName] = stored
	return "https://storage.example.com/movimenti/" + objectName, nil
}

func (s *Store) Delete(_ context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete {
		return fmt.Errorf("delete object %s: backing store unavailable", objectName)
	}
	delete(s.objects, objectName)
	return nil
}

// Has reports whether an object is currently stored.
func (s *Store) Has(objectName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectName]
	return ok
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
