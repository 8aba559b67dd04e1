package sequence

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory MaxSource with a uniqueness-enforcing
// persist, mirroring the database contract. Used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	numbers map[string]struct{}
}

// NewMemoryStore creates an empty store, optionally pre-seeded.
func NewMemoryStore(seed ...string) *MemoryStore {
	s := &MemoryStore{numbers: make(map[string]struct{}, len(seed))}
	for _, n := range seed {
		s.numbers[n] = struct{}{}
	}
	return s
}

// CurrentMax implements MaxSource by scanning stored numbers.
func (s *MemoryStore) CurrentMax(_ context.Context, class Class) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max int64
	for number := range s.numbers {
		if n, ok := class.Parse(number); ok && n > max {
			max = n
		}
	}
	return max, nil
}

// Persist stores the number, returning DuplicateError on collision.
func (s *MemoryStore) Persist(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.numbers[number]; exists {
		return &DuplicateError{Number: number}
	}
	s.numbers[number] = struct{}{}
	return nil
}

// Remove deletes a number from the store (simulates row deletion).
func (s *MemoryStore) Remove(number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.numbers, number)
}

// Len returns the count of stored numbers.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.numbers)
}
