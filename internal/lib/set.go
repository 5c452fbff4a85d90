package lib

import (
	"cmp"
	"slices"
	"sync"
)

// Set is thread-safe and can be passed by value.
type Set[T cmp.Ordered] struct {
	data map[T]struct{}
	mu   *sync.RWMutex
}

func NewSet[T cmp.Ordered](elems ...T) Set[T] {
	s := Set[T]{
		data: make(map[T]struct{}, len(elems)),
		mu:   &sync.RWMutex{},
	}
	for _, e := range elems {
		s.data[e] = struct{}{}
	}
	return s
}

// Add returns false if elem was already present.
func (s Set[T]) Add(elem T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[elem]; exists {
		return false
	}
	s.data[elem] = struct{}{}
	return true
}

func (s Set[T]) Remove(elem T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, elem)
}

func (s Set[T]) Contains(elem T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.data[elem]
	return exists
}

func (s Set[T]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Sorted returns the elements in ascending order.
func (s Set[T]) Sorted() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elements := make([]T, 0, len(s.data))
	for elem := range s.data {
		elements = append(elements, elem)
	}
	slices.Sort(elements)

	return elements
}
