// Package observe is the in-process observer set the stores and the feedback
// center publish their state through.
package observe

import (
	"slices"
	"sync"
)

// Set is a set of callbacks keyed by subscription handle. Values are
// published with a version; callbacks receive them in version order and a
// value older than one already delivered is skipped, so the last value a
// callback sees is always the newest one published.
//
// Delivery runs on the publishing goroutine, outside any store lock. While a
// delivery is running, other publishers hand their value to it and return;
// only the newest waiting value is delivered next.
type Set[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)

	stamped   uint64
	delivered uint64
	pending   *versioned[T]
	draining  bool
}

type versioned[T any] struct {
	version uint64
	value   T
}

// Add registers fn and returns a func that removes it. Calling the returned
// func more than once is harmless.
func (s *Set[T]) Add(fn func(T)) func() {
	s.mu.Lock()
	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.fns, id)
		s.mu.Unlock()
	}
}

// Stamp reserves the next version. Call it under the lock that guards the
// published state so versions follow mutation order.
func (s *Set[T]) Stamp() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamped++
	return s.stamped
}

// Notify publishes v as the newest value.
func (s *Set[T]) Notify(v T) {
	s.Publish(s.Stamp(), v)
}

// Publish delivers v to every callback in subscription order unless a newer
// version was already delivered or is waiting.
func (s *Set[T]) Publish(version uint64, v T) {
	s.mu.Lock()
	if version <= s.delivered || (s.pending != nil && version <= s.pending.version) {
		s.mu.Unlock()
		return
	}
	s.pending = &versioned[T]{version: version, value: v}
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *Set[T]) drain() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		p := s.pending
		if p == nil {
			s.draining = false
			s.mu.Unlock()
			return
		}
		s.pending = nil
		s.delivered = p.version
		fns := s.orderedLocked()
		s.mu.Unlock()

		for _, fn := range fns {
			fn(p.value)
		}
	}
}

func (s *Set[T]) orderedLocked() []func(T) {
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.fns[id])
	}
	return fns
}

// Len returns the number of registered callbacks.
func (s *Set[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// Clear drops every callback.
func (s *Set[T]) Clear() {
	s.mu.Lock()
	s.fns = nil
	s.mu.Unlock()
}
