package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Store keeps a single state value in memory, writes it through to durable
// storage on every mutation, and rehydrates it once at construction time.
// Subscribers are notified of every in-process update.
//
// Rehydration overlays the stored JSON onto the provided defaults, so fields
// added after a value was persisted keep their default instead of zeroing.
type Store[T any] struct {
	kv  KV
	key string

	mu      sync.RWMutex
	state   T
	nextSub int
	subs    map[int]func(T)
}

// New rehydrates the store from kv under key, starting from defaults when
// nothing was persisted yet.
func New[T any](ctx context.Context, kv KV, key string, defaults T) (*Store[T], error) {
	state := defaults
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to rehydrate %s: %w", key, err)
	}
	if found {
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, fmt.Errorf("failed to decode persisted state for %s: %w", key, err)
		}
	}

	return &Store[T]{
		kv:    kv,
		key:   key,
		state: state,
		subs:  make(map[int]func(T)),
	}, nil
}

// Get returns the current in-memory state.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the state, persists it, and notifies subscribers. The new
// state is kept in memory even when the durable write fails.
func (s *Store[T]) Set(ctx context.Context, state T) error {
	s.mu.Lock()
	s.state = state
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, notify := range subs {
		notify(state)
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state for %s: %w", s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to persist %s: %w", s.key, err)
	}
	return nil
}

// Update applies fn to the current state and stores the result.
func (s *Store[T]) Update(ctx context.Context, fn func(T) T) error {
	s.mu.RLock()
	next := fn(s.state)
	s.mu.RUnlock()
	return s.Set(ctx, next)
}

// Clear resets the state to its zero value and removes the durable key.
func (s *Store[T]) Clear(ctx context.Context) error {
	var zero T
	s.mu.Lock()
	s.state = zero
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, notify := range subs {
		notify(zero)
	}

	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.key, err)
	}
	return nil
}

// Subscribe registers fn for subsequent updates and returns an unsubscribe
// function. Callbacks run synchronously on the mutating goroutine.
func (s *Store[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotSubs must be called with mu held.
func (s *Store[T]) snapshotSubs() []func(T) {
	out := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
