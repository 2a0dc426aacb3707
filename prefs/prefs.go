// Package prefs holds visitor preferences. The theme is kept in a durable
// key-value store and every change is pushed to the visitor's subscribers,
// which is how an open tab learns that another tab switched the theme.
package prefs

import (
	"context"
	"fmt"
	"sync"
)

// Theme is the colour scheme of the site.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ParseTheme accepts only "light" and "dark".
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return "", false
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// KV is a durable key-value store partitioned by visitor.
type KV interface {
	Get(ctx context.Context, visitor, key string) (string, bool, error)
	Set(ctx context.Context, visitor, key, value string) error
}

const themeKey = "theme"

// Store reads and writes theme preferences and notifies subscribers.
type Store struct {
	kv KV

	mu   sync.Mutex
	subs map[string]map[int]chan Theme
	next int
}

// NewStore returns a Store backed by kv.
func NewStore(kv KV) *Store {
	return &Store{
		kv:   kv,
		subs: make(map[string]map[int]chan Theme),
	}
}

// Theme returns the visitor's stored theme, or fallback when none is stored
// or the stored value is not a valid theme.
func (s *Store) Theme(ctx context.Context, visitor string, fallback Theme) (Theme, error) {
	t, ok, err := s.Stored(ctx, visitor)
	if err != nil || !ok {
		return fallback, err
	}
	return t, nil
}

// Stored returns the visitor's theme and whether a valid one is stored.
func (s *Store) Stored(ctx context.Context, visitor string) (Theme, bool, error) {
	v, ok, err := s.kv.Get(ctx, visitor, themeKey)
	if err != nil {
		return "", false, fmt.Errorf("read theme: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	t, valid := ParseTheme(v)
	return t, valid, nil
}

// SetTheme persists t and notifies every subscriber of the visitor.
func (s *Store) SetTheme(ctx context.Context, visitor string, t Theme) error {
	if _, ok := ParseTheme(string(t)); !ok {
		return fmt.Errorf("invalid theme %q", t)
	}
	if err := s.kv.Set(ctx, visitor, themeKey, string(t)); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	s.notify(visitor, t)
	return nil
}

// Toggle flips the visitor's theme, starting from current when nothing is
// stored yet, and returns the new value.
func (s *Store) Toggle(ctx context.Context, visitor string, current Theme) (Theme, error) {
	t, err := s.Theme(ctx, visitor, current)
	if err != nil {
		return current, err
	}
	next := t.Toggle()
	if err := s.SetTheme(ctx, visitor, next); err != nil {
		return t, err
	}
	return next, nil
}

// Subscribe returns a channel of theme changes for visitor and a function
// that ends the subscription. Only the latest unread change is kept.
func (s *Store) Subscribe(visitor string) (<-chan Theme, func()) {
	ch := make(chan Theme, 1)

	s.mu.Lock()
	id := s.next
	s.next++
	if s.subs[visitor] == nil {
		s.subs[visitor] = make(map[int]chan Theme)
	}
	s.subs[visitor][id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[visitor], id)
			if len(s.subs[visitor]) == 0 {
				delete(s.subs, visitor)
			}
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// Subscribers reports how many subscriptions the visitor has open.
func (s *Store) Subscribers(visitor string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[visitor])
}

func (s *Store) notify(visitor string, t Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs[visitor] {
		// Replace a stale unread value with the newest one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- t:
		default:
		}
	}
}
