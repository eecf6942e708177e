package optimistic

import (
	"context"
	"errors"
	"sync"
)

// State is the lifecycle position of a staged change.
type State string

const (
	StatePending   State = "pending"
	StateCommitted State = "committed"
	StateReverted  State = "reverted"
)

var (
	// ErrInvalidTransition indicates a change left its pending state already.
	ErrInvalidTransition = errors.New("optimistic: invalid state transition")
	// ErrUnknownItem indicates no item or change exists for the key.
	ErrUnknownItem = errors.New("optimistic: unknown item")
	// ErrAlreadyStaged indicates a change for the key is still pending.
	ErrAlreadyStaged = errors.New("optimistic: change already pending")
)

type changeKind int

const (
	kindRemoval changeKind = iota
	kindAddition
)

type change[T any] struct {
	kind  changeKind
	item  T
	index int
	state State
}

// Tracker keeps the list a user sees together with the state of every change
// applied to it before the remote side confirmed it.
type Tracker[T any] struct {
	mu      sync.Mutex
	keyOf   func(T) string
	items   []T
	changes map[string]*change[T]
}

// NewTracker seeds a tracker with the currently known items.
func NewTracker[T any](items []T, keyOf func(T) string) *Tracker[T] {
	snapshot := make([]T, len(items))
	copy(snapshot, items)
	return &Tracker[T]{
		keyOf:   keyOf,
		items:   snapshot,
		changes: make(map[string]*change[T]),
	}
}

// Remove hides an item immediately and stages the removal.
func (t *Tracker[T]) Remove(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.changes[key]; ok && existing.state == StatePending {
		return ErrAlreadyStaged
	}

	index := t.indexOf(key)
	if index < 0 {
		return ErrUnknownItem
	}

	item := t.items[index]
	t.items = append(t.items[:index], t.items[index+1:]...)
	t.changes[key] = &change[T]{kind: kindRemoval, item: item, index: index, state: StatePending}
	return nil
}

// Add shows a new item immediately and stages the addition.
func (t *Tracker[T]) Add(item T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := t.keyOf(item)
	if existing, ok := t.changes[key]; ok && existing.state == StatePending {
		return ErrAlreadyStaged
	}

	t.items = append(t.items, item)
	t.changes[key] = &change[T]{kind: kindAddition, item: item, index: len(t.items) - 1, state: StatePending}
	return nil
}

// Commit marks a pending change as confirmed.
func (t *Tracker[T]) Commit(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.pending(key)
	if err != nil {
		return err
	}
	c.state = StateCommitted
	return nil
}

// Revert undoes a pending change. Removed items return to their original
// position, clamped to the current list length.
func (t *Tracker[T]) Revert(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.pending(key)
	if err != nil {
		return err
	}

	switch c.kind {
	case kindRemoval:
		index := c.index
		if index > len(t.items) {
			index = len(t.items)
		}
		t.items = append(t.items, c.item)
		copy(t.items[index+1:], t.items[index:])
		t.items[index] = c.item
	case kindAddition:
		if index := t.indexOf(key); index >= 0 {
			t.items = append(t.items[:index], t.items[index+1:]...)
		}
	}

	c.state = StateReverted
	return nil
}

// Apply runs the remote operation backing a pending change and settles the
// change from its outcome. The operation's error is returned unchanged.
func (t *Tracker[T]) Apply(ctx context.Context, key string, op func(context.Context) error) (State, error) {
	t.mu.Lock()
	_, err := t.pending(key)
	t.mu.Unlock()
	if err != nil {
		return "", err
	}

	if opErr := op(ctx); opErr != nil {
		if err := t.Revert(key); err != nil {
			return "", err
		}
		return StateReverted, opErr
	}

	if err := t.Commit(key); err != nil {
		return "", err
	}
	return StateCommitted, nil
}

// State reports the state of the change staged for key.
func (t *Tracker[T]) State(key string) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.changes[key]
	if !ok {
		return "", false
	}
	return c.state, true
}

// Visible returns a copy of the list as currently shown.
func (t *Tracker[T]) Visible() []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]T, len(t.items))
	copy(out, t.items)
	return out
}

func (t *Tracker[T]) pending(key string) (*change[T], error) {
	c, ok := t.changes[key]
	if !ok {
		return nil, ErrUnknownItem
	}
	if c.state != StatePending {
		return nil, ErrInvalidTransition
	}
	return c, nil
}

func (t *Tracker[T]) indexOf(key string) int {
	for i, item := range t.items {
		if t.keyOf(item) == key {
			return i
		}
	}
	return -1
}
