package store

import "sync"

// Notifier implements the subscribe-for-changes primitive shared by the
// adapters: every publish pushes one user's full collection to that user's
// subscribers, in-process and synchronously.
type Notifier[T any] struct {
	mu   sync.Mutex
	subs map[string]map[int]func([]T)
	next int
}

// NewNotifier builds an empty notifier.
func NewNotifier[T any]() *Notifier[T] {
	return &Notifier[T]{subs: make(map[string]map[int]func([]T))}
}

// Subscribe registers fn for the user's changes and returns a cancel func.
func (n *Notifier[T]) Subscribe(userID string, fn func([]T)) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[int]func([]T))
	}
	id := n.next
	n.next++
	n.subs[userID][id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[userID], id)
	}
}

// Publish pushes the full collection to every subscriber of the user.
func (n *Notifier[T]) Publish(userID string, items []T) {
	n.mu.Lock()
	fns := make([]func([]T), 0, len(n.subs[userID]))
	for _, fn := range n.subs[userID] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(items)
	}
}
