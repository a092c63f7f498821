package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/spendwise-tracker/internal/domain/shared"
)

// SubscribeFunc matches the Subscribe method of the store repositories
type SubscribeFunc[T any] func(ctx context.Context, ownerID string, onSnapshot func([]T), onError func(error)) (shared.Subscription, error)

// Binding holds at most one store subscription, for the current owner.
// Changing owner or closing releases the previous subscription, and late
// deliveries from it are dropped.
type Binding[T any] struct {
	subscribe SubscribeFunc[T]
	notify    func(Snapshot[T])
	view      *View[T]

	mu    sync.Mutex
	owner string
	sub   shared.Subscription
}

// NewBinding creates an unbound binding. notify, when set, receives a
// snapshot after every accepted delivery.
func NewBinding[T any](subscribe SubscribeFunc[T], notify func(Snapshot[T])) *Binding[T] {
	return &Binding[T]{
		subscribe: subscribe,
		notify:    notify,
		view:      NewView[T](),
	}
}

func (b *Binding[T]) View() *View[T] {
	return b.view
}

// Owner returns the owner currently bound, empty when none
func (b *Binding[T]) Owner() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner
}

// Bind switches the binding to ownerID. Binding the current owner again is
// a no-op. An empty owner leaves the view empty and not loading.
func (b *Binding[T]) Bind(ctx context.Context, ownerID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sub != nil && b.owner == ownerID {
		return nil
	}

	gen := b.view.reset(ownerID != "")
	releaseErr := b.release()
	b.owner = ownerID

	if ownerID == "" {
		b.emit()
		return releaseErr
	}

	sub, err := b.subscribe(ctx, ownerID,
		func(items []T) {
			if b.view.replaceIf(gen, items) {
				b.emit()
			}
		},
		func(err error) {
			if b.view.failIf(gen, err) {
				b.emit()
			}
		},
	)
	if err != nil {
		b.view.failIf(gen, err)
		b.emit()
		return fmt.Errorf("failed to subscribe for owner %s: %w", ownerID, err)
	}
	b.sub = sub
	return releaseErr
}

// Close releases the current subscription
func (b *Binding[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.reset(false)
	b.owner = ""
	return b.release()
}

func (b *Binding[T]) release() error {
	if b.sub == nil {
		return nil
	}
	err := b.sub.Close()
	b.sub = nil
	if err != nil {
		return fmt.Errorf("failed to release subscription: %w", err)
	}
	return nil
}

func (b *Binding[T]) emit() {
	if b.notify != nil {
		b.notify(b.view.Snapshot())
	}
}
