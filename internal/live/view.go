// Package live keeps the last complete snapshot of an owner's store
// subscription and rebinds it when the owner changes.
package live

import (
	"sync"
)

// Snapshot is a point-in-time copy of a View
type Snapshot[T any] struct {
	Items   []T    `json:"items"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// View holds the latest list delivered by a subscription. Every delivery
// replaces the list entirely; an error keeps the last known list.
type View[T any] struct {
	mu      sync.RWMutex
	gen     uint64
	items   []T
	loading bool
	err     string
}

func NewView[T any]() *View[T] {
	return &View[T]{loading: true}
}

// Replace installs a complete list and clears any error
func (v *View[T]) Replace(items []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.replace(items)
}

// Fail records a readable error and keeps the current list
func (v *View[T]) Fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fail(err)
}

func (v *View[T]) replace(items []T) {
	v.items = append(make([]T, 0, len(items)), items...)
	v.loading = false
	v.err = ""
}

func (v *View[T]) fail(err error) {
	v.loading = false
	if err != nil {
		v.err = err.Error()
	}
}

// reset empties the view for a new owner and returns the generation whose
// deliveries it accepts from now on.
func (v *View[T]) reset(loading bool) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.items = nil
	v.loading = loading
	v.err = ""
	return v.gen
}

func (v *View[T]) replaceIf(gen uint64, items []T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		return false
	}
	v.replace(items)
	return true
}

func (v *View[T]) failIf(gen uint64, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		return false
	}
	v.fail(err)
	return true
}

// Snapshot returns a copy that is safe to use after further deliveries
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Snapshot[T]{
		Items:   append(make([]T, 0, len(v.items)), v.items...),
		Loading: v.loading,
		Error:   v.err,
	}
}
