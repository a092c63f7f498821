package live

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-tracker/internal/domain/shared"
)

type fakeSubscription struct {
	closed bool
}

func (s *fakeSubscription) Close() error {
	s.closed = true
	return nil
}

// fakeStore records every subscription and lets tests push deliveries
type fakeStore struct {
	mu       sync.Mutex
	subs     map[string]*fakeSubscription
	snapshot map[string]func([]string)
	fail     map[string]func(error)
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		subs:     map[string]*fakeSubscription{},
		snapshot: map[string]func([]string){},
		fail:     map[string]func(error){},
	}
}

func (f *fakeStore) Subscribe(_ context.Context, ownerID string, onSnapshot func([]string), onError func(error)) (shared.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := &fakeSubscription{}
	f.subs[ownerID] = sub
	f.snapshot[ownerID] = onSnapshot
	f.fail[ownerID] = onError
	return sub, nil
}

func TestView(t *testing.T) {
	v := NewView[string]()
	assert.True(t, v.Snapshot().Loading)

	v.Replace([]string{"a", "b"})
	snap := v.Snapshot()
	assert.Equal(t, []string{"a", "b"}, snap.Items)
	assert.False(t, snap.Loading)

	t.Run("ErrorKeepsLastList", func(t *testing.T) {
		v.Fail(errors.New("connection lost"))
		snap := v.Snapshot()
		assert.Equal(t, []string{"a", "b"}, snap.Items)
		assert.Equal(t, "connection lost", snap.Error)
	})

	t.Run("ReplaceIsAuthoritative", func(t *testing.T) {
		v.Replace([]string{"c"})
		snap := v.Snapshot()
		assert.Equal(t, []string{"c"}, snap.Items)
		assert.Empty(t, snap.Error)
	})

	t.Run("SnapshotIsACopy", func(t *testing.T) {
		snap := v.Snapshot()
		snap.Items[0] = "mutated"
		assert.Equal(t, []string{"c"}, v.Snapshot().Items)
	})
}

func TestBinding(t *testing.T) {
	t.Run("BindDeliversSnapshots", func(t *testing.T) {
		store := newFakeStore()
		var notified []Snapshot[string]
		b := NewBinding[string](store.Subscribe, func(s Snapshot[string]) { notified = append(notified, s) })

		require.NoError(t, b.Bind(context.Background(), "alice"))
		assert.True(t, b.View().Snapshot().Loading)

		store.snapshot["alice"]([]string{"rent"})
		assert.Equal(t, []string{"rent"}, b.View().Snapshot().Items)
		require.Len(t, notified, 1)
		assert.Equal(t, []string{"rent"}, notified[0].Items)
	})

	t.Run("OwnerChangeReleasesPrevious", func(t *testing.T) {
		store := newFakeStore()
		b := NewBinding[string](store.Subscribe, nil)

		require.NoError(t, b.Bind(context.Background(), "alice"))
		store.snapshot["alice"]([]string{"alice-1"})

		require.NoError(t, b.Bind(context.Background(), "bob"))
		assert.True(t, store.subs["alice"].closed)
		assert.False(t, store.subs["bob"].closed)
		assert.Equal(t, "bob", b.Owner())
		assert.Empty(t, b.View().Snapshot().Items)

		// Late delivery from the released subscription is dropped
		store.snapshot["alice"]([]string{"alice-2"})
		store.fail["alice"](errors.New("stale"))
		snap := b.View().Snapshot()
		assert.Empty(t, snap.Items)
		assert.Empty(t, snap.Error)

		store.snapshot["bob"]([]string{"bob-1"})
		assert.Equal(t, []string{"bob-1"}, b.View().Snapshot().Items)
	})

	t.Run("SameOwnerIsNoop", func(t *testing.T) {
		store := newFakeStore()
		b := NewBinding[string](store.Subscribe, nil)

		require.NoError(t, b.Bind(context.Background(), "alice"))
		first := store.subs["alice"]
		require.NoError(t, b.Bind(context.Background(), "alice"))
		assert.Same(t, first, store.subs["alice"])
		assert.False(t, first.closed)
	})

	t.Run("EmptyOwner", func(t *testing.T) {
		store := newFakeStore()
		b := NewBinding[string](store.Subscribe, nil)

		require.NoError(t, b.Bind(context.Background(), "alice"))
		require.NoError(t, b.Bind(context.Background(), ""))
		assert.True(t, store.subs["alice"].closed)

		snap := b.View().Snapshot()
		assert.Empty(t, snap.Items)
		assert.False(t, snap.Loading)
	})

	t.Run("SubscribeError", func(t *testing.T) {
		store := newFakeStore()
		store.err = errors.New("store offline")
		b := NewBinding[string](store.Subscribe, nil)

		err := b.Bind(context.Background(), "alice")
		assert.ErrorIs(t, err, store.err)
		assert.Equal(t, "store offline", b.View().Snapshot().Error)
	})

	t.Run("CloseReleases", func(t *testing.T) {
		store := newFakeStore()
		b := NewBinding[string](store.Subscribe, nil)

		require.NoError(t, b.Bind(context.Background(), "alice"))
		require.NoError(t, b.Close())
		assert.True(t, store.subs["alice"].closed)
		assert.Empty(t, b.Owner())
		assert.NoError(t, b.Close())
	})
}
