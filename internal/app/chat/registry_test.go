package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ----------------------------------------------------------------

// fakeDirectory is a mutable in-memory UserDirectory.
type fakeDirectory struct {
	mu    sync.Mutex
	names map[string]string
}

func newFakeDirectory(names map[string]string) *fakeDirectory {
	return &fakeDirectory{names: names}
}

func (d *fakeDirectory) DisplayNameOf(_ context.Context, userID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	name, ok := d.names[userID]
	if !ok {
		return "", errors.New("user not found")
	}
	return name, nil
}

func (d *fakeDirectory) rename(userID, name string) {
	d.mu.Lock()
	d.names[userID] = name
	d.mu.Unlock()
}

type pair struct {
	conn string
	user string
}

func pairs(snapshot []Connection) []pair {
	out := make([]pair, 0, len(snapshot))
	for _, c := range snapshot {
		out = append(out, pair{conn: c.ConnectionID, user: c.UserID})
	}
	return out
}

// --- tests ------------------------------------------------------------------

func TestRegistry_RegisterReturnsSnapshotInOrder(t *testing.T) {
	r := NewRegistry(newFakeDirectory(nil))

	first := r.Register("A", "u1", newFakePeer())
	assert.Equal(t, []pair{{"A", "u1"}}, pairs(first))

	second := r.Register("B", "u2", newFakePeer())
	assert.Equal(t, []pair{{"A", "u1"}, {"B", "u2"}}, pairs(second))

	r.Register("C", "u3", newFakePeer())
	assert.Equal(t, []pair{{"A", "u1"}, {"B", "u2"}, {"C", "u3"}}, pairs(r.ListActive()))
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_DuplicateRegisterOverwritesInPlace(t *testing.T) {
	r := NewRegistry(newFakeDirectory(nil))

	r.Register("A", "u1", newFakePeer())
	r.Register("B", "u2", newFakePeer())
	r.Register("A", "u9", newFakePeer())

	assert.Equal(t, []pair{{"A", "u9"}, {"B", "u2"}}, pairs(r.ListActive()))
}

func TestRegistry_DeregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(newFakeDirectory(nil))
	r.Register("A", "u1", newFakePeer())
	r.Register("B", "u2", newFakePeer())

	snapshot, removed := r.Deregister("A")
	require.True(t, removed)
	assert.Equal(t, []pair{{"B", "u2"}}, pairs(snapshot))

	snapshot, removed = r.Deregister("A")
	assert.False(t, removed)
	assert.Nil(t, snapshot)
	assert.Equal(t, []pair{{"B", "u2"}}, pairs(r.ListActive()))

	_, removed = r.Deregister("never-registered")
	assert.False(t, removed)
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	r := NewRegistry(newFakeDirectory(nil))
	r.Register("A", "u1", newFakePeer())

	snapshot := r.ListActive()

	r.Register("B", "u2", newFakePeer())
	r.Deregister("A")

	assert.Equal(t, []pair{{"A", "u1"}}, pairs(snapshot))
	assert.Equal(t, []pair{{"B", "u2"}}, pairs(r.ListActive()))
}

func TestRegistry_ResolveDisplayName(t *testing.T) {
	dir := newFakeDirectory(map[string]string{"u1": "Alice"})
	r := NewRegistry(dir)
	r.Register("A", "u1", newFakePeer())
	r.Register("B", "ghost", newFakePeer())

	ctx := context.Background()
	assert.Equal(t, "Alice", r.ResolveDisplayName(ctx, "A"))

	dir.rename("u1", "Alicia")
	assert.Equal(t, "Alicia", r.ResolveDisplayName(ctx, "A"), "names are resolved live, not cached")

	assert.Equal(t, UnknownSender, r.ResolveDisplayName(ctx, "B"), "directory failure")
	assert.Equal(t, UnknownSender, r.ResolveDisplayName(ctx, "Z"), "unregistered connection")
}

func TestRegistry_SequenceMatchesSetModel(t *testing.T) {
	r := NewRegistry(newFakeDirectory(nil))
	model := map[string]string{}

	ops := []struct {
		connect bool
		id      string
	}{
		{true, "a"}, {true, "b"}, {false, "a"}, {true, "c"}, {false, "x"},
		{true, "d"}, {false, "c"}, {false, "c"}, {true, "e"}, {false, "b"},
	}

	for i, op := range ops {
		if op.connect {
			user := fmt.Sprintf("user-%d", i)
			r.Register(op.id, user, newFakePeer())
			model[op.id] = user
		} else {
			r.Deregister(op.id)
			delete(model, op.id)
		}
	}

	got := map[string]string{}
	for _, c := range r.ListActive() {
		got[c.ConnectionID] = c.UserID
	}
	assert.Equal(t, model, got)
}

func TestRegistry_ConcurrentRegisterAndDeregister(t *testing.T) {
	r := NewRegistry(newFakeDirectory(nil))

	const n = 200
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("conn-%d", i)
			r.Register(id, fmt.Sprintf("user-%d", i), newFakePeer())
			if i%2 == 0 {
				r.Deregister(id)
			}
			_ = r.ListActive()
		}(i)
	}
	wg.Wait()

	snapshot := r.ListActive()
	require.Len(t, snapshot, n/2)

	seen := map[string]bool{}
	for _, c := range snapshot {
		assert.False(t, seen[c.ConnectionID], "duplicate %s", c.ConnectionID)
		seen[c.ConnectionID] = true
	}
}
