/*
Package chat contains the real-time presence and chat gateway.

This file defines the Registry, the single source of truth for which connections are
live and which user each one authenticated as. All mutations and snapshots are serialized
by one lock; snapshots are copies, so callers can fan out without holding it.
*/
package chat

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"teslo/internal/pkg/logx"
)

// UnknownSender is the display name used when a connection or its user cannot be resolved.
const UnknownSender = "unknown"

// UserDirectory resolves a user id to the name shown to other participants.
type UserDirectory interface {
	DisplayNameOf(ctx context.Context, userID string) (string, error)
}

// Peer is the outbound half of a live connection.
// Send must not block; it reports a delivery failure instead.
type Peer interface {
	Send(frame []byte) error
	Close() error
}

// Connection is one entry of a presence snapshot.
type Connection struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`

	peer Peer
	seq  uint64
}

// Registry maps connection ids to authenticated users.
type Registry struct {
	// mu serializes Register, Deregister and snapshots against each other.
	mu sync.RWMutex

	// entries is keyed by connection id.
	entries map[string]Connection

	// next orders entries by registration time.
	next uint64

	directory UserDirectory

	logger zerolog.Logger
}

// NewRegistry returns an empty Registry resolving names through directory.
func NewRegistry(directory UserDirectory) *Registry {
	return &Registry{
		entries:   make(map[string]Connection),
		directory: directory,
		logger:    logx.Component("Registry"),
	}
}

// Register records connectionID as authenticated for userID, overwriting any previous entry
// for the same id, and returns the presence snapshot taken under the same lock.
func (r *Registry) Register(connectionID, userID string, peer Peer) []Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := r.next
	if existing, ok := r.entries[connectionID]; ok {
		seq = existing.seq
		r.logger.Warn().
			Str("connection_id", connectionID).
			Str("previous_user_id", existing.UserID).
			Str("user_id", userID).
			Msg("Connection registered twice, overwriting entry.")
	} else {
		r.next++
	}

	r.entries[connectionID] = Connection{
		ConnectionID: connectionID,
		UserID:       userID,
		peer:         peer,
		seq:          seq,
	}

	return r.snapshotLocked()
}

// Deregister removes connectionID. Removing an absent id is a no-op.
// It returns the snapshot after removal and whether an entry was removed.
func (r *Registry) Deregister(connectionID string) ([]Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[connectionID]; !ok {
		return nil, false
	}

	delete(r.entries, connectionID)

	return r.snapshotLocked(), true
}

// ListActive returns a copy of every registered connection in registration order.
func (r *Registry) ListActive() []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshotLocked()
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// UserOf returns the user registered for connectionID.
func (r *Registry) UserOf(connectionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[connectionID]
	return entry.UserID, ok
}

// ResolveDisplayName returns the display name of connectionID's user, or UnknownSender when
// the connection is not registered or the directory lookup fails.
// The directory is queried outside the lock.
func (r *Registry) ResolveDisplayName(ctx context.Context, connectionID string) string {
	userID, ok := r.UserOf(connectionID)
	if !ok {
		r.logger.Debug().Str("connection_id", connectionID).Msg("Display name requested for unregistered connection.")
		return UnknownSender
	}

	name, err := r.directory.DisplayNameOf(ctx, userID)
	if err != nil || name == "" {
		r.logger.Warn().Err(err).
			Str("connection_id", connectionID).
			Str("user_id", userID).
			Msg("Display name lookup failed, using sentinel.")
		return UnknownSender
	}

	return name
}

// snapshotLocked copies the entries in registration order. Caller holds mu.
func (r *Registry) snapshotLocked() []Connection {
	snapshot := make([]Connection, 0, len(r.entries))
	for _, entry := range r.entries {
		snapshot = append(snapshot, entry)
	}

	slices.SortFunc(snapshot, func(a, b Connection) int {
		return cmp.Compare(a.seq, b.seq)
	})

	return snapshot
}
