/*
Package chat contains the real-time presence and chat gateway.

This file defines the Gateway, which drives a connection through authentication and
registration, and fans presence and chat events out to every registered connection.
Fan-out always works on a registry snapshot copied under the registry lock, so a slow
recipient never holds up connects or disconnects.
*/
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"teslo/internal/pkg/logx"
)

var (
	// ErrAuthenticationFailure is returned by OnConnect for a missing, invalid or
	// expired token, or a verifier that did not answer in time.
	ErrAuthenticationFailure = errors.New("authentication failure")

	// ErrPeerClosed is a delivery failure to a connection that is already closed.
	ErrPeerClosed = errors.New("peer closed")

	// ErrPeerQueueFull is a delivery failure to a connection whose send queue is full.
	ErrPeerQueueFull = errors.New("peer send queue full")
)

// TokenVerifier validates a signed token and returns its subject user id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Gateway orchestrates connection lifecycle and broadcasting.
type Gateway struct {
	registry *Registry
	verifier TokenVerifier

	// timeout bounds each call to the verifier and the user directory.
	timeout time.Duration

	logger zerolog.Logger
}

// NewGateway returns a Gateway over registry. timeout bounds token verification and
// display-name lookups.
func NewGateway(registry *Registry, verifier TokenVerifier, timeout time.Duration) *Gateway {
	return &Gateway{
		registry: registry,
		verifier: verifier,
		timeout:  timeout,
		logger:   logx.Component("Gateway"),
	}
}

// Registry returns the gateway's connection registry.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// OnConnect authenticates token and, on success, registers connectionID and broadcasts the
// presence list to every registered connection including the new one.
// On failure nothing is registered or broadcast and an error wrapping
// ErrAuthenticationFailure is returned; the caller must drop the connection.
func (g *Gateway) OnConnect(ctx context.Context, connectionID, token string, peer Peer) error {
	if token == "" {
		g.logger.Info().Str("connection_id", connectionID).Msg("Connection rejected: missing token.")
		return fmt.Errorf("%w: missing token", ErrAuthenticationFailure)
	}

	userID, err := g.verify(ctx, token)
	if err != nil {
		g.logger.Info().Err(err).Str("connection_id", connectionID).Msg("Connection rejected: token verification failed.")
		return fmt.Errorf("%w: %v", ErrAuthenticationFailure, err)
	}

	snapshot := g.registry.Register(connectionID, userID, peer)

	g.logger.Info().
		Str("connection_id", connectionID).
		Str("user_id", userID).
		Int("total_connections", len(snapshot)).
		Msg("Connection registered.")

	g.broadcastPresence(snapshot)

	return nil
}

// verify runs the verifier under the gateway timeout. A verifier that ignores its context
// is abandoned when the timeout fires.
func (g *Gateway) verify(ctx context.Context, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		userID string
		err    error
	}

	done := make(chan result, 1)
	go func() {
		userID, err := g.verifier.Verify(ctx, token)
		done <- result{userID: userID, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil && res.userID == "" {
			return "", errors.New("verifier returned an empty user id")
		}
		return res.userID, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("verifier timed out: %w", ctx.Err())
	}
}

// OnDisconnect deregisters connectionID and broadcasts the presence list to the remaining
// connections. Repeated calls, or calls for connections that never registered, do nothing.
func (g *Gateway) OnDisconnect(connectionID string) {
	snapshot, removed := g.registry.Deregister(connectionID)
	if !removed {
		g.logger.Debug().Str("connection_id", connectionID).Msg("Disconnect for unregistered connection ignored.")
		return
	}

	g.logger.Info().
		Str("connection_id", connectionID).
		Int("total_connections", len(snapshot)).
		Msg("Connection deregistered.")

	g.broadcastPresence(snapshot)
}

// OnChatEvent relays a message-from-client payload to every registered connection,
// the sender included, tagged with the sender's current display name.
// A malformed payload is rejected; an unresolvable sender is relayed as UnknownSender.
func (g *Gateway) OnChatEvent(ctx context.Context, connectionID string, payload json.RawMessage) error {
	msg, err := decodeClientMessage(payload)
	if err != nil {
		g.logger.Warn().Err(err).Str("connection_id", connectionID).Msg("Chat event dropped: invalid payload.")
		return err
	}

	lookupCtx, cancel := context.WithTimeout(ctx, g.timeout)
	sender := g.registry.ResolveDisplayName(lookupCtx, connectionID)
	cancel()

	frame, err := chatFrame(sender, msg.Text)
	if err != nil {
		g.logger.Error().Err(err).Str("connection_id", connectionID).Msg("Failed to build chat frame.")
		return err
	}

	g.fanOut(EventMessagesFromServer, frame, g.registry.ListActive())

	return nil
}

// Shutdown closes every registered connection. Each close flows back through OnDisconnect.
func (g *Gateway) Shutdown() {
	snapshot := g.registry.ListActive()

	g.logger.Info().Int("connections", len(snapshot)).Msg("Closing all connections.")

	for _, c := range snapshot {
		if err := c.peer.Close(); err != nil {
			g.logger.Debug().Err(err).Str("connection_id", c.ConnectionID).Msg("Error closing connection during shutdown.")
		}
	}
}

// broadcastPresence sends snapshot to every connection in it.
func (g *Gateway) broadcastPresence(snapshot []Connection) {
	frame, err := presenceFrame(snapshot)
	if err != nil {
		g.logger.Error().Err(err).Msg("Failed to build presence frame.")
		return
	}

	g.fanOut(EventClientsUpdated, frame, snapshot)
}

// fanOut delivers frame to each recipient. Failures are logged and skipped; the registry
// is left untouched because the connection's own read loop reports its disconnect.
func (g *Gateway) fanOut(event EventName, frame []byte, recipients []Connection) int {
	delivered := 0

	for _, c := range recipients {
		if err := c.peer.Send(frame); err != nil {
			g.logger.Warn().Err(err).
				Str("event", string(event)).
				Str("connection_id", c.ConnectionID).
				Msg("Delivery failed, skipping recipient.")
			continue
		}
		delivered++
	}

	g.logger.Debug().
		Str("event", string(event)).
		Int("recipients", len(recipients)).
		Int("delivered", delivered).
		Msg("Broadcast complete.")

	return delivered
}
