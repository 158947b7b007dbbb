/*
Package chat contains the real-time presence and chat gateway.

This file defines the Client struct, the WebSocket transport for one connection. It owns the
connection's state machine (Connecting, Authenticating, Registered, Closed), runs the read
and write pumps, and implements Peer for the gateway's fan-out.
*/
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"teslo/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// depth of the per-connection outbound queue.
	sendQueueSize = 256
)

// ConnState is the lifecycle state of one connection.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateAuthenticating
	StateRegistered
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateRegistered:
		return "registered"
	case StateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// allowedTransitions lists every legal move; Closed is terminal.
var allowedTransitions = map[ConnState][]ConnState{
	StateConnecting:     {StateAuthenticating, StateClosed},
	StateAuthenticating: {StateRegistered, StateClosed},
	StateRegistered:     {StateClosed},
}

// Client is one accepted WebSocket connection.
type Client struct {
	// id is the connection id assigned on accept.
	id string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	gateway *Gateway

	// outbound frames waiting for the write pump.
	send chan []byte

	// done is closed exactly once when the connection is torn down.
	done      chan struct{}
	closeOnce sync.Once

	// mu guards state.
	mu    sync.Mutex
	state ConnState

	logger zerolog.Logger
}

// NewClient wraps an accepted connection in the Connecting state.
func NewClient(gateway *Gateway, wsConn *websocket.Conn, connectionID string) *Client {
	return &Client{
		id:      connectionID,
		conn:    wsConn,
		gateway: gateway,
		send:    make(chan []byte, sendQueueSize),
		done:    make(chan struct{}),
		state:   StateConnecting,
		logger: logx.Logger().With().
			Str("component", "Client").
			Str("connection_id", connectionID).
			Logger(),
	}
}

// ID returns the connection id.
func (c *Client) ID() string {
	return c.id
}

// State returns the current lifecycle state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// transition moves the state machine to next, rejecting moves not in allowedTransitions.
func (c *Client) transition(next ConnState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, allowed := range allowedTransitions[c.state] {
		if allowed == next {
			c.logger.Debug().Stringer("from", c.state).Stringer("to", next).Msg("State transition.")
			c.state = next
			return true
		}
	}

	c.logger.Warn().Stringer("from", c.state).Stringer("to", next).Msg("Rejected state transition.")
	return false
}

// Serve authenticates the connection with token and, when accepted, pumps frames until the
// connection ends. It blocks for the life of the connection.
func (c *Client) Serve(ctx context.Context, token string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !c.transition(StateAuthenticating) {
		c.abort()
		return
	}

	if err := c.gateway.OnConnect(ctx, c.id, token, c); err != nil {
		c.transition(StateClosed)
		c.abort()
		return
	}

	c.transition(StateRegistered)

	go c.writePump()

	c.readPump(ctx)

	c.transition(StateClosed)
	c.gateway.OnDisconnect(c.id)
	c.abort()
}

// readPump reads frames until the connection fails or closes.
func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection closed unexpectedly")
			}
			return
		}

		c.processInboundFrame(ctx, frame)
	}
}

// processInboundFrame dispatches one client frame by event name.
func (c *Client) processInboundFrame(ctx context.Context, frame []byte) {
	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		c.logger.Warn().Err(err).Int("frame_bytes", len(frame)).Msg("Client sent invalid JSON")
		return
	}

	switch envelope.Event {
	case EventMessageFromClient:
		_ = c.gateway.OnChatEvent(ctx, c.id, envelope.Data)

	default:
		c.logger.Warn().Str("event", string(envelope.Event)).Msg("Client sent unsupported event")
	}
}

// writePump drains the send queue to the socket and keeps the heartbeat going.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.send:
			if err := c.write(websocket.TextMessage, frame); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing frame")
				c.abort()
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing ping")
				c.abort()
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

// Send queues frame for delivery without blocking.
func (c *Client) Send(frame []byte) error {
	select {
	case <-c.done:
		return ErrPeerClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return ErrPeerQueueFull
	}
}

// Close sends a going-away close frame and tears the connection down. The read pump then
// exits and the disconnect is reported to the gateway.
func (c *Client) Close() error {
	var err error

	c.closeOnce.Do(func() {
		close(c.done)

		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		if werr := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
			c.logger.Debug().Err(werr).Msg("Failed to send close frame")
		}

		err = c.conn.Close()
	})

	return err
}

// abort drops the connection without a close frame.
func (c *Client) abort() {
	c.closeOnce.Do(func() {
		close(c.done)

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error")
		}
	})
}
