package chat

import (
	"encoding/json"
	"fmt"
)

// EventName identifies a frame on the socket.
type EventName string

const (
	// EventClientsUpdated carries the presence list after every connect and disconnect.
	EventClientsUpdated EventName = "clients-updated"

	// EventMessageFromClient is the only event clients may send.
	EventMessageFromClient EventName = "message-from-client"

	// EventMessagesFromServer relays a chat message to every connection.
	EventMessagesFromServer EventName = "messages-from-server"
)

// EmptyMessagePlaceholder replaces empty or missing chat text.
const EmptyMessagePlaceholder = "no-message!"

// Envelope wraps every frame exchanged with clients.
type Envelope struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ClientMessage is the data of a message-from-client frame.
type ClientMessage struct {
	Text string `json:"text"`
}

// ServerMessage is the data of a messages-from-server frame.
type ServerMessage struct {
	SenderDisplayName string `json:"senderDisplayName"`
	Text              string `json:"text"`
}

// NormalizeText returns text, or EmptyMessagePlaceholder when text is empty.
// Whitespace-only text is delivered as sent.
func NormalizeText(text string) string {
	if text == "" {
		return EmptyMessagePlaceholder
	}
	return text
}

// encodeFrame marshals data into an envelope for event.
func encodeFrame(event EventName, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s data: %w", event, err)
	}

	return json.Marshal(Envelope{Event: event, Data: raw})
}

// presenceFrame encodes a clients-updated frame for snapshot.
func presenceFrame(snapshot []Connection) ([]byte, error) {
	return encodeFrame(EventClientsUpdated, snapshot)
}

// chatFrame encodes a messages-from-server frame.
func chatFrame(sender, text string) ([]byte, error) {
	return encodeFrame(EventMessagesFromServer, ServerMessage{
		SenderDisplayName: sender,
		Text:              NormalizeText(text),
	})
}

// decodeClientMessage parses the data of a message-from-client frame.
// Missing or null data decodes to an empty message.
func decodeClientMessage(data json.RawMessage) (ClientMessage, error) {
	var msg ClientMessage
	if len(data) == 0 {
		return msg, nil
	}

	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("decode %s data: %w", EventMessageFromClient, err)
	}

	return msg, nil
}
