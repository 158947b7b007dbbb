/*
Package randx generates the unique identifiers handed out by the server: connection ids
for WebSocket sessions and object names for uploaded files.
*/
package randx

import (
	"strings"

	"github.com/google/uuid"
)

// ConnectionID returns a fresh UUID v4 that identifies one WebSocket session.
func ConnectionID() string {
	return uuid.New().String()
}

// FileName returns a random object name carrying ext, e.g. "<uuid>.jpg".
func FileName(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return uuid.New().String() + ext
}
