package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"teslo/internal/app/chat"
	"teslo/internal/pkg/auth/jwt"
	"teslo/internal/pkg/errs"
	"teslo/internal/pkg/limiter"
	"teslo/internal/pkg/logx"
	"teslo/internal/pkg/randx"
	"teslo/internal/pkg/resp"
)

// HandleWebSocket upgrades the request and hands the connection to the chat gateway.
// Authentication happens after the upgrade so that a rejected client sees an abnormal close.
func HandleWebSocket(gateway *chat.Gateway, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rateLimiter.Allow(r) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", logx.AnonymizeIP(r.RemoteAddr))
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		token := jwt.ExtractToken(r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connectionID := randx.ConnectionID()
		logx.Debug("WebSocket connection accepted", "connection_id", connectionID)

		chat.NewClient(gateway, conn, connectionID).Serve(r.Context(), token)
	}
}
