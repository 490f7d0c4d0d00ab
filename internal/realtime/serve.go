package realtime

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/logx"
)

// Identity resolves a raw bearer credential into an authenticated user.
type Identity interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler returns the websocket endpoint. The credential arrives as a
// `token` query parameter and is verified before the upgrade; failures get
// an empty 401 so token validity is not leaked to unauthenticated actors.
func Handler(hub *Hub, identity Identity, logger logx.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		user, err := identity.Resolve(r.Context(), token)
		if err != nil || user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied to the client
			logger.Debug("websocket upgrade failed", logx.Err(err))
			return
		}

		c := newClient(hub, conn, *user)
		select {
		case hub.register <- c:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go c.writePump(logger)
		go c.readPump()
	}
}
