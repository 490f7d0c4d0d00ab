package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/logx"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Client is a single live connection bound to an authenticated user.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	user domain.User
	send chan []byte

	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, user domain.User) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		user: user,
		send: make(chan []byte, sendBuffer),
	}
}

// shutdown closes the send channel exactly once. Called by the hub owner
// goroutine when the client leaves its group.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() { close(c.send) })
}

// readPump drains the connection. Inbound messages are not part of the
// contract and are discarded; the pump exists to notice disconnects and
// answer pings.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards queued envelopes to the socket and keeps the
// connection alive with pings. Every write is bounded by writeWait.
func (c *Client) writePump(logger logx.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("realtime write failed",
					logx.Int64("user_id", c.user.ID),
					logx.Err(err),
				)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
