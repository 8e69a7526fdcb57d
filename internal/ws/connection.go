package ws

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/zubaerSumon/ileap-sub000/internal/events"
	"go.uber.org/zap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	writeWait  = 10 * time.Second
)

// Connection bridges one websocket to the user's bus subscription.
type Connection struct {
	ws     *websocket.Conn
	userID string
	evs    <-chan events.Event
	cancel func()
	log    *zap.SugaredLogger
}

// ReadPump discards client frames; the socket is a one-way event stream.
// It exists to service pongs and to notice the peer going away.
func (c *Connection) ReadPump() {
	defer func() {
		c.cancel()
		_ = c.ws.Close()
	}()

	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump forwards bus events to the socket until the subscription is
// cancelled or a write fails.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case ev, ok := <-c.evs:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(ev); err != nil {
				c.log.Debugw("ws write failed", "user_id", c.userID, "err", err)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
