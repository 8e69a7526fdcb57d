package ws

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"github.com/zubaerSumon/ileap-sub000/internal/cache"
	"github.com/zubaerSumon/ileap-sub000/internal/events"
	"go.uber.org/zap"
)

// Server upgrades authenticated clients onto their event channel.
type Server struct {
	bus      events.Bus
	presence *cache.PresenceStore
	log      *zap.SugaredLogger
}

func NewServer(bus events.Bus, presence *cache.PresenceStore, log *zap.SugaredLogger) *Server {
	return &Server{bus: bus, presence: presence, log: log}
}

// HandleWS is the websocket.Handler used with websocket.New(). Locals set
// by the JWT middleware survive the upgrade.
func (s *Server) HandleWS(wsConn *websocket.Conn) {
	userID, _ := wsConn.Locals("user_id").(string)
	if userID == "" {
		_ = wsConn.Close()
		return
	}

	evs, cancel := s.bus.Subscribe(userID)
	if err := s.presence.SetOnline(context.Background(), userID); err != nil {
		s.log.Warnw("presence set failed", "user_id", userID, "err", err)
	}
	s.log.Infow("subscriber attached", "user_id", userID)

	conn := &Connection{
		ws:     wsConn,
		userID: userID,
		evs:    evs,
		cancel: cancel,
		log:    s.log,
	}

	go conn.WritePump()
	conn.ReadPump()

	if err := s.presence.SetOffline(context.Background(), userID); err != nil {
		s.log.Warnw("presence clear failed", "user_id", userID, "err", err)
	}
	s.log.Infow("subscriber detached", "user_id", userID)
}
