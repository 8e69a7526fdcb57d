package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/zubaerSumon/ileap-sub000/internal/auth"
	"github.com/zubaerSumon/ileap-sub000/internal/ws"
	"go.uber.org/zap"
)

func NewServer(h *Handlers, wsrv *ws.Server, jv *auth.JWTValidator, log *zap.SugaredLogger) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(Recovery(log))
	app.Use(RequestLogger(log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/v1", RequireAuth(jv))

	v1.Post("/messages", h.sendMessage)
	v1.Get("/conversations", h.listConversations)
	v1.Get("/conversations/:user_id/messages", h.listMessages)
	v1.Post("/conversations/:user_id/read", h.markAsRead)
	v1.Delete("/conversations/:user_id", h.deleteConversation)

	v1.Post("/groups", h.createGroup)
	v1.Get("/groups", h.listGroups)
	v1.Post("/groups/:group_id/messages", h.sendGroupMessage)
	v1.Get("/groups/:group_id/messages", h.listGroupMessages)
	v1.Post("/groups/:group_id/members", h.addMembers)
	v1.Delete("/groups/:group_id/members/:member_id", h.removeMember)
	v1.Post("/groups/:group_id/admins/:member_id", h.promoteToAdmin)
	v1.Delete("/groups/:group_id/admins/:member_id", h.demoteFromAdmin)
	v1.Delete("/groups/:group_id", h.deleteGroup)

	v1.Get("/users/:user_id/presence", h.userPresence)

	v1.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	v1.Get("/ws", websocket.New(wsrv.HandleWS))

	return app
}
