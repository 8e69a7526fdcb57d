package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/zubaerSumon/ileap-sub000/internal/apperr"
	"github.com/zubaerSumon/ileap-sub000/internal/cache"
	"github.com/zubaerSumon/ileap-sub000/internal/service"
	"go.uber.org/zap"
)

type Handlers struct {
	messages      *service.MessageService
	history       *service.HistoryService
	conversations *service.ConversationService
	groups        *service.GroupService
	reads         *service.ReadStateService
	presence      *cache.PresenceStore
	log           *zap.SugaredLogger
}

func NewHandlers(
	messages *service.MessageService,
	history *service.HistoryService,
	conversations *service.ConversationService,
	groups *service.GroupService,
	reads *service.ReadStateService,
	presence *cache.PresenceStore,
	log *zap.SugaredLogger,
) *Handlers {
	return &Handlers{
		messages:      messages,
		history:       history,
		conversations: conversations,
		groups:        groups,
		reads:         reads,
		presence:      presence,
		log:           log,
	}
}

func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	status := apperr.Status(err)
	if status == fiber.StatusInternalServerError {
		h.log.Errorw("request failed", "path", c.OriginalURL(), "err", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *Handlers) sendMessage(c *fiber.Ctx) error {
	var req struct {
		ReceiverID string `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p := principalFrom(c)
	msg, err := h.messages.SendDirect(c.Context(), p.ID, req.ReceiverID, req.Content)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok", "data": msg})
}

func (h *Handlers) listConversations(c *fiber.Ctx) error {
	p := principalFrom(c)
	out, err := h.conversations.Conversations(c.Context(), p.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": out})
}

func (h *Handlers) listMessages(c *fiber.Ctx) error {
	p := principalFrom(c)
	counterpart := c.Params("user_id")
	limit := int64(c.QueryInt("limit", 0))
	page, err := h.history.DirectHistory(c.Context(), p.ID, counterpart, limit, c.Query("cursor"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": page})
}

func (h *Handlers) markAsRead(c *fiber.Ctx) error {
	p := principalFrom(c)
	counterpart := c.Params("user_id")
	n, err := h.reads.MarkDirectRead(c.Context(), p.ID, counterpart)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "updated_count": n})
}

func (h *Handlers) deleteConversation(c *fiber.Ctx) error {
	p := principalFrom(c)
	counterpart := c.Params("user_id")
	n, err := h.conversations.DeleteConversation(c.Context(), p.ID, counterpart)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "deleted_count": n})
}

func (h *Handlers) createGroup(c *fiber.Ctx) error {
	var req struct {
		Name                string   `json:"name"`
		Description         string   `json:"description"`
		MemberIDs           []string `json:"member_ids"`
		IsOrganizationGroup bool     `json:"is_organization_group"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	g, err := h.groups.Create(c.Context(), principalFrom(c), req.Name, req.Description, req.MemberIDs, req.IsOrganizationGroup)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok", "data": g})
}

func (h *Handlers) listGroups(c *fiber.Ctx) error {
	p := principalFrom(c)
	out, err := h.conversations.Groups(c.Context(), p.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": out})
}

func (h *Handlers) sendGroupMessage(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p := principalFrom(c)
	msg, err := h.messages.SendGroup(c.Context(), p.ID, c.Params("group_id"), req.Content)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok", "data": msg})
}

func (h *Handlers) listGroupMessages(c *fiber.Ctx) error {
	p := principalFrom(c)
	limit := int64(c.QueryInt("limit", 0))
	page, err := h.history.GroupHistory(c.Context(), p.ID, c.Params("group_id"), limit, c.Query("cursor"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": page})
}

func (h *Handlers) addMembers(c *fiber.Ctx) error {
	var req struct {
		MemberIDs []string `json:"member_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	g, err := h.groups.AddMembers(c.Context(), principalFrom(c), c.Params("group_id"), req.MemberIDs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": g})
}

func (h *Handlers) removeMember(c *fiber.Ctx) error {
	g, err := h.groups.RemoveMember(c.Context(), principalFrom(c), c.Params("group_id"), c.Params("member_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": g})
}

func (h *Handlers) promoteToAdmin(c *fiber.Ctx) error {
	g, err := h.groups.PromoteToAdmin(c.Context(), principalFrom(c), c.Params("group_id"), c.Params("member_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": g})
}

func (h *Handlers) demoteFromAdmin(c *fiber.Ctx) error {
	g, err := h.groups.DemoteFromAdmin(c.Context(), principalFrom(c), c.Params("group_id"), c.Params("member_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": g})
}

func (h *Handlers) deleteGroup(c *fiber.Ctx) error {
	if err := h.groups.Delete(c.Context(), principalFrom(c), c.Params("group_id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) userPresence(c *fiber.Ctx) error {
	online, err := h.presence.IsOnline(c.Context(), c.Params("user_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "online": online})
}
