package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zubaerSumon/ileap-sub000/internal/apperr"
	"github.com/zubaerSumon/ileap-sub000/internal/domain"
	"github.com/zubaerSumon/ileap-sub000/internal/events"
	"github.com/zubaerSumon/ileap-sub000/internal/kafka"
	"github.com/zubaerSumon/ileap-sub000/internal/repository"
	"go.uber.org/zap"
)

// MessageService owns the write path: validate, persist, then fan out.
// Live delivery and kafka publishing are both fire-and-forget; the message
// is durable once the repository insert returns.
type MessageService struct {
	msgs   repository.MessageRepository
	groups repository.GroupRepository
	users  repository.UserRepository
	fanout *events.Fanout
	kp     *kafka.Producer
	log    *zap.SugaredLogger
}

func NewMessageService(
	msgs repository.MessageRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	fanout *events.Fanout,
	kp *kafka.Producer,
	log *zap.SugaredLogger,
) *MessageService {
	return &MessageService{msgs: msgs, groups: groups, users: users, fanout: fanout, kp: kp, log: log}
}

func (s *MessageService) SendDirect(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content is required: %w", apperr.ErrInvalid)
	}
	if receiverID == "" {
		return nil, fmt.Errorf("receiver is required: %w", apperr.ErrInvalid)
	}

	m := &domain.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		IsRead:     false,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.msgs.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	s.attachSender(ctx, m)
	s.fanout.PublishDirect(m)
	s.publishIntegration(ctx, receiverID, m)
	return m, nil
}

func (s *MessageService) SendGroup(ctx context.Context, senderID, groupID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content is required: %w", apperr.ErrInvalid)
	}

	g, err := s.groups.Get(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("group %s: %w", groupID, apperr.ErrNotFound)
		}
		return nil, err
	}
	if !g.HasMember(senderID) {
		return nil, fmt.Errorf("not a group member: %w", apperr.ErrForbidden)
	}

	now := time.Now().UTC()
	m := &domain.Message{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		GroupID:   groupID,
		Content:   content,
		CreatedAt: now,
		// the sender has seen their own message
		ReadBy: []domain.ReadReceipt{{UserID: senderID, ReadAt: now}},
	}
	if err := s.msgs.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	s.attachSender(ctx, m)
	m.GroupName = g.Name
	s.fanout.PublishGroup(g.Members, m)
	s.publishIntegration(ctx, groupID, m)
	return m, nil
}

// attachSender decorates the response with the sender profile. A missing
// profile is not an error; the message stands on its own.
func (s *MessageService) attachSender(ctx context.Context, m *domain.Message) {
	u, err := s.users.Get(ctx, m.SenderID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnw("sender lookup failed", "sender_id", m.SenderID, "err", err)
		}
		return
	}
	m.Sender = u
}

func (s *MessageService) publishIntegration(ctx context.Context, key string, m *domain.Message) {
	if s.kp == nil {
		return
	}
	if err := s.kp.PublishMessageCreated(ctx, key, m); err != nil {
		s.log.Warnw("kafka publish failed", "message_id", m.ID, "err", err)
	}
}
