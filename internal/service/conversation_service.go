package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/zubaerSumon/ileap-sub000/internal/domain"
	"github.com/zubaerSumon/ileap-sub000/internal/repository"
	"go.uber.org/zap"
)

// ConversationService computes the listing views. Conversations have no
// stored identity: each summary is derived on read from the message
// collection, so there is no cached copy to drift from the source of truth.
type ConversationService struct {
	msgs   repository.MessageRepository
	groups repository.GroupRepository
	users  repository.UserRepository
	log    *zap.SugaredLogger
}

func NewConversationService(
	msgs repository.MessageRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	log *zap.SugaredLogger,
) *ConversationService {
	return &ConversationService{msgs: msgs, groups: groups, users: users, log: log}
}

// Conversations groups every direct message touching currentID by
// counterpart. Messages arrive newest first, so the first message seen per
// counterpart is its last message and the result is already ordered by
// last activity.
func (s *ConversationService) Conversations(ctx context.Context, currentID string) ([]*domain.ConversationSummary, error) {
	all, err := s.msgs.FindDirectTouching(ctx, currentID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	order := []string{}
	byCounterpart := map[string]*domain.ConversationSummary{}
	for _, m := range all {
		cp := m.ReceiverID
		if m.ReceiverID == currentID {
			cp = m.SenderID
		}
		sum, ok := byCounterpart[cp]
		if !ok {
			sum = &domain.ConversationSummary{LastMessage: m}
			byCounterpart[cp] = sum
			order = append(order, cp)
		}
		if m.ReceiverID == currentID && !m.IsRead {
			sum.UnreadCount++
		}
	}

	profiles, err := s.users.GetMany(ctx, order)
	if err != nil {
		s.log.Warnw("counterpart lookup failed", "err", err)
		profiles = map[string]*domain.User{}
	}

	out := make([]*domain.ConversationSummary, 0, len(order))
	for _, cp := range order {
		sum := byCounterpart[cp]
		if u, ok := profiles[cp]; ok {
			sum.Counterpart = u
		} else {
			sum.Counterpart = &domain.User{ID: cp}
		}
		out = append(out, sum)
	}
	return out, nil
}

// DeleteConversation removes every direct message between the caller and
// the counterpart. Group history is only removed through group deletion.
func (s *ConversationService) DeleteConversation(ctx context.Context, currentID, counterpartID string) (int64, error) {
	n, err := s.msgs.DeleteDirectBetween(ctx, currentID, counterpartID)
	if err != nil {
		return 0, fmt.Errorf("delete conversation: %w", err)
	}
	if n > 0 {
		s.log.Infow("conversation deleted", "user_id", currentID, "counterpart_id", counterpartID, "messages_removed", n)
	}
	return n, nil
}

// Groups summarises every group currentID belongs to. Ordering is two
// tier: group creation time first, last message time as the tie breaker.
func (s *ConversationService) Groups(ctx context.Context, currentID string) ([]*domain.GroupSummary, error) {
	gs, err := s.groups.ListForUser(ctx, currentID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	out := make([]*domain.GroupSummary, 0, len(gs))
	for _, g := range gs {
		last, err := s.msgs.LastGroupMessage(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("last message for group %s: %w", g.ID, err)
		}
		unread, err := s.msgs.CountGroupUnread(ctx, g.ID, currentID)
		if err != nil {
			return nil, fmt.Errorf("unread count for group %s: %w", g.ID, err)
		}
		out = append(out, &domain.GroupSummary{Group: g, LastMessage: last, UnreadCount: int(unread)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := out[i].Group, out[j].Group
		if !gi.CreatedAt.Equal(gj.CreatedAt) {
			return gi.CreatedAt.After(gj.CreatedAt)
		}
		var ti, tj int64
		if out[i].LastMessage != nil {
			ti = out[i].LastMessage.CreatedAt.UnixNano()
		}
		if out[j].LastMessage != nil {
			tj = out[j].LastMessage.CreatedAt.UnixNano()
		}
		return ti > tj
	})
	return out, nil
}
