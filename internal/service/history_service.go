package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zubaerSumon/ileap-sub000/internal/apperr"
	"github.com/zubaerSumon/ileap-sub000/internal/domain"
	"github.com/zubaerSumon/ileap-sub000/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is one slice of history, oldest first, with an opaque cursor for
// the page behind it. An empty NextCursor means the history is exhausted.
type Page struct {
	Messages   []*domain.Message `json:"messages"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// HistoryService reads paginated history. Fetching a page also marks it
// read for the caller: direct history flips the counterpart's unread
// flags, group history appends the caller's read receipts.
type HistoryService struct {
	msgs   repository.MessageRepository
	groups repository.GroupRepository
	users  repository.UserRepository
	reads  *ReadStateService
	log    *zap.SugaredLogger
}

func NewHistoryService(
	msgs repository.MessageRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	reads *ReadStateService,
	log *zap.SugaredLogger,
) *HistoryService {
	return &HistoryService{msgs: msgs, groups: groups, users: users, reads: reads, log: log}
}

func clampLimit(limit int64) int64 {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func (s *HistoryService) DirectHistory(ctx context.Context, currentID, counterpartID string, limit int64, cursor string) (*Page, error) {
	limit = clampLimit(limit)
	before, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	rows, err := s.msgs.FindDirectPage(ctx, currentID, counterpartID, limit+1, before)
	if err != nil {
		return nil, fmt.Errorf("direct history: %w", err)
	}
	page := s.buildPage(ctx, rows, limit)

	if _, err := s.reads.MarkDirectRead(ctx, currentID, counterpartID); err != nil {
		s.log.Warnw("read-marking failed", "user_id", currentID, "counterpart_id", counterpartID, "err", err)
	}
	return page, nil
}

func (s *HistoryService) GroupHistory(ctx context.Context, currentID, groupID string, limit int64, cursor string) (*Page, error) {
	limit = clampLimit(limit)
	before, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	g, err := s.groups.Get(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("group %s: %w", groupID, apperr.ErrNotFound)
		}
		return nil, err
	}
	if !g.HasMember(currentID) {
		return nil, fmt.Errorf("not a group member: %w", apperr.ErrForbidden)
	}

	rows, err := s.msgs.FindGroupPage(ctx, groupID, limit+1, before)
	if err != nil {
		return nil, fmt.Errorf("group history: %w", err)
	}
	page := s.buildPage(ctx, rows, limit)

	if _, err := s.reads.MarkGroupRead(ctx, currentID, groupID); err != nil {
		s.log.Warnw("read-marking failed", "user_id", currentID, "group_id", groupID, "err", err)
	}
	return page, nil
}

// buildPage trims the probe row, derives the cursor from the last message
// actually returned, and flips the page to ascending order.
func (s *HistoryService) buildPage(ctx context.Context, rows []*domain.Message, limit int64) *Page {
	page := &Page{Messages: []*domain.Message{}}
	if len(rows) == 0 {
		return page
	}
	if int64(len(rows)) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}

	s.attachSenders(ctx, rows)

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	page.Messages = rows
	return page
}

func (s *HistoryService) attachSenders(ctx context.Context, rows []*domain.Message) {
	ids := make([]string, 0, len(rows))
	seen := map[string]bool{}
	for _, m := range rows {
		if !seen[m.SenderID] {
			seen[m.SenderID] = true
			ids = append(ids, m.SenderID)
		}
	}
	if len(ids) == 0 {
		return
	}
	profiles, err := s.users.GetMany(ctx, ids)
	if err != nil {
		s.log.Warnw("sender lookup failed", "err", err)
		return
	}
	for _, m := range rows {
		m.Sender = profiles[m.SenderID]
	}
}
