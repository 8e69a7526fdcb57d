package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zubaerSumon/ileap-sub000/internal/events"
	"github.com/zubaerSumon/ileap-sub000/internal/repository"
	"go.uber.org/zap"
)

// ReadStateService marks messages read for a recipient. Both operations
// are idempotent: repeated calls change zero rows and still succeed.
type ReadStateService struct {
	msgs   repository.MessageRepository
	fanout *events.Fanout
	log    *zap.SugaredLogger
}

func NewReadStateService(msgs repository.MessageRepository, fanout *events.Fanout, log *zap.SugaredLogger) *ReadStateService {
	return &ReadStateService{msgs: msgs, fanout: fanout, log: log}
}

// MarkDirectRead flips every unread message counterpart->current to read
// and reports the number of rows updated. When anything changed, the
// counterpart is told their messages were seen.
func (s *ReadStateService) MarkDirectRead(ctx context.Context, currentID, counterpartID string) (int64, error) {
	n, err := s.msgs.MarkDirectRead(ctx, counterpartID, currentID)
	if err != nil {
		return 0, fmt.Errorf("mark direct read: %w", err)
	}
	if n > 0 {
		s.fanout.PublishRead(counterpartID, events.ReadNotice{
			ReaderID:      currentID,
			CounterpartID: counterpartID,
			Count:         n,
		})
	}
	return n, nil
}

// MarkGroupRead records a read receipt for currentID on every group
// message that lacks one. Membership is the caller's concern; history
// reads check it before invoking this.
func (s *ReadStateService) MarkGroupRead(ctx context.Context, currentID, groupID string) (int64, error) {
	n, err := s.msgs.MarkGroupRead(ctx, groupID, currentID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mark group read: %w", err)
	}
	return n, nil
}
