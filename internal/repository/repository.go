package repository

import (
	"context"
	"errors"
	"time"

	"github.com/zubaerSumon/ileap-sub000/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Cursor is a stable pagination boundary: pages continue strictly before
// (At, ID) under a (created_at desc, _id desc) sort, so concurrent inserts
// cannot skip or duplicate rows.
type Cursor struct {
	At time.Time
	ID string
}

type MessageRepository interface {
	Insert(ctx context.Context, m *domain.Message) error

	// FindDirectPage returns up to limit direct messages between the pair,
	// newest first, strictly before the cursor when one is given.
	FindDirectPage(ctx context.Context, userA, userB string, limit int64, before *Cursor) ([]*domain.Message, error)
	// FindGroupPage is FindDirectPage scoped to one group.
	FindGroupPage(ctx context.Context, groupID string, limit int64, before *Cursor) ([]*domain.Message, error)
	// FindDirectTouching returns every direct message sent or received by
	// userID, newest first.
	FindDirectTouching(ctx context.Context, userID string) ([]*domain.Message, error)
	// LastGroupMessage returns the newest message in the group, or nil when
	// the group has none.
	LastGroupMessage(ctx context.Context, groupID string) (*domain.Message, error)
	// CountGroupUnread counts group messages authored by someone else that
	// carry no read receipt for userID.
	CountGroupUnread(ctx context.Context, groupID, userID string) (int64, error)

	// MarkDirectRead flips is_read on all unread messages sender->receiver
	// and reports how many rows changed. Safe to call repeatedly.
	MarkDirectRead(ctx context.Context, senderID, receiverID string) (int64, error)
	// MarkGroupRead appends a read receipt for userID to every group
	// message lacking one. The filter guards against duplicate receipts.
	MarkGroupRead(ctx context.Context, groupID, userID string, at time.Time) (int64, error)

	DeleteByGroup(ctx context.Context, groupID string) (int64, error)
	DeleteDirectBetween(ctx context.Context, userA, userB string) (int64, error)
}

type GroupRepository interface {
	Insert(ctx context.Context, g *domain.Group) error
	Get(ctx context.Context, id string) (*domain.Group, error)
	// ListForUser returns groups where userID is a member, newest first.
	ListForUser(ctx context.Context, userID string) ([]*domain.Group, error)
	// AddMembers is a single set-union update covering all ids.
	AddMembers(ctx context.Context, groupID string, memberIDs []string) error
	RemoveMember(ctx context.Context, groupID, memberID string) error
	AddAdmin(ctx context.Context, groupID, memberID string) error
	RemoveAdmin(ctx context.Context, groupID, memberID string) error
	Delete(ctx context.Context, groupID string) error
}

// UserRepository reads profile data owned by the auth service.
type UserRepository interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]*domain.User, error)
}
