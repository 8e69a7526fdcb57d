package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zubaerSumon/ileap-sub000/internal/domain"
)

// In-memory implementations with the same semantics as the mongo
// repositories. Used by tests and by local development without a database.

type MemoryMessageRepository struct {
	mu   sync.RWMutex
	msgs []*domain.Message
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{}
}

func (r *MemoryMessageRepository) Insert(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.msgs {
		if existing.ID == m.ID {
			return nil
		}
	}
	cp := *m
	if m.ReadBy != nil {
		cp.ReadBy = append([]domain.ReadReceipt(nil), m.ReadBy...)
	}
	r.msgs = append(r.msgs, &cp)
	return nil
}

func sortDesc(msgs []*domain.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
		}
		return msgs[i].ID > msgs[j].ID
	})
}

func beforeCursor(m *domain.Message, c *Cursor) bool {
	if c == nil {
		return true
	}
	if m.CreatedAt.Before(c.At) {
		return true
	}
	return m.CreatedAt.Equal(c.At) && m.ID < c.ID
}

func matchesPair(m *domain.Message, userA, userB string) bool {
	if m.IsGroup() {
		return false
	}
	return (m.SenderID == userA && m.ReceiverID == userB) ||
		(m.SenderID == userB && m.ReceiverID == userA)
}

func (r *MemoryMessageRepository) page(match func(*domain.Message) bool, limit int64, before *Cursor) []*domain.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Message{}
	for _, m := range r.msgs {
		if match(m) && beforeCursor(m, before) {
			cp := *m
			cp.ReadBy = append([]domain.ReadReceipt(nil), m.ReadBy...)
			out = append(out, &cp)
		}
	}
	sortDesc(out)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func (r *MemoryMessageRepository) FindDirectPage(_ context.Context, userA, userB string, limit int64, before *Cursor) ([]*domain.Message, error) {
	return r.page(func(m *domain.Message) bool { return matchesPair(m, userA, userB) }, limit, before), nil
}

func (r *MemoryMessageRepository) FindGroupPage(_ context.Context, groupID string, limit int64, before *Cursor) ([]*domain.Message, error) {
	return r.page(func(m *domain.Message) bool { return m.GroupID == groupID }, limit, before), nil
}

func (r *MemoryMessageRepository) FindDirectTouching(_ context.Context, userID string) ([]*domain.Message, error) {
	return r.page(func(m *domain.Message) bool {
		return !m.IsGroup() && (m.SenderID == userID || m.ReceiverID == userID)
	}, 0, nil), nil
}

func (r *MemoryMessageRepository) LastGroupMessage(_ context.Context, groupID string) (*domain.Message, error) {
	out := r.page(func(m *domain.Message) bool { return m.GroupID == groupID }, 1, nil)
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *MemoryMessageRepository) CountGroupUnread(_ context.Context, groupID, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, m := range r.msgs {
		if m.GroupID == groupID && m.SenderID != userID && !m.ReadByUser(userID) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryMessageRepository) MarkDirectRead(_ context.Context, senderID, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, m := range r.msgs {
		if !m.IsGroup() && m.SenderID == senderID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *MemoryMessageRepository) MarkGroupRead(_ context.Context, groupID, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, m := range r.msgs {
		if m.GroupID == groupID && !m.ReadByUser(userID) {
			m.ReadBy = append(m.ReadBy, domain.ReadReceipt{UserID: userID, ReadAt: at})
			n++
		}
	}
	return n, nil
}

func (r *MemoryMessageRepository) DeleteByGroup(_ context.Context, groupID string) (int64, error) {
	return r.deleteWhere(func(m *domain.Message) bool { return m.GroupID == groupID })
}

func (r *MemoryMessageRepository) DeleteDirectBetween(_ context.Context, userA, userB string) (int64, error) {
	return r.deleteWhere(func(m *domain.Message) bool { return matchesPair(m, userA, userB) })
}

func (r *MemoryMessageRepository) deleteWhere(match func(*domain.Message) bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.msgs[:0]
	var n int64
	for _, m := range r.msgs {
		if match(m) {
			n++
			continue
		}
		kept = append(kept, m)
	}
	r.msgs = kept
	return n, nil
}

type MemoryGroupRepository struct {
	mu     sync.RWMutex
	groups map[string]*domain.Group
}

func NewMemoryGroupRepository() *MemoryGroupRepository {
	return &MemoryGroupRepository{groups: make(map[string]*domain.Group)}
}

func (r *MemoryGroupRepository) Insert(_ context.Context, g *domain.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *g
	cp.Members = append([]string(nil), g.Members...)
	cp.Admins = append([]string(nil), g.Admins...)
	r.groups[g.ID] = &cp
	return nil
}

func (r *MemoryGroupRepository) Get(_ context.Context, id string) (*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	cp.Members = append([]string(nil), g.Members...)
	cp.Admins = append([]string(nil), g.Admins...)
	return &cp, nil
}

func (r *MemoryGroupRepository) ListForUser(_ context.Context, userID string) ([]*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Group{}
	for _, g := range r.groups {
		if g.HasMember(userID) {
			cp := *g
			cp.Members = append([]string(nil), g.Members...)
			cp.Admins = append([]string(nil), g.Admins...)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryGroupRepository) AddMembers(_ context.Context, groupID string, memberIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	for _, id := range memberIDs {
		if !g.HasMember(id) {
			g.Members = append(g.Members, id)
		}
	}
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryGroupRepository) RemoveMember(_ context.Context, groupID, memberID string) error {
	return r.pull(groupID, memberID, false)
}

func (r *MemoryGroupRepository) AddAdmin(_ context.Context, groupID, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	if !g.HasAdmin(memberID) {
		g.Admins = append(g.Admins, memberID)
	}
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryGroupRepository) RemoveAdmin(_ context.Context, groupID, memberID string) error {
	return r.pull(groupID, memberID, true)
}

func (r *MemoryGroupRepository) pull(groupID, memberID string, fromAdmins bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	src := g.Members
	if fromAdmins {
		src = g.Admins
	}
	kept := src[:0]
	for _, id := range src {
		if id != memberID {
			kept = append(kept, id)
		}
	}
	if fromAdmins {
		g.Admins = kept
	} else {
		g.Members = kept
	}
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryGroupRepository) Delete(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[groupID]; !ok {
		return ErrNotFound
	}
	delete(r.groups, groupID)
	return nil
}

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *MemoryUserRepository) Put(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *MemoryUserRepository) Get(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) GetMany(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}
