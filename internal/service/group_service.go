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
	"github.com/zubaerSumon/ileap-sub000/internal/repository"
	"go.uber.org/zap"
)

// GroupService is the group lifecycle and membership gate. Every mutation
// loads the group first so permission checks see current members/admins.
type GroupService struct {
	groups repository.GroupRepository
	msgs   repository.MessageRepository
	log    *zap.SugaredLogger
}

func NewGroupService(groups repository.GroupRepository, msgs repository.MessageRepository, log *zap.SugaredLogger) *GroupService {
	return &GroupService{groups: groups, msgs: msgs, log: log}
}

// CanManage grants management to platform admins, mentors and
// organizations, and to per-group admins regardless of platform role.
func CanManage(role domain.Role, g *domain.Group, actorID string) bool {
	return role.CanManageGroups() || g.HasAdmin(actorID)
}

func (s *GroupService) Create(ctx context.Context, actor domain.Principal, name, description string, memberIDs []string, isOrganizationGroup bool) (*domain.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("group name is required: %w", apperr.ErrInvalid)
	}
	if actor.Role == domain.RoleVolunteer {
		return nil, fmt.Errorf("volunteers cannot create groups: %w", apperr.ErrForbidden)
	}
	if isOrganizationGroup && actor.Role != domain.RoleAdmin && actor.Role != domain.RoleMentor {
		return nil, fmt.Errorf("organization groups require admin or mentor: %w", apperr.ErrForbidden)
	}

	// the creator is always a member and the first admin
	members := []string{actor.ID}
	seen := map[string]bool{actor.ID: true}
	for _, id := range memberIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			members = append(members, id)
		}
	}

	now := time.Now().UTC()
	g := &domain.Group{
		ID:                  uuid.NewString(),
		Name:                name,
		Description:         description,
		Members:             members,
		Admins:              []string{actor.ID},
		CreatedBy:           actor.ID,
		IsOrganizationGroup: isOrganizationGroup,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.groups.Insert(ctx, g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	s.log.Infow("group created", "group_id", g.ID, "created_by", actor.ID, "members", len(members))
	return g, nil
}

func (s *GroupService) get(ctx context.Context, groupID string) (*domain.Group, error) {
	g, err := s.groups.Get(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("group %s: %w", groupID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return g, nil
}

func (s *GroupService) authorize(ctx context.Context, actor domain.Principal, groupID string) (*domain.Group, error) {
	g, err := s.get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor.Role, g, actor.ID) {
		return nil, fmt.Errorf("cannot manage group: %w", apperr.ErrForbidden)
	}
	return g, nil
}

// AddMembers adds every id in one set-union update, so a partial failure
// cannot leave only some of the batch applied.
func (s *GroupService) AddMembers(ctx context.Context, actor domain.Principal, groupID string, memberIDs []string) (*domain.Group, error) {
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("no members given: %w", apperr.ErrInvalid)
	}
	if _, err := s.authorize(ctx, actor, groupID); err != nil {
		return nil, err
	}
	if err := s.groups.AddMembers(ctx, groupID, memberIDs); err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}
	return s.get(ctx, groupID)
}

// RemoveMember drops memberID from the member set. An admin entry is left
// untouched; demotion is a separate call.
func (s *GroupService) RemoveMember(ctx context.Context, actor domain.Principal, groupID, memberID string) (*domain.Group, error) {
	if _, err := s.authorize(ctx, actor, groupID); err != nil {
		return nil, err
	}
	if err := s.groups.RemoveMember(ctx, groupID, memberID); err != nil {
		return nil, fmt.Errorf("remove member: %w", err)
	}
	return s.get(ctx, groupID)
}

func (s *GroupService) PromoteToAdmin(ctx context.Context, actor domain.Principal, groupID, memberID string) (*domain.Group, error) {
	g, err := s.authorize(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	if !g.HasMember(memberID) {
		return nil, fmt.Errorf("%s is not a member: %w", memberID, apperr.ErrInvalid)
	}
	if err := s.groups.AddAdmin(ctx, groupID, memberID); err != nil {
		return nil, fmt.Errorf("promote admin: %w", err)
	}
	return s.get(ctx, groupID)
}

// DemoteFromAdmin removes memberID from the admin set. Demoting the last
// admin is permitted; role-privileged users can still manage the group.
func (s *GroupService) DemoteFromAdmin(ctx context.Context, actor domain.Principal, groupID, memberID string) (*domain.Group, error) {
	if _, err := s.authorize(ctx, actor, groupID); err != nil {
		return nil, err
	}
	if err := s.groups.RemoveAdmin(ctx, groupID, memberID); err != nil {
		return nil, fmt.Errorf("demote admin: %w", err)
	}
	return s.get(ctx, groupID)
}

// Delete removes the group's messages first, then the group record.
// Irreversible.
func (s *GroupService) Delete(ctx context.Context, actor domain.Principal, groupID string) error {
	if _, err := s.authorize(ctx, actor, groupID); err != nil {
		return err
	}
	n, err := s.msgs.DeleteByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("delete group messages: %w", err)
	}
	if err := s.groups.Delete(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("group %s: %w", groupID, apperr.ErrNotFound)
		}
		return err
	}
	s.log.Infow("group deleted", "group_id", groupID, "deleted_by", actor.ID, "messages_removed", n)
	return nil
}
