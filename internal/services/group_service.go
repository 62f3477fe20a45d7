package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/metrics"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"go.uber.org/zap"
)

// GroupService administers groups. Creating and deleting groups is limited to staff.
type GroupService struct {
	groups repositories.GroupRepository
	cache  *cache.FeedCache
	logger *zap.Logger
}

func NewGroupService(groups repositories.GroupRepository, feedCache *cache.FeedCache, logger *zap.Logger) *GroupService {
	return &GroupService{groups: groups, cache: feedCache, logger: logger.Named("groups")}
}

func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groups.ListGroups(ctx)
}

// CreateGroup stores a group from an already validated request.
func (s *GroupService) CreateGroup(ctx context.Context, actor *models.User, req models.CreateGroupRequest) (*models.Group, error) {
	if err := requireStaff(actor); err != nil {
		metrics.Mutation("create_group", "denied")
		return nil, err
	}

	group := &models.Group{
		Title: strings.TrimSpace(req.Title),
		Slug:  strings.TrimSpace(req.Slug),
	}
	if group.Title == "" {
		metrics.Mutation("create_group", "invalid")
		return nil, NewValidationError("title", msgRequired)
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		group.Description = &d
	}

	if _, err := s.groups.GetGroupBySlug(ctx, group.Slug); err == nil {
		metrics.Mutation("create_group", "invalid")
		return nil, NewValidationError("slug", "Group with this Slug already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if err := s.groups.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			metrics.Mutation("create_group", "invalid")
			return nil, NewValidationError("title", "Group with this Title already exists.")
		}
		metrics.Mutation("create_group", "error")
		return nil, err
	}
	metrics.Mutation("create_group", "ok")
	s.logger.Info("group created", zap.String("slug", group.Slug))
	return group, nil
}

// DeleteGroup removes a group. Its posts stay and lose their group.
func (s *GroupService) DeleteGroup(ctx context.Context, actor *models.User, slug string) error {
	if err := requireStaff(actor); err != nil {
		metrics.Mutation("delete_group", "denied")
		return err
	}
	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		metrics.Mutation("delete_group", outcome(err))
		return lookupErr("group "+slug, err)
	}
	if err := s.groups.DeleteGroup(ctx, group.ID); err != nil {
		metrics.Mutation("delete_group", outcome(err))
		return lookupErr("group "+slug, err)
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	metrics.Mutation("delete_group", "ok")
	s.logger.Info("group deleted", zap.String("slug", slug))
	return nil
}

func requireStaff(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsStaff {
		return ErrForbidden
	}
	return nil
}
