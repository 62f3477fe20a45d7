package services

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/metrics"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"go.uber.org/zap"
)

// FollowService manages follow edges. Both operations are idempotent.
type FollowService struct {
	follows repositories.FollowRepository
	users   repositories.UserRepository
	logger  *zap.Logger
}

func NewFollowService(follows repositories.FollowRepository, users repositories.UserRepository, logger *zap.Logger) *FollowService {
	return &FollowService{follows: follows, users: users, logger: logger.Named("follows")}
}

// Follow subscribes actor to the author. Following oneself is a no-op and so
// is following an author that is already followed.
func (s *FollowService) Follow(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		metrics.Mutation("follow", outcome(err))
		return nil, lookupErr("user "+username, err)
	}
	if author.ID == actor.ID {
		metrics.Mutation("follow", "noop")
		return author, nil
	}

	if err := s.follows.EnsureFollow(ctx, actor.ID, author.ID); err != nil {
		metrics.Mutation("follow", "error")
		return nil, err
	}
	metrics.Mutation("follow", "ok")
	s.logger.Debug("followed", zap.Uint("user_id", actor.ID), zap.Uint("author_id", author.ID))
	return author, nil
}

// Unfollow removes the subscription if there is one.
func (s *FollowService) Unfollow(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		metrics.Mutation("unfollow", outcome(err))
		return nil, lookupErr("user "+username, err)
	}

	if err := s.follows.RemoveFollow(ctx, actor.ID, author.ID); err != nil {
		metrics.Mutation("unfollow", "error")
		return nil, err
	}
	metrics.Mutation("unfollow", "ok")
	return author, nil
}
