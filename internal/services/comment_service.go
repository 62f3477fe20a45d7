package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/yatube/backend/internal/metrics"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"go.uber.org/zap"
)

// CommentService attaches comments to posts.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	logger   *zap.Logger
}

func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, logger *zap.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, logger: logger.Named("comments")}
}

// AddComment attaches a comment by actor to the post.
func (s *CommentService) AddComment(ctx context.Context, actor *models.User, postID uint, text string) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		metrics.Mutation("add_comment", outcome(err))
		return nil, lookupErr(fmt.Sprintf("post %d", postID), err)
	}
	if strings.TrimSpace(text) == "" {
		metrics.Mutation("add_comment", "invalid")
		return nil, NewValidationError("text", msgRequired)
	}

	comment := &models.Comment{PostID: postID, AuthorID: actor.ID, Text: text}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		metrics.Mutation("add_comment", outcome(err))
		return nil, lookupErr(fmt.Sprintf("post %d", postID), err)
	}
	metrics.Mutation("add_comment", "ok")
	s.logger.Debug("comment added", zap.Uint("post_id", postID), zap.Uint("author_id", actor.ID))
	return comment, nil
}
