package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/anonto42/yatube/backend/internal/metrics"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"go.uber.org/zap"
)

// PostInput is a submitted post form.
type PostInput struct {
	Text string
	// Group is the raw group id; empty means no group.
	Group string
	// Image is the uploaded file content; nil when no file was sent.
	Image []byte
}

// PostService creates, edits and deletes posts.
type PostService struct {
	posts         repositories.PostRepository
	groups        repositories.GroupRepository
	images        media.ImageStore
	cache         *cache.FeedCache
	maxImageBytes int64
	logger        *zap.Logger
}

// NewPostService creates a PostService. feedCache may be nil.
func NewPostService(
	posts repositories.PostRepository,
	groups repositories.GroupRepository,
	images media.ImageStore,
	feedCache *cache.FeedCache,
	maxImageBytes int64,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:         posts,
		groups:        groups,
		images:        images,
		cache:         feedCache,
		maxImageBytes: maxImageBytes,
		logger:        logger.Named("posts"),
	}
}

// validated is a PostInput that passed validation.
type validated struct {
	text    string
	groupID *uint
	image   *media.Upload
}

func (s *PostService) validate(ctx context.Context, in PostInput) (*validated, error) {
	verr := &ValidationError{}
	out := &validated{}

	if strings.TrimSpace(in.Text) == "" {
		verr.Add("text", msgRequired)
	} else {
		out.text = in.Text
	}

	if raw := strings.TrimSpace(in.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			verr.Add("group", msgInvalidChoice)
		} else {
			group, err := s.groups.GetGroupByID(ctx, uint(id))
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				verr.Add("group", msgInvalidChoice)
			case err != nil:
				return nil, err
			default:
				out.groupID = &group.ID
			}
		}
	}

	if in.Image != nil {
		up, err := media.ValidateImage(in.Image, s.maxImageBytes)
		if err != nil {
			s.logger.Debug("image rejected", zap.Error(err))
			verr.Add("image", media.InvalidImageMessage)
		} else {
			out.image = up
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// storeImage saves an accepted upload and returns its storage name.
func (s *PostService) storeImage(ctx context.Context, up *media.Upload) (*string, error) {
	if up == nil {
		return nil, nil
	}
	name := media.NewImageName(up.Extension)
	if err := s.images.Save(ctx, name, up.ContentType, up.Data); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	return &name, nil
}

func (s *PostService) dropImage(ctx context.Context, name *string) {
	if name == nil {
		return
	}
	if err := s.images.Delete(ctx, *name); err != nil {
		s.logger.Warn("failed to delete image", zap.String("image", *name), zap.Error(err))
	}
}

// CreatePost publishes a post by actor. Nothing is written when validation fails.
func (s *PostService) CreatePost(ctx context.Context, actor *models.User, in PostInput) (*models.Post, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	v, err := s.validate(ctx, in)
	if err != nil {
		metrics.Mutation("create_post", outcome(err))
		return nil, err
	}

	image, err := s.storeImage(ctx, v.image)
	if err != nil {
		metrics.Mutation("create_post", "error")
		return nil, err
	}

	post := &models.Post{
		Text:     v.text,
		AuthorID: &actor.ID,
		GroupID:  v.groupID,
		Image:    image,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.dropImage(ctx, image)
		metrics.Mutation("create_post", "error")
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.invalidate()
	metrics.Mutation("create_post", "ok")
	s.logger.Info("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", actor.ID))

	return s.reload(ctx, post.ID)
}

// EditPost replaces text and group of a post and, when a new image is sent,
// its image. Only the author may edit; anyone else gets ErrNotPostAuthor and
// the post is left untouched. PubDate never changes.
func (s *PostService) EditPost(ctx context.Context, actor *models.User, postID uint, in PostInput) (*models.Post, error) {
	post, err := s.authored(ctx, actor, postID)
	if err != nil {
		metrics.Mutation("edit_post", outcome(err))
		return nil, err
	}

	v, err := s.validate(ctx, in)
	if err != nil {
		metrics.Mutation("edit_post", outcome(err))
		return nil, err
	}

	previous := post.Image
	post.Text = v.text
	post.GroupID = v.groupID
	if v.image != nil {
		if post.Image, err = s.storeImage(ctx, v.image); err != nil {
			metrics.Mutation("edit_post", "error")
			return nil, err
		}
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		if v.image != nil {
			s.dropImage(ctx, post.Image)
		}
		metrics.Mutation("edit_post", outcome(err))
		return nil, lookupErr(fmt.Sprintf("post %d", postID), err)
	}
	if v.image != nil {
		s.dropImage(ctx, previous)
	}
	s.invalidate()
	metrics.Mutation("edit_post", "ok")

	return s.reload(ctx, postID)
}

// DeletePost removes a post, its comments and its image. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, actor *models.User, postID uint) error {
	post, err := s.authored(ctx, actor, postID)
	if err != nil {
		metrics.Mutation("delete_post", outcome(err))
		return err
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		metrics.Mutation("delete_post", outcome(err))
		return lookupErr(fmt.Sprintf("post %d", postID), err)
	}
	s.dropImage(ctx, post.Image)
	s.invalidate()
	metrics.Mutation("delete_post", "ok")
	s.logger.Info("post deleted", zap.Uint("post_id", postID))
	return nil
}

// authored loads a post and checks that actor wrote it.
func (s *PostService) authored(ctx context.Context, actor *models.User, postID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("post %d", postID), err)
	}
	if actor == nil || post.AuthorID == nil || *post.AuthorID != actor.ID {
		return nil, ErrNotPostAuthor
	}
	return post, nil
}

func (s *PostService) reload(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("post %d", postID), err)
	}
	return post, nil
}

func (s *PostService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// outcome names the metrics outcome of a failed mutation.
func outcome(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, ErrNotFound), errors.Is(err, repositories.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotPostAuthor), errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthenticated):
		return "denied"
	default:
		return "error"
	}
}
