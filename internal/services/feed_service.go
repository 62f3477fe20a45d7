package services

import (
	"context"
	"fmt"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/metrics"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/pagination"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"go.uber.org/zap"
)

// Page sizes of the feeds.
const (
	IndexPageSize     = 10
	GroupPageSize     = 10
	ProfilePageSize   = 6
	FollowingPageSize = 6
)

// PostPage is one page of a post feed.
type PostPage = pagination.Page[models.Post]

// GroupFeed is a page of a group's posts.
type GroupFeed struct {
	Group models.Group
	Page  PostPage
}

// ProfileFeed is a page of an author's posts together with the viewer's
// relation to the author.
type ProfileFeed struct {
	Author         models.User
	Following      bool
	FollowersCount int64
	FollowingCount int64
	Page           PostPage
}

// PostDetail is a post with its comments, oldest first.
type PostDetail struct {
	Post     models.Post
	Comments []models.Comment
}

// FeedService builds the read-side views over posts.
type FeedService struct {
	posts    repositories.PostRepository
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	comments repositories.CommentRepository
	cache    *cache.FeedCache
	logger   *zap.Logger
}

// NewFeedService creates a FeedService. feedCache may be nil to disable
// caching of the global feed.
func NewFeedService(
	posts repositories.PostRepository,
	groups repositories.GroupRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	comments repositories.CommentRepository,
	feedCache *cache.FeedCache,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		posts:    posts,
		groups:   groups,
		users:    users,
		follows:  follows,
		comments: comments,
		cache:    feedCache,
		logger:   logger.Named("feed"),
	}
}

// GlobalFeed returns a page of all posts, newest first.
func (s *FeedService) GlobalFeed(ctx context.Context, page string) (PostPage, error) {
	metrics.FeedRead(metrics.FeedGlobal)
	requested := pagination.ParseNumber(page)

	if s.cache == nil {
		return s.page(ctx, models.PostFilter{}, requested, IndexPageSize)
	}

	// the loaded page may be shared with other callers, so it must not carry
	// this request's cancellation
	loadCtx := context.WithoutCancel(ctx)
	v, hit, err := s.cache.Get(fmt.Sprintf("index:%d", requested), func() (any, error) {
		return s.page(loadCtx, models.PostFilter{}, requested, IndexPageSize)
	})
	metrics.CacheLookup(hit)
	if err != nil {
		return PostPage{}, err
	}
	return v.(PostPage), nil
}

// GroupFeed returns a page of the posts filed under the group with slug.
func (s *FeedService) GroupFeed(ctx context.Context, slug, page string) (*GroupFeed, error) {
	metrics.FeedRead(metrics.FeedGroup)

	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, lookupErr("group "+slug, err)
	}

	p, err := s.page(ctx, models.PostFilter{GroupID: &group.ID}, pagination.ParseNumber(page), GroupPageSize)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: *group, Page: p}, nil
}

// ProfileFeed returns a page of the author's posts. Following is always
// false for an anonymous viewer.
func (s *FeedService) ProfileFeed(ctx context.Context, viewer *models.User, username, page string) (*ProfileFeed, error) {
	metrics.FeedRead(metrics.FeedProfile)

	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr("user "+username, err)
	}

	following := false
	if viewer != nil {
		if following, err = s.follows.IsFollowing(ctx, viewer.ID, author.ID); err != nil {
			return nil, err
		}
	}

	followers, err := s.follows.CountFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	follows, err := s.follows.CountFollowing(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	p, err := s.page(ctx, models.PostFilter{AuthorID: &author.ID}, pagination.ParseNumber(page), ProfilePageSize)
	if err != nil {
		return nil, err
	}

	return &ProfileFeed{
		Author:         *author,
		Following:      following,
		FollowersCount: followers,
		FollowingCount: follows,
		Page:           p,
	}, nil
}

// FollowingFeed returns a page of posts by the authors viewer follows. A
// viewer who follows nobody gets an ordinary empty page.
func (s *FeedService) FollowingFeed(ctx context.Context, viewer *models.User, page string) (PostPage, error) {
	if viewer == nil {
		return PostPage{}, ErrUnauthenticated
	}
	metrics.FeedRead(metrics.FeedFollowing)
	return s.page(ctx, models.PostFilter{FollowerID: &viewer.ID}, pagination.ParseNumber(page), FollowingPageSize)
}

// PostDetail returns one post with its comments.
func (s *FeedService) PostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("post %d", postID), err)
	}
	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: *post, Comments: comments}, nil
}

// page counts the scope, clamps the requested page and loads its slice. The
// count and the slice are separate reads and may disagree under writes.
func (s *FeedService) page(ctx context.Context, filter models.PostFilter, requested, size int) (PostPage, error) {
	total, err := s.posts.CountPosts(ctx, filter)
	if err != nil {
		return PostPage{}, fmt.Errorf("failed to count posts: %w", err)
	}

	number, offset := pagination.Resolve(requested, size, total)
	posts, err := s.posts.ListPosts(ctx, filter, offset, size)
	if err != nil {
		return PostPage{}, fmt.Errorf("failed to list posts: %w", err)
	}

	s.logger.Debug("feed page loaded",
		zap.Int("page", number),
		zap.Int("size", size),
		zap.Int64("total", total),
	)
	return pagination.New(posts, number, size, total), nil
}
