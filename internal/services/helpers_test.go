package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	store    *repositories.MemoryStore
	images   *media.MemoryStore
	cache    *cache.FeedCache
	feed     *FeedService
	posts    *PostService
	comments *CommentService
	follows  *FollowService
	groups   *GroupService
	users    *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repositories.NewMemoryStore()
	var mu sync.Mutex
	clock := time.Date(2020, 7, 15, 15, 15, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Minute)
		return clock
	})

	feedCache, err := cache.NewFeedCache(64, 20*time.Second)
	require.NoError(t, err)

	images := media.NewMemoryStore()
	logger := zap.NewNop()

	return &testEnv{
		store:    store,
		images:   images,
		cache:    feedCache,
		feed:     NewFeedService(store, store, store, store, store, feedCache, logger),
		posts:    NewPostService(store, store, images, feedCache, 1<<20, logger),
		comments: NewCommentService(store, store, logger),
		follows:  NewFollowService(store, store, logger),
		groups:   NewGroupService(store, feedCache, logger),
		users:    NewUserService(store, feedCache, logger),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) group(t *testing.T, title, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: title, Slug: slug}
	require.NoError(t, e.store.CreateGroup(context.Background(), g))
	return g
}

// rawPost writes a post straight into the store, bypassing the service and
// its cache invalidation.
func (e *testEnv) rawPost(t *testing.T, text string, author *models.User, group *models.Group) *models.Post {
	t.Helper()
	p := &models.Post{Text: text}
	if author != nil {
		p.AuthorID = &author.ID
	}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, e.store.CreatePost(context.Background(), p))
	return p
}

func (e *testEnv) postCount(t *testing.T) int64 {
	t.Helper()
	n, err := e.store.CountPosts(context.Background(), models.PostFilter{})
	require.NoError(t, err)
	return n
}

func texts(p PostPage) []string {
	out := make([]string, len(p.Items))
	for i, post := range p.Items {
		out[i] = post.Text
	}
	return out
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
