package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_WithImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	group := env.group(t, "Test group", "test-group")

	post, err := env.posts.CreatePost(ctx, author, PostInput{
		Text:  "Test text",
		Group: fmt.Sprint(group.ID),
		Image: pngImage(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "Test text", post.Text)
	require.NotNil(t, post.Author)
	assert.Equal(t, "author", post.Author.Username)
	require.NotNil(t, post.Group)
	assert.Equal(t, "test-group", post.Group.Slug)
	require.NotNil(t, post.Image)
	assert.Regexp(t, `^posts/[0-9a-f-]{36}\.png$`, *post.Image)
	assert.False(t, post.PubDate.IsZero())

	stored, err := env.images.Open(ctx, *post.Image)
	require.NoError(t, err)
	assert.Equal(t, "image/png", stored.ContentType)
}

func TestCreatePost_RejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")

	tests := []struct {
		name  string
		input PostInput
		field string
		msg   string
	}{
		{"empty text", PostInput{Text: "  "}, "text", msgRequired},
		{"unknown group", PostInput{Text: "t", Group: "999"}, "group", msgInvalidChoice},
		{"malformed group", PostInput{Text: "t", Group: "abc"}, "group", msgInvalidChoice},
		{"text file as image", PostInput{Text: "t", Image: []byte("some.txt contents")}, "image", media.InvalidImageMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.posts.CreatePost(ctx, author, tt.input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.msg, verr.Fields[tt.field])
			assert.Equal(t, int64(0), env.postCount(t))
			assert.Equal(t, 0, env.images.Len())
		})
	}
}

func TestCreatePost_ReportsEveryInvalidField(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")

	_, err := env.posts.CreatePost(context.Background(), author, PostInput{Group: "999", Image: []byte("x")})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestCreatePost_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.posts.CreatePost(context.Background(), nil, PostInput{Text: "t"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, int64(0), env.postCount(t))
}

func TestEditPost_ByAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	group := env.group(t, "Test group", "test-group")

	created, err := env.posts.CreatePost(ctx, author, PostInput{
		Text:  "before",
		Group: fmt.Sprint(group.ID),
		Image: pngImage(t),
	})
	require.NoError(t, err)

	edited, err := env.posts.EditPost(ctx, author, created.ID, PostInput{Text: "after"})
	require.NoError(t, err)

	assert.Equal(t, "after", edited.Text)
	assert.Nil(t, edited.GroupID)
	assert.True(t, created.PubDate.Equal(edited.PubDate))
	require.NotNil(t, edited.Image)
	assert.Equal(t, *created.Image, *edited.Image)
	assert.Equal(t, int64(1), env.postCount(t))
}

func TestEditPost_ReplacesImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")

	created, err := env.posts.CreatePost(ctx, author, PostInput{Text: "t", Image: pngImage(t)})
	require.NoError(t, err)

	edited, err := env.posts.EditPost(ctx, author, created.ID, PostInput{Text: "t", Image: pngImage(t)})
	require.NoError(t, err)

	require.NotNil(t, edited.Image)
	assert.NotEqual(t, *created.Image, *edited.Image)
	assert.Equal(t, 1, env.images.Len())
	_, err = env.images.Open(ctx, *created.Image)
	assert.ErrorIs(t, err, media.ErrImageNotFound)
}

func TestEditPost_NonAuthorLeavesPostUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	intruder := env.user(t, "intruder")
	post := env.rawPost(t, "original", author, nil)

	_, err := env.posts.EditPost(ctx, intruder, post.ID, PostInput{Text: "hijacked"})
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	_, err = env.posts.EditPost(ctx, nil, post.ID, PostInput{Text: "hijacked"})
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	stored, err := env.store.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)
}

func TestEditPost_InvalidKeepsPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	post := env.rawPost(t, "original", author, nil)

	_, err := env.posts.EditPost(ctx, author, post.ID, PostInput{Text: ""})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := env.store.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)
}

func TestEditPost_Missing(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")
	_, err := env.posts.EditPost(context.Background(), author, 42, PostInput{Text: "t"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	reader := env.user(t, "reader")

	post, err := env.posts.CreatePost(ctx, author, PostInput{Text: "t", Image: pngImage(t)})
	require.NoError(t, err)
	_, err = env.comments.AddComment(ctx, reader, post.ID, "nice")
	require.NoError(t, err)

	assert.ErrorIs(t, env.posts.DeletePost(ctx, reader, post.ID), ErrNotPostAuthor)
	assert.Equal(t, int64(1), env.postCount(t))

	require.NoError(t, env.posts.DeletePost(ctx, author, post.ID))
	assert.Equal(t, int64(0), env.postCount(t))
	assert.Equal(t, 0, env.images.Len())

	comments, err := env.store.GetCommentsByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
