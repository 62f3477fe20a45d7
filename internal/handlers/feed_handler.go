package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the read-only post listings and post detail.
type FeedHandler struct {
	feed *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed routes. requireViewer guards the
// following feed.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, requireViewer echo.MiddlewareFunc) {
	g.GET("/posts", h.GlobalFeed)
	g.GET("/posts/:id", h.PostDetail)
	g.GET("/groups/:slug/posts", h.GroupFeed)
	g.GET("/users/:username/posts", h.ProfileFeed)
	g.GET("/follow", h.FollowingFeed, requireViewer)
}

// GlobalFeed lists every post, newest first.
func (h *FeedHandler) GlobalFeed(c echo.Context) error {
	page, err := h.feed.GlobalFeed(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postPage(page))
}

// GroupFeed lists the posts of one group.
func (h *FeedHandler) GroupFeed(c echo.Context) error {
	feed, err := h.feed.GroupFeed(c.Request().Context(), c.Param("slug"), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"group": feed.Group,
		"page":  postPage(feed.Page),
	})
}

// ProfileFeed lists the posts of one author together with whether the viewer
// follows them.
func (h *FeedHandler) ProfileFeed(c echo.Context) error {
	viewer := middleware.Viewer(c)
	feed, err := h.feed.ProfileFeed(c.Request().Context(), viewer, c.Param("username"), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"author":          feed.Author.ToCompact(),
		"following":       feed.Following,
		"followers_count": feed.FollowersCount,
		"following_count": feed.FollowingCount,
		"page":            postPage(feed.Page),
	})
}

// FollowingFeed lists posts by the authors the viewer follows.
func (h *FeedHandler) FollowingFeed(c echo.Context) error {
	page, err := h.feed.FollowingFeed(c.Request().Context(), middleware.Viewer(c), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postPage(page))
}

// PostDetail returns one post with its comments.
func (h *FeedHandler) PostDetail(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	detail, err := h.feed.PostDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"post":     postView(detail.Post),
		"comments": commentViews(detail.Comments),
	})
}

// postID parses the :id path parameter. A malformed id cannot name a post, so
// it is reported as not found.
func postID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return uint(id), nil
}

func postURL(id uint) string {
	return APIPrefix + "/posts/" + strconv.FormatUint(uint64(id), 10)
}

func profileURL(username string) string {
	return APIPrefix + "/users/" + username + "/posts"
}
