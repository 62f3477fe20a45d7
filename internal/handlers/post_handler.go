package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post creation, editing and deletion
type PostHandler struct {
	posts         *services.PostService
	maxImageBytes int64
}

// NewPostHandler creates a new PostHandler. Uploads larger than maxImageBytes
// are cut off at one byte over the limit so the service rejects them.
func NewPostHandler(posts *services.PostService, maxImageBytes int64) *PostHandler {
	return &PostHandler{posts: posts, maxImageBytes: maxImageBytes}
}

// RegisterPostRoutes registers post mutation routes behind requireViewer.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireViewer echo.MiddlewareFunc) {
	g.POST("/posts", h.CreatePost, requireViewer)
	g.PUT("/posts/:id", h.UpdatePost, requireViewer)
	g.DELETE("/posts/:id", h.DeletePost, requireViewer)
}

// CreatePost publishes a post from a multipart form with text, group and image.
func (h *PostHandler) CreatePost(c echo.Context) error {
	in, err := h.readForm(c)
	if err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), middleware.Viewer(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, postView(*post))
}

// UpdatePost edits a post. A viewer who is not the author is sent back to
// the post detail and nothing changes.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	in, err := h.readForm(c)
	if err != nil {
		return err
	}

	post, err := h.posts.EditPost(c.Request().Context(), middleware.Viewer(c), id, in)
	if errors.Is(err, services.ErrNotPostAuthor) {
		return c.Redirect(http.StatusSeeOther, postURL(id))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postView(*post))
}

// DeletePost deletes the viewer's own post.
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	err = h.posts.DeletePost(c.Request().Context(), middleware.Viewer(c), id)
	if errors.Is(err, services.ErrNotPostAuthor) {
		return c.Redirect(http.StatusSeeOther, postURL(id))
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) readForm(c echo.Context) (services.PostInput, error) {
	var req models.PostRequest
	if err := c.Bind(&req); err != nil {
		return services.PostInput{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return services.PostInput{}, err
	}
	in := services.PostInput{Text: req.Text, Group: req.Group}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nil
	case err != nil:
		return in, echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}

	f, err := fh.Open()
	if err != nil {
		return in, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	limit := h.maxImageBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	if in.Image, err = io.ReadAll(io.LimitReader(f, limit+1)); err != nil {
		return in, fmt.Errorf("failed to read upload: %w", err)
	}
	return in, nil
}
