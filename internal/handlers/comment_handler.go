package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment routes behind requireViewer.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireViewer echo.MiddlewareFunc) {
	g.POST("/posts/:id/comments", h.AddComment, requireViewer)
}

// AddComment attaches a comment to a post and sends the viewer back to it.
func (h *CommentHandler) AddComment(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.comments.AddComment(c.Request().Context(), middleware.Viewer(c), id, req.Text); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postURL(id))
}
