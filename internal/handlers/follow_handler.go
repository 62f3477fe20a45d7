package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow routes behind requireViewer.
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, requireViewer echo.MiddlewareFunc) {
	g.POST("/users/:username/follow", h.FollowUser, requireViewer)
	g.DELETE("/users/:username/follow", h.UnfollowUser, requireViewer)
}

// FollowUser subscribes the viewer to an author and returns to their profile.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	author, err := h.follows.Follow(c.Request().Context(), middleware.Viewer(c), c.Param("username"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, profileURL(author.Username))
}

// UnfollowUser drops the subscription, if any, and returns to the profile.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	author, err := h.follows.Unfollow(c.Request().Context(), middleware.Viewer(c), c.Param("username"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, profileURL(author.Username))
}
