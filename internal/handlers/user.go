package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to the viewer's own account
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, requireViewer echo.MiddlewareFunc) {
	g.GET("/profile", h.GetProfile, requireViewer)
	g.DELETE("/profile", h.DeleteUser, requireViewer)
}

// GetProfile returns the authenticated user
func (h *UserHandler) GetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.Viewer(c))
}

// DeleteUser deletes the authenticated user. Their posts stay without an author.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.users.DeleteAccount(c.Request().Context(), middleware.Viewer(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
