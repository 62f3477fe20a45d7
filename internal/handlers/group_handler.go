package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// GroupHandler lists and administers groups
type GroupHandler struct {
	groups *services.GroupService
}

func NewGroupHandler(groups *services.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group, requireViewer echo.MiddlewareFunc) {
	g.GET("/groups", h.ListGroups)
	g.POST("/groups", h.CreateGroup, requireViewer)
	g.DELETE("/groups/:slug", h.DeleteGroup, requireViewer)
}

func (h *GroupHandler) ListGroups(c echo.Context) error {
	groups, err := h.groups.ListGroups(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

// CreateGroup creates a group. Staff only.
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	group, err := h.groups.CreateGroup(c.Request().Context(), middleware.Viewer(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, group)
}

// DeleteGroup deletes a group; its posts stay ungrouped. Staff only.
func (h *GroupHandler) DeleteGroup(c echo.Context) error {
	if err := h.groups.DeleteGroup(c.Request().Context(), middleware.Viewer(c), c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
