package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/labstack/echo/v4"
)

// MediaHandler streams stored post images.
type MediaHandler struct {
	images media.ImageStore
}

func NewMediaHandler(images media.ImageStore) *MediaHandler {
	return &MediaHandler{images: images}
}

func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.GET("/media/*", h.GetImage)
}

// GetImage serves an image by its storage name.
func (h *MediaHandler) GetImage(c echo.Context) error {
	img, err := h.images.Open(c.Request().Context(), c.Param("*"))
	if errors.Is(err, media.ErrImageNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Image not found")
	}
	if err != nil {
		return err
	}
	// names are never reused, so a stored image never changes
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}
