package middleware

import (
	"net/http"
	"net/url"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const viewerKey = "user"

// SetViewer stores the authenticated user in the request context.
func SetViewer(c echo.Context, user *models.User) {
	c.Set(viewerKey, user)
}

// Viewer returns the authenticated user, or nil for an anonymous request.
func Viewer(c echo.Context) *models.User {
	user, _ := c.Get(viewerKey).(*models.User)
	return user
}

// RequireViewer sends anonymous callers to the login page, remembering where
// they were going.
func RequireViewer(loginURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Viewer(c) != nil {
				return next(c)
			}
			target := loginURL + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusFound, target)
		}
	}
}
