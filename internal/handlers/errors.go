package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIPrefix is the path every API route is mounted under.
const APIPrefix = "/api/v1"

// HTTPErrorHandler renders service errors as JSON. Unexpected failures are
// logged and reported without detail.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := classify(err, c)
		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Warn("failed to write error response", zap.Error(err))
		}
	}
}

func classify(err error, c echo.Context) (int, echo.Map) {
	var verr *services.ValidationError
	var herr *echo.HTTPError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, echo.Map{"message": "Invalid input.", "errors": verr.Fields}
	case errors.Is(err, services.ErrNotFound):
		return notFound(c)
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, echo.Map{"message": "You do not have permission to perform this action."}
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, echo.Map{"message": err.Error()}
	case errors.As(err, &herr):
		if herr.Code == http.StatusNotFound {
			return notFound(c)
		}
		if herr.Code >= http.StatusInternalServerError {
			return herr.Code, echo.Map{"message": http.StatusText(herr.Code)}
		}
		return herr.Code, echo.Map{"message": herr.Message}
	default:
		return http.StatusInternalServerError, echo.Map{"message": http.StatusText(http.StatusInternalServerError)}
	}
}

func notFound(c echo.Context) (int, echo.Map) {
	return http.StatusNotFound, echo.Map{
		"message": "Page not found.",
		"path":    c.Request().URL.Path,
	}
}
