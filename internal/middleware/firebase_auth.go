package middleware

import (
	"context"
	"net/http"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

// FirebaseUserLookup loads the user linked to a Firebase UID.
type FirebaseUserLookup interface {
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
}

// FirebaseAuthMiddleware resolves the viewer from a Firebase ID token. Like
// JWTAuthMiddleware it lets requests without a token through anonymously.
// The account must have been linked through /auth/firebase-login first.
func FirebaseAuthMiddleware(verifier firebase.TokenVerifier, users FirebaseUserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, ok, err := bearerToken(c)
			if err != nil {
				return err
			}
			if !ok {
				return next(c)
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			user, err := users.GetUserByFirebaseUID(c.Request().Context(), token.UID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "No account is linked to this Firebase user")
			}
			c.Set("firebaseUID", token.UID)
			SetViewer(c, user)

			return next(c)
		}
	}
}
