package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[uint]*models.User

func (f fakeUsers) GetUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func (f fakeUsers) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	for _, u := range f {
		if u.FirebaseUID != nil && *u.FirebaseUID == uid {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if idToken == "good" {
		return &auth.Token{UID: "fb-1"}, nil
	}
	return nil, errors.New("bad token")
}

func serve(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *models.User, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/follow?page=2", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.User
	err := mw(func(c echo.Context) error {
		seen = Viewer(c)
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, seen, err
}

func TestJWTAuthMiddleware(t *testing.T) {
	user := &models.User{ID: 7, Username: "leo"}
	users := fakeUsers{7: user}
	mw := JWTAuthMiddleware("secret", users)

	_, viewer, err := serve(mw, "")
	require.NoError(t, err)
	assert.Nil(t, viewer)

	tok, err := IssueToken("secret", user, time.Hour)
	require.NoError(t, err)
	_, viewer, err = serve(mw, "Bearer "+tok)
	require.NoError(t, err)
	require.NotNil(t, viewer)
	assert.Equal(t, "leo", viewer.Username)

	forged, err := IssueToken("other-secret", user, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken("secret", user, -time.Minute)
	require.NoError(t, err)
	unknown, err := IssueToken("secret", &models.User{ID: 99}, time.Hour)
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + forged, "Bearer " + expired, "Bearer " + unknown, "Token abc"} {
		_, _, err := serve(mw, header)
		var herr *echo.HTTPError
		require.ErrorAs(t, err, &herr, header)
		assert.Equal(t, http.StatusUnauthorized, herr.Code)
	}
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	uid := "fb-1"
	users := fakeUsers{1: {ID: 1, Username: "ann", FirebaseUID: &uid}}
	mw := FirebaseAuthMiddleware(fakeVerifier{}, users)

	_, viewer, err := serve(mw, "Bearer good")
	require.NoError(t, err)
	require.NotNil(t, viewer)
	assert.Equal(t, "ann", viewer.Username)

	_, _, err = serve(mw, "Bearer bad")
	assert.Error(t, err)

	_, viewer, err = serve(mw, "")
	require.NoError(t, err)
	assert.Nil(t, viewer)
}

func TestRequireViewer(t *testing.T) {
	rec, _, err := serve(RequireViewer("/auth/login/"), "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next=%2Fapi%2Fv1%2Ffollow%3Fpage%3D2", rec.Header().Get(echo.HeaderLocation))

	chain := JWTAuthMiddleware("secret", fakeUsers{1: {ID: 1, Username: "u"}})
	tok, err := IssueToken("secret", &models.User{ID: 1}, time.Hour)
	require.NoError(t, err)
	rec, _, err = serve(func(next echo.HandlerFunc) echo.HandlerFunc {
		return chain(RequireViewer("/auth/login/")(next))
	}, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
