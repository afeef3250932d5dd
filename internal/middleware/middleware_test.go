package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"quickcart/internal/model"
	"quickcart/internal/service"
)

type fakeValidator map[string]*model.User

func (f fakeValidator) ValidateToken(_ context.Context, token string) (*model.User, error) {
	switch token {
	case "disabled":
		return nil, service.ErrUserDisabled
	case "down":
		return nil, service.ErrBackendUnavailable
	}
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, service.ErrUnauthorized
}

var users = fakeValidator{
	"admin-token": {ID: "1", Name: "Admin", Phone: "9000000000", Role: "admin"},
	"user-token":  {ID: "2", Name: "Asha", Phone: "9876543210"},
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.NewNop()))

	whoami := func(c *gin.Context) {
		a := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": a.ID, "phone": a.Phone, "admin": a.Admin, "session": a.Session})
	}

	r.GET("/optional", OptionalAuth(users), whoami)
	auth := r.Group("/")
	auth.Use(AuthMiddleware(users))
	auth.GET("/me", whoami)
	auth.GET("/admin", AdminOnly(), whoami)
	return r
}

func do(r http.Handler, path, token string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	cases := []struct {
		name, path, token string
		want              int
	}{
		{"MissingHeader", "/me", "", http.StatusUnauthorized},
		{"InvalidToken", "/me", "nope", http.StatusUnauthorized},
		{"Disabled", "/me", "disabled", http.StatusForbidden},
		{"BackendDown", "/me", "down", http.StatusServiceUnavailable},
		{"User", "/me", "user-token", http.StatusOK},
		{"UserOnAdmin", "/admin", "user-token", http.StatusForbidden},
		{"Admin", "/admin", "admin-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.path, tc.token)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter()

	w := do(r, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	session := w.Header().Get(GuestSessionHeader)
	_, err := uuid.Parse(session)
	assert.NoError(t, err)
	assert.Contains(t, w.Body.String(), session)

	// la sesión enviada se reutiliza
	again := do(r, "/optional", "", GuestSessionHeader, session)
	assert.Equal(t, session, again.Header().Get(GuestSessionHeader))

	logged := do(r, "/optional", "user-token")
	assert.Equal(t, http.StatusOK, logged.Code)
	assert.Contains(t, logged.Body.String(), "9876543210")
	assert.Empty(t, logged.Header().Get(GuestSessionHeader))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/optional", "nope").Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter()

	w := do(r, "/optional", "", RequestIDHeader, "req-123")
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	w = do(r, "/optional", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
