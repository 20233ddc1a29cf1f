package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type activeStub struct {
	active bool
	err    error
}

func (s activeStub) IsActive(context.Context, string) (bool, error) { return s.active, s.err }

func newAdminRouter(tokens TokenValidator, active ActiveChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	admin := r.Group("/admin", AuthMiddleware(tokens, active), AdminMiddleware())
	admin.GET("/ping", func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.Email())
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func perform(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRoutes(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)
	adminToken, err := m.GenerateToken("1", "admin@prestashop.com", "Admin", "SuperAdmin")
	require.NoError(t, err)
	guestToken, err := m.GenerateToken("2", "guest@prestashop.com", "Guest", "Translator")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		active ActiveChecker
		want   int
	}{
		{name: "missing token", want: http.StatusUnauthorized},
		{name: "garbage token", token: "abc", want: http.StatusUnauthorized},
		{name: "admin profile", token: adminToken, want: http.StatusOK},
		{name: "non admin profile", token: guestToken, want: http.StatusForbidden},
		{name: "inactive employee", token: adminToken, active: activeStub{active: false}, want: http.StatusUnauthorized},
		{name: "active employee", token: adminToken, active: activeStub{active: true}, want: http.StatusOK},
		{name: "lookup failure", token: adminToken, active: activeStub{err: errors.New("db down")}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(newAdminRouter(m, tt.active), "/admin/ping", tt.token)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
		})
	}
}

func TestRecovery(t *testing.T) {
	w := perform(newAdminRouter(jwt.NewManager("s", time.Hour), nil), "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
}
