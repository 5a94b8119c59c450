package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
	"github.com/BruksfildServices01/barbershop-booking/internal/usecase/identity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *identity.Tokens) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	whoami := func(c *gin.Context) {
		id, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "authenticated": ok})
	}
	r.GET("/private", AuthMiddleware(tokens), RequireRoles(models.RoleAdmin), whoami)
	r.GET("/optional", OptionalAuth(tokens), whoami)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAndRoles(t *testing.T) {
	tokens := identity.NewTokens("secret", time.Hour, timeutil.RealClock{})
	r := newRouter(tokens)

	admin, err := tokens.Issue(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	client, err := tokens.Issue(&models.User{ID: 2, Role: models.RoleClient})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "junk").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/private", client).Code)

	w := do(r, "/private", admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"authenticated":true}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestOptionalAuth(t *testing.T) {
	tokens := identity.NewTokens("secret", time.Hour, timeutil.RealClock{})
	r := newRouter(tokens)
	client, err := tokens.Issue(&models.User{ID: 2, Role: models.RoleClient})
	require.NoError(t, err)

	w := do(r, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":0,"authenticated":false}`, w.Body.String())

	w = do(r, "/optional", client)
	assert.JSONEq(t, `{"id":2,"authenticated":true}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/optional", "junk").Code)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.POST("/book", RateLimitMiddleware(NewIPRateLimiter(1, 2), zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/book", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, send("10.0.0.2"))
}

func TestRateLimiterSweepsIdleIPs(t *testing.T) {
	clock := timeutil.NewFixedClock(time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC))
	s := NewIPRateLimiter(10, 5)
	s.now = clock.Now

	s.limiter("10.0.0.1")
	clock.Advance(8 * time.Minute)
	s.limiter("10.0.0.2")
	require.Equal(t, 2, s.Size())

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, s.Sweep(LimiterIdleTTL))
	assert.Equal(t, 1, s.Size())

	// a returning IP refreshes its bucket
	s.limiter("10.0.0.2")
	clock.Advance(9 * time.Minute)
	assert.Equal(t, 0, s.Sweep(LimiterIdleTTL))
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep(LimiterIdleTTL))
	assert.Equal(t, 0, s.Size())
}
