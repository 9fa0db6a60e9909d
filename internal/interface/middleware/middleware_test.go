package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-reorder-service/internal/application"
	"github.com/oksasatya/go-reorder-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type gateFixture struct {
	router *gin.Engine
	tokens *application.TokenService
	userID string
}

func newGateFixture(t *testing.T, jwt *helpers.JWTManager) *gateFixture {
	t.Helper()
	store := memory.NewStore()
	users := application.NewUserService(store.Users(), nil)
	tokens := application.NewTokenService(jwt, store.Users(), nil)
	u, err := users.Create(context.Background(), "a@b.test", "password123")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Gate(tokens, users, helpers.NewNopLogger()), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		fromCtx, ok := UserFromContext(c.Request.Context())
		require.True(t, ok)
		c.String(http.StatusOK, u.ID+"|"+fromCtx.Email)
	})
	return &gateFixture{router: r, tokens: tokens, userID: u.ID}
}

func (f *gateFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGate(t *testing.T) {
	f := newGateFixture(t, helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour))
	pair, err := f.tokens.Issue(f.userID)
	require.NoError(t, err)

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := f.do(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, f.userID+"|a@b.test", w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: pair.AccessToken})
		assert.Equal(t, http.StatusOK, f.do(req).Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := f.do(httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing access token")
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic "+pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost, err := f.tokens.Issue("ghost")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+ghost.AccessToken)
		w := f.do(req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "user no longer exists")
	})
}

func TestGate_Expired(t *testing.T) {
	f := newGateFixture(t, helpers.NewJWTManager("access", "refresh", -time.Minute, time.Hour))
	pair, err := f.tokens.Issue(f.userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "access token expired")
}

func newLimited(t *testing.T, limit int, allow AllowFunc) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", RateLimit(rdb, limit, time.Minute, KeyByIP("test"), allow), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, mr
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	r, mr := newLimited(t, 2, nil)

	w := hit(r, "203.0.113.7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Reset"))

	require.Equal(t, http.StatusOK, hit(r, "203.0.113.7").Code)
	w = hit(r, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// separate client, separate window
	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.8").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "203.0.113.7").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r, mr := newLimited(t, 1, nil)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "203.0.113.7").Code)
	}
}

func TestRateLimit_AllowPrivate(t *testing.T) {
	r, _ := newLimited(t, 1, AllowPrivateIP())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.1.2.3").Code)
	}
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "198.51.100.1").Code)
}

func TestRateLimit_NilRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, 1, time.Minute, KeyByIP("test"), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "7d3f5a8e-1c2b-4e5f-9a0b-1c2d3e4f5a6b")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "7d3f5a8e-1c2b-4e5f-9a0b-1c2d3e4f5a6b", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "not an id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not an id", w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware(), Recovery(helpers.NewNopLogger()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
}
