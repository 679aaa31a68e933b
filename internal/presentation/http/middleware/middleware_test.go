package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Next()
	}
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Requests: 2, Per: time.Hour})
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Another client has its own budget.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, rl.Size())

	rl.cleanup(time.Now().Add(time.Hour))
	assert.Equal(t, 0, rl.Size())
	rl.Stop()
}

func TestAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("secret", time.Hour, time.Hour)
	userID := uuid.New()
	token, err := jwt.GenerateAccessToken(userID, "staff@relocato.de", []string{"staff"}, []string{entity.PermissionManageQuotes})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/quotes", AuthMiddleware(jwt), RequirePermission(entity.PermissionManageQuotes), func(c *gin.Context) {
		assert.Equal(t, userID, c.MustGet("user_id"))
		c.Status(http.StatusOK)
	})
	r.GET("/users", AuthMiddleware(jwt), RequirePermission(entity.PermissionManageUsers), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		path   string
		header string
		want   int
	}{
		{"/quotes", "", http.StatusUnauthorized},
		{"/quotes", "Token " + token, http.StatusUnauthorized},
		{"/quotes", "Bearer nope", http.StatusUnauthorized},
		{"/quotes", "Bearer " + token, http.StatusOK},
		{"/users", "Bearer " + token, http.StatusForbidden},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "%s %q", tc.path, tc.header)
	}
}

func TestIdempotencyReplaysResponse(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.IdempotencyKey{}))

	var calls int32
	r := gin.New()
	r.POST("/quotes", withUser(uuid.New()), Idempotency(IdempotencyConfig{Repo: repository.NewIdempotencyRepository(db)}),
		func(c *gin.Context) {
			n := atomic.AddInt32(&calls, 1)
			c.JSON(http.StatusCreated, gin.H{"call": n})
		})

	send := func(key, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		r.ServeHTTP(w, req)
		return w
	}

	first := send("k-1", `{"price":100}`)
	assert.Equal(t, http.StatusCreated, first.Code)

	replay := send("k-1", `{"price":100}`)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(IdempotencyReplayHeader))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())

	mismatch := send("k-1", `{"price":200}`)
	assert.Equal(t, http.StatusUnprocessableEntity, mismatch.Code)

	send("", `{"price":100}`)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}
