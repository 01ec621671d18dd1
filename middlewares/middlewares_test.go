package middlewares

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"civictrack/models"
	authUtils "civictrack/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, role models.Role) (string, primitive.ObjectID) {
	t.Helper()
	id := primitive.NewObjectID()
	tok, err := authUtils.GenerateToken(testSecret, id.Hex(), role, time.Hour)
	require.NoError(t, err)
	return tok, id
}

func serve(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthMiddleware(testSecret), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id.Hex(), "role": CurrentRole(c)})
	})

	userTok, userID := token(t, models.RoleUser)

	w := serve(r, "Bearer "+userTok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.Hex())
	assert.Contains(t, w.Body.String(), `"role":"user"`)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer nope").Code)
}

func TestRequireAdmin(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthMiddleware(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	userTok, _ := token(t, models.RoleUser)
	adminTok, _ := token(t, models.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "Bearer "+userTok).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, "Bearer "+adminTok).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/", OptionalAuth(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, string(CurrentRole(c)))
	})

	adminTok, _ := token(t, models.RoleAdmin)

	assert.Equal(t, "", serve(r, "").Body.String())
	assert.Equal(t, "", serve(r, "Bearer broken").Body.String())
	assert.Equal(t, "admin", serve(r, "Bearer "+adminTok).Body.String())
}

func TestIssueRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.GET("/", AuthMiddleware(testSecret), IssueRateLimiter(rdb, "issue-limit", 2), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	tok, id := token(t, models.RoleUser)
	assert.Equal(t, http.StatusCreated, serve(r, "Bearer "+tok).Code)
	assert.Equal(t, http.StatusCreated, serve(r, "Bearer "+tok).Code)

	w := serve(r, "Bearer "+tok)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "retry_after")
	assert.Equal(t, 24*time.Hour, mr.TTL("issue-limit:"+id.Hex()))

	other, _ := token(t, models.RoleUser)
	assert.Equal(t, http.StatusCreated, serve(r, "Bearer "+other).Code)

	mr.FastForward(25 * time.Hour)
	assert.Equal(t, http.StatusCreated, serve(r, "Bearer "+tok).Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/", func(c *gin.Context) {
		Logger(c).Info().Msg("inside")
		c.Status(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"message":"inside"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
