package middleware

import (
	"assessment_backend/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":          "user-1",
		"exp":          time.Now().Add(time.Hour).Unix(),
		"app_metadata": map[string]string{"role": role},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := gin.New()
	r.GET("/user", AuthMiddleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", AuthMiddleware(cfg), AdminMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doGet(r http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/user", ""))
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/user", "garbage"))
	assert.Equal(t, http.StatusOK, doGet(r, "/user", signToken(t, "")))
}

func TestAdminMiddleware(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", signToken(t, "student")))
	assert.Equal(t, http.StatusOK, doGet(r, "/admin", signToken(t, "admin")))
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/admin", ""))
}
