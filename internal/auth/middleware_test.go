package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(m *JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("", AuthRequired(m))
	protected.GET("/whoami", func(c *gin.Context) {
		id, _ := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})
	protected.GET("/users/:id", RequireSelfOrAdmin("id"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func serve(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	r := newTestEngine(m)

	token, err := m.GenerateAccessToken(3, RoleUser)
	require.NoError(t, err)

	t.Run("bearer token", func(t *testing.T) {
		w := serve(r, "/whoami", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":3,"role":"User"}`, w.Body.String())
	})

	t.Run("raw token", func(t *testing.T) {
		w := serve(r, "/whoami", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, "/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := serve(r, "/whoami", "Basic "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := serve(r, "/whoami", "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireSelfOrAdmin(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	r := newTestEngine(m)

	userToken, err := m.GenerateAccessToken(3, RoleUser)
	require.NoError(t, err)
	adminToken, err := m.GenerateAccessToken(1, RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, serve(r, "/users/3", "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/users/4", "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, "/users/4", "Bearer "+adminToken).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, "/users/abc", "Bearer "+userToken).Code)
}
