package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zhilfond/server/internal/models"
)

// memoryRevoker is an in-memory Revoker for tests.
type memoryRevoker struct {
	revoked map[string]bool
	err     error
}

func newMemoryRevoker() *memoryRevoker {
	return &memoryRevoker{revoked: map[string]bool{}}
}

func (m *memoryRevoker) Revoke(_ context.Context, jti string, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = true
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.revoked[jti], nil
}

func setupRouter(issuer *TokenIssuer) *gin.Engine {
	return setupRouterWithRevoker(issuer, nil)
}

func setupRouterWithRevoker(issuer *TokenIssuer, revoked Revoker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware(issuer, revoked, logrus.New()))

	router.GET("/user", RequireAuth(), func(c *gin.Context) {
		authCtx := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": authCtx.UserID})
	})
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_MissingToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	router := setupRouter(issuer)

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/user", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/admin", "").Code)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	router := setupRouter(issuer)

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/user", "garbage").Code)
}

func TestMiddleware_UserRole(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	router := setupRouter(issuer)

	token, err := issuer.Issue(7, models.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(router, "/user", token).Code)
	// Authenticated but not an admin.
	assert.Equal(t, http.StatusForbidden, doRequest(router, "/admin", token).Code)
}

func TestMiddleware_AdminRole(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	router := setupRouter(issuer)

	token, err := issuer.Issue(1, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(router, "/admin", token).Code)
}

func TestMiddleware_RevokedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	revoker := newMemoryRevoker()
	router := setupRouterWithRevoker(issuer, revoker)

	token, err := issuer.Issue(7, models.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(router, "/user", token).Code)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.NoError(t, revoker.Revoke(context.Background(), claims.ID, time.Now().Add(time.Hour)))

	// A revoked token no longer authenticates, even though it still
	// verifies cryptographically.
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/user", token).Code)
}

func TestMiddleware_RevocationStoreUnavailable(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	revoker := newMemoryRevoker()
	revoker.err = errors.New("connection refused")
	router := setupRouterWithRevoker(issuer, revoker)

	token, err := issuer.Issue(7, models.RoleUser)
	require.NoError(t, err)

	// Fail closed: with the store unreachable the caller stays anonymous.
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/user", token).Code)
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	router := setupRouter(issuer)

	token, err := issuer.Issue(7, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/admin", token).Code)
}
