package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan/pkg/logger"
)

const testSecret = "unit-test-secret"

func newTestAuthenticator() *Authenticator {
	log := logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stderr"})
	return NewAuthenticator(testSecret, log)
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseTokenValid(t *testing.T) {
	a := newTestAuthenticator()
	token := sign(t, testSecret, jwt.MapClaims{"sub": "user-1", "role": "admin"})

	identity, err := a.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "admin", identity.Role)
	assert.True(t, identity.IsAdmin())
}

func TestParseTokenNoRole(t *testing.T) {
	a := newTestAuthenticator()
	token := sign(t, testSecret, jwt.MapClaims{"sub": "user-1"})

	identity, err := a.ParseToken(token)
	require.NoError(t, err)
	assert.Empty(t, identity.Role)
	assert.False(t, identity.IsAdmin())
}

func TestParseTokenWrongSecret(t *testing.T) {
	a := newTestAuthenticator()
	token := sign(t, "other-secret", jwt.MapClaims{"sub": "user-1"})

	_, err := a.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenMissingSubject(t *testing.T) {
	a := newTestAuthenticator()
	token := sign(t, testSecret, jwt.MapClaims{"role": "admin"})

	_, err := a.ParseToken(token)
	assert.Error(t, err)
}

func TestRequireAuthPassesIdentity(t *testing.T) {
	a := newTestAuthenticator()

	var seen *Identity
	wrapped := a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/clone", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, jwt.MapClaims{"sub": "user-1"}))
	rec := httptest.NewRecorder()
	wrapped(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	a := newTestAuthenticator()

	called := false
	wrapped := a.RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/clone", nil)
	rec := httptest.NewRecorder()
	wrapped(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestRequireAuthRejectsNonBearerHeader(t *testing.T) {
	a := newTestAuthenticator()
	wrapped := a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/clone", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	wrapped(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	a := newTestAuthenticator()

	called := false
	wrapped := a.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("admin passes", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/migrate-to-two-week", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, jwt.MapClaims{"sub": "admin-1", "role": "admin"}))
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/migrate-to-two-week", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, jwt.MapClaims{"sub": "user-1"}))
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, called)
	})

	t.Run("no token unauthorized", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/migrate-to-two-week", nil)
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}

func TestFromContextAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	identity, ok := FromContext(req.Context())
	assert.False(t, ok)
	assert.Nil(t, identity)
}
