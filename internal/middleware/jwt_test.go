package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t4n15hq/luminari-be/internal/config"
)

func testJWTConfig(ttl time.Duration) *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: ttl}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig(24 * time.Hour)
	userID := uuid.New()

	token, err := GenerateToken(userID, "drsmith", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "drsmith", claims.Username)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig(-1 * time.Minute)
	token, err := GenerateToken(uuid.New(), "drsmith", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, cfg)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(uuid.New(), "drsmith", testJWTConfig(time.Hour))
	require.NoError(t, err)

	_, err = ValidateToken(token, &config.JWTConfig{Secret: "other-secret", AccessTokenTTL: time.Hour})
	assert.Error(t, err)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig(time.Hour)
	next := func(w http.ResponseWriter, r *http.Request) { t.Fatal("next should not run") }

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	rec := httptest.NewRecorder()
	AuthMiddleware(next, cfg)(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing token")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig(time.Hour)
	next := func(w http.ResponseWriter, r *http.Request) { t.Fatal("next should not run") }

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	AuthMiddleware(next, cfg)(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig(time.Hour)
	next := func(w http.ResponseWriter, r *http.Request) { t.Fatal("next should not run") }

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	AuthMiddleware(next, cfg)(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestAuthMiddleware_ValidTokenReachesHandler(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig(time.Hour)
	userID := uuid.New()
	token, err := GenerateToken(userID, "drsmith", cfg)
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotName string
	next := func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserIDFromContext(r.Context())
		gotName, _ = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	AuthMiddleware(next, cfg)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "drsmith", gotName)
}
