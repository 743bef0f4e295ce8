package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := GenerateToken(userID, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.Hex(), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "ink-well-api", claims.Issuer)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthAcceptsTokenWithoutExpiry(t *testing.T) {
	// Tokens minted elsewhere may omit exp; Auth must not dereference it.
	userID := primitive.NewObjectID()
	claims := &Claims{
		UserID:  userID.Hex(),
		IsAdmin: false,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	require.NoError(t, err)

	handler := Auth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, false)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/user/profile", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	require.NotPanics(t, func() { handler(rec, r) })
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthWrapper(t *testing.T) {
	userID := primitive.NewObjectID()
	adminToken, err := GenerateToken(userID, true)
	require.NoError(t, err)
	readerToken, err := GenerateToken(primitive.NewObjectID(), false)
	require.NoError(t, err)

	var gotUserID primitive.ObjectID
	handler := Auth(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}, true)

	// Missing header.
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/dashboard/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong scheme.
	rec = httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/dashboard/stats", nil)
	r.Header.Set("Authorization", "Basic abc123")
	handler(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated but not admin.
	rec = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/dashboard/stats", nil)
	r.Header.Set("Authorization", "Bearer "+readerToken)
	handler(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin passes and the identity lands in the context.
	rec = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/dashboard/stats", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	handler(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
}
