package auth_test

import (
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/auth"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestExtractTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/bookings", nil)
	_, err := auth.ExtractTokenFromRequest(r)
	assert.Error(t, err, "missing header must be rejected")

	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, err = auth.ExtractTokenFromRequest(r)
	assert.Error(t, err, "non-bearer scheme must be rejected")

	r.Header.Set("Authorization", "Bearer abc.def.ghi")
	token, err := auth.ExtractTokenFromRequest(r)
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	// Scheme matching is case-insensitive.
	r.Header.Set("Authorization", "bearer abc.def.ghi")
	token, err = auth.ExtractTokenFromRequest(r)
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestExtractUserIDFromJWT(t *testing.T) {
	userID, err := auth.ExtractUserIDFromJWT(signedToken(t, jwt.MapClaims{"sub": "user-42"}))
	assert.NoError(t, err)
	assert.Equal(t, "user-42", userID)

	_, err = auth.ExtractUserIDFromJWT(signedToken(t, jwt.MapClaims{"email": "x@example.com"}))
	assert.Error(t, err, "token without a subject must be rejected")

	_, err = auth.ExtractUserIDFromJWT("")
	assert.Error(t, err)

	_, err = auth.ExtractUserIDFromJWT("not-a-jwt")
	assert.Error(t, err)
}
