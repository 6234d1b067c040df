package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubase/house-enrolment/internal/authz"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// runJWT sends a request with the given Authorization header through the
// middleware and returns the recorder plus the principal the next handler
// observed (if it ran).
func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *authz.Principal) {
	t.Helper()
	e := echo.New()
	var seen *authz.Principal
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		if p, ok := Principal(c); ok {
			seen = &p
		}
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec, seen
}

func TestJWTAuthExtractsPrincipal(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":      float64(42),
		"email":    "teacher@example.com",
		"is_admin": true,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	rec, seen := runJWT(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, uint64(42), seen.ID)
	assert.Equal(t, "teacher@example.com", seen.Email)
	assert.True(t, seen.IsAdmin)
}

func TestJWTAuthStringSubject(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	rec, seen := runJWT(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, uint64(7), seen.ID)
	assert.False(t, seen.IsAdmin)
}

func TestJWTAuthRejections(t *testing.T) {
	expired := signToken(t, jwt.MapClaims{
		"sub": float64(1),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	noSubject := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"missing subject", "Bearer " + noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, seen := runJWT(t, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, seen)
		})
	}
}
