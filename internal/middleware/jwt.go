package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/edubase/house-enrolment/internal/authz"
)

// principalKey is the context key under which the authenticated principal
// is stored for handlers to read via Principal().
const principalKey = "principal"

// JWTAuth returns an Echo middleware that validates a Bearer token issued
// by the identity platform and places the resulting principal in the
// request context. The secret is the HS256 key shared with the identity
// provider. Expected claims: sub (user id), email, is_admin. This service
// never issues tokens; it only consumes them.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			p, ok := principalFromClaims(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// Principal returns the authenticated principal stored by JWTAuth. The
// boolean is false when the middleware did not run or rejected the request,
// which on a protected route means a wiring bug.
func Principal(c echo.Context) (authz.Principal, bool) {
	p, ok := c.Get(principalKey).(authz.Principal)
	return p, ok
}

// principalFromClaims builds a principal out of token claims. The subject
// arrives as a JSON number or a string depending on the issuer's encoder,
// so both are accepted. A missing or unparsable subject is a rejection;
// missing email or is_admin merely default to empty and false.
func principalFromClaims(claims jwt.MapClaims) (authz.Principal, bool) {
	var p authz.Principal
	switch sub := claims["sub"].(type) {
	case float64:
		if sub <= 0 {
			return p, false
		}
		p.ID = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil || n == 0 {
			return p, false
		}
		p.ID = n
	default:
		return p, false
	}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if admin, ok := claims["is_admin"].(bool); ok {
		p.IsAdmin = admin
	}
	return p, true
}
