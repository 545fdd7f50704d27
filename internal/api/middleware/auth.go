package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/alkewallet/wallet-service/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextIdentityID = "identity_id"
	ContextUsername   = "username"
	ContextTokenID    = "token_id"
	ContextTokenExp   = "token_exp"
)

// Auth validates the JWT, rejects revoked tokens and injects the caller
// identity into the context. sessions may be nil when revocation is disabled.
func Auth(jwtSecret string, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			}, jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			subject, _ := claims.GetSubject()
			tokenID, _ := claims["jti"].(string)
			if subject == "" || tokenID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing identity")
			}

			if sessions != nil {
				revoked, err := sessions.IsRevoked(c.Request().Context(), tokenID)
				if err != nil {
					return err
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			var expiresAt time.Time
			if exp, _ := claims.GetExpirationTime(); exp != nil {
				expiresAt = exp.Time
			}

			c.Set(ContextIdentityID, subject)
			c.Set(ContextUsername, claims["username"])
			c.Set(ContextTokenID, tokenID)
			c.Set(ContextTokenExp, expiresAt)

			return next(c)
		}
	}
}
