package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// RequireAuth rejects requests without a valid bearer token. Browsers cannot
// set headers on WebSocket upgrades, so a token query parameter is accepted
// as well.
func RequireAuth(tokens *TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := bearerToken(c.Request().Header.Get("Authorization"))
			if tokenString == "" {
				tokenString = c.QueryParam("token")
			}
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
			}

			identity, err := tokens.Validate(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// FromContext returns the identity set by RequireAuth.
func FromContext(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// WithIdentity attaches identity to c, as RequireAuth does.
func WithIdentity(c echo.Context, identity *Identity) {
	c.Set(identityKey, identity)
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
