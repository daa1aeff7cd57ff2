package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pattarapk/storefront/internal/auth"
)

const principalContextKey = "principal"

// Authenticate resolves the request principal from a bearer token, falling
// back to the access token cookie. A missing or unverifiable token leaves
// the request anonymous - whether that is acceptable is decided by the
// escalation middleware below, raw verification errors never reach the
// client.
func Authenticate(validator *auth.JwtValidator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				if cookie, err := c.Cookie(cookieName); err == nil {
					token = cookie.Value
				}
			}

			if token == "" {
				return next(c)
			}

			principal, err := validator.Verify(token)
			if err != nil {
				return next(c)
			}

			c.Set(principalContextKey, &principal)
			return next(c)
		}
	}
}

// RequireAuthenticated rejects anonymous requests
func RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if PrincipalFromContext(c) == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

// RequireRole rejects requests whose principal does not reach min in the
// role hierarchy. The ordering lives in auth.Role, handlers never compare
// role strings themselves.
func RequireRole(min auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFromContext(c)
			if principal == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !principal.Role.AtLeast(min) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}

// PrincipalFromContext returns the resolved principal or nil
func PrincipalFromContext(c echo.Context) *auth.Principal {
	if principal, ok := c.Get(principalContextKey).(*auth.Principal); ok {
		return principal
	}
	return nil
}

func bearerToken(c echo.Context) string {
	authHdr := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHdr == "" {
		return ""
	}

	hdrSplit := strings.SplitN(authHdr, " ", 2)
	if len(hdrSplit) != 2 || !strings.EqualFold(hdrSplit[0], "Bearer") {
		return ""
	}
	return hdrSplit[1]
}
