package middleware

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattarapk/storefront/internal/auth"
)

const testCookieName = "access-token"

type gateFixture struct {
	issuer    *auth.JwtIssuer
	validator *auth.JwtValidator
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err, "failed to generate key pair")

	method := jwt.GetSigningMethod("EdDSA")
	return &gateFixture{
		issuer:    auth.NewJwtIssuer("test-issuer", method, 3*time.Minute, privateKey),
		validator: auth.NewJwtValidator(method, publicKey),
	}
}

func (f *gateFixture) signedToken(t *testing.T, role auth.Role) string {
	t.Helper()

	token, err := f.issuer.Sign(auth.Principal{ID: "7c9356cf-e590-44ae-90e7-054cd2e95811", Role: role}, time.Now().UTC())
	require.NoError(t, err, "failed to sign token")
	return token.Signed
}

// serve runs the request through Authenticate plus the provided escalations
// and a terminal handler echoing the resolved principal
func serve(f *gateFixture, req *http.Request, escalations ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, *auth.Principal) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *auth.Principal
	handler := func(c echo.Context) error {
		seen = PrincipalFromContext(c)
		return c.NoContent(http.StatusOK)
	}

	chain := handler
	for i := len(escalations) - 1; i >= 0; i-- {
		chain = escalations[i](chain)
	}
	chain = Authenticate(f.validator, testCookieName)(chain)

	if err := chain(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestAuthenticateAnonymousWithoutToken(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, principal := serve(f, req)

	assert.Equal(t, http.StatusOK, rec.Code, "anonymous request must pass without escalation")
	assert.Nil(t, principal, "no principal must be resolved")
}

func TestAuthenticateGarbageTokenStaysAnonymous(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec, principal := serve(f, req)

	assert.Equal(t, http.StatusOK, rec.Code, "verification failure must not leak to the client")
	assert.Nil(t, principal, "unverifiable token must leave the request anonymous")
}

func TestAuthenticateBearerToken(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.signedToken(t, auth.RoleUser))
	rec, principal := serve(f, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal, "principal must be resolved from bearer token")
	assert.Equal(t, auth.RoleUser, principal.Role)
}

func TestAuthenticateCookieFallback(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: f.signedToken(t, auth.RoleAdmin)})
	rec, principal := serve(f, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal, "principal must be resolved from cookie")
	assert.Equal(t, auth.RoleAdmin, principal.Role)
}

func TestAuthenticateHeaderWinsOverCookie(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.signedToken(t, auth.RoleAdmin))
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: f.signedToken(t, auth.RoleUser)})
	_, principal := serve(f, req)

	require.NotNil(t, principal)
	assert.Equal(t, auth.RoleAdmin, principal.Role, "bearer header must take precedence over cookie")
}

func TestRequireAuthenticatedRejectsAnonymous(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := serve(f, req, RequireAuthenticated)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "anonymous request must be rejected with 401")
}

func TestRequireRoleAnonymousGets401(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := serve(f, req, RequireRole(auth.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing principal is 401, not 403")
}

func TestRequireRoleInsufficientGets403(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.signedToken(t, auth.RoleUser))
	rec, _ := serve(f, req, RequireRole(auth.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, rec.Code, "authenticated but underprivileged is 403")
}

func TestRequireRoleHierarchy(t *testing.T) {
	f := newGateFixture(t)

	cases := []struct {
		name string
		role auth.Role
		min  auth.Role
		code int
	}{
		{"user reaches user", auth.RoleUser, auth.RoleUser, http.StatusOK},
		{"user stopped at admin", auth.RoleUser, auth.RoleAdmin, http.StatusForbidden},
		{"admin reaches user", auth.RoleAdmin, auth.RoleUser, http.StatusOK},
		{"admin stopped at super admin", auth.RoleAdmin, auth.RoleSuperAdmin, http.StatusForbidden},
		{"super admin reaches admin", auth.RoleSuperAdmin, auth.RoleAdmin, http.StatusOK},
		{"super admin reaches super admin", auth.RoleSuperAdmin, auth.RoleSuperAdmin, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.signedToken(t, tc.role))
			rec, _ := serve(f, req, RequireRole(tc.min))

			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	f := newGateFixture(t)

	token, err := f.issuer.Sign(
		auth.Principal{ID: "7c9356cf-e590-44ae-90e7-054cd2e95811", Role: auth.RoleUser},
		time.Now().UTC().Add(-time.Hour),
	)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token.Signed)
	rec, _ := serve(f, req, RequireAuthenticated)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "expired token must leave the request anonymous")
}
