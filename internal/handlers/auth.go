package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pattarapk/storefront/internal/middleware"
	"github.com/pattarapk/storefront/internal/service"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refresh struct {
	RefreshToken string `json:"refreshToken" validate:"omitempty,uuid"`
}

type newUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type principalInfo struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type session struct {
	Token     string        `json:"accessToken"`
	ExpiresAt int64         `json:"expiresAt"`
	Principal principalInfo `json:"principal"`
}

// AuthCfg is transport-level auth handler configuration
type AuthCfg struct {
	Https              bool
	RefreshTokenCookie string
}

// AuthHTTPHandler is http handler for auth endpoint
type AuthHTTPHandler struct {
	authSvc service.AuthService
	authCfg AuthCfg
}

// NewAuthHTTPHandler builds new AuthHTTPHandler
func NewAuthHTTPHandler(authSvc service.AuthService, authCfg AuthCfg) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		authSvc: authSvc,
		authCfg: authCfg,
	}
}

// Signup signups new user
// @Summary     Signup new account
// @Description Register new account based on provided credentials
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       signup body	    signup true "New user data"
// @Success     200    {object} newUser
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/auth/signup [post]
func (h *AuthHTTPHandler) Signup(c echo.Context) error {
	var su signup
	if err := c.Bind(&su); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&su); err != nil {
		return err
	}

	nu, err := h.authSvc.Signup(c.Request().Context(), su.Email, su.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &newUser{
		ID:    nu.ID,
		Email: nu.Email,
	})
}

// Login logins user
// @Summary     Login user
// @Description Verifies provided credentials, signs access and refresh token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       login  body	    login true "User credentials"
// @Success     200    {object} session
// @Failure     400    {object} echo.HTTPError
// @Failure     401    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/auth/login [post]
func (h *AuthHTTPHandler) Login(c echo.Context) error {
	var lgn login
	if err := c.Bind(&lgn); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&lgn); err != nil {
		return err
	}

	jwt, rfrToken, user, err := h.authSvc.Login(c.Request().Context(), service.LoginInput{
		Email:          lgn.Email,
		Password:       lgn.Password,
		PresentedToken: h.presentedRefreshToken(c, ""),
		Meta:           clientMeta(c),
		At:             time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshTokenCookie(rfrToken.Token, rfrToken.ExpiresAt))

	return c.JSON(http.StatusOK, &session{
		Token:     jwt.Signed,
		ExpiresAt: jwt.ExpiresAt,
		Principal: principalInfo{ID: user.ID, Role: user.Role},
	})
}

// Refresh refreshes user session
// @Summary     Refresh session
// @Description Exchanges a refresh token for a new access and refresh token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       refresh body	 refresh false "Refresh token, cookie is used when omitted"
// @Success     200     {object} session
// @Failure     401     {object} echo.HTTPError
// @Failure     403     {object} echo.HTTPError
// @Failure     500     {object} echo.HTTPError
// @Router      /api/auth/refresh [post]
func (h *AuthHTTPHandler) Refresh(c echo.Context) error {
	var r refresh
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&r); err != nil {
		return err
	}

	token := h.presentedRefreshToken(c, r.RefreshToken)
	if token == "" {
		return echo.ErrUnauthorized
	}

	jwt, rfrToken, err := h.authSvc.Refresh(c.Request().Context(), token, time.Now().UTC())
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshTokenCookie(rfrToken.Token, rfrToken.ExpiresAt))

	return c.JSON(http.StatusOK, &session{
		Token:     jwt.Signed,
		ExpiresAt: jwt.ExpiresAt,
	})
}

// Logout logouts user
// @Summary     Logout user
// @Description Revokes the presented refresh token, always succeeds
// @Tags        auth
// @Accept      json
// @Success     200    "Successful status code"
// @Failure     500    {object} echo.HTTPError
// @Router      /api/auth/logout [post]
func (h *AuthHTTPHandler) Logout(c echo.Context) error {
	var r refresh
	if err := c.Bind(&r); err == nil {
		// body is optional on logout
		_ = c.Validate(&r)
	}

	token := h.presentedRefreshToken(c, r.RefreshToken)
	if err := h.authSvc.Logout(c.Request().Context(), token); err != nil {
		return err
	}

	c.SetCookie(h.expiredRefreshTokenCookie())
	return c.NoContent(http.StatusOK)
}

// LogoutAll revokes every session of the caller
// @Summary     Logout everywhere
// @Description Revokes every refresh token of the authenticated user
// @Tags        auth
// @Security	ApiKeyAuth
// @Success     200    "Successful status code"
// @Failure     401    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/auth/logout-all [post]
func (h *AuthHTTPHandler) LogoutAll(c echo.Context) error {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		return echo.ErrUnauthorized
	}

	if err := h.authSvc.LogoutAll(c.Request().Context(), principal.ID, clientMeta(c)); err != nil {
		return err
	}

	c.SetCookie(h.expiredRefreshTokenCookie())
	return c.NoContent(http.StatusOK)
}

// presentedRefreshToken prefers the explicit body token over the cookie
func (h *AuthHTTPHandler) presentedRefreshToken(c echo.Context, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}
	if cookie, err := c.Cookie(h.authCfg.RefreshTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *AuthHTTPHandler) refreshTokenCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.authCfg.RefreshTokenCookie,
		Value:    token,
		Path:     "/api/auth",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.authCfg.Https,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHTTPHandler) expiredRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.authCfg.RefreshTokenCookie,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.authCfg.Https,
		SameSite: http.SameSiteLaxMode,
	}
}

func clientMeta(c echo.Context) service.ClientMeta {
	return service.ClientMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
