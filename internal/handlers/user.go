package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pattarapk/storefront/internal/middleware"
	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/service"
)

type createUser struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin super_admin"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
}

type updateUser struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=64"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin super_admin"`
	Phone    *string `json:"phone" validate:"omitempty,e164"`
	Active   *bool   `json:"active"`
}

type userView struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Phone         string `json:"phone"`
	Active        bool   `json:"active"`
	EmailVerified bool   `json:"emailVerified"`
}

func toUserView(u *model.User) *userView {
	return &userView{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		Phone:         u.Phone,
		Active:        u.Active,
		EmailVerified: u.EmailVerified,
	}
}

// UserHTTPHandler is http handler for user endpoint
type UserHTTPHandler struct {
	userSvc     service.UserService
	authSvc     service.AuthService
	activitySvc service.ActivityService
}

// NewUserHTTPHandler builds new UserHTTPHandler
func NewUserHTTPHandler(userSvc service.UserService, authSvc service.AuthService, activitySvc service.ActivityService) *UserHTTPHandler {
	return &UserHTTPHandler{
		userSvc:     userSvc,
		authSvc:     authSvc,
		activitySvc: activitySvc,
	}
}

// Me returns the calling user
// @Summary     Current user
// @Description Returns the profile of the authenticated user
// @Tags        users
// @Security	ApiKeyAuth
// @Produce     json
// @Success     200 {object} userView
// @Failure     401 {object} echo.HTTPError
// @Router      /api/v1/users/me [get]
func (h *UserHTTPHandler) Me(c echo.Context) error {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		return echo.ErrUnauthorized
	}

	u, err := h.userSvc.FindByID(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserView(u))
}

// FindAll returns all users
// @Summary     All users
// @Description Returns all registered users
// @Tags        users
// @Security	ApiKeyAuth
// @Produce     json
// @Success     200 {array}  userView
// @Failure     401 {object} echo.HTTPError
// @Failure     403 {object} echo.HTTPError
// @Router      /api/v1/users [get]
func (h *UserHTTPHandler) FindAll(c echo.Context) error {
	users, err := h.userSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	views := make([]*userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return c.JSON(http.StatusOK, views)
}

// FindByID returns single user
// @Summary     Single user
// @Description Returns user with provided id
// @Tags        users
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id  path     string true "User id"
// @Success     200 {object} userView
// @Failure     401 {object} echo.HTTPError
// @Failure     403 {object} echo.HTTPError
// @Failure     404 {object} echo.HTTPError
// @Router      /api/v1/users/{id} [get]
func (h *UserHTTPHandler) FindByID(c echo.Context) error {
	u, err := h.userSvc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserView(u))
}

// Create creates new user
// @Summary     Create user
// @Description Creates user with provided data
// @Tags        users
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       user body     createUser true "New user data"
// @Success     201  {object} userView
// @Failure     400  {object} echo.HTTPError
// @Failure     401  {object} echo.HTTPError
// @Failure     403  {object} echo.HTTPError
// @Router      /api/v1/users [post]
func (h *UserHTTPHandler) Create(c echo.Context) error {
	var cu createUser
	if err := c.Bind(&cu); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&cu); err != nil {
		return err
	}

	u, err := h.userSvc.Create(c.Request().Context(), service.NewUser{
		Username: cu.Username,
		Email:    cu.Email,
		Password: cu.Password,
		Role:     cu.Role,
		Phone:    cu.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserView(u))
}

// Update updates user
// @Summary     Update user
// @Description Updates user with provided data, absent fields stay untouched
// @Tags        users
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       id   path     string     true "User id"
// @Param       user body     updateUser true "User data"
// @Success     200  {object} userView
// @Failure     400  {object} echo.HTTPError
// @Failure     401  {object} echo.HTTPError
// @Failure     403  {object} echo.HTTPError
// @Failure     404  {object} echo.HTTPError
// @Router      /api/v1/users/{id} [put]
func (h *UserHTTPHandler) Update(c echo.Context) error {
	var uu updateUser
	if err := c.Bind(&uu); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&uu); err != nil {
		return err
	}

	u, err := h.userSvc.Update(c.Request().Context(), service.UpdateUser{
		ID:       c.Param("id"),
		Username: uu.Username,
		Email:    uu.Email,
		Password: uu.Password,
		Role:     uu.Role,
		Phone:    uu.Phone,
		Active:   uu.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserView(u))
}

// DeleteByID deletes user
// @Summary     Delete user
// @Description Deletes user with provided id and revokes all their sessions
// @Tags        users
// @Security	ApiKeyAuth
// @Param       id path string true "User id"
// @Success     204 "Successful status code"
// @Failure     401 {object} echo.HTTPError
// @Failure     403 {object} echo.HTTPError
// @Failure     404 {object} echo.HTTPError
// @Router      /api/v1/users/{id} [delete]
func (h *UserHTTPHandler) DeleteByID(c echo.Context) error {
	if err := h.userSvc.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ForceLogout revokes every session of a user
// @Summary     Force logout
// @Description Revokes every refresh token of the user with provided id
// @Tags        users
// @Security	ApiKeyAuth
// @Param       id path string true "User id"
// @Success     200 "Successful status code"
// @Failure     401 {object} echo.HTTPError
// @Failure     403 {object} echo.HTTPError
// @Failure     404 {object} echo.HTTPError
// @Router      /api/v1/users/{id}/force-logout [post]
func (h *UserHTTPHandler) ForceLogout(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.userSvc.FindByID(c.Request().Context(), id); err != nil {
		return err
	}

	if err := h.authSvc.LogoutAll(c.Request().Context(), id, clientMeta(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Activity returns user audit trail
// @Summary     User activity
// @Description Returns the most recent audit entries of the user
// @Tags        users
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id    path  string true  "User id"
// @Param       limit query int    false "Max entries, defaults to 20"
// @Success     200 {array}  model.ActivityLog
// @Failure     401 {object} echo.HTTPError
// @Failure     403 {object} echo.HTTPError
// @Router      /api/v1/users/{id}/activity [get]
func (h *UserHTTPHandler) Activity(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	entries, err := h.activitySvc.FindByUserID(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
