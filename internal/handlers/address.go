package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pattarapk/storefront/internal/middleware"
	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/service"
)

type addressPayload struct {
	RecipientName string  `json:"recipientName" validate:"required,max=255"`
	Phone         string  `json:"phone" validate:"required,max=32"`
	Line1         string  `json:"line1" validate:"required,max=255"`
	Line2         *string `json:"line2" validate:"omitempty,max=255"`
	SubDistrict   string  `json:"subDistrict" validate:"required,max=128"`
	District      string  `json:"district" validate:"required,max=128"`
	Province      string  `json:"province" validate:"required,max=128"`
	ZipCode       string  `json:"zipCode" validate:"required,len=5,numeric"`
	Default       bool    `json:"default"`
	Type          string  `json:"type" validate:"required,oneof=shipping billing"`
}

func (p *addressPayload) toModel(id, userID string) *model.Address {
	return &model.Address{
		ID:            id,
		UserID:        userID,
		RecipientName: p.RecipientName,
		Phone:         p.Phone,
		Line1:         p.Line1,
		Line2:         p.Line2,
		SubDistrict:   p.SubDistrict,
		District:      p.District,
		Province:      p.Province,
		ZipCode:       p.ZipCode,
		Default:       p.Default,
		Type:          p.Type,
	}
}

// AddressHTTPHandler is http handler for address endpoint. All routes are
// bound to the authenticated user, other users addresses are not reachable.
type AddressHTTPHandler struct {
	addressSvc service.AddressService
}

// NewAddressHTTPHandler builds new AddressHTTPHandler
func NewAddressHTTPHandler(addressSvc service.AddressService) *AddressHTTPHandler {
	return &AddressHTTPHandler{addressSvc: addressSvc}
}

// FindAll returns caller addresses
// @Summary     All addresses
// @Description Returns every address of the authenticated user
// @Tags        addresses
// @Security	ApiKeyAuth
// @Produce     json
// @Success     200 {array}  model.Address
// @Failure     401 {object} echo.HTTPError
// @Router      /api/v1/addresses [get]
func (h *AddressHTTPHandler) FindAll(c echo.Context) error {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		return echo.ErrUnauthorized
	}

	addresses, err := h.addressSvc.FindAllForUser(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, addresses)
}

// Create creates new address
// @Summary     Create address
// @Description Creates address for the authenticated user
// @Tags        addresses
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       address body     addressPayload true "New address data"
// @Success     201     {object} model.Address
// @Failure     400     {object} echo.HTTPError
// @Failure     401     {object} echo.HTTPError
// @Router      /api/v1/addresses [post]
func (h *AddressHTTPHandler) Create(c echo.Context) error {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		return echo.ErrUnauthorized
	}

	var pld addressPayload
	if err := c.Bind(&pld); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&pld); err != nil {
		return err
	}

	a, err := h.addressSvc.Create(c.Request().Context(), pld.toModel("", principal.ID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Update updates address
// @Summary     Update address
// @Description Updates address of the authenticated user
// @Tags        addresses
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       id      path     string         true "Address id"
// @Param       address body     addressPayload true "Address data"
// @Success     200     {object} model.Address
// @Failure     400     {object} echo.HTTPError
// @Failure     401     {object} echo.HTTPError
// @Failure     404     {object} echo.HTTPError
// @Router      /api/v1/addresses/{id} [put]
func (h *AddressHTTPHandler) Update(c echo.Context) error {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		return echo.ErrUnauthorized
	}

	var pld addressPayload
	if err := c.Bind(&pld); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&pld); err != nil {
		return err
	}

	a, err := h.addressSvc.Update(c.Request().Context(), pld.toModel(c.Param("id"), principal.ID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// MakeDefault marks address as default
// @Summary     Default address
// @Description Marks address as the default one of its type
// @Tags        addresses
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id  path     string true "Address id"
// @Success     200 {object} model.Address
// @Failure     401 {object} echo.HTTPError
// @Failure     404 {object} echo.HTTPError
// @Router      /api/v1/addresses/{id}/default [put]
func (h *AddressHTTPHandler) MakeDefault(c echo.Context) error {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		return echo.ErrUnauthorized
	}

	a, err := h.addressSvc.MakeDefault(c.Request().Context(), principal.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteByID deletes address
// @Summary     Delete address
// @Description Deletes address of the authenticated user
// @Tags        addresses
// @Security	ApiKeyAuth
// @Param       id path string true "Address id"
// @Success     204 "Successful status code"
// @Failure     401 {object} echo.HTTPError
// @Failure     404 {object} echo.HTTPError
// @Router      /api/v1/addresses/{id} [delete]
func (h *AddressHTTPHandler) DeleteByID(c echo.Context) error {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		return echo.ErrUnauthorized
	}

	if err := h.addressSvc.DeleteByID(c.Request().Context(), principal.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
