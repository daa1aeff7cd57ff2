package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/service"
)

type categoryPayload struct {
	ParentID *string `json:"parentId" validate:"omitempty,uuid"`
	Name     string  `json:"name" validate:"required,max=255"`
	Slug     string  `json:"slug" validate:"omitempty,max=255"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	Active   bool    `json:"active"`
}

func (p *categoryPayload) toModel(id string) *model.Category {
	return &model.Category{
		ID:       id,
		ParentID: p.ParentID,
		Name:     p.Name,
		Slug:     p.Slug,
		ImageURL: p.ImageURL,
		Active:   p.Active,
	}
}

// CategoryHTTPHandler is http handler for category endpoint
type CategoryHTTPHandler struct {
	categorySvc service.CategoryService
}

// NewCategoryHTTPHandler builds new CategoryHTTPHandler
func NewCategoryHTTPHandler(categorySvc service.CategoryService) *CategoryHTTPHandler {
	return &CategoryHTTPHandler{categorySvc: categorySvc}
}

// FindAll returns categories
// @Summary     All categories
// @Description Returns categories ordered parents first
// @Tags        categories
// @Produce     json
// @Param       active query bool false "Only active categories"
// @Success     200 {array}  model.Category
// @Failure     500 {object} echo.HTTPError
// @Router      /api/v1/categories [get]
func (h *CategoryHTTPHandler) FindAll(c echo.Context) error {
	categories, err := h.categorySvc.FindAll(c.Request().Context(), c.QueryParam("active") == "true")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// FindByID returns single category
// @Summary     Single category
// @Description Returns category with provided id
// @Tags        categories
// @Produce     json
// @Param       id  path     string true "Category id"
// @Success     200 {object} model.Category
// @Failure     404 {object} echo.HTTPError
// @Router      /api/v1/categories/{id} [get]
func (h *CategoryHTTPHandler) FindByID(c echo.Context) error {
	ctg, err := h.categorySvc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ctg)
}

// Create creates new category
// @Summary     Create category
// @Description Creates category with provided data
// @Tags        categories
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       category body     categoryPayload true "New category data"
// @Success     201      {object} model.Category
// @Failure     400      {object} echo.HTTPError
// @Failure     401      {object} echo.HTTPError
// @Failure     403      {object} echo.HTTPError
// @Router      /api/v1/categories [post]
func (h *CategoryHTTPHandler) Create(c echo.Context) error {
	var pld categoryPayload
	if err := c.Bind(&pld); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&pld); err != nil {
		return err
	}

	ctg, err := h.categorySvc.Create(c.Request().Context(), pld.toModel(""))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ctg)
}

// Update updates category
// @Summary     Update category
// @Description Updates category with provided data
// @Tags        categories
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       id       path     string          true "Category id"
// @Param       category body     categoryPayload true "Category data"
// @Success     200      {object} model.Category
// @Failure     400      {object} echo.HTTPError
// @Failure     401      {object} echo.HTTPError
// @Failure     403      {object} echo.HTTPError
// @Failure     404      {object} echo.HTTPError
// @Router      /api/v1/categories/{id} [put]
func (h *CategoryHTTPHandler) Update(c echo.Context) error {
	var pld categoryPayload
	if err := c.Bind(&pld); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&pld); err != nil {
		return err
	}

	ctg, err := h.categorySvc.Update(c.Request().Context(), pld.toModel(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ctg)
}

// DeleteByID deletes category
// @Summary     Delete category
// @Description Deletes category with provided id
// @Tags        categories
// @Security	ApiKeyAuth
// @Param       id path string true "Category id"
// @Success     204 "Successful status code"
// @Failure     401 {object} echo.HTTPError
// @Failure     403 {object} echo.HTTPError
// @Router      /api/v1/categories/{id} [delete]
func (h *CategoryHTTPHandler) DeleteByID(c echo.Context) error {
	if err := h.categorySvc.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
