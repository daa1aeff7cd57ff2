package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/repository"
	"github.com/pattarapk/storefront/internal/service"
)

type productPayload struct {
	CategoryID    *string `json:"categoryId" validate:"omitempty,uuid"`
	Name          string  `json:"name" validate:"required,max=255"`
	Slug          string  `json:"slug" validate:"omitempty,max=255"`
	SKU           *string `json:"sku" validate:"omitempty,max=64"`
	Description   *string `json:"description"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	ImageURL      *string `json:"imageUrl" validate:"omitempty,url"`
	Active        bool    `json:"active"`
}

func (p *productPayload) toModel(id string) *model.Product {
	return &model.Product{
		ID:            id,
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Slug:          p.Slug,
		SKU:           p.SKU,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		Active:        p.Active,
	}
}

// ProductHTTPHandler is http handler for product endpoint
type ProductHTTPHandler struct {
	productSvc service.ProductService
}

// NewProductHTTPHandler builds new ProductHTTPHandler
func NewProductHTTPHandler(productSvc service.ProductService) *ProductHTTPHandler {
	return &ProductHTTPHandler{productSvc: productSvc}
}

// FindAll returns products
// @Summary     All products
// @Description Returns products, optionally narrowed to a category or to active only
// @Tags        products
// @Produce     json
// @Param       categoryId query string false "Category id"
// @Param       active     query bool   false "Only active products"
// @Success     200 {array}  model.Product
// @Failure     500 {object} echo.HTTPError
// @Router      /api/v1/products [get]
func (h *ProductHTTPHandler) FindAll(c echo.Context) error {
	filter := repository.ProductFilter{
		OnlyActive: c.QueryParam("active") == "true",
	}
	if categoryID := c.QueryParam("categoryId"); categoryID != "" {
		filter.CategoryID = &categoryID
	}

	products, err := h.productSvc.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// FindByID returns single product
// @Summary     Single product
// @Description Returns product with provided id
// @Tags        products
// @Produce     json
// @Param       id  path     string true "Product id"
// @Success     200 {object} model.Product
// @Failure     404 {object} echo.HTTPError
// @Router      /api/v1/products/{id} [get]
func (h *ProductHTTPHandler) FindByID(c echo.Context) error {
	p, err := h.productSvc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create creates new product
// @Summary     Create product
// @Description Creates product with provided data
// @Tags        products
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       product body     productPayload true "New product data"
// @Success     201     {object} model.Product
// @Failure     400     {object} echo.HTTPError
// @Failure     401     {object} echo.HTTPError
// @Failure     403     {object} echo.HTTPError
// @Router      /api/v1/products [post]
func (h *ProductHTTPHandler) Create(c echo.Context) error {
	var pld productPayload
	if err := c.Bind(&pld); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&pld); err != nil {
		return err
	}

	p, err := h.productSvc.Create(c.Request().Context(), pld.toModel(""))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update updates product
// @Summary     Update product
// @Description Updates product with provided data
// @Tags        products
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       id      path     string         true "Product id"
// @Param       product body     productPayload true "Product data"
// @Success     200     {object} model.Product
// @Failure     400     {object} echo.HTTPError
// @Failure     401     {object} echo.HTTPError
// @Failure     403     {object} echo.HTTPError
// @Failure     404     {object} echo.HTTPError
// @Router      /api/v1/products/{id} [put]
func (h *ProductHTTPHandler) Update(c echo.Context) error {
	var pld productPayload
	if err := c.Bind(&pld); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&pld); err != nil {
		return err
	}

	p, err := h.productSvc.Update(c.Request().Context(), pld.toModel(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteByID deletes product
// @Summary     Delete product
// @Description Soft deletes product with provided id
// @Tags        products
// @Security	ApiKeyAuth
// @Param       id path string true "Product id"
// @Success     204 "Successful status code"
// @Failure     401 {object} echo.HTTPError
// @Failure     403 {object} echo.HTTPError
// @Router      /api/v1/products/{id} [delete]
func (h *ProductHTTPHandler) DeleteByID(c echo.Context) error {
	if err := h.productSvc.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
