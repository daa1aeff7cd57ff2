package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/repository"
)

// CategoryService is category tree behavior
type CategoryService interface {
	FindAll(ctx context.Context, onlyActive bool) ([]*model.Category, error)
	FindByID(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) (*model.Category, error)
	Update(ctx context.Context, c *model.Category) (*model.Category, error)
	DeleteByID(ctx context.Context, id string) error
}

type categoryService struct {
	categoryRps repository.CategoryRepository
}

// NewCategoryService builds new CategoryService
func NewCategoryService(categoryRps repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRps: categoryRps}
}

func (s *categoryService) FindAll(ctx context.Context, onlyActive bool) ([]*model.Category, error) {
	return s.categoryRps.FindAll(ctx, onlyActive)
}

func (s *categoryService) FindByID(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.categoryRps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	if c.ParentID != nil {
		parent, err := s.categoryRps.FindByID(ctx, *c.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "parent category does not exist")
		}
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Slug == "" {
		c.Slug = slugify(c.Name)
	}

	if err := s.categoryRps.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	existing, err := s.categoryRps.FindByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "category not found")
	}

	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	if c.Slug == "" {
		c.Slug = slugify(c.Name)
	}

	if err := s.categoryRps.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) DeleteByID(ctx context.Context, id string) error {
	return s.categoryRps.DeleteByID(ctx, id)
}
