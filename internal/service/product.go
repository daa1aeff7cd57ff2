package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/pattarapk/storefront/internal/cache"
	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/repository"
)

// ProductService is product catalog behavior
type ProductService interface {
	FindAll(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	Update(ctx context.Context, p *model.Product) (*model.Product, error)
	DeleteByID(ctx context.Context, id string) error
}

type productService struct {
	productRps   repository.ProductRepository
	productCache cache.ProductCache
}

// NewProductService builds new ProductService
func NewProductService(productRps repository.ProductRepository, productCache cache.ProductCache) ProductService {
	return &productService{productRps: productRps, productCache: productCache}
}

func (s *productService) FindAll(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, error) {
	return s.productRps.FindAll(ctx, filter)
}

func (s *productService) FindByID(ctx context.Context, id string) (*model.Product, error) {
	cached, err := s.productCache.FindByID(ctx, id)
	if err != nil {
		logrus.Errorf("failed to read product %s from cache - %v", id, err)
	}
	if cached != nil {
		return cached, nil
	}

	p, err := s.productRps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if err := s.productCache.Cache(ctx, p); err != nil {
		logrus.Errorf("failed to cache product %s - %v", id, err)
	}

	return p, nil
}

func (s *productService) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}

	if err := s.productRps.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	existing, err := s.productRps.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}

	if err := s.productRps.Update(ctx, p); err != nil {
		return nil, err
	}

	s.evict(ctx, p.ID)
	return p, nil
}

func (s *productService) DeleteByID(ctx context.Context, id string) error {
	if err := s.productRps.SoftDeleteByID(ctx, id, time.Now().UTC()); err != nil {
		return err
	}

	s.evict(ctx, id)
	return nil
}

func (s *productService) evict(ctx context.Context, id string) {
	if err := s.productCache.EvictByID(ctx, id); err != nil {
		logrus.Errorf("failed to evict product %s from cache - %v", id, err)
	}
}

// slugify derives a url slug from a display name, "Cat Food" -> "cat-food"
func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
