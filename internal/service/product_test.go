package service

import (
	"context"
	"errors"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	cacheMocks "github.com/pattarapk/storefront/internal/cache/mocks"
	"github.com/pattarapk/storefront/internal/model"
	rpsMocks "github.com/pattarapk/storefront/internal/repository/mocks"
)

type productTestData struct {
	ctx     context.Context
	product *model.Product
}

type productServiceTestSuite struct {
	suite.Suite
	productSvc       ProductService
	productRpsMock   *rpsMocks.ProductRepository
	productCacheMock *cacheMocks.ProductCache
	testData         *productTestData
}

func (s *productServiceTestSuite) SetupSuite() {
	s.testData = &productTestData{
		ctx: context.Background(),
		product: &model.Product{
			ID:            "ecc770d9-4576-4f72-affa-8b1454246692",
			Name:          "Wireless Mouse",
			Slug:          "wireless-mouse",
			Price:         24.90,
			StockQuantity: 120,
			Active:        true,
		},
	}
}

func (s *productServiceTestSuite) SetupTest() {
	t := s.T()
	s.productRpsMock = rpsMocks.NewProductRepository(t)
	s.productCacheMock = cacheMocks.NewProductCache(t)
	s.productSvc = NewProductService(s.productRpsMock, s.productCacheMock)
}

func (s *productServiceTestSuite) TestFindByIDFromCache() {
	ctx := s.testData.ctx
	product := s.testData.product

	s.productCacheMock.On("FindByID", ctx, product.ID).Return(product, nil).Once()

	s.T().Log("product must be found in cache")
	{
		_, err := s.productSvc.FindByID(ctx, product.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.productRpsMock.AssertNotCalled(s.T(), "FindByID", ctx, product.ID)
	}
}

func (s *productServiceTestSuite) TestFindByIDNotFound() {
	ctx := s.testData.ctx
	product := s.testData.product

	s.productCacheMock.On("FindByID", ctx, product.ID).Return(nil, nil).Once()
	s.productRpsMock.On("FindByID", ctx, product.ID).Return(nil, nil).Once()

	s.T().Log("product is missing in cache and in primary datasource")
	{
		_, err := s.productSvc.FindByID(ctx, product.ID)
		s.Assert().Error(err, "missing product must be reported")
		s.Assert().IsType(&echo.HTTPError{}, err, "error must be echo error")
		s.productCacheMock.AssertNotCalled(s.T(), "Cache", ctx, mock.AnythingOfType("*model.Product"))
	}
}

func (s *productServiceTestSuite) TestFindByIDCached() {
	ctx := s.testData.ctx
	product := s.testData.product

	s.productCacheMock.On("FindByID", ctx, product.ID).Return(nil, nil).Once()
	s.productRpsMock.On("FindByID", ctx, product.ID).Return(product, nil).Once()
	s.productCacheMock.On("Cache", ctx, product).Return(nil).Once()

	s.T().Log("product is not in cache, found in primary datasource and cached")
	{
		p, err := s.productSvc.FindByID(ctx, product.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().NotNil(p, "product must be found")
	}
}

func (s *productServiceTestSuite) TestFindByIDCacheFailureNotFatal() {
	ctx := s.testData.ctx
	product := s.testData.product

	s.productCacheMock.On("FindByID", ctx, product.ID).Return(nil, errors.New("cache err")).Once()
	s.productRpsMock.On("FindByID", ctx, product.ID).Return(product, nil).Once()
	s.productCacheMock.On("Cache", ctx, product).Return(nil).Once()

	s.T().Log("cache read fails, product is served from primary datasource")
	{
		p, err := s.productSvc.FindByID(ctx, product.ID)
		s.Assert().NoError(err, "cache failure must not fail the lookup")
		s.Assert().NotNil(p, "product must be found")
	}
}

func (s *productServiceTestSuite) TestCreateDerivesSlug() {
	ctx := s.testData.ctx

	s.productRpsMock.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil).Once()

	s.T().Log("created product gets id, timestamps and slug derived from name")
	{
		p, err := s.productSvc.Create(ctx, &model.Product{Name: "Mechanical Keyboard", Price: 89.0})
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().NotEmpty(p.ID, "id must be assigned")
		s.Assert().Equal("mechanical-keyboard", p.Slug, "slug must be derived from name")
		s.Assert().False(p.CreatedAt.IsZero(), "created at must be assigned")
	}
}

func (s *productServiceTestSuite) TestUpdateEvictsCache() {
	ctx := s.testData.ctx
	product := s.testData.product

	s.productRpsMock.On("FindByID", ctx, product.ID).Return(product, nil).Once()
	s.productRpsMock.On("Update", ctx, mock.AnythingOfType("*model.Product")).Return(nil).Once()
	s.productCacheMock.On("EvictByID", ctx, product.ID).Return(nil).Once()

	s.T().Log("updated product is evicted from cache")
	{
		upd := *product
		upd.Price = 19.90
		_, err := s.productSvc.Update(ctx, &upd)
		s.Assert().NoError(err, "no error must be raised")
		s.productCacheMock.AssertCalled(s.T(), "EvictByID", ctx, product.ID)
	}
}

func (s *productServiceTestSuite) TestUpdateUnknownProduct() {
	ctx := s.testData.ctx
	product := s.testData.product

	s.productRpsMock.On("FindByID", ctx, product.ID).Return(nil, nil).Once()

	s.T().Log("update of missing product is rejected")
	{
		_, err := s.productSvc.Update(ctx, product)
		s.Assert().Error(err, "missing product must be reported")
		s.Assert().IsType(&echo.HTTPError{}, err, "error must be echo error")
	}
}

func (s *productServiceTestSuite) TestDeleteByIDSoftDeletesAndEvicts() {
	ctx := s.testData.ctx
	product := s.testData.product

	s.productRpsMock.On("SoftDeleteByID", ctx, product.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.productCacheMock.On("EvictByID", ctx, product.ID).Return(nil).Once()

	s.T().Log("deleted product keeps its row and leaves the cache")
	{
		err := s.productSvc.DeleteByID(ctx, product.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.productRpsMock.AssertCalled(s.T(), "SoftDeleteByID", ctx, product.ID, mock.AnythingOfType("time.Time"))
	}
}

func (s *productServiceTestSuite) TestDeleteByIDEvictFailureNotFatal() {
	ctx := s.testData.ctx
	product := s.testData.product

	s.productRpsMock.On("SoftDeleteByID", ctx, product.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.productCacheMock.On("EvictByID", ctx, product.ID).Return(errors.New("cache err")).Once()

	s.T().Log("cache eviction failure must not fail the delete")
	{
		err := s.productSvc.DeleteByID(ctx, product.ID)
		s.Assert().NoError(err, "no error must be raised")
	}
}

// start product service test suite
func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(productServiceTestSuite))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Cat Food":           "cat-food",
		"  Trimmed   Name  ": "trimmed-name",
		"lower":              "lower",
	}

	for name, want := range cases {
		if got := slugify(name); got != want {
			t.Errorf("slugify(%q) = %q, want %q", name, got, want)
		}
	}
}
