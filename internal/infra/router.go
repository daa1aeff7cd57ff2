package infra

import (
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pattarapk/storefront/internal/auth"
	"github.com/pattarapk/storefront/internal/cache"
	"github.com/pattarapk/storefront/internal/config"
	"github.com/pattarapk/storefront/internal/handlers"
	"github.com/pattarapk/storefront/internal/middleware"
	"github.com/pattarapk/storefront/internal/repository"
	"github.com/pattarapk/storefront/internal/service"
	"github.com/pattarapk/storefront/internal/validation"
	"github.com/pattarapk/storefront/pkg/db/transactor"
)

// Router wires repositories, services and handlers into an echo instance
func Router(pgPool *pgxpool.Pool, redisClient *redis.Client, mongoClient *mongo.Client, cfg config.Config) (*echo.Echo, error) {
	e := echo.New()

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		c.Logger().Error(err.Error())
		e.DefaultHTTPErrorHandler(err, c)
	}

	enLocale := en.New()
	unvTranslator := ut.New(enLocale, enLocale)
	trans, ok := unvTranslator.GetTranslator("en")
	if !ok {
		return nil, fmt.Errorf("failed to build echo validator because of missing en translations")
	}
	e.Validator = validation.Echo(validator.New(), trans)

	// Transactors
	trx := transactor.NewPgxTransactor(pgPool)
	txExecutor := transactor.NewPgxWithinTransactionExecutor(pgPool)

	// Configs
	jwtCfg := cfg.AuthCfg.JwtCfg
	rfrTokenCfg := cfg.AuthCfg.RefreshTokenCfg

	// Extra functionality
	jwtIssuer := auth.NewJwtIssuer(jwtCfg.Issuer, jwtCfg.SigningMethod, jwtCfg.TimeToLive, jwtCfg.PrivateKey)
	jwtValidator := auth.NewJwtValidator(jwtCfg.SigningMethod, jwtCfg.PublicKey)

	// Middleware
	authenticateMw := middleware.Authenticate(jwtValidator, jwtCfg.CookieName)
	adminMw := middleware.RequireRole(auth.RoleAdmin)
	superAdminMw := middleware.RequireRole(auth.RoleSuperAdmin)

	// Repositories
	userRps := repository.NewPostgresUserRepository(txExecutor)
	rfrTokenRps := repository.NewPostgresRefreshTokenRepository(txExecutor)
	productRps := repository.NewPostgresProductRepository(txExecutor)
	categoryRps := repository.NewPostgresCategoryRepository(txExecutor)
	addressRps := repository.NewPostgresAddressRepository(txExecutor)
	activityRps := repository.NewMongoActivityLogRepository(mongoClient)

	// Caches
	productCache := cache.NewRedisProductCache(redisClient)

	// Services
	authSvc := service.NewAuthService(jwtIssuer, &rfrTokenCfg, trx, userRps, rfrTokenRps, activityRps)
	userSvc := service.NewUserService(userRps, rfrTokenRps)
	productSvc := service.NewProductService(productRps, productCache)
	categorySvc := service.NewCategoryService(categoryRps)
	addressSvc := service.NewAddressService(trx, addressRps)
	activitySvc := service.NewActivityService(activityRps)

	// Handlers
	authHandler := handlers.NewAuthHTTPHandler(authSvc, handlers.AuthCfg{
		Https:              cfg.HTTPCfg.Https,
		RefreshTokenCookie: rfrTokenCfg.CookieName,
	})
	userHandler := handlers.NewUserHTTPHandler(userSvc, authSvc, activitySvc)
	productHandler := handlers.NewProductHTTPHandler(productSvc)
	categoryHandler := handlers.NewCategoryHTTPHandler(categorySvc)
	addressHandler := handlers.NewAddressHTTPHandler(addressSvc)

	// API routes
	api := e.Group("", authenticateMw)

	// auth
	authAPI := api.Group("/api/auth")
	authAPI.POST("/signup", authHandler.Signup)
	authAPI.POST("/login", authHandler.Login)
	authAPI.POST("/refresh", authHandler.Refresh)
	authAPI.POST("/logout", authHandler.Logout)
	authAPI.POST("/logout-all", authHandler.LogoutAll, middleware.RequireAuthenticated)

	// users
	usersAPI := api.Group("/api/v1/users")
	usersAPI.GET("/me", userHandler.Me, middleware.RequireAuthenticated)
	usersAPI.GET("", userHandler.FindAll, adminMw)
	usersAPI.GET("/:id", userHandler.FindByID, adminMw)
	usersAPI.POST("", userHandler.Create, adminMw)
	usersAPI.PUT("/:id", userHandler.Update, adminMw)
	usersAPI.DELETE("/:id", userHandler.DeleteByID, superAdminMw)
	usersAPI.POST("/:id/force-logout", userHandler.ForceLogout, adminMw)
	usersAPI.GET("/:id/activity", userHandler.Activity, adminMw)

	// products, reads are public
	productsAPI := api.Group("/api/v1/products")
	productsAPI.GET("", productHandler.FindAll)
	productsAPI.GET("/:id", productHandler.FindByID)
	productsAPI.POST("", productHandler.Create, adminMw)
	productsAPI.PUT("/:id", productHandler.Update, adminMw)
	productsAPI.DELETE("/:id", productHandler.DeleteByID, adminMw)

	// categories, reads are public
	categoriesAPI := api.Group("/api/v1/categories")
	categoriesAPI.GET("", categoryHandler.FindAll)
	categoriesAPI.GET("/:id", categoryHandler.FindByID)
	categoriesAPI.POST("", categoryHandler.Create, adminMw)
	categoriesAPI.PUT("/:id", categoryHandler.Update, adminMw)
	categoriesAPI.DELETE("/:id", categoryHandler.DeleteByID, adminMw)

	// addresses, always scoped to the caller
	addressesAPI := api.Group("/api/v1/addresses", middleware.RequireAuthenticated)
	addressesAPI.GET("", addressHandler.FindAll)
	addressesAPI.POST("", addressHandler.Create)
	addressesAPI.PUT("/:id", addressHandler.Update)
	addressesAPI.PUT("/:id/default", addressHandler.MakeDefault)
	addressesAPI.DELETE("/:id", addressHandler.DeleteByID)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
