package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/pattarapk/storefront/docs"
	"github.com/pattarapk/storefront/internal/config"
	"github.com/pattarapk/storefront/internal/infra"
	"github.com/pattarapk/storefront/internal/repository"
	"github.com/pattarapk/storefront/internal/service"
	"github.com/pattarapk/storefront/pkg/db/transactor"
)

const connectTimeout = 5 * time.Second
const shutdownTimeout = 10 * time.Second

// @title        Storefront API
// @version      1.0
// @description  Storefront backend with session rotation based authentication

// @securityDefinitions.apikey ApiKeyAuth
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pgPool, err := infra.Postgresql(ctx, cfg.PostgresCfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer pgPool.Close()

	redisClient, err := infra.Redis(ctx, cfg.RedisCfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer redisClient.Close()

	mongoClient, err := infra.Mongodb(ctx, cfg.MongoCfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logrus.Errorf("failed to disconnect from mongodb - %v", err)
		}
	}()

	start(pgPool, redisClient, mongoClient, cfg)
}

func start(pgPool *pgxpool.Pool, redisClient *redis.Client, mongoClient *mongo.Client, cfg config.Config) {
	app, err := infra.Router(pgPool, redisClient, mongoClient, cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	rfrTokenRps := repository.NewPostgresRefreshTokenRepository(transactor.NewPgxWithinTransactionExecutor(pgPool))
	go service.NewSweeper(rfrTokenRps, cfg.AuthCfg.RefreshTokenCfg.SweepInterval).Run(sweepCtx)

	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt)

	go func() {
		errorCh <- app.Start(fmt.Sprintf(":%d", cfg.HTTPCfg.Port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		app.Logger.Infof("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			app.Logger.Fatalf("failed to stop server gracefully - %s", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Fatalf("shutting down the server, unexpected error occurred - %s", err)
		}
	}
}
