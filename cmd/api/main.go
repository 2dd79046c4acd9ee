// Command api serves the employee directory REST API.
//
//	@title			Employee Directory API
//	@version		1.0
//	@description	CRUD directory of employees backed by MongoDB.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/staffdir/employee-directory/internal/api"
	"github.com/staffdir/employee-directory/internal/core/ports"
	"github.com/staffdir/employee-directory/internal/core/service"
	"github.com/staffdir/employee-directory/internal/core/validation"
	"github.com/staffdir/employee-directory/internal/infrastructure/db/mongo"
	"github.com/staffdir/employee-directory/internal/infrastructure/db/redis"
	"github.com/staffdir/employee-directory/internal/pkg/config"
	"github.com/staffdir/employee-directory/pkg/logger"
)

const serviceName = "employee-directory"

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	repo := mongo.NewEmployeeRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure employee indexes")
	}

	// --- Redis (optional, idempotent creates) ---
	var (
		rdb  *goredis.Client
		idem ports.IdempotencyStore
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, Idempotency-Key headers will be ignored")
		} else {
			defer rdb.Close()
			idem = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		}
	}

	// --- HTTP ---
	v := validation.New()
	employees := service.NewEmployeeService(repo, v, idem, log)

	e := api.NewRouter(api.Dependencies{
		Employees:   employees,
		Validator:   v,
		Logger:      log,
		Mongo:       db,
		Redis:       rdb,
		BasePath:    cfg.BasePath,
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("base_path", cfg.BasePath).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
