package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "github.com/rogerio-castellano/grocery-inventory/docs"
	"github.com/rogerio-castellano/grocery-inventory/internal/cache"
	"github.com/rogerio-castellano/grocery-inventory/internal/config"
	"github.com/rogerio-castellano/grocery-inventory/internal/db"
	api "github.com/rogerio-castellano/grocery-inventory/internal/http"
	"github.com/rogerio-castellano/grocery-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/grocery-inventory/internal/http/rate_limiter"
	"github.com/rogerio-castellano/grocery-inventory/internal/logger"
	"github.com/rogerio-castellano/grocery-inventory/internal/notify"
	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
	"github.com/rogerio-castellano/grocery-inventory/internal/service"
	"go.uber.org/zap"
)

// @title Grocery Inventory API
// @version 1.0
// @description Batch tracking with first-expired-first-out suggestions, demand forecasts and reorder planning.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// a missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, lg); err != nil {
		return err
	}

	c, closeCache := buildCache(ctx, cfg, lg)
	defer closeCache()

	// Calendar days follow the configured zone.
	loc, err := time.LoadLocation(cfg.Server.TimeZone)
	if err != nil {
		return err
	}

	clock := func() time.Time { return time.Now().In(loc) }

	products := repo.NewPostgresProductRepository(database)
	batches := repo.NewPostgresBatchRepository(database)
	deps := service.Deps{
		Products:  products,
		Catalog:   repo.NewPostgresCatalogRepository(database),
		Batches:   batches,
		Movements: repo.NewPostgresMovementRepository(database),
		Metrics:   repo.NewPostgresMetricsRepository(database),
		Cache:     c,
		Logger:    lg,
		Now:       clock,
	}
	srv := handlers.NewServer(
		service.NewInventory(deps),
		service.NewPlanner(deps, service.DefaultsFromConfig(cfg.Planning, cfg.Cache)),
		lg,
	)

	limiter := rate_limiter.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.Cleanup(ctx, time.Minute)

	if cfg.Digest.Enabled {
		digest := notify.NewExpiryDigest(batches, products, notify.NewSMTPMailer(cfg.Digest), lg).WithClock(clock)
		go digest.Run(ctx)
	}

	router := api.NewRouter(srv, api.Options{
		JWTSecret: []byte(cfg.Auth.JWTSecret),
		Limiter:   limiter,
		Logger:    lg,
	})
	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server running", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// buildCache prefers Redis and falls back to an in-process cache when Redis
// is not configured or unreachable.
func buildCache(ctx context.Context, cfg config.Config, lg *zap.Logger) (cache.Cache, func()) {
	if !cfg.Cache.Enabled {
		return cache.Nop{}, func() {}
	}
	if cfg.Redis.Addr == "" {
		return cache.NewMemory(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	rc := cache.NewRedis(rdb, "grocery-inventory")
	if err := rc.Ping(ctx); err != nil {
		lg.Warn("redis unavailable, using in-memory cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		rdb.Close()
		return cache.NewMemory(), func() {}
	}
	return rc, func() { rdb.Close() }
}
