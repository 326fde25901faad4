package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adconnect/backend/internal/auth"
	"github.com/adconnect/backend/internal/config"
	"github.com/adconnect/backend/internal/db"
	"github.com/adconnect/backend/internal/events"
	apphttp "github.com/adconnect/backend/internal/http"
	"github.com/adconnect/backend/internal/http/handlers"
	"github.com/adconnect/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{
		MaxConns: int32(cfg.PostgresMaxConns),
		MinConns: int32(cfg.PostgresMinConns),
	}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	store := services.NewPgStore(pool)
	denylist := auth.NewRedisDenylist(rdb)
	verifier := auth.Verifier{Secret: cfg.JWTSecret, Denylist: denylist}

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	authService := services.NewAuthService(store, denylist, services.AuthOptions{
		JWTSecret:        cfg.JWTSecret,
		JWTExpiration:    cfg.JWTExpiration,
		Hasher:           auth.PasswordHasher{Cost: cfg.BcryptCost},
		AllowAdminSignup: cfg.AllowAdminRegistration,
	}, log)
	campaignService := services.NewCampaignService(store, log)
	adRequestService := services.NewAdRequestService(store, publisher, log)
	profileService := services.NewProfileService(store, log)
	moderationService := services.NewModerationService(store, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, log)
	adRequestHandler := handlers.NewAdRequestHandler(adRequestService, log)
	influencerHandler := handlers.NewInfluencerHandler(profileService, log)
	adminHandler := handlers.NewAdminHandler(moderationService, log)
	wsHub := handlers.NewWSHub(verifier, subscriber, log)

	// Start WS hub
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to subscribe to events", zap.Error(err))
	}

	// Fiber app
	app := apphttp.NewApp(cfg, log)
	apphttp.SetupRouter(app, cfg, log, rdb, verifier,
		authHandler, campaignHandler, adRequestHandler, influencerHandler, adminHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
