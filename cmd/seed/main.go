package main

import (
	"context"
	"flag"

	"github.com/adconnect/backend/internal/auth"
	"github.com/adconnect/backend/internal/config"
	"github.com/adconnect/backend/internal/db"
	"github.com/adconnect/backend/internal/seed"
	"github.com/adconnect/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	file := flag.String("file", cfg.SeedFile, "YAML fixture to load")
	flag.Parse()

	ctx := context.Background()

	fx, err := seed.Load(*file)
	if err != nil {
		log.Fatal("failed to load seed file", zap.String("file", *file), zap.Error(err))
	}

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{MaxConns: 2, MinConns: 1}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	res, err := seed.Apply(ctx, services.NewPgStore(pool), auth.PasswordHasher{Cost: cfg.BcryptCost}, fx, log)
	if err != nil {
		log.Fatal("failed to seed", zap.Error(err))
	}
	log.Info("seed complete",
		zap.String("file", *file),
		zap.Int("users", res.Users),
		zap.Int("campaigns", res.Campaigns),
		zap.Int("ad_requests", res.AdRequests),
	)
}
