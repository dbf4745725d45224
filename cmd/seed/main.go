// seed inserts the sample dataset for local testing. Idempotent: skips when the table already has rows.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"central-lost-found/backend/internal/config"
	"central-lost-found/backend/internal/dataset"
	"central-lost-found/backend/internal/db"
	"central-lost-found/backend/internal/item/repository"
	"central-lost-found/backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("seed: open database", zap.Error(err))
	}
	defer conn.Close()

	repo := repository.NewPostgresRepository(conn)
	existing, err := repo.ExportAll(ctx)
	if err != nil {
		zl.Fatal("seed: check existing rows", zap.Error(err))
	}
	if len(existing) > 0 {
		zl.Info("seed: found_items not empty, skipping", zap.Int("rows", len(existing)))
		return
	}

	items, err := dataset.SampleItems()
	if err != nil {
		zl.Fatal("seed: load sample", zap.Error(err))
	}
	for _, it := range items {
		id, err := repo.Insert(ctx, it)
		if err != nil {
			zl.Fatal("seed: insert", zap.String("title", it.Title), zap.Error(err))
		}
		zl.Info("seed: inserted", zap.String("id", id), zap.String("title", it.Title))
	}
	zl.Info("seed: done", zap.Int("inserted", len(items)))
}
