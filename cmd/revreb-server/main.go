// revreb-server hosts two-player duels over HTTP JSON.
package main

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"revreb/internal/catalog"
	"revreb/internal/game"
	"revreb/internal/server"
	"revreb/internal/store"
)

func main() {
	cfg, err := server.LoadConfig(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		os.Exit(2)
	}
	defer logger.Sync()

	cat, err := catalog.Load(logger)
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}

	decks, err := loadDecks(cfg)
	if err != nil {
		logger.Fatal("load decks", zap.Error(err))
	}

	var snap *store.Store
	if cfg.SnapshotDB != "" {
		snap, err = store.Open(cfg.SnapshotDB)
		if err != nil {
			logger.Fatal("open snapshot db", zap.Error(err))
		}
		defer snap.Close()
	}

	engine := game.NewEngine(cat, logger)
	srv := server.New(cfg, engine, decks, snap, logger)
	if err := srv.Restore(context.Background()); err != nil {
		logger.Fatal("restore matches", zap.Error(err))
	}

	logger.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.Int("cards", cat.Len()),
		zap.Bool("persistence", snap != nil))
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

func loadDecks(cfg server.Config) (*catalog.DeckFile, error) {
	if cfg.DecksFile != "" {
		return catalog.ParseDeckFile(cfg.DecksFile)
	}
	return catalog.DefaultDecks()
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
