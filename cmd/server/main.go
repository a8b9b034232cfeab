package main

import (
	"context"
	"ecosystem-server/internal/catalog"
	"ecosystem-server/internal/config"
	"ecosystem-server/internal/engine"
	"ecosystem-server/internal/infrastructure/storage"
	"ecosystem-server/internal/server"
	"ecosystem-server/internal/version"
	"ecosystem-server/pkg/logger"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Configuration
	var (
		configPath  string
		catalogPath string
		seed        int64
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file (defaults are embedded)")
	flag.StringVar(&catalogPath, "catalog", "", "Path to a species catalogue (overrides catalog.path)")
	flag.Int64Var(&seed, "seed", 0, "Master seed of every simulate call (0 for random)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.Fatal("Failed to load config: ", err)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	engineCfg := cfg.EngineConfig()
	if seed != 0 {
		engineCfg.Seed = seed
	}

	logger.Log.Info("Starting ecosystem server...")
	logger.Log.Info(version.String())
	if engineCfg.Seed != 0 {
		logger.Log.Infof("Using explicit master seed: %d", engineCfg.Seed)
	} else {
		logger.Log.Info("Using a fresh seed per simulation")
	}

	// 2. Storage
	store, closer, err := openStore(cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to open storage: ", err)
	}

	// 3. Service and catalogue
	svc := engine.NewService(store, engineCfg)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Log.Fatal("Failed to load species catalogue: ", err)
	}
	if cfg.Catalog.Seed {
		if _, err := catalog.Seed(context.Background(), svc, cat); err != nil {
			logger.Log.WithError(err).Error("Catalogue seeding failed")
		}
	}

	// 4. HTTP server with graceful shutdown
	srv := server.New(svc, cat, cfg.Server.Port)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown incomplete")
	}

	// Background simulations finish before the store goes away
	svc.Close()
	if err := closer.Close(); err != nil {
		logger.Log.WithError(err).Warn("Failed to close storage")
	}

	logger.Log.Info("Done.")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openStore(cfg config.StorageConfig) (engine.Repository, io.Closer, error) {
	if cfg.Driver == config.DriverMemory {
		logger.Log.Warn("Using in-memory storage, nothing survives a restart")
		return storage.NewMemoryStore(), nopCloser{}, nil
	}

	db, err := storage.OpenSQLite(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	logger.Log.WithFields(logrus.Fields{"driver": cfg.Driver, "path": cfg.Path}).Info("Storage opened")
	return db, db, nil
}
