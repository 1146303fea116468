package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/bond-curve-interpolation/internal/application/service"
	"github.com/damon-houk/bond-curve-interpolation/internal/config"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/cache"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/db"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/handler"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Fatal("Invalid log level", map[string]interface{}{"error": err.Error()})
	}
	log := logger.NewJSONLogger(os.Stdout, level)
	logger.SetDefaultLogger(log)

	log.Info("Starting bond curve rate service", map[string]interface{}{
		"address":   cfg.Server.Address,
		"storage":   cfg.Storage.Path,
		"in_memory": cfg.Storage.InMemory,
	})

	// Setup BadgerDB
	if !cfg.Storage.InMemory {
		if err := os.MkdirAll(cfg.Storage.Path, 0755); err != nil {
			log.Fatal("Failed to create database directory", map[string]interface{}{"error": err.Error()})
		}
	}

	badgerDB, err := db.OpenBadger(cfg.Storage.Path, cfg.Storage.InMemory)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{"error": err.Error()})
	}

	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Initialize services
	store := db.NewBadgerCurveStore(badgerDB)
	curveService := service.NewCurveService(store, db.ParseCurveCSV, log)
	var curveCache *cache.CurveTableCache
	if cfg.Cache.TTL > 0 {
		curveCache = cache.NewCurveTableCache(cfg.Cache.TTL)
		curveService.WithCache(curveCache)
	}

	// Setup router
	router := mux.NewRouter()
	handler.NewCurveHandler(curveService, log).RegisterRoutes(router)
	handler.NewRateHandler(curveService, log).RegisterRoutes(router)
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.RecoveryMiddleware(log),
	)

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if curveCache != nil {
		go curveCache.RunCleanup(ctx, cfg.Cache.TTL, log)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	log.Info("Server listening", map[string]interface{}{"address": cfg.Server.Address})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info("Server stopped", nil)
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("BONDCURVE_CONFIG"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
