package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/anonto42/yatube/backend/internal/router"
	"github.com/anonto42/yatube/backend/pkg/config"
	"github.com/anonto42/yatube/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.EnvFileLoaded {
		logger.Debug("no .env file found, using process environment")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	var repos router.Repositories
	switch cfg.Storage {
	case "postgres":
		if repos, err = router.NewPostgresRepositories(db.Postgres, logger); err != nil {
			return err
		}
	case "memory":
		repos = router.NewMemoryRepositories()
		logger.Warn("using in-memory storage, data is lost on restart")
	default:
		return errors.New("STORAGE must be postgres or memory, got " + cfg.Storage)
	}

	var images media.ImageStore
	if db.Mongo != nil {
		if images, err = media.NewGridFSStore(db.Mongo.Database(cfg.MongoDatabase)); err != nil {
			return err
		}
		logger.Info("storing images in GridFS", zap.String("database", cfg.MongoDatabase))
	} else {
		images = media.NewMemoryStore()
		logger.Warn("MONGO_URI not set, images are kept in memory")
	}

	// FIREBASE_CREDENTIALS_PATH is optional; a nil verifier disables Firebase login.
	var verifier firebase.TokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, logger)
		if err != nil {
			return err
		}
		verifier = app.AuthClient
	}

	feedCache, err := cache.NewFeedCache(cfg.FeedCacheSize, cfg.FeedCacheTTL)
	if err != nil {
		return err
	}

	e := echo.New()
	router.SetupMiddleware(e, logger)
	err = router.SetupRoutes(e, router.Deps{
		Repos:    repos,
		Images:   images,
		Cache:    feedCache,
		Config:   cfg,
		Firebase: verifier,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
