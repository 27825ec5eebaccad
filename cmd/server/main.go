package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httpadapter "cv-architect/internal/adapter/http"
	"cv-architect/internal/config"
	"cv-architect/internal/consent"
	"cv-architect/internal/document"
	"cv-architect/internal/logger"
	"cv-architect/internal/model"
	"cv-architect/internal/preview"
	"cv-architect/internal/storage"
	"cv-architect/internal/usecase"
	"cv-architect/internal/wizard"
	"cv-architect/pkg/backend"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	// Durable state: Postgres when configured, in-memory otherwise.
	// Persistence is best-effort throughout, so a missing database only
	// costs cross-restart continuity.
	var durable storage.Store = storage.NewMemory()
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			zlog.Warn("profile DB not available, falling back to in-memory state", zap.Error(err))
		} else {
			durable = pg
			defer pg.Close()
		}
	}

	docs := document.NewStore(durable, zlog)
	docs.Load(ctx)
	docs.Subscribe(func(doc model.CVData) {
		zlog.Debug("document changed", zap.String("name", doc.Personal.Name))
	})

	steps := wizard.NewController(docs)

	consentMgr := consent.NewManager(durable, zlog)
	consentMgr.Load(ctx)
	jar := consent.NewStorageJar(durable, zlog)
	gateway := consent.NewGateway(consentMgr, jar, durable, zlog)

	api := backend.NewClientWithBaseURL(cfg.BackendURL, zlog)
	session := usecase.NewSession(docs, steps, api, zlog)

	renderer, err := preview.NewRenderer()
	if err != nil {
		zlog.Fatal("preview templates failed to load", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: "cv-architect"})
	h := httpadapter.NewHandler(session, consentMgr, gateway, renderer, zlog)
	h.Register(app)

	zlog.Info("HTTP server listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
