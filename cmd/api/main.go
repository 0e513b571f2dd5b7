package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Nithya675/Consultant---Tracker/internal/app"
	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/config"
	"github.com/Nithya675/Consultant---Tracker/internal/database"
	authmod "github.com/Nithya675/Consultant---Tracker/internal/modules/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/modules/consultants"
	"github.com/Nithya675/Consultant---Tracker/internal/modules/jobs"
	"github.com/Nithya675/Consultant---Tracker/internal/modules/recruiters"
	"github.com/Nithya675/Consultant---Tracker/internal/modules/submissions"
	"github.com/Nithya675/Consultant---Tracker/internal/registry"
	"github.com/Nithya675/Consultant---Tracker/internal/services"
	"github.com/Nithya675/Consultant---Tracker/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Environment & Configuration
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from process environment")
	}
	cfg := config.Load()
	logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	logger.Info("starting consultant tracker API", "environment", cfg.Environment)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), cfg.BootstrapTimeout)
	defer cancelBoot()

	// 2. Database Connection
	db, err := database.Connect(bootCtx, cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// 3. Shared Services
	tokens := coreauth.NewTokenManager(cfg.SecretKey, cfg.AccessTokenExpiry)
	users := authmod.NewRepository(db, logger)
	mw := coreauth.NewMiddleware(tokens, users, logger)

	var classifier services.Classifier
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, JD classification disabled")
	} else if gc, err := services.NewGeminiClassifier(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, logger); err != nil {
		logger.Warn("classifier unavailable, JD classification disabled", "error", err)
	} else {
		classifier = gc
	}

	// 4. Upload Stores, one subtree per feature
	resumeStore := mustStore(logger, filepath.Join(cfg.UploadDir, "resumes"), cfg)
	jdStore := mustStore(logger, filepath.Join(cfg.UploadDir, "job_descriptions"), cfg)
	submissionStore := mustStore(logger, cfg.UploadDir, cfg)

	// 5. Module Descriptors, in mount order
	bootstrap := []*registry.Module{
		authmod.Module(authmod.Deps{Repo: users, Tokens: tokens, MW: mw, Logger: logger}),
		consultants.Module(consultants.Deps{Repo: consultants.NewRepository(db, logger), Files: resumeStore, MW: mw, Logger: logger}),
		recruiters.Module(recruiters.Deps{Repo: recruiters.NewRepository(db, logger), MW: mw, Logger: logger}),
		jobs.Module(jobs.Deps{Repo: jobs.NewRepository(db, logger), Files: jdStore, Classifier: classifier, MW: mw, Logger: logger}),
		submissions.Module(submissions.Deps{Repo: submissions.NewRepository(db, logger), Files: submissionStore, MW: mw, Logger: logger}),
	}

	// 6. Engine & Composition
	engine := app.NewEngine(cfg, logger)
	composer := app.NewComposer(app.Options{
		Modules:   registry.NewModuleRegistry(),
		Schemas:   registry.NewSchemaRegistry(),
		DB:        db,
		Router:    engine,
		APIPrefix: cfg.APIPrefix,
		Bootstrap: bootstrap,
		Logger:    logger,
	})

	report, err := composer.Compose(bootCtx)
	if err != nil {
		logger.Error("composition failed", "state", report.State, "error", err)
		os.Exit(1)
	}
	logger.Info("composition complete",
		"state", report.State,
		"modules", report.Modules,
		"indexes", len(report.Indexes),
		"failed_indexes", len(report.FailedIndexes()),
	)

	// 7. Root Endpoints outside the API prefix
	engine.GET("/", app.Info)
	engine.GET("/health", app.Health)

	// 8. Serve
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: engine}
	go func() {
		logger.Info("🚀 server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// 9. Graceful Shutdown: drain requests, then close Mongo last
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	logger.Info("signal received, shutting down", "signal", sig)

	shutCtx, cancelShut := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShut()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := db.Close(shutCtx); err != nil {
		logger.Error("mongo close failed", "error", err)
	}
	logger.Info("shutdown complete")
}

func mustStore(logger *slog.Logger, dir string, cfg *config.Settings) *storage.LocalStore {
	store, err := storage.NewLocalStore(dir, cfg.MaxUploadSize, cfg.AllowedUploadExts)
	if err != nil {
		logger.Error("upload store unavailable", "dir", dir, "error", err)
		os.Exit(1)
	}
	return store
}
