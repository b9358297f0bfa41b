package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"corkboard/internal/config"
	"corkboard/internal/handlers"
	"corkboard/internal/middleware"
	"corkboard/internal/repo"
	"corkboard/internal/service"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	middleware.SetLogger(sugar)
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	sessionRepo := repo.NewSessionRepository(gormDB)
	noteRepo := repo.NewNoteRepository(gormDB)

	userService := service.NewUserService(userRepo)
	sessionService := service.NewSessionService(sessionRepo, cfg.SessionTTL)
	noteService := service.NewNoteService(noteRepo)

	// background sweep of expired session rows; Resolve stays correct
	// without it, this just keeps the table small
	go func() {
		ticker := time.NewTicker(cfg.SessionTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := sessionService.SweepExpired(ctx); err != nil {
					sugar.Warnw("session sweep failed", "error", err)
				} else if n > 0 {
					sugar.Infow("swept expired sessions", "count", n)
				}
			}
		}
	}()

	h := handlers.NewHandler(userService, sessionService, noteService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"SessionTTL", cfg.SessionTTL,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
