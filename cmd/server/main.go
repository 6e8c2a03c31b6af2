package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"veocraftpro/internal/app"
	"veocraftpro/internal/config"
	"veocraftpro/internal/server"
	"veocraftpro/internal/util"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	appCore, err := app.New(app.Config{
		DatabaseURL:        cfg.DatabaseURL,
		RedisAddr:          cfg.RedisAddr,
		RedisPassword:      cfg.RedisPassword,
		SessionTTL:         sessionTTL,
		JWTSecret:          cfg.JWTSecret,
		EncryptionKey:      cfg.EncryptionKey,
		TextAPIBaseURL:     cfg.TextAPIBaseURL,
		ImageAPIBaseURL:    cfg.ImageAPIBaseURL,
		CredentialFallback: cfg.CredentialFallback,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer := server.New(appCore)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
