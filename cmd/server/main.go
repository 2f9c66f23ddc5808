package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/swaraj0405/klias-campus-backend/internal/api"
	"github.com/swaraj0405/klias-campus-backend/internal/config"
	"github.com/swaraj0405/klias-campus-backend/internal/database"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
	"github.com/swaraj0405/klias-campus-backend/internal/services"
	"github.com/swaraj0405/klias-campus-backend/internal/smtp"
	"github.com/swaraj0405/klias-campus-backend/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	cfg.LogConfig(logger)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if cfg.SeedDemoData {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	// WebSocket hub doubles as the notifier for chat and mail events
	hub := websocket.NewHub(logger)
	go hub.Run()

	router := api.NewRouter(&api.RouterConfig{
		DB:             db,
		Notifier:       hub,
		Hub:            hub,
		Logger:         logger,
		APIKey:         cfg.APIKey,
		AllowedOrigins: splitOrigins(cfg.AllowedOrigins),
		RateLimit:      int(cfg.RateLimitRequests),
		RateBurst:      cfg.RateLimitBurst,
	})

	// SMTP delivery path shares the mailbox service with the HTTP API
	userRepo := repository.NewUserRepository(db)
	emailRepo := repository.NewEmailRepository(db)
	mailboxService := services.NewMailboxService(emailRepo, userRepo, hub)

	smtpBackend := smtp.NewBackend(&smtp.BackendConfig{
		UserRepo: userRepo,
		Mailbox:  mailboxService,
		Logger:   logger,
	})

	smtpCfg := &smtp.ServerConfig{
		Addr:          fmt.Sprintf(":%d", cfg.SMTPPort),
		Domain:        cfg.SMTPDomain,
		AllowInsecure: cfg.SMTPAllowInsecure,
	}
	smtpServer := smtp.NewSecureServer(smtpBackend, smtpCfg)

	errCh := make(chan error, 2)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		logger.Info("starting HTTP server", slog.String("addr", addr))
		if err := router.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	go func() {
		logger.Info("starting SMTP server", slog.String("addr", smtpCfg.Addr))
		if err := smtpServer.ListenAndServe(); err != nil {
			errCh <- fmt.Errorf("SMTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", slog.Any("error", err))
	}
	if err := smtpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("SMTP shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
	return nil
}

func splitOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
