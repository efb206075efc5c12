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

	"bytecart/internal/api"
	"bytecart/internal/config"
	"bytecart/internal/db"
	"bytecart/internal/media"
	"bytecart/internal/reminder"
	"bytecart/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting ByteCart backend...")

	// Database
	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		l.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		l.Fatalf("Failed to migrate database: %v", err)
	}

	// Image uploads
	mediaStore, err := media.NewStore(cfg.UploadDir)
	if err != nil {
		l.Fatalf("Failed to set up upload directory: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Daily expiry-reminder sweep
	if cfg.EmailHost != "" {
		mailer := &reminder.SMTPMailer{
			Host:      cfg.EmailHost,
			Port:      cfg.EmailPort,
			Username:  cfg.EmailUser,
			Password:  cfg.EmailPass,
			From:      cfg.EmailFrom,
			ClientURL: cfg.ClientURL,
		}
		svc := reminder.NewService(database, mailer, l)
		go func() {
			if err := svc.Start(ctx, cfg.ReminderHour, cfg.ReminderMinute); err != nil {
				l.Errorf("Reminder scheduler stopped with error: %v", err)
			}
		}()
	} else {
		l.Warn("EMAIL_HOST not set, expiry reminder emails are disabled")
	}

	// HTTP server
	router := api.NewRouter(database, cfg.JWTSecret, mediaStore, l)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.LoggingMiddleware(l)(router),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			l.Errorf("HTTP server shutdown: %v", err)
		}
	}()

	l.Infof("Server listening on :%s", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Fatalf("Server error: %v", err)
	}

	l.Info("Server stopped")
}
