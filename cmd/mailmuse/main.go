package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mailmuse/internal/config"
	"mailmuse/internal/database"
	"mailmuse/internal/digest"
	"mailmuse/internal/fetcher"
	"mailmuse/internal/handlers"
	"mailmuse/internal/ingest"
	"mailmuse/internal/metrics"
	"mailmuse/internal/normalizer"
	"mailmuse/internal/sanitizer"
	"mailmuse/internal/scheduler"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting MailMuse API service")

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	m := metrics.NewMetrics()

	ctx := context.Background()

	var mailFetcher fetcher.MessageFetcher
	if cfg.Gmail.UseIMAP {
		mailFetcher, err = fetcher.NewIMAPFetcher(&cfg.Gmail)
		if err != nil {
			logrus.Fatalf("Failed to create IMAP fetcher: %v", err)
		}
		logrus.Info("Using IMAP for mail fetching")
	} else {
		mailFetcher, err = fetcher.NewGmailFetcher(ctx, &cfg.Gmail)
		if err != nil {
			logrus.Fatalf("Failed to create Gmail fetcher: %v", err)
		}
		logrus.Info("Using Gmail API for mail fetching")
	}

	norm := normalizer.New(sanitizer.New())

	var marker *ingest.MarkerStore
	if cfg.Ingest.UseMarkerFile {
		marker = ingest.NewMarkerStore(cfg.Ingest.MarkerFilePath)
	}

	ingester := ingest.New(db, mailFetcher, norm, marker, cfg.Ingest, m)
	generator := digest.New(db, cfg.Digest, m)

	sched := scheduler.New(&cfg.Scheduler, ingester, generator)

	h := handlers.NewHandlers(db)
	router := setupRouter(h)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Scheduler.Enabled {
		if err := sched.Start(); err != nil {
			logrus.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	if err := mailFetcher.Close(); err != nil {
		logrus.Errorf("Failed to close fetcher: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}

// setupRouter sets up the HTTP router with middleware
func setupRouter(h *handlers.Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware())

	h.SetupRoutes(router)

	return router
}

// loggerMiddleware adds logging middleware
func loggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	})
}
