package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/services"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	if err := handlers.RegisterValidators(); err != nil {
		logger.Error("validator registration failed", "error", err)
		os.Exit(1)
	}

	// API istemcisi trace başlıklarını bu propagator ile ekler.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	client := api.NewClient(cfg.APIBaseURL, cfg.APIPath,
		api.WithTimeout(cfg.APITimeout),
		api.WithLogger(logger),
	)
	mail := services.NewEmailService(services.SMTPSettings{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
	}, logger)

	sessions := handlers.NewSessions(handlers.NewControllerFactory(client, mail, logger))
	h := handlers.NewHandler(sessions, cfg.DefaultPage, cfg.TLSEnabled(), logger)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		logger.Warn("trusted proxies not set", "error", err)
	}

	renderer, err := handlers.LoadTemplates(cfg.TemplateDir, handlers.Pages)
	if err != nil {
		logger.Error("templates failed to load", "dir", cfg.TemplateDir, "error", err)
		os.Exit(1)
	}
	r.HTMLRender = renderer
	r.Static("/static", cfg.StaticDir)
	r.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	h.Register(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Boşta kalan oturumları temizleme goroutine'i
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Cleanup(cfg.SessionTTL); n > 0 {
					logger.Info("sessions evicted", "count", n, "live", sessions.Len())
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			logger.Info("HTTPS server starting", "addr", srv.Addr, "api", cfg.APIBaseURL, "store", cfg.APIPath)
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			logger.Info("HTTP server starting", "addr", srv.Addr, "api", cfg.APIBaseURL, "store", cfg.APIPath)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
