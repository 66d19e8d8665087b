package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohits-web03/referly/internal/api"
	"github.com/rohits-web03/referly/internal/api/handlers"
	"github.com/rohits-web03/referly/internal/api/middleware"
	"github.com/rohits-web03/referly/internal/api/services"
	"github.com/rohits-web03/referly/internal/auth"
	"github.com/rohits-web03/referly/internal/config"
	"github.com/rohits-web03/referly/internal/repositories"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
}

// @title Referly API
// @version 1.0
// @description Referral tracking backend: signup with referral codes, admin referral reports and the payment QR code.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := repositories.ConnectDatabase(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	store := repositories.NewStore(db)
	defer store.Close()

	admin, created, err := services.EnsureAdmin(ctx, store, cfg.Admin)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		log.WithFields(logrus.Fields{
			"email":  admin.Email,
			"userId": admin.UserID,
		}).Info("Admin created successfully")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	opts := handlers.Options{
		Store:         store,
		Tokens:        tokens,
		Log:           log,
		FrontendURL:   cfg.FrontendURL,
		SecureCookies: cfg.IsProduction(),
	}
	if cfg.R2.Enabled() {
		opts.Objects = repositories.NewR2Store(cfg.R2)
		log.Info("Successfully initialized R2 client")
	}
	if cfg.Google.Enabled() {
		opts.Google = services.NewGoogleOAuth(cfg.Google)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	handler := api.SetupRouter(api.RouterConfig{
		Handler:       handlers.New(opts),
		Tokens:        tokens,
		Users:         store,
		Limiter:       limiter,
		Cors:          cfg.CorsConfig,
		Log:           log,
		Health:        store,
		GoogleEnabled: cfg.Google.Enabled(),
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limiter.Run(gctx, time.Minute)
		return nil
	})

	g.Go(func() error {
		log.Infof("Starting Referly server on port: %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
