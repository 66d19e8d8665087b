package api

import (
	"context"
	"fmt"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/rohits-web03/referly/docs"
	"github.com/rohits-web03/referly/internal/api/handlers"
	"github.com/rohits-web03/referly/internal/api/middleware"
	"github.com/rohits-web03/referly/internal/auth"
	"github.com/rohits-web03/referly/internal/utils"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Handler *handlers.Handler
	Tokens  *auth.TokenManager
	Users   middleware.UserFinder
	Limiter *middleware.RateLimiter
	Cors    cors.Options
	Log     *logrus.Logger
	Health  Pinger

	// GoogleEnabled registers the Google sign-in routes.
	GoogleEnabled bool
}

func SetupRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handler
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(cfg.Tokens, cfg.Users, cfg.Log)
	authed := func(fn handlers.HandlerFunc) http.Handler {
		return requireAuth(h.Handle(fn))
	}
	admin := func(fn handlers.HandlerFunc) http.Handler {
		return requireAuth(middleware.RequireAdmin(h.Handle(fn)))
	}
	limited := func(fn handlers.HandlerFunc) http.Handler {
		if cfg.Limiter == nil {
			return h.Handle(fn)
		}
		return cfg.Limiter.Middleware(h.Handle(fn))
	}

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health.Ping(r.Context()); err != nil {
				cfg.Log.WithError(err).Warn("health check failed")
				utils.Message(w, http.StatusServiceUnavailable, "Database unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	mux.Handle("GET /docs/", httpSwagger.WrapHandler)

	mux.Handle("POST /api/signup", limited(h.Signup))
	mux.Handle("POST /api/login", limited(h.Login))
	mux.Handle("GET /api/qrcode", h.Handle(h.GetQRCode))

	if cfg.GoogleEnabled {
		mux.Handle("GET /api/auth/google/login", h.Handle(h.GoogleLogin))
		mux.Handle("GET /api/auth/google/callback", limited(h.GoogleCallback))
	}

	// ---------- PROTECTED ROUTES ----------
	mux.Handle("GET /api/verify", authed(h.Verify))

	// ---------- ADMIN ROUTES ----------
	mux.Handle("GET /api/users", admin(h.ListUsers))
	mux.Handle("GET /api/referrals/{userId}", admin(h.ListReferrals))
	mux.Handle("POST /api/qrcode", admin(h.SetQRCode))
	mux.Handle("DELETE /api/qrcode", admin(h.DeleteQRCode))
	mux.Handle("POST /api/qrcode/presign", admin(h.PresignQRCodeUpload))
	mux.Handle("POST /api/qrcode/complete", admin(h.CompleteQRCodeUpload))

	cfg.Log.Info("Router initialized")

	handler := cors.New(cfg.Cors).Handler(mux)
	handler = middleware.Recoverer(cfg.Log)(handler)
	handler = middleware.Logger(cfg.Log)(handler)
	return handler
}
