package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/transport/http/handler"
	appmiddleware "github.com/go-otp-auth/internal/transport/http/middleware"
)

// NewRouter builds the application router. The returned stop func releases
// the rate limiter's cleanup goroutine.
func NewRouter(cfg *config.Config, deps *Deps) (http.Handler, func()) {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var onReject func()
	if deps.Metrics != nil {
		onReject = deps.Metrics.RateLimited
	}
	// 5 requests/second, burst of 10, per client IP.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10, onReject)

	healthH := handler.NewHealthHandler(deps.HealthChecks)
	authH := handler.NewAuthHandler(deps.AuthService)

	r.Get("/health", healthH.Health)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)
			r.Post("/register", authH.Register)
			r.Post("/otp/verify", authH.VerifyOTP)
			r.Post("/otp/resend", authH.ResendOTP)
			r.Post("/login", authH.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.TokenVerifier))
			r.Use(appmiddleware.RequireVerified)
			r.Get("/me", authH.Me)
		})
	})

	return r, sensitiveRL.Stop
}
