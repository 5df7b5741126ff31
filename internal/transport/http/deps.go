package http

import (
	"net/http"

	"github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/transport/http/handler"
	appmiddleware "github.com/go-otp-auth/internal/transport/http/middleware"
)

// MetricsProvider serves the scrape endpoint and counts rejected requests.
type MetricsProvider interface {
	Handler() http.Handler
	RateLimited()
}

// Deps holds the collaborators the router wires into handlers.
type Deps struct {
	AuthService   auth.Service
	TokenVerifier appmiddleware.TokenVerifier
	Metrics       MetricsProvider           // optional
	HealthChecks  map[string]handler.Pinger // optional
}
