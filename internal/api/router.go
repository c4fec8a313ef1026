package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"platform-hunt/internal/game"
	"platform-hunt/internal/world"
)

// EngineInterface defines the engine methods used by the API.
// This interface enables fakes in tests without running the tick loop.
// Keep this minimal - only include methods the API layer actually calls.
type EngineInterface interface {
	// Snapshot returns the immutable world after the last tick
	Snapshot() *game.WorldSnapshot
	// Stats returns engine counters
	Stats() game.EngineStats
	// Table returns the static room definitions
	Table() *world.Table
	// Connect claims a player slot for sink
	Connect(ctx context.Context, sink game.Sink) (uint8, error)
	// Enqueue offers an input event without blocking
	Enqueue(ev game.Event) bool
	// Disconnect frees a slot if it still belongs to sink
	Disconnect(ctx context.Context, idx uint8, sink game.Sink) error
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: fakeEngine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the simulation (required)
	Engine EngineInterface

	// EventLog is optional; its counters are reported by /api/stats.
	EventLog *game.EventLog

	// Logger is used for request logging. Nil disables it.
	Logger *zap.Logger

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is only used if RateLimiter is nil.
	// If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	CORSOrigins []string
}

type routerHandlers struct {
	engine   EngineInterface
	eventLog *game.EventLog
	limiter  *IPRateLimiter
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: apart from the rate limiter's cleanup goroutine (owned by
// the caller when RateLimiter is passed in) this opens no listeners and
// starts no workers, so it is safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if cfg.Logger != nil {
		r.Use(requestLogger(cfg.Logger.Named("http")))
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := &routerHandlers{
		engine:   cfg.Engine,
		eventLog: cfg.EventLog,
		limiter:  rateLimiter,
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)

		r.Get("/rooms", h.handleGetRooms)
		r.Get("/rooms/{room}", h.handleGetRoom)
		r.Get("/players/{index}", h.handleGetPlayer)
	})

	r.Get("/health", h.handleHealth)

	return r
}
