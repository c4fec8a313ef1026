package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"platform-hunt/internal/game"
)

// ServerConfig contains the dependencies of the public server.
type ServerConfig struct {
	Engine     EngineInterface
	EventLog   *game.EventLog
	Logger     *zap.Logger
	SinkBuffer int
	MaxWSPerIP int
	MaxWSTotal int
}

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with the WebSocket hub that admits players.
type Server struct {
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
	logger      *zap.Logger
}

// NewServer creates the API server. Nothing listens until Start.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Server{
		rateLimiter: NewIPRateLimiter(DefaultRateLimitConfig),
		logger:      cfg.Logger.Named("api"),
		httpServer:  &http.Server{ReadHeaderTimeout: 5 * time.Second},
	}
	s.wsHub = NewWebSocketHub(HubConfig{
		Engine:     cfg.Engine,
		Logger:     cfg.Logger,
		SinkBuffer: cfg.SinkBuffer,
		MaxPerIP:   cfg.MaxWSPerIP,
		MaxTotal:   cfg.MaxWSTotal,
	})

	s.router = NewRouter(RouterConfig{
		Engine:      cfg.Engine,
		EventLog:    cfg.EventLog,
		Logger:      cfg.Logger,
		RateLimiter: s.rateLimiter,
	})

	// The WebSocket route needs the hub instance, so it is not part of
	// the generic NewRouter factory.
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// Start listens on addr and serves until Shutdown. It returns nil after a
// graceful shutdown.
func (s *Server) Start(addr string) error {
	s.httpServer.Addr = addr
	s.httpServer.Handler = s.router

	s.logger.Info("API server starting", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the HTTP handler for use with httptest.
//
// Example:
//
//	server := api.NewServer(api.ServerConfig{Engine: engine})
//	ts := httptest.NewServer(server.Router())
//	defer ts.Close()
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Shutdown stops accepting requests and releases background workers.
// Hijacked WebSocket connections are not tracked by http.Server; they end
// when the engine closes their sinks.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
