package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"platform-hunt/internal/game"
	"platform-hunt/internal/metrics"
	"platform-hunt/internal/protocol"
)

const (
	// MaxWSConnectionsTotal matches the number of player slots
	MaxWSConnectionsTotal = game.MaxPlayers

	// MaxWSConnectionsPerIP is the default per-IP connection cap
	MaxWSConnectionsPerIP = 10

	// DefaultSinkBuffer is how many frames may queue for a slow client
	// before the engine drops it.
	DefaultSinkBuffer = 16

	writeWait      = 5 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	connectTimeout = 5 * time.Second
	maxMessageSize = 64 // Intents are at most 5 bytes
)

// wsSink is the engine's handle on one connection's outbound queue.
// The engine never blocks on it: a full queue is reported and the
// player is dropped.
type wsSink struct {
	frames    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWSSink(buffer int) *wsSink {
	return &wsSink{
		frames: make(chan []byte, buffer),
		done:   make(chan struct{}),
	}
}

func (s *wsSink) TrySend(frame []byte) error {
	select {
	case <-s.done:
		return game.ErrSinkClosed
	default:
	}
	select {
	case s.frames <- frame:
		return nil
	default:
		return game.ErrSinkFull
	}
}

func (s *wsSink) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// HubConfig configures a WebSocketHub.
type HubConfig struct {
	Engine     EngineInterface
	Logger     *zap.Logger
	SinkBuffer int
	MaxPerIP   int
	MaxTotal   int
	// CheckOrigin overrides IsAllowedOrigin.
	CheckOrigin func(r *http.Request) bool
}

// WebSocketHub admits players over WebSocket with DoS protection and
// bridges each connection to an engine slot.
type WebSocketHub struct {
	engine     EngineInterface
	logger     *zap.Logger
	sinkBuffer int
	maxTotal   int
	upgrader   websocket.Upgrader

	wsLimiter *WebSocketRateLimiter
	active    atomic.Int64
}

// NewWebSocketHub creates a hub with connection limiting
func NewWebSocketHub(cfg HubConfig) *WebSocketHub {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.SinkBuffer <= 0 {
		cfg.SinkBuffer = DefaultSinkBuffer
	}
	if cfg.MaxPerIP <= 0 {
		cfg.MaxPerIP = MaxWSConnectionsPerIP
	}
	if cfg.MaxTotal <= 0 {
		cfg.MaxTotal = MaxWSConnectionsTotal
	}

	h := &WebSocketHub{
		engine:     cfg.Engine,
		logger:     cfg.Logger.Named("ws"),
		sinkBuffer: cfg.SinkBuffer,
		maxTotal:   cfg.MaxTotal,
		wsLimiter:  NewWebSocketRateLimiter(cfg.MaxPerIP),
	}

	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if IsAllowedOrigin(origin) {
				return true
			}
			h.logger.Warn("origin rejected", zap.String("origin", origin))
			metrics.RecordConnectionRejected("origin")
			return false
		}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  256,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
	return h
}

// ClientCount returns the number of open connections
func (h *WebSocketHub) ClientCount() int {
	return int(h.active.Load())
}

// HandleWebSocket upgrades the request, claims a player slot and runs the
// connection until either side goes away.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if n := h.ClientCount(); n >= h.maxTotal {
		h.logger.Warn("connection rejected: total limit", zap.Int("active", n))
		metrics.RecordConnectionRejected("ws_total_limit")
		writeError(w, "too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.wsLimiter.Allow(ip) {
		h.logger.Warn("connection rejected: per-IP limit", zap.String("ip", ip))
		metrics.RecordConnectionRejected("ws_ip_limit")
		writeError(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}
	defer h.wsLimiter.Release(ip)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("upgrade failed", zap.String("ip", ip), zap.Error(err))
		return
	}
	defer conn.Close()

	h.setActive(1)
	defer h.setActive(-1)

	sink := newWSSink(h.sinkBuffer)
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	idx, err := h.engine.Connect(ctx, sink)
	cancel()
	if err != nil {
		h.refuse(conn, ip, err)
		return
	}

	log := h.logger.With(zap.Uint8("index", idx), zap.String("ip", ip))
	log.Info("client connected")

	go h.writePump(conn, sink, idx, log)
	h.readPump(conn, idx, log)

	ctx, cancel = context.WithTimeout(context.Background(), connectTimeout)
	if err := h.engine.Disconnect(ctx, idx, sink); err != nil && !errors.Is(err, game.ErrEngineStopped) {
		log.Warn("disconnect not delivered", zap.Error(err))
	}
	cancel()
	sink.Close()
	log.Info("client disconnected")
}

func (h *WebSocketHub) setActive(delta int64) {
	metrics.SetWSConnections(int(h.active.Add(delta)))
}

// refuse tells the client why it did not get a slot.
func (h *WebSocketHub) refuse(conn *websocket.Conn, ip string, err error) {
	code := websocket.CloseInternalServerErr
	reason := "unavailable"
	switch {
	case errors.Is(err, game.ErrServerFull):
		code, reason = websocket.CloseTryAgainLater, "server full"
		metrics.RecordConnectionRejected("server_full")
	case errors.Is(err, game.ErrEngineStopped):
		code, reason = websocket.CloseGoingAway, "shutting down"
	}
	h.logger.Info("connection refused", zap.String("ip", ip), zap.Error(err))
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// readPump decodes intents into engine events until the socket fails or
// the client sends something that is not a valid intent.
func (h *WebSocketHub) readPump(conn *websocket.Conn, idx uint8, log *zap.Logger) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("read failed", zap.Error(err))
			}
			return
		}
		if mt != websocket.BinaryMessage {
			log.Debug("non-binary message")
			return
		}

		ev, err := protocol.DecodeIntent(buf, idx)
		if err != nil {
			log.Debug("bad intent", zap.Error(err))
			return
		}
		h.engine.Enqueue(ev)
	}
}

// writePump forwards frames with the receiver's index appended. It owns
// all writes to conn except the refusal close.
func (h *WebSocketHub) writePump(conn *websocket.Conn, sink *wsSink, idx uint8, log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame := <-sink.frames:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, protocol.AppendFooter(frame, idx)); err != nil {
				log.Debug("write failed", zap.Error(err))
				return
			}
			metrics.RecordWSFrame()

		case <-sink.done:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
