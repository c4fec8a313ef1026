package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"platform-hunt/internal/metrics"
	"platform-hunt/internal/world"
)

var (
	// ErrServerFull is returned by Connect when every slot is taken.
	ErrServerFull = errors.New("game: server full")
	// ErrEngineStopped is returned when the tick loop is not running anymore.
	ErrEngineStopped = errors.New("game: engine stopped")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("game: engine already running")
	// ErrNonFinite is returned by Run when integration produced NaN or Inf.
	ErrNonFinite = errors.New("game: non-finite player state")
)

// Eviction reasons, also used as metric labels.
const (
	ReasonDisconnect = "disconnect"
	ReasonSinkClosed = "sink_closed"
	ReasonSinkFull   = "sink_full"
)

// EngineConfig configures an Engine. Zero values fall back to defaults.
type EngineConfig struct {
	Table        *world.Table
	TickInterval time.Duration
	QueueSize    int
	Seed         int64 // 0 picks a time-based seed
	Logger       *zap.Logger
	Renderer     Renderer  // nil disables frame fan-out
	EventLog     *EventLog // nil disables the gameplay log
}

// DefaultEngineConfig returns the production defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickInterval: 20 * time.Millisecond,
		QueueSize:    MaxPlayers,
	}
}

// EngineStats are counters for the HTTP API.
type EngineStats struct {
	Tick          uint64 `json:"tick"`
	LivePlayers   int    `json:"livePlayers"`
	InputsDropped uint64 `json:"inputsDropped"`
	Evictions     uint64 `json:"evictions"`
	Eliminations  uint64 `json:"eliminations"`
	Running       bool   `json:"running"`
}

// Engine is the authoritative simulation. All player, chain and scratch
// state is owned by the goroutine running Run; everything else talks to it
// through the event queue or reads the published snapshot.
type Engine struct {
	table    *world.Table
	interval time.Duration
	renderer Renderer
	eventLog *EventLog
	log      *zap.Logger
	seed     int64

	// Loop-owned state
	slots   [MaxPlayers]*Player
	chain   *Chain
	scratch []world.Scratch
	tick    uint64

	events   chan Event
	stopped  chan struct{}
	running  atomic.Bool
	snapshot atomic.Pointer[WorldSnapshot]

	inputsDropped atomic.Uint64
	evictions     atomic.Uint64
	eliminations  atomic.Uint64
	lastTick      atomic.Uint64
	livePlayers   atomic.Int64
}

// NewEngine creates an engine. It does not start ticking until Run.
func NewEngine(cfg EngineConfig) *Engine {
	def := DefaultEngineConfig()
	if cfg.Table == nil {
		cfg.Table = world.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	e := &Engine{
		table:    cfg.Table,
		interval: cfg.TickInterval,
		renderer: cfg.Renderer,
		eventLog: cfg.EventLog,
		log:      cfg.Logger.Named("engine"),
		seed:     cfg.Seed,
		chain:    NewChain(rand.New(rand.NewSource(cfg.Seed))),
		scratch:  world.NewScratch(cfg.Table),
		events:   make(chan Event, cfg.QueueSize),
		stopped:  make(chan struct{}),
	}
	e.snapshot.Store(&WorldSnapshot{Rooms: []RoomView{}})
	return e
}

// Table returns the room table the engine simulates.
func (e *Engine) Table() *world.Table { return e.table }

// Run drives the tick loop until ctx is cancelled or the simulation hits a
// fatal invariant violation. It may only be called once.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		e.closeAll()
		e.running.Store(false)
		close(e.stopped)
	}()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.log.Info("engine started",
		zap.Duration("tick", e.interval),
		zap.Int("rooms", e.table.Len()),
		zap.Int64("seed", e.seed))

	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped", zap.Uint64("ticks", e.tick))
			return nil

		case ev := <-e.events:
			e.apply(ev)

		case <-ticker.C:
			if err := e.step(); err != nil {
				e.log.Error("simulation halted", zap.Error(err))
				return err
			}
		}
	}
}

// Connect asks the loop for a slot bound to sink and waits for the answer.
// Once the request is queued it is always answered, even if ctx ends, so
// a slot is never assigned without the caller learning its index.
func (e *Engine) Connect(ctx context.Context, sink Sink) (uint8, error) {
	if e.isStopped() {
		return 0, ErrEngineStopped
	}
	reply := make(chan ConnectResult, 1)
	select {
	case e.events <- Connect{Sink: sink, Reply: reply}:
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-e.stopped:
		return 0, ErrEngineStopped
	}

	select {
	case res := <-reply:
		return res.Index, res.Err
	case <-e.stopped:
		return 0, ErrEngineStopped
	}
}

// Enqueue offers an input event without blocking. It reports false when
// the queue is full and the event was dropped.
func (e *Engine) Enqueue(ev Event) bool {
	select {
	case e.events <- ev:
		return true
	default:
		e.inputsDropped.Add(1)
		metrics.RecordInputDropped()
		return false
	}
}

// Disconnect frees idx if it still belongs to sink. Unlike Enqueue it
// waits for queue space, so a leave is never lost.
func (e *Engine) Disconnect(ctx context.Context, idx uint8, sink Sink) error {
	if e.isStopped() {
		return ErrEngineStopped
	}
	select {
	case e.events <- Disconnect{Index: idx, Sink: sink}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		return ErrEngineStopped
	}
}

func (e *Engine) isStopped() bool {
	select {
	case <-e.stopped:
		return true
	default:
		return false
	}
}

// Snapshot returns the world as of the last completed tick.
func (e *Engine) Snapshot() *WorldSnapshot {
	return e.snapshot.Load()
}

// Stats returns engine counters. Safe from any goroutine.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Tick:          e.lastTick.Load(),
		LivePlayers:   int(e.livePlayers.Load()),
		InputsDropped: e.inputsDropped.Load(),
		Evictions:     e.evictions.Load(),
		Eliminations:  e.eliminations.Load(),
		Running:       e.running.Load(),
	}
}

// apply turns one input event into a state toggle.
func (e *Engine) apply(ev Event) {
	switch ev := ev.(type) {
	case Connect:
		idx, err := e.join(ev.Sink)
		if ev.Reply != nil {
			ev.Reply <- ConnectResult{Index: idx, Err: err}
		}

	case Move:
		p := e.slots[ev.Index]
		if p == nil {
			return
		}
		switch ev.Dir {
		case DirUp:
			if ev.Pressed {
				p.JumpBuffer = JumpBufferTicks
			} else {
				p.cutJump()
			}
		case DirDown:
			p.HoldingDown = ev.Pressed
		case DirLeft:
			p.HoldingLeft = ev.Pressed
		case DirRight:
			p.HoldingRight = ev.Pressed
		}

	case Click:
		if p := e.slots[ev.Index]; p != nil {
			e.fire(p, ev.X, ev.Y)
		}

	case Disconnect:
		p := e.slots[ev.Index]
		if p == nil || (ev.Sink != nil && p.sink != ev.Sink) {
			return
		}
		e.evict(ev.Index, ReasonDisconnect)
	}
}

// join places a new player in the lowest vacant slot of room 0.
func (e *Engine) join(sink Sink) (uint8, error) {
	for i, p := range e.slots {
		if p != nil {
			continue
		}
		idx := uint8(i)
		spawn := e.table.Room(0).Spawn
		e.slots[i] = newPlayer(idx, 0, spawn, sink)
		e.chain.Join(idx)
		e.livePlayers.Store(int64(e.chain.Len()))
		metrics.SetLivePlayers(e.chain.Len())

		if e.eventLog != nil {
			e.eventLog.ResetPlayer(idx)
		}
		e.record(EventTypeJoin, i, JoinPayload{Room: 0, Target: e.chain.Target(idx)})
		e.log.Info("player joined", zap.Uint8("index", idx), zap.Uint8("target", e.chain.Target(idx)))
		return idx, nil
	}
	return 0, ErrServerFull
}

// evict clears a slot outside of elimination: the player's hunter inherits
// its target and no replacement is spawned.
func (e *Engine) evict(idx uint8, reason string) {
	p := e.slots[idx]
	if p == nil {
		return
	}
	e.chain.Remove(idx)
	e.slots[idx] = nil
	if p.sink != nil {
		p.sink.Close()
	}

	e.evictions.Add(1)
	e.livePlayers.Store(int64(e.chain.Len()))
	metrics.RecordEviction(reason)
	metrics.SetLivePlayers(e.chain.Len())

	e.record(EventTypeLeave, int(idx), LeavePayload{Reason: reason})
	e.log.Info("player left", zap.Uint8("index", idx), zap.String("reason", reason))
}

// step runs one tick: shots, then movement in ascending slot order, then
// frame fan-out and snapshot publication.
func (e *Engine) step() error {
	start := time.Now()
	e.tick++

	if e.chain.Len() > 0 {
		e.resolveBullets()

		for i := range e.slots {
			p := e.slots[i]
			if p == nil {
				continue
			}
			res := p.Tick(&e.slots, e.table)
			if !p.Body.Finite() {
				return fmt.Errorf("tick %d: player %d at %+v: %w", e.tick, i, p.Body, ErrNonFinite)
			}
			if res.Transit {
				metrics.RecordDoorTransit()
				e.record(EventTypeDoorTransit, i, DoorTransitPayload{From: res.FromRoom, To: p.Room})
			}
		}
	}

	views := e.buildViews()
	if e.emit(views) {
		views = e.buildViews()
	}
	e.publish(views, start)

	for i := range e.scratch {
		e.scratch[i].ClearBullets()
		e.scratch[i].ClearPaths()
	}

	metrics.RecordTick(time.Since(start))
	return nil
}

// emit renders each occupied room once and hands the same frame to every
// player in it. A sink that refuses the frame loses its slot. It reports
// whether any slot was cleared.
func (e *Engine) emit(views []RoomView) (evicted bool) {
	if e.renderer == nil {
		return false
	}
	for _, v := range views {
		if len(v.Players) == 0 {
			continue
		}
		frame := e.renderer(v)
		for _, pv := range v.Players {
			p := e.slots[pv.Index]
			if p == nil || p.sink == nil {
				continue
			}
			switch err := p.sink.TrySend(frame); {
			case err == nil:
			case errors.Is(err, ErrSinkClosed):
				e.evict(pv.Index, ReasonSinkClosed)
				evicted = true
			default:
				e.evict(pv.Index, ReasonSinkFull)
				evicted = true
			}
		}
	}
	return evicted
}

func (e *Engine) publish(views []RoomView, at time.Time) {
	e.snapshot.Store(&WorldSnapshot{
		Tick:        e.tick,
		Timestamp:   at,
		PlayerCount: e.chain.Len(),
		Rooms:       views,
	})
	e.lastTick.Store(e.tick)
}

// closeAll releases every sink when the loop exits.
func (e *Engine) closeAll() {
	for i, p := range e.slots {
		if p != nil && p.sink != nil {
			p.sink.Close()
		}
		e.slots[i] = nil
	}
	e.livePlayers.Store(0)
	metrics.SetLivePlayers(0)
}

func (e *Engine) record(t EventType, player int, payload any) {
	if e.eventLog == nil {
		return
	}
	e.eventLog.Record(t, e.tick, player, payload)
}
