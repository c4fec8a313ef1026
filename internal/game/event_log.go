package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"platform-hunt/internal/metrics"
)

const (
	EventBufferSize    = 1024                   // Ring capacity
	MaxEventsPerSec    = 2000                   // Global rate limit
	MaxEventsPerPlayer = 50                     // Per-slot rate limit per second
	BatchFlushSize     = 64                     // Events per write batch
	BatchFlushInterval = 100 * time.Millisecond // How often to flush
)

// EventLog is a bounded, rate-limited gameplay log. Emit never blocks the
// tick loop: when the ring is full the oldest entry is overwritten, and a
// background writer appends batches to disk as JSON lines.
type EventLog struct {
	mu        sync.Mutex
	buffer    [EventBufferSize]LogEvent
	writeHead uint64 // next sequence to assign
	readHead  uint64 // oldest unflushed sequence

	globalLimiter  *rate.Limiter
	playerLimiters [MaxPlayers]*rate.Limiter

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	out    io.Writer
	closer io.Closer
	logger *zap.Logger

	droppedCount atomic.Uint64
	totalCount   atomic.Uint64
	writeErrors  atomic.Uint64
}

// EventLogStats is the monitoring view of the log.
type EventLogStats struct {
	Total       uint64 `json:"total"`
	Dropped     uint64 `json:"dropped"`
	Pending     uint64 `json:"pending"`
	WriteErrors uint64 `json:"writeErrors"`
	Running     bool   `json:"running"`
}

// NewEventLog creates a stopped event log.
func NewEventLog(logger *zap.Logger) *EventLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventLog{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan:      make(chan struct{}),
		logger:        logger.Named("eventlog"),
	}
}

// Start opens path for append and starts the writer. An empty path keeps
// the ring and counters running without persisting anything.
func (el *EventLog) Start(path string) error {
	if path == "" {
		el.StartWriter(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	el.closer = f
	el.StartWriter(f)
	return nil
}

// StartWriter starts the writer on an arbitrary destination.
func (el *EventLog) StartWriter(w io.Writer) {
	if !el.running.CompareAndSwap(false, true) {
		return
	}
	el.out = w
	el.writerWg.Add(1)
	go el.writerLoop()
}

// Stop flushes what is buffered and closes the destination.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		if el.closer != nil {
			if err := el.closer.Close(); err != nil {
				el.logger.Warn("close failed", zap.Error(err))
			}
		}
	})
}

// Emit appends an event. It returns false when the log is stopped or the
// event was rate limited.
func (el *EventLog) Emit(ev LogEvent) bool {
	if !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		el.drop()
		return false
	}
	if ev.Player >= 0 && ev.Player < MaxPlayers && !el.playerLimiter(ev.Player).Allow() {
		el.drop()
		return false
	}

	el.mu.Lock()
	if el.writeHead-el.readHead >= EventBufferSize {
		el.readHead++
		el.drop()
	}
	ev.Sequence = el.writeHead
	el.buffer[el.writeHead%EventBufferSize] = ev
	el.writeHead++
	el.mu.Unlock()

	el.totalCount.Add(1)
	metrics.RecordEventLogged()
	return true
}

// Record builds and emits an event in one call.
func (el *EventLog) Record(t EventType, tickNum uint64, player int, payload any) bool {
	return el.Emit(NewLogEvent(t, tickNum, player, payload))
}

// ResetPlayer gives slot idx a fresh token bucket for its next occupant.
func (el *EventLog) ResetPlayer(idx uint8) {
	el.mu.Lock()
	el.playerLimiters[idx] = nil
	el.mu.Unlock()
}

func (el *EventLog) playerLimiter(idx int) *rate.Limiter {
	el.mu.Lock()
	defer el.mu.Unlock()
	l := el.playerLimiters[idx]
	if l == nil {
		l = rate.NewLimiter(MaxEventsPerPlayer, MaxEventsPerPlayer/5)
		el.playerLimiters[idx] = l
	}
	return l
}

func (el *EventLog) drop() {
	el.droppedCount.Add(1)
	metrics.RecordEventDropped()
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]LogEvent, 0, BatchFlushSize)
	w := bufio.NewWriter(el.out)

	for {
		select {
		case <-el.stopChan:
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					break
				}
				el.flushBatch(w, batch)
			}
			return

		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(w, batch)
			}
		}
	}
}

func (el *EventLog) collectBatch(batch []LogEvent) []LogEvent {
	el.mu.Lock()
	defer el.mu.Unlock()

	for el.readHead < el.writeHead && len(batch) < BatchFlushSize {
		batch = append(batch, el.buffer[el.readHead%EventBufferSize])
		el.readHead++
	}
	return batch
}

// flushBatch writes events as newline-delimited JSON.
func (el *EventLog) flushBatch(w *bufio.Writer, batch []LogEvent) {
	enc := json.NewEncoder(w)
	for i := range batch {
		if err := enc.Encode(&batch[i]); err != nil {
			el.writeErrors.Add(1)
			el.logger.Warn("encode failed", zap.Uint64("sequence", batch[i].Sequence), zap.Error(err))
		}
	}
	if err := w.Flush(); err != nil {
		el.writeErrors.Add(1)
		el.logger.Warn("flush failed", zap.Error(err))
	}
}

// Stats returns counters for monitoring.
func (el *EventLog) Stats() EventLogStats {
	el.mu.Lock()
	pending := el.writeHead - el.readHead
	el.mu.Unlock()

	return EventLogStats{
		Total:       el.totalCount.Load(),
		Dropped:     el.droppedCount.Load(),
		Pending:     pending,
		WriteErrors: el.writeErrors.Load(),
		Running:     el.running.Load(),
	}
}
