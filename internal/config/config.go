// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for server and simulation settings.
//
// Defaults live here; environment variables override them at startup.
package config

import (
	"os"
	"strconv"
	"time"

	"platform-hunt/internal/logging"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds tick loop settings.
type SimConfig struct {
	TickInterval time.Duration // Fixed step between ticks
	InputQueue   int           // Buffered input events before drops
	Seed         int64         // Chain RNG seed, 0 = time based
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickInterval: 20 * time.Millisecond, // 50 Hz
		InputQueue:   256,
	}
}

// SimFromEnv returns simulation configuration with environment overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if ms := getEnvInt("TICK_MS", 0); ms > 0 {
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	}
	if q := getEnvInt("INPUT_QUEUE", 0); q > 0 {
		cfg.InputQueue = q
	}
	if s := getEnvInt64("SIM_SEED", 0); s != 0 {
		cfg.Seed = s
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP and WebSocket settings.
type ServerConfig struct {
	Port       int
	SinkBuffer int // Frames queued per connection before it is dropped
	MaxWSPerIP int
	MaxWSTotal int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:       8080,
		SinkBuffer: 16,
		MaxWSPerIP: 10,
		MaxWSTotal: 256, // one per player slot
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if b := getEnvInt("SINK_BUFFER", 0); b > 0 {
		cfg.SinkBuffer = b
	}
	if n := getEnvInt("MAX_WS_PER_IP", 0); n > 0 {
		cfg.MaxWSPerIP = n
	}

	return cfg
}

// =============================================================================
// LOGGING
// =============================================================================

// LogFromEnv returns logger configuration with environment overrides.
func LogFromEnv() logging.Config {
	cfg := logging.DefaultConfig()

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.Level = lvl
	}
	cfg.File = os.Getenv("LOG_FILE")

	return cfg
}

// =============================================================================
// DEBUG SERVER
// =============================================================================

// DebugConfig holds the pprof/metrics listener settings.
type DebugConfig struct {
	Addr    string
	Enabled bool
}

// DefaultDebug returns the default debug configuration.
func DefaultDebug() DebugConfig {
	return DebugConfig{
		Addr:    "localhost:6060", // Never exposed publicly
		Enabled: true,
	}
}

// DebugFromEnv returns debug configuration with environment overrides.
func DebugFromEnv() DebugConfig {
	cfg := DefaultDebug()

	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.Enabled = false
	}

	return cfg
}

// =============================================================================
// EVENT LOG
// =============================================================================

// EventLogConfig holds the gameplay log destination.
type EventLogConfig struct {
	Path string // Empty keeps events in memory only
}

// EventLogFromEnv returns event log configuration with environment overrides.
func EventLogFromEnv() EventLogConfig {
	return EventLogConfig{Path: os.Getenv("EVENT_LOG_PATH")}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Server    ServerConfig
	Sim       SimConfig
	Log       logging.Config
	Debug     DebugConfig
	EventLog  EventLogConfig
	RoomsFile string // Empty uses the embedded room table
}

// Default returns the configuration without any environment overrides.
func Default() AppConfig {
	return AppConfig{
		Server: DefaultServer(),
		Sim:    DefaultSim(),
		Log:    logging.DefaultConfig(),
		Debug:  DefaultDebug(),
	}
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Server:    ServerFromEnv(),
		Sim:       SimFromEnv(),
		Log:       LogFromEnv(),
		Debug:     DebugFromEnv(),
		EventLog:  EventLogFromEnv(),
		RoomsFile: os.Getenv("ROOMS_FILE"),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}
