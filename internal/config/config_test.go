package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Sim.TickInterval != 20*time.Millisecond {
		t.Errorf("tick = %v", cfg.Sim.TickInterval)
	}
	if cfg.Server.Port != 8080 || cfg.Server.SinkBuffer <= 0 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if !cfg.Debug.Enabled || cfg.Debug.Addr != "localhost:6060" {
		t.Errorf("debug = %+v", cfg.Debug)
	}
	if cfg.Log.Level != "info" || cfg.Log.File != "" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TICK_MS", "50")
	t.Setenv("INPUT_QUEUE", "32")
	t.Setenv("SINK_BUFFER", "4")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "/tmp/server.log")
	t.Setenv("DEBUG_ADDR", "localhost:7070")
	t.Setenv("DISABLE_DEBUG_SERVER", "true")
	t.Setenv("EVENT_LOG_PATH", "/tmp/events.jsonl")
	t.Setenv("ROOMS_FILE", "/etc/rooms.yaml")
	t.Setenv("MAX_WS_PER_IP", "3")

	cfg := Load()

	if cfg.Server.Port != 9000 || cfg.Server.SinkBuffer != 4 || cfg.Server.MaxWSPerIP != 3 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Sim.TickInterval != 50*time.Millisecond || cfg.Sim.InputQueue != 32 || cfg.Sim.Seed != 42 {
		t.Errorf("sim = %+v", cfg.Sim)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/server.log" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Debug.Enabled || cfg.Debug.Addr != "localhost:7070" {
		t.Errorf("debug = %+v", cfg.Debug)
	}
	if cfg.EventLog.Path != "/tmp/events.jsonl" || cfg.RoomsFile != "/etc/rooms.yaml" {
		t.Errorf("paths = %+v %q", cfg.EventLog, cfg.RoomsFile)
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("TICK_MS", "-5")

	cfg := Load()
	if cfg.Server.Port != DefaultServer().Port {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Sim.TickInterval != DefaultSim().TickInterval {
		t.Errorf("tick = %v", cfg.Sim.TickInterval)
	}
}
