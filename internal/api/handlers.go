package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"platform-hunt/internal/game"
	"platform-hunt/internal/world"
)

// Handler methods for routerHandlers.
// These read only the published snapshot and the static room table, so
// they never contend with the tick loop.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Snapshot())
}

type statsResponse struct {
	Engine    game.EngineStats    `json:"engine"`
	EventLog  *game.EventLogStats `json:"eventLog,omitempty"`
	RateLimit RateLimitStats      `json:"rateLimit"`
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Engine:    h.engine.Stats(),
		RateLimit: h.limiter.Stats(),
	}
	if h.eventLog != nil {
		st := h.eventLog.Stats()
		resp.EventLog = &st
	}
	writeJSON(w, resp)
}

func (h *routerHandlers) handleGetRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Table().Rooms())
}

type roomResponse struct {
	world.Room
	Index   int               `json:"index"`
	Tick    uint64            `json:"tick"`
	Players []game.PlayerView `json:"players"`
}

func (h *routerHandlers) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "room"))
	tbl := h.engine.Table()
	if err != nil || !tbl.Valid(idx) {
		writeError(w, "unknown room", http.StatusNotFound)
		return
	}

	resp := roomResponse{
		Room:    *tbl.Room(idx),
		Index:   idx,
		Players: []game.PlayerView{},
	}
	snap := h.engine.Snapshot()
	resp.Tick = snap.Tick
	if idx < len(snap.Rooms) {
		resp.Players = snap.Rooms[idx].Players
	}
	writeJSON(w, resp)
}

type playerResponse struct {
	game.PlayerView
	Room int `json:"room"`
}

func (h *routerHandlers) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 8)
	if err != nil {
		writeError(w, "invalid player index", http.StatusBadRequest)
		return
	}

	pv, room, ok := h.engine.Snapshot().Player(uint8(idx))
	if !ok {
		writeError(w, "player not found", http.StatusNotFound)
		return
	}
	writeJSON(w, playerResponse{PlayerView: pv, Room: room})
}

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Stats()
	status := http.StatusOK
	state := "ok"
	if !st.Running {
		status = http.StatusServiceUnavailable
		state = "stopped"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"status": state,
		"tick":   st.Tick,
	})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
