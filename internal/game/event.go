package game

import (
	"encoding/json"
	"time"
)

// EventType classifies gameplay log entries.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeJoin
	EventTypeLeave
	EventTypeShot
	EventTypeElimination
	EventTypeRespawn
	EventTypeDoorTransit
)

// EventVersion is bumped when a payload changes shape.
const EventVersion uint8 = 1

// LogEvent is one line of the gameplay event log.
type LogEvent struct {
	Version   uint8           `json:"version"`
	Type      EventType       `json:"type"`
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`
	TickNum   uint64          `json:"tickNum"`
	Player    int             `json:"player"` // -1 when not tied to a slot
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (t EventType) String() string {
	switch t {
	case EventTypeJoin:
		return "join"
	case EventTypeLeave:
		return "leave"
	case EventTypeShot:
		return "shot"
	case EventTypeElimination:
		return "elimination"
	case EventTypeRespawn:
		return "respawn"
	case EventTypeDoorTransit:
		return "door_transit"
	default:
		return "unknown"
	}
}

// MarshalText writes the type by name in JSON output.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// JoinPayload describes a player taking a slot.
type JoinPayload struct {
	Room   int   `json:"room"`
	Target uint8 `json:"target"`
}

// LeavePayload describes a slot being cleared.
type LeavePayload struct {
	Reason string `json:"reason"`
}

// ShotPayload describes a resolved shot.
type ShotPayload struct {
	Room      int     `json:"room"`
	Target    uint8   `json:"target"` // shooter's target when the shot was fired
	Hit       int     `json:"hit"`    // player index, -1 for a platform or miss
	Distance  float32 `json:"distance"`
	Eliminate bool    `json:"eliminate"`
}

// EliminationPayload describes a hunter catching its target.
type EliminationPayload struct {
	Victim    uint8 `json:"victim"`
	NewTarget uint8 `json:"newTarget"`
}

// RespawnPayload describes a replacement player entering a freed slot.
type RespawnPayload struct {
	Room   int     `json:"room"`
	SpawnX float32 `json:"spawnX"`
	SpawnY float32 `json:"spawnY"`
	Target uint8   `json:"target"`
}

// DoorTransitPayload describes a player changing room.
type DoorTransitPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// EncodePayload marshals a payload to JSON.
func EncodePayload(payload any) json.RawMessage {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewLogEvent stamps an event with the current time.
func NewLogEvent(t EventType, tickNum uint64, player int, payload any) LogEvent {
	return LogEvent{
		Version:   EventVersion,
		Type:      t,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		Player:    player,
		Payload:   EncodePayload(payload),
	}
}
