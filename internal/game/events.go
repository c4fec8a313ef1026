package game

import (
	"errors"
)

var (
	// ErrSinkClosed is returned by a Sink whose consumer has gone away.
	ErrSinkClosed = errors.New("game: sink closed")
	// ErrSinkFull is returned by a Sink that cannot accept a frame right now.
	ErrSinkFull = errors.New("game: sink full")
)

// Sink receives rendered room frames for one player. TrySend must not
// block and must not retain or modify frame beyond its own copy.
// Close is called when the slot is cleared and must be idempotent.
// Implementations must be comparable; pointer receivers are the norm.
type Sink interface {
	TrySend(frame []byte) error
	Close()
}

// Direction is an input axis the client can press and release.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Event is an input for the tick loop. The set is closed: Connect, Move,
// Click and Disconnect.
type Event interface {
	isEvent()
}

// ConnectResult answers a Connect.
type ConnectResult struct {
	Index uint8
	Err   error
}

// Connect asks for a slot. Reply must have room for one value.
type Connect struct {
	Sink  Sink
	Reply chan<- ConnectResult
}

// Move presses or releases a direction.
type Move struct {
	Index   uint8
	Dir     Direction
	Pressed bool
}

// Click fires a shot from the player toward (X, Y).
type Click struct {
	Index uint8
	X, Y  float32
}

// Disconnect frees a slot. When Sink is set the slot is only freed if it
// still belongs to that sink, so a late disconnect cannot evict a player
// who has since taken over the index.
type Disconnect struct {
	Index uint8
	Sink  Sink
}

func (Connect) isEvent()    {}
func (Move) isEvent()       {}
func (Click) isEvent()      {}
func (Disconnect) isEvent() {}
