// Package protocol is the binary wire format between clients and the
// simulation: one-byte intents in, per-room render frames out.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"platform-hunt/internal/game"
	"platform-hunt/internal/physics"
)

// Intent opcodes sent by the client.
const (
	OpUpStart uint8 = iota
	OpUpEnd
	OpDownStart
	OpDownEnd
	OpLeftStart
	OpLeftEnd
	OpRightStart
	OpRightEnd
	OpClick
)

// Record kinds in a room frame. The sprite byte repeats the kind.
const (
	KindPlayer   uint8 = 0
	KindPlatform uint8 = 1
	KindDoor     uint8 = 2
	KindBullet   uint8 = 3
)

// Record sizes in bytes.
const (
	PlayerRecordSize   = 10
	PlatformRecordSize = 8
	DoorRecordSize     = 8
	BulletRecordSize   = 10
	ClickSize          = 5
)

var (
	ErrEmptyIntent   = errors.New("protocol: empty intent")
	ErrUnknownOpcode = errors.New("protocol: unknown opcode")
	ErrShortClick    = errors.New("protocol: click too short")
)

// DecodeIntent turns one client message into a simulation event for the
// player in slot idx.
func DecodeIntent(buf []byte, idx uint8) (game.Event, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyIntent
	}

	op := buf[0]
	switch {
	case op < OpClick:
		return game.Move{
			Index:   idx,
			Dir:     game.Direction(op / 2),
			Pressed: op%2 == 0,
		}, nil

	case op == OpClick:
		if len(buf) < ClickSize {
			return nil, fmt.Errorf("%w: %d bytes", ErrShortClick, len(buf))
		}
		return game.Click{
			Index: idx,
			X:     float32(binary.BigEndian.Uint16(buf[1:3])),
			Y:     float32(binary.BigEndian.Uint16(buf[3:5])),
		}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownOpcode, op)
}

// EncodeMove is the client side of a Move, used by tests and tools.
func EncodeMove(dir game.Direction, pressed bool) []byte {
	op := uint8(dir) * 2
	if !pressed {
		op++
	}
	return []byte{op}
}

// EncodeClick is the client side of a Click.
func EncodeClick(x, y uint16) []byte {
	buf := make([]byte, ClickSize)
	buf[0] = OpClick
	binary.BigEndian.PutUint16(buf[1:3], x)
	binary.BigEndian.PutUint16(buf[3:5], y)
	return buf
}

// EncodeRoom renders a room view as a frame: platforms, doors, players,
// then bullet paths. Coordinates saturate to the unsigned field range.
func EncodeRoom(v game.RoomView) []byte {
	size := len(v.Platforms)*PlatformRecordSize +
		len(v.Doors)*DoorRecordSize +
		len(v.Players)*PlayerRecordSize +
		len(v.Bullets)*BulletRecordSize
	buf := make([]byte, 0, size+1) // room for the connection footer

	for _, p := range v.Platforms {
		buf = appendBox(buf, KindPlatform, p)
	}
	for _, d := range v.Doors {
		buf = appendBox(buf, KindDoor, d.Entity)
	}
	for _, p := range v.Players {
		buf = append(buf, KindPlayer, KindPlayer, p.Target, p.Index,
			sat8(p.Width), sat8(p.Height))
		buf = binary.BigEndian.AppendUint16(buf, sat16(p.X))
		buf = binary.BigEndian.AppendUint16(buf, sat16(p.Y))
	}
	for _, b := range v.Bullets {
		buf = append(buf, KindBullet, KindBullet)
		buf = binary.BigEndian.AppendUint16(buf, sat16(b.OriginX))
		buf = binary.BigEndian.AppendUint16(buf, sat16(b.OriginY))
		buf = binary.BigEndian.AppendUint16(buf, sat16(b.EndX))
		buf = binary.BigEndian.AppendUint16(buf, sat16(b.EndY))
	}
	return buf
}

// AppendFooter returns frame with the receiver's own index appended. The
// frame is shared between receivers so it is never written in place.
func AppendFooter(frame []byte, idx uint8) []byte {
	return append(frame[:len(frame):len(frame)], idx)
}

func appendBox(buf []byte, kind uint8, e physics.Entity) []byte {
	buf = append(buf, kind, kind, sat8(e.Width), sat8(e.Height))
	buf = binary.BigEndian.AppendUint16(buf, sat16(e.X))
	return binary.BigEndian.AppendUint16(buf, sat16(e.Y))
}

func sat8(f float32) uint8 {
	switch {
	case !(f > 0):
		return 0
	case f >= math.MaxUint8:
		return math.MaxUint8
	}
	return uint8(f)
}

func sat16(f float32) uint16 {
	switch {
	case !(f > 0):
		return 0
	case f >= math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(f)
}
