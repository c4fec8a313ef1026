package protocol

import (
	"bytes"
	"errors"
	"testing"

	"platform-hunt/internal/game"
	"platform-hunt/internal/physics"
	"platform-hunt/internal/world"
)

func TestDecodeIntentMoves(t *testing.T) {
	tests := []struct {
		op   uint8
		want game.Move
	}{
		{OpUpStart, game.Move{Index: 4, Dir: game.DirUp, Pressed: true}},
		{OpUpEnd, game.Move{Index: 4, Dir: game.DirUp, Pressed: false}},
		{OpDownStart, game.Move{Index: 4, Dir: game.DirDown, Pressed: true}},
		{OpDownEnd, game.Move{Index: 4, Dir: game.DirDown, Pressed: false}},
		{OpLeftStart, game.Move{Index: 4, Dir: game.DirLeft, Pressed: true}},
		{OpLeftEnd, game.Move{Index: 4, Dir: game.DirLeft, Pressed: false}},
		{OpRightStart, game.Move{Index: 4, Dir: game.DirRight, Pressed: true}},
		{OpRightEnd, game.Move{Index: 4, Dir: game.DirRight, Pressed: false}},
	}

	for _, tt := range tests {
		t.Run(tt.want.Dir.String(), func(t *testing.T) {
			ev, err := DecodeIntent([]byte{tt.op}, 4)
			if err != nil {
				t.Fatalf("DecodeIntent(%d): %v", tt.op, err)
			}
			if ev != tt.want {
				t.Errorf("DecodeIntent(%d) = %+v, want %+v", tt.op, ev, tt.want)
			}
			if got := EncodeMove(tt.want.Dir, tt.want.Pressed); !bytes.Equal(got, []byte{tt.op}) {
				t.Errorf("EncodeMove = %v, want %d", got, tt.op)
			}
		})
	}
}

func TestDecodeIntentClick(t *testing.T) {
	ev, err := DecodeIntent([]byte{OpClick, 0x01, 0x02, 0x00, 0xff}, 9)
	if err != nil {
		t.Fatal(err)
	}
	want := game.Click{Index: 9, X: 258, Y: 255}
	if ev != want {
		t.Errorf("got %+v, want %+v", ev, want)
	}

	if !bytes.Equal(EncodeClick(258, 255), []byte{OpClick, 0x01, 0x02, 0x00, 0xff}) {
		t.Error("EncodeClick mismatch")
	}
}

func TestDecodeIntentErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"empty", nil, ErrEmptyIntent},
		{"unknown opcode", []byte{9}, ErrUnknownOpcode},
		{"short click", []byte{OpClick, 0, 1, 0}, ErrShortClick},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeIntent(tt.buf, 0); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeRoomLayout(t *testing.T) {
	v := game.RoomView{
		Platforms: []physics.Entity{{X: 70, Y: 245, Width: 50, Height: 3}},
		Doors: []world.Door{{
			Entity: physics.Entity{X: 250, Y: 225, Width: 5, Height: 30},
			Room:   1,
		}},
		Players: []game.PlayerView{{
			Index:  2,
			Target: 5,
			Entity: physics.Entity{X: 300.7, Y: 12, Width: 10, Height: 10},
		}},
		Bullets: []world.BulletPath{{OriginX: 5, OriginY: 105, EndX: -95, EndY: 70000}},
	}

	got := EncodeRoom(v)
	want := []byte{
		1, 1, 50, 3, 0, 70, 0, 245,
		2, 2, 5, 30, 0, 250, 0, 225,
		0, 0, 5, 2, 10, 10, 0x01, 0x2c, 0, 12,
		3, 3, 0, 5, 0, 105, 0, 0, 0xff, 0xff,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeRoom =\n%v\nwant\n%v", got, want)
	}
}

func TestEncodeEmptyRoom(t *testing.T) {
	if got := EncodeRoom(game.RoomView{}); len(got) != 0 {
		t.Errorf("empty room encoded to %v", got)
	}
}

func TestAppendFooterDoesNotShareFrame(t *testing.T) {
	frame := make([]byte, 2, 16)
	frame[0], frame[1] = 7, 8

	a := AppendFooter(frame, 1)
	b := AppendFooter(frame, 2)

	if !bytes.Equal(a, []byte{7, 8, 1}) || !bytes.Equal(b, []byte{7, 8, 2}) {
		t.Errorf("footers clobbered each other: %v %v", a, b)
	}
}
