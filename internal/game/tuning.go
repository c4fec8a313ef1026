package game

// Slot capacity. Player indices are a single byte on the wire.
const MaxPlayers = 256

// Player body
const (
	PlayerWidth  float32 = 10
	PlayerHeight float32 = 10
	PlayerWeight float32 = 3
)

// Jumping
const (
	JumpBufferTicks uint8   = 5
	CoyoteTicks     uint8   = 3
	JumpForce       float32 = -40
	JumpCutoff      float32 = 0.5
)

// Running. Forces are divided by the body weight.
const (
	RunStartForce float32 = 1
	RunStopForce  float32 = 2
	RunMaxSpeed   float32 = 5
)

// MissDistance is how far a shot's visible path extends when it hits nothing.
const MissDistance float32 = 200
