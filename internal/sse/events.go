package sse

// Stream-only event names. Session events use their game.EventKind name.
const (
	EventSnapshot   = "snapshot"
	EventError      = "error"
	EventRoomClosed = "room-closed"
)

// BufferSize is the buffer size for client channels. A client that falls
// this far behind is dropped.
const BufferSize = 10
