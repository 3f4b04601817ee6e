package board

import (
	"time"
)

// Point is a canvas-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Tool string

const (
	ToolBrush       Tool = "brush"
	ToolEraser      Tool = "eraser"
	ToolHighlighter Tool = "highlighter"
	ToolLine        Tool = "line"
	ToolRect        Tool = "rect"
	ToolCircle      Tool = "circle"
	ToolText        Tool = "text"
)

// Stroke is a single drawing operation. A stroke is live (mutable via chunk
// appends) until finalized, after which it only moves between the history
// and the redo stack. Timestamps are unix milliseconds.
type Stroke struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Tool      Tool    `json:"tool"`
	Color     string  `json:"color"`
	Width     float64 `json:"width"`
	Text      string  `json:"text,omitempty"`
	Points    []Point `json:"points"`
	StartedAt int64   `json:"startedAt"`
	Committed bool    `json:"committed"`
}

type PresenceMode string

const (
	PresenceActive    PresenceMode = "active"
	PresenceObserving PresenceMode = "observing"
)

// User is a participant's record within one room, keyed by connection id.
type User struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Color    string       `json:"color"`
	JoinedAt int64        `json:"joinedAt"`
	LastSeen int64        `json:"lastSeen"`
	Presence PresenceMode `json:"presence"`
}

// RoomState is the point-in-time snapshot handed to a joining participant.
type RoomState struct {
	Users   []User   `json:"users"`
	Strokes []Stroke `json:"strokes"`
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// Conn abstracts a websocket connection so pumps are testable.
type Conn interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

// Renderer receives stroke activity as it is accepted by a room, for
// consumers that mirror the canvas server-side (previews, exports). Calls
// happen inside the room's serialized scope and must not block.
type Renderer interface {
	StrokeStarted(stroke Stroke)
	PointsAppended(strokeID string, points []Point, tool Tool, color string, width float64)
	StrokeFinalized(stroke Stroke)
}

type NopRenderer struct{}

func (NopRenderer) StrokeStarted(Stroke)                                  {}
func (NopRenderer) PointsAppended(string, []Point, Tool, string, float64) {}
func (NopRenderer) StrokeFinalized(Stroke)                                {}
