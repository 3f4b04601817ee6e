package board

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Inbound event names. Disconnect is implicit, delivered by the transport.
const (
	EvtJoin        = "client:join"
	EvtCursor      = "client:cursor"
	EvtStrokeStart = "client:stroke-start"
	EvtStrokeChunk = "client:stroke-chunk"
	EvtStrokeEnd   = "client:stroke-end"
	EvtUndo        = "client:undo"
	EvtRedo        = "client:redo"
	EvtPresence    = "client:presence"
)

// Outbound event names.
const (
	EvtJoined            = "server:joined"
	EvtUserJoined        = "server:user-joined"
	EvtUserLeft          = "server:user-left"
	EvtServerCursor      = "server:cursor"
	EvtServerPresence    = "server:presence"
	EvtServerStrokeStart = "server:stroke-start"
	EvtServerStrokeChunk = "server:stroke-chunk"
	EvtServerStrokeEnd   = "server:stroke-end"
	EvtServerUndo        = "server:undo"
	EvtServerRedo        = "server:redo"
	EvtError             = "server:error"
)

// envelope frames every message in both directions.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// roomTag is the partial decode used to route an event to its room.
type roomTag struct {
	RoomID string `json:"roomId"`
}

type joinPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
	Color    string `json:"color"`
}

type cursorPayload struct {
	RoomID   string `json:"roomId"`
	Position *Point `json:"position"`
}

type strokeStartPayload struct {
	RoomID string  `json:"roomId"`
	Stroke *Stroke `json:"stroke"`
}

type strokePointsPayload struct {
	RoomID   string  `json:"roomId"`
	StrokeID string  `json:"strokeId"`
	Points   []Point `json:"points"`
}

type presencePayload struct {
	RoomID   string       `json:"roomId"`
	Presence PresenceMode `json:"presence"`
}

type joinedPayload struct {
	RoomID string    `json:"roomId"`
	User   User      `json:"user"`
	State  RoomState `json:"state"`
}

type userJoinedPayload struct {
	User User `json:"user"`
}

type userLeftPayload struct {
	UserID   string `json:"userId"`
	LastSeen int64  `json:"lastSeen"`
}

type serverCursorPayload struct {
	UserID   string `json:"userId"`
	Position Point  `json:"position"`
	Ts       int64  `json:"ts"`
}

type serverPresencePayload struct {
	UserID   string       `json:"userId"`
	Presence PresenceMode `json:"presence"`
	LastSeen int64        `json:"lastSeen"`
}

type serverChunkPayload struct {
	StrokeID string  `json:"strokeId"`
	Points   []Point `json:"points"`
}

type serverUndoPayload struct {
	StrokeID string `json:"strokeId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// makePacket frames and marshals an outbound event. The payload structs
// above cannot fail to marshal, so an error here means a programming bug;
// it is logged and the packet dropped rather than tearing the room down.
func makePacket(eventType string, payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("marshal outbound payload")
		return nil
	}
	packet, err := json.Marshal(envelope{Type: eventType, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("marshal outbound envelope")
		return nil
	}
	return packet
}

func makeJoinedPacket(roomID string, user User, state RoomState) []byte {
	return makePacket(EvtJoined, joinedPayload{RoomID: roomID, User: user, State: state})
}

func makeUserJoinedPacket(user User) []byte {
	return makePacket(EvtUserJoined, userJoinedPayload{User: user})
}

func makeUserLeftPacket(userID string, lastSeen int64) []byte {
	return makePacket(EvtUserLeft, userLeftPayload{UserID: userID, LastSeen: lastSeen})
}

func makeCursorPacket(userID string, position Point, ts int64) []byte {
	return makePacket(EvtServerCursor, serverCursorPayload{UserID: userID, Position: position, Ts: ts})
}

func makePresencePacket(user User) []byte {
	return makePacket(EvtServerPresence, serverPresencePayload{
		UserID:   user.ID,
		Presence: user.Presence,
		LastSeen: user.LastSeen,
	})
}

func makeStrokeStartPacket(stroke Stroke) []byte {
	return makePacket(EvtServerStrokeStart, stroke)
}

func makeStrokeChunkPacket(strokeID string, points []Point) []byte {
	return makePacket(EvtServerStrokeChunk, serverChunkPayload{StrokeID: strokeID, Points: points})
}

func makeStrokeEndPacket(strokeID string, points []Point) []byte {
	return makePacket(EvtServerStrokeEnd, serverChunkPayload{StrokeID: strokeID, Points: points})
}

func makeUndoPacket(strokeID string) []byte {
	return makePacket(EvtServerUndo, serverUndoPayload{StrokeID: strokeID})
}

func makeRedoPacket(stroke Stroke) []byte {
	return makePacket(EvtServerRedo, stroke)
}

func makeErrorPacket(message string) []byte {
	return makePacket(EvtError, errorPayload{Message: message})
}
