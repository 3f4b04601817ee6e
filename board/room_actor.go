package board

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Recipient scope of an outbound event.
type scope int

const (
	scopeOthers scope = iota // everyone in the room except the sender
	scopeAll                 // everyone in the room, sender included
	scopeSender              // direct reply to the sender only
)

type route struct {
	// echo is the recipient scope of the event's rebroadcast. Start/end go
	// to all so the sender reconciles its optimistic rendering with the
	// authoritative copy; chunks skip the sender to avoid doubling an
	// already-rendered path.
	echo   scope
	handle func(r *Room, from *Client, data []byte, echo scope)
}

// routes is the authoritative inbound-event contract. Events absent from
// this table (join and disconnect go through the hub) are dropped.
var routes = map[string]route{
	EvtCursor:      {scopeOthers, (*Room).handleCursor},
	EvtStrokeStart: {scopeAll, (*Room).handleStrokeStart},
	EvtStrokeChunk: {scopeOthers, (*Room).handleStrokeChunk},
	EvtStrokeEnd:   {scopeAll, (*Room).handleStrokeEnd},
	EvtUndo:        {scopeAll, (*Room).handleUndo},
	EvtRedo:        {scopeAll, (*Room).handleRedo},
	EvtPresence:    {scopeAll, (*Room).handlePresence},
}

// Run is the room actor: every mutation of roster, ledger and client set
// happens here, one event at a time.
func (r *Room) Run() {
	for {
		select {
		case env := <-r.inbox:
			r.dispatch(env)
		case req := <-r.joinRequests:
			r.handleJoin(req)
		case c := <-r.removals:
			r.handleRemove(c)
		case <-r.pings:
			for _, c := range r.clients {
				c.RequestPing()
			}
		case <-r.done:
			return
		}
	}
}

func (r *Room) dispatch(env eventEnvelope) {
	rt, ok := routes[env.eventType]
	if !ok {
		log.Debug().Str("event", env.eventType).Str("room", r.id).Msg("unknown event dropped")
		return
	}
	var tag roomTag
	if err := json.Unmarshal(env.data, &tag); err != nil || tag.RoomID != r.id {
		return
	}
	rt.handle(r, env.from, env.data, rt.echo)
}

func (r *Room) emit(sc scope, from *Client, packet []byte) {
	if packet == nil {
		return
	}
	switch sc {
	case scopeSender:
		from.Enqueue(packet)
	case scopeAll:
		for _, c := range r.clients {
			c.Enqueue(packet)
		}
	case scopeOthers:
		for id, c := range r.clients {
			if id != from.id {
				c.Enqueue(packet)
			}
		}
	}
}

// handleJoin adds the user and replies with a snapshot taken in the same
// serialized operation, so the user list and stroke history reflect one
// instant.
func (r *Room) handleJoin(req joinRequest) {
	if r.closing {
		// Raced with teardown; the hub has already been asked to drop this
		// room and will route the retry to a fresh one.
		r.parent.RequestJoinRoom(req.client, r.id, req.name, req.color)
		return
	}
	c := req.client
	user := r.roster.Add(c.id, req.name, req.color)
	r.clients[c.id] = c
	c.room.Store(r)

	state := RoomState{Users: r.roster.Users(), Strokes: r.ledger.Snapshot()}
	r.emit(scopeSender, c, makeJoinedPacket(r.id, user, state))
	r.emit(scopeOthers, c, makeUserJoinedPacket(user))
	log.Debug().Str("room", r.id).Str("user", user.ID).Msg("user joined")
}

func (r *Room) handleRemove(c *Client) {
	user, existed := r.roster.Remove(c.id)
	delete(r.clients, c.id)
	c.room.CompareAndSwap(r, nil)
	if !existed {
		return
	}
	r.emit(scopeOthers, c, makeUserLeftPacket(user.ID, r.clock.Now().UnixMilli()))
	log.Debug().Str("room", r.id).Str("user", user.ID).Msg("user left")
	if r.roster.Len() == 0 && !r.closing {
		r.closing = true
		r.parent.RequestRemoveRoom(r)
	}
}

func (r *Room) handleCursor(from *Client, data []byte, echo scope) {
	var p cursorPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Position == nil {
		return
	}
	if user, ok := r.roster.MarkActivity(from.id); ok {
		r.emit(echo, from, makePresencePacket(user))
	}
	r.emit(echo, from, makeCursorPacket(from.id, *p.Position, r.clock.Now().UnixMilli()))
}

func (r *Room) handleStrokeStart(from *Client, data []byte, echo scope) {
	var p strokeStartPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Stroke == nil {
		return
	}
	if user, ok := r.roster.MarkActivity(from.id); ok {
		r.emit(echo, from, makePresencePacket(user))
	}
	stroke := *p.Stroke
	if stroke.ID == "" {
		stroke.ID = r.newID()
	}
	stroke.UserID = from.id
	stroke.StartedAt = r.clock.Now().UnixMilli()
	if stroke.Points == nil {
		stroke.Points = []Point{}
	}
	accepted := r.ledger.StartStroke(stroke)
	r.renderer.StrokeStarted(*accepted)
	r.emit(echo, from, makeStrokeStartPacket(*accepted))
}

func (r *Room) handleStrokeChunk(from *Client, data []byte, echo scope) {
	var p strokePointsPayload
	if err := json.Unmarshal(data, &p); err != nil || p.StrokeID == "" || p.Points == nil {
		return
	}
	r.roster.MarkActivity(from.id)
	stroke, outcome := r.ledger.AppendPoints(p.StrokeID, p.Points)
	if outcome != Applied {
		return
	}
	r.renderer.PointsAppended(stroke.ID, p.Points, stroke.Tool, stroke.Color, stroke.Width)
	r.emit(echo, from, makeStrokeChunkPacket(p.StrokeID, p.Points))
}

func (r *Room) handleStrokeEnd(from *Client, data []byte, echo scope) {
	var p strokePointsPayload
	if err := json.Unmarshal(data, &p); err != nil || p.StrokeID == "" {
		return
	}
	r.roster.MarkActivity(from.id)
	stroke, outcome := r.ledger.FinalizeStroke(p.StrokeID, p.Points)
	if outcome != Applied {
		return
	}
	r.renderer.StrokeFinalized(*stroke)
	r.emit(echo, from, makeStrokeEndPacket(p.StrokeID, p.Points))
}

func (r *Room) handleUndo(from *Client, _ []byte, echo scope) {
	stroke, outcome := r.ledger.Undo()
	if outcome != Applied {
		// Nothing changed, so consumers must not be told an undo happened.
		return
	}
	r.emit(echo, from, makeUndoPacket(stroke.ID))
}

func (r *Room) handleRedo(from *Client, _ []byte, echo scope) {
	stroke, outcome := r.ledger.Redo()
	if outcome != Applied {
		return
	}
	r.emit(echo, from, makeRedoPacket(*stroke))
}

func (r *Room) handlePresence(from *Client, data []byte, echo scope) {
	var p presencePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	user, ok := r.roster.SetPresenceMode(from.id, p.Presence)
	if !ok {
		return
	}
	r.emit(echo, from, makePresencePacket(user))
}
