package board

import (
	"time"

	"github.com/rs/zerolog/log"
)

const pingInterval = 30 * time.Second

type cmdKind int

const (
	cmdJoin cmdKind = iota
	cmdDisconnect
	cmdRemoveRoom
)

type hubCmd struct {
	kind   cmdKind
	client *Client
	roomID string
	name   string
	color  string
	room   *Room
}

// Hub owns the room table and the connection→room index. It is the single
// router for joins and disconnects; drawing traffic bypasses it and flows
// from each client's read pump straight into its room's inbox.
//
// Commands share one FIFO channel on purpose: a room's removal request must
// be processed before a join it bounced back, or the join would land in the
// dead room again.
type Hub struct {
	clock         Clock
	renderer      Renderer
	tickerCreator PeriodicTickerChannelCreator
	newID         func() string

	cmds       chan hubCmd
	roomIDsReq chan chan []string

	rooms     map[string]*Room
	connIndex map[string]*Room
}

func NewHub(clock Clock, renderer Renderer, tickerCreator PeriodicTickerChannelCreator, newID func() string) *Hub {
	return &Hub{
		clock:         clock,
		renderer:      renderer,
		tickerCreator: tickerCreator,
		newID:         newID,
		cmds:          make(chan hubCmd, 1024),
		roomIDsReq:    make(chan chan []string, 16),
		rooms:         make(map[string]*Room),
		connIndex:     make(map[string]*Room),
	}
}

func (h *Hub) Join(c *Client, roomID, name, color string) {
	h.enqueue(hubCmd{kind: cmdJoin, client: c, roomID: roomID, name: name, color: color})
}

func (h *Hub) Disconnect(c *Client) {
	h.enqueue(hubCmd{kind: cmdDisconnect, client: c})
}

func (h *Hub) RequestRemoveRoom(r *Room) {
	h.enqueue(hubCmd{kind: cmdRemoveRoom, room: r})
}

func (h *Hub) RequestJoinRoom(c *Client, roomID, name, color string) {
	h.Join(c, roomID, name, color)
}

// RoomIDs answers from inside the actor so callers see a consistent table.
func (h *Hub) RoomIDs() []string {
	respChan := make(chan []string, 1)
	h.roomIDsReq <- respChan
	return <-respChan
}

// enqueue never blocks the caller; room actors push commands here and must
// not be stalled by a busy hub.
func (h *Hub) enqueue(cmd hubCmd) {
	select {
	case h.cmds <- cmd:
	default:
		go func() { h.cmds <- cmd }()
	}
}

// Run is the hub actor loop.
func (h *Hub) Run(started chan struct{}) {
	pingTicker := h.tickerCreator.Create(pingInterval)
	close(started)

	for {
		select {
		case cmd := <-h.cmds:
			h.handleCmd(cmd)
		case <-pingTicker:
			for _, r := range h.rooms {
				r.RequestPing()
			}
		case respChan := <-h.roomIDsReq:
			ids := make([]string, 0, len(h.rooms))
			for id := range h.rooms {
				ids = append(ids, id)
			}
			respChan <- ids
		}
	}
}

func (h *Hub) handleCmd(cmd hubCmd) {
	switch cmd.kind {
	case cmdJoin:
		h.handleJoin(cmd)
	case cmdDisconnect:
		h.handleDisconnect(cmd.client)
	case cmdRemoveRoom:
		h.handleRemoveRoom(cmd.room)
	}
}

func (h *Hub) handleJoin(cmd hubCmd) {
	c := cmd.client
	if c.Released() {
		// The fallback path in enqueue can deliver a join after the
		// disconnect that released its client; admitting it would strand a
		// ghost user in a room that never empties.
		return
	}
	if current := h.connIndex[c.id]; current != nil && current.id != cmd.roomID {
		current.RequestRemove(c)
	}

	room, ok := h.rooms[cmd.roomID]
	if !ok {
		room = NewRoom(cmd.roomID, h, h.clock, h.renderer, h.newID)
		h.rooms[cmd.roomID] = room
		go room.Run()
		log.Info().Str("room", cmd.roomID).Msg("room created")
	}
	h.connIndex[c.id] = room

	if !room.RequestJoin(joinRequest{client: c, name: cmd.name, color: cmd.color}) {
		// Room terminated before accepting; retry after its removal
		// command has been processed.
		h.enqueue(cmd)
	}
}

func (h *Hub) handleDisconnect(c *Client) {
	if room := h.connIndex[c.id]; room != nil {
		delete(h.connIndex, c.id)
		room.RequestRemove(c)
	}
	c.Release()
}

func (h *Hub) handleRemoveRoom(r *Room) {
	if h.rooms[r.id] == r {
		delete(h.rooms, r.id)
		log.Info().Str("room", r.id).Msg("room destroyed")
	}
	r.CloseAndRelease()
}
