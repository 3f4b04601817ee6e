package board

// roomParent is the hub surface a room needs: self-removal once empty, and
// re-routing a join that raced with that removal.
type roomParent interface {
	RequestRemoveRoom(r *Room)
	RequestJoinRoom(c *Client, roomID, name, color string)
}

type eventEnvelope struct {
	eventType string
	data      []byte
	from      *Client
}

type joinRequest struct {
	client *Client
	name   string
	color  string
}

// Room owns one collaboration session: its roster, its ledger and the set
// of connected clients. All state is touched only by the room's actor
// goroutine; other goroutines reach it through the channels below.
type Room struct {
	id       string
	parent   roomParent
	clock    Clock
	renderer Renderer
	newID    func() string

	roster  *roster
	ledger  *Ledger
	clients map[string]*Client

	// closing is set by the actor once the last user leaves; from then on
	// join requests bounce back to the hub, which re-routes them to a
	// fresh room.
	closing bool

	inbox        chan eventEnvelope
	joinRequests chan joinRequest
	removals     chan *Client
	pings        chan struct{}
	done         chan struct{}
}

func NewRoom(id string, parent roomParent, clock Clock, renderer Renderer, newID func() string) *Room {
	return &Room{
		id:           id,
		parent:       parent,
		clock:        clock,
		renderer:     renderer,
		newID:        newID,
		roster:       newRoster(clock),
		ledger:       NewLedger(),
		clients:      make(map[string]*Client),
		inbox:        make(chan eventEnvelope, 1024),
		joinRequests: make(chan joinRequest, 32),
		removals:     make(chan *Client, 64),
		pings:        make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
}

func (r *Room) ID() string { return r.id }

// Send queues an inbound event for the actor. Blocks the calling reader
// when the inbox is full, which backpressures exactly one connection.
func (r *Room) Send(env eventEnvelope) {
	select {
	case r.inbox <- env:
	case <-r.done:
	}
}

// RequestJoin reports false when the room is already shutting down, in
// which case the caller must route the join to a replacement room.
func (r *Room) RequestJoin(req joinRequest) bool {
	select {
	case r.joinRequests <- req:
		return true
	case <-r.done:
		return false
	}
}

func (r *Room) RequestRemove(c *Client) {
	select {
	case r.removals <- c:
	case <-r.done:
	}
}

// RequestPing is a coalescing signal; a tick arriving while one is already
// pending is dropped.
func (r *Room) RequestPing() {
	select {
	case r.pings <- struct{}{}:
	default:
	}
}

// CloseAndRelease stops the actor. Called by the hub only, after the room
// has been unlinked from the room table.
func (r *Room) CloseAndRelease() {
	close(r.done)
}
