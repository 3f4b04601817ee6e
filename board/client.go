package board

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client is one websocket participant. ReadPump routes inbound events to
// the hub (join) or straight into the joined room's inbox; WritePump drains
// the outbox. Room membership is an atomic pointer because the room actor
// sets it while ReadPump reads it.
type Client struct {
	id      string
	hub     *Hub
	socket  Conn
	limiter *rate.Limiter

	room atomic.Pointer[Room]

	outbox    chan []byte
	pingChan  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(id string, hub *Hub, socket Conn, limiter *rate.Limiter) *Client {
	return &Client{
		id:       id,
		hub:      hub,
		socket:   socket,
		limiter:  limiter,
		outbox:   make(chan []byte, 256),
		pingChan: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

// Enqueue hands a packet to the write pump without ever blocking the
// caller. A client whose outbox is full is too slow to keep up and loses
// the packet; its next snapshot-bearing join resyncs it.
func (c *Client) Enqueue(packet []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.outbox <- packet:
	default:
		log.Warn().Str("conn", c.id).Msg("outbox full, packet dropped")
	}
}

func (c *Client) RequestPing() {
	select {
	case c.pingChan <- struct{}{}:
	default:
	}
}

// ReadPump consumes the socket until it errors, then reports the
// disconnect to the hub. Transport order is preserved: every event of this
// connection enters its room's inbox in the order it was read.
func (c *Client) ReadPump() {
	for {
		data, err := c.socket.Read()
		if err != nil {
			break
		}
		if !c.limiter.Allow() {
			continue
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		switch env.Type {
		case EvtJoin:
			c.handleJoin(env.Data)
		default:
			room := c.room.Load()
			if room == nil {
				continue
			}
			room.Send(eventEnvelope{eventType: env.Type, data: env.Data, from: c})
		}
	}
	c.hub.Disconnect(c)
}

func (c *Client) handleJoin(data []byte) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		c.Enqueue(makeErrorPacket("roomId required"))
		return
	}
	c.hub.Join(c, p.RoomID, p.UserName, p.Color)
}

func (c *Client) WritePump() {
	for {
		select {
		case data := <-c.outbox:
			if err := c.socket.Write(data); err != nil {
				return
			}
		case <-c.pingChan:
			if err := c.socket.Ping(); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Released reports whether the client has been torn down.
func (c *Client) Released() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Release stops the write pump and closes the socket. Safe to call more
// than once.
func (c *Client) Release() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.socket.Close("")
	})
}
