package board

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Handler upgrades websocket requests and hands each connection a fresh
// identity and its pump goroutines.
type Handler struct {
	hub        *Hub
	upgrader   websocket.Upgrader
	eventRate  float64
	eventBurst int
}

func NewHandler(hub *Hub, allowedOrigins []string, eventRate float64, eventBurst int) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		eventRate:  eventRate,
		eventBurst: eventBurst,
	}
}

func (h *Handler) ServeWS(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	socket := NewWebsocketConnection(conn)
	client := NewClient(uuid.NewString(), h.hub, &socket, rate.NewLimiter(rate.Limit(h.eventRate), h.eventBurst))
	log.Debug().Str("conn", client.ID()).Str("ip", ctx.ClientIP()).Msg("connection established")

	go client.WritePump()
	go client.ReadPump()
}
