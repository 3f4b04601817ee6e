package board

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 20 * time.Second
	pongDeadline = time.Minute
)

// WebsocketConnection adapts a gorilla connection to the Conn interface.
type WebsocketConnection struct {
	socket *websocket.Conn
}

func NewWebsocketConnection(conn *websocket.Conn) WebsocketConnection {
	conn.SetReadDeadline(time.Now().Add(pongDeadline))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongDeadline))
		return nil
	})
	return WebsocketConnection{socket: conn}
}

func (wc *WebsocketConnection) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *WebsocketConnection) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *WebsocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *WebsocketConnection) Close(errCode string) {
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, errCode))
	wc.socket.Close()
}
