// Package websocket serves a device bridge over websocket connections.
// Each binary message is a bridge.Request answered by one bridge.Reply.
package websocket

import "golang.org/x/net/websocket"

// Conn reads and writes binary packets on a websocket connection.
type Conn websocket.Conn

// Wrap wraps websocket.Conn.
func Wrap(conn *websocket.Conn) *Conn {
	return (*Conn)(conn)
}

// ReadPacket receives one message.
func (c *Conn) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(c), &pkt)
	return
}

// WritePacket sends one binary message.
func (c *Conn) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(c), pkt)
}

// Close closes the connection.
func (c *Conn) Close() error {
	return (*websocket.Conn)(c).Close()
}
