package websocket

import (
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/robotalks/ctlserial/pkg/bridge"
	"github.com/robotalks/ctlserial/pkg/frame"
)

// Client runs commands on a remote bridge.
type Client struct {
	// MaxRetries overrides the bridge session's attempts when non-zero.
	MaxRetries uint32

	conn *Conn
	seq  uint32
	lock sync.Mutex
}

// Dial connects to a bridge endpoint, e.g. ws://host:8080/ctl.
func Dial(endpoint string) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	origin := "http://" + u.Host
	ws, err := websocket.Dial(endpoint, "", origin)
	if err != nil {
		return nil, err
	}
	return NewClient(ws), nil
}

// NewClient creates a Client on an established connection.
func NewClient(ws *websocket.Conn) *Client {
	return &Client{conn: Wrap(ws)}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Execute runs a command with arguments.
func (c *Client) Execute(opcode string, args ...frame.Value) (frame.Reply, error) {
	return c.Do(&bridge.Request{Opcode: opcode, Args: bridge.ToValues(args)})
}

// SendCommand runs a pre-formatted command.
func (c *Client) SendCommand(raw string) (frame.Reply, error) {
	return c.Do(&bridge.Request{Raw: raw})
}

// Do sends req and waits for its Reply.
func (c *Client) Do(req *bridge.Request) (frame.Reply, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.seq++
	req.Seq = c.seq
	if req.MaxRetries == 0 {
		req.MaxRetries = c.MaxRetries
	}
	data, err := req.Encode()
	if err != nil {
		return nil, err
	}
	if err = c.conn.WritePacket(data); err != nil {
		return nil, err
	}
	pkt, err := c.conn.ReadPacket()
	if err != nil {
		return nil, err
	}
	reply, err := bridge.DecodeReply(pkt)
	if err != nil {
		return nil, err
	}
	if reply.ErrorKind != bridge.ErrorBadRequest && reply.Seq != req.Seq {
		return nil, fmt.Errorf("reply out of order: seq %d, expect %d", reply.Seq, req.Seq)
	}
	return reply.Result()
}
