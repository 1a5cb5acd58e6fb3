package websocket

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/ctlserial/pkg/bridge"
	fx "github.com/robotalks/ctlserial/pkg/framework"
)

// DefaultPath is where the websocket endpoint is mounted.
const DefaultPath = "/ctl"

// Server serves Requests from websocket clients.
type Server struct {
	Addr    string
	Path    string
	Handler bridge.RequestHandler

	// handlers run one Request at a time across connections.
	lock sync.Mutex
}

// NewServer creates a Server.
func NewServer(addr string, handler bridge.RequestHandler) *Server {
	return &Server{Addr: addr, Path: DefaultPath, Handler: handler}
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "websocket"
}

// HTTPHandler creates the http.Handler serving the endpoint.
func (s *Server) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.Path, websocket.Handler(s.ServeConn))
	return mux
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.HTTPHandler()}
	glog.Infof("websocket listening on %s%s", s.Addr, s.Path)
	return fx.RunWithContextCloser(ctx, srv, srv.ListenAndServe)
}

// ServeConn serves Requests on one connection until it's closed.
func (s *Server) ServeConn(ws *websocket.Conn) {
	conn := Wrap(ws)
	defer conn.Close()
	glog.V(1).Infof("websocket %s connected", ws.Request().RemoteAddr)
	for {
		pkt, err := conn.ReadPacket()
		if err != nil {
			if err != io.EOF {
				glog.Warningf("websocket %s: %v", ws.Request().RemoteAddr, err)
			}
			return
		}
		data, err := s.handle(pkt).Encode()
		if err != nil {
			glog.Errorf("encode reply error: %v", err)
			return
		}
		if err = conn.WritePacket(data); err != nil {
			glog.Warningf("websocket %s: %v", ws.Request().RemoteAddr, err)
			return
		}
	}
}

func (s *Server) handle(pkt []byte) *bridge.Reply {
	req, err := bridge.DecodeRequest(pkt)
	if err != nil {
		return bridge.BadRequest(err)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.Handler.Handle(req)
}
