package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// webServer serves the static directory and a /ws endpoint. Websocket
// connections come out of the returned listener as binary net.Conns, so the
// same request loop serves them as TCP clients. Cross-origin websockets are
// accepted only from hosts matching originPatterns.
func webServer(ctx context.Context, addr, staticDir string, originPatterns []string) (*wsListener, *http.Server) {
	l := newWSListener(ctx, addr+"/ws")
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(l, originPatterns))
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return l, srv
}

// websocketHandler upgrades the request and hands the websocket to l.
func websocketHandler(l *wsListener, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			log.Printf("err: websocket accept: %v", err)
			return
		}

		select {
		case l.ch <- c:
		case <-l.done:
			c.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}

// wsListener implements net.Listener on top of accepted websockets.
type wsListener struct {
	ch   chan *websocket.Conn
	ctx  context.Context
	done chan struct{}
	once sync.Once
	addr wsAddr
}

func newWSListener(ctx context.Context, addr string) *wsListener {
	return &wsListener{
		ch:   make(chan *websocket.Conn),
		ctx:  ctx,
		done: make(chan struct{}),
		addr: wsAddr{addr: addr},
	}
}

func (l *wsListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		return nil, context.Cause(l.ctx)
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *wsListener) Addr() net.Addr {
	return l.addr
}

func (l *wsListener) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

// wsAddr implements net.Addr
type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string {
	return "ws"
}

func (a wsAddr) String() string {
	return a.addr
}
