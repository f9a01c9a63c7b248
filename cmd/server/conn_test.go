package main

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mandel "github.com/marben/deepzoom"
)

type wireClient struct {
	enc *json.Encoder
	dec *json.Decoder
}

func newWireClient(conn net.Conn) *wireClient {
	return &wireClient{enc: json.NewEncoder(conn), dec: json.NewDecoder(bufio.NewReader(conn))}
}

func (c *wireClient) call(t *testing.T, wreq mandel.WireRequest) mandel.WireResponse {
	t.Helper()
	require.NoError(t, c.enc.Encode(wreq))
	var resp mandel.WireResponse
	require.NoError(t, c.dec.Decode(&resp))
	return resp
}

func TestServeConn(t *testing.T) {
	t.Parallel()

	server, client := net.Pipe()
	sched := newJobScheduler(&mandel.Engine{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serveConn(context.Background(), server, sched)
	}()
	c := newWireClient(client)

	t.Run("basic request", func(t *testing.T) {
		wreq := mandel.NewWireRequest(testRequest(t))
		resp := c.call(t, wreq)
		assert.Equal(t, wreq.ID, resp.ID)
		assert.Empty(t, resp.Error)
		assert.Equal(t, "basic", resp.Method)

		grid, err := resp.Grid()
		require.NoError(t, err)
		assert.Equal(t, mandel.DidNotEscape, grid.At(1, 1))
	})

	t.Run("deep request", func(t *testing.T) {
		req, err := mandel.NewRequest("-1", "0", 1e-10, 4, 4, 1000)
		require.NoError(t, err)
		resp := c.call(t, mandel.NewWireRequest(req))
		assert.Equal(t, "perturbation", resp.Method)
		assert.EqualValues(t, 1000, resp.OrbitLength)
		assert.Len(t, resp.Cells, 16)
	})

	t.Run("invalid request keeps the connection", func(t *testing.T) {
		resp := c.call(t, mandel.WireRequest{ID: "bad", CenterX: "0", CenterY: "0", Width: -1, SamplesX: 1, SamplesY: 1, MaxIterations: 1})
		assert.Equal(t, "bad", resp.ID)
		assert.Contains(t, resp.Error, "invalid escape-time request")

		resp = c.call(t, mandel.WireRequest{CenterX: "0", CenterY: "0", Width: 4, SamplesX: 1, SamplesY: 1, MaxIterations: 5})
		assert.NotEmpty(t, resp.ID, "server assigns an id")
		assert.Empty(t, resp.Error)
	})

	client.Close()
	<-done
	_, finished, failed := sched.stats()
	assert.Equal(t, 3, finished)
	assert.Equal(t, 0, failed)
}

func TestServeConnRejectsOversizedGrids(t *testing.T) {
	t.Parallel()

	server, client := net.Pipe()
	sched := newJobScheduler(&mandel.Engine{}, 1)
	sched.maxSamples = 1000
	done := make(chan struct{})
	go func() {
		defer close(done)
		serveConn(context.Background(), server, sched)
	}()
	c := newWireClient(client)

	resp := c.call(t, mandel.WireRequest{ID: "wrap", CenterX: "0", CenterY: "0", Width: 4, SamplesX: 1 << 32, SamplesY: 1 << 32, MaxIterations: 1})
	assert.Equal(t, "wrap", resp.ID)
	assert.Contains(t, resp.Error, "overflows int")

	resp = c.call(t, mandel.WireRequest{ID: "big", CenterX: "0", CenterY: "0", Width: 4, SamplesX: 100, SamplesY: 11, MaxIterations: 1})
	assert.Equal(t, "big", resp.ID)
	assert.Contains(t, resp.Error, "exceeds 1000 cells")

	resp = c.call(t, mandel.WireRequest{ID: "ok", CenterX: "0", CenterY: "0", Width: 4, SamplesX: 100, SamplesY: 10, MaxIterations: 1})
	assert.Empty(t, resp.Error)
	assert.Len(t, resp.Cells, 1000)

	client.Close()
	<-done
	_, finished, failed := sched.stats()
	assert.Equal(t, 1, finished)
	assert.Equal(t, 0, failed)
}

func TestServeConnClosesOnGarbage(t *testing.T) {
	t.Parallel()

	server, client := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		serveConn(context.Background(), server, newJobScheduler(&mandel.Engine{}, 1))
	}()

	_, err := client.Write([]byte("{not json\n"))
	require.NoError(t, err)
	<-done

	_, err = client.Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestServeTCP(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- serve(ctx, l, newJobScheduler(&mandel.Engine{}, 2)) }()

	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	resp := newWireClient(conn).call(t, mandel.NewWireRequest(testRequest(t)))
	assert.Empty(t, resp.Error)
	conn.Close()

	cancel()
	require.NoError(t, <-served)
}

func TestServeWebsocket(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, srv := webServer(ctx, "127.0.0.1:0", t.TempDir(), nil)
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	served := make(chan error, 1)
	go func() { served <- serve(ctx, l, newJobScheduler(&mandel.Engine{}, 1)) }()

	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	conn := websocket.NetConn(ctx, ws, websocket.MessageBinary)

	resp := newWireClient(conn).call(t, mandel.NewWireRequest(testRequest(t)))
	assert.Empty(t, resp.Error)
	assert.Equal(t, 3, resp.Width)
	conn.Close()

	l.Close()
	require.NoError(t, <-served)
	assert.Equal(t, "ws", l.Addr().Network())
}

func TestWebsocketOriginPatterns(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dial := func(ts *httptest.Server, origin string) error {
		opts := &websocket.DialOptions{HTTPHeader: http.Header{"Origin": {origin}}}
		ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", opts)
		if err == nil {
			ws.Close(websocket.StatusNormalClosure, "")
		}
		return err
	}

	l, srv := webServer(ctx, "127.0.0.1:0", t.TempDir(), nil)
	defer l.Close()
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()
	require.Error(t, dial(ts, "http://elsewhere.example"), "cross origin rejected by default")

	l, srv = webServer(ctx, "127.0.0.1:0", t.TempDir(), []string{"*.example"})
	defer l.Close()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	ts2 := httptest.NewServer(srv.Handler)
	defer ts2.Close()
	require.NoError(t, dial(ts2, "http://elsewhere.example"))
}
