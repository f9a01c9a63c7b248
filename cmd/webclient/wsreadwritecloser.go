//go:build js && wasm

package main

import (
	"io"
	"sync"
	"syscall/js"
)

// WSReadWriteCloser adapts a browser WebSocket to io.ReadWriteCloser so the
// JSON codec can stream over it.
type WSReadWriteCloser struct {
	ws js.Value

	mu     sync.Mutex // js callbacks can run while Write holds the socket
	closed bool
	err    error

	readCh chan []byte
	buf    []byte // unread part of the last message

	openCh   chan struct{} // closed once the socket opened or failed
	openOnce sync.Once
}

func NewWSReadWriteCloser(ws js.Value) *WSReadWriteCloser {
	c := &WSReadWriteCloser{
		ws:     ws,
		readCh: make(chan []byte, 8),
		openCh: make(chan struct{}),
	}

	ws.Set("binaryType", "arraybuffer")

	ws.Set("onopen", js.FuncOf(func(js.Value, []js.Value) any {
		c.markOpen()
		return nil
	}))

	ws.Set("onerror", js.FuncOf(func(js.Value, []js.Value) any {
		c.mu.Lock()
		c.err = io.ErrUnexpectedEOF
		c.mu.Unlock()
		c.markOpen()
		return nil
	}))

	ws.Set("onmessage", js.FuncOf(func(this js.Value, args []js.Value) any {
		b := messageBytes(args[0].Get("data"))
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.closed {
			c.readCh <- b
		}
		return nil
	}))

	ws.Set("onclose", js.FuncOf(func(js.Value, []js.Value) any {
		logScreenf("websocket closed")
		c.shutdown()
		return nil
	}))

	return c
}

func (c *WSReadWriteCloser) Read(p []byte) (int, error) {
	if len(c.buf) == 0 {
		msg, ok := <-c.readCh
		if !ok {
			return 0, io.EOF
		}
		c.buf = msg
	}

	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}

func (c *WSReadWriteCloser) Write(p []byte) (int, error) {
	<-c.openCh

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return 0, c.err
	}
	if c.closed {
		return 0, io.ErrClosedPipe
	}

	u8 := js.Global().Get("Uint8Array").New(len(p))
	js.CopyBytesToJS(u8, p)
	c.ws.Call("send", u8)
	return len(p), nil
}

func (c *WSReadWriteCloser) Close() error {
	if c.shutdown() {
		c.ws.Call("close")
	}
	return nil
}

func (c *WSReadWriteCloser) markOpen() {
	c.openOnce.Do(func() { close(c.openCh) })
}

// shutdown marks the connection closed and reports whether it was open.
func (c *WSReadWriteCloser) shutdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	c.markOpen()
	close(c.readCh)
	return true
}

// messageBytes copies a binary websocket message into Go memory. The socket
// uses binaryType "arraybuffer", so Blob payloads never arrive.
func messageBytes(data js.Value) []byte {
	if !data.InstanceOf(js.Global().Get("Uint8Array")) {
		data = js.Global().Get("Uint8Array").New(data)
	}
	b := make([]byte, data.Get("byteLength").Int())
	js.CopyBytesToGo(b, data)
	return b
}
