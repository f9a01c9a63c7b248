//go:build js && wasm

// webclient is a WASM client for the escape-time server. It sends the
// request described by the page form over a websocket and shows the result
// as a density plot.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"syscall/js"

	mandel "github.com/marben/deepzoom"
	"github.com/marben/deepzoom/internal/textplot"
)

func main() {
	logScreenf("Starting WASM web client...")

	// Determine server address for WebSocket connection
	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + host + "/ws"

	logScreenf("Connecting to escape-time server at %s...", websocketUrl)
	ws := js.Global().Get("WebSocket").New(websocketUrl)
	conn := NewWSReadWriteCloser(ws)
	dec := json.NewDecoder(bufio.NewReader(conn))
	enc := json.NewEncoder(conn)

	requests := make(chan mandel.Request)
	js.Global().Get("document").Call("getElementById", "render").Call("addEventListener", "click",
		js.FuncOf(func(js.Value, []js.Value) any {
			req, err := formRequest()
			if err != nil {
				logScreenf("bad request: %v", err)
				return nil
			}
			go func() { requests <- req }()
			return nil
		}))

	for req := range requests {
		wreq := mandel.NewWireRequest(req)
		logScreenf("Requesting %dx%d grid (id %s)...", req.SamplesX, req.SamplesY, wreq.ID)
		if err := enc.Encode(wreq); err != nil {
			logFatalf("send request: %v", err)
		}
		var resp mandel.WireResponse
		if err := dec.Decode(&resp); err != nil {
			logFatalf("read response: %v", err)
		}
		grid, err := resp.Grid()
		if err != nil {
			logScreenf("request %s failed: %v", resp.ID, err)
			continue
		}
		logScreenf("Got %s result, reference orbit length %d", resp.Method, resp.OrbitLength)
		showDensity(textplot.Density(grid))
	}
}

// formRequest reads the request fields from the page.
func formRequest() (mandel.Request, error) {
	doc := js.Global().Get("document")
	field := func(id string) string { return doc.Call("getElementById", id).Get("value").String() }

	width, err := strconv.ParseFloat(field("width"), 64)
	if err != nil {
		return mandel.Request{}, fmt.Errorf("width: %w", err)
	}
	samplesX, err := strconv.Atoi(field("samplesX"))
	if err != nil {
		return mandel.Request{}, fmt.Errorf("samples x: %w", err)
	}
	samplesY, err := strconv.Atoi(field("samplesY"))
	if err != nil {
		return mandel.Request{}, fmt.Errorf("samples y: %w", err)
	}
	maxIter, err := strconv.ParseInt(field("maxIterations"), 10, 64)
	if err != nil {
		return mandel.Request{}, fmt.Errorf("max iterations: %w", err)
	}
	return mandel.NewRequest(field("centerX"), field("centerY"), width, samplesX, samplesY, maxIter)
}

// showDensity replaces the plot element's text.
func showDensity(plot string) {
	js.Global().Get("document").Call("getElementById", "plot").Set("textContent", plot)
}

// logScreenf appends a formatted message to the log element in the DOM.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}
