// cliclient sends one escape-time request to the server and prints the
// returned grid as text.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/spf13/pflag"

	mandel "github.com/marben/deepzoom"
	"github.com/marben/deepzoom/internal/config"
	"github.com/marben/deepzoom/internal/textplot"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	fs := pflag.NewFlagSet("cliclient", pflag.ExitOnError)
	config.RequestFlags(fs)
	config.ClientFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	req, err := cfg.Request.Request()
	if err != nil {
		return err
	}

	log.Printf("Connecting to escape-time server on %s...", cfg.Client.ServerAddr)
	conn, err := net.Dial("tcp", cfg.Client.ServerAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer conn.Close()

	wreq := mandel.NewWireRequest(req)
	log.Printf("Requesting %dx%d grid (id %s)...", req.SamplesX, req.SamplesY, wreq.ID)
	resp, err := roundTrip(conn, wreq)
	if err != nil {
		return err
	}
	grid, err := resp.Grid()
	if err != nil {
		return fmt.Errorf("request %s: %w", resp.ID, err)
	}

	return textplot.WriteReport(os.Stdout, resp.Method, resp.OrbitLength, grid)
}

// roundTrip sends one request on conn and reads its response.
func roundTrip(conn net.Conn, wreq mandel.WireRequest) (mandel.WireResponse, error) {
	if err := json.NewEncoder(conn).Encode(wreq); err != nil {
		return mandel.WireResponse{}, fmt.Errorf("send request: %w", err)
	}
	var resp mandel.WireResponse
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&resp); err != nil {
		return mandel.WireResponse{}, fmt.Errorf("read response: %w", err)
	}
	if resp.ID != wreq.ID {
		return mandel.WireResponse{}, fmt.Errorf("response id %q does not match request %q", resp.ID, wreq.ID)
	}
	return resp, nil
}
