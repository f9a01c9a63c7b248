package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"

	"github.com/google/uuid"

	mandel "github.com/marben/deepzoom"
)

// serve accepts connections on l until ctx is done.
func serve(ctx context.Context, l net.Listener, sched *jobScheduler) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept on %s: %w", l.Addr(), err)
		}
		log.Printf("got connection from: %s", conn.RemoteAddr())
		go serveConn(ctx, conn, sched)
	}
}

// serveConn answers newline-delimited JSON requests on conn, one at a time,
// until the peer hangs up or sends something undecodable.
func serveConn(ctx context.Context, conn net.Conn, sched *jobScheduler) {
	defer conn.Close()

	dec := json.NewDecoder(bufio.NewReader(conn))
	enc := json.NewEncoder(conn)
	for {
		var wreq mandel.WireRequest
		if err := dec.Decode(&wreq); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Printf("err: decode request from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		if wreq.ID == "" {
			wreq.ID = uuid.NewString()
		}

		if err := enc.Encode(handleRequest(ctx, sched, wreq)); err != nil {
			log.Printf("err: write response to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func handleRequest(ctx context.Context, sched *jobScheduler, wreq mandel.WireRequest) mandel.WireResponse {
	req, err := wreq.Request()
	if err != nil {
		return mandel.ErrorResponse(wreq.ID, err)
	}
	if err := sched.admit(req); err != nil {
		return mandel.ErrorResponse(wreq.ID, err)
	}
	res, err := sched.run(ctx, wreq.ID, req)
	if err != nil {
		return mandel.ErrorResponse(wreq.ID, err)
	}
	return mandel.NewWireResponse(wreq.ID, res)
}
