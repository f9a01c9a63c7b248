// Command server computes escape-time grids for remote clients over TCP and
// websocket connections.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/deepzoom"
	"github.com/marben/deepzoom/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	fs := pflag.NewFlagSet("server", pflag.ExitOnError)
	config.ServerFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	engine := cfg.Engine.Engine()
	engine.OnSelect = func(m mandel.Method, req mandel.Request) {
		log.Printf("computing %dx%d at width %g with %s method", req.SamplesX, req.SamplesY, req.Width, m)
	}
	sched := newJobScheduler(engine, cfg.Server.MaxJobs)
	sched.maxSamples = cfg.Server.MaxSamples

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// TCP
	tcpListener, err := net.Listen("tcp", cfg.Server.TCPAddr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}
	log.Printf("tcp listening on %s", tcpListener.Addr())

	// WEBSOCKET
	wsListener, httpServer := webServer(ctx, cfg.Server.HTTPAddr, cfg.Server.StaticDir, cfg.Server.OriginPatterns)
	log.Printf("listening on http://localhost%s", cfg.Server.HTTPAddr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		wsListener.Close()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return serve(ctx, tcpListener, sched) })
	g.Go(func() error { return serve(ctx, wsListener, sched) })

	log.Printf("escape-time server waiting for tcp and websocket connections (%d job slots)", cfg.Server.MaxJobs)
	err = g.Wait()
	active, finished, failed := sched.stats()
	log.Printf("jobs: %d active, %d finished, %d failed", active, finished, failed)
	return err
}
