// client computes an escape-time grid in-process and prints it as text.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	mandel "github.com/marben/deepzoom"
	"github.com/marben/deepzoom/internal/config"
	"github.com/marben/deepzoom/internal/textplot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("client", pflag.ContinueOnError)
	config.RequestFlags(fs)
	list := fs.Bool("list", false, "list presets and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		for _, p := range mandel.Presets() {
			fmt.Fprintf(stdout, "%-24s x=%s y=%s width=%g iter=%d\n", p.Name, p.CenterX, p.CenterY, p.Width, p.MaxIterations)
		}
		return nil
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	req, err := cfg.Request.Request()
	if err != nil {
		return err
	}

	engine := cfg.Engine.Engine()
	engine.OnSelect = func(m mandel.Method, req mandel.Request) {
		log.Printf("rendering %dx%d with %s method", req.SamplesX, req.SamplesY, m)
	}

	start := time.Now()
	res, err := engine.EscapeTime(ctx, req)
	if err != nil {
		return fmt.Errorf("escape time: %w", err)
	}
	log.Printf("done in %s", time.Since(start))

	return textplot.WriteReport(stdout, res.Method.String(), res.OrbitLength, res.Grid)
}
