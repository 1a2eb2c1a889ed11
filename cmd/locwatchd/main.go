// Command locwatchd drives one internal/watcher.Handler per configured
// location, reading raw filesystem events from an EventSource and ticking
// the handler on a fixed interval. It never talks to a platform watch API
// itself (spec.md §1/§6 non-goals) — events arrive pre-classified, the way
// a real daemon's FSEvents bridge would hand them off.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kestrelfs/iosvault/internal/fs"
	"github.com/kestrelfs/iosvault/internal/librarybridge"
	"github.com/kestrelfs/iosvault/internal/watchconfig"
	"github.com/kestrelfs/iosvault/internal/watcher"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	flagSet := flag.NewFlagSet("locwatchd", flag.ContinueOnError)
	flagSet.SetOutput(errOut)

	watchDir := flagSet.String("watch-dir", "", "override the configured watch directory")
	configPath := flagSet.String("config", "", "explicit config file path")
	showConfig := flagSet.Bool("show-config", false, "print resolved config and exit")

	if err := flagSet.Parse(args[1:]); err != nil {
		return 1
	}

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(errOut, "locwatchd: getwd: %v\n", err)
		return 1
	}

	cfg, _, err := watchconfig.Load(
		workDir, *configPath,
		watchconfig.Config{WatchDir: *watchDir},
		flagSet.Changed("watch-dir"),
		os.Environ(),
	)
	if err != nil {
		fmt.Fprintf(errOut, "locwatchd: %v\n", err)
		return 1
	}

	if *showConfig {
		formatted, err := watchconfig.Format(cfg)
		if err != nil {
			fmt.Fprintf(errOut, "locwatchd: %v\n", err)
			return 1
		}

		fmt.Fprintln(out, formatted)

		return 0
	}

	logger := log.New(errOut, "locwatchd: ", log.LstdFlags)

	bridge := librarybridge.NewInMemory(map[int64]string{cfg.LocationID: cfg.WatchDir})
	handler := watcher.New(cfg.LocationID, bridge, fs.NewReal(), watcher.RealClock{}, logger)
	source := NewJSONLinesEventSource(in)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	tickInterval := time.Duration(cfg.TickIntervalMS) * time.Millisecond
	if tickInterval <= 0 {
		tickInterval = 100 * time.Millisecond
	}

	return eventLoop(ctx, handler, source, tickInterval, logger)
}

// eventLoop pumps events from source into handler and ticks handler on
// every interval, until source is exhausted or ctx is cancelled.
func eventLoop(ctx context.Context, handler *watcher.Handler, source EventSource, interval time.Duration, logger *log.Logger) int {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan watcher.Event)
	done := make(chan error, 1)

	go func() {
		for {
			event, err := source.Next()
			if err != nil {
				done <- err
				return
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return 0

		case err := <-done:
			if err != io.EOF {
				logger.Printf("event source: %v", err)
				return 1
			}

			return 0

		case event := <-events:
			if err := handler.HandleEvent(ctx, event); err != nil {
				logger.Printf("handle event: %v", err)
			}

		case <-ticker.C:
			handler.Tick(ctx)
		}
	}
}
