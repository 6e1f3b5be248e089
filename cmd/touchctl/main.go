// Command touchctl receives TouchOSC (and optionally MIDI) control
// messages, keeps the latest value of every control declared in a
// layout file, and lets you inspect them from an interactive shell.
//
// Usage:
//
//	touchctl [flags]
//
// Flags:
//
//	-config string  Configuration file path (yaml, toml or json)
//	-shell          Start the interactive shell (default true)
//
// Every setting can also be given as a TOUCHCTL_* environment
// variable, e.g. TOUCHCTL_OSC_PORT=9000 or TOUCHCTL_LAYOUT=layout.yaml.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/jmacd/touchctl/capture"
	"github.com/jmacd/touchctl/config"
	"github.com/jmacd/touchctl/controller"
	"github.com/jmacd/touchctl/internal/shell"
	"github.com/jmacd/touchctl/layout"
	"github.com/jmacd/touchctl/metrics"
	"github.com/jmacd/touchctl/midiin"
	"github.com/jmacd/touchctl/oscin"
	"github.com/jmacd/touchctl/touchosc"
)

var (
	configFile = flag.String("config", "", "Configuration file path")
	withShell  = flag.Bool("shell", true, "Start the interactive shell")
)

// runner is a transport with a blocking receive loop.
type runner interface {
	Run(ctx context.Context) error
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var sh *shell.Shell
	logOut := io.Writer(os.Stderr)
	if *withShell {
		if sh, err = shell.New(); err != nil {
			log.Fatalf("error while starting shell: %v", err)
		}
		logOut = sh.Stderr()
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	var (
		sources []controller.Source
		runners []runner
	)
	reg := prometheus.NewRegistry()

	if cfg.Capture.Replay != "" {
		f, err := os.Open(cfg.Capture.Replay)
		if err != nil {
			log.Fatalf("error while opening replay: %v", err)
		}
		rp, err := capture.ReadAll(f)
		f.Close()
		if err != nil {
			log.Fatalf("error while reading replay: %v", err)
		}
		logger.Info("replaying capture", "path", cfg.Capture.Replay, "messages", rp.Len())
		sources = append(sources, rp)
	} else {
		recv, err := oscin.Listen(cfg.OSC.Port, oscin.WithLogger(logger))
		if err != nil {
			log.Fatalf("error while opening osc port: %v", err)
		}
		defer recv.Close()
		logger.Info("listening for osc", "addr", recv.Addr())
		sources = append(sources, recv)
		runners = append(runners, recv)
		if err := metrics.GaugeFunc(reg, "osc_dropped_messages", "OSC messages dropped on a full buffer.",
			func() float64 { return float64(recv.Dropped()) }); err != nil {
			log.Fatalf("error while registering metrics: %v", err)
		}
		if err := metrics.GaugeFunc(reg, "osc_malformed_packets", "OSC packets that failed to decode.",
			func() float64 { return float64(recv.Malformed()) }); err != nil {
			log.Fatalf("error while registering metrics: %v", err)
		}

		if cfg.OSC.Advertise {
			ifaces, err := oscin.InterfaceByName(cfg.OSC.Interface)
			if err != nil {
				log.Fatalf("error while selecting interface: %v", err)
			}
			adv, err := oscin.Advertise(cfg.OSC.Instance, recv.Port(), ifaces)
			if err != nil {
				logger.Warn("mdns advertisement failed", "error", err)
			} else {
				defer adv.Shutdown()
			}
		}

		if cfg.MIDI.Port != "" {
			in, err := midiin.Open(cfg.MIDI.Port, cfg.MIDI.Prefix)
			if err != nil {
				log.Fatalf("error while opening midi input: %v", err)
			}
			defer in.Close()
			sources = append(sources, in)
			runners = append(runners, in)
		}
	}

	src := controller.Merge(sources...)
	if cfg.Capture.Record != "" {
		f, err := os.Create(cfg.Capture.Record)
		if err != nil {
			log.Fatalf("error while creating capture: %v", err)
		}
		defer f.Close()
		rec := capture.NewRecorder(src, f)
		defer func() {
			if err := rec.Err(); err != nil {
				logger.Error("capture incomplete", "error", err)
			}
		}()
		src = rec
	}

	obs, err := metrics.NewObserver(reg)
	if err != nil {
		log.Fatalf("error while registering metrics: %v", err)
	}
	client := touchosc.NewClient(src,
		touchosc.WithLogger(logger),
		touchosc.WithVerbose(cfg.Verbose),
		touchosc.WithObserver(obs),
	)

	if cfg.Layout != "" {
		l, err := layout.Load(cfg.Layout)
		if err != nil {
			log.Fatalf("error while loading layout: %v", err)
		}
		if err := l.Apply(client); err != nil {
			log.Fatalf("error while registering controls: %v", err)
		}
		logger.Info("registered controls", "count", len(l.Controls))
	}

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler(reg)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "error", err)
			}
		}()
		defer srv.Close()
	}

	for _, r := range runners {
		go func(r runner) {
			if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("receiver stopped", "error", err)
				cancel()
			}
		}(r)
	}

	var mu sync.Mutex
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(cfg.Period())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mu.Lock()
				client.Update()
				mu.Unlock()
			}
		}
	}()

	if sh != nil {
		sh.Run(ctx, cancel, client, &mu)
	}
	<-ctx.Done()
	wg.Wait()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
