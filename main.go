package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/keysynth/keysynth/midiin"
	"github.com/keysynth/keysynth/parameter"
	"github.com/keysynth/keysynth/synth"
	"github.com/keysynth/keysynth/ui"
)

// initLogger configures the shared slog logger and calls slog.SetDefault
// so the stdlib log package also routes through the same handler.
func initLogger(debug bool, w *os.File) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug, // include file:line in debug mode
	})
	slog.SetDefault(slog.New(h))
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging (adds source location)")
	listPorts := flag.Bool("list-ports", false, "list MIDI input ports and exit")
	port := flag.String("port", "", "comma-separated MIDI port name patterns (overrides KEYSYNTH_MIDI_PORTS)")
	headless := flag.Bool("headless", false, "run without the keyboard view until interrupted")
	flag.Parse()

	if *listPorts {
		names, err := midiin.ListPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "listing MIDI ports: %v\n", err)
			os.Exit(1)
		}
		if len(names) == 0 {
			fmt.Println("no MIDI input ports available")
			return
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	// The keyboard view owns the terminal, so logs go to a file when the
	// UI is up.
	logOut := os.Stderr
	if !*headless {
		if f, err := os.Create("keysynth.log"); err == nil {
			logOut = f
			defer f.Close()
		}
	}
	initLogger(*debug, logOut)

	cfg := synth.LoadConfig()
	if *port != "" {
		cfg.PortPatterns = nil
		for _, p := range strings.Split(*port, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.PortPatterns = append(cfg.PortPatterns, p)
			}
		}
	}

	slog.Info("keysynth starting",
		"sample_rate", cfg.SampleRate,
		"buffer_frames", cfg.BufferFrames,
		"voices", parameter.MaxVoices,
		"port_patterns", strings.Join(cfg.PortPatterns, ", "),
	)

	engine := synth.NewEngine(cfg)

	// A speaker init failure is the one fatal stream-level error; there
	// is no in-core recovery.
	if err := speaker.Init(beep.SampleRate(cfg.SampleRate), cfg.BufferFrames); err != nil {
		slog.Error("audio output init failed", "err", err)
		os.Exit(1)
	}
	defer speaker.Close()
	speaker.Play(synth.NewStreamer(engine))

	watcher, err := midiin.New(cfg.PortPatterns,
		engine.Ingest,
		func(connected bool) {
			if !connected {
				// Device lost: release everything rather than droning on.
				engine.SilenceAll()
			}
		})
	if err != nil {
		slog.Error("midi watcher init failed", "err", err)
		os.Exit(1)
	}
	defer watcher.Close()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(parameter.MidiRescanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				watcher.Tick()
			}
		}
	}()

	if *headless {
		slog.Info("running headless - waiting for MIDI input")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	} else {
		statusFn := func() ui.Status {
			name, connected := watcher.Connected()
			return ui.Status{PortName: name, Connected: connected}
		}
		if err := ui.Run(engine, statusFn, done); err != nil {
			slog.Error("keyboard view failed", "err", err)
		}
	}

	close(done)
	engine.Stop()
	slog.Info("keysynth stopped")
}
