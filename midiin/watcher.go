// Package midiin connects the synth to external MIDI input devices.
// Port discovery and selection live here, outside the synthesis core.
package midiin

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/keysynth/keysynth/parameter"
)

// ExcludedPatterns lists virtual/system ports that are never
// auto-connected.
var ExcludedPatterns = []string{"Midi Through", "Through Port", "Dummy"}

// Watcher monitors available MIDI inputs and maintains a connection to
// an accepted device. It handles hot-plug (new device appears) and
// hot-unplug (device disappears) transparently.
//
// onMessage receives the raw bytes of every message while a device is
// connected; it runs on the listener goroutine and must not block.
// onState is called (from a goroutine) when the connection state
// changes; callers use it to silence all voices on device loss.
type Watcher struct {
	mu           sync.Mutex
	drv          *rtmididrv.Driver
	inPort       drivers.In
	stopFn       func()
	connected    bool
	selectedName string
	lastRescanAt time.Time
	accepted     []string

	onMessage func(data []byte)
	onState   func(connected bool)
}

// New creates a watcher and initialises the underlying rtmidi driver.
// accepted holds substrings matched against port names; with none
// configured, a lone available port is used. Call Close() when done.
func New(accepted []string, onMessage func([]byte), onState func(bool)) (*Watcher, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	return &Watcher{
		drv:       drv,
		accepted:  accepted,
		onMessage: onMessage,
		onState:   onState,
	}, nil
}

// Close shuts down the active MIDI connection and the rtmidi driver.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeConn()
	w.drv.Close()
}

// Connected returns the active port name and connection state.
func (w *Watcher) Connected() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedName, w.connected
}

// SetAccepted replaces the accepted-port patterns and drops the current
// connection so the next tick reconnects against the new list.
func (w *Watcher) SetAccepted(accepted []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.accepted = accepted
	if w.connected {
		w.closeConn()
		w.lastRescanAt = time.Time{}
		if w.onState != nil {
			go w.onState(false)
		}
	}
}

// Tick should be called on a regular interval from the main loop. It
// scans for devices, auto-connects to an accepted one, and detects
// disappearances.
func (w *Watcher) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if !w.lastRescanAt.IsZero() && now.Sub(w.lastRescanAt) < parameter.MidiRescanInterval {
		return
	}
	w.lastRescanAt = now

	inputs := w.listInputs()

	if w.connected {
		// Verify the selected device is still present.
		for _, n := range inputs {
			if n == w.selectedName {
				return // still there, nothing to do
			}
		}
		// Device disappeared.
		slog.Warn("midi: device disappeared", "device", w.selectedName)
		w.closeConn()
		w.lastRescanAt = time.Time{} // rescan immediately next tick
		if w.onState != nil {
			go w.onState(false)
		}
		return
	}

	if len(inputs) == 0 {
		return
	}
	cand, ok := pickAccepted(inputs, w.accepted)
	if !ok {
		return
	}
	if err := w.openByName(cand); err != nil {
		slog.Error("midi: connect failed", "device", cand, "err", err)
	}
}

// ListPorts enumerates the available MIDI input port names without
// starting a watcher.
func ListPorts() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	defer drv.Close()

	ins, err := drv.Ins()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names, nil
}

func (w *Watcher) listInputs() []string {
	ins, err := w.drv.Ins()
	if err != nil {
		slog.Error("midi: list inputs failed", "err", err)
		return nil
	}
	var names []string
	for _, in := range ins {
		name := in.String()
		if isExcluded(name) {
			slog.Debug("midi: input excluded", "device", name)
			continue
		}
		names = append(names, name)
	}
	slog.Debug("midi: inputs found", "count", len(names), "devices", strings.Join(names, ", "))
	return names
}

// pickAccepted returns the first input whose name contains one of the
// accepted patterns; with no patterns a lone input is accepted.
func pickAccepted(inputs, accepted []string) (string, bool) {
	for _, pat := range accepted {
		for _, name := range inputs {
			if containsCI(name, pat) {
				return name, true
			}
		}
	}
	if len(accepted) == 0 && len(inputs) == 1 {
		return inputs[0], true
	}
	return "", false
}

func isExcluded(name string) bool {
	for _, pat := range ExcludedPatterns {
		if containsCI(name, pat) {
			return true
		}
	}
	return false
}

func (w *Watcher) closeConn() {
	if w.stopFn != nil {
		w.stopFn()
		w.stopFn = nil
	}
	if w.inPort != nil {
		_ = w.inPort.Close()
		w.inPort = nil
	}
	w.connected = false
	w.selectedName = ""
}

func (w *Watcher) openByName(name string) error {
	ins, err := w.drv.Ins()
	if err != nil {
		return err
	}
	var found drivers.In
	for _, in := range ins {
		if in.String() == name {
			found = in
			break
		}
	}
	if found == nil {
		return fmt.Errorf("input %q not found", name)
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}

	stop, err := midi.ListenTo(found, func(msg midi.Message, _ int32) {
		w.onMessage(msg.Bytes())
	}, midi.HandleError(func(listenErr error) {
		slog.Warn("midi: listener error", "device", name, "err", listenErr)
		// Tearing the connection down from inside the listener callback
		// would deadlock rtmidi, so hand off to a fresh goroutine that
		// takes the lock.
		go func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if w.connected && w.selectedName == name {
				w.closeConn()
				w.lastRescanAt = time.Time{} // trigger immediate rescan
				if w.onState != nil {
					go w.onState(false)
				}
			}
		}()
	}))
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("listen %q: %w", name, err)
	}

	w.inPort = found
	w.stopFn = stop
	w.connected = true
	w.selectedName = name
	slog.Info("midi: connected", "device", name)
	if w.onState != nil {
		go w.onState(true)
	}
	return nil
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
