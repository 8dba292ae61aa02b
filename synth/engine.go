package synth

import (
	"math"
	"sync/atomic"

	"github.com/keysynth/keysynth/parameter"
)

const tau = 2 * math.Pi

// Engine is the real-time synthesis core. Three contexts touch it:
//   - the ingestion context calls Ingest (and SilenceAll)
//   - the render context calls Render, and exclusively owns the voice
//     pool and the scratch buffers
//   - reader contexts call ActiveNotes and Stats
//
// The only shared state is the SPSC event queue, the seqlock-published
// snapshot, and the tallies. The render path takes no locks and
// performs no allocation
type Engine struct {
	cfg   *Config
	queue *EventQueue

	// Render context only
	pool    VoicePool
	drain   [parameter.EventQueueSize]NoteEvent
	mono    []float64
	stopped bool

	// Snapshot seqlock. snapVersion is odd while the render context is
	// rewriting the words; readers retry until they load a stable even
	// version, so a half-written set is never returned
	snapVersion atomic.Uint64
	snapWords   [2]atomic.Uint64

	rejected atomic.Uint64
	seq      atomic.Uint64
	running  atomic.Bool
}

// NewEngine creates a running engine for the given configuration
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.BufferFrames <= 0 {
		cfg.BufferFrames = parameter.AudioBufferFrames
	}
	e := &Engine{
		cfg:   cfg,
		queue: NewEventQueue(),
		mono:  make([]float64, cfg.BufferFrames),
	}
	e.running.Store(true)
	return e
}

// Ingest parses one raw MIDI message and enqueues the resulting note
// event for the next rendered buffer. Unrecognized messages are
// discarded and counted in the rejected tally. Never blocks
func (e *Engine) Ingest(data []byte) {
	ev, ok := decodeNote(data)
	if !ok {
		e.rejected.Add(1)
		return
	}
	ev.Seq = e.seq.Add(1)
	e.queue.Push(ev)
}

// SilenceAll releases every voice by enqueueing an all-off event.
// Because it travels through the queue it also cancels Note-Ons still
// pending from before the call. Called from the ingestion context on
// device loss
func (e *Engine) SilenceAll() {
	e.queue.Push(NoteEvent{Kind: NoteAllOff, Seq: e.seq.Add(1)})
}

// Render produces one output buffer of len(dst)/channels frames,
// interleaved. Sequence per invocation: drain and apply pending events,
// mix every active voice into a mono sum, replicate across channels,
// publish the active-set snapshot. With zero active voices the buffer
// is exact silence. After Stop it stays silent and the snapshot empty
func (e *Engine) Render(dst []float64, channels int) {
	for i := range dst {
		dst[i] = 0
	}
	if channels <= 0 {
		return
	}

	if !e.running.Load() {
		if !e.stopped {
			e.pool.Clear()
			e.publishSnapshot()
			e.stopped = true
		}
		return
	}

	n := e.queue.DrainInto(e.drain[:])
	for i := 0; i < n; i++ {
		e.pool.Apply(e.drain[i])
	}

	e.mix(dst, len(dst)/channels, channels)
	e.publishSnapshot()
}

// mix advances every active oscillator and writes the summed output.
// A request larger than the configured buffer is rendered in scratch-
// sized chunks, so the hot path never allocates
func (e *Engine) mix(dst []float64, frames, channels int) {
	for start := 0; start < frames; start += len(e.mono) {
		end := start + len(e.mono)
		if end > frames {
			end = frames
		}
		e.mixChunk(dst[start*channels:end*channels], end-start, channels)
	}
}

// mixChunk fills up to one scratch buffer's worth of frames. Phase
// wraps back into [0, 2π) each sample; math.Mod covers increments
// above 2π (notes near the top of the range at low sample rates)
func (e *Engine) mixChunk(dst []float64, frames, channels int) {
	mono := e.mono[:frames]
	for i := range mono {
		mono[i] = 0
	}

	sampleRate := float64(e.cfg.SampleRate)
	for i := range e.pool.voices {
		v := &e.pool.voices[i]
		if !v.Active {
			continue
		}
		inc := tau * v.Freq / sampleRate
		phase := v.Phase
		for f := 0; f < frames; f++ {
			mono[f] += math.Sin(phase) * parameter.VoiceGain
			phase += inc
			if phase >= tau {
				phase = math.Mod(phase, tau)
			}
		}
		v.Phase = phase
	}

	for f := 0; f < frames; f++ {
		base := f * channels
		for c := 0; c < channels; c++ {
			dst[base+c] = mono[f]
		}
	}
}

// publishSnapshot rebuilds the active set from the pool and stores it
// under the seqlock. The write never waits on readers
func (e *Engine) publishSnapshot() {
	var set ActiveSet
	for i := range e.pool.voices {
		if e.pool.voices[i].Active {
			set.add(e.pool.voices[i].Note)
		}
	}
	e.snapVersion.Add(1) // odd: write in progress
	e.snapWords[0].Store(set.words[0])
	e.snapWords[1].Store(set.words[1])
	e.snapVersion.Add(1) // even: stable
}

// ActiveNotes returns the most recently published snapshot, retrying
// while a publish is in flight. Never blocks the render context
func (e *Engine) ActiveNotes() ActiveSet {
	for {
		v := e.snapVersion.Load()
		if v&1 != 0 {
			continue
		}
		set := ActiveSet{words: [2]uint64{
			e.snapWords[0].Load(),
			e.snapWords[1].Load(),
		}}
		if e.snapVersion.Load() == v {
			return set
		}
	}
}

// Stats returns the rejected-message and dropped-event tallies
func (e *Engine) Stats() (rejected, dropped uint64) {
	return e.rejected.Load(), e.queue.Dropped()
}

// Running reports whether the engine is still producing sound
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Stop signals shutdown. The render context keeps producing buffers of
// exact silence until torn down; pending queued events are discarded
func (e *Engine) Stop() {
	e.running.Store(false)
}

// SampleRate returns the configured output sample rate
func (e *Engine) SampleRate() int {
	return e.cfg.SampleRate
}
