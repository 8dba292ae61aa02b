package synth

// Streamer adapts the engine's render callback to the beep streaming
// contract so speaker.Play can drive it. The scratch buffer is sized at
// construction; Stream itself does not allocate
type Streamer struct {
	engine  *Engine
	scratch []float64
}

// NewStreamer wraps engine for playback through beep/speaker
func NewStreamer(e *Engine) *Streamer {
	return &Streamer{
		engine:  e,
		scratch: make([]float64, e.cfg.BufferFrames*2),
	}
}

// Stream renders len(samples) stereo frames, in scratch-sized chunks
// when the speaker asks for more than the configured buffer. Always
// reports ok: after engine shutdown it keeps delivering silence until
// the speaker is torn down
func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	maxFrames := len(s.scratch) / 2
	for off := 0; off < len(samples); {
		frames := len(samples) - off
		if frames > maxFrames {
			frames = maxFrames
		}
		buf := s.scratch[:frames*2]

		s.engine.Render(buf, 2)
		for i := 0; i < frames; i++ {
			samples[off+i][0] = buf[2*i]
			samples[off+i][1] = buf[2*i+1]
		}
		off += frames
	}
	return len(samples), true
}

// Err implements beep.Streamer; the engine absorbs per-event anomalies
// and has no stream-level error source of its own
func (s *Streamer) Err() error {
	return nil
}
