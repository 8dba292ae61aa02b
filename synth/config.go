package synth

import (
	"os"
	"strconv"
	"strings"

	"github.com/keysynth/keysynth/parameter"
)

// Config holds the tunables of the synth and its surrounding app
type Config struct {
	SampleRate   int
	Channels     int
	BufferFrames int

	// PortPatterns are substrings matched against MIDI input port names
	// when auto-connecting (empty = connect to a lone port only)
	PortPatterns []string
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		SampleRate:   parameter.AudioSampleRate,
		Channels:     parameter.AudioChannels,
		BufferFrames: parameter.AudioBufferFrames,
	}
}

// LoadConfig loads configuration from environment variables, falling
// back to defaults for anything unset or out of range
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if rate := os.Getenv("KEYSYNTH_SAMPLE_RATE"); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val >= 8000 && val <= 192000 {
			cfg.SampleRate = val
		}
	}

	if frames := os.Getenv("KEYSYNTH_BUFFER_FRAMES"); frames != "" {
		if val, err := strconv.Atoi(frames); err == nil && val >= 64 && val <= 16384 {
			cfg.BufferFrames = val
		}
	}

	if ports := os.Getenv("KEYSYNTH_MIDI_PORTS"); ports != "" {
		for _, p := range strings.Split(ports, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.PortPatterns = append(cfg.PortPatterns, p)
			}
		}
	}

	return cfg
}
