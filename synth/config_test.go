package synth

import (
	"os"
	"testing"

	"github.com/keysynth/keysynth/parameter"
)

// TestDefaultConfig verifies the built-in configuration
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SampleRate != parameter.AudioSampleRate {
		t.Errorf("Expected default sample rate %d, got %d", parameter.AudioSampleRate, cfg.SampleRate)
	}
	if cfg.Channels != parameter.AudioChannels {
		t.Errorf("Expected default channels %d, got %d", parameter.AudioChannels, cfg.Channels)
	}
	if cfg.BufferFrames != parameter.AudioBufferFrames {
		t.Errorf("Expected default buffer frames %d, got %d", parameter.AudioBufferFrames, cfg.BufferFrames)
	}
	if len(cfg.PortPatterns) != 0 {
		t.Errorf("Expected no default port patterns, got %v", cfg.PortPatterns)
	}
}

// TestLoadConfigDefaults verifies loading with no env vars set
func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("KEYSYNTH_SAMPLE_RATE")
	os.Unsetenv("KEYSYNTH_BUFFER_FRAMES")
	os.Unsetenv("KEYSYNTH_MIDI_PORTS")

	cfg := LoadConfig()
	if cfg.SampleRate != parameter.AudioSampleRate || cfg.BufferFrames != parameter.AudioBufferFrames {
		t.Errorf("Expected defaults, got rate=%d frames=%d", cfg.SampleRate, cfg.BufferFrames)
	}
}

// TestLoadConfigFromEnv verifies valid env values are applied
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("KEYSYNTH_SAMPLE_RATE", "44100")
	t.Setenv("KEYSYNTH_BUFFER_FRAMES", "512")
	t.Setenv("KEYSYNTH_MIDI_PORTS", "SMK25, Launchkey")

	cfg := LoadConfig()
	if cfg.SampleRate != 44100 {
		t.Errorf("Expected sample rate 44100, got %d", cfg.SampleRate)
	}
	if cfg.BufferFrames != 512 {
		t.Errorf("Expected buffer frames 512, got %d", cfg.BufferFrames)
	}
	if len(cfg.PortPatterns) != 2 || cfg.PortPatterns[0] != "SMK25" || cfg.PortPatterns[1] != "Launchkey" {
		t.Errorf("Expected trimmed port patterns, got %v", cfg.PortPatterns)
	}
}

// TestLoadConfigClampsOutOfRange verifies nonsense values fall back to
// defaults
func TestLoadConfigClampsOutOfRange(t *testing.T) {
	t.Setenv("KEYSYNTH_SAMPLE_RATE", "100")
	t.Setenv("KEYSYNTH_BUFFER_FRAMES", "1000000")

	cfg := LoadConfig()
	if cfg.SampleRate != parameter.AudioSampleRate {
		t.Errorf("Expected out-of-range sample rate to fall back to %d, got %d", parameter.AudioSampleRate, cfg.SampleRate)
	}
	if cfg.BufferFrames != parameter.AudioBufferFrames {
		t.Errorf("Expected out-of-range buffer frames to fall back to %d, got %d", parameter.AudioBufferFrames, cfg.BufferFrames)
	}
}

// TestLoadConfigIgnoresGarbage verifies unparseable values are ignored
func TestLoadConfigIgnoresGarbage(t *testing.T) {
	t.Setenv("KEYSYNTH_SAMPLE_RATE", "fast")
	t.Setenv("KEYSYNTH_MIDI_PORTS", " , ,")

	cfg := LoadConfig()
	if cfg.SampleRate != parameter.AudioSampleRate {
		t.Errorf("Expected default sample rate, got %d", cfg.SampleRate)
	}
	if len(cfg.PortPatterns) != 0 {
		t.Errorf("Expected empty port patterns, got %v", cfg.PortPatterns)
	}
}
