package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 48000
	AudioChannels   = 2
)

// Synth Engine
const (
	// MaxVoices is the fixed size of the voice pool
	MaxVoices = 8

	// VoiceGain keeps the theoretical worst case (all voices at full
	// amplitude) inside the output range
	VoiceGain = 1.0 / MaxVoices

	// KeyCount and LowestKey describe the 88-key piano range (A0..C8)
	KeyCount  = 88
	LowestKey = 21
)

// Audio Engine Timing
const (
	// AudioBufferFrames is the requested frames per output buffer
	AudioBufferFrames = 1024

	// AudioBufferDuration at 48kHz / 1024 frames
	AudioBufferDuration = AudioBufferFrames * time.Second / AudioSampleRate
)

// Event Channel
const (
	// EventQueueSize is the fixed capacity of the note event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)

// MIDI Input
const (
	// MidiRescanInterval between port scans while watching for devices
	MidiRescanInterval = 1000 * time.Millisecond
)
