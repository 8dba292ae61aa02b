package synth

import "math"

// NoteFrequencies holds the equal-tempered pitch of every MIDI note,
// built once at startup so voice allocation is a table lookup. Tuning
// reference is A4 (note 69) at 440Hz
var NoteFrequencies [128]float64

func init() {
	for i := range NoteFrequencies {
		NoteFrequencies[i] = 440.0 * math.Exp2((float64(i)-69.0)/12.0)
	}
}

// NoteFreq looks up the frequency in Hz of a MIDI note number,
// returning 0 outside 0..127
func NoteFreq(note int) float64 {
	if note < 0 || note >= 128 {
		return 0
	}
	return NoteFrequencies[note]
}
