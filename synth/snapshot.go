package synth

import "math/bits"

// ActiveSet is a read-only view of the currently active note numbers,
// published once per rendered buffer for UI key-highlighting. The zero
// value is the empty set
type ActiveSet struct {
	words [2]uint64
}

func (s *ActiveSet) add(note uint8) {
	if note < 128 {
		s.words[note>>6] |= 1 << (note & 63)
	}
}

// Contains reports whether note is in the set
func (s ActiveSet) Contains(note uint8) bool {
	if note >= 128 {
		return false
	}
	return s.words[note>>6]&(1<<(note&63)) != 0
}

// Count returns the number of active notes
func (s ActiveSet) Count() int {
	return bits.OnesCount64(s.words[0]) + bits.OnesCount64(s.words[1])
}

// Notes returns the active note numbers in ascending order. Allocates;
// intended for the UI context, not the render path
func (s ActiveSet) Notes() []uint8 {
	out := make([]uint8, 0, s.Count())
	for n := 0; n < 128; n++ {
		if s.Contains(uint8(n)) {
			out = append(out, uint8(n))
		}
	}
	return out
}
