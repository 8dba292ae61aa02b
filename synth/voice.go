package synth

import (
	"fmt"

	"github.com/keysynth/keysynth/parameter"
)

// Voice is one slot of the fixed pool: a sine oscillator bound to a note.
// Phase is the running accumulator in [0, 2π), advanced by the render
// loop each sample
type Voice struct {
	Note     uint8
	Velocity uint8
	Freq     float64
	Phase    float64
	Active   bool
	age      uint64 // allocation order token used for stealing
}

// VoicePool maps active notes to a fixed set of voice slots. It is
// exclusively owned and mutated by the render context; no locking
type VoicePool struct {
	voices     [parameter.MaxVoices]Voice
	ageCounter uint64
}

// Allocate grants a slot for a Note-On and returns its index. A free
// slot is taken lowest-index-first; with the pool full, the slot holding
// the longest-held note (smallest age token) is stolen. Never fails.
// A Note-On for an already-active note retriggers in place: velocity is
// reassigned and the phase reset, without consuming another slot
func (p *VoicePool) Allocate(note, velocity uint8) int {
	if i := p.find(note); i >= 0 {
		v := &p.voices[i]
		v.Velocity = velocity
		v.Phase = 0
		return i
	}

	slot := -1
	for i := range p.voices {
		if !p.voices[i].Active {
			slot = i
			break
		}
	}
	if slot < 0 {
		// Steal-oldest: smallest age token loses
		slot = 0
		for i := 1; i < len(p.voices); i++ {
			if p.voices[i].age < p.voices[slot].age {
				slot = i
			}
		}
	}

	p.ageCounter++
	p.voices[slot] = Voice{
		Note:     note,
		Velocity: velocity,
		Freq:     NoteFreq(int(note)),
		Active:   true,
		age:      p.ageCounter,
	}
	return slot
}

// Release marks the voice holding note inactive. A Note-Off with no
// matching voice (spurious, or the note was stolen) is a no-op
func (p *VoicePool) Release(note uint8) bool {
	if i := p.find(note); i >= 0 {
		p.voices[i].Active = false
		return true
	}
	return false
}

// Apply dispatches one note event to the pool
func (p *VoicePool) Apply(ev NoteEvent) {
	switch ev.Kind {
	case NoteOn:
		p.Allocate(ev.Note, ev.Velocity)
	case NoteOff:
		p.Release(ev.Note)
	case NoteAllOff:
		p.Clear()
	}
}

// Clear deactivates every slot
func (p *VoicePool) Clear() {
	for i := range p.voices {
		p.voices[i].Active = false
	}
}

// ActiveCount returns the number of sounding voices
func (p *VoicePool) ActiveCount() int {
	count := 0
	for i := range p.voices {
		if p.voices[i].Active {
			count++
		}
	}
	return count
}

// Validate checks the pool invariants: active count within the pool
// size and no two active slots holding the same note
func (p *VoicePool) Validate() error {
	var seen [128]bool
	count := 0
	for i := range p.voices {
		v := &p.voices[i]
		if !v.Active {
			continue
		}
		count++
		if seen[v.Note] {
			return fmt.Errorf("duplicate active note %d", v.Note)
		}
		seen[v.Note] = true
	}
	if count > parameter.MaxVoices {
		return fmt.Errorf("active count %d exceeds pool size %d", count, parameter.MaxVoices)
	}
	return nil
}

func (p *VoicePool) find(note uint8) int {
	for i := range p.voices {
		if p.voices[i].Active && p.voices[i].Note == note {
			return i
		}
	}
	return -1
}
