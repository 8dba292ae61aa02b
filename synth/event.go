package synth

// MIDI channel voice status nibbles recognized by ingestion
const (
	statusNoteOff = 0x80
	statusNoteOn  = 0x90
)

// EventKind distinguishes note events
type EventKind uint8

const (
	NoteOn EventKind = iota
	NoteOff

	// NoteAllOff releases every voice at once. Never produced by
	// decoding; it is enqueued internally on device loss so it takes
	// effect after any note events already in flight
	NoteAllOff
)

// NoteEvent is a normalized key event. Immutable once created.
// Seq is assigned at ingestion and increases strictly; the render loop
// applies events in Seq order.
type NoteEvent struct {
	Kind     EventKind
	Note     uint8 // MIDI note number 0-127
	Velocity uint8 // 0-127
	Seq      uint64
}

// decodeNote parses one raw MIDI message (status byte + data bytes) into
// a note event. A Note-On with velocity 0 is a Note-Off by convention.
// Returns false for anything that is not a well-formed note message;
// the caller counts those in the rejected tally.
func decodeNote(data []byte) (NoteEvent, bool) {
	if len(data) < 3 {
		return NoteEvent{}, false
	}
	note, velocity := data[1], data[2]
	if note > 127 || velocity > 127 {
		return NoteEvent{}, false
	}

	switch data[0] & 0xF0 {
	case statusNoteOn:
		if velocity == 0 {
			return NoteEvent{Kind: NoteOff, Note: note}, true
		}
		return NoteEvent{Kind: NoteOn, Note: note, Velocity: velocity}, true
	case statusNoteOff:
		return NoteEvent{Kind: NoteOff, Note: note, Velocity: velocity}, true
	}
	return NoteEvent{}, false
}
