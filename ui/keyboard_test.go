package ui

import (
	"testing"

	"github.com/keysynth/keysynth/parameter"
)

// TestIsBlackKey verifies the black-key pattern across one octave
func TestIsBlackKey(t *testing.T) {
	// C4 major octave: C C# D D# E F F# G G# A A# B
	want := []bool{false, true, false, true, false, false, true, false, true, false, true, false}
	for i, w := range want {
		note := 60 + i
		if IsBlackKey(note) != w {
			t.Errorf("Expected IsBlackKey(%d) = %v", note, w)
		}
	}
}

// TestWhiteIndex verifies white-key counting starts at the lowest key
func TestWhiteIndex(t *testing.T) {
	cases := []struct {
		note int
		want int
	}{
		{parameter.LowestKey, 0},     // A0, first white key
		{parameter.LowestKey + 2, 1}, // B0
		{parameter.LowestKey + 3, 2}, // C1
		{60, 23},                     // middle C
		{108, 51},                    // C8, last key
	}
	for _, c := range cases {
		if got := WhiteIndex(c.note); got != c.want {
			t.Errorf("Expected WhiteIndex(%d) = %d, got %d", c.note, c.want, got)
		}
	}
}

// TestKeyColumnWhiteKeys verifies white keys land on whole key-width
// multiples
func TestKeyColumnWhiteKeys(t *testing.T) {
	if got := KeyColumn(parameter.LowestKey); got != 0 {
		t.Errorf("Expected lowest key at column 0, got %d", got)
	}
	if got := KeyColumn(parameter.LowestKey + 2); got != whiteKeyWidth {
		t.Errorf("Expected second white key at column %d, got %d", whiteKeyWidth, got)
	}
	for note := parameter.LowestKey; note < parameter.LowestKey+parameter.KeyCount; note++ {
		if IsBlackKey(note) {
			continue
		}
		if KeyColumn(note)%whiteKeyWidth != 0 {
			t.Errorf("Expected white key %d on a key-width boundary, got column %d", note, KeyColumn(note))
		}
	}
}

// TestKeyColumnBlackKeysStraddle verifies black keys sit on the divider
// between their white neighbours
func TestKeyColumnBlackKeysStraddle(t *testing.T) {
	// A#0 sits between A0 (column 0) and B0 (column 3)
	if got := KeyColumn(parameter.LowestKey + 1); got != 2 {
		t.Errorf("Expected first black key at column 2, got %d", got)
	}
	for note := parameter.LowestKey; note < parameter.LowestKey+parameter.KeyCount; note++ {
		if !IsBlackKey(note) {
			continue
		}
		left := KeyColumn(note - 1)
		right := KeyColumn(note + 1)
		x := KeyColumn(note)
		if x <= left || x >= right {
			t.Errorf("Expected black key %d between neighbours (%d..%d), got column %d", note, left, right, x)
		}
	}
}

// TestKeyColumnsIncrease verifies the layout is strictly left-to-right
func TestKeyColumnsIncrease(t *testing.T) {
	prev := -1
	for note := parameter.LowestKey; note < parameter.LowestKey+parameter.KeyCount; note++ {
		x := KeyColumn(note)
		if x <= prev {
			t.Fatalf("Expected columns strictly increasing, note %d at %d after %d", note, x, prev)
		}
		prev = x
	}
}
