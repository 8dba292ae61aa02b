// Package ui renders the 88-key highlight view in the terminal. It only
// reads the engine's published snapshot and tallies; it never touches
// synthesis state directly.
package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/keysynth/keysynth/parameter"
	"github.com/keysynth/keysynth/synth"
)

const (
	// whiteKeyWidth is the column span of one white key, divider included
	whiteKeyWidth = 3

	whiteKeyRows = 6
	blackKeyRows = 3 // upper portion of the keyboard, like the 5/8 split of a real octave

	redrawInterval = 33 * time.Millisecond
)

var (
	styleWhite        = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	styleBlack        = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	stylePressed      = tcell.StyleDefault.Background(tcell.ColorCornflowerBlue).Foreground(tcell.ColorBlack)
	styleDivider      = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorBlack)
	styleFooter       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDisconnected = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Status is the diagnostic state shown in the footer.
type Status struct {
	PortName  string
	Connected bool
	Rejected  uint64
	Dropped   uint64
}

// IsBlackKey reports whether a MIDI note is a black key.
func IsBlackKey(note int) bool {
	switch note % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// WhiteIndex returns the count of white keys below note within the
// 88-key range, i.e. the white-key column of note (or of the white key
// it sits between, for black keys).
func WhiteIndex(note int) int {
	count := 0
	for n := parameter.LowestKey; n < note; n++ {
		if !IsBlackKey(n) {
			count++
		}
	}
	return count
}

// KeyColumn returns the leftmost screen column of a key. Black keys
// straddle the divider between their white neighbours.
func KeyColumn(note int) int {
	if IsBlackKey(note) {
		return WhiteIndex(note)*whiteKeyWidth - 1
	}
	return WhiteIndex(note) * whiteKeyWidth
}

// Draw paints the keyboard and footer onto the screen.
func Draw(s tcell.Screen, snap synth.ActiveSet, status Status) {
	s.Clear()
	width, height := s.Size()
	if height < whiteKeyRows+1 {
		return
	}

	top := 1

	// White keys first, black keys over them.
	for note := parameter.LowestKey; note < parameter.LowestKey+parameter.KeyCount; note++ {
		if IsBlackKey(note) {
			continue
		}
		x := KeyColumn(note)
		if x+whiteKeyWidth > width {
			break
		}
		style := styleWhite
		if snap.Contains(uint8(note)) {
			style = stylePressed
		}
		for row := 0; row < whiteKeyRows; row++ {
			s.SetContent(x, top+row, ' ', nil, style)
			s.SetContent(x+1, top+row, ' ', nil, style)
			s.SetContent(x+2, top+row, ' ', nil, styleDivider)
		}
	}

	for note := parameter.LowestKey; note < parameter.LowestKey+parameter.KeyCount; note++ {
		if !IsBlackKey(note) {
			continue
		}
		x := KeyColumn(note)
		if x+2 > width {
			break
		}
		style := styleBlack
		if snap.Contains(uint8(note)) {
			style = stylePressed
		}
		for row := 0; row < blackKeyRows; row++ {
			s.SetContent(x, top+row, ' ', nil, style)
			s.SetContent(x+1, top+row, ' ', nil, style)
		}
	}

	drawFooter(s, top+whiteKeyRows+1, snap, status)
	s.Show()
}

func drawFooter(s tcell.Screen, y int, snap synth.ActiveSet, status Status) {
	var line string
	style := styleFooter
	if status.Connected {
		line = fmt.Sprintf("MIDI: %s", status.PortName)
	} else {
		line = "MIDI input not connected"
		style = styleDisconnected
	}
	drawText(s, 0, y, style, line)

	stats := fmt.Sprintf("voices %d/%d   rejected %d   dropped %d   q quits",
		snap.Count(), parameter.MaxVoices, status.Rejected, status.Dropped)
	drawText(s, 0, y+1, styleFooter, stats)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	width, _ := s.Size()
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// Run owns the screen until the user quits (q, Esc or Ctrl-C) or done
// is closed. statusFn is polled each redraw.
func Run(engine *synth.Engine, statusFn func() Status, done <-chan struct{}) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			rejected, dropped := engine.Stats()
			status := statusFn()
			status.Rejected = rejected
			status.Dropped = dropped
			Draw(screen, engine.ActiveNotes(), status)
		}
	}
}
