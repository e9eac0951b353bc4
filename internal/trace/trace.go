// Package trace implements a full-screen debugger view over a
// gcroots.Session: one line per active machine.Frame (rendered through
// machine.Describe, the same StackFrame shape spec §4.3 defines for
// error reporting) plus a panel listing every registered continuation,
// redrawn on every keypress. It is built directly on
// github.com/gdamore/tcell/v2, the same low-level screen the teacher's
// editor/display package draws its text viewport onto, but without that
// package's grapheme-cluster/tab-expansion machinery: a debugger's frame
// list has no line-wrapping concerns, so SetContent is called one rune
// at a time rather than through a cell-width-aware drawGraphemeCluster.
package trace

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/akasaka-miraina/lambdust-sub003/internal/gcroots"
	"github.com/akasaka-miraina/lambdust-sub003/internal/machine"
)

// View owns the screen and the session it renders.
type View struct {
	screen  tcell.Screen
	session *gcroots.Session
}

// Open initializes a tcell screen and wraps session for rendering.
func Open(session *gcroots.Session) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tcell.NewScreen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen.Init: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	return &View{screen: screen, session: session}, nil
}

// Close tears down the screen.
func (v *View) Close() { v.screen.Fini() }

// Run redraws the frame/continuation view and blocks for keypresses,
// exiting on 'q' or Escape — a minimal loop in the same shape as the
// teacher's editor event loop (draw, poll, handle, repeat).
func (v *View) Run() error {
	for {
		v.draw()
		ev := v.screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventKey:
			if e.Key() == tcell.KeyEscape || (e.Key() == tcell.KeyRune && e.Rune() == 'q') {
				return nil
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
}

func (v *View) draw() {
	v.screen.Clear()
	row := 0
	row = v.drawLine(0, row, "frames (bottom to top)", tcell.StyleDefault.Bold(true))
	row++

	for i, fr := range v.session.EnumerateFrames() {
		sf := machine.Describe(fr.Frame)
		line := fmt.Sprintf("%3d  %-22s %s", i, sf.Kind, sf.Name)
		row = v.drawLine(0, row, line, tcell.StyleDefault)
	}

	row++
	row = v.drawLine(0, row, "continuations", tcell.StyleDefault.Bold(true))
	row++
	for i, c := range v.session.Continuations() {
		trace := c.Trace()
		line := fmt.Sprintf("%3d  %d frame(s)", i, len(trace))
		row = v.drawLine(0, row, line, tcell.StyleDefault)
	}

	row++
	row = v.drawLine(0, row, "roots", tcell.StyleDefault.Bold(true))
	row++
	for _, r := range v.session.Roots() {
		v.drawLine(0, row, r.Name, tcell.StyleDefault)
		row++
	}

	v.drawLine(0, row+1, "press q or Esc to exit", tcell.StyleDefault.Dim(true))
	v.screen.Show()
}

func (v *View) drawLine(col, row int, s string, style tcell.Style) int {
	for _, r := range s {
		v.screen.SetContent(col, row, r, nil, style)
		col++
	}
	return row + 1
}
