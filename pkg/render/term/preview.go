package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/archdiag/pkg/diagram"
	"github.com/ha1tch/archdiag/pkg/render"
)

// Preview clears the screen, draws the plan and shows it.
func Preview(screen tcell.Screen, plan *diagram.Plan, world diagram.Rect) {
	screen.SetStyle(styleDefault)
	screen.Clear()
	render.Render(plan, NewSurface(screen, world))
	screen.Show()
}

// Run shows the plan and handles events until the user quits with q, Esc
// or Ctrl-C. The screen must already be initialised; Run does not finalise it.
func Run(screen tcell.Screen, plan *diagram.Plan, world diagram.Rect) {
	Preview(screen, plan, world)
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
			Preview(screen, plan, world)
		case *tcell.EventKey:
			if quitKey(ev) {
				return
			}
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
