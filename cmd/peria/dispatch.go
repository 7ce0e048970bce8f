package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/exhibitor"
)

// dispatch turns one engine.Message into the matching Exhibitor call and
// reports whether the loop should keep running. drivers supplies the
// engine.OutputDriver an OutputFoundMsg itself does not carry — serve
// constructs the driver and registers it here before the message is ever
// queued, keyed by output id, and forgets it again once the output is
// lost.
func dispatch(msg engine.Message, ex *exhibitor.Exhibitor, drivers map[int]engine.OutputDriver) bool {
	switch m := msg.(type) {
	case engine.OutputFoundMsg:
		if driver, ok := drivers[m.OutputID]; ok {
			ex.OnOutputFound(m.Info, driver)
		}
	case engine.OutputLostMsg:
		ex.OnOutputLost(m.OutputID)
		delete(drivers, m.OutputID)
	case engine.SurfaceReadyMsg:
		ex.OnSurfaceReady(m.SID)
	case engine.SurfaceDestroyedMsg:
		ex.OnSurfaceDestroyed(m.SID)
	case engine.PointerMotionMsg:
		ex.OnPointerMotion(m.DX, m.DY)
	case engine.PointerPositionMsg:
		var x, y *int
		if m.HasX {
			x = &m.X
		}
		if m.HasY {
			y = &m.Y
		}
		ex.OnPointerPosition(x, y)
	case engine.PointerButtonMsg:
		ex.OnPointerButton(m.Button, m.Pressed)
	case engine.PageFlipNotifyMsg:
		ex.OnPageFlip(m.OutputID)
	case engine.VblankNotifyMsg:
		ex.OnVblank(m.OutputID)
	case engine.NotifyMsg:
		ex.OnNotify()
	case engine.CommandMsg:
		ex.OnCommand(m.Command)
	case engine.TerminateMsg:
		return false
	}
	return true
}

// runLoop is the dispatcher thread spec.md §5 describes: it selects over
// the queue and the process's signal channel until either delivers a
// reason to stop. A TerminateMsg first dispatches every message already
// waiting in the queue, then returns; a signal returns at once.
func runLoop(queue *engine.Queue, sig <-chan os.Signal, ex *exhibitor.Exhibitor, drivers map[int]engine.OutputDriver, logger *log.Logger) {
	for {
		select {
		case msg := <-queue.Chan():
			if !dispatch(msg, ex, drivers) {
				logger.Info("terminate message received, exiting")
				for {
					select {
					case pending := <-queue.Chan():
						dispatch(pending, ex, drivers)
					default:
						return
					}
				}
			}
		case s := <-sig:
			logger.Info("signal received, exiting", "signal", s)
			return
		}
	}
}
