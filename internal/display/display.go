// Package display implements the per-output render/page-flip state
// machine described in spec.md §4.5: at most one page-flip may be in
// flight for a given output at a time, and redraw requests that arrive
// while a flip is outstanding are folded into the next cycle instead of
// racing it.
package display

import (
	"github.com/peria-go/peria/internal/frame"
	"github.com/peria-go/peria/internal/geom"
)

// State is one of the three states an output's display loop can be in.
type State int

const (
	// Idle: no flip in flight; a redraw request may proceed immediately.
	Idle State = iota
	// AwaitingFlip: a page-flip has been scheduled and not yet confirmed.
	AwaitingFlip
	// Dirty: a flip is in flight, and a further redraw was requested while
	// waiting for it — the next flip confirmation must immediately start
	// another cycle instead of settling at Idle.
	Dirty
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingFlip:
		return "awaiting-flip"
	case Dirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// Display is one output's render loop state together with the identity of
// its Display frame in the frame tree and its area on the global plane.
type Display struct {
	OutputID int
	Frame    frame.ID
	area     geom.Area
	state    State
}

// New constructs a Display in the Idle state.
func New(outputID int, frameID frame.ID, area geom.Area) *Display {
	return &Display{OutputID: outputID, Frame: frameID, area: area, state: Idle}
}

// Area returns the output's area on the global coordinate plane. Also
// satisfies internal/pointer's OutputArea interface.
func (d *Display) Area() geom.Area { return d.area }

// SetArea updates the output's area, e.g. after a mode change.
func (d *Display) SetArea(area geom.Area) { d.area = area }

// State returns the display loop's current state.
func (d *Display) State() State { return d.state }

// RequestRedraw handles a redraw request. It returns true when the caller
// should actually collect surfaces, draw, and schedule a page-flip right
// now (Idle → AwaitingFlip); any other state just records that a redraw is
// owed once the outstanding flip completes, and returns false.
func (d *Display) RequestRedraw() bool {
	switch d.state {
	case Idle:
		d.state = AwaitingFlip
		return true
	case AwaitingFlip:
		d.state = Dirty
		return false
	default: // Dirty
		return false
	}
}

// OnPageFlip handles the kernel's page-flip-complete notification. It
// returns true when a further redraw was requested while this flip was in
// flight and must start immediately (Dirty → AwaitingFlip); otherwise the
// loop settles at Idle and it returns false.
func (d *Display) OnPageFlip() bool {
	if d.state == Dirty {
		d.state = AwaitingFlip
		return true
	}
	d.state = Idle
	return false
}

// OnVblank is a cosmetic hook: outputs (virtual ones in particular) may
// want to forward vblank timing to external consumers, but it never
// changes the render state machine.
func (d *Display) OnVblank() {}
