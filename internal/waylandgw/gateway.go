package waylandgw

import (
	"github.com/rajveermalviya/go-wayland/wayland"

	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// Gateway implements engine.Gateway against the globals bound by Connect.
// The exhibitor calls its methods directly, on the exhibitor thread.
// OnSurfaceReconfigured and OnSurfaceFrame issue requests on the
// surface's wl_surface; the pointer and keyboard methods send nothing to
// clients and only log the notification at Debug level (nothing at all
// when the seat gave no pointer or keyboard).
type Gateway struct {
	globals *Globals
	store   *Store
	pointer *wayland.Pointer
	keybd   *wayland.Keyboard
	logger  *log.Logger
}

// NewGateway builds a Gateway over globals, looking surface handles up
// through store so it can issue requests (e.g. committing an ack) against
// the right backend wl_surface.
func NewGateway(globals *Globals, store *Store, logger *log.Logger) (*Gateway, error) {
	gw := &Gateway{globals: globals, store: store, logger: logger}
	if globals.Seat != nil {
		p, err := globals.Seat.GetPointer()
		if err != nil {
			return nil, err
		}
		gw.pointer = p
		k, err := globals.Seat.GetKeyboard()
		if err != nil {
			return nil, err
		}
		gw.keybd = k
	}
	return gw, nil
}

func (g *Gateway) handleOf(id surface.ID) *wayland.Surface {
	g.store.mu.Lock()
	e, ok := g.store.surfaces[id]
	g.store.mu.Unlock()
	if !ok {
		return nil
	}
	s, _ := e.handle.(*wayland.Surface)
	return s
}

// OnSurfaceReconfigured acks the relax algorithm's chosen size/state back
// to the client by committing the surface that now carries it — the
// wire-level equivalent of xdg_toplevel.configure + xdg_surface.ack_configure
// in a real compositor, collapsed here onto a plain commit since this
// package stands in for, rather than fully replicates, the protocol
// encoder (see package doc).
func (g *Gateway) OnSurfaceReconfigured(id surface.ID, size geom.Size, state surface.State) {
	if s := g.handleOf(id); s != nil {
		s.Commit()
	}
}

// OnSurfaceFrame issues a wl_surface.frame request on id's surface;
// timeMillis is not used.
func (g *Gateway) OnSurfaceFrame(id surface.ID, timeMillis uint32) {
	if s := g.handleOf(id); s != nil {
		if _, err := s.Frame(); err != nil {
			g.logger.Warn("failed to request frame callback", "sid", id, "err", err)
		}
	}
}

// OnPointerFocusChanged logs the focus change; no wl_pointer.leave or
// wl_pointer.enter is sent.
func (g *Gateway) OnPointerFocusChanged(old, current surface.ID, pos geom.Position) {
	if g.pointer == nil {
		return
	}
	g.logger.Debug("pointer focus changed", "old", old, "current", current, "pos", pos)
}

// OnPointerRelativeMotion logs the motion; no motion event is sent to id.
func (g *Gateway) OnPointerRelativeMotion(id surface.ID, pos geom.Position, timeMillis uint32) {
	if g.pointer == nil {
		return
	}
	g.logger.Debug("pointer motion", "sid", id, "pos", pos, "time", timeMillis)
}

// OnPointerButton logs the button; nothing is sent to the focused surface.
func (g *Gateway) OnPointerButton(button uint32) {
	if g.pointer == nil {
		return
	}
	g.logger.Debug("pointer button", "button", button)
}

// OnPointerAxis logs the scroll value; nothing is sent to the focused
// surface.
func (g *Gateway) OnPointerAxis(axis float64) {
	if g.pointer == nil {
		return
	}
	g.logger.Debug("pointer axis", "value", axis)
}

// OnKeyboardFocusChanged logs the focus change; no wl_keyboard.leave or
// wl_keyboard.enter is sent.
func (g *Gateway) OnKeyboardFocusChanged(old, current surface.ID) {
	if g.keybd == nil {
		return
	}
	g.logger.Debug("keyboard focus changed", "old", old, "current", current)
}

// OnKeyboardInput logs the key event; nothing is sent to the focused
// surface.
func (g *Gateway) OnKeyboardInput(key uint32, mods uint32) {
	if g.keybd == nil {
		return
	}
	g.logger.Debug("keyboard input", "key", key, "mods", mods)
}

// OnOutputFound is a no-op here: wl_output advertisement to clients
// happens through the registry globals this Gateway already bound at
// Connect, not per-call.
func (g *Gateway) OnOutputFound() {}
