// Package waylandgw is the concrete Gateway/Coordinator pairing built on
// the real external Wayland collaborator. Grounded on the teacher's
// wayland.go (WaylandGlobals: conn/display/registry/compositor/seat/shm,
// InitWayland, sync), with the protocol library swapped from the
// teacher's vendored github.com/friedelschoen/wayland+proto pair for
// github.com/rajveermalviya/go-wayland/wayland — a real, maintained
// Wayland client protocol binding already in go.mod. It stands in for the
// out-of-scope wire-protocol encoder: this is the one package where the
// engine's "interfaces only" boundary touches real wire traffic.
package waylandgw

import (
	"fmt"

	"github.com/rajveermalviya/go-wayland/wayland"

	"github.com/charmbracelet/log"
)

// Globals holds the bound Wayland registry objects the rest of this
// package's Gateway/Store implementations issue requests against,
// mirroring the teacher's WaylandGlobals without its layer-shell and
// output globals.
type Globals struct {
	Display    *wayland.Display
	Registry   *wayland.Registry
	Compositor *wayland.Compositor
	Shm        *wayland.Shm
	Seat       *wayland.Seat

	logger *log.Logger
}

// Connect opens the Wayland connection named by wlDisplay (empty string
// means "use WAYLAND_DISPLAY/default socket") and binds the globals this
// engine needs, the way InitWayland does for the teacher's single
// context-menu client.
func Connect(wlDisplay string, logger *log.Logger) (*Globals, error) {
	display, err := wayland.Connect(wlDisplay)
	if err != nil {
		return nil, fmt.Errorf("connecting to wayland display %q: %w", wlDisplay, err)
	}

	g := &Globals{Display: display, logger: logger}

	registry, err := display.GetRegistry()
	if err != nil {
		return nil, fmt.Errorf("getting registry: %w", err)
	}
	g.Registry = registry

	registry.SetGlobalHandler(func(ev wayland.RegistryGlobalEvent) {
		switch ev.Interface {
		case "wl_compositor":
			g.Compositor = wayland.NewCompositor(display.Context())
			_ = registry.Bind(ev.Name, ev.Interface, ev.Version, g.Compositor)
		case "wl_shm":
			g.Shm = wayland.NewShm(display.Context())
			_ = registry.Bind(ev.Name, ev.Interface, ev.Version, g.Shm)
		case "wl_seat":
			g.Seat = wayland.NewSeat(display.Context())
			_ = registry.Bind(ev.Name, ev.Interface, ev.Version, g.Seat)
		}
	})

	if err := g.roundTrip(); err != nil {
		return nil, fmt.Errorf("initial registry round-trip: %w", err)
	}
	if g.Compositor == nil || g.Shm == nil {
		return nil, fmt.Errorf("wayland server is missing wl_compositor or wl_shm")
	}
	return g, nil
}

// roundTrip blocks until the server has processed every request sent so
// far, the same synchronization the teacher's sync() performs with a
// wl_display.sync callback.
func (g *Globals) roundTrip() error {
	callback, err := g.Display.Sync()
	if err != nil {
		return err
	}
	done := make(chan struct{})
	callback.SetDoneHandler(func(wayland.CallbackDoneEvent) { close(done) })
	for {
		if err := g.Display.Context().Dispatch(); err != nil {
			return err
		}
		select {
		case <-done:
			return nil
		default:
		}
	}
}
