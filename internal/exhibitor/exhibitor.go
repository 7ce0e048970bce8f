// Package exhibitor is the engine's top-level event router: it owns the
// compositor, the pointer, and the per-output display/driver registry, and
// turns the messages arriving on the exhibitor thread's queue (spec.md §4.7)
// into calls against those three.
package exhibitor

import (
	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/aesthetics"
	"github.com/peria-go/peria/internal/compositor"
	"github.com/peria-go/peria/internal/display"
	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/frame"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/pointer"
	"github.com/peria-go/peria/internal/surface"
)

// Exhibitor is the engine's single entry point once the exhibitor thread's
// queue starts delivering messages (see cmd/peria's run loop).
type Exhibitor struct {
	compositor  *compositor.Compositor
	pointer     *pointer.Pointer
	cursor      *aesthetics.Cursor
	background  *aesthetics.Background
	coordinator engine.Coordinator
	gateway     engine.Gateway
	mediator    *engine.Mediator
	logger      *log.Logger

	displays map[int]*display.Display
	drivers  map[int]engine.OutputDriver

	hovered surface.ID
}

// New constructs an Exhibitor. The pointer's default cursor surface is
// created immediately, via coordinator, and background installs lazily the
// first time a display is created.
func New(c *compositor.Compositor, coordinator engine.Coordinator, gateway engine.Gateway, mediator *engine.Mediator, background *aesthetics.Background, logger *log.Logger) *Exhibitor {
	p := pointer.New(coordinatorAsSurfaceCreator{coordinator})
	cursor := aesthetics.NewCursor(p, coordinator)
	coordinator.SetAsCursor(p.SID())
	return &Exhibitor{
		compositor:  c,
		pointer:     p,
		cursor:      cursor,
		background:  background,
		coordinator: coordinator,
		gateway:     gateway,
		mediator:    mediator,
		logger:      logger,
		displays:    make(map[int]*display.Display),
		drivers:     make(map[int]engine.OutputDriver),
	}
}

// coordinatorAsSurfaceCreator narrows engine.Coordinator to pointer.New's
// three-method SurfaceCreator; the shapes differ only in how a buffer is
// described (raw dimensions vs. a pool/memory-view pair), so this adapter
// owns the one conversion.
type coordinatorAsSurfaceCreator struct{ engine.Coordinator }

func (a coordinatorAsSurfaceCreator) CreateSurface() surface.ID { return a.Coordinator.CreateSurface() }

func (a coordinatorAsSurfaceCreator) AttachBuffer(id surface.ID, width, height, stride int, data []byte) {
	pool := a.Coordinator.CreatePoolFromBuffer(engine.Buffer{Width: width, Height: height, Stride: stride, Data: data})
	mvid := a.Coordinator.CreateMemoryView(pool, "argb8888", 0, width, height, stride)
	a.Coordinator.Attach(mvid, id)
}

func (a coordinatorAsSurfaceCreator) CommitSurface(id surface.ID) { a.Coordinator.Commit(id) }

// Pointer exposes the tracked pointer for packages that need read access
// (e.g. a Gateway implementation rendering the cursor surface).
func (e *Exhibitor) Pointer() *pointer.Pointer { return e.pointer }

// Mediator exposes the sid→client map for the Wayland collaborator thread
// to register and unregister ownership as clients connect and disconnect.
func (e *Exhibitor) Mediator() *engine.Mediator { return e.mediator }

// Compositor exposes the compositor for packages that need to drive it
// directly outside the message-handling path.
func (e *Exhibitor) Compositor() *compositor.Compositor { return e.compositor }

// outputAreas returns every tracked display's OutputArea, for the pointer's
// casting heuristic.
func (e *Exhibitor) outputAreas() []pointer.OutputArea {
	areas := make([]pointer.OutputArea, 0, len(e.displays))
	for _, d := range e.displays {
		areas = append(areas, d)
	}
	return areas
}

// OnOutputFound creates the output's Display frame and workspace, registers
// its driver, and triggers the first draw.
func (e *Exhibitor) OnOutputFound(info engine.OutputInfo, driver engine.OutputDriver) {
	frameID := e.compositor.CreateDisplay(info.Area.Size, outputTitle(info))
	d := display.New(info.ID, frameID, info.Area)
	e.displays[info.ID] = d
	e.drivers[info.ID] = driver
	if e.background != nil {
		e.background.OnDisplayCreated(info.Area.Size, outputTitle(info))
	}
	e.gateway.OnOutputFound()
	e.redraw(info.ID)
}

func outputTitle(info engine.OutputInfo) string {
	if info.Model != "" {
		return info.Model
	}
	return "output"
}

// OnOutputLost relocates every workspace on the lost output onto another
// tracked display (inserted spatially ahead of that display's own
// workspaces, whose relative order is kept, and marked inactive so the
// target's active workspace stays the one shown), then destroys the
// Display frame and driver entry.
// If no other display exists, the workspaces and their surfaces are simply
// abandoned along with the frame — there is nowhere left to show them.
func (e *Exhibitor) OnOutputLost(outputID int) {
	d, ok := e.displays[outputID]
	if !ok {
		return
	}

	target := e.anyOtherDisplay(outputID)
	if target != nilFrame {
		tree := e.compositor.Tree()
		var workspaces []frame.ID
		for ws := range tree.SpaceIter(d.Frame) {
			workspaces = append(workspaces, ws)
		}
		for _, ws := range workspaces {
			tree.SetActive(ws, false)
			tree.Resettle(ws, target, e.coordinator)
		}
	}

	tree := e.compositor.Tree()
	tree.Remove(d.Frame)
	tree.Destroy(d.Frame)

	delete(e.displays, outputID)
	delete(e.drivers, outputID)
}

const nilFrame = frame.ID(0)

func (e *Exhibitor) anyOtherDisplay(excludeOutputID int) frame.ID {
	for id, d := range e.displays {
		if id != excludeOutputID {
			return d.Frame
		}
	}
	return nilFrame
}

// OnSurfaceReady hands sid to the compositor to be placed into the tree.
func (e *Exhibitor) OnSurfaceReady(sid surface.ID) {
	e.compositor.ManageSurface(sid)
}

// OnSurfaceDestroyed removes sid from the tree and history, and forgets it
// as the hovered surface if it was.
func (e *Exhibitor) OnSurfaceDestroyed(sid surface.ID) {
	e.compositor.UnmanageSurface(sid)
	if e.hovered == sid {
		e.hovered = surface.Invalid
	}
	e.cursor.OnSurfaceDestroyed(sid)
	e.mediator.Unregister(sid)
}

// OnCursorSurfaceChange handles a client's request to use sid as the
// pointer's cursor image.
func (e *Exhibitor) OnCursorSurfaceChange(sid surface.ID) {
	e.cursor.OnCursorSurfaceChange(sid)
}

// OnBackgroundSurfaceChange handles a client (e.g. a desktop-shell panel)
// taking over background duties for a surface it created itself.
func (e *Exhibitor) OnBackgroundSurfaceChange(sid surface.ID) {
	if e.background != nil {
		e.background.OnSurfaceChange(sid)
	}
}

// OnPointerMotion applies a relative pointer displacement and recomputes
// hover.
func (e *Exhibitor) OnPointerMotion(dx, dy int) {
	e.pointer.MoveAndCast(geom.Vector{X: dx, Y: dy}, e.outputAreas())
	e.recomputeHover()
}

// OnPointerPosition applies an absolute pointer report, any subset of whose
// axes may be present, and recomputes hover.
func (e *Exhibitor) OnPointerPosition(x, y *int) {
	e.pointer.UpdatePosition(x, y, e.outputAreas())
	e.recomputeHover()
}

// recomputeHover finds the surface under the pointer's current global
// position (scanning the display it currently sits on) and, if it changed
// since the last check, notifies the Gateway and the coordinator.
func (e *Exhibitor) recomputeHover() {
	pos := e.pointer.GlobalPosition()
	d := e.displayContaining(pos)
	var found surface.ID
	if d != nil {
		found, _ = e.hitTest(d.Frame, pos)
	}
	if found == e.hovered {
		return
	}
	old := e.hovered
	e.hovered = found
	e.coordinator.SetPointerFocus(found, pos)
	e.cursor.OnFocusChanged(old, found)
	e.gateway.OnPointerFocusChanged(old, found, pos)
}

func (e *Exhibitor) displayContaining(pos geom.Position) *display.Display {
	for _, d := range e.displays {
		if d.Area().Contains(pos) {
			return d
		}
	}
	return nil
}

// hitTest walks the display's paint list front-to-back (ToArray produces
// bottom-to-top, so the topmost candidate is the last match) and returns
// the first surface whose area contains pos.
func (e *Exhibitor) hitTest(displayFrame frame.ID, pos geom.Position) (surface.ID, bool) {
	contexts := e.compositor.Tree().ToArray(displayFrame, e.coordinator)
	for i := len(contexts) - 1; i >= 0; i-- {
		ctx := contexts[i]
		if geom.NewArea(ctx.Position, ctx.Size).Contains(pos) {
			return ctx.ID, true
		}
	}
	return surface.Invalid, false
}

// OnPointerButton handles a raw button event. A press that lands on a
// surface other than the current selection implicitly focuses it
// (click-to-focus) before the event is forwarded; a release is simply
// forwarded.
func (e *Exhibitor) OnPointerButton(button uint32, pressed bool) {
	if pressed && e.hovered.IsValid() && e.hovered != e.compositor.Tree().SID(e.compositor.Selection()) {
		e.compositor.PopHistory(e.hovered)
	}
	e.gateway.OnPointerButton(button)
}

// OnPageFlip advances outputID's display-loop state machine and redraws
// immediately if a further redraw was queued while the flip was in flight.
func (e *Exhibitor) OnPageFlip(outputID int) {
	d, ok := e.displays[outputID]
	if !ok {
		return
	}
	if d.OnPageFlip() {
		e.draw(outputID)
	}
}

// OnVblank forwards a cosmetic vblank callback; it never affects the
// render state machine.
func (e *Exhibitor) OnVblank(outputID int) {
	if d, ok := e.displays[outputID]; ok {
		d.OnVblank()
	}
}

// OnNotify marks every output dirty and redraws the ones sitting Idle.
func (e *Exhibitor) OnNotify() {
	for outputID := range e.displays {
		e.redraw(outputID)
	}
}

// OnCommand forwards a user-facing command to the compositor.
func (e *Exhibitor) OnCommand(cmd engine.Command) {
	e.compositor.Execute(cmd)
}

// redraw requests a redraw through the display's state machine and, if the
// machine says a draw should start right now, draws.
func (e *Exhibitor) redraw(outputID int) {
	d, ok := e.displays[outputID]
	if !ok {
		return
	}
	if d.RequestRedraw() {
		e.draw(outputID)
	}
}

// draw collects the output's paint list, submits it to the driver, and
// arms the next page-flip. Failures are absorbed per spec.md §7: a render,
// swap or page-flip failure skips this frame and drops the output back to
// Idle. Nothing re-arms a redraw after a failure; the output is drawn again
// only on its next redraw request.
func (e *Exhibitor) draw(outputID int) {
	d, ok := e.displays[outputID]
	if !ok {
		return
	}
	driver, ok := e.drivers[outputID]
	if !ok {
		return
	}

	surfaces := e.compositor.Tree().ToArray(d.Frame, e.coordinator)
	if err := driver.Draw(nil, surfaces, nil); err != nil {
		e.logger.Warn("render failed, retrying next cycle", "output", outputID, "err", err)
		d.OnPageFlip()
		return
	}
	if _, err := driver.SwapBuffers(); err != nil {
		e.logger.Warn("swap buffers failed", "output", outputID, "err", err)
		d.OnPageFlip()
		return
	}
	if err := driver.SchedulePageFlip(); err != nil {
		e.logger.Warn("page flip scheduling failed", "output", outputID, "err", err)
		d.OnPageFlip()
	}
}
