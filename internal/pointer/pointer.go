// Package pointer tracks the single global pointer's position across an
// arbitrary number of outputs, including the "remembered output" casting
// heuristic used when the pointer strays outside every known display
// area (e.g. a relative-motion device pushing it past the edge of a
// multi-monitor layout).
package pointer

import (
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// DefaultCursorSize is the side length, in pixels, of the built-in cursor
// image created when no themed cursor is configured.
const DefaultCursorSize = 15

// SurfaceCreator is the narrow facade Pointer uses to create and populate
// its default cursor surface. The engine's Coordinator has different
// method names; internal/exhibitor adapts it to this interface.
type SurfaceCreator interface {
	CreateSurface() surface.ID
	AttachBuffer(id surface.ID, width, height, stride int, data []byte)
	CommitSurface(id surface.ID)
}

// OutputArea reports an output's area on the global coordinate plane.
// Satisfied by *display.Display.
type OutputArea interface {
	Area() geom.Area
}

// Pointer is the engine's single global pointer.
type Pointer struct {
	position            geom.Position
	lastPos             geom.Position
	hasLastX, hasLastY  bool
	displayArea         geom.Area
	csid                surface.ID
	defaultCsid         surface.ID
}

// New constructs a Pointer and its default cursor surface, a translucent
// DefaultCursorSize×DefaultCursorSize square (the original engine's own
// placeholder cursor image, ported verbatim: RGB 200 with alpha 100).
func New(sc SurfaceCreator) *Pointer {
	size := DefaultCursorSize
	data := make([]byte, 4*size*size)
	for i := range data {
		data[i] = 200
	}
	for z := 0; z < size*size; z++ {
		data[4*z+3] = 100
	}

	csid := sc.CreateSurface()
	sc.AttachBuffer(csid, size, size, 4*size, data)
	sc.CommitSurface(csid)

	return &Pointer{csid: csid, defaultCsid: csid}
}

// GlobalPosition returns the pointer's current position.
func (p *Pointer) GlobalPosition() geom.Position { return p.position }

// SID returns the id of the surface currently used as the cursor image.
func (p *Pointer) SID() surface.ID { return p.csid }

// DefaultSID returns the id of the built-in placeholder cursor surface,
// regardless of what SetCursor last selected.
func (p *Pointer) DefaultSID() surface.ID { return p.defaultCsid }

// SetCursor switches the surface drawn at the pointer's position; passing
// surface.Invalid restores the built-in default.
func (p *Pointer) SetCursor(sid surface.ID) {
	if !sid.IsValid() {
		p.csid = p.defaultCsid
		return
	}
	p.csid = sid
}

// MoveAndCast displaces the pointer by vector, then casts the result onto
// one of the known displays.
func (p *Pointer) MoveAndCast(vector geom.Vector, displays []OutputArea) {
	p.position = p.cast(p.position.Add(vector), displays)
}

// UpdatePosition accepts a new absolute position, any subset of whose axes
// may be present (mirroring devices that report e.g. only X), converts it
// to a relative displacement against the last absolute report received on
// each axis, and applies it via MoveAndCast.
func (p *Pointer) UpdatePosition(x, y *int, displays []OutputArea) {
	var vector geom.Vector
	if x != nil {
		if p.hasLastX {
			vector.X = *x - p.lastPos.X
		}
		p.lastPos.X = *x
		p.hasLastX = true
	}
	if y != nil {
		if p.hasLastY {
			vector.Y = *y - p.lastPos.Y
		}
		p.lastPos.Y = *y
		p.hasLastY = true
	}
	p.MoveAndCast(vector, displays)
}

// ResetPosition forgets the last absolute position seen, so the next
// UpdatePosition call produces a zero-displacement "warp" rather than a
// large jump.
func (p *Pointer) ResetPosition() {
	p.hasLastX, p.hasLastY = false, false
	p.lastPos = geom.Position{}
}

// cast implements the remembered-output heuristic: if position already
// falls within the remembered display area, it is returned unchanged.
// Otherwise every known display is scanned for one that contains it; if
// one is found it becomes the new remembered area. If none is found
// (position is off every display, e.g. a large relative jump) position is
// clamped into the previously remembered area instead.
func (p *Pointer) cast(position geom.Position, displays []OutputArea) geom.Position {
	if p.displayArea.Contains(position) {
		return position
	}
	for _, d := range displays {
		area := d.Area()
		if area.Contains(position) {
			p.displayArea = area
			return position
		}
	}
	return p.displayArea.Clamped(position)
}
