package aesthetics

import (
	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/pointer"
	"github.com/peria-go/peria/internal/surface"
)

// Cursor tracks which surface a client has asked to use as the pointer's
// cursor image, falling back to the built-in default whenever that
// surface is destroyed or no surface currently has pointer focus.
// Grounded on original_source/src/aesthetics/cursor.rs.
type Cursor struct {
	p           *pointer.Pointer
	coordinator engine.Coordinator
}

// NewCursor builds a Cursor wrapping an already-constructed pointer — the
// default cursor buffer itself is pointer.New's job, not this package's
// (the buffer belongs to "tracking a global pointer", not "appearance
// policy").
func NewCursor(p *pointer.Pointer, coordinator engine.Coordinator) *Cursor {
	return &Cursor{p: p, coordinator: coordinator}
}

// OnCursorSurfaceChange handles a client's request to use sid as the
// cursor image.
func (c *Cursor) OnCursorSurfaceChange(sid surface.ID) {
	c.p.SetCursor(sid)
	c.coordinator.SetAsCursor(c.p.SID())
}

// OnFocusChanged handles a pointer focus change. If nothing is now
// focused, the cursor must fall back to the built-in default image —
// matching cursor.rs's own rationale: there is no client left to style it.
func (c *Cursor) OnFocusChanged(old, current surface.ID) {
	if !current.IsValid() {
		c.coordinator.SetAsCursor(c.p.DefaultSID())
	}
}

// OnSurfaceDestroyed handles a surface's destruction. If it was the active
// cursor image, the cursor resets to the built-in default.
func (c *Cursor) OnSurfaceDestroyed(sid surface.ID) {
	if c.p.SID() == sid {
		c.p.SetCursor(surface.Invalid)
		c.coordinator.SetAsCursor(c.p.SID())
	}
}
