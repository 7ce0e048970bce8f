package frame

import (
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// Relax recomputes position and size for id's Anchored children and
// recurses into any child that is itself a container of children
// (Container/Workspace/Display), so a resize at any level cascades all the
// way down. Floating and Docked children are left untouched, except under a
// Display: each of its workspaces (Docked) is laid out over the display's
// whole area, whatever the display's geometry, since only one of them is
// shown at a time.
//
// Per the original engine (cognitive/.../frames/packing.rs, whose own doc
// comment admits "currently relaxing is equivalent to homogenizing"),
// Anchored children always receive an equal share of the parent's area —
// there is no ratio-preserving resize. A manual Resize command can
// override sizes temporarily, but the next Relax (triggered by any
// Settle/Resettle/Ramify) resets everyone back to equal shares.
func (t *Tree) Relax(id ID, sa SurfaceAccess) {
	n := t.get(id)
	if n == nil {
		return
	}
	total := t.CountChildren(id)
	if total == 0 {
		return
	}
	if n.mode == ModeDisplay {
		for child := range t.SpaceIter(id) {
			t.layoutChild(child, n.position, n.size, sa)
		}
		return
	}

	switch n.geometry {
	case Stacked:
		for child := range t.SpaceIter(id) {
			if t.Mobility(child) != Anchored {
				continue
			}
			t.layoutChild(child, n.position, n.size, sa)
		}
	case Vertical:
		share := n.size.Height / total
		offset := 0
		for child := range t.SpaceIter(id) {
			if t.Mobility(child) != Anchored {
				offset += share
				continue
			}
			childSize := geom.Size{Width: n.size.Width, Height: share}
			childPos := geom.Position{X: n.position.X, Y: n.position.Y + offset}
			t.layoutChild(child, childPos, childSize, sa)
			offset += share
		}
	case Horizontal:
		share := n.size.Width / total
		offset := 0
		for child := range t.SpaceIter(id) {
			if t.Mobility(child) != Anchored {
				offset += share
				continue
			}
			childSize := geom.Size{Width: share, Height: n.size.Height}
			childPos := geom.Position{X: n.position.X + offset, Y: n.position.Y}
			t.layoutChild(child, childPos, childSize, sa)
			offset += share
		}
	}
}

func (t *Tree) layoutChild(child ID, pos geom.Position, size geom.Size, sa SurfaceAccess) {
	c := t.mustGet(child)
	c.position = pos
	c.size = size
	switch c.mode {
	case ModeLeaf:
		if sa != nil && c.sid.IsValid() {
			sa.Reconfigure(c.sid, size, surface.StateMaximized)
		}
	case ModeContainer, ModeWorkspace, ModeDisplay:
		t.Relax(child, sa)
	}
}

// ---- displaying (§4.1 "to_array") -----------------------------------------

// SurfaceListing is the narrow facade ToArray uses to ask the surface
// store for the renderer contexts (e.g. subsurfaces, popups) anchored to a
// given leaf's surface. Most leaves contribute exactly one context.
type SurfaceListing interface {
	RendererContexts(id surface.ID) []surface.Context
}

// ToArray produces the bottom-to-top paint list for the active workspace
// under display (a Display frame). It walks children in reverse spatial
// order, recursively expanding Container frames, matching the original's
// space_rev_iter-based Displaying::to_array.
func (t *Tree) ToArray(display ID, listing SurfaceListing) []surface.Context {
	active, ok := t.activeWorkspace(display)
	if !ok {
		return nil
	}
	var out []surface.Context
	t.appendArray(active, listing, &out)
	return out
}

func (t *Tree) activeWorkspace(display ID) (ID, bool) {
	for child := range t.SpaceIter(display) {
		if t.Mode(child) == ModeWorkspace && t.Active(child) {
			return child, true
		}
	}
	return nilID, false
}

func (t *Tree) appendArray(id ID, listing SurfaceListing, out *[]surface.Context) {
	n := t.mustGet(id)
	if n.mode == ModeLeaf || n.mode == ModeSpecial {
		if !n.sid.IsValid() {
			return
		}
		for _, ctx := range listing.RendererContexts(n.sid) {
			if ctx.Size == (geom.Size{}) {
				ctx.Size = n.size
			}
			*out = append(*out, ctx.Moved(n.position))
		}
		return
	}
	for child := range t.SpaceReverseIter(id) {
		t.appendArray(child, listing, out)
	}
}
