package frame

import "github.com/peria-go/peria/internal/geom"

// Dive merges selection with its spatial neighbor toward direction,
// magnitude times, nesting them one Stacked container deeper each step.
// The merged container takes over the selection's former spot, so the
// caller's notion of "selection" does not change — only its depth does.
// Returns the (unchanged) selection id; a dive that runs out of neighbors
// partway through simply stops early.
func (t *Tree) Dive(selection ID, direction Direction, magnitude int, sa SurfaceAccess) ID {
	cur := selection
	for step := 0; step < magnitude; step++ {
		sibling, ok := t.SiblingInDirection(cur, direction)
		if !ok {
			break
		}
		cur = t.diveOnce(cur, sibling, direction, sa)
	}
	return cur
}

func (t *Tree) diveOnce(a, b ID, direction Direction, sa SurfaceAccess) ID {
	container := t.NewContainer(Stacked)
	c := t.mustGet(container)
	c.position = t.Position(a)
	c.size = t.Size(a)

	t.replaceInParent(a, container)
	t.Remove(b)

	// South/East: b lies spatially after a, so a stays first. North/West:
	// b lies before a, so it goes first instead.
	if direction == South || direction == East {
		t.Prepend(container, b) // spatial-last
		t.Append(container, a)  // spatial-first
	} else {
		t.Prepend(container, a)
		t.Append(container, b)
	}
	// The dived frame keeps temporal priority regardless of insertion order.
	t.popTimeFirst(a)

	t.Relax(container, sa)
	return a
}

// Exalt moves selection up to become a sibling of its current parent
// ("Jump Begin"), unless its parent is already top-level (Workspace,
// Display or Root), in which case it is a no-op. If the vacated parent
// ends up empty, it is collapsed via the remove-self cascade.
func (t *Tree) Exalt(selection ID, sa SurfaceAccess) {
	parent, ok := t.Parent(selection)
	if !ok || t.Mode(parent).isTop() {
		return
	}
	grandparent, ok := t.Parent(parent)
	if !ok {
		return
	}
	t.Remove(selection)
	t.Append(grandparent, selection)
	if t.CountChildren(parent) == 0 {
		t.removeSelfCascade(parent, sa)
	} else {
		t.Relax(parent, sa)
	}
	t.Relax(grandparent, sa)
}

// MoveStep reorders selection one step toward direction among its
// siblings. At an edge (no sibling that way), selection is resettled into
// the neighboring subtree found by looking for a sibling of its parent in
// the same direction; if there is none either, MoveStep is a no-op.
func (t *Tree) MoveStep(selection ID, direction Direction, sa SurfaceAccess) {
	if sibling, ok := t.SiblingInDirection(selection, direction); ok {
		t.swapSpatial(selection, sibling)
		if parent, ok := t.Parent(selection); ok {
			t.Relax(parent, sa)
		}
		return
	}
	parent, ok := t.Parent(selection)
	if !ok {
		return
	}
	parentSibling, ok := t.SiblingInDirection(parent, direction)
	if !ok {
		return
	}
	t.Resettle(selection, t.FindBuildable(parentSibling), sa)
}

// Move runs MoveStep magnitude times.
func (t *Tree) Move(selection ID, direction Direction, magnitude int, sa SurfaceAccess) {
	for step := 0; step < magnitude; step++ {
		t.MoveStep(selection, direction, sa)
	}
}

func (t *Tree) swapSpatial(a, b ID) {
	na, nb := t.mustGet(a), t.mustGet(b)
	if na.parent == nilID || na.parent != nb.parent {
		return
	}
	parent := na.parent
	order := make([]ID, 0, 8)
	ia, ib := -1, -1
	for child := range t.SpaceIter(parent) {
		if child == a {
			ia = len(order)
		}
		if child == b {
			ib = len(order)
		}
		order = append(order, child)
	}
	if ia < 0 || ib < 0 {
		return
	}
	order[ia], order[ib] = order[ib], order[ia]
	t.reorderSpace(parent, order)
}

// Configure sets the Geometry of selection's parent according to
// direction: North/South select Vertical, East/West select Horizontal,
// Up selects Stacked. Any other direction is a no-op.
func (t *Tree) Configure(selection ID, direction Direction, sa SurfaceAccess) {
	parent, ok := t.Parent(selection)
	if !ok {
		return
	}
	var g Geometry
	switch direction {
	case North, South:
		g = Vertical
	case East, West:
		g = Horizontal
	case Up:
		g = Stacked
	default:
		return
	}
	t.mustGet(parent).geometry = g
	t.Relax(parent, sa)
}

// Resize adjusts selection's extent along direction's axis by magnitude
// pixels, taking the change from the neighboring sibling toward direction;
// with no sibling on that side, it uses the sibling on the other side with
// the sign flipped (selection shrinks, that sibling grows). All Anchored
// siblings along the axis are then restacked to stay contiguous. Like the
// original engine, this is a temporary override: the next Relax resets every sibling back to an
// equal share.
func (t *Tree) Resize(selection ID, direction Direction, magnitude int) {
	n := t.mustGet(selection)
	neighbor, ok := t.SiblingInDirection(selection, direction)
	if !ok {
		neighbor, ok = t.SiblingInDirection(selection, direction.Reversed())
		if !ok {
			return
		}
		magnitude = -magnitude
	}
	nb := t.mustGet(neighbor)

	parent, ok := t.Parent(selection)
	if !ok {
		return
	}
	switch t.Geometry(parent) {
	case Vertical:
		if nb.size.Height-magnitude < 0 || n.size.Height+magnitude < 0 {
			return
		}
		n.size.Height += magnitude
		nb.size.Height -= magnitude
		t.restackAxis(parent, true)
	case Horizontal:
		if nb.size.Width-magnitude < 0 || n.size.Width+magnitude < 0 {
			return
		}
		n.size.Width += magnitude
		nb.size.Width -= magnitude
		t.restackAxis(parent, false)
	}
}

// restackAxis repositions parent's Anchored children contiguously along
// one axis, in spatial order, after a manual size edit. vertical selects
// which coordinate (Y or X) advances.
func (t *Tree) restackAxis(parent ID, vertical bool) {
	p := t.mustGet(parent)
	offset := 0
	for child := range t.SpaceIter(parent) {
		c := t.mustGet(child)
		if c.mobility != Anchored {
			continue
		}
		if vertical {
			c.position = geom.Position{X: p.position.X, Y: p.position.Y + offset}
			offset += c.size.Height
		} else {
			c.position = geom.Position{X: p.position.X + offset, Y: p.position.Y}
			offset += c.size.Width
		}
	}
}
