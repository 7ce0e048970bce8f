package frame

import (
	"iter"

	"github.com/peria-go/peria/internal/surface"
)

// ---- linked-list primitives ----------------------------------------------

func (t *Tree) spaceInsertFront(parent, child ID) {
	p, c := t.mustGet(parent), t.mustGet(child)
	c.spaceNext = p.spaceFirst
	c.spacePrev = nilID
	if p.spaceFirst != nilID {
		t.mustGet(p.spaceFirst).spacePrev = child
	} else {
		p.spaceLast = child
	}
	p.spaceFirst = child
}

func (t *Tree) spaceInsertBack(parent, child ID) {
	p, c := t.mustGet(parent), t.mustGet(child)
	c.spacePrev = p.spaceLast
	c.spaceNext = nilID
	if p.spaceLast != nilID {
		t.mustGet(p.spaceLast).spaceNext = child
	} else {
		p.spaceFirst = child
	}
	p.spaceLast = child
}

func (t *Tree) timeInsertFront(parent, child ID) {
	p, c := t.mustGet(parent), t.mustGet(child)
	c.timeNext = p.timeFirst
	c.timePrev = nilID
	if p.timeFirst != nilID {
		t.mustGet(p.timeFirst).timePrev = child
	} else {
		p.timeLast = child
	}
	p.timeFirst = child
}

func (t *Tree) spaceUnlink(child ID) {
	c := t.mustGet(child)
	if c.parent == nilID {
		return
	}
	p := t.mustGet(c.parent)
	if c.spacePrev != nilID {
		t.mustGet(c.spacePrev).spaceNext = c.spaceNext
	} else {
		p.spaceFirst = c.spaceNext
	}
	if c.spaceNext != nilID {
		t.mustGet(c.spaceNext).spacePrev = c.spacePrev
	} else {
		p.spaceLast = c.spacePrev
	}
	c.spacePrev, c.spaceNext = nilID, nilID
}

func (t *Tree) timeUnlink(child ID) {
	c := t.mustGet(child)
	if c.parent == nilID {
		return
	}
	p := t.mustGet(c.parent)
	if c.timePrev != nilID {
		t.mustGet(c.timePrev).timeNext = c.timeNext
	} else {
		p.timeFirst = c.timeNext
	}
	if c.timeNext != nilID {
		t.mustGet(c.timeNext).timePrev = c.timePrev
	} else {
		p.timeLast = c.timePrev
	}
	c.timePrev, c.timeNext = nilID, nilID
}

func (t *Tree) popTimeFirst(child ID) {
	n := t.mustGet(child)
	if n.parent == nilID {
		return
	}
	if t.mustGet(n.parent).timeFirst == child {
		return
	}
	parent := n.parent
	t.timeUnlink(child)
	t.timeInsertFront(parent, child)
}

// ---- public manipulation primitives (§4.1) --------------------------------

// Append inserts child as the spatially-first sibling under parent and
// makes it temporally first (most-recently-used). It is the primitive
// Settle uses so that newly-managed surfaces appear ahead of their
// predecessors in both orderings (see spec.md §8, scenario S1).
func (t *Tree) Append(parent, child ID) {
	if t.IsInTree(child) {
		panicOrLog("append: frame %d is already parented", child)
		return
	}
	c := t.mustGet(child)
	c.parent = parent
	t.spaceInsertFront(parent, child)
	t.timeInsertFront(parent, child)
}

// Prepend inserts child as the spatially-last sibling under parent and
// makes it temporally first.
func (t *Tree) Prepend(parent, child ID) {
	if t.IsInTree(child) {
		panicOrLog("prepend: frame %d is already parented", child)
		return
	}
	c := t.mustGet(child)
	c.parent = parent
	t.spaceInsertBack(parent, child)
	t.timeInsertFront(parent, child)
}

// PopRecursively makes frame temporally first among its siblings, then does
// the same for its parent, grandparent, and so on up to Root. Spatial
// order is never touched.
func (t *Tree) PopRecursively(id ID) {
	cur := id
	for {
		n := t.get(cur)
		if n == nil || n.parent == nilID {
			return
		}
		parent := n.parent
		t.popTimeFirst(cur)
		cur = parent
	}
}

// Remove detaches frame from both orderings. Descendants are not touched —
// they remain children of frame, which simply becomes an orphan.
func (t *Tree) Remove(id ID) {
	n := t.get(id)
	if n == nil || n.parent == nilID {
		return
	}
	t.spaceUnlink(id)
	t.timeUnlink(id)
	n.parent = nilID
}

// replaceInParent splices new into old's exact spot in old's parent's
// space and time orderings, then detaches old (old keeps whatever
// children it had; it is simply no longer parented). Used by Ramify and
// Deramify to preserve a frame's position while changing what occupies it.
func (t *Tree) replaceInParent(old, new ID) {
	o := t.mustGet(old)
	parent := o.parent
	if parent == nilID {
		panicOrLog("replaceInParent: %d has no parent", old)
		return
	}
	p := t.mustGet(parent)
	n := t.mustGet(new)

	n.parent = parent
	n.spacePrev, n.spaceNext = o.spacePrev, o.spaceNext
	if o.spacePrev != nilID {
		t.mustGet(o.spacePrev).spaceNext = new
	} else {
		p.spaceFirst = new
	}
	if o.spaceNext != nilID {
		t.mustGet(o.spaceNext).spacePrev = new
	} else {
		p.spaceLast = new
	}

	n.timePrev, n.timeNext = o.timePrev, o.timeNext
	if o.timePrev != nilID {
		t.mustGet(o.timePrev).timeNext = new
	} else {
		p.timeFirst = new
	}
	if o.timeNext != nilID {
		t.mustGet(o.timeNext).timePrev = new
	} else {
		p.timeLast = new
	}

	o.parent = nilID
	o.spacePrev, o.spaceNext = nilID, nilID
	o.timePrev, o.timeNext = nilID, nilID
}

// Settle appends frame to target, then relaxes target so its children
// share the available area per target's geometry.
func (t *Tree) Settle(id, target ID, sa SurfaceAccess) {
	t.Append(target, id)
	t.Relax(target, sa)
}

// Resettle atomically moves frame from its current parent to newParent,
// relaxing both.
func (t *Tree) Resettle(id, newParent ID, sa SurfaceAccess) {
	old, hasOld := t.Parent(id)
	t.Remove(id)
	t.Append(newParent, id)
	if hasOld {
		t.Relax(old, sa)
	}
	t.Relax(newParent, sa)
}

// Ramify inserts a fresh Container between frame and its parent, with the
// given geometry, taking frame as its sole child. Returns the new
// container's id.
func (t *Tree) Ramify(id ID, geometry Geometry, sa SurfaceAccess) ID {
	n := t.mustGet(id)
	if n.parent == nilID {
		panicOrLog("ramify: frame %d has no parent", id)
		return id
	}
	container := t.NewContainer(geometry)
	c := t.mustGet(container)
	c.size = n.size
	c.position = n.position

	t.replaceInParent(id, container)
	t.Append(container, id)
	t.Relax(container, sa)
	return container
}

// Deramify is the inverse of Ramify: if frame is a Container with exactly
// one child, frame is replaced by that child and destroyed. Otherwise it
// is a no-op and frame is returned unchanged.
func (t *Tree) Deramify(id ID, sa SurfaceAccess) ID {
	n := t.mustGet(id)
	if n.mode != ModeContainer {
		return id
	}
	if t.CountChildren(id) != 1 {
		return id
	}
	child := n.spaceFirst
	if n.parent == nilID {
		// A rootless container (shouldn't happen in practice) can't be
		// replaced in a parent's lists; just detach the child.
		t.Remove(child)
		t.free1(id)
		return child
	}
	t.Remove(child)
	t.replaceInParent(id, child)
	t.free1(id)
	if sa != nil {
		t.Relax(child, sa)
	}
	return child
}

// removeSelfCascade detaches id and, if the resulting parent is empty and
// not a top-level frame (Workspace/Display/Root), removes the parent too
// — recursively, until a non-empty or top-level ancestor is reached. The
// final surviving ancestor is relaxed.
func (t *Tree) removeSelfCascade(id ID, sa SurfaceAccess) {
	n := t.get(id)
	if n == nil || n.parent == nilID {
		return
	}
	parent := n.parent
	t.Remove(id)
	if t.CountChildren(parent) == 0 && !t.Mode(parent).isTop() {
		t.removeSelfCascade(parent, sa)
	} else {
		t.Relax(parent, sa)
	}
}

// RemoveSelf is the public entry point for the "remove-self cascade"
// algorithm (§4.1): detach frame, then collapse empty container ancestors.
func (t *Tree) RemoveSelf(id ID, sa SurfaceAccess) {
	t.removeSelfCascade(id, sa)
}

// ---- iteration -------------------------------------------------------------

// SpaceIter yields id's children in spatial (layout/drawing) order.
func (t *Tree) SpaceIter(id ID) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		n := t.get(id)
		if n == nil {
			return
		}
		for cur := n.spaceFirst; cur != nilID; {
			next := t.mustGet(cur).spaceNext
			if !yield(cur) {
				return
			}
			cur = next
		}
	}
}

// SpaceReverseIter yields id's children in reverse spatial order — used by
// ToArray to build a bottom-to-top paint list.
func (t *Tree) SpaceReverseIter(id ID) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		n := t.get(id)
		if n == nil {
			return
		}
		for cur := n.spaceLast; cur != nilID; {
			prev := t.mustGet(cur).spacePrev
			if !yield(cur) {
				return
			}
			cur = prev
		}
	}
}

// TimeIter yields id's children in temporal (most-recently-used-first)
// order.
func (t *Tree) TimeIter(id ID) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		n := t.get(id)
		if n == nil {
			return
		}
		for cur := n.timeFirst; cur != nilID; {
			next := t.mustGet(cur).timeNext
			if !yield(cur) {
				return
			}
			cur = next
		}
	}
}

// reorderSpace rebuilds id's spatial child list from order, preserving
// each child's existing temporal position. Used by Move's sibling-swap.
func (t *Tree) reorderSpace(id ID, order []ID) {
	n := t.mustGet(id)
	n.spaceFirst, n.spaceLast = nilID, nilID
	for _, child := range order {
		c := t.mustGet(child)
		c.spacePrev, c.spaceNext = nilID, nilID
	}
	prev := nilID
	for _, child := range order {
		c := t.mustGet(child)
		c.spacePrev = prev
		if prev == nilID {
			n.spaceFirst = child
		} else {
			t.mustGet(prev).spaceNext = child
		}
		prev = child
	}
	n.spaceLast = prev
}

// ---- find operations (§4.1) ------------------------------------------------

// FindBuildable returns the frame under which a sibling should be
// inserted: id's parent if id wraps a surface, id itself otherwise.
func (t *Tree) FindBuildable(id ID) ID {
	if t.SID(id).IsValid() {
		parent, ok := t.Parent(id)
		if ok {
			return parent
		}
		return id
	}
	return id
}

// FindTop walks parents until a Workspace/Display/Root frame is reached.
func (t *Tree) FindTop(id ID) ID {
	cur := id
	for {
		n := t.get(cur)
		if n == nil {
			return nilID
		}
		if n.mode.isTop() {
			return cur
		}
		if n.parent == nilID {
			return cur
		}
		cur = n.parent
	}
}

// FindWithSID performs a depth-first search over temporal iteration order
// (an MRU heuristic: recently used frames are more likely targets) looking
// for a Leaf wrapping sid.
func (t *Tree) FindWithSID(id ID, sid surface.ID) (ID, bool) {
	if t.SID(id) == sid {
		return id, true
	}
	for child := range t.TimeIter(id) {
		if found, ok := t.FindWithSID(child, sid); ok {
			return found, true
		}
	}
	return nilID, false
}

// SiblingInDirection returns id's spatial neighbor toward direction among
// its siblings. North and West move toward the spatially-previous sibling;
// South and East move toward the spatially-next sibling. Returns (0,
// false) at the edge.
func (t *Tree) SiblingInDirection(id ID, direction Direction) (ID, bool) {
	n := t.get(id)
	if n == nil {
		return nilID, false
	}
	switch direction {
	case North, West:
		if n.spacePrev != nilID {
			return n.spacePrev, true
		}
	case South, East:
		if n.spaceNext != nilID {
			return n.spaceNext, true
		}
	}
	return nilID, false
}
