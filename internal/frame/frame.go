// Package frame implements the exhibition engine's frame tree: a typed
// tree of displayed surfaces with two simultaneous sibling orderings
// (spatial, for layout/drawing, and temporal, for most-recently-used
// focus tracking).
//
// The tree is stored as an arena: every Frame is a slot in a slice, and
// all links (parent, siblings, first/last child in each ordering) are
// indices into that slice rather than pointers. This sidesteps Go's lack
// of cheap cyclic ownership entirely and makes iteration and removal O(1).
package frame

import (
	"log"

	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// Mode classifies what a frame represents.
type Mode int

const (
	ModeRoot Mode = iota
	ModeDisplay
	ModeWorkspace
	ModeContainer
	ModeLeaf
	ModeSpecial
)

func (m Mode) String() string {
	switch m {
	case ModeRoot:
		return "root"
	case ModeDisplay:
		return "display"
	case ModeWorkspace:
		return "workspace"
	case ModeContainer:
		return "container"
	case ModeLeaf:
		return "leaf"
	case ModeSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// isTop reports whether a frame of this mode terminates an upward search
// for "the top" (find_top) and is retained even when it has no children
// (the remove-self cascade stops here).
func (m Mode) isTop() bool {
	return m == ModeWorkspace || m == ModeDisplay || m == ModeRoot
}

// Geometry decides how Relax lays out a frame's anchored children.
type Geometry int

const (
	Stacked Geometry = iota
	Vertical
	Horizontal
)

// Mobility decides whether a frame is laid out by its parent (Anchored),
// placed freely within its workspace (Floating), or excluded from layout
// entirely (Docked, e.g. panels/layer-shell surfaces).
type Mobility int

const (
	Anchored Mobility = iota
	Floating
	Docked
)

// ID identifies a frame within a Tree's arena. The zero value means "no
// frame" in every link field; the tree's actual root is never allocated
// at index 0 (a sentinel occupies it) so ID(0) is unambiguous.
type ID int

const nilID ID = 0

// SurfaceAccess is the narrow surface-store facade Relax uses to report
// size changes. It is satisfied by the engine's Coordinator but kept
// separate so the frame package never depends on the wider engine
// contracts.
type SurfaceAccess interface {
	Reconfigure(id surface.ID, size geom.Size, state surface.State)
}

type node struct {
	inUse bool

	sid      surface.ID
	mode     Mode
	geometry Geometry
	mobility Mobility
	position geom.Position
	size     geom.Size
	title    string
	active   bool // meaningful only for Mode == ModeWorkspace

	parent ID

	spacePrev, spaceNext   ID
	spaceFirst, spaceLast  ID
	timePrev, timeNext     ID
	timeFirst, timeLast    ID
}

// Tree owns the entire arena of frames. The zero Tree is not usable;
// construct one with New.
type Tree struct {
	nodes []node
	free  []ID
	root  ID
}

// New constructs a Tree containing only the Root frame.
func New() *Tree {
	t := &Tree{nodes: make([]node, 1)} // index 0 is the permanent sentinel
	root := t.alloc(node{mode: ModeRoot, mobility: Docked})
	t.root = root
	return t
}

// Root returns the identifier of the tree's single Root frame.
func (t *Tree) Root() ID { return t.root }

func (t *Tree) alloc(n node) ID {
	n.inUse = true
	n.parent, n.spacePrev, n.spaceNext = nilID, nilID, nilID
	n.spaceFirst, n.spaceLast = nilID, nilID
	n.timePrev, n.timeNext = nilID, nilID
	n.timeFirst, n.timeLast = nilID, nilID
	if len(t.free) > 0 {
		id := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return ID(len(t.nodes) - 1)
}

func (t *Tree) free1(id ID) {
	t.nodes[id] = node{}
	t.free = append(t.free, id)
}

func (t *Tree) get(id ID) *node {
	if id == nilID || int(id) >= len(t.nodes) || !t.nodes[id].inUse {
		return nil
	}
	return &t.nodes[id]
}

func panicOrLog(format string, args ...any) {
	// Debug builds should see this loudly; release builds log and
	// no-op per spec.md §4.1 ("Failure semantics").
	if debugPanics {
		log.Panicf(format, args...)
	}
	log.Printf("frame: programmer error: "+format, args...)
}

// debugPanics toggles whether precondition violations panic (debug) or
// log-and-no-op (release). Tests run with it enabled so regressions are
// loud; cmd/peria flips it off for the shipped binary.
var debugPanics = true

// SetDebugPanics controls precondition-violation behavior for the whole
// process. Called once from cmd/peria at startup.
func SetDebugPanics(v bool) { debugPanics = v }

// ---- constructors -------------------------------------------------------

// NewDisplay creates an unattached Display frame.
func (t *Tree) NewDisplay(size geom.Size) ID {
	return t.alloc(node{mode: ModeDisplay, geometry: Vertical, mobility: Docked, size: size})
}

// NewWorkspace creates an unattached Workspace frame.
func (t *Tree) NewWorkspace(title string) ID {
	return t.alloc(node{mode: ModeWorkspace, geometry: Vertical, mobility: Docked, title: title})
}

// NewContainer creates an unattached Container frame with the given geometry.
func (t *Tree) NewContainer(g Geometry) ID {
	return t.alloc(node{mode: ModeContainer, geometry: g, mobility: Anchored})
}

// NewLeaf creates an unattached Leaf frame wrapping sid.
func (t *Tree) NewLeaf(sid surface.ID, mobility Mobility) ID {
	return t.alloc(node{mode: ModeLeaf, sid: sid, mobility: mobility})
}

// NewSpecial creates an unattached Special frame (e.g. a lock screen or
// overlay surface outside the ordinary workspace layout).
func (t *Tree) NewSpecial(sid surface.ID) ID {
	return t.alloc(node{mode: ModeSpecial, sid: sid, mobility: Floating})
}

// ---- accessors -----------------------------------------------------------

func (t *Tree) SID(id ID) surface.ID        { return t.mustGet(id).sid }
func (t *Tree) Mode(id ID) Mode             { return t.mustGet(id).mode }
func (t *Tree) Geometry(id ID) Geometry     { return t.mustGet(id).geometry }
func (t *Tree) Mobility(id ID) Mobility     { return t.mustGet(id).mobility }
func (t *Tree) Position(id ID) geom.Position { return t.mustGet(id).position }
func (t *Tree) Size(id ID) geom.Size        { return t.mustGet(id).size }
func (t *Tree) Title(id ID) string          { return t.mustGet(id).title }
func (t *Tree) Active(id ID) bool           { return t.mustGet(id).active }
func (t *Tree) Parent(id ID) (ID, bool) {
	p := t.mustGet(id).parent
	return p, p != nilID
}

func (t *Tree) mustGet(id ID) *node {
	n := t.get(id)
	if n == nil {
		panic("frame: use of invalid frame id")
	}
	return n
}

// SetMobility sets a frame's mobility class (used by Compositor's Anchor
// command).
func (t *Tree) SetMobility(id ID, m Mobility) { t.mustGet(id).mobility = m }

// SetGeometry sets a container-like frame's layout geometry directly,
// without disturbing its children's order — used by ManageSurface to
// adopt a strategist-chosen geometry for a still-empty target.
func (t *Tree) SetGeometry(id ID, g Geometry) { t.mustGet(id).geometry = g }

// SetTitle renames a frame (used for workspaces).
func (t *Tree) SetTitle(id ID, title string) { t.mustGet(id).title = title }

// SetActive marks a workspace active or inactive; it does not touch id's
// siblings. Invariant 3 (at most one active workspace per display) is kept
// by the callers: Compositor.CreateDisplay activates only the first
// workspace of a new display, and Exhibitor.OnOutputLost deactivates the
// workspaces it moves onto another display.
func (t *Tree) SetActive(id ID, active bool) { t.mustGet(id).active = active }

// SetPosition directly sets a frame's position without triggering Relax —
// used by ManageSurface to place a floating leaf.
func (t *Tree) SetPosition(id ID, pos geom.Position) { t.mustGet(id).position = pos }

// SetSize directly sets a frame's size. Relax skips Floating/Docked
// children entirely, so their size must be set this way — by whoever
// placed them (the strategist's FloatingDecision, a layer-shell client's
// requested size, ...).
func (t *Tree) SetSize(id ID, size geom.Size) { t.mustGet(id).size = size }

// Destroy releases id back to the arena. id must already be detached (no
// parent) and childless — callers that are tearing down a Display after
// relocating its workspaces elsewhere (Exhibitor.OnOutputLost) are
// responsible for both beforehand.
func (t *Tree) Destroy(id ID) {
	n := t.get(id)
	if n == nil {
		return
	}
	if n.parent != nilID {
		panicOrLog("destroy: frame %d still has a parent", id)
		return
	}
	if n.spaceFirst != nilID {
		panicOrLog("destroy: frame %d still has children", id)
		return
	}
	t.free1(id)
}

// CountChildren returns the number of spatial children of id.
func (t *Tree) CountChildren(id ID) int {
	n := 0
	for range t.SpaceIter(id) {
		n++
	}
	return n
}

// IsInTree reports whether id currently has a parent (Root itself is
// considered "in tree").
func (t *Tree) IsInTree(id ID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	return n.parent != nilID || id == t.root
}
