// Package compositor owns the frame tree, surface history, strategist and
// current selection, and is the sole place command execution and surface
// lifecycle events turn into frame-tree mutations.
package compositor

import (
	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/frame"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/history"
	"github.com/peria-go/peria/internal/strategist"
	"github.com/peria-go/peria/internal/surface"
)

// Compositor is the manager of surfaces: placing, reordering and
// destroying them according to the configured strategies and the
// user-facing command language.
type Compositor struct {
	tree        *frame.Tree
	history     *history.History
	strategist  *strategist.Strategist
	coordinator engine.Coordinator
	selection   frame.ID
	moveStep    int
	resizeStep  int
	logger      *log.Logger
}

// New constructs a Compositor with a fresh Root-only frame tree.
func New(coordinator engine.Coordinator, s *strategist.Strategist, moveStep, resizeStep int, logger *log.Logger) *Compositor {
	tree := frame.New()
	return &Compositor{
		tree:        tree,
		history:     history.New(),
		strategist:  s,
		coordinator: coordinator,
		selection:   tree.Root(),
		moveStep:    moveStep,
		resizeStep:  resizeStep,
		logger:      logger,
	}
}

// Tree exposes the frame tree for packages that need read access (the
// display loop's ToArray call, the pointer's hit-testing).
func (c *Compositor) Tree() *frame.Tree { return c.tree }

// Selection returns the currently-selected frame.
func (c *Compositor) Selection() frame.ID { return c.selection }

// CreateDisplay builds a new Display frame with a fresh Workspace child
// and returns it, selecting the workspace if this is the first display.
func (c *Compositor) CreateDisplay(size geom.Size, title string) frame.ID {
	display := c.tree.NewDisplay(size)
	c.tree.Append(c.tree.Root(), display)

	workspace := c.tree.NewWorkspace(title)
	c.tree.Settle(workspace, display, c.coordinator)
	c.tree.SetActive(workspace, true)

	wasEmpty := c.selection == c.tree.Root()
	if wasEmpty {
		c.selectFrame(workspace)
	}
	return display
}

// ManageSurface resolves sid's attributes from the coordinator, consults
// the strategist for where and how to place it, settles it into the
// tree, and records it in history.
func (c *Compositor) ManageSurface(sid surface.ID) {
	info, ok := c.coordinator.GetSurface(sid)
	if !ok {
		c.logger.Warn("surface not found", "sid", sid)
		return
	}

	decision := c.strategist.ChooseTarget(c.tree, c.selection, info)

	leaf := c.tree.NewLeaf(sid, frame.Anchored)
	target := decision.Target
	// A still-empty target adopts the strategist's chosen geometry
	// outright; once it has children its layout is established and later
	// arrivals just settle into it (spec.md §4.6 "optionally ramifies to
	// apply a different geometry" — reinterpreted as a direct geometry
	// adoption rather than wrapping, since Workspace/Display frames must
	// stay direct children of their parent and cannot be ramified).
	if c.tree.CountChildren(target) == 0 && c.tree.Geometry(target) != decision.Geometry {
		c.tree.SetGeometry(target, decision.Geometry)
	}
	c.tree.Settle(leaf, target, c.coordinator)

	if decision.Floating != nil {
		c.tree.SetMobility(leaf, frame.Floating)
		c.tree.SetPosition(leaf, decision.Floating.Area.Pos)
		c.tree.SetSize(leaf, decision.Floating.Area.Size)
		c.coordinator.Reconfigure(sid, decision.Floating.Area.Size, 0)
	}

	if decision.Selection {
		c.selectFrame(leaf)
	}

	c.history.Add(sid)
	c.coordinator.Notify()
}

// UnmanageSurface removes sid's leaf from the tree, falling back the
// selection to the most recent surviving history entry, and cascades the
// remove-self collapse up through any container left empty.
func (c *Compositor) UnmanageSurface(sid surface.ID) {
	leaf, ok := c.tree.FindWithSID(c.tree.Root(), sid)
	if !ok {
		c.logger.Warn("unmanage: surface not found", "sid", sid)
		return
	}

	wasSelected := c.selection == leaf
	c.history.Remove(sid)
	c.tree.RemoveSelf(leaf, c.coordinator)
	c.tree.Remove(leaf)

	if wasSelected {
		c.selectFallback()
	}
	c.coordinator.Notify()
}

// PopHistory moves sid to the front of history and, if it still has a
// live leaf, selects it.
func (c *Compositor) PopHistory(sid surface.ID) {
	c.history.Pop(sid)
	if leaf, ok := c.tree.FindWithSID(c.tree.Root(), sid); ok {
		c.selectFrame(leaf)
	}
}

func (c *Compositor) selectFrame(id frame.ID) {
	c.selection = id
	if sid := c.tree.SID(id); sid.IsValid() {
		c.coordinator.SetFocus(sid)
	}
}

// selectFallback picks the most recent history entry that still resolves
// to a live frame, falling back to the root if history is exhausted.
func (c *Compositor) selectFallback() {
	for i := 0; i < c.history.Len(); i++ {
		sid, ok := c.history.GetNth(i)
		if !ok {
			continue
		}
		if leaf, ok := c.tree.FindWithSID(c.tree.Root(), sid); ok {
			c.selectFrame(leaf)
			return
		}
	}
	c.selectFrame(c.tree.Root())
}
