package compositor

import (
	"io"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/frame"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/strategist"
	"github.com/peria-go/peria/internal/surface"
)

// fakeCoordinator is a minimal engine.Coordinator double recording just
// enough to make assertions about focus and reconfiguration.
type fakeCoordinator struct {
	infos       map[surface.ID]surface.Info
	focused     surface.ID
	reconfigured map[surface.ID]geom.Size
	notifyCount int
	nextCreated surface.ID
}

func newFakeCoordinator() *fakeCoordinator {
	return &fakeCoordinator{
		infos:        make(map[surface.ID]surface.Info),
		reconfigured: make(map[surface.ID]geom.Size),
		nextCreated:  1000,
	}
}

func (f *fakeCoordinator) GetSurface(id surface.ID) (surface.Info, bool) {
	info, ok := f.infos[id]
	return info, ok
}
func (f *fakeCoordinator) Notify()                                     { f.notifyCount++ }
func (f *fakeCoordinator) SetFocus(id surface.ID)                      { f.focused = id }
func (f *fakeCoordinator) SetPointerFocus(surface.ID, geom.Position)    {}
func (f *fakeCoordinator) Reconfigure(id surface.ID, size geom.Size, _ surface.State) {
	f.reconfigured[id] = size
}
func (f *fakeCoordinator) CreateSurface() surface.ID {
	f.nextCreated++
	return f.nextCreated
}
func (f *fakeCoordinator) Attach(int, surface.ID)     {}
func (f *fakeCoordinator) Commit(surface.ID)          {}
func (f *fakeCoordinator) SetAsCursor(surface.ID)     {}
func (f *fakeCoordinator) SetAsBackground(surface.ID) {}
func (f *fakeCoordinator) CreatePoolFromBuffer(engine.Buffer) int { return 1 }
func (f *fakeCoordinator) CreateMemoryView(int, string, int, int, int, int) int { return 1 }
func (f *fakeCoordinator) GetWorkspaceState() surface.WorkspaceState { return surface.WorkspaceState{} }
func (f *fakeCoordinator) PublishWorkspaceState(surface.WorkspaceState) {}
func (f *fakeCoordinator) RendererContexts(id surface.ID) []surface.Context {
	return []surface.Context{{ID: id}}
}

func silentLogger() *charmlog.Logger {
	return charmlog.New(io.Discard)
}

func newCompositorFixture(t *testing.T) (*Compositor, *fakeCoordinator) {
	t.Helper()
	coord := newFakeCoordinator()
	s := strategist.NewFromConfig("always_floating", "always_centered")
	c := New(coord, s, 10, 10, silentLogger())
	c.CreateDisplay(geom.Size{Width: 100, Height: 100}, "1")
	return c, coord
}

func spatialSIDs(t *testing.T, c *Compositor, id frame.ID) []surface.ID {
	t.Helper()
	var out []surface.ID
	for child := range c.Tree().SpaceIter(id) {
		out = append(out, c.Tree().SID(child))
	}
	return out
}

// TestS1ThreeSurfacesFloatingDefault reproduces scenario S1.
func TestS1ThreeSurfacesFloatingDefault(t *testing.T) {
	c, coord := newCompositorFixture(t)
	for _, sid := range []surface.ID{1, 2, 3} {
		coord.infos[sid] = surface.Info{ID: sid}
		c.ManageSurface(sid)
	}

	workspace := findWorkspace(t, c)
	assert.Equal(t, []surface.ID{3, 2, 1}, spatialSIDs(t, c, workspace))
	assert.Equal(t, surface.ID(3), c.Tree().SID(c.Selection()))
}

func findWorkspace(t *testing.T, c *Compositor) frame.ID {
	t.Helper()
	for child := range c.Tree().SpaceIter(c.Tree().Root()) {
		if c.Tree().Mode(child) == frame.ModeDisplay {
			for ws := range c.Tree().SpaceIter(child) {
				if c.Tree().Mode(ws) == frame.ModeWorkspace {
					return ws
				}
			}
		}
	}
	t.Fatal("no workspace found")
	return 0
}

// TestS2VerticalReconfigure reproduces scenario S2.
func TestS2VerticalReconfigure(t *testing.T) {
	c, coord := newCompositorFixture(t)
	for _, sid := range []surface.ID{1, 2, 3} {
		coord.infos[sid] = surface.Info{ID: sid}
		c.ManageSurface(sid)
	}

	c.Execute(engine.Command{Action: engine.ActionConfigure, Direction: frame.North})

	workspace := findWorkspace(t, c)
	require.Equal(t, frame.Vertical, c.Tree().Geometry(workspace))
	assert.Equal(t, []surface.ID{3, 2, 1}, spatialSIDs(t, c, workspace))
}

// TestS3Dive reproduces scenario S3.
func TestS3Dive(t *testing.T) {
	c, coord := newCompositorFixture(t)
	for _, sid := range []surface.ID{1, 2, 3} {
		coord.infos[sid] = surface.Info{ID: sid}
		c.ManageSurface(sid)
	}
	c.Execute(engine.Command{Action: engine.ActionConfigure, Direction: frame.North})

	c.Execute(engine.Command{Action: engine.ActionDive, Direction: frame.South, Magnitude: 1})

	assert.Equal(t, surface.ID(3), c.Tree().SID(c.Selection()))
	workspace := findWorkspace(t, c)
	var sawContainer, sawLeaf1 bool
	for child := range c.Tree().SpaceIter(workspace) {
		if c.Tree().Mode(child) == frame.ModeContainer {
			sawContainer = true
			assert.Equal(t, []surface.ID{3, 2}, spatialSIDs(t, c, child))
		}
		if c.Tree().SID(child) == 1 {
			sawLeaf1 = true
		}
	}
	assert.True(t, sawContainer)
	assert.True(t, sawLeaf1)
}

// TestS4ExaltationCeiling reproduces scenario S4.
func TestS4ExaltationCeiling(t *testing.T) {
	c, coord := newCompositorFixture(t)
	for _, sid := range []surface.ID{1, 2} {
		coord.infos[sid] = surface.Info{ID: sid}
		c.ManageSurface(sid)
	}

	workspace := findWorkspace(t, c)
	before := spatialSIDs(t, c, workspace)

	c.Execute(engine.Command{Action: engine.ActionJump, Direction: frame.Begin})

	assert.Equal(t, before, spatialSIDs(t, c, workspace))
}

// TestS5RemoveRamifiedSelection reproduces scenario S5.
func TestS5RemoveRamifiedSelection(t *testing.T) {
	c, coord := newCompositorFixture(t)
	for _, sid := range []surface.ID{1, 2, 3} {
		coord.infos[sid] = surface.Info{ID: sid}
		c.ManageSurface(sid)
	}
	// Wrap selection (3) in a Stacked container, as "Jump End" would.
	c.Execute(engine.Command{Action: engine.ActionJump, Direction: frame.End})

	c.UnmanageSurface(3)

	workspace := findWorkspace(t, c)
	assert.Equal(t, []surface.ID{2, 1}, spatialSIDs(t, c, workspace))
	assert.Equal(t, surface.ID(2), c.Tree().SID(c.Selection()))
}

// TestS6CrossDisplayJump reproduces scenario S6.
func TestS6CrossDisplayJump(t *testing.T) {
	c, coord := newCompositorFixture(t)
	otherDisplay := c.CreateDisplay(geom.Size{Width: 100, Height: 100}, "other")
	coord.infos[1] = surface.Info{ID: 1}
	c.ManageSurface(1)

	c.Execute(engine.Command{Action: engine.ActionJump, Direction: frame.WorkspaceDirection, String: "other"})

	var found bool
	for ws := range c.Tree().SpaceIter(otherDisplay) {
		if c.Tree().Title(ws) == "other" {
			for leaf := range c.Tree().SpaceIter(ws) {
				if c.Tree().SID(leaf) == 1 {
					found = true
				}
			}
		}
	}
	assert.True(t, found)
}

func TestAnchorTogglesMobility(t *testing.T) {
	c, coord := newCompositorFixture(t)
	coord.infos[1] = surface.Info{ID: 1}
	c.ManageSurface(1)

	require.Equal(t, frame.Floating, c.Tree().Mobility(c.Selection()))
	c.Execute(engine.Command{Action: engine.ActionAnchor})
	assert.Equal(t, frame.Anchored, c.Tree().Mobility(c.Selection()))
}
