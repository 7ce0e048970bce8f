package frame

import (
	"testing"

	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reconfigures is a SurfaceAccess spy used throughout these tests.
type reconfigures struct {
	calls map[surface.ID]geom.Size
}

func newReconfigures() *reconfigures {
	return &reconfigures{calls: make(map[surface.ID]geom.Size)}
}

func (r *reconfigures) Reconfigure(id surface.ID, size geom.Size, _ surface.State) {
	r.calls[id] = size
}

func spaceOrder(t *testing.T, tree *Tree, id ID) []surface.ID {
	t.Helper()
	var out []surface.ID
	for child := range tree.SpaceIter(id) {
		out = append(out, tree.SID(child))
	}
	return out
}

func timeOrder(t *testing.T, tree *Tree, id ID) []surface.ID {
	t.Helper()
	var out []surface.ID
	for child := range tree.TimeIter(id) {
		out = append(out, tree.SID(child))
	}
	return out
}

func newWorkspaceFixture(t *testing.T) (*Tree, ID, ID) {
	t.Helper()
	tree := New()
	display := tree.NewDisplay(geom.Size{Width: 100, Height: 100})
	tree.Append(tree.Root(), display)
	workspace := tree.NewWorkspace("main")
	tree.Settle(workspace, display, nil)
	tree.SetActive(workspace, true)
	tree.SetPosition(display, geom.Position{})
	return tree, display, workspace
}

// TestSettleOrderMatchesScenarioS1 reproduces spec.md scenario S1: three
// surfaces settled in order 1, 2, 3 end up in spatial order [3, 2, 1]
// (newest prepended) and temporal order [3, 2, 1] (newest focused), with
// surface 3 selected.
func TestSettleOrderMatchesScenarioS1(t *testing.T) {
	tree, _, workspace := newWorkspaceFixture(t)
	sa := newReconfigures()

	var selection ID
	for _, sid := range []surface.ID{1, 2, 3} {
		leaf := tree.NewLeaf(sid, Anchored)
		tree.Settle(leaf, workspace, sa)
		selection = leaf
	}

	assert.Equal(t, []surface.ID{3, 2, 1}, spaceOrder(t, tree, workspace))
	assert.Equal(t, []surface.ID{3, 2, 1}, timeOrder(t, tree, workspace))
	assert.Equal(t, surface.ID(3), tree.SID(selection))
}

// TestConfigureVerticalGeometry reproduces scenario S2: configuring the
// workspace to Vertical geometry splits its area into equal horizontal
// bands without disturbing spatial order.
func TestConfigureVerticalGeometry(t *testing.T) {
	tree, _, workspace := newWorkspaceFixture(t)
	sa := newReconfigures()

	var last ID
	for _, sid := range []surface.ID{1, 2, 3} {
		leaf := tree.NewLeaf(sid, Anchored)
		tree.Settle(leaf, workspace, sa)
		last = leaf
	}

	tree.Configure(last, North, sa)

	require.Equal(t, Vertical, tree.Geometry(workspace))
	assert.Equal(t, []surface.ID{3, 2, 1}, spaceOrder(t, tree, workspace))

	// 100 / 3 == 33 per band, offsets 0, 33, 66.
	offsets := map[surface.ID]int{}
	for child := range tree.SpaceIter(workspace) {
		offsets[tree.SID(child)] = tree.Position(child).Y
	}
	assert.Equal(t, 0, offsets[3])
	assert.Equal(t, 33, offsets[2])
	assert.Equal(t, 66, offsets[1])
}

// TestDiveNestsSelectionWithSouthSibling reproduces scenario S3: diving
// south from frame 3 (with spatial siblings [3, 2, 1]) merges 3 and 2 into
// a new Stacked container occupying 3's former slot, leaving 1 untouched
// and selection unchanged.
func TestDiveNestsSelectionWithSouthSibling(t *testing.T) {
	tree, _, workspace := newWorkspaceFixture(t)
	sa := newReconfigures()

	var leaf3 ID
	for _, sid := range []surface.ID{1, 2, 3} {
		leaf := tree.NewLeaf(sid, Anchored)
		tree.Settle(leaf, workspace, sa)
		if sid == 3 {
			leaf3 = leaf
		}
	}

	selection := tree.Dive(leaf3, South, 1, sa)
	require.Equal(t, leaf3, selection)

	var containerID, otherLeaf ID
	for child := range tree.SpaceIter(workspace) {
		if tree.Mode(child) == ModeContainer {
			containerID = child
		} else {
			otherLeaf = child
		}
	}
	require.NotZero(t, containerID)
	assert.Equal(t, surface.ID(1), tree.SID(otherLeaf))
	assert.Equal(t, Stacked, tree.Geometry(containerID))
	assert.Equal(t, []surface.ID{3, 2}, spaceOrder(t, tree, containerID))
	assert.True(t, tree.IsInTree(leaf3))
}

// TestRemoveSelfCascadeCollapsesEmptyContainers reproduces scenario S5: once
// a Ramify's container is left with a single child, the surrounding
// bookkeeping must not leave empty containers behind when a leaf is
// destroyed directly out of it.
func TestRemoveSelfCascadeCollapsesEmptyContainers(t *testing.T) {
	tree, _, workspace := newWorkspaceFixture(t)
	sa := newReconfigures()

	leafA := tree.NewLeaf(1, Anchored)
	tree.Settle(leafA, workspace, sa)
	leafB := tree.NewLeaf(2, Anchored)
	tree.Settle(leafB, workspace, sa)

	container := tree.Ramify(leafA, Stacked, sa)
	require.Equal(t, ModeContainer, tree.Mode(container))

	tree.RemoveSelf(leafA, sa)

	// container is now empty and not top-level, so it must have been
	// collapsed out of workspace's children entirely.
	for child := range tree.SpaceIter(workspace) {
		assert.NotEqual(t, container, child)
	}
	assert.Equal(t, []surface.ID{2}, spaceOrder(t, tree, workspace))
}

func TestExaltNoOpAtWorkspaceCeiling(t *testing.T) {
	tree, _, workspace := newWorkspaceFixture(t)
	sa := newReconfigures()

	leaf := tree.NewLeaf(1, Anchored)
	tree.Settle(leaf, workspace, sa)

	tree.Exalt(leaf, sa)

	parent, ok := tree.Parent(leaf)
	require.True(t, ok)
	assert.Equal(t, workspace, parent)
}

func TestFindWithSIDDepthFirst(t *testing.T) {
	tree, _, workspace := newWorkspaceFixture(t)
	sa := newReconfigures()

	leafA := tree.NewLeaf(42, Anchored)
	tree.Settle(leafA, workspace, sa)
	container := tree.Ramify(leafA, Vertical, sa)
	leafB := tree.NewLeaf(7, Anchored)
	tree.Settle(leafB, container, sa)

	found, ok := tree.FindWithSID(tree.Root(), 7)
	require.True(t, ok)
	assert.Equal(t, surface.ID(7), tree.SID(found))

	_, ok = tree.FindWithSID(tree.Root(), 999)
	assert.False(t, ok)
}

func TestDeramifyCollapsesSingleChildContainer(t *testing.T) {
	tree, _, workspace := newWorkspaceFixture(t)
	sa := newReconfigures()

	leaf := tree.NewLeaf(1, Anchored)
	tree.Settle(leaf, workspace, sa)
	container := tree.Ramify(leaf, Vertical, sa)

	replaced := tree.Deramify(container, sa)
	assert.Equal(t, leaf, replaced)

	parent, ok := tree.Parent(leaf)
	require.True(t, ok)
	assert.Equal(t, workspace, parent)
	assert.False(t, tree.IsInTree(container))
}

func TestToArrayReverseSpatialOrder(t *testing.T) {
	tree, display, workspace := newWorkspaceFixture(t)
	sa := newReconfigures()

	for _, sid := range []surface.ID{1, 2, 3} {
		leaf := tree.NewLeaf(sid, Anchored)
		tree.Settle(leaf, workspace, sa)
	}

	listing := stubListing{}
	out := tree.ToArray(display, listing)
	require.Len(t, out, 3)
	// spatial order is [3,2,1]; reverse-order painting yields [1,2,3].
	assert.Equal(t, surface.ID(1), out[0].ID)
	assert.Equal(t, surface.ID(2), out[1].ID)
	assert.Equal(t, surface.ID(3), out[2].ID)
}

type stubListing struct{}

func (stubListing) RendererContexts(id surface.ID) []surface.Context {
	return []surface.Context{{ID: id}}
}
