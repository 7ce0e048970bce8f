package strategist

import (
	"math/rand"

	"github.com/peria-go/peria/internal/frame"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// ChooseTargetAlwaysFloating always floats the new surface, using
// ChooseFloating to pick its area within selection's workspace.
func ChooseTargetAlwaysFloating(s *Strategist, tree *frame.Tree, selection frame.ID, info surface.Info) TargetDecision {
	var preferred *geom.Size
	if !info.RequestedSize.IsZero() {
		size := info.RequestedSize
		preferred = &size
	}

	workspace := tree.FindTop(selection)
	floating := s.ChooseFloating(tree.Size(workspace), preferred)
	return TargetDecision{
		Target:    workspace,
		Geometry:  frame.Vertical,
		Selection: true,
		Floating:  &floating,
	}
}

// ChooseTargetAnchoredButPopups anchors toplevel surfaces as a sibling of
// the current selection; surfaces with a parent (popups/subsurfaces) fall
// back to ChooseTargetAlwaysFloating.
func ChooseTargetAnchoredButPopups(s *Strategist, tree *frame.Tree, selection frame.ID, info surface.Info) TargetDecision {
	if !info.ParentID.IsValid() {
		target := tree.FindBuildable(selection)
		return TargetDecision{
			Target:    target,
			Geometry:  frame.Stacked,
			Selection: true,
			Floating:  nil,
		}
	}
	return ChooseTargetAlwaysFloating(s, tree, selection, info)
}

// ChooseFloatingAlwaysCentered places the floating frame at a quarter of
// its workspace's width and height, using half the workspace's size when
// no size was requested; the frame is centred only at that default size.
func ChooseFloatingAlwaysCentered(_ *Strategist, workspaceSize geom.Size, preferredSize *geom.Size) FloatingDecision {
	size := workspaceSize.Scaled(0.5)
	if preferredSize != nil {
		size = *preferredSize
	}
	pos := geom.Position{X: workspaceSize.Width / 4, Y: workspaceSize.Height / 4}
	return FloatingDecision{Area: geom.NewArea(pos, size)}
}

// ChooseFloatingRandom picks a random position that keeps the floating
// frame entirely within its workspace.
func ChooseFloatingRandom(_ *Strategist, workspaceSize geom.Size, preferredSize *geom.Size) FloatingDecision {
	size := workspaceSize.Scaled(0.5)
	if preferredSize != nil {
		size = *preferredSize
	}
	maxX := workspaceSize.Width - size.Width
	maxY := workspaceSize.Height - size.Height
	pos := geom.Position{}
	if maxX > 0 {
		pos.X = rand.Intn(maxX)
	}
	if maxY > 0 {
		pos.Y = rand.Intn(maxY)
	}
	return FloatingDecision{Area: geom.NewArea(pos, size)}
}
