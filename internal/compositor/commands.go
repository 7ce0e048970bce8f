package compositor

import (
	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/frame"
)

// Execute dispatches a single user-facing command against the current
// selection (spec.md §4.6 "Command language").
func (c *Compositor) Execute(cmd engine.Command) {
	if c.selection == c.tree.Root() {
		c.logger.Warn("execute: no selection")
		return
	}

	switch cmd.Action {
	case engine.ActionFocus:
		c.focus(cmd.Direction, cmd.Magnitude)
	case engine.ActionJump:
		c.jump(cmd.Direction, cmd.String)
	case engine.ActionDive:
		c.selection = c.tree.Dive(c.selection, cmd.Direction, cmd.Magnitude, c.coordinator)
	case engine.ActionMove:
		c.tree.Move(c.selection, cmd.Direction, cmd.Magnitude*c.moveStep, c.coordinator)
	case engine.ActionResize:
		c.tree.Resize(c.selection, cmd.Direction, cmd.Magnitude*c.resizeStep)
	case engine.ActionConfigure:
		c.tree.Configure(c.selection, cmd.Direction, c.coordinator)
	case engine.ActionAnchor:
		c.anchor()
	}
}

// focus moves the selection along a spatial axis within its workspace,
// magnitude steps at a time, without changing the tree's structure.
// Reaching the edge of the workspace simply stops (no wraparound).
func (c *Compositor) focus(direction frame.Direction, magnitude int) {
	cur := c.selection
	for step := 0; step < magnitude; step++ {
		sibling, ok := c.tree.SiblingInDirection(cur, direction)
		if !ok {
			break
		}
		cur = sibling
	}
	c.selectFrame(cur)
}

func (c *Compositor) jump(direction frame.Direction, text string) {
	switch direction {
	case frame.End:
		c.tree.Ramify(c.selection, frame.Stacked, c.coordinator)
	case frame.Begin:
		c.tree.Exalt(c.selection, c.coordinator)
	case frame.WorkspaceDirection:
		c.jumpToWorkspace(text)
	}
}

// jumpToWorkspace moves the selection to the workspace titled text, on
// whichever display holds it, creating it on the selection's current
// display if no display has a match.
func (c *Compositor) jumpToWorkspace(title string) {
	top := c.tree.FindTop(c.selection)
	display := top
	if c.tree.Mode(top) == frame.ModeWorkspace {
		if p, ok := c.tree.Parent(top); ok {
			display = p
		}
	}
	if c.tree.Mode(display) != frame.ModeDisplay {
		return
	}

	target, ok := c.findWorkspaceByTitle(title)
	if !ok {
		target = c.tree.NewWorkspace(title)
		c.tree.Settle(target, display, c.coordinator)
	}
	c.tree.Resettle(c.selection, target, c.coordinator)
}

// findWorkspaceByTitle searches the workspaces of every display.
func (c *Compositor) findWorkspaceByTitle(title string) (frame.ID, bool) {
	for display := range c.tree.SpaceIter(c.tree.Root()) {
		if c.tree.Mode(display) != frame.ModeDisplay {
			continue
		}
		for child := range c.tree.SpaceIter(display) {
			if c.tree.Mode(child) == frame.ModeWorkspace && c.tree.Title(child) == title {
				return child, true
			}
		}
	}
	return frame.ID(0), false
}

// anchor toggles the selection's mobility between Anchored and Floating.
// Toggling a Docked (unanchorable) frame is a no-op (spec.md §9).
func (c *Compositor) anchor() {
	switch c.tree.Mobility(c.selection) {
	case frame.Anchored:
		c.tree.SetMobility(c.selection, frame.Floating)
	case frame.Floating:
		c.tree.SetMobility(c.selection, frame.Anchored)
	case frame.Docked:
		// no-op
	}
}
