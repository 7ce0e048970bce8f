// Package surface defines the identifiers and data records the engine
// exchanges with the external surface store through the Coordinator
// interface. Ownership of the underlying surfaces stays with that store;
// this package only carries the shapes the engine needs to talk about them.
package surface

import "github.com/peria-go/peria/internal/geom"

// ID is an opaque surface identifier. Zero is reserved as "invalid".
type ID uint64

// Invalid is the reserved "no surface" identifier.
const Invalid ID = 0

// IsValid reports whether id refers to a real surface.
func (id ID) IsValid() bool {
	return id != Invalid
}

// State is a bitset of surface state flags reported on reconfigure.
type State uint32

const (
	// StateMaximized marks a surface that was resized to fill its parent's
	// allotted area by the relax algorithm (§4.1 "Relax / homogenize").
	StateMaximized State = 1 << iota
	// StateFullscreen marks a surface occupying an entire output.
	StateFullscreen
	// StateActivated marks the currently focused surface.
	StateActivated
)

// Info is the set of attributes the engine reads about a client surface
// when deciding how to place it.
type Info struct {
	ID             ID
	ParentID       ID // invalid if the surface has no parent (toplevel)
	RequestedSize  geom.Size
	Offset         geom.Position
}

// Context pairs a surface identifier with the position and size it
// should be drawn at, as produced by the frame tree's depth-ordered
// listing.
type Context struct {
	ID       ID
	Position geom.Position
	Size     geom.Size
}

// Moved returns a copy of c translated by delta — used by Tree.ToArray to
// place a leaf's renderer contexts at the leaf's own position.
func (c Context) Moved(delta geom.Position) Context {
	return Context{
		ID:       c.ID,
		Position: geom.Position{X: c.Position.X + delta.X, Y: c.Position.Y + delta.Y},
		Size:     c.Size,
	}
}

// WorkspaceState is the externally published view of per-display workspace
// selection, consumed by UI panels through Coordinator.PublishWorkspaceState.
type WorkspaceState struct {
	Displays []DisplayWorkspaces
}

// DisplayWorkspaces names the workspaces on one display and which is active.
type DisplayWorkspaces struct {
	OutputID int
	Titles   []string
	Active   string
}
