// Package engine defines the contracts the exhibition engine depends on
// but does not implement itself (the external surface store, the Wayland
// client collaborator, and the per-output renderer), along with the wire
// types and cross-thread plumbing (typed message queue, Mediator,
// taxonomy of recoverable errors) that the rest of the packages in this
// module share.
package engine

import (
	"github.com/peria-go/peria/internal/frame"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// Buffer is a raw pixel buffer handed across the Coordinator boundary —
// e.g. the engine's own cursor/background images, or a screenshot
// readback from an OutputDriver.
type Buffer struct {
	Width, Height, Stride int
	Data                  []byte
}

// Coordinator is the external surface store the engine queries and
// mutates. It is the one dependency the compositor, pointer, and
// aesthetics packages all hold a handle to.
type Coordinator interface {
	GetSurface(id surface.ID) (surface.Info, bool)
	Notify()
	SetFocus(id surface.ID)
	SetPointerFocus(id surface.ID, pos geom.Position)

	// Reconfigure forwards a frame tree relax's computed size/state to the
	// surface store (which in turn notifies the Wayland client through the
	// Gateway). Satisfies internal/frame's SurfaceAccess directly, so a
	// Coordinator can be handed to Tree.Relax/Settle/Resettle without
	// adapting.
	Reconfigure(id surface.ID, size geom.Size, state surface.State)

	CreateSurface() surface.ID
	Attach(mvid int, id surface.ID)
	Commit(id surface.ID)
	SetAsCursor(id surface.ID)
	SetAsBackground(id surface.ID)

	CreatePoolFromBuffer(buf Buffer) int
	CreateMemoryView(poolID int, format string, offset, width, height, stride int) int

	GetWorkspaceState() surface.WorkspaceState
	PublishWorkspaceState(state surface.WorkspaceState)

	// RendererContexts lists the renderer contexts (subsurfaces, popups, the
	// surface itself) anchored to id, for Tree.ToArray's paint-list
	// expansion. Satisfies internal/frame's SurfaceListing directly.
	RendererContexts(id surface.ID) []surface.Context
}

// Gateway is the set of notifications the engine produces toward the
// Wayland client collaborator.
type Gateway interface {
	OnSurfaceReconfigured(id surface.ID, size geom.Size, state surface.State)
	OnSurfaceFrame(id surface.ID, timeMillis uint32)
	OnPointerFocusChanged(old, current surface.ID, pos geom.Position)
	OnPointerRelativeMotion(id surface.ID, pos geom.Position, timeMillis uint32)
	OnPointerButton(button uint32)
	OnPointerAxis(axis float64)
	OnKeyboardFocusChanged(old, current surface.ID)
	OnKeyboardInput(key uint32, mods uint32)
	OnOutputFound()
}

// OutputInfo describes one output's fixed and current attributes.
type OutputInfo struct {
	ID            int
	Area          geom.Area
	PhysicalSize  geom.Size
	RefreshRateHz int
	Make, Model   string
}

// OutputDriver is the per-output rendering/presentation backend —
// satisfied today by internal/sdloutput and (as a stub) internal/drmoutput.
type OutputDriver interface {
	Draw(layunder, surfaces, layover []surface.Context) error
	SwapBuffers() (uint32, error)
	SchedulePageFlip() error
	GetInfo() OutputInfo
	SetPosition(pos geom.Position)
	TakeScreenshot() (Buffer, error)
	Recreate() (OutputDriver, error)
}

// Action is the verb half of a wire Command.
type Action int

const (
	ActionNone Action = iota
	ActionFocus
	ActionJump
	ActionDive
	ActionMove
	ActionResize
	ActionConfigure
	ActionAnchor
)

// Command is the wire format for user-facing compositor commands (§6
// "Command wire format").
type Command struct {
	Action    Action
	Direction frame.Direction
	Magnitude int
	String    string
}

// Config is the subset of persisted configuration the engine is handed at
// start (§6 "Persisted state"); the engine itself never reads a config
// file.
type Config struct {
	MoveStep            int
	ResizeStep          int
	ChooseTargetName    string
	ChooseFloatingName  string
	BackgroundPath      string
}
