package engine

import "github.com/peria-go/peria/internal/surface"

// Message is one event delivered to the exhibitor thread's queue. The
// concrete types below are the tagged variants spec.md §9 ("Multi-thread
// signaling") describes; only code within this module constructs them, so
// the marker method is unexported.
type Message interface {
	isMessage()
}

// OutputFoundMsg announces a newly-detected output.
type OutputFoundMsg struct {
	OutputID int
	Info     OutputInfo
}

// OutputLostMsg announces an output that disappeared (unplug, VT switch
// failure, ...).
type OutputLostMsg struct {
	OutputID int
}

// SurfaceReadyMsg announces a surface that finished its initial commit and
// is ready to be managed.
type SurfaceReadyMsg struct {
	SID surface.ID
}

// SurfaceDestroyedMsg announces a surface's destruction.
type SurfaceDestroyedMsg struct {
	SID surface.ID
}

// PointerMotionMsg carries a relative pointer motion vector (dx, dy).
type PointerMotionMsg struct {
	DX, DY int
}

// PointerPositionMsg carries an absolute pointer position; either axis may
// be absent (HasX/HasY false) for devices that only report one axis.
type PointerPositionMsg struct {
	X, Y       int
	HasX, HasY bool
}

// PointerButtonMsg carries a raw button code and whether it was pressed.
type PointerButtonMsg struct {
	Button  uint32
	Pressed bool
}

// PageFlipNotifyMsg announces the kernel's page-flip-complete callback for
// one output.
type PageFlipNotifyMsg struct {
	OutputID int
}

// VblankNotifyMsg announces a cosmetic vblank callback for one output.
type VblankNotifyMsg struct {
	OutputID int
}

// NotifyMsg requests that every output be marked dirty and redrawn if
// Idle (Exhibitor.OnNotify).
type NotifyMsg struct{}

// CommandMsg wraps a user-facing Command for Compositor.Execute.
type CommandMsg struct {
	Command Command
}

// TerminateMsg asks the exhibitor thread to drain its queue and exit.
type TerminateMsg struct{}

func (OutputFoundMsg) isMessage()       {}
func (OutputLostMsg) isMessage()        {}
func (SurfaceReadyMsg) isMessage()      {}
func (SurfaceDestroyedMsg) isMessage()  {}
func (PointerMotionMsg) isMessage()     {}
func (PointerPositionMsg) isMessage()   {}
func (PointerButtonMsg) isMessage()     {}
func (PageFlipNotifyMsg) isMessage()    {}
func (VblankNotifyMsg) isMessage()      {}
func (NotifyMsg) isMessage()            {}
func (CommandMsg) isMessage()           {}
func (TerminateMsg) isMessage()         {}

// Queue is the typed, ordered channel other threads use to hand events to
// the exhibitor thread. Messages from a single sender preserve send order
// (spec.md §5) because Go channels already guarantee that; Queue adds
// nothing beyond a named type and a sensible default capacity.
type Queue struct {
	messages chan Message
}

// NewQueue constructs a Queue with the given buffer capacity. A capacity
// of 0 makes sends and receives rendezvous synchronously, which is fine
// for tests; production wiring (cmd/peria) uses a small buffer so bursts
// of input events don't block the producing thread.
func NewQueue(capacity int) *Queue {
	return &Queue{messages: make(chan Message, capacity)}
}

// Send enqueues a message. It blocks if the queue is full.
func (q *Queue) Send(m Message) {
	q.messages <- m
}

// Receive blocks until a message is available and returns it.
func (q *Queue) Receive() Message {
	return <-q.messages
}

// Chan exposes the underlying channel for use in a select statement
// alongside other event sources (e.g. a signal channel).
func (q *Queue) Chan() <-chan Message {
	return q.messages
}
