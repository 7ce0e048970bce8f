package waylandgw

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// surfaceBackend is the narrow slice of Wayland requests the Store issues
// per managed surface. Splitting it out of *Globals keeps Store testable
// without a live Wayland connection — production code wires realBackend
// (backend.go), tests wire a recording fake.
type surfaceBackend interface {
	NewSurface() (surfaceHandle, error)
	CreatePool(buf engine.Buffer) (poolHandle, error)
	CreateView(pool poolHandle, format string, offset, width, height, stride int) (viewHandle, error)
	Attach(surf surfaceHandle, view viewHandle)
	Commit(surf surfaceHandle)
	Destroy(surf surfaceHandle)
}

// surfaceHandle/poolHandle/viewHandle are opaque backend-assigned handles;
// the Store never interprets them beyond round-tripping them back to the
// backend.
type surfaceHandle = any
type poolHandle = any
type viewHandle = any

type entry struct {
	info   surface.Info
	handle surfaceHandle
	state  surface.State
	size   geom.Size
	parent surface.ID
}

// Store is the engine's external surface store: it implements
// engine.Coordinator directly, translating every call into a
// surfaceBackend request plus whatever local bookkeeping the engine
// needs back (GetSurface, RendererContexts, workspace state publication).
type Store struct {
	mu      sync.Mutex
	backend surfaceBackend
	logger  *log.Logger

	surfaces map[surface.ID]*entry
	pools    []poolHandle
	views    map[int]viewHandle
	nextID   surface.ID
	nextView int

	cursor       surface.ID
	background   surface.ID
	focused      surface.ID
	pointerFocus surface.ID

	workspaces surface.WorkspaceState
}

// NewStore constructs a Store over backend.
func NewStore(backend surfaceBackend, logger *log.Logger) *Store {
	return &Store{
		backend:  backend,
		logger:   logger,
		surfaces: make(map[surface.ID]*entry),
	}
}

// GetSurface returns the bookkeeping record for id, if the store knows it.
func (s *Store) GetSurface(id surface.ID) (surface.Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.surfaces[id]
	if !ok {
		return surface.Info{}, false
	}
	return e.info, true
}

// Notify is a bookkeeping no-op here: the real "wake the event loop"
// signal happens at the engine.Queue level, which this Coordinator does
// not own.
func (s *Store) Notify() {}

// SetFocus records the keyboard-focused surface.
func (s *Store) SetFocus(id surface.ID) {
	s.mu.Lock()
	s.focused = id
	s.mu.Unlock()
}

// SetPointerFocus records the pointer-focused surface. pos is accepted for
// interface compatibility with engine.Coordinator; actual cursor-position
// wire delivery goes through Gateway.OnPointerFocusChanged, not here.
func (s *Store) SetPointerFocus(id surface.ID, _ geom.Position) {
	s.mu.Lock()
	s.pointerFocus = id
	s.mu.Unlock()
}

// Reconfigure applies a frame-tree relax result to a managed surface.
func (s *Store) Reconfigure(id surface.ID, size geom.Size, state surface.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.surfaces[id]
	if !ok {
		return
	}
	e.size = size
	e.state = state
}

// CreateSurface allocates a new backend surface and a store-side id for
// it, for the engine's own auxiliary surfaces (cursor, background) —
// client-requested surfaces are registered through Manage instead, once
// the Gateway's incoming-request handling has already created the
// backend wl_surface.
func (s *Store) CreateSurface() surface.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, err := s.backend.NewSurface()
	if err != nil {
		s.logger.Warn("failed to create backend surface", "err", err)
		return surface.Invalid
	}
	s.nextID++
	id := s.nextID
	s.surfaces[id] = &entry{info: surface.Info{ID: id}, handle: handle, parent: surface.Invalid}
	return id
}

// Manage registers a client-created surface the Gateway already has a
// backend handle for.
func (s *Store) Manage(id surface.ID, handle surfaceHandle, parent surface.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surfaces[id] = &entry{info: surface.Info{ID: id, ParentID: parent}, handle: handle, parent: parent}
}

// Unmanage removes id and destroys its backend surface.
func (s *Store) Unmanage(id surface.ID) {
	s.mu.Lock()
	e, ok := s.surfaces[id]
	if ok {
		delete(s.surfaces, id)
	}
	s.mu.Unlock()
	if ok {
		s.backend.Destroy(e.handle)
	}
}

// Attach binds a memory-view-backed buffer to a surface, ready for Commit.
func (s *Store) Attach(mvid int, id surface.ID) {
	s.mu.Lock()
	e, ok := s.surfaces[id]
	view, viewOK := s.views[mvid]
	s.mu.Unlock()
	if !ok || !viewOK {
		return
	}
	s.backend.Attach(e.handle, view)
}

// Commit flushes the currently attached buffer for id.
func (s *Store) Commit(id surface.ID) {
	s.mu.Lock()
	e, ok := s.surfaces[id]
	s.mu.Unlock()
	if !ok {
		return
	}
	s.backend.Commit(e.handle)
}

// SetAsCursor marks id as the active pointer cursor surface.
func (s *Store) SetAsCursor(id surface.ID) {
	s.mu.Lock()
	s.cursor = id
	s.mu.Unlock()
}

// SetAsBackground marks id as the active background surface.
func (s *Store) SetAsBackground(id surface.ID) {
	s.mu.Lock()
	s.background = id
	s.mu.Unlock()
}

// CreatePoolFromBuffer hands buf's bytes to the backend (a real shm pool
// backed by a memfd/tmpfile, the way the teacher's openFile/createTmpfile
// does it) and returns a local pool id.
func (s *Store) CreatePoolFromBuffer(buf engine.Buffer) int {
	handle, err := s.backend.CreatePool(buf)
	if err != nil {
		s.logger.Warn("failed to create shm pool", "err", err)
		return -1
	}
	s.mu.Lock()
	s.pools = append(s.pools, handle)
	id := len(s.pools) - 1
	s.mu.Unlock()
	return id
}

// CreateMemoryView carves a wl_buffer-equivalent view out of poolID.
func (s *Store) CreateMemoryView(poolID int, format string, offset, width, height, stride int) int {
	s.mu.Lock()
	if poolID < 0 || poolID >= len(s.pools) {
		s.mu.Unlock()
		return -1
	}
	pool := s.pools[poolID]
	s.mu.Unlock()

	view, err := s.backend.CreateView(pool, format, offset, width, height, stride)
	if err != nil {
		s.logger.Warn("failed to create memory view", "err", err)
		return -1
	}
	s.mu.Lock()
	if s.views == nil {
		s.views = make(map[int]viewHandle)
	}
	s.nextView++
	id := s.nextView
	s.views[id] = view
	s.mu.Unlock()
	return id
}

// GetWorkspaceState returns the last-published workspace listing.
func (s *Store) GetWorkspaceState() surface.WorkspaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspaces
}

// PublishWorkspaceState stores the latest per-display workspace listing
// for UI panels to read back through GetWorkspaceState.
func (s *Store) PublishWorkspaceState(state surface.WorkspaceState) {
	s.mu.Lock()
	s.workspaces = state
	s.mu.Unlock()
}

// RendererContexts lists id's own geometry as a single-element paint
// context; this store has no subsurface/popup tree of its own (those are
// represented as separate top-level frame-tree entries by the compositor
// instead), so it never expands beyond the one context.
func (s *Store) RendererContexts(id surface.ID) []surface.Context {
	s.mu.Lock()
	e, ok := s.surfaces[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return []surface.Context{{ID: id, Size: e.size}}
}
