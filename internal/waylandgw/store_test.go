package waylandgw

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

func silentLogger() *log.Logger { return log.New(io.Discard) }

type fakeSurface struct{ name string }
type fakePool struct{ data []byte }
type fakeView struct{ pool *fakePool }

type fakeBackend struct {
	surfaceCount int
	destroyed    []surfaceHandle
	attached     map[surfaceHandle]viewHandle
	committed    []surfaceHandle
	failNewSurf  bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{attached: make(map[surfaceHandle]viewHandle)}
}

func (f *fakeBackend) NewSurface() (surfaceHandle, error) {
	if f.failNewSurf {
		return nil, assertErr
	}
	f.surfaceCount++
	return &fakeSurface{name: "surf"}, nil
}

func (f *fakeBackend) CreatePool(buf engine.Buffer) (poolHandle, error) {
	cp := make([]byte, len(buf.Data))
	copy(cp, buf.Data)
	return &fakePool{data: cp}, nil
}

func (f *fakeBackend) CreateView(pool poolHandle, format string, offset, width, height, stride int) (viewHandle, error) {
	p, ok := pool.(*fakePool)
	if !ok {
		return nil, assertErr
	}
	return &fakeView{pool: p}, nil
}

func (f *fakeBackend) Attach(surf surfaceHandle, view viewHandle) {
	f.attached[surf] = view
}

func (f *fakeBackend) Commit(surf surfaceHandle) {
	f.committed = append(f.committed, surf)
}

func (f *fakeBackend) Destroy(surf surfaceHandle) {
	f.destroyed = append(f.destroyed, surf)
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

var assertErr = sentinelErr("backend failure")

func TestCreateSurfaceRegistersEntry(t *testing.T) {
	backend := newFakeBackend()
	s := NewStore(backend, silentLogger())

	id := s.CreateSurface()

	require.True(t, id.IsValid())
	info, ok := s.GetSurface(id)
	assert.True(t, ok)
	assert.Equal(t, id, info.ID)
	assert.Equal(t, 1, backend.surfaceCount)
}

func TestCreateSurfaceReturnsInvalidOnBackendFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failNewSurf = true
	s := NewStore(backend, silentLogger())

	id := s.CreateSurface()

	assert.Equal(t, surface.Invalid, id)
}

func TestAttachAndCommitRoundtrip(t *testing.T) {
	backend := newFakeBackend()
	s := NewStore(backend, silentLogger())
	id := s.CreateSurface()

	poolID := s.CreatePoolFromBuffer(engine.Buffer{Width: 2, Height: 2, Stride: 8, Data: make([]byte, 16)})
	require.GreaterOrEqual(t, poolID, 0)
	viewID := s.CreateMemoryView(poolID, "abgr8888", 0, 2, 2, 8)
	require.GreaterOrEqual(t, viewID, 0)

	s.Attach(viewID, id)
	s.Commit(id)

	s.mu.Lock()
	handle := s.surfaces[id].handle
	s.mu.Unlock()
	assert.Contains(t, backend.committed, handle)
	assert.Contains(t, backend.attached, handle)
}

func TestUnmanageDestroysBackendSurface(t *testing.T) {
	backend := newFakeBackend()
	s := NewStore(backend, silentLogger())
	id := s.CreateSurface()

	s.Unmanage(id)

	_, ok := s.GetSurface(id)
	assert.False(t, ok)
	assert.Len(t, backend.destroyed, 1)
}

func TestReconfigureUpdatesTrackedSizeAndState(t *testing.T) {
	backend := newFakeBackend()
	s := NewStore(backend, silentLogger())
	id := s.CreateSurface()

	s.Reconfigure(id, geom.Size{Width: 9, Height: 4}, surface.StateActivated)

	ctxs := s.RendererContexts(id)
	require.Len(t, ctxs, 1)
	assert.Equal(t, geom.Size{Width: 9, Height: 4}, ctxs[0].Size)
}

func TestCreateMemoryViewFailsForUnknownPool(t *testing.T) {
	backend := newFakeBackend()
	s := NewStore(backend, silentLogger())

	view := s.CreateMemoryView(42, "abgr8888", 0, 1, 1, 4)

	assert.Equal(t, -1, view)
}

func TestWorkspaceStateRoundtrips(t *testing.T) {
	backend := newFakeBackend()
	s := NewStore(backend, silentLogger())
	want := surface.WorkspaceState{Displays: []surface.DisplayWorkspaces{{OutputID: 1, Titles: []string{"a", "b"}, Active: "a"}}}

	s.PublishWorkspaceState(want)

	assert.Equal(t, want, s.GetWorkspaceState())
}

func TestSetAsCursorAndBackgroundTrackSeparately(t *testing.T) {
	backend := newFakeBackend()
	s := NewStore(backend, silentLogger())
	cursorID := s.CreateSurface()
	bgID := s.CreateSurface()

	s.SetAsCursor(cursorID)
	s.SetAsBackground(bgID)

	assert.Equal(t, cursorID, s.cursor)
	assert.Equal(t, bgID, s.background)
}
