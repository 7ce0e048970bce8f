package waylandgw

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/rajveermalviya/go-wayland/wayland"

	"github.com/peria-go/peria/internal/engine"
)

// wlFormat maps the engine's string pixel format names to the wl_shm
// format enum values the teacher's own shm-pool code targets
// (ShmFormatAbgr8888 in wayland.go/menu.go).
var wlFormat = map[string]uint32{
	"abgr8888": uint32(wayland.ShmFormatAbgr8888),
	"xrgb8888": uint32(wayland.ShmFormatXrgb8888),
	"argb8888": uint32(wayland.ShmFormatArgb8888),
}

// realBackend is the production surfaceBackend, issuing real requests
// against the globals bound by Connect.
type realBackend struct {
	globals *Globals
}

// NewRealBackend wraps globals as a surfaceBackend for Store.
func NewRealBackend(globals *Globals) surfaceBackend {
	return &realBackend{globals: globals}
}

func (b *realBackend) NewSurface() (surfaceHandle, error) {
	return b.globals.Compositor.CreateSurface()
}

// createTmpfile allocates an anonymous, already-unlinked backing file for
// an shm pool, exactly as the teacher's createTmpfile in wayland.go does:
// XDG_RUNTIME_DIR, CreateTemp, Truncate, then Remove so the fd outlives
// any directory entry.
func createTmpfile(size int64) (*os.File, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return nil, errors.New("XDG_RUNTIME_DIR is not defined in env")
	}
	file, err := os.CreateTemp(dir, "peria-shm-*")
	if err != nil {
		return nil, err
	}
	if err := file.Truncate(size); err != nil {
		return nil, err
	}
	if err := os.Remove(file.Name()); err != nil {
		return nil, err
	}
	return file, nil
}

type pool struct {
	file *os.File
	mem  []byte
	pool *wayland.ShmPool
}

func (b *realBackend) CreatePool(buf engine.Buffer) (poolHandle, error) {
	size := len(buf.Data)
	file, err := createTmpfile(int64(size))
	if err != nil {
		return nil, fmt.Errorf("creating shm backing file: %w", err)
	}
	mem, err := syscall.Mmap(int(file.Fd()), 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("mmapping shm backing file: %w", err)
	}
	copy(mem, buf.Data)

	shmPool, err := b.globals.Shm.CreatePool(int(file.Fd()), int32(size))
	if err != nil {
		syscall.Munmap(mem)
		file.Close()
		return nil, fmt.Errorf("wl_shm.create_pool: %w", err)
	}
	return &pool{file: file, mem: mem, pool: shmPool}, nil
}

func (b *realBackend) CreateView(ph poolHandle, format string, offset, width, height, stride int) (viewHandle, error) {
	p, ok := ph.(*pool)
	if !ok {
		return nil, fmt.Errorf("create view: not a pool handle")
	}
	fmtID, ok := wlFormat[format]
	if !ok {
		return nil, fmt.Errorf("unknown pixel format %q", format)
	}
	return p.pool.CreateBuffer(int32(offset), int32(width), int32(height), int32(stride), fmtID)
}

func (b *realBackend) Attach(surf surfaceHandle, view viewHandle) {
	s, ok := surf.(*wayland.Surface)
	buf, bufOK := view.(*wayland.Buffer)
	if !ok || !bufOK {
		return
	}
	s.Attach(buf, 0, 0)
}

func (b *realBackend) Commit(surf surfaceHandle) {
	if s, ok := surf.(*wayland.Surface); ok {
		s.Commit()
	}
}

func (b *realBackend) Destroy(surf surfaceHandle) {
	if s, ok := surf.(*wayland.Surface); ok {
		s.Destroy()
	}
}
