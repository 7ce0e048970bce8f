package aesthetics

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

type fakeBackgroundCoordinator struct {
	fakeSurfaceCreator
	pools      []engine.Buffer
	background surface.ID
}

func (f *fakeBackgroundCoordinator) GetSurface(surface.ID) (surface.Info, bool)       { return surface.Info{}, false }
func (f *fakeBackgroundCoordinator) Notify()                                          {}
func (f *fakeBackgroundCoordinator) SetFocus(surface.ID)                             {}
func (f *fakeBackgroundCoordinator) SetPointerFocus(surface.ID, geom.Position)        {}
func (f *fakeBackgroundCoordinator) Reconfigure(surface.ID, geom.Size, surface.State) {}
func (f *fakeBackgroundCoordinator) Attach(int, surface.ID)                          {}
func (f *fakeBackgroundCoordinator) Commit(surface.ID)                               {}
func (f *fakeBackgroundCoordinator) SetAsCursor(surface.ID)                          {}
func (f *fakeBackgroundCoordinator) SetAsBackground(sid surface.ID)                  { f.background = sid }
func (f *fakeBackgroundCoordinator) CreatePoolFromBuffer(buf engine.Buffer) int {
	f.pools = append(f.pools, buf)
	return len(f.pools)
}
func (f *fakeBackgroundCoordinator) CreateMemoryView(int, string, int, int, int, int) int { return 1 }
func (f *fakeBackgroundCoordinator) GetWorkspaceState() surface.WorkspaceState            { return surface.WorkspaceState{} }
func (f *fakeBackgroundCoordinator) PublishWorkspaceState(surface.WorkspaceState)         {}
func (f *fakeBackgroundCoordinator) RendererContexts(surface.ID) []surface.Context        { return nil }

func silentLogger() *charmlog.Logger { return charmlog.New(io.Discard) }

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "bg.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestOnDisplayCreatedInstallsScaledBackground(t *testing.T) {
	path := writeTestPNG(t, 4, 4)
	coord := &fakeBackgroundCoordinator{}
	b := NewBackground(coord, path, "", silentLogger())

	b.OnDisplayCreated(geom.Size{Width: 8, Height: 6}, "workspace one")

	require.True(t, coord.background.IsValid())
	require.Len(t, coord.pools, 1)
	assert.Equal(t, 8, coord.pools[0].Width)
	assert.Equal(t, 6, coord.pools[0].Height)
	assert.Equal(t, 8*4, coord.pools[0].Stride)
}

func TestOnDisplayCreatedNoopsWithoutPath(t *testing.T) {
	coord := &fakeBackgroundCoordinator{}
	b := NewBackground(coord, "", "", silentLogger())

	b.OnDisplayCreated(geom.Size{Width: 8, Height: 6}, "title")

	assert.False(t, coord.background.IsValid())
	assert.Empty(t, coord.pools)
}

func TestOnDisplayCreatedOnlyInstallsOnce(t *testing.T) {
	path := writeTestPNG(t, 4, 4)
	coord := &fakeBackgroundCoordinator{}
	b := NewBackground(coord, path, "", silentLogger())

	b.OnDisplayCreated(geom.Size{Width: 8, Height: 6}, "first")
	b.OnSurfaceChange(coord.background)
	b.OnDisplayCreated(geom.Size{Width: 8, Height: 6}, "second")

	assert.Len(t, coord.pools, 1)
}
