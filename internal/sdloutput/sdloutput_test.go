package sdloutput

import (
	"image"
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

type recordingPublisher struct{ flips []int }

func (r *recordingPublisher) EmitVblank(int)         {}
func (r *recordingPublisher) EmitPageFlip(id int)    { r.flips = append(r.flips, id) }

// bareDriver builds a Driver with no live SDL resources, for exercising the
// logic that doesn't touch the window/renderer/texture.
func bareDriver(info engine.OutputInfo, pub *recordingPublisher) *Driver {
	return &Driver{
		info:      info,
		backBuf:   image.NewRGBA(image.Rect(0, 0, info.Area.Size.Width, info.Area.Size.Height)),
		publisher: pub,
		logger:    silentLogger(),
	}
}

func testInfo() engine.OutputInfo {
	return engine.OutputInfo{ID: 4, Area: geom.NewArea(geom.Position{}, geom.Size{Width: 8, Height: 4})}
}

func TestCompositeFrameFillsSurfaceBounds(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 8, 4))
	ctx := surface.Context{ID: 1, Position: geom.Position{X: 2, Y: 1}, Size: geom.Size{Width: 3, Height: 2}}

	compositeFrame(buf, nil, []surface.Context{ctx}, nil)

	inside := buf.RGBAAt(3, 1)
	outside := buf.RGBAAt(0, 0)
	assert.NotEqual(t, inside, outside)
}

func TestCompositeFrameClipsOutOfBoundsContexts(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 4, 4))
	ctx := surface.Context{ID: 1, Position: geom.Position{X: 10, Y: 10}, Size: geom.Size{Width: 3, Height: 3}}

	assert.NotPanics(t, func() {
		compositeFrame(buf, nil, []surface.Context{ctx}, nil)
	})
}

func TestPaletteColorWrapsAndHandlesNegatives(t *testing.T) {
	assert.Equal(t, paletteColor(0), paletteColor(len(paletteColors)))
	assert.Equal(t, paletteColor(1), paletteColor(-1))
}

func TestDrawFailsWithoutBackBuffer(t *testing.T) {
	d := &Driver{info: testInfo(), logger: silentLogger()}

	err := d.Draw(nil, nil, nil)

	require.Error(t, err)
}

func TestDrawSucceedsWithBackBuffer(t *testing.T) {
	d := bareDriver(testInfo(), &recordingPublisher{})

	require.NoError(t, d.Draw(nil, nil, nil))
}

func TestSwapBuffersFailsWithoutRenderer(t *testing.T) {
	d := bareDriver(testInfo(), &recordingPublisher{})

	_, err := d.SwapBuffers()

	require.Error(t, err)
}

func TestSchedulePageFlipFailsWithoutPublisher(t *testing.T) {
	d := bareDriver(testInfo(), nil)
	d.publisher = nil

	err := d.SchedulePageFlip()

	require.Error(t, err)
}

func TestNotifyPageFlipCallsPublisherDirectly(t *testing.T) {
	pub := &recordingPublisher{}
	d := bareDriver(testInfo(), pub)

	d.notifyPageFlip()

	assert.Equal(t, []int{4}, pub.flips)
}

func TestGetInfoAndSetPositionWithoutWindow(t *testing.T) {
	d := bareDriver(testInfo(), &recordingPublisher{})

	d.SetPosition(geom.Position{X: 9, Y: 2})

	assert.Equal(t, geom.Position{X: 9, Y: 2}, d.GetInfo().Area.Pos)
}

func TestTakeScreenshotCopiesBackBuffer(t *testing.T) {
	d := bareDriver(testInfo(), &recordingPublisher{})
	d.backBuf.Pix[0] = 77

	buf, err := d.TakeScreenshot()

	require.NoError(t, err)
	assert.Equal(t, byte(77), buf.Data[0])
	d.backBuf.Pix[0] = 1
	assert.Equal(t, byte(77), buf.Data[0], "screenshot must be a copy, not an alias")
}

func TestTakeScreenshotFailsWithoutBackBuffer(t *testing.T) {
	d := &Driver{info: testInfo(), logger: silentLogger()}

	_, err := d.TakeScreenshot()

	require.Error(t, err)
}
