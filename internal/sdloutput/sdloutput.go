// Package sdloutput is the "Virtual" OutputDriver variant: an output
// backed by an SDL2 window instead of a real KMS/DRM display, for running
// the exhibitor on a desktop or in a nested session. Grounded on the
// teacher's ctxmenu.go, which drives the very same
// CreateWindow/CreateRenderer/CreateTexture/Copy/Present sequence for its
// own popup windows; here the paint list is a depth-ordered stack of
// surface rectangles instead of menu items.
//
// Real vsync hardware doesn't exist for a plain window, so page flips are
// simulated on a timer — the software analogue of
// original_source/cognitive/qualia/src/output.rs's
// VirtualFramebuffer.vblank_subscribers, which the original notifies once
// per simulated frame tick rather than once per real CRTC vblank.
package sdloutput

import (
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/daaku/swizzle"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/pageflip"
	"github.com/peria-go/peria/internal/surface"
)

// defaultVsyncInterval approximates a 60Hz refresh for the simulated
// page-flip completion timer.
const defaultVsyncInterval = 16 * time.Millisecond

// Driver is the engine's OutputDriver for a window-backed virtual output.
type Driver struct {
	info      engine.OutputInfo
	window    *sdl.Window
	renderer  *sdl.Renderer
	texture   *sdl.Texture
	backBuf   *image.RGBA
	publisher pageflip.StatePublisher
	vsync     time.Duration
	seq       uint32
	logger    *log.Logger
}

// New opens an SDL window sized to info.Area and wires its simulated
// page-flip completions through publisher (normally a
// pageflip.QueuePublisher).
func New(info engine.OutputInfo, publisher pageflip.StatePublisher, logger *log.Logger) (*Driver, error) {
	w, h := info.Area.Size.Width, info.Area.Size.Height

	window, err := sdl.CreateWindow(
		outputTitle(info),
		int32(info.Area.Pos.X), int32(info.Area.Pos.Y),
		int32(w), int32(h),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return nil, engine.NewError(engine.OutputLost, "creating window for output %d: %v", info.ID, err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return nil, engine.NewError(engine.OutputLost, "creating renderer for output %d: %v", info.ID, err)
	}
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, engine.NewError(engine.OutputLost, "creating texture for output %d: %v", info.ID, err)
	}

	return &Driver{
		info:      info,
		window:    window,
		renderer:  renderer,
		texture:   texture,
		backBuf:   image.NewRGBA(image.Rect(0, 0, w, h)),
		publisher: publisher,
		vsync:     defaultVsyncInterval,
		logger:    logger,
	}, nil
}

func outputTitle(info engine.OutputInfo) string {
	if info.Model != "" {
		return info.Model
	}
	return "output"
}

// paletteColors cycles a small palette so adjacent surfaces in the paint
// list are visually distinguishable without needing the actual client
// pixel data, which this driver never sees (that lives behind the
// Coordinator/Wayland boundary, out of this package's scope).
var paletteColors = []color.RGBA{
	{R: 60, G: 90, B: 140, A: 255},
	{R: 140, G: 90, B: 60, A: 255},
	{R: 90, G: 140, B: 60, A: 255},
	{R: 140, G: 60, B: 120, A: 255},
}

func paletteColor(n int) color.RGBA {
	if n < 0 {
		n = -n
	}
	return paletteColors[n%len(paletteColors)]
}

func compositeFrame(buf *image.RGBA, layunder, surfaces, layover []surface.Context) {
	draw.Draw(buf, buf.Bounds(), image.Black, image.Point{}, draw.Src)
	for _, layer := range [][]surface.Context{layunder, surfaces, layover} {
		for i, ctx := range layer {
			r := image.Rect(
				ctx.Position.X, ctx.Position.Y,
				ctx.Position.X+ctx.Size.Width, ctx.Position.Y+ctx.Size.Height,
			)
			view := newSurfaceView(buf, r)
			if view == nil {
				continue
			}
			draw.Draw(view, view.Bounds(), image.NewUniform(paletteColor(int(ctx.ID)+i)), image.Point{}, draw.Over)
		}
	}
}

// Draw composites the three paint-list layers into the back buffer.
func (d *Driver) Draw(layunder, surfaces, layover []surface.Context) error {
	if d.backBuf == nil {
		return engine.NewError(engine.RenderFailure, "output %d has no back buffer", d.info.ID)
	}
	compositeFrame(d.backBuf, layunder, surfaces, layover)
	return nil
}

// SwapBuffers pushes the back buffer to the SDL texture and presents it.
// SDL's ARGB8888 texture format stores bytes as B,G,R,A on little-endian
// machines, the opposite red/blue order from Go's image.RGBA, so a copy of
// the pixels is swizzled before upload —
// the same conversion the teacher's go.mod already depends on
// (github.com/daaku/swizzle) for byte-order-sensitive pixel blits.
func (d *Driver) SwapBuffers() (uint32, error) {
	if d.texture == nil || d.renderer == nil {
		return 0, engine.NewError(engine.RenderFailure, "output %d has no live renderer", d.info.ID)
	}
	pix := make([]byte, len(d.backBuf.Pix))
	copy(pix, d.backBuf.Pix)
	swizzle.BGRA(pix)

	if err := d.texture.Update(nil, pix, d.backBuf.Stride); err != nil {
		return 0, engine.NewError(engine.RenderFailure, "updating texture for output %d: %v", d.info.ID, err)
	}
	if err := d.renderer.Copy(d.texture, nil, nil); err != nil {
		return 0, engine.NewError(engine.RenderFailure, "compositing texture for output %d: %v", d.info.ID, err)
	}
	d.renderer.Present()

	d.seq++
	return d.seq, nil
}

// SchedulePageFlip arms a simulated vblank: since a desktop window has no
// real CRTC to flip, completion is delivered after one vsync interval
// instead of on a genuine hardware event.
func (d *Driver) SchedulePageFlip() error {
	if d.publisher == nil {
		return engine.NewError(engine.PageFlipFailure, "output %d has no page-flip publisher", d.info.ID)
	}
	time.AfterFunc(d.vsync, d.notifyPageFlip)
	return nil
}

func (d *Driver) notifyPageFlip() {
	d.publisher.EmitPageFlip(d.info.ID)
}

// GetInfo returns the output's fixed and current attributes.
func (d *Driver) GetInfo() engine.OutputInfo { return d.info }

// SetPosition moves both the logical output area and the backing window.
func (d *Driver) SetPosition(pos geom.Position) {
	d.info.Area.Pos = pos
	if d.window != nil {
		d.window.SetPosition(int32(pos.X), int32(pos.Y))
	}
}

// TakeScreenshot reads back the current back buffer.
func (d *Driver) TakeScreenshot() (engine.Buffer, error) {
	if d.backBuf == nil {
		return engine.Buffer{}, engine.NewError(engine.RenderFailure, "output %d has no back buffer", d.info.ID)
	}
	out := make([]byte, len(d.backBuf.Pix))
	copy(out, d.backBuf.Pix)
	return engine.Buffer{
		Width:  d.backBuf.Rect.Dx(),
		Height: d.backBuf.Rect.Dy(),
		Stride: d.backBuf.Stride,
		Data:   out,
	}, nil
}

// Recreate tears down and reopens the SDL window, e.g. after the display
// server that hosts it restarts.
func (d *Driver) Recreate() (engine.OutputDriver, error) {
	d.destroy()
	return New(d.info, d.publisher, d.logger)
}

func (d *Driver) destroy() {
	if d.texture != nil {
		d.texture.Destroy()
		d.texture = nil
	}
	if d.renderer != nil {
		d.renderer.Destroy()
		d.renderer = nil
	}
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
}
