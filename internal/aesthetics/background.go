// Package aesthetics manages the two surfaces the engine itself draws
// rather than any client: the pointer's default cursor image (see
// Cursor) and an optional background image, scaled to each output and
// optionally labelled with a title rendered through an outline font.
// Grounded on original_source/src/aesthetics/{aesthetics,background,cursor}.rs.
package aesthetics

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/KononK/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// Background builds and (re)installs the background surface for newly
// created displays. A zero-value backgroundPath leaves the output with no
// background at all — the original's own "if let Some(path)" guard.
type Background struct {
	coordinator     engine.Coordinator
	backgroundPath  string
	labelFace       font.Face
	backgroundSID   surface.ID
	logger          *log.Logger
}

// NewBackground constructs a Background. labelFontPath may be empty, in
// which case OnDisplayCreated never draws a label over the image — a
// missing font is not an error, just a degraded feature (matching the
// spirit of background.rs logging and moving on rather than aborting).
func NewBackground(coordinator engine.Coordinator, backgroundPath, labelFontPath string, logger *log.Logger) *Background {
	b := &Background{coordinator: coordinator, backgroundPath: backgroundPath, logger: logger}
	if labelFontPath != "" {
		if face, err := parseFont(labelFontPath); err != nil {
			logger.Warn("failed to load label font, labels disabled", "path", labelFontPath, "err", err)
		} else {
			b.labelFace = face
		}
	}
	return b
}

func parseFont(path string) (font.Face, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fnt, err := opentype.Parse(content)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{Size: 14, DPI: 96})
}

// OnSurfaceChange records a client's override of the background surface
// (e.g. a desktop-shell panel taking over background duties).
func (b *Background) OnSurfaceChange(sid surface.ID) {
	b.backgroundSID = sid
}

// OnDisplayCreated installs the configured background image, scaled to
// size and optionally labelled with title, once — if a surface is already
// set (either by a previous display or by OnSurfaceChange) it is left
// alone, matching background.rs's "only set once" guard.
func (b *Background) OnDisplayCreated(size geom.Size, title string) {
	if b.backgroundSID.IsValid() || b.backgroundPath == "" {
		return
	}
	img, err := b.loadAndScale(size)
	if err != nil {
		b.logger.Warn("failed to open background file", "path", b.backgroundPath, "err", err)
		return
	}
	if b.labelFace != nil && title != "" {
		drawLabel(img, b.labelFace, title)
	}

	rgba := toRGBA(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	stride := w * 4

	sid := b.coordinator.CreateSurface()
	pool := b.coordinator.CreatePoolFromBuffer(engine.Buffer{Width: w, Height: h, Stride: stride, Data: rgba.Pix})
	mvid := b.coordinator.CreateMemoryView(pool, "abgr8888", 0, w, h, stride)
	b.coordinator.Attach(mvid, sid)
	b.coordinator.Commit(sid)
	b.coordinator.SetAsBackground(sid)
	b.backgroundSID = sid
}

func (b *Background) loadAndScale(size geom.Size) (image.Image, error) {
	f, err := os.Open(b.backgroundPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	// TODO: only top-left anchored stretch-to-fill is supported; centred
	// or tiled placement would need the caller's aspect-ratio policy too.
	return resize.Resize(uint(size.Width), uint(size.Height), src, resize.Bilinear), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, img.Bounds(), img, image.Point{}, draw.Src)
	return rgba
}

// drawLabel renders title near the bottom-left corner of img using face,
// following ctxmenu.go's glyph-walk-and-advance text layout.
func drawLabel(img *image.RGBA, face font.Face, title string) {
	bounds := img.Bounds()
	var dot fixed.Point26_6
	dot.X = fixed.I(bounds.Min.X + 16)
	dot.Y = fixed.I(bounds.Max.Y-16) - face.Metrics().Descent

	var prev rune
	hasPrev := false
	for _, chr := range title {
		if hasPrev {
			dot.X += face.Kern(prev, chr)
		}
		dr, mask, maskp, advance, ok := face.Glyph(dot, chr)
		if ok {
			draw.DrawMask(img, dr, image.White, image.Point{}, mask, maskp, draw.Over)
		}
		dot.X += advance
		prev, hasPrev = chr, true
	}
}
