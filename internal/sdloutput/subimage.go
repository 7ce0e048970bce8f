package sdloutput

import (
	"image"
	"image/color"
	"image/draw"
)

// surfaceView is a draw.Image restricted to one surface context's
// rectangle within the back buffer, adapted from the teacher's own
// SubImage (subimage.go), which menu.go used to redraw a single menu
// item's row without touching the rest of the window. Here the same
// offset-view trick restricts compositeFrame's fill to exactly one
// surface's rectangle, rather than leaning on draw.Draw's implicit
// clipping to express the same thing less explicitly.
type surfaceView struct {
	src  draw.Image
	rect image.Rectangle
}

// newSurfaceView clips rect to src's bounds and returns nil if nothing
// of it remains visible.
func newSurfaceView(src draw.Image, rect image.Rectangle) *surfaceView {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil
	}
	return &surfaceView{src: src, rect: rect}
}

func (v *surfaceView) At(x, y int) color.Color {
	if x < 0 || x >= v.rect.Dx() || y < 0 || y >= v.rect.Dy() {
		return nil
	}
	return v.src.At(v.rect.Min.X+x, v.rect.Min.Y+y)
}

func (v *surfaceView) Set(x, y int, c color.Color) {
	if x < 0 || x >= v.rect.Dx() || y < 0 || y >= v.rect.Dy() {
		return
	}
	v.src.Set(v.rect.Min.X+x, v.rect.Min.Y+y, c)
}

func (v *surfaceView) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.rect.Dx(), v.rect.Dy())
}

func (v *surfaceView) ColorModel() color.Model {
	return v.src.ColorModel()
}
