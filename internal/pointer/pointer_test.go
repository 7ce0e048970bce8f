package pointer

import (
	"testing"

	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	attached []byte
	w, h     int
}

func (f *fakeCreator) CreateSurface() surface.ID { return 99 }
func (f *fakeCreator) AttachBuffer(id surface.ID, width, height, stride int, data []byte) {
	f.w, f.h = width, height
	f.attached = data
}
func (f *fakeCreator) CommitSurface(id surface.ID) {}

type fakeOutput struct{ area geom.Area }

func (o fakeOutput) Area() geom.Area { return o.area }

func TestNewBuildsDefaultCursorBuffer(t *testing.T) {
	fc := &fakeCreator{}
	p := New(fc)

	assert.Equal(t, surface.ID(99), p.SID())
	assert.Equal(t, DefaultCursorSize, fc.w)
	assert.Equal(t, DefaultCursorSize, fc.h)
	require.Len(t, fc.attached, 4*DefaultCursorSize*DefaultCursorSize)
	assert.EqualValues(t, 200, fc.attached[0])
	assert.EqualValues(t, 100, fc.attached[3])
}

func TestMoveAndCastStaysWithinRememberedDisplay(t *testing.T) {
	p := New(&fakeCreator{})
	displays := []OutputArea{fakeOutput{geom.NewArea(geom.Position{}, geom.Size{Width: 100, Height: 100})}}

	p.MoveAndCast(geom.Vector{X: 10, Y: 10}, displays)
	assert.Equal(t, geom.Position{X: 10, Y: 10}, p.GlobalPosition())
}

func TestMoveAndCastSwitchesDisplayWhenEnteringAnother(t *testing.T) {
	p := New(&fakeCreator{})
	first := fakeOutput{geom.NewArea(geom.Position{X: 0, Y: 0}, geom.Size{Width: 100, Height: 100})}
	second := fakeOutput{geom.NewArea(geom.Position{X: 100, Y: 0}, geom.Size{Width: 100, Height: 100})}
	displays := []OutputArea{first, second}

	p.MoveAndCast(geom.Vector{X: 50, Y: 50}, displays)
	assert.Equal(t, geom.Position{X: 50, Y: 50}, p.GlobalPosition())

	p.MoveAndCast(geom.Vector{X: 70, Y: 0}, displays)
	assert.Equal(t, geom.Position{X: 120, Y: 50}, p.GlobalPosition())
}

func TestMoveAndCastClampsWhenOffEveryDisplay(t *testing.T) {
	p := New(&fakeCreator{})
	only := fakeOutput{geom.NewArea(geom.Position{}, geom.Size{Width: 100, Height: 100})}
	displays := []OutputArea{only}

	p.MoveAndCast(geom.Vector{X: 50, Y: 50}, displays)
	p.MoveAndCast(geom.Vector{X: 500, Y: 0}, displays)

	assert.Equal(t, geom.Position{X: 99, Y: 50}, p.GlobalPosition())
}

func TestUpdatePositionComputesRelativeDeltaAndResets(t *testing.T) {
	p := New(&fakeCreator{})
	displays := []OutputArea{fakeOutput{geom.NewArea(geom.Position{}, geom.Size{Width: 200, Height: 200})}}

	p.MoveAndCast(geom.Vector{X: 10, Y: 10}, displays)

	// The first absolute report only records a baseline: no displacement.
	x1, y1 := 10, 10
	p.UpdatePosition(&x1, &y1, displays)
	assert.Equal(t, geom.Position{X: 10, Y: 10}, p.GlobalPosition())

	x2, y2 := 15, 8
	p.UpdatePosition(&x2, &y2, displays)
	assert.Equal(t, geom.Position{X: 15, Y: 8}, p.GlobalPosition())

	p.ResetPosition()
	x3 := 15
	p.UpdatePosition(&x3, nil, displays)
	assert.Equal(t, geom.Position{X: 15, Y: 8}, p.GlobalPosition())
}
