package display

import (
	"testing"

	"github.com/peria-go/peria/internal/geom"
	"github.com/stretchr/testify/assert"
)

func TestRedrawFromIdleStartsFlip(t *testing.T) {
	d := New(1, 1, geom.Area{})
	assert.True(t, d.RequestRedraw())
	assert.Equal(t, AwaitingFlip, d.State())
}

func TestRedrawWhileAwaitingFlipGoesDirty(t *testing.T) {
	d := New(1, 1, geom.Area{})
	d.RequestRedraw()
	assert.False(t, d.RequestRedraw())
	assert.Equal(t, Dirty, d.State())
}

func TestRedundantRedrawWhileDirtyStaysDirty(t *testing.T) {
	d := New(1, 1, geom.Area{})
	d.RequestRedraw()
	d.RequestRedraw()
	assert.False(t, d.RequestRedraw())
	assert.Equal(t, Dirty, d.State())
}

func TestPageFlipFromAwaitingSettlesIdle(t *testing.T) {
	d := New(1, 1, geom.Area{})
	d.RequestRedraw()
	assert.False(t, d.OnPageFlip())
	assert.Equal(t, Idle, d.State())
}

func TestPageFlipFromDirtyStartsNewCycle(t *testing.T) {
	d := New(1, 1, geom.Area{})
	d.RequestRedraw()
	d.RequestRedraw() // now Dirty
	assert.True(t, d.OnPageFlip())
	assert.Equal(t, AwaitingFlip, d.State())
}

func TestAtMostOnePageFlipInFlight(t *testing.T) {
	d := New(1, 1, geom.Area{})
	d.RequestRedraw()
	for i := 0; i < 5; i++ {
		assert.False(t, d.RequestRedraw())
		assert.NotEqual(t, Idle, d.State())
	}
}
