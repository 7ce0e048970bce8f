// Package history tracks the most-recently-used ordering of surfaces
// independent of the frame tree's own temporal ordering: it survives a
// surface being unmapped and is what the compositor falls back to (when
// the selected surface is destroyed, and for PopHistory) when it needs
// "the next most sensible thing to select".
package history

import "github.com/peria-go/peria/internal/surface"

const (
	averageSurfaces     = 10
	peekToAverageRatio  = 3
	optimalToAverageRatio = 2
)

// History is a resizable most-recently-used list of surface ids, newest
// first. Grounded on surface_history.rs's VecDeque-backed SurfaceHistory;
// reproduced with a plain slice since the original sizes (single digits of
// visible surfaces) make push-to-front's O(n) shift immaterial.
type History struct {
	entries []surface.ID
}

// New returns an empty History pre-sized for the common case.
func New() *History {
	return &History{entries: make([]surface.ID, 0, averageSurfaces)}
}

// Add inserts sid as the newest entry.
func (h *History) Add(sid surface.ID) {
	h.entries = append(h.entries, surface.Invalid)
	copy(h.entries[1:], h.entries)
	h.entries[0] = sid
}

// GetNth returns the nth entry from the front (0 = newest). A negative n
// counts from the back (-1 = oldest). Returns (0, false) out of range.
func (h *History) GetNth(n int) (surface.ID, bool) {
	idx := n
	if n < 0 {
		idx = len(h.entries) + n
	}
	if idx < 0 || idx >= len(h.entries) {
		return surface.Invalid, false
	}
	return h.entries[idx], true
}

// Pop makes sid the newest entry, removing any earlier occurrence first.
func (h *History) Pop(sid surface.ID) {
	h.simpleRemove(sid)
	h.Add(sid)
}

// Remove deletes sid from the history, shrinking the backing array's
// capacity if it has grown disproportionately large relative to length:
// only once there are more than averageSurfaces entries, and only once the
// current capacity exceeds peekToAverageRatio*len. The backing array is
// then reallocated to optimalToAverageRatio*len.
func (h *History) Remove(sid surface.ID) {
	h.simpleRemove(sid)

	length := len(h.entries)
	capacity := cap(h.entries)
	if length > averageSurfaces && peekToAverageRatio*length < capacity {
		grown := make([]surface.ID, length, optimalToAverageRatio*length)
		copy(grown, h.entries)
		h.entries = grown
	}
}

func (h *History) simpleRemove(sid surface.ID) {
	for i, v := range h.entries {
		if v == sid {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Len reports the number of tracked surfaces.
func (h *History) Len() int { return len(h.entries) }

// All iterates entries from newest to oldest.
func (h *History) All() func(yield func(surface.ID) bool) {
	return func(yield func(surface.ID) bool) {
		for _, sid := range h.entries {
			if !yield(sid) {
				return
			}
		}
	}
}
