// Package pageflip decodes the kernel mode-setting device's vblank and
// page-flip-complete events and turns them into engine queue messages.
// Grounded on
// original_source/cognitive/device_manager/src/pageflip.rs's
// PageFlipEventHandler/PageFlipContext split (get_fd/process_event,
// vblank_handler/page_flip_handler).
package pageflip

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/engine"
)

// DRM event type tags, from <drm/drm.h>'s drm_event.type.
const (
	eventVblank       = 0x01
	eventFlipComplete = 0x02
)

type eventHeader struct {
	Type   uint32
	Length uint32
}

// drmEventVblank mirrors struct drm_event_vblank: a generic header
// followed by the timestamp/sequence/crtc fields the kernel fills in, with
// user_data carrying back whatever opaque value schedule_pageflip armed
// the request with (the engine uses the output id).
type drmEventVblank struct {
	Header   eventHeader
	UserData uint64
	TVSec    uint32
	TVUsec   uint32
	Sequence uint32
	CrtcID   uint32
}

// StatePublisher is the narrow facade page-flip/vblank events are turned
// into engine messages through.
type StatePublisher interface {
	EmitVblank(outputID int)
	EmitPageFlip(outputID int)
}

// QueuePublisher adapts an engine.Queue to StatePublisher.
type QueuePublisher struct{ Queue *engine.Queue }

func (q QueuePublisher) EmitVblank(outputID int) {
	q.Queue.Send(engine.VblankNotifyMsg{OutputID: outputID})
}

func (q QueuePublisher) EmitPageFlip(outputID int) {
	q.Queue.Send(engine.PageFlipNotifyMsg{OutputID: outputID})
}

// Handler is the companion to the DRM device fd: cmd/peria's pollDRM
// goroutine polls the fd and has it read and decode events once the fd
// becomes readable.
type Handler struct {
	fd        int
	publisher StatePublisher
	logger    *log.Logger
}

// NewHandler constructs a Handler for a DRM device file descriptor.
func NewHandler(fd int, publisher StatePublisher, logger *log.Logger) *Handler {
	return &Handler{fd: fd, publisher: publisher, logger: logger}
}

// FD returns the DRM device file descriptor.
func (h *Handler) FD() int { return h.fd }

// ProcessEvent reads and dispatches pending DRM events. hangup is ignored —
// DRM devices do not hang up across a VT switch; by the time access is
// regained they are simply ready to use again (pageflip.rs's own
// observation).
func (h *Handler) ProcessEvent(readable, hangup bool) {
	if !readable {
		return
	}
	buf := make([]byte, 4096)
	n, err := unix.Read(h.fd, buf)
	if err != nil {
		h.logger.Warn("failed to read drm event", "err", err)
		return
	}
	h.decode(buf[:n])
}

// decode walks a buffer of back-to-back drm_event records (the kernel may
// coalesce several into one read) and dispatches each by type.
func (h *Handler) decode(data []byte) {
	for len(data) >= 8 {
		var hdr eventHeader
		if err := binary.Read(bytes.NewReader(data[:8]), binary.LittleEndian, &hdr); err != nil {
			return
		}
		if hdr.Length < 8 || int(hdr.Length) > len(data) {
			return
		}
		body := data[:hdr.Length]
		switch hdr.Type {
		case eventVblank:
			if ev, ok := decodeVblank(body); ok {
				h.publisher.EmitVblank(int(ev.UserData))
			}
		case eventFlipComplete:
			if ev, ok := decodeVblank(body); ok {
				h.publisher.EmitPageFlip(int(ev.UserData))
			}
		}
		data = data[hdr.Length:]
	}
}

func decodeVblank(body []byte) (drmEventVblank, bool) {
	var ev drmEventVblank
	if err := binary.Read(bytes.NewReader(body), binary.LittleEndian, &ev); err != nil {
		return drmEventVblank{}, false
	}
	return ev, true
}
