// Package drmoutput is the "Drm" OutputDriver variant: a real kernel
// mode-setting output, as opposed to internal/sdloutput's "Virtual" one.
// Device acquisition (opening /dev/dri/cardN, finding a usable CRTC and
// connector, allocating dumb buffers) is out of scope — this package
// assumes a Bundle has already been obtained by whatever udev/login1
// integration the surrounding system provides, matching
// original_source/cognitive/qualia/src/output.rs's DrmBundle, and focuses
// on the render/present/page-flip path the engine actually drives.
package drmoutput

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// Bundle carries everything needed to drive one DRM output, mirroring
// qualia's DrmBundle{path, fd, crtc_id, connector_id}.
type Bundle struct {
	Path        string
	FD          int
	CrtcID      uint32
	ConnectorID uint32
}

// DRM ioctl request number for DRM_IOCTL_MODE_PAGE_FLIP, computed the same
// way <linux/drm.h>'s DRM_IOWR(0xB0, struct drm_mode_crtc_page_flip) macro
// would: direction(3=R|W)<<30 | size<<16 | type<<8 | nr. The mode-setting
// ioctls live in the core range, below DRM_COMMAND_BASE.
const (
	drmIoctlBase          = 'd'
	drmCommandBase        = 0x40
	modePageFlipCommand   = 0xB0
	modePageFlipStructLen = 24 // 4*4 + 8 bytes, matches drm_mode_crtc_page_flip
	ioctlModePageFlip     = (3 << 30) | (modePageFlipStructLen << 16) | (drmIoctlBase << 8) | modePageFlipCommand

	pageFlipEventFlag = 0x01 // DRM_MODE_PAGE_FLIP_EVENT
)

// drmModeCrtcPageFlip mirrors struct drm_mode_crtc_page_flip.
type drmModeCrtcPageFlip struct {
	CrtcID   uint32
	FbID     uint32
	Flags    uint32
	Reserved uint32
	UserData uint64
}

// Driver is the engine's OutputDriver for a real DRM output. dumbFB is nil
// until a caller (device-manager code outside this module's scope) has
// mmap'd a dumb buffer and handed it in via SetFramebuffer; Draw and
// TakeScreenshot report RenderFailure, and SchedulePageFlip reports
// PageFlipFailure, until then (SwapBuffers always succeeds), which is the
// documented degrade path for "device not yet ready" rather than a panic.
type Driver struct {
	bundle Bundle
	info   engine.OutputInfo
	dumbFB []byte
	fbID   uint32
	seq    uint32
	logger *log.Logger
}

// New constructs a Driver for bundle, describing itself with info.
func New(bundle Bundle, info engine.OutputInfo, logger *log.Logger) *Driver {
	return &Driver{bundle: bundle, info: info, logger: logger}
}

// SetFramebuffer installs the mmap'd dumb-buffer backing store and its
// DRM framebuffer id, both obtained via the device-manager's
// DRM_IOCTL_MODE_CREATE_DUMB/DRM_IOCTL_MODE_ADDFB calls (out of scope
// here). Until this is called the driver reports RenderFailure on Draw.
func (d *Driver) SetFramebuffer(mem []byte, fbID uint32) {
	d.dumbFB = mem
	d.fbID = fbID
}

// Draw composites the given paint lists into the mapped dumb buffer. The
// actual per-pixel blit is intentionally trivial (memset-to-dark-gray 0x20) —
// real compositing needs the surface store's pixel data, which belongs to
// internal/sdloutput's software path or a GPU-backed renderer, neither of
// which this minimal stub attempts.
func (d *Driver) Draw(layunder, surfaces, layover []surface.Context) error {
	if d.dumbFB == nil {
		return engine.NewError(engine.RenderFailure, "no dumb framebuffer mapped for crtc %d", d.bundle.CrtcID)
	}
	for i := range d.dumbFB {
		d.dumbFB[i] = 0x20
	}
	return nil
}

// SwapBuffers has nothing to swap (the dumb buffer is drawn into directly)
// but still hands back a monotonically increasing sequence number, as the
// OutputDriver contract requires.
func (d *Driver) SwapBuffers() (uint32, error) {
	d.seq++
	return d.seq, nil
}

// SchedulePageFlip arms DRM_IOCTL_MODE_PAGE_FLIP with DRM_MODE_PAGE_FLIP_EVENT
// set, so the kernel later delivers a page-flip-complete event on the
// device fd (decoded by internal/pageflip.Handler) carrying UserData back —
// the engine uses the output id as user_data so the handler can route the
// notification to the right Display.
func (d *Driver) SchedulePageFlip() error {
	if d.dumbFB == nil {
		return engine.NewError(engine.PageFlipFailure, "crtc %d has no framebuffer to flip to", d.bundle.CrtcID)
	}
	req := drmModeCrtcPageFlip{
		CrtcID:   d.bundle.CrtcID,
		FbID:     d.fbID,
		Flags:    pageFlipEventFlag,
		UserData: uint64(d.info.ID),
	}
	if err := ioctl(d.bundle.FD, ioctlModePageFlip, unsafe.Pointer(&req)); err != nil {
		return engine.NewError(engine.PageFlipFailure, "DRM_IOCTL_MODE_PAGE_FLIP on crtc %d: %v", d.bundle.CrtcID, err)
	}
	return nil
}

func ioctl(fd int, request uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), request, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// GetInfo returns the output's fixed and current attributes.
func (d *Driver) GetInfo() engine.OutputInfo { return d.info }

// SetPosition repositions the output on the global coordinate plane (a
// pure bookkeeping update; DRM itself has no notion of a global desktop
// layout, that is entirely the engine's construction).
func (d *Driver) SetPosition(pos geom.Position) {
	d.info.Area.Pos = pos
}

// TakeScreenshot reads back the mapped dumb buffer's current contents.
func (d *Driver) TakeScreenshot() (engine.Buffer, error) {
	if d.dumbFB == nil {
		return engine.Buffer{}, engine.NewError(engine.RenderFailure, "no framebuffer mapped for crtc %d", d.bundle.CrtcID)
	}
	stride := d.info.Area.Size.Width * 4
	out := make([]byte, len(d.dumbFB))
	copy(out, d.dumbFB)
	return engine.Buffer{Width: d.info.Area.Size.Width, Height: d.info.Area.Size.Height, Stride: stride, Data: out}, nil
}

// Recreate rebuilds the driver after a VT switch regains device access.
// Mode objects (crtc/connector ids) survive a VT switch; only the
// mmap'd dumb buffer needs to be remapped, which is again outside this
// package's scope, so Recreate hands back a driver with no framebuffer and
// relies on the caller to SetFramebuffer again.
func (d *Driver) Recreate() (engine.OutputDriver, error) {
	if d.bundle.FD < 0 {
		return nil, engine.NewError(engine.OutputLost, "crtc %d: no device fd to recreate from", d.bundle.CrtcID)
	}
	return New(d.bundle, d.info, d.logger), nil
}

func (d *Driver) String() string {
	return fmt.Sprintf("drmoutput(crtc=%d connector=%d)", d.bundle.CrtcID, d.bundle.ConnectorID)
}
