package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"golang.org/x/sys/unix"

	"github.com/charmbracelet/log"

	"github.com/peria-go/peria/internal/aesthetics"
	"github.com/peria-go/peria/internal/compositor"
	"github.com/peria-go/peria/internal/config"
	"github.com/peria-go/peria/internal/drmoutput"
	"github.com/peria-go/peria/internal/engine"
	"github.com/peria-go/peria/internal/exhibitor"
	"github.com/peria-go/peria/internal/frame"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/pageflip"
	"github.com/peria-go/peria/internal/runtime"
	"github.com/peria-go/peria/internal/sdloutput"
	"github.com/peria-go/peria/internal/strategist"
	"github.com/peria-go/peria/internal/waylandgw"
)

const virtualOutputID = 1

func newServeCmd() *cobra.Command {
	var configPath, wlDisplay, drmDevice, labelFontPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "connect to Wayland and run the compositor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath, wlDisplay, drmDevice, labelFontPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML configuration file")
	cmd.Flags().StringVar(&wlDisplay, "wl-display", "", "Wayland socket to connect to (default: WAYLAND_DISPLAY)")
	cmd.Flags().StringVar(&drmDevice, "drm-device", "", "in addition to the virtual output, also drive this DRM device node (e.g. /dev/dri/card0)")
	cmd.Flags().StringVar(&labelFontPath, "label-font", "", "outline font used to label the background with the output name")
	return cmd
}

// serve wires every collaborator together and runs the dispatch loop
// until a signal or a TerminateMsg asks it to stop. The wiring order
// follows spec.md §5's thread boundaries: the external surface store and
// Wayland gateway first (they are what the compositor and aesthetics
// packages depend on), then the compositor itself, then the exhibitor
// that ties them to the queue the rest of this function feeds.
func serve(configPath, wlDisplay, drmDevice, labelFontPath string) error {
	logger := log.New(os.Stderr)
	defer runtime.PanicHook(logger)
	frame.SetDebugPanics(false)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	globals, err := waylandgw.Connect(wlDisplay, logger)
	if err != nil {
		return fmt.Errorf("connecting to wayland: %w", err)
	}
	store := waylandgw.NewStore(waylandgw.NewRealBackend(globals), logger)
	gateway, err := waylandgw.NewGateway(globals, store, logger)
	if err != nil {
		return fmt.Errorf("binding seat objects: %w", err)
	}

	strat := strategist.NewFromConfig(cfg.ChooseTargetName, cfg.ChooseFloatingName)
	comp := compositor.New(store, strat, cfg.MoveStep, cfg.ResizeStep, logger)
	background := aesthetics.NewBackground(store, cfg.BackgroundPath, labelFontPath, logger)
	mediator := engine.NewMediator()
	ex := exhibitor.New(comp, store, gateway, mediator, background, logger)

	queue := engine.NewQueue(64)
	publisher := pageflip.QueuePublisher{Queue: queue}
	drivers := make(map[int]engine.OutputDriver)

	virtualInfo := engine.OutputInfo{
		ID:            virtualOutputID,
		Area:          geom.NewArea(geom.Position{}, geom.Size{Width: 1280, Height: 800}),
		RefreshRateHz: 60,
		Model:         "virtual-0",
	}
	virtualDriver, err := sdloutput.New(virtualInfo, publisher, logger)
	if err != nil {
		return fmt.Errorf("creating virtual output: %w", err)
	}
	drivers[virtualOutputID] = virtualDriver
	queue.Send(engine.OutputFoundMsg{OutputID: virtualOutputID, Info: virtualInfo})

	if drmDevice != "" {
		handler, openErr := openDRMOutput(drmDevice, virtualInfo.Area.Size.Width, logger, queue, drivers)
		if openErr != nil {
			return openErr
		}
		go pollDRM(handler, logger)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	runLoop(queue, sigCh, ex, drivers, logger)
	return nil
}

// openDRMOutput opens device, registers a second driver alongside the
// virtual one, and returns a pageflip.Handler ready for pollDRM. CRTC and
// connector selection plus dumb-buffer allocation belong to the
// out-of-scope device-manager integration internal/drmoutput's package
// doc describes, so the bundle here carries zeroed mode ids and the
// driver reports RenderFailure until something calls SetFramebuffer.
func openDRMOutput(device string, virtualWidth int, logger *log.Logger, queue *engine.Queue, drivers map[int]engine.OutputDriver) (*pageflip.Handler, error) {
	fd, err := unix.Open(device, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening drm device %q: %w", device, err)
	}
	const outputID = virtualOutputID + 1
	info := engine.OutputInfo{
		ID:            outputID,
		Area:          geom.NewArea(geom.Position{X: virtualWidth}, geom.Size{Width: 1920, Height: 1080}),
		RefreshRateHz: 60,
		Model:         device,
	}
	bundle := drmoutput.Bundle{Path: device, FD: fd}
	drivers[outputID] = drmoutput.New(bundle, info, logger)
	queue.Send(engine.OutputFoundMsg{OutputID: outputID, Info: info})
	return pageflip.NewHandler(fd, pageflip.QueuePublisher{Queue: queue}, logger), nil
}

// pollDRM feeds handler with every readable event on its device fd, the
// same poll-then-dispatch shape as the teacher's sibling example
// gioui-gio's os_wayland.go window.loop (wl_display fd polled with
// syscall.Ppoll, dispatched once readable) — here with
// golang.org/x/sys/unix's equivalent calls, against a DRM device fd
// instead of a Wayland display fd.
func pollDRM(handler *pageflip.Handler, logger *log.Logger) {
	defer runtime.PanicHook(logger)
	fds := []unix.PollFd{{Fd: int32(handler.FD()), Events: unix.POLLIN}}
	for {
		_, err := unix.Poll(fds, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			logger.Warn("drm device poll failed", "err", err)
			return
		}
		revents := fds[0].Revents
		if revents == 0 {
			continue
		}
		handler.ProcessEvent(revents&unix.POLLIN != 0, revents&(unix.POLLHUP|unix.POLLERR) != 0)
	}
}
