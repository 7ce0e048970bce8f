// Package runtime provides the handful of process-level utilities the
// engine's surrounding binary needs but the engine itself has no business
// knowing about: a clean self-termination, a panic hook that logs before
// the process dies, and a thin process-spawn helper for launching
// autostart commands from configuration.
package runtime

import (
	"os"
	"os/exec"
	"runtime/debug"
	"syscall"

	"github.com/charmbracelet/log"
)

// terminate is the actual process-ending step Quit performs. It is a
// variable so tests can exercise PanicHook's recover/log path without
// signalling the test binary itself.
var terminate = func() { _ = syscall.Kill(os.Getpid(), syscall.SIGTERM) }

// Quit shuts the application down by sending SIGTERM to itself, so that
// whatever top-level signal handling the process already has in place
// (cmd/peria's run loop) drives the actual teardown.
func Quit(logger *log.Logger) {
	logger.Info("quit requested")
	terminate()
}

// PanicHook recovers a panic on the calling goroutine, logs its message
// and a stack trace, and then quits the application. Call it deferred at
// the top of any goroutine the engine spawns (the exhibitor thread, a
// driver's render goroutine, ...) so a programmer error in one subsystem
// doesn't take the whole process down silently.
func PanicHook(logger *log.Logger) {
	r := recover()
	if r == nil {
		return
	}
	logger.Error("goroutine panicked", "message", r)
	logger.Error(string(debug.Stack()))
	Quit(logger)
}

// SpawnProcess launches command as a detached child process (e.g. an
// autostart entry from configuration). A failure to spawn is logged and
// otherwise ignored — the engine has no use for the child's lifecycle.
func SpawnProcess(logger *log.Logger, command []string) {
	if len(command) == 0 {
		return
	}
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if err := cmd.Start(); err != nil {
		logger.Error("failed to spawn process", "command", command, "err", err)
		return
	}
	logger.Info("spawned process", "command", command[0])
}
