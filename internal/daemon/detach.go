package daemon

import (
	"fmt"
	"os"

	godaemon "github.com/sevlyar/go-daemon"

	"github.com/1broseidon/ghostdock/internal/runtimepath"
)

// ChildEnvVar marks a detached ghost process.
const ChildEnvVar = "GHOSTDOCK_DAEMON_CHILD"

// Detacher forks the ghost into the background with a pid file and a log
// file in the runtime directory.
type Detacher struct {
	ctx *godaemon.Context
}

// NewDetacher prepares a detacher that re-executes args in the child.
func NewDetacher(args []string) (*Detacher, error) {
	pidFile, err := runtimepath.PIDFilePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pid file: %w", err)
	}
	logFile, err := runtimepath.LogFilePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log file: %w", err)
	}
	return &Detacher{ctx: newContext(args, pidFile, logFile)}, nil
}

func newContext(args []string, pidFile, logFile string) *godaemon.Context {
	return &godaemon.Context{
		PidFileName: pidFile,
		PidFilePerm: 0o644,
		LogFileName: logFile,
		LogFilePerm: 0o640,
		WorkDir:     "/",
		Umask:       0o27,
		Args:        args,
		Env:         append(os.Environ(), ChildEnvVar+"=1"),
	}
}

// PIDFile returns the pid file path.
func (d *Detacher) PIDFile() string {
	return d.ctx.PidFileName
}

// LogFile returns the log file path.
func (d *Detacher) LogFile() string {
	return d.ctx.LogFileName
}

// Running returns the process recorded in the pid file, if it is alive.
func (d *Detacher) Running() (*os.Process, bool) {
	proc, err := d.ctx.Search()
	if err != nil || proc == nil {
		return nil, false
	}
	return proc, true
}

// Detach forks the child. In the parent it returns the child process; in
// the child it returns nil.
func (d *Detacher) Detach() (*os.Process, error) {
	child, err := d.ctx.Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to daemonize: %w", err)
	}
	return child, nil
}

// Release removes the pid file. Call it from the child on exit.
func (d *Detacher) Release() error {
	return d.ctx.Release()
}

// IsChild returns true if this is the detached child process
func IsChild() bool {
	return os.Getenv(ChildEnvVar) == "1"
}
