// Package spawn starts external programs for the shell.
//
// Go cannot run code between fork and exec, so the child side is the shell's
// own binary started with ChildCommand. It applies the redirection plan and
// signal dispositions, then replaces itself with the target program. The pid
// the parent holds is therefore the target's pid.
package spawn

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"syscall"

	"github.com/josephlewis42/smallsh/core/jobs"
	"github.com/josephlewis42/smallsh/core/shell"
)

// ErrForkFailed is returned when no child process could be created.
var ErrForkFailed = errors.New("fork failed")

// Outcome describes what happened to a spawned command.
type Outcome struct {
	Pid        int
	Background bool
	// Status is only set for foreground commands.
	Status jobs.Status
}

// Spawner starts commands as child processes.
type Spawner struct {
	// Self is the binary that understands ChildCommand, os.Executable() if
	// empty.
	Self string
	// NullDevice is used for unredirected background I/O.
	NullDevice string

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	Jobs *jobs.Table
	Log  *log.Logger
}

// NewSpawner creates a Spawner attached to the process' stdio.
func NewSpawner(table *jobs.Table, logger *log.Logger) *Spawner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Spawner{
		NullDevice: DefaultNullDevice,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Jobs:       table,
		Log:        logger,
	}
}

func (s *Spawner) self() (string, error) {
	if s.Self != "" {
		return s.Self, nil
	}
	return os.Executable()
}

func (s *Spawner) notices() io.Writer {
	if s.Stdout == nil {
		return io.Discard
	}
	return s.Stdout
}

// Spawn runs cmd. Foreground commands are waited on and their status
// returned. Background commands are announced, registered with the job
// table and left running.
func (s *Spawner) Spawn(cmd shell.Command) (Outcome, error) {
	self, err := s.self()
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrForkFailed, err)
	}

	plan := PlanFor(cmd, s.NullDevice)
	child := &exec.Cmd{
		Path: self,
		Args: append([]string{self, ChildCommand}, plan.Args(cmd.Argv)...),
	}
	// Unset streams stay nil interfaces so exec connects them to the null
	// device.
	if s.Stdin != nil {
		child.Stdin = s.Stdin
	}
	if s.Stdout != nil {
		child.Stdout = s.Stdout
	}
	if s.Stderr != nil {
		child.Stderr = s.Stderr
	}

	if err := child.Start(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrForkFailed, err)
	}
	pid := child.Process.Pid
	s.Log.Printf("started %q as pid %d (background: %t)", cmd.Argv, pid, cmd.Background)

	if cmd.Background {
		fmt.Fprintf(s.notices(), "background pid is %d\n", pid)
		s.Jobs.Register(pid)
		// The job table reaps the process from here on.
		child.Process.Release()
		s.Jobs.Check(pid)
		return Outcome{Pid: pid, Background: true}, nil
	}

	err = child.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return Outcome{Pid: pid}, fmt.Errorf("wait for %d: %w", pid, err)
	}

	ws, ok := child.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return Outcome{Pid: pid, Status: jobs.Status{Code: child.ProcessState.ExitCode()}}, nil
	}
	return Outcome{Pid: pid, Status: jobs.StatusFromWait(ws)}, nil
}
