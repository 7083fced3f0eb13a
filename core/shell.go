package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/josephlewis42/smallsh/core/jobs"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/shell"
	"github.com/josephlewis42/smallsh/core/spawn"
	"github.com/josephlewis42/smallsh/core/vos"
	"golang.org/x/sys/unix"
)

const DefaultPrompt = ": "

// Spawner starts external commands.
type Spawner interface {
	Spawn(cmd shell.Command) (spawn.Outcome, error)
}

// ModeReader reports whether '&' is currently ignored.
type ModeReader interface {
	ForegroundOnly() bool
}

type normalMode struct{}

func (normalMode) ForegroundOnly() bool { return false }

type Shell struct {
	VirtualOS vos.VOS
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer

	Jobs    *jobs.Table
	Spawner Spawner
	Mode    ModeReader
	Events  *logger.SessionLogger
	Log     *log.Logger

	Prompt          string
	QuoteAware      bool
	TerminateSignal syscall.Signal
	ErrColor        *color.Color

	in         *bufio.Reader
	lastStatus jobs.Status

	// Set to true to quit the shell
	Quit bool
}

func (s *Shell) init() {
	if s.in == nil {
		s.in = bufio.NewReader(s.Stdin)
	}
	if s.Mode == nil {
		s.Mode = normalMode{}
	}
	if s.Events == nil {
		s.Events = logger.NewNopLogger().Sessionless()
	}
	if s.Log == nil {
		s.Log = log.New(io.Discard, "", 0)
	}
	if s.Prompt == "" {
		s.Prompt = DefaultPrompt
	}
	if s.TerminateSignal == 0 {
		s.TerminateSignal = syscall.SIGTERM
	}
	if s.ErrColor == nil {
		s.ErrColor = color.New(color.FgRed)
	}
}

// LastStatus is the outcome of the most recent foreground command.
func (s *Shell) LastStatus() jobs.Status {
	return s.lastStatus
}

// Run reads and executes lines until exit or the end of input. The only
// errors returned are fatal to the shell.
func (s *Shell) Run() error {
	s.init()

	for !s.Quit {
		s.reportJobs()
		fmt.Fprint(s.Stdout, s.Prompt)

		line, err := s.in.ReadString('\n')
		switch {
		case err == io.EOF && line == "":
			// Input closed, behave like exit.
			s.Log.Printf("end of input")
			Exit(s, []string{"exit"})
			return nil
		case err != nil && err != io.EOF:
			return fmt.Errorf("read input: %w", err)
		}

		if err := s.RunLine(strings.TrimSuffix(line, "\n")); err != nil {
			return err
		}
	}
	return nil
}

// RunLine expands, parses and executes a single line of input.
func (s *Shell) RunLine(line string) error {
	s.init()

	cmd, ok, err := shell.ParseLine(line, s.VirtualOS.Getpid(), s.QuoteAware)
	var syntaxErr *shell.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		s.errorf("smallsh: %v", err)
		s.record(&logger.SyntaxError{Line: line, Error: syntaxErr.Err.Error()})
		return nil
	case err != nil:
		return err
	case !ok:
		return nil
	}

	return s.Execute(cmd)
}

// Execute runs a parsed command as a builtin or an external program.
func (s *Shell) Execute(cmd shell.Command) error {
	s.init()

	forced := false
	if cmd.Background && s.Mode.ForegroundOnly() {
		cmd.Background = false
		forced = true
	}

	if builtin, ok := AllBuiltins[cmd.Name()]; ok {
		ret := builtin.Main(s, cmd.Argv)
		s.record(&logger.Builtin{Command: cmd.Argv, Status: ret})
		return nil
	}

	s.record(&logger.RunCommand{
		Command:          cmd.Argv,
		InputPath:        cmd.InputPath,
		OutputPath:       cmd.OutputPath,
		Background:       cmd.Background,
		ForcedForeground: forced,
	})

	outcome, err := s.Spawner.Spawn(cmd)
	if err != nil {
		return err
	}

	if outcome.Background {
		s.record(&logger.BackgroundStart{Command: cmd.Argv, Pid: outcome.Pid})
		return nil
	}

	s.lastStatus = outcome.Status
	if outcome.Status.Signaled() {
		fmt.Fprintln(s.Stdout, outcome.Status)
	}
	s.record(&logger.ForegroundDone{Command: cmd.Argv, Pid: outcome.Pid, Status: outcome.Status})
	return nil
}

func (s *Shell) reportJobs() {
	s.Jobs.Poll(func(j jobs.Job) {
		fmt.Fprintln(s.Stdout, j.DoneMessage())
		s.record(&logger.BackgroundDone{Pid: j.Pid, Status: j.Status})
	})
}

// terminateJobs signals every running job without waiting on them.
func (s *Shell) terminateJobs() {
	var pids []int
	for _, job := range s.Jobs.Jobs() {
		if job.State == jobs.Running {
			pids = append(pids, job.Pid)
		}
	}
	if len(pids) == 0 {
		return
	}

	s.record(&logger.TerminateJobs{Pids: pids, Signal: unix.SignalName(s.TerminateSignal)})
	if err := s.Jobs.TerminateAll(s.TerminateSignal); err != nil {
		s.Log.Printf("terminating jobs: %v", err)
	}
}

func (s *Shell) errorf(format string, args ...interface{}) {
	s.ErrColor.Fprintf(s.Stderr, format+"\n", args...)
}

func (s *Shell) record(event logger.LogType) {
	if err := s.Events.Record(event); err != nil {
		s.Log.Printf("recording event: %v", err)
	}
}
