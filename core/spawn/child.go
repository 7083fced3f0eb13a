package spawn

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephlewis42/smallsh/core/vos"
	"golang.org/x/sys/unix"
)

// ChildCommand is the hidden argument that turns the shell binary into the
// child side of a spawn.
const ChildCommand = "__child"

// Exit codes of a child that never became the target program.
const (
	ExitRedirectFailed = 1
	ExitUsage          = 2
	ExitExecFailed     = 127
)

type redirection struct {
	file   *os.File
	target int
}

// redirections is the set of opened targets of a plan. Every opened file is
// closed exactly once by close, whatever happened in between.
type redirections []redirection

func openRedirections(plan Plan, stdout io.Writer) (redirections, error) {
	var out redirections

	if plan.InputPath != "" {
		fd, err := os.OpenFile(plan.InputPath, os.O_RDONLY, 0)
		if err != nil {
			fmt.Fprintf(stdout, "cannot open %s for input\n", plan.InputPath)
			return nil, err
		}
		out = append(out, redirection{file: fd, target: unix.Stdin})
	}

	if plan.OutputPath != "" {
		fd, err := os.OpenFile(plan.OutputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0777)
		if err != nil {
			fmt.Fprintf(stdout, "cannot open %s for output\n", plan.OutputPath)
			out.close()
			return nil, err
		}
		out = append(out, redirection{file: fd, target: unix.Stdout})
	}

	return out, nil
}

// apply duplicates each opened file onto its target descriptor.
func (r redirections) apply() error {
	for _, redir := range r {
		fd := int(redir.file.Fd())
		if fd == redir.target {
			continue
		}
		if err := unix.Dup2(fd, redir.target); err != nil {
			return fmt.Errorf("dup2: %w", err)
		}
	}
	return nil
}

func (r redirections) close() {
	for _, redir := range r {
		redir.file.Close()
	}
}

// configureSignals sets the dispositions the target program inherits.
// Ignored signals stay ignored across exec, caught ones revert to default.
func configureSignals(background bool) {
	signal.Ignore(syscall.SIGTSTP)
	if background {
		signal.Ignore(os.Interrupt)
	} else {
		signal.Notify(make(chan os.Signal, 1), os.Interrupt)
	}
}

// execError maps a lookup failure to the errno execvp would have reported.
func execError(err error) error {
	switch {
	case errors.Is(err, vos.ErrNotFound):
		return unix.ENOENT
	case errors.Is(err, fs.ErrPermission):
		return unix.EACCES
	default:
		return err
	}
}

// ChildMain is the entry point of the child helper. args are the arguments
// following ChildCommand. It only returns if the program could not be
// started, and the result is the process exit code.
func ChildMain(args []string) int {
	return runChild(vos.NewHostOS(), args, os.Stdout, os.Stderr)
}

func runChild(host vos.VOS, args []string, stdout, stderr io.Writer) int {
	plan, argv, err := ParsePlan(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	redirs, err := openRedirections(plan, stdout)
	if err != nil {
		return ExitRedirectFailed
	}
	err = redirs.apply()
	redirs.close()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	configureSignals(plan.Background)

	path, err := vos.LookPath(host, argv[0])
	if err == nil {
		err = unix.Exec(path, argv, host.Environ())
	}

	fmt.Fprintf(stderr, "%s: %v\n", argv[0], execError(err))
	return ExitExecFailed
}
