package core

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

const EnvHome = "HOME"

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinNames returns the sorted names of the registered builtins.
func BuiltinNames() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Exit terminates the running background jobs and quits the shell.
func Exit(s *Shell, args []string) int {
	s.terminateJobs()
	s.Quit = true
	return 0
}

// Cd is the cd shell builtin. The argument is always joined to the current
// directory, even when it is absolute.
func Cd(s *Shell, args []string) int {
	var dir string
	if len(args) < 2 {
		home, ok := s.VirtualOS.LookupEnv(EnvHome)
		if !ok {
			s.errorf("%s: HOME not set", args[0])
			return 1
		}
		dir = home
	} else {
		wd, err := s.VirtualOS.Getwd()
		if err != nil {
			s.errorf("%s: %v", args[0], err)
			return 1
		}
		dir = wd + "/" + args[1]
	}

	if err := s.VirtualOS.Chdir(dir); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			s.errorf("%s: %s: %v", args[0], pathErr.Path, pathErr.Err)
		} else {
			s.errorf("%s: %v", args[0], err)
		}
		return 1
	}
	return 0
}

// Status prints how the last foreground command finished.
func Status(s *Shell, args []string) int {
	fmt.Fprintln(s.Stdout, s.lastStatus)
	return 0
}

func init() {
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["status"] = ShellBuiltinFunc(Status)
}
