package spawn

import (
	"errors"
	"fmt"

	"github.com/josephlewis42/smallsh/core/shell"
	"github.com/pborman/getopt/v2"
)

// DefaultNullDevice receives background I/O that was not redirected.
const DefaultNullDevice = "/dev/null"

// Plan is the redirection and signal setup a child applies before it
// becomes the target program. Empty paths mean the descriptor is inherited.
type Plan struct {
	InputPath  string
	OutputPath string
	Background bool
}

// PlanFor resolves the redirections of cmd. Background commands read from
// and write to nullDevice unless told otherwise.
func PlanFor(cmd shell.Command, nullDevice string) Plan {
	if nullDevice == "" {
		nullDevice = DefaultNullDevice
	}

	plan := Plan{
		InputPath:  cmd.InputPath,
		OutputPath: cmd.OutputPath,
		Background: cmd.Background,
	}

	if plan.Background {
		if plan.InputPath == "" {
			plan.InputPath = nullDevice
		}
		if plan.OutputPath == "" {
			plan.OutputPath = nullDevice
		}
	}

	return plan
}

// Args encodes the plan and argv as child helper arguments.
func (p Plan) Args(argv []string) []string {
	var out []string
	if p.Background {
		out = append(out, "-b")
	}
	if p.InputPath != "" {
		out = append(out, "-i", p.InputPath)
	}
	if p.OutputPath != "" {
		out = append(out, "-o", p.OutputPath)
	}
	out = append(out, "--")
	return append(out, argv...)
}

var errNoProgram = errors.New("no program given")

// ParsePlan decodes arguments produced by Plan.Args.
func ParsePlan(args []string) (Plan, []string, error) {
	opts := getopt.New()
	opts.SetProgram(ChildCommand)
	opts.SetParameters("-- program [arg...]")
	background := opts.Bool('b', "ignore SIGINT")
	input := opts.String('i', "", "redirect stdin from PATH", "PATH")
	output := opts.String('o', "", "redirect stdout to PATH", "PATH")

	if err := opts.Getopt(append([]string{ChildCommand}, args...), nil); err != nil {
		return Plan{}, nil, fmt.Errorf("%s: %w", ChildCommand, err)
	}
	if opts.NArgs() == 0 {
		return Plan{}, nil, fmt.Errorf("%s: %w", ChildCommand, errNoProgram)
	}

	plan := Plan{
		InputPath:  *input,
		OutputPath: *output,
		Background: *background,
	}
	return plan, opts.Args(), nil
}
