package shell

import (
	"errors"
	"fmt"
)

const (
	OpInput      = "<"
	OpOutput     = ">"
	OpBackground = "&"
)

var (
	// ErrEmptyCommand is returned when there are no tokens to parse.
	ErrEmptyCommand = errors.New("empty command")
	// ErrMissingRedirectTarget is returned when '<' or '>' ends the line.
	ErrMissingRedirectTarget = errors.New("missing redirection target")
	// ErrUnexpectedToken is returned for words after a redirection or after
	// the background marker.
	ErrUnexpectedToken = errors.New("unexpected token")
)

// SyntaxError describes a line that could not be parsed.
type SyntaxError struct {
	// Token is the offending word, if any.
	Token string
	Err   error
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("syntax error: %v", e.Err)
	}
	return fmt.Sprintf("syntax error near %q: %v", e.Token, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Command is a single parsed invocation.
type Command struct {
	// Argv holds the program name followed by its arguments.
	Argv []string
	// InputPath is the file to read stdin from, empty if not redirected.
	InputPath string
	// OutputPath is the file to write stdout to, empty if not redirected.
	OutputPath string
	// Background is set when the line ended with '&'.
	Background bool
}

// Name returns the program name.
func (c *Command) Name() string {
	return c.Argv[0]
}

// Args returns the arguments after the program name.
func (c *Command) Args() []string {
	return c.Argv[1:]
}

func isOperator(tok string) bool {
	return tok == OpInput || tok == OpOutput || tok == OpBackground
}

// Parse builds a Command from the words of a line.
//
// The grammar is:
//
//	program [arg...] [< path | > path]... [&]
//
// When a redirection is repeated the last one wins. '&' is only meaningful
// as the final word.
func Parse(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return Command{}, &SyntaxError{Err: ErrEmptyCommand}
	}

	cmd := Command{Argv: []string{tokens[0]}}
	i := 1
	for ; i < len(tokens) && !isOperator(tokens[i]); i++ {
		cmd.Argv = append(cmd.Argv, tokens[i])
	}

	for i < len(tokens) && (tokens[i] == OpInput || tokens[i] == OpOutput) {
		op := tokens[i]
		if i+1 >= len(tokens) {
			return Command{}, &SyntaxError{Token: op, Err: ErrMissingRedirectTarget}
		}

		switch op {
		case OpInput:
			cmd.InputPath = tokens[i+1]
		case OpOutput:
			cmd.OutputPath = tokens[i+1]
		}
		i += 2
	}

	switch remaining := tokens[i:]; {
	case len(remaining) == 0:
	case len(remaining) == 1 && remaining[0] == OpBackground:
		cmd.Background = true
	default:
		return Command{}, &SyntaxError{Token: remaining[0], Err: ErrUnexpectedToken}
	}

	return cmd, nil
}

// ParseLine runs the whole pipeline on a raw input line. ok is false when
// the line holds no command.
func ParseLine(line string, pid int, quoteAware bool) (cmd Command, ok bool, err error) {
	if IsBlankOrComment(line) {
		return Command{}, false, nil
	}

	tokens, err := Tokenize(line, pid, quoteAware)
	if err != nil {
		return Command{}, false, err
	}
	if len(tokens) == 0 {
		return Command{}, false, nil
	}

	cmd, err = Parse(tokens)
	if err != nil {
		return Command{}, false, err
	}
	return cmd, true, nil
}
