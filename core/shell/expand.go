package shell

import (
	"strconv"
	"strings"

	"github.com/anmitsu/go-shlex"
)

// PIDVariable is replaced by the shell's process ID wherever it appears.
const PIDVariable = "$$"

// IsBlankOrComment reports whether the raw line should be ignored without
// further processing.
func IsBlankOrComment(line string) bool {
	return line == "" || line[0] == '#'
}

// Expand replaces every non-overlapping "$$" in line, scanning left to right,
// with the decimal pid.
func Expand(line string, pid int) string {
	return strings.ReplaceAll(line, PIDVariable, strconv.Itoa(pid))
}

// Split breaks line on runs of whitespace. Empty tokens are dropped.
func Split(line string) []string {
	return strings.Fields(line)
}

// Tokenize expands line and splits it into words.
//
// When quoteAware is set, words are split with POSIX quoting rules so
// "a b" is a single word; an unterminated quote is an error.
func Tokenize(line string, pid int, quoteAware bool) ([]string, error) {
	expanded := Expand(line, pid)
	if !quoteAware {
		return Split(expanded), nil
	}

	tokens, err := shlex.Split(expanded, true)
	if err != nil {
		return nil, &SyntaxError{Err: err}
	}
	return tokens, nil
}
