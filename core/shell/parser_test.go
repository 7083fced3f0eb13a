package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected Command
	}{
		"program-only": {
			line:     "ls",
			expected: Command{Argv: []string{"ls"}},
		},
		"args": {
			line:     "ls -la /tmp",
			expected: Command{Argv: []string{"ls", "-la", "/tmp"}},
		},
		"input": {
			line:     "wc -l < junk",
			expected: Command{Argv: []string{"wc", "-l"}, InputPath: "junk"},
		},
		"output": {
			line:     "ls > junk",
			expected: Command{Argv: []string{"ls"}, OutputPath: "junk"},
		},
		"both": {
			line:     "sort < in > out",
			expected: Command{Argv: []string{"sort"}, InputPath: "in", OutputPath: "out"},
		},
		"both-reversed": {
			line:     "sort > out < in",
			expected: Command{Argv: []string{"sort"}, InputPath: "in", OutputPath: "out"},
		},
		"last-redirect-wins": {
			line:     "ls > a > b",
			expected: Command{Argv: []string{"ls"}, OutputPath: "b"},
		},
		"background": {
			line:     "sleep 5 &",
			expected: Command{Argv: []string{"sleep", "5"}, Background: true},
		},
		"redirect-and-background": {
			line:     "sort < in > out &",
			expected: Command{Argv: []string{"sort"}, InputPath: "in", OutputPath: "out", Background: true},
		},
		"attached-ampersand-is-arg": {
			line:     "echo a&",
			expected: Command{Argv: []string{"echo", "a&"}},
		},
		"operator-as-program": {
			line:     "& x",
			expected: Command{Argv: []string{"&", "x"}},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := Parse(strings.Fields(tc.line))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestParse_errors(t *testing.T) {
	cases := map[string]struct {
		tokens   []string
		token    string
		expected error
	}{
		"empty":                {nil, "", ErrEmptyCommand},
		"dangling-input":       {[]string{"cat", "<"}, "<", ErrMissingRedirectTarget},
		"dangling-output":      {[]string{"ls", ">", "x", ">"}, ">", ErrMissingRedirectTarget},
		"word-after-redirect":  {[]string{"ls", ">", "x", "y"}, "y", ErrUnexpectedToken},
		"ampersand-not-last":   {[]string{"sleep", "5", "&", "x"}, "&", ErrUnexpectedToken},
		"redirect-after-bg":    {[]string{"sleep", "&", ">", "x"}, "&", ErrUnexpectedToken},
		"double-ampersand":     {[]string{"sleep", "&", "&"}, "&", ErrUnexpectedToken},
		"target-is-background": {[]string{"ls", ">", "&"}, "", nil},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			_, err := Parse(tc.tokens)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.expected)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tc.token, syntaxErr.Token)
		})
	}
}

func TestParseLine(t *testing.T) {
	t.Run("comment", func(t *testing.T) {
		_, ok, err := ParseLine("# ls > x &", 1, false)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok, err := ParseLine("", 1, false)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("whitespace", func(t *testing.T) {
		_, ok, err := ParseLine("   ", 1, false)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expands-before-parse", func(t *testing.T) {
		cmd, ok, err := ParseLine("touch f.$$ > out.$$ &", 321, false)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Command{
			Argv:       []string{"touch", "f.321"},
			OutputPath: "out.321",
			Background: true,
		}, cmd)
		assert.Equal(t, "touch", cmd.Name())
		assert.Equal(t, []string{"f.321"}, cmd.Args())
	})

	t.Run("syntax-error", func(t *testing.T) {
		_, ok, err := ParseLine("cat <", 1, false)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrMissingRedirectTarget)
		assert.EqualError(t, err, `syntax error near "<": missing redirection target`)
	})
}
