package core

import (
	"fmt"
	"testing"

	"github.com/josephlewis42/smallsh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleBuiltinNames() {
	fmt.Println(BuiltinNames())

	// Output: [cd exit status]
}

func TestCd(t *testing.T) {
	cases := map[string]struct {
		start    string
		args     []string
		unsetEnv bool
		expected string
		ret      int
		stderr   string
	}{
		"home": {
			start:    "/",
			args:     []string{"cd"},
			expected: vostest.DeterministicHome,
		},
		"extra-args-ignored": {
			start:    "/home",
			args:     []string{"cd", "tester", "ignored"},
			expected: "/home/tester",
		},
		"relative": {
			start:    "/home",
			args:     []string{"cd", "tester"},
			expected: "/home/tester",
		},
		"parent": {
			start:    "/home/tester",
			args:     []string{"cd", ".."},
			expected: "/home",
		},
		"absolute-is-joined": {
			start:    "/home",
			args:     []string{"cd", "/home"},
			ret:      1,
			expected: "/home",
			stderr:   "cd: /home//home: no such file or directory\n",
		},
		"missing": {
			start:    "/",
			args:     []string{"cd", "nowhere"},
			ret:      1,
			expected: "/",
			stderr:   "cd: //nowhere: no such file or directory\n",
		},
		"not-dir": {
			start:    "/home/tester",
			args:     []string{"cd", "file"},
			ret:      1,
			expected: "/home/tester",
			stderr:   "cd: /home/tester/file: not a directory\n",
		},
		"home-unset": {
			start:    "/",
			args:     []string{"cd"},
			unsetEnv: true,
			ret:      1,
			expected: "/",
			stderr:   "cd: HOME not set\n",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			ts := newTestShell("")
			ts.init()
			testOS := ts.VirtualOS.(*vostest.TestOS)
			require.NoError(t, afero.WriteFile(testOS, "/home/tester/file", nil, 0644))
			require.NoError(t, testOS.Chdir(tc.start))
			if tc.unsetEnv {
				testOS.Unsetenv(EnvHome)
			}

			ret := Cd(ts.Shell, tc.args)

			assert.Equal(t, tc.ret, ret)
			wd, _ := testOS.Getwd()
			assert.Equal(t, tc.expected, wd)
			assert.Equal(t, tc.stderr, ts.stderr.String())
		})
	}
}

func TestStatus(t *testing.T) {
	ts := newTestShell("")
	ts.init()

	assert.Equal(t, 0, Status(ts.Shell, []string{"status"}))
	assert.Equal(t, "exit value 0\n", ts.stdout.String())
}

func TestExit(t *testing.T) {
	ts := newTestShell("")
	ts.init()
	ts.Jobs.Register(1)
	ts.Jobs.Register(2)

	assert.Equal(t, 0, Exit(ts.Shell, []string{"exit"}))
	assert.True(t, ts.Quit)
	assert.Equal(t, []int{1, 2}, ts.procs.killed)
	require.Len(t, ts.events, 1)
	assert.Equal(t, []int{1, 2}, ts.events[0].TerminateJobs.Pids)
	assert.Equal(t, "SIGTERM", ts.events[0].TerminateJobs.Signal)
}
