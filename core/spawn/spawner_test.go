package spawn

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/josephlewis42/smallsh/core/jobs"
	"github.com/josephlewis42/smallsh/core/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spawnFixture struct {
	dir     string
	stdout  *os.File
	stderr  *os.File
	jobs    *jobs.Table
	spawner *Spawner
}

func newSpawnFixture(t *testing.T) *spawnFixture {
	t.Helper()

	dir := t.TempDir()
	stdout, err := os.Create(filepath.Join(dir, "stdout"))
	require.NoError(t, err)
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	require.NoError(t, err)
	t.Cleanup(func() {
		stdout.Close()
		stderr.Close()
	})

	table := jobs.NewTable(nil)
	spawner := NewSpawner(table, nil)
	spawner.Stdin = nil
	spawner.Stdout = stdout
	spawner.Stderr = stderr

	return &spawnFixture{
		dir:     dir,
		stdout:  stdout,
		stderr:  stderr,
		jobs:    table,
		spawner: spawner,
	}
}

func (f *spawnFixture) path(name string) string {
	return filepath.Join(f.dir, name)
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(contents)
}

func (f *spawnFixture) run(t *testing.T, line string) Outcome {
	t.Helper()

	tokens, err := shell.Tokenize(line, os.Getpid(), false)
	require.NoError(t, err)
	cmd, err := shell.Parse(tokens)
	require.NoError(t, err)

	outcome, err := f.spawner.Spawn(cmd)
	require.NoError(t, err)
	return outcome
}

func (f *spawnFixture) waitForJob(t *testing.T) jobs.Job {
	t.Helper()

	var done []jobs.Job
	deadline := time.Now().Add(10 * time.Second)
	for len(done) == 0 && time.Now().Before(deadline) {
		f.jobs.Poll(func(j jobs.Job) {
			done = append(done, j)
		})
		time.Sleep(10 * time.Millisecond)
	}
	require.Len(t, done, 1)
	return done[0]
}

func TestSpawn_foreground(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected jobs.Status
	}{
		"success":     {"true", jobs.Status{}},
		"failure":     {"false", jobs.Status{Code: 1}},
		"shell-error": {"sh -c no-such-command-smallsh", jobs.Status{Code: 127}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			f := newSpawnFixture(t)
			outcome := f.run(t, tc.line)

			assert.False(t, outcome.Background)
			assert.NotZero(t, outcome.Pid)
			assert.Equal(t, tc.expected, outcome.Status)
		})
	}
}

func (f *spawnFixture) script(t *testing.T, name, body string) string {
	t.Helper()

	path := f.path(name)
	require.NoError(t, os.WriteFile(path, []byte(body+"\n"), 0644))
	return path
}

func TestSpawn_exitCode(t *testing.T) {
	f := newSpawnFixture(t)

	outcome := f.run(t, "sh "+f.script(t, "exit3.sh", "exit 3"))
	assert.Equal(t, jobs.Status{Code: 3}, outcome.Status)
	assert.Equal(t, "exit value 3", outcome.Status.String())
}

func TestSpawn_signaled(t *testing.T) {
	f := newSpawnFixture(t)
	outcome := f.run(t, "sh "+f.script(t, "killself.sh", "kill -TERM $$"))
	assert.Equal(t, jobs.Status{Signal: syscall.SIGTERM}, outcome.Status)
	assert.Equal(t, "terminated by signal 15", outcome.Status.String())
}

func TestSpawn_redirection(t *testing.T) {
	f := newSpawnFixture(t)
	in := f.path("in")
	out := f.path("out")
	require.NoError(t, os.WriteFile(in, []byte("b\na\n"), 0644))

	outcome := f.run(t, fmt.Sprintf("sort < %s > %s", in, out))
	assert.Equal(t, jobs.Status{}, outcome.Status)
	assert.Equal(t, "a\nb\n", readFile(t, out))

	// Output is truncated on reuse.
	f.run(t, fmt.Sprintf("echo hi > %s", out))
	assert.Equal(t, "hi\n", readFile(t, out))
	assert.Empty(t, readFile(t, f.path("stdout")))
}

func TestSpawn_redirectionFailure(t *testing.T) {
	f := newSpawnFixture(t)
	missing := f.path("missing")

	outcome := f.run(t, "cat < "+missing)
	assert.Equal(t, jobs.Status{Code: ExitRedirectFailed}, outcome.Status)
	assert.Equal(t, "cannot open "+missing+" for input\n", readFile(t, f.path("stdout")))
}

func TestSpawn_execFailure(t *testing.T) {
	f := newSpawnFixture(t)

	outcome := f.run(t, "smallsh-no-such-program arg")
	assert.Equal(t, jobs.Status{Code: ExitExecFailed}, outcome.Status)
	assert.Equal(t, "smallsh-no-such-program: no such file or directory\n", readFile(t, f.path("stderr")))
}

func TestSpawn_background(t *testing.T) {
	f := newSpawnFixture(t)

	outcome := f.run(t, "sh "+f.script(t, "exit4.sh", "exit 4")+" &")
	assert.True(t, outcome.Background)
	assert.Equal(t, fmt.Sprintf("background pid is %d\n", outcome.Pid), readFile(t, f.path("stdout")))

	job := f.waitForJob(t)
	assert.Equal(t, outcome.Pid, job.Pid)
	assert.Equal(t, jobs.Status{Code: 4}, job.Status)
}

func TestSpawn_backgroundUsesNullDevice(t *testing.T) {
	f := newSpawnFixture(t)

	// cat would block forever on an inherited terminal, /dev/null ends it.
	outcome := f.run(t, "cat &")
	job := f.waitForJob(t)
	assert.Equal(t, jobs.Status{}, job.Status)

	outcome2 := f.run(t, "echo hidden &")
	f.waitForJob(t)

	expected := fmt.Sprintf("background pid is %d\nbackground pid is %d\n", outcome.Pid, outcome2.Pid)
	assert.Equal(t, expected, readFile(t, f.path("stdout")))
}

func TestSpawn_backgroundOutputRedirect(t *testing.T) {
	f := newSpawnFixture(t)
	out := f.path("out")

	f.run(t, "echo visible > "+out+" &")
	job := f.waitForJob(t)
	assert.Equal(t, jobs.Status{}, job.Status)
	assert.Equal(t, "visible\n", readFile(t, out))
}

func TestSpawn_forkFailure(t *testing.T) {
	f := newSpawnFixture(t)
	f.spawner.Self = f.path("not-a-binary")

	_, err := f.spawner.Spawn(shell.Command{Argv: []string{"true"}})
	assert.ErrorIs(t, err, ErrForkFailed)
}
