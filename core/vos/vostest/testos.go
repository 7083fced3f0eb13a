package vostest

import (
	"io/fs"
	"path"

	"github.com/josephlewis42/smallsh/core/vos"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

const (
	// DeterministicPid is the pid reported by NewDeterministicOS.
	DeterministicPid = 4507
	// DeterministicHome is HOME in NewDeterministicOS, it exists on the
	// filesystem.
	DeterministicHome = "/home/tester"
)

// TestOS is an in-memory VOS. Directories only exist if created on the
// embedded filesystem.
type TestOS struct {
	afero.Fs
	*vos.MapEnv

	Pid int
	Cwd string
}

var _ vos.VOS = (*TestOS)(nil)

// NewDeterministicOS creates a TestOS rooted at "/" with HOME set and
// created.
func NewDeterministicOS() *TestOS {
	memFs := afero.NewMemMapFs()
	_ = memFs.MkdirAll(DeterministicHome, 0755)

	return &TestOS{
		Fs:     memFs,
		MapEnv: vos.NewMapEnvFromEnvList([]string{"HOME=" + DeterministicHome, "PATH=/bin:/usr/bin"}),
		Pid:    DeterministicPid,
		Cwd:    "/",
	}
}

// Getpid implements vos.VProc.Getpid.
func (t *TestOS) Getpid() int {
	return t.Pid
}

// Getwd implements vos.VProc.Getwd.
func (t *TestOS) Getwd() (string, error) {
	return t.Cwd, nil
}

// Chdir implements vos.VProc.Chdir.
func (t *TestOS) Chdir(dir string) error {
	if !path.IsAbs(dir) {
		dir = path.Join(t.Cwd, dir)
	}

	info, err := t.Fs.Stat(dir)
	switch {
	case err != nil:
		return &fs.PathError{Op: "chdir", Path: dir, Err: unix.ENOENT}
	case !info.IsDir():
		return &fs.PathError{Op: "chdir", Path: dir, Err: unix.ENOTDIR}
	}

	t.Cwd = path.Clean(dir)
	return nil
}
