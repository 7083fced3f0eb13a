package vos

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
)

// VProc holds the per-process state the shell reads and changes.
type VProc interface {
	// Getpid returns the process ID of the shell.
	Getpid() int

	// Getwd returns a rooted path name corresponding to the current directory.
	Getwd() (string, error)

	// Chdir changes the current working directory.
	Chdir(dir string) error
}

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(vfs VFS, file string) error {
	d, err := vfs.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable. If file contains a slash, it is returned
// unchanged and the PATH is not consulted, matching execvp. The result may be
// an absolute path or a path relative to the current directory.
func LookPath(vos VOS, file string) (string, error) {
	if strings.Contains(file, "/") {
		return file, nil
	}
	path := vos.Getenv("PATH")
	var firstErr error
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		err := findExecutable(vos, path)
		if err == nil {
			return path, nil
		}
		if firstErr == nil && !errors.Is(err, ErrNotFound) {
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", firstErr
	}
	return "", ErrNotFound
}
