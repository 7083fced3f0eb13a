package vos

import (
	"os"

	"github.com/spf13/afero"
)

// HostOS is the VOS of the running process.
type HostOS struct {
	afero.Fs
}

var _ VOS = (*HostOS)(nil)

// NewHostOS returns a VOS backed by the os package.
func NewHostOS() *HostOS {
	return &HostOS{Fs: afero.NewOsFs()}
}

func (*HostOS) Getpid() int                         { return os.Getpid() }
func (*HostOS) Getwd() (string, error)              { return os.Getwd() }
func (*HostOS) Chdir(dir string) error              { return os.Chdir(dir) }
func (*HostOS) Unsetenv(key string) error           { return os.Unsetenv(key) }
func (*HostOS) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (*HostOS) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (*HostOS) Getenv(key string) string            { return os.Getenv(key) }
func (*HostOS) Environ() []string                   { return os.Environ() }
