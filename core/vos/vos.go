package vos

import "github.com/spf13/afero"

// VFS is the filesystem the shell resolves programs and directories against.
type VFS = afero.Fs

// VOS is the slice of the operating system the shell depends on. HostOS
// implements it for real; vostest provides a deterministic fake.
type VOS interface {
	VEnv
	VProc
	VFS
}
