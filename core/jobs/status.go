package jobs

import (
	"fmt"
	"syscall"
)

// Status is how a process finished: either with an exit code or killed by a
// signal. The zero value reads as "exit value 0".
type Status struct {
	Code   int            `json:"code"`
	Signal syscall.Signal `json:"signal,omitempty"`
}

// Signaled reports whether the process was terminated by a signal.
func (s Status) Signaled() bool {
	return s.Signal != 0
}

func (s Status) String() string {
	if s.Signaled() {
		return fmt.Sprintf("terminated by signal %d", s.Signal)
	}
	return fmt.Sprintf("exit value %d", s.Code)
}

// WaitStatus is satisfied by both syscall.WaitStatus and unix.WaitStatus.
type WaitStatus interface {
	Exited() bool
	ExitStatus() int
	Signaled() bool
	Signal() syscall.Signal
}

// StatusFromWait converts the result of a wait call.
func StatusFromWait(ws WaitStatus) Status {
	if ws.Signaled() {
		return Status{Signal: ws.Signal()}
	}
	return Status{Code: ws.ExitStatus()}
}
