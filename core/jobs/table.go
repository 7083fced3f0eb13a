package jobs

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// State is the lifecycle of a background job.
type State int

const (
	Running State = iota
	Completed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Job is a background process the shell started and has not yet reported.
type Job struct {
	Pid    int
	State  State
	Status Status
}

// DoneMessage is the notice printed once the job has been reaped.
func (j Job) DoneMessage() string {
	return fmt.Sprintf("background pid %d is done: %s", j.Pid, j.Status)
}

// WaitFunc checks on a child without blocking. done is false while the child
// is still running.
type WaitFunc func(pid int) (done bool, status Status, err error)

// KillFunc delivers sig to pid.
type KillFunc func(pid int, sig syscall.Signal) error

// WaitNoHang waits on exactly pid with WNOHANG.
func WaitNoHang(pid int) (bool, Status, error) {
	var ws unix.WaitStatus
	for {
		wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return false, Status{}, err
		case wpid == 0:
			return false, Status{}, nil
		default:
			return true, StatusFromWait(ws), nil
		}
	}
}

// Table keeps the background jobs in the order they were started.
type Table struct {
	Wait WaitFunc
	Kill KillFunc
	Log  *log.Logger

	mu   sync.Mutex
	jobs []*Job
}

// NewTable creates a table backed by the host's process calls.
func NewTable(logger *log.Logger) *Table {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Table{
		Wait: WaitNoHang,
		Kill: unix.Kill,
		Log:  logger,
	}
}

// Register records a freshly started background process.
func (t *Table) Register(pid int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.jobs = append(t.jobs, &Job{Pid: pid, State: Running})
}

// Check does one non-blocking completion check on pid. A finished job is
// marked completed but left in the table so the next Poll reports it.
func (t *Table) Check(pid int) (done bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, job := range t.jobs {
		if job.Pid != pid {
			continue
		}
		if job.State == Completed {
			return true
		}
		if !t.update(job) {
			t.remove(i)
			return false
		}
		return job.State == Completed
	}
	return false
}

// Poll checks every running job without blocking. Jobs that have finished
// are passed to report in registration order and then removed, so each is
// reported exactly once.
func (t *Table) Poll(report func(Job)) {
	t.mu.Lock()
	var finished []Job
	kept := t.jobs[:0]
	for _, job := range t.jobs {
		if job.State == Running && !t.update(job) {
			continue
		}
		if job.State == Completed {
			finished = append(finished, *job)
			continue
		}
		kept = append(kept, job)
	}
	for i := len(kept); i < len(t.jobs); i++ {
		t.jobs[i] = nil
	}
	t.jobs = kept
	t.mu.Unlock()

	for _, job := range finished {
		report(job)
	}
}

// update refreshes a running job. It returns false if the job should be
// dropped because the process can no longer be waited on.
func (t *Table) update(job *Job) bool {
	done, status, err := t.Wait(job.Pid)
	switch {
	case errors.Is(err, unix.ECHILD):
		t.Log.Printf("dropping job %d: %v", job.Pid, err)
		return false
	case err != nil:
		t.Log.Printf("checking job %d: %v", job.Pid, err)
		return true
	case done:
		job.State = Completed
		job.Status = status
	}
	return true
}

func (t *Table) remove(i int) {
	copy(t.jobs[i:], t.jobs[i+1:])
	t.jobs[len(t.jobs)-1] = nil
	t.jobs = t.jobs[:len(t.jobs)-1]
}

// TerminateAll sends sig to every job that is still running. It does not
// wait for them to exit.
func (t *Table) TerminateAll(sig syscall.Signal) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	for _, job := range t.jobs {
		if job.State != Running {
			continue
		}
		t.Log.Printf("sending %v to job %d", sig, job.Pid)
		if err := t.Kill(job.Pid, sig); err != nil {
			errs = append(errs, fmt.Errorf("kill %d: %w", job.Pid, err))
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of jobs not yet reported.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.jobs)
}

// Jobs returns a snapshot of the table.
func (t *Table) Jobs() []Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Job, 0, len(t.jobs))
	for _, job := range t.jobs {
		out = append(out, *job)
	}
	return out
}
