// Package sigmode implements the foreground-only toggle bound to SIGTSTP.
//
// While foreground-only mode is on, a trailing '&' is ignored and every
// command runs in the foreground.
package sigmode

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

var (
	enterNotice = []byte("\nEntering foreground-only mode (& is now ignored)\n")
	exitNotice  = []byte("\nExiting foreground-only mode\n")
)

// Controller owns the mode flag. It is safe to read from any goroutine.
type Controller struct {
	// Fd receives the mode change notices.
	Fd int

	foregroundOnly atomic.Bool

	mu      sync.Mutex
	signals chan os.Signal
	done    chan struct{}
}

// New creates a controller that writes notices to the given descriptor.
func New(fd int) *Controller {
	return &Controller{Fd: fd}
}

// ForegroundOnly reports whether '&' is currently ignored.
func (c *Controller) ForegroundOnly() bool {
	return c.foregroundOnly.Load()
}

// Toggle flips the mode and writes the matching notice with a single raw
// write of a fixed message.
func (c *Controller) Toggle() {
	for {
		old := c.foregroundOnly.Load()
		if !c.foregroundOnly.CompareAndSwap(old, !old) {
			continue
		}

		msg := exitNotice
		if !old {
			msg = enterNotice
		}
		writeAll(c.Fd, msg)
		return
	}
}

func writeAll(fd int, msg []byte) {
	for len(msg) > 0 {
		n, err := unix.Write(fd, msg)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil || n <= 0:
			return
		}
		msg = msg[n:]
	}
}

// Start subscribes to SIGTSTP. Each delivery toggles the mode.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.signals != nil {
		return
	}

	c.signals = make(chan os.Signal, 1)
	c.done = make(chan struct{})
	signal.Notify(c.signals, syscall.SIGTSTP)

	go func(signals <-chan os.Signal, done chan<- struct{}) {
		defer close(done)
		for range signals {
			c.Toggle()
		}
	}(c.signals, c.done)
}

// Stop unsubscribes from SIGTSTP, restoring the default disposition, and
// waits for the signal goroutine to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.signals == nil {
		return
	}

	signal.Stop(c.signals)
	close(c.signals)
	<-c.done
	c.signals = nil
	c.done = nil
}
