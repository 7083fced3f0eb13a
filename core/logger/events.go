package logger

import (
	"github.com/josephlewis42/smallsh/core/jobs"
)

// LogEntry is a single recorded event. Exactly one of the event fields is
// set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	RunCommand      *RunCommand      `json:"run_command,omitempty"`
	Builtin         *Builtin         `json:"builtin,omitempty"`
	SyntaxError     *SyntaxError     `json:"syntax_error,omitempty"`
	ForegroundDone  *ForegroundDone  `json:"foreground_done,omitempty"`
	BackgroundStart *BackgroundStart `json:"background_start,omitempty"`
	BackgroundDone  *BackgroundDone  `json:"background_done,omitempty"`
	TerminateJobs   *TerminateJobs   `json:"terminate_jobs,omitempty"`
}

// LogType is implemented by every event payload.
type LogType interface {
	setOn(le *LogEntry)
}

// GetLogType returns the event held by the entry, nil if there is none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.RunCommand != nil:
		return le.RunCommand
	case le.Builtin != nil:
		return le.Builtin
	case le.SyntaxError != nil:
		return le.SyntaxError
	case le.ForegroundDone != nil:
		return le.ForegroundDone
	case le.BackgroundStart != nil:
		return le.BackgroundStart
	case le.BackgroundDone != nil:
		return le.BackgroundDone
	case le.TerminateJobs != nil:
		return le.TerminateJobs
	default:
		return nil
	}
}

// RunCommand is logged when an external program is about to be spawned.
type RunCommand struct {
	Command    []string `json:"command"`
	InputPath  string   `json:"input_path,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`
	Background bool     `json:"background,omitempty"`
	// ForcedForeground is set when '&' was ignored.
	ForcedForeground bool `json:"forced_foreground,omitempty"`
}

func (e *RunCommand) setOn(le *LogEntry) { le.RunCommand = e }

// Builtin is logged when a shell builtin runs.
type Builtin struct {
	Command []string `json:"command"`
	Status  int      `json:"status"`
}

func (e *Builtin) setOn(le *LogEntry) { le.Builtin = e }

// SyntaxError is logged for lines that could not be parsed.
type SyntaxError struct {
	Line  string `json:"line"`
	Error string `json:"error"`
}

func (e *SyntaxError) setOn(le *LogEntry) { le.SyntaxError = e }

// ForegroundDone is logged after a foreground program exits.
type ForegroundDone struct {
	Command []string    `json:"command"`
	Pid     int         `json:"pid"`
	Status  jobs.Status `json:"status"`
}

func (e *ForegroundDone) setOn(le *LogEntry) { le.ForegroundDone = e }

// BackgroundStart is logged after a background program starts.
type BackgroundStart struct {
	Command []string `json:"command"`
	Pid     int      `json:"pid"`
}

func (e *BackgroundStart) setOn(le *LogEntry) { le.BackgroundStart = e }

// BackgroundDone is logged when a background job is reported.
type BackgroundDone struct {
	Pid    int         `json:"pid"`
	Status jobs.Status `json:"status"`
}

func (e *BackgroundDone) setOn(le *LogEntry) { le.BackgroundDone = e }

// TerminateJobs is logged when the shell exits with jobs still running.
type TerminateJobs struct {
	Pids   []int  `json:"pids"`
	Signal string `json:"signal"`
}

func (e *TerminateJobs) setOn(le *LogEntry) { le.TerminateJobs = e }
