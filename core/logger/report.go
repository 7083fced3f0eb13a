package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries int        `json:"invalid_entries,omitempty"`

	RunCommand  RunCommandReport  `json:"run_command_report"`
	Builtin     BuiltinReport     `json:"builtin_report"`
	Foreground  CompletionReport  `json:"foreground_report"`
	Background  CompletionReport  `json:"background_report"`
	SyntaxError SyntaxErrorReport `json:"syntax_error_report"`
	Terminated  int               `json:"terminated_jobs"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch event := le.GetLogType().(type) {
	case *RunCommand:
		r.RunCommand.update(event)
	case *Builtin:
		r.Builtin.update(event)
	case *SyntaxError:
		r.SyntaxError.update(event)
	case *ForegroundDone:
		r.Foreground.update(event.Status.String())
	case *BackgroundDone:
		r.Background.update(event.Status.String())
	case *BackgroundStart:
		r.Background.Started++
	case *TerminateJobs:
		r.Terminated += len(event.Pids)
	default:
		r.InvalidEntries++
	}
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Number of commands that asked for the background
	Background int `json:"background"`
	// Number of '&' ignored due to foreground-only mode
	ForcedForeground int `json:"forced_foreground"`
	Redirected       int `json:"redirected"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
	if rc.Background {
		r.Background++
	}
	if rc.ForcedForeground {
		r.ForcedForeground++
	}
	if rc.InputPath != "" || rc.OutputPath != "" {
		r.Redirected++
	}
}

type BuiltinReport struct {
	Invocations *PathCounter `json:"invocations"`
}

func (r *BuiltinReport) update(b *Builtin) {
	if r.Invocations == nil {
		r.Invocations = NewPathCounter("builtin", "status")
	}
	if len(b.Command) > 0 {
		r.Invocations.Increment(b.Command[0], fmt.Sprintf("%d", b.Status))
	}
}

type CompletionReport struct {
	Started  int        `json:"started,omitempty"`
	Statuses StrCounter `json:"statuses"`
}

func (r *CompletionReport) update(status string) {
	r.Statuses.Increment(status)
}

type SyntaxErrorReport struct {
	Errors StrCounter `json:"errors"`
}

func (r *SyntaxErrorReport) update(se *SyntaxError) {
	r.Errors.Increment(se.Error)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of distinct tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
