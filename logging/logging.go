// Package logging implements the annual-pipeline progress logger, grounded
// directly on the teacher's run.go Log function: a plain-text
// fmt.Fprintf writer that the CLI calls after each simulated year (or when a
// year fails), rather than a structured logging library the teacher itself doesn't use
// for this purpose.
package logging

import (
	"fmt"
	"io"
	"time"
)

// YearLogger logs one line per completed simulation year, with wall-clock
// timing, to w.
type YearLogger struct {
	w     io.Writer
	start time.Time
}

// NewYearLogger returns a YearLogger writing to w.
func NewYearLogger(w io.Writer) *YearLogger {
	return &YearLogger{w: w, start: time.Now()}
}

// LogYear writes a progress line for the given simulated year.
func (l *YearLogger) LogYear(year int) {
	fmt.Fprintf(l.w, "forestsim: year %d complete (%s elapsed)\n", year, time.Since(l.start).Round(time.Millisecond))
}

// LogStageError writes a diagnostic line for a failed pipeline stage before
// the caller propagates the error up and aborts the run.
func (l *YearLogger) LogStageError(year int, err error) {
	fmt.Fprintf(l.w, "forestsim: year %d failed: %v\n", year, err)
}
