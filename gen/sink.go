package gen

import (
	"fmt"
	"io"

	"github.com/pingcap/errors"
)

// --- Diagnostics sink ------------------------------------------------------

// Sink collects user-visible diagnostics during generation and counts
// them. The back end never terminates the process; the caller inspects
// ErrorCount and decides.
type Sink struct {
	w     io.Writer
	count int
	last  error
}

// NewSink creates a sink writing diagnostics to w. A nil w discards the
// text but still counts.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Errorf reports one diagnostic.
func (s *Sink) Errorf(format string, args ...interface{}) {
	s.count++
	s.last = errors.Errorf(format, args...)
	tracer().Errorf(format, args...)
	if s.w != nil {
		fmt.Fprintf(s.w, format+"\n", args...)
	}
}

// ErrorCount returns the number of diagnostics reported so far.
func (s *Sink) ErrorCount() int {
	return s.count
}

// Err returns the most recent diagnostic as an error, or nil.
func (s *Sink) Err() error {
	return s.last
}
