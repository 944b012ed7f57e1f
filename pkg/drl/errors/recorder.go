package errors

import (
	"log/slog"
)

// Recorder accumulates the errors of one parse run.
//
// A Recorder is passed by pointer into every sub-parser. It is not safe for
// concurrent use; give each goroutine its own and Merge them afterwards.
type Recorder struct {
	counts [kindCount]int
	list   *ErrorList
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{list: NewErrorList()}
}

// Record stores err and increments the counter for its kind.
func (r *Recorder) Record(err *Error) {
	if err == nil {
		return
	}
	if err.Kind >= 0 && err.Kind < kindCount {
		r.counts[err.Kind]++
	}
	r.list.Add(err)
}

// Count returns how many errors of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	if kind < 0 || kind >= kindCount {
		return 0
	}
	return r.counts[kind]
}

// Total returns the number of recorded errors.
func (r *Recorder) Total() int {
	return r.list.Count()
}

// Errors returns the recorded errors in recording order.
// The returned slice must not be modified.
func (r *Recorder) Errors() []*Error {
	return r.list.Errors
}

// Merge appends every error recorded by other.
func (r *Recorder) Merge(other *Recorder) {
	if other == nil {
		return
	}
	for k := range other.counts {
		r.counts[k] += other.counts[k]
	}
	r.list.Errors = append(r.list.Errors, other.list.Errors...)
}

// Reset discards all recorded errors.
func (r *Recorder) Reset() {
	r.counts = [kindCount]int{}
	r.list = NewErrorList()
}

// Counts returns kind name -> count for every kind, including zero counts.
func (r *Recorder) Counts() map[string]int {
	counts := make(map[string]int, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		counts[k.String()] = r.counts[k]
	}
	return counts
}

// Summary is a serialisable snapshot of a recorder.
type Summary struct {
	Total   int            `json:"total_errors"`
	Counts  map[string]int `json:"error_counts"`
	Details []Detail       `json:"errors"`
}

// Detail is the serialisable form of one Error.
type Detail struct {
	Kind        string `json:"type"`
	Category    string `json:"category"`
	Message     string `json:"message"`
	File        string `json:"file_path,omitempty"`
	Line        int    `json:"line_number,omitempty"`
	Construct   string `json:"construct,omitempty"`
	Recoverable bool   `json:"recoverable"`
	Disposition string `json:"disposition"`
}

// Summary returns a snapshot of the recorded errors.
func (r *Recorder) Summary() Summary {
	details := make([]Detail, 0, r.list.Count())
	for _, e := range r.list.Errors {
		details = append(details, Detail{
			Kind:        e.Kind.String(),
			Category:    string(e.Kind.Category()),
			Message:     e.Message,
			File:        e.Location.File,
			Line:        e.Location.Line,
			Construct:   e.Construct,
			Recoverable: e.Disposition.Recoverable(),
			Disposition: e.Disposition.String(),
		})
	}
	return Summary{
		Total:   r.list.Count(),
		Counts:  r.Counts(),
		Details: details,
	}
}

// LogSummary writes the non-zero counters and the first maxDetails errors
// to logger.
func (r *Recorder) LogSummary(logger *slog.Logger, maxDetails int) {
	if logger == nil {
		return
	}
	if r.Total() == 0 {
		logger.Info("parse completed without errors")
		return
	}

	args := []any{"total_errors", r.Total()}
	for k := Kind(0); k < kindCount; k++ {
		if r.counts[k] > 0 {
			args = append(args, k.String(), r.counts[k])
		}
	}
	logger.Warn("parse completed with errors", args...)

	for i, e := range r.list.Errors {
		if i >= maxDetails {
			logger.Warn("additional errors omitted", "count", r.Total()-maxDetails)
			break
		}
		logger.Warn(e.Message,
			"type", e.Kind.String(),
			"location", e.Location.String(),
			"construct", e.Construct,
			"disposition", e.Disposition.String(),
		)
	}
}
