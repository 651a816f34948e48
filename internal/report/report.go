// Package report formats joined probe results and the final summary line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/torosent/volley/internal/clock"
	"github.com/torosent/volley/internal/probe"
)

// Summary is the final tally for a run.
type Summary struct {
	Errors  int            `json:"errors"`
	Runs    int            `json:"runs"`
	Elapsed clock.Timespec `json:"elapsed"`
}

// Reporter writes per-worker lines. In silent mode only failed workers are
// printed; error lines are never suppressed.
type Reporter struct {
	w      io.Writer
	silent bool
}

func NewReporter(w io.Writer, silent bool) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w, silent: silent}
}

// WriteResult emits the line for one worker, honoring silent mode. It reports
// whether a line was written.
func (r *Reporter) WriteResult(res *probe.Result) bool {
	if r.silent && !res.Failed() {
		return false
	}
	// Exactly one newline terminates the line, whether or not the error
	// message carries its own.
	msg := strings.TrimRight(res.ErrMsg, "\n")
	fmt.Fprintf(r.w,
		"Thread=%d: response_code=%d: seconds=%d.%09d: curl_time_t=%06d: os_error_code=%d: curl_error_code=%d: curl_error=%s\n",
		res.Ordinal, res.StatusCode,
		res.Elapsed.Sec, res.Elapsed.Nsec,
		res.Total.Microseconds(),
		res.OSErrno, res.ErrCode, msg)
	return true
}

// Report walks joined results in ordinal order, writing lines per the silent
// filter, and returns the error tally. The tally counts every failed result
// regardless of whether its line was printed.
func (r *Reporter) Report(results []probe.Result) int {
	errors := 0
	for i := range results {
		res := &results[i]
		if res.Failed() {
			errors++
		}
		r.WriteResult(res)
	}
	return errors
}

// WriteSummary emits the final tally line.
func (r *Reporter) WriteSummary(s Summary) {
	fmt.Fprintf(r.w, "%d errors out of %d runs in %d.%09d real seconds\n",
		s.Errors, s.Runs, s.Elapsed.Sec, s.Elapsed.Nsec)
}

// CountErrors tallies failed results without writing anything.
func CountErrors(results []probe.Result) int {
	errors := 0
	for i := range results {
		if results[i].Failed() {
			errors++
		}
	}
	return errors
}

// JSONReport is the machine-readable run report.
type JSONReport struct {
	RunID   string         `json:"run_id,omitempty"`
	URL     string         `json:"url"`
	Summary Summary        `json:"summary"`
	Results []probe.Result `json:"results"`
}

// WriteJSON emits the report as indented JSON. The silent filter applies to
// the results array the same way it applies to lines: failures always stay.
func WriteJSON(w io.Writer, rep JSONReport, silent bool) error {
	if silent {
		kept := make([]probe.Result, 0, len(rep.Results))
		for i := range rep.Results {
			if rep.Results[i].Failed() {
				kept = append(kept, rep.Results[i])
			}
		}
		rep.Results = kept
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
