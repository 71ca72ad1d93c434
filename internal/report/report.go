// Package report turns rename progress and results into log lines and
// summary counts.
package report

import (
	"fmt"
	"sort"
	"strings"

	"bulkrename/internal/logging"
	"bulkrename/internal/renamer"
)

// Summary contains the counts of a finished run.
type Summary struct {
	Renamed   int
	Simulated int
	Skipped   int
	Errors    int
	ByKind    map[renamer.ErrorKind]int // Populated only when errors were recorded
}

// Summarize computes the Summary of res.
func Summarize(res *renamer.Result) Summary {
	if res == nil {
		return Summary{}
	}

	s := Summary{
		Renamed:   res.Renamed,
		Simulated: res.Simulated,
		Skipped:   res.Skipped,
		Errors:    len(res.Errors),
	}
	if len(res.Errors) > 0 {
		s.ByKind = make(map[renamer.ErrorKind]int)
		for _, e := range res.Errors {
			s.ByKind[e.Kind]++
		}
	}
	return s
}

// String returns the one-line summary written at the end of a run.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total files renamed: %d", s.Renamed)
	if s.Simulated > 0 {
		fmt.Fprintf(&b, ", simulated: %d", s.Simulated)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(&b, ", skipped: %d", s.Skipped)
	}
	if s.Errors > 0 {
		fmt.Fprintf(&b, ", errors: %d", s.Errors)
		kinds := make([]string, 0, len(s.ByKind))
		for k := range s.ByKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		parts := make([]string, 0, len(kinds))
		for _, k := range kinds {
			parts = append(parts, fmt.Sprintf("%s=%d", k, s.ByKind[renamer.ErrorKind(k)]))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	return b.String()
}

// Reporter writes results to a Logger.
type Reporter struct {
	log *logging.Logger
}

// New creates a Reporter writing to log.
func New(log *logging.Logger) *Reporter {
	if log == nil {
		log = logging.Discard()
	}
	return &Reporter{log: log}
}

// Processed logs one line for a renamed or simulated file.
func (r *Reporter) Processed(o renamer.Outcome) {
	r.log.Info("%s", OutcomeLine(o))
}

// Failed logs one ERROR line for a recorded failure.
func (r *Reporter) Failed(fe renamer.FileError) {
	r.log.Error("%s", ErrorLine(fe))
}

// Report logs the closing summary line. A run aborted by a folder-level
// error gets no summary.
func (r *Reporter) Report(res *renamer.Result) {
	if res == nil || res.Fatal() != nil {
		return
	}
	r.log.Info("%s", Summarize(res).String())
}

// DryRunMarker prefixes every simulated rename line.
const DryRunMarker = "[DRY-RUN]"

// OutcomeLine formats a processed file.
func OutcomeLine(o renamer.Outcome) string {
	if o.Simulated {
		return fmt.Sprintf("%s %s -> %s", DryRunMarker, o.Plan.OriginalName, o.Plan.TargetName)
	}
	return fmt.Sprintf("Renamed %s -> %s", o.Plan.OriginalName, o.Plan.TargetName)
}

// ErrorLine formats a recorded failure.
func ErrorLine(e renamer.FileError) string {
	switch e.Kind {
	case renamer.FolderNotFound:
		return fmt.Sprintf("Folder not found: %s", e.FileName)
	case renamer.InvalidArguments:
		return fmt.Sprintf("Invalid arguments: %v", e.Err)
	case renamer.PermissionDenied:
		if e.Fatal {
			return fmt.Sprintf("Permission denied in folder: %s", e.FileName)
		}
		return fmt.Sprintf("Permission denied renaming %s: %v", e.FileName, e.Err)
	default:
		return fmt.Sprintf("Unexpected error renaming %s: %v", e.FileName, e.Err)
	}
}
