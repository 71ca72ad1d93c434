// Package renamer runs a bulk rename over the entries of one folder.
package renamer

import (
	"errors"
	"path/filepath"

	"github.com/spf13/afero"

	"bulkrename/internal/logging"
	"bulkrename/internal/naming"
	"bulkrename/internal/scanner"
)

// Reporter is told about each file as soon as it is processed and receives
// the finished Result at the end of the run.
type Reporter interface {
	Processed(o Outcome)
	Failed(fe FileError)
	Report(res *Result)
}

type nopReporter struct{}

func (nopReporter) Processed(Outcome) {}
func (nopReporter) Failed(FileError)  {}
func (nopReporter) Report(*Result)    {}

// Engine renames the regular files of a folder one at a time.
type Engine struct {
	fs       afero.Fs
	log      *logging.Logger
	reporter Reporter
}

// Option configures an Engine.
type Option func(*Engine)

// WithReporter makes Run notify r of every file and hand it the Result
// before returning.
func WithReporter(r Reporter) Option {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}

// New creates an Engine over fsys. A nil logger discards all records.
func New(fsys afero.Fs, log *logging.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	e := &Engine{fs: fsys, log: log, reporter: nopReporter{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan computes the rename plans for req without touching the filesystem.
// Entries that are not regular files get no plan and are counted in skipped.
// A non-nil error is always a fatal *FileError.
func (e *Engine) Plan(req Request) (plans []naming.Plan, skipped int, err error) {
	if err := naming.ValidatePattern(req.Pattern); err != nil {
		return nil, 0, &FileError{FileName: req.Pattern, Kind: InvalidArguments, Fatal: true, Err: err}
	}

	entries, err := scanner.List(e.fs, req.Folder, scanner.ListOptions{Contiguous: req.Contiguous})
	if err != nil {
		return nil, 0, &FileError{FileName: req.Folder, Kind: classifyFolderError(err), Fatal: true, Err: err}
	}
	e.log.Debug("Found %d entries in %s", len(entries), req.Folder)

	for _, entry := range entries {
		if !entry.IsRegular {
			skipped++
			e.log.Debug("Skipping %s: not a regular file (index %d)", entry.Name, entry.Index)
			continue
		}
		plan := naming.NewPlan(req.Pattern, entry.Name, entry.Extension, entry.Index)
		e.log.Debug("Planned %s -> %s (index %d)", plan.OriginalName, plan.TargetName, plan.Index)
		plans = append(plans, plan)
	}
	return plans, skipped, nil
}

// Run renames (or, in dry-run mode, simulates renaming) each regular file of
// the folder in sorted order, notifying the reporter of every file as it is
// processed. Folder-level failures end the run with no files processed;
// per-file failures are recorded and the run continues. Run never returns nil.
func (e *Engine) Run(req Request) *Result {
	res := &Result{
		Folder:  req.Folder,
		Pattern: req.Pattern,
		DryRun:  req.DryRun,
	}
	defer e.reporter.Report(res)

	e.log.Debug("Starting rename: folder=%s pattern=%q dry-run=%t contiguous=%t",
		req.Folder, req.Pattern, req.DryRun, req.Contiguous)

	plans, skipped, err := e.Plan(req)
	if err != nil {
		var fe *FileError
		if !errors.As(err, &fe) {
			fe = &FileError{FileName: req.Folder, Kind: ClassifyError(err), Fatal: true, Err: err}
		}
		e.fail(res, *fe)
		return res
	}
	res.Skipped = skipped

	for _, plan := range plans {
		outcome := Outcome{Plan: plan, Simulated: req.DryRun}
		if req.DryRun {
			res.Simulated++
		} else {
			if err := e.apply(req.Folder, plan); err != nil {
				e.fail(res, FileError{FileName: plan.OriginalName, Kind: ClassifyError(err), Err: err})
				continue
			}
			res.Renamed++
		}
		res.Outcomes = append(res.Outcomes, outcome)
		e.reporter.Processed(outcome)
	}

	return res
}

func (e *Engine) fail(res *Result, fe FileError) {
	res.Errors = append(res.Errors, fe)
	e.reporter.Failed(fe)
}

func (e *Engine) apply(folder string, plan naming.Plan) error {
	if !plan.Changed() {
		return nil
	}
	oldPath := filepath.Join(folder, plan.OriginalName)
	newPath := filepath.Join(folder, plan.TargetName)
	return e.fs.Rename(oldPath, newPath)
}
