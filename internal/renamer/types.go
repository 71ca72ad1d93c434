package renamer

import (
	"errors"
	"fmt"
	"io/fs"

	"bulkrename/internal/naming"
	"bulkrename/internal/scanner"
)

// ErrorKind classifies a failure recorded during a run.
type ErrorKind string

const (
	// FolderNotFound aborts the run before any file is processed.
	FolderNotFound ErrorKind = "FOLDER_NOT_FOUND"
	// PermissionDenied is recorded per file; the run continues.
	PermissionDenied ErrorKind = "PERMISSION_DENIED"
	// UnexpectedIOError is recorded per file; the run continues.
	UnexpectedIOError ErrorKind = "UNEXPECTED_IO_ERROR"
	// InvalidArguments aborts the run before the folder is read.
	InvalidArguments ErrorKind = "INVALID_ARGUMENTS"
)

// Request describes a single rename run. It is a plain value and is not
// modified by the engine.
type Request struct {
	Folder     string
	Pattern    string // Literal prefix, or a template containing {index}
	DryRun     bool
	Contiguous bool // Number regular files only instead of every entry
}

// FileError records a failure for one file, or for the whole run when Fatal is set.
type FileError struct {
	FileName string
	Kind     ErrorKind
	Fatal    bool
	Err      error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.FileName, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.FileName)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Outcome is one file processed by a run.
type Outcome struct {
	Plan      naming.Plan
	Simulated bool // True when the rename was only logged (dry-run)
}

// Result accumulates the outcome of one run. Renamed counts confirmed
// filesystem renames only; dry-run renames are counted in Simulated.
type Result struct {
	Folder    string
	Pattern   string
	DryRun    bool
	Renamed   int
	Simulated int
	Skipped   int // Entries that were not regular files
	Outcomes  []Outcome
	Errors    []FileError
}

// Fatal returns the error that aborted the run, or nil if the run completed.
func (r *Result) Fatal() error {
	for i := range r.Errors {
		if r.Errors[i].Fatal {
			return &r.Errors[i]
		}
	}
	return nil
}

// ClassifyError maps a filesystem error from a per-file operation onto an ErrorKind.
func ClassifyError(err error) ErrorKind {
	if errors.Is(err, fs.ErrPermission) {
		return PermissionDenied
	}
	return UnexpectedIOError
}

// classifyFolderError maps a folder-level scan failure onto an ErrorKind.
func classifyFolderError(err error) ErrorKind {
	var scanErr *scanner.ScanError
	if errors.As(err, &scanErr) {
		switch scanErr.Type {
		case scanner.DirectoryNotFound:
			return FolderNotFound
		case scanner.PermissionDenied:
			return PermissionDenied
		}
	}
	if errors.Is(err, fs.ErrNotExist) {
		return FolderNotFound
	}
	return ClassifyError(err)
}
