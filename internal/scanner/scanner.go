// Package scanner lists and validates the folders bulkrename operates on.
package scanner

import (
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/spf13/afero"

	"bulkrename/internal/naming"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist or is not a directory.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// ReadFailed covers any other failure to read the directory.
	ReadFailed ScanErrorType = "READ_FAILED"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Path + " (" + e.Err.Error() + ")"
	}
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Entry is one directory entry in sorted order.
type Entry struct {
	Name      string
	Extension string // Suffix from the last dot, empty if none
	Index     int    // 1-based rank used for the serial number, 0 if not numbered
	IsRegular bool
}

// ListOptions configures how entries are numbered.
type ListOptions struct {
	// Contiguous numbers regular files only. When false every entry,
	// sub-folders included, consumes an index.
	Contiguous bool
}

// List reads every entry of directory, sorts them by byte-wise name and
// assigns sequence indices.
func List(fsys afero.Fs, directory string, opts ListOptions) ([]Entry, error) {
	if err := RequireExistingFolder(fsys, directory); err != nil {
		return nil, err
	}

	infos, err := readDir(fsys, directory)
	if err != nil {
		return nil, err
	}

	// Go string comparison is byte-wise, so the order does not depend on locale.
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	entries := make([]Entry, 0, len(infos))
	next := 1
	for _, info := range infos {
		entry := Entry{
			Name:      info.Name(),
			IsRegular: info.Mode().IsRegular(),
		}
		if entry.IsRegular {
			entry.Extension = naming.Extension(entry.Name)
		}
		if !opts.Contiguous || entry.IsRegular {
			entry.Index = next
			next++
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func readDir(fsys afero.Fs, directory string) ([]os.FileInfo, error) {
	dir, err := fsys.Open(directory)
	if err != nil {
		return nil, classify(directory, err)
	}
	defer dir.Close()

	infos, err := dir.Readdir(-1)
	if err != nil {
		return nil, classify(directory, err)
	}
	return infos, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &ScanError{Type: DirectoryNotFound, Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &ScanError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return &ScanError{Type: ReadFailed, Path: path, Err: err}
	}
}
