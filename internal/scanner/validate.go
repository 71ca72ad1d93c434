package scanner

import (
	"errors"

	"github.com/spf13/afero"
)

// IsValidDirectory reports whether path exists and is a directory.
func IsValidDirectory(fsys afero.Fs, path string) bool {
	if path == "" {
		return false
	}
	ok, err := afero.IsDir(fsys, path)
	return err == nil && ok
}

// RequireExistingFolder returns a *ScanError when path is missing, is not a
// directory, or cannot be inspected.
func RequireExistingFolder(fsys afero.Fs, path string) error {
	if IsValidDirectory(fsys, path) {
		return nil
	}
	if path == "" {
		return &ScanError{
			Type: DirectoryNotFound,
			Path: path,
			Err:  errors.New("empty folder path"),
		}
	}

	info, err := fsys.Stat(path)
	if err != nil {
		return classify(path, err)
	}

	if !info.IsDir() {
		return &ScanError{
			Type: DirectoryNotFound,
			Path: path,
			Err:  errors.New("path is not a directory"),
		}
	}

	return nil
}
