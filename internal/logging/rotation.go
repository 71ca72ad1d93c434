package logging

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Default rotation limits for the log file.
const (
	DefaultMaxBytes int64 = 5 * 1024 * 1024
	DefaultBackups        = 3
)

// RotationConfig holds the size-based rotation settings for a RotatingFile.
type RotationConfig struct {
	MaxBytes int64 // Rotate before a write would reach this size, 0 disables rotation
	Backups  int   // Number of rotated files kept as path.1 .. path.N, 0 disables rotation
}

// RotatingFile is an append-only file that rolls over to numbered backups
// once it grows past MaxBytes. The newest backup is path.1.
type RotatingFile struct {
	mu     sync.Mutex
	path   string
	config RotationConfig
	file   *os.File
	writer *bufio.Writer
	size   int64
}

// OpenRotatingFile opens path for appending, creating the parent directory if needed.
func OpenRotatingFile(path string, config RotationConfig) (*RotatingFile, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	rf := &RotatingFile{
		path:   path,
		config: config,
	}
	if err := rf.open(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (rf *RotatingFile) open() error {
	file, err := os.OpenFile(rf.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	rf.file = file
	rf.writer = bufio.NewWriter(file)
	rf.size = info.Size()
	return nil
}

// Write appends p as one record, rotating first if p would push the file
// past MaxBytes. Records are flushed before Write returns.
func (rf *RotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return 0, fs.ErrClosed
	}

	if rf.needsRotation(int64(len(p))) {
		if err := rf.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := rf.writer.Write(p)
	rf.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("failed to write log record: %w", err)
	}
	if err := rf.writer.Flush(); err != nil {
		return n, fmt.Errorf("failed to flush log record: %w", err)
	}
	return n, nil
}

// needsRotation mirrors a size check done before each record is written.
// An empty file is never rotated, so a record larger than MaxBytes still lands.
func (rf *RotatingFile) needsRotation(incoming int64) bool {
	if rf.config.MaxBytes <= 0 || rf.config.Backups <= 0 {
		return false
	}
	return rf.size > 0 && rf.size+incoming >= rf.config.MaxBytes
}

// rotate closes the active file, shifts path.N-1 -> path.N down to
// path -> path.1 and reopens an empty active file.
func (rf *RotatingFile) rotate() error {
	if err := rf.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush log before rotation: %w", err)
	}
	if err := rf.file.Close(); err != nil {
		return fmt.Errorf("failed to close log for rotation: %w", err)
	}
	rf.file = nil

	oldest := BackupName(rf.path, rf.config.Backups)
	if err := os.Remove(oldest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove oldest log backup: %w", err)
	}

	for i := rf.config.Backups - 1; i >= 1; i-- {
		src := BackupName(rf.path, i)
		if err := os.Rename(src, BackupName(rf.path, i+1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to shift log backup %s: %w", src, err)
		}
	}

	if err := os.Rename(rf.path, BackupName(rf.path, 1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	return rf.open()
}

// Close flushes any buffered data and closes the active file.
func (rf *RotatingFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return nil
	}
	if err := rf.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	err := rf.file.Close()
	rf.file = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// BackupName returns the name of the n-th rotated backup of path.
func BackupName(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
