// Package naming computes target filenames for bulkrename.
package naming

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder is the token a pattern may contain to mark where the index goes.
const Placeholder = "{index}"

// MinIndexWidth is the minimum number of digits rendered for an index.
const MinIndexWidth = 3

// ErrInvalidPattern is matched by every PatternError.
var ErrInvalidPattern = errors.New("invalid pattern")

// PatternError describes why a pattern cannot be used.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// Plan is the computed rename for one file.
type Plan struct {
	OriginalName string
	TargetName   string
	Index        int
}

// Changed reports whether applying the plan would change the filename.
func (p Plan) Changed() bool {
	return p.OriginalName != p.TargetName
}

// HasPlaceholder reports whether pattern contains the {index} token.
func HasPlaceholder(pattern string) bool {
	return strings.Contains(pattern, Placeholder)
}

// ValidatePattern rejects patterns that would produce an empty stem or
// escape the folder being renamed.
func ValidatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return &PatternError{Pattern: pattern, Reason: "pattern cannot be empty"}
	}
	if strings.ContainsAny(pattern, `/\`) {
		return &PatternError{Pattern: pattern, Reason: "pattern cannot contain path separators"}
	}
	if strings.ContainsRune(pattern, 0) {
		return &PatternError{Pattern: pattern, Reason: "pattern cannot contain NUL"}
	}
	return nil
}

// FormatIndex renders index zero-padded to MinIndexWidth digits.
// Wider indices are never truncated: 1000 renders as "1000".
func FormatIndex(index int) string {
	return fmt.Sprintf("%0*d", MinIndexWidth, index)
}

// ComputeName builds the new filename for the file at the given 1-based index.
//
// A pattern containing {index} has each token replaced with "_NNN"; any other
// pattern is treated as a prefix and becomes "prefix_NNN". The extension is
// appended unchanged in both cases.
func ComputeName(pattern string, index int, extension string) string {
	serial := FormatIndex(index)
	if HasPlaceholder(pattern) {
		return strings.ReplaceAll(pattern, Placeholder, "_"+serial) + extension
	}
	return pattern + "_" + serial + extension
}

// Extension returns the suffix of name starting at its last dot.
// Names without a dot, and names whose only dot is the leading one
// (".bashrc"), have no extension.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	if strings.TrimLeft(name[:i], ".") == "" {
		return ""
	}
	return name[i:]
}

// NewPlan computes the Plan for a single file whose extension, as returned
// by Extension, is already known.
func NewPlan(pattern, originalName, extension string, index int) Plan {
	return Plan{
		OriginalName: originalName,
		TargetName:   ComputeName(pattern, index, extension),
		Index:        index,
	}
}
