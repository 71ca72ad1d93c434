// Package logging provides the leveled console and rotating-file logger
// used by bulkrename. A Logger is built once by the caller and passed down;
// there is no package-level logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel converts a level name such as "info" or "DEBUG" into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "", "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// DefaultName is the logger name written into file records.
const DefaultName = "bulkrename"

// ColorMode selects whether console level tags are styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Options configures a Logger.
type Options struct {
	Name     string         // Logger name in file records (default: DefaultName)
	Level    Level          // Minimum level emitted
	File     string         // Log file path, empty disables the file sink
	Rotation RotationConfig // Rotation limits for File
	Console  io.Writer      // Destination for DEBUG/INFO/WARNING (default: os.Stdout)
	Errors   io.Writer      // Destination for ERROR (default: os.Stderr)
	Color    ColorMode      // Console styling (default: ColorAuto)
}

var levelStyles = map[Level]lipgloss.Style{
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Bold(true),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
}

// Logger writes leveled records to the console and, optionally, a rotating file.
type Logger struct {
	mu      sync.Mutex
	name    string
	level   Level
	color   bool
	console io.Writer
	errors  io.Writer
	file    *RotatingFile
	now     func() time.Time
}

// New builds a Logger from opts, opening the log file when one is configured.
func New(opts Options) (*Logger, error) {
	l := &Logger{
		name:    opts.Name,
		level:   opts.Level,
		console: opts.Console,
		errors:  opts.Errors,
		now:     time.Now,
	}
	if l.name == "" {
		l.name = DefaultName
	}
	if l.console == nil {
		l.console = os.Stdout
	}
	if l.errors == nil {
		l.errors = os.Stderr
	}
	l.color = colorEnabled(opts.Color, l.console)

	if opts.File != "" {
		rf, err := OpenRotatingFile(opts.File, opts.Rotation)
		if err != nil {
			return nil, err
		}
		l.file = rf
	}

	return l, nil
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return &Logger{
		name:    DefaultName,
		level:   LevelError + 1,
		console: io.Discard,
		errors:  io.Discard,
		now:     time.Now,
	}
}

func colorEnabled(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == "" && strings.ToLower(os.Getenv("TERM")) != "dumb"
}

// Close flushes and closes the file sink.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) log(level Level, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	tag := level.String()
	out := l.console
	if level >= LevelError {
		out = l.errors
	}
	if l.color {
		_, _ = io.WriteString(out, levelStyles[level].Render(tag)+" - "+text+"\n")
	} else {
		_, _ = io.WriteString(out, tag+" - "+text+"\n")
	}

	if l.file != nil {
		ts := l.now().Format("2006-01-02 15:04:05")
		record := ts + " - " + tag + " - " + l.name + " - " + text + "\n"
		if _, err := l.file.Write([]byte(record)); err != nil {
			_, _ = fmt.Fprintf(l.errors, "warning: failed to write log file: %v\n", err)
		}
	}
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level; console output goes to the error writer.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}
