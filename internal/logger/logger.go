package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// DefaultFilePath is the log file used when the config does not name one, relative to the working directory.
const DefaultFilePath = "logs/scatter.txt"

// Level orders log lines by severity.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Logger stores lines of text in memory (the terminal shows them as history) and appends them to a file on disk.
// Lines are also echoed to the console, colored by level. A nil *Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	lines   []string
	path    string
	console *termenv.Output
}

// New returns a Logger writing to path (DefaultFilePath when empty) and ensures its directory exists.
func New(path string) *Logger {
	if path == "" {
		path = DefaultFilePath
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	return &Logger{
		lines:   make([]string, 0),
		path:    path,
		console: termenv.NewOutput(os.Stdout),
	}
}

// NewWriter returns a Logger that keeps lines in memory and echoes them to w without styling. No file is written.
// Tests use it to capture output.
func NewWriter(w io.Writer) *Logger {
	return &Logger{lines: make([]string, 0), console: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
}

// Log appends an info line. Each entry is prefixed with [timestamp] using computer time.
func (l *Logger) Log(line string) {
	l.write(LevelInfo, line)
}

// Infof formats and logs an info line.
func (l *Logger) Infof(format string, args ...any) {
	l.write(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf formats and logs a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.write(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf formats and logs an error.
func (l *Logger) Errorf(format string, args ...any) {
	l.write(LevelError, fmt.Sprintf(format, args...))
}

func (l *Logger) write(level Level, line string) {
	if l == nil {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	stamped := "[" + ts + "] " + line
	if level != LevelInfo {
		stamped = "[" + ts + "] " + level.String() + " " + line
	}

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	l.mu.Unlock()

	if l.console != nil {
		_, _ = fmt.Fprintln(l.console, l.styled(level, stamped))
	}
	if l.path == "" {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

func (l *Logger) styled(level Level, s string) string {
	switch level {
	case LevelWarn:
		return l.console.String(s).Foreground(l.console.Color("#d7af00")).String()
	case LevelError:
		return l.console.String(s).Foreground(l.console.Color("#d70000")).Bold().String()
	default:
		return s
	}
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
