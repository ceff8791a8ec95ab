package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

var (
	current atomic.Int32
	std     = stdlog.New(io.Discard, "", stdlog.LstdFlags)
)

func init() {
	current.Store(int32(Info))
}

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "err", "error":
		return Error
	default:
		return Info
	}
}

func SetLevel(l Level) { current.Store(int32(l)) }

func CurrentLevel() Level { return Level(current.Load()) }

// SetOutput redirects log lines. Output is discarded until this is called
// because the TUI owns stdout and stderr.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	std.SetOutput(w)
}

func enabled(l Level) bool { return CurrentLevel() <= l }

func Debugf(format string, v ...any) {
	if enabled(Debug) {
		std.Printf("[DEBUG] "+format, v...)
	}
}

func Infof(format string, v ...any) {
	if enabled(Info) {
		std.Printf("[INFO] "+format, v...)
	}
}

func Warnf(format string, v ...any) {
	if enabled(Warn) {
		std.Printf("[WARN] "+format, v...)
	}
}

func Errorf(format string, v ...any) {
	if enabled(Error) {
		std.Printf("[ERROR] "+format, v...)
	}
}

// InitFromEnvFallback applies level, letting TASKLIST_LOG_LEVEL override it.
func InitFromEnvFallback(level string) {
	if env := os.Getenv("TASKLIST_LOG_LEVEL"); env != "" {
		level = env
	}
	SetLevel(ParseLevel(level))
}
