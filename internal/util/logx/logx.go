package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var (
	mu       sync.Mutex
	level    = Info
	buf      = make([]string, 0, 500)
	maxLines = 500
	// sink receives structured copies of every kept line; nil until a file or
	// writer is configured. Stderr stays off by default so the TUI is not
	// corrupted; enable via BIZADMIN_LOG_STDERR=1.
	sink     *zerolog.Logger
	closer   io.Closer
	toStderr = false
)

func SetLevel(l Level) { mu.Lock(); level = l; mu.Unlock() }

func SetLevelFromEnv() {
	lv := strings.ToLower(strings.TrimSpace(os.Getenv("BIZADMIN_LOG_LEVEL")))
	switch lv {
	case "debug":
		SetLevel(Debug)
	case "info":
		SetLevel(Info)
	case "warn", "warning":
		SetLevel(Warn)
	case "error":
		SetLevel(Error)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("BIZADMIN_LOG_STDERR"))); v != "" {
		mu.Lock()
		toStderr = v != "0" && v != "false" && v != "no"
		mu.Unlock()
	}
}

// FileOptions configures the rotated log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

// SetFile routes structured log events to a rotated file.
func SetFile(o FileOptions) {
	if o.Path == "" {
		return
	}
	if o.MaxSizeMB == 0 {
		o.MaxSizeMB = 10
	}
	if o.MaxBackups == 0 {
		o.MaxBackups = 5
	}
	lj := &lumberjack.Logger{
		Filename:   o.Path,
		MaxSize:    o.MaxSizeMB,
		MaxBackups: o.MaxBackups,
		MaxAge:     28,
		Compress:   o.Compress,
	}
	SetOutput(lj)
	mu.Lock()
	closer = lj
	mu.Unlock()
}

// SetOutput routes structured log events to w; nil disables the sink.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		sink = nil
		return
	}
	l := zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Str("app", "bizadmin").Logger()
	sink = &l
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	sink = nil
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

func Debugf(format string, a ...any) { logf(Debug, "DEBUG", format, a...) }
func Infof(format string, a ...any)  { logf(Info, "INFO", format, a...) }
func Warnf(format string, a ...any)  { logf(Warn, "WARN", format, a...) }
func Errorf(format string, a ...any) { logf(Error, "ERROR", format, a...) }

func logf(l Level, tag, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	msg := fmt.Sprintf(format, a...)
	ts := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	line := fmt.Sprintf("%s %-5s %s", ts, tag, msg)
	if len(buf) >= maxLines {
		// drop oldest
		copy(buf[0:], buf[1:])
		buf = buf[:len(buf)-1]
	}
	buf = append(buf, line)
	if sink != nil {
		sink.WithLevel(zlevel(l)).Msg(msg)
	}
	if toStderr {
		fmt.Fprintln(os.Stderr, line)
	}
}

func zlevel(l Level) zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func Dump() string {
	mu.Lock()
	defer mu.Unlock()
	return strings.Join(buf, "\n")
}

func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(buf))
	copy(out, buf)
	return out
}

// Reset clears the in-memory ring.
func Reset() {
	mu.Lock()
	buf = buf[:0]
	mu.Unlock()
}
