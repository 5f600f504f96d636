package logging

import (
	"bytes"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is a wrapper around the log.Logger from the charmbracelet/log package.
type Logger struct {
	*log.Logger
	buf *bytes.Buffer
}

var (
	logger *Logger
	once   sync.Once
	mu     sync.Mutex
)

// CreateLogger sets up the process logger. It must be called before using the
// package-level logging functions.
func CreateLogger() {
	once.Do(func() {
		baseLogger := log.New(os.Stderr)

		if os.Getenv("DEBUG") == "1" {
			baseLogger = log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				Prefix:          "dropkit",
			})
			baseLogger.SetLevel(log.DebugLevel)
		} else {
			baseLogger.SetLevel(log.InfoLevel)
		}

		mu.Lock()
		defer mu.Unlock()
		logger = &Logger{Logger: baseLogger}
	})
}

// NewTestLogger returns a logger that records output in memory so tests can
// assert on what was logged.
func NewTestLogger() *Logger {
	buf := &bytes.Buffer{}
	baseLogger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: false,
	})
	baseLogger.SetLevel(log.DebugLevel)
	return &Logger{Logger: baseLogger, buf: buf}
}

// SetTestLogger replaces the package-level logger, for tests that exercise the
// package-level functions.
func SetTestLogger(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Output returns everything recorded by a test logger.
func (l *Logger) Output() string {
	if l.buf == nil {
		return ""
	}
	return l.buf.String()
}

// BaseLogger returns the underlying *log.Logger.
func (l *Logger) BaseLogger() *log.Logger {
	return l.Logger
}

// GetLogger returns the Logger instance.
func GetLogger() *Logger {
	ensureInitialized()
	return logger
}

// Debug logs debug messages if debug logging is enabled.
func Debug(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Debug(msg, keyvals...)
}

// Info logs informational messages.
func Info(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Info(msg, keyvals...)
}

// Warn logs warning messages.
func Warn(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Warn(msg, keyvals...)
}

// Error logs error messages.
func Error(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Error(msg, keyvals...)
}

// Fatal logs a fatal message and exits the program.
func Fatal(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Fatal(msg, keyvals...)
}

func ensureInitialized() {
	mu.Lock()
	initialized := logger != nil
	mu.Unlock()
	if !initialized {
		CreateLogger()
	}
}
