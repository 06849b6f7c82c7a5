package sink

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/hub"
)

// DefaultLogFilePath is used when no path is configured.
const DefaultLogFilePath = "home_log.txt"

const logFilePermissions = 0644

// LogFile appends one line per event to a text file.
//
// The file is opened and closed for every event, so it can be rotated or
// removed while the hub runs. Failures are reported to the error writer
// and the logger and never reach the hub.
type LogFile struct {
	mu     sync.Mutex
	path   string
	errOut io.Writer
	logger Logger
}

// NewLogFile creates a LogFile sink for path. Errors go to os.Stderr
// until SetErrorOutput is called.
func NewLogFile(path string) *LogFile {
	if path == "" {
		path = DefaultLogFilePath
	}
	return &LogFile{
		path:   path,
		errOut: os.Stderr,
		logger: noopLogger{},
	}
}

// Path returns the file the sink appends to.
func (l *LogFile) Path() string {
	return l.path
}

// SetErrorOutput sets where write failures are printed.
func (l *LogFile) SetErrorOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errOut = w
}

// SetLogger sets the logger for write failures.
func (l *LogFile) SetLogger(logger Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = orNoop(logger)
}

// Notify implements hub.Observer.
func (l *LogFile) Notify(ev *device.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.append(FormatLine(ev) + "\n"); err != nil {
		fmt.Fprintf(l.errOut, "[LoggerObserver] Failed to write log: %v\n", err)
		l.logger.Warn("log file write failed", "path", l.path, "event_id", ev.ID, "error", err)
	}
}

func (l *LogFile) append(line string) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFilePermissions)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close() //nolint:errcheck // Write error takes precedence
		return err
	}
	return f.Close()
}

var _ hub.Observer = (*LogFile)(nil)
