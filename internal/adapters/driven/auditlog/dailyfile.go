// Package auditlog writes the append-only audit log, one file per calendar day.
package auditlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
	"github.com/custodia-labs/gitsync/internal/logger"
)

// Layouts of the entry header and the day file name.
// The header appends the microseconds after a colon, which no time layout can express.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	FileNameLayout  = "2006-01-02"
)

// Ensure DailyFile implements the interface.
var _ driven.AuditLog = (*DailyFile)(nil)

// DailyFile appends entries to <dir>/<yyyy-MM-dd>.log.
// The day is taken from the clock at append time, so a long-running process
// rolls over to a new file at midnight. Appends are serialised.
type DailyFile struct {
	dir      string
	clock    clockwork.Clock
	fallback io.Writer

	mu      sync.Mutex
	day     string
	file    *os.File
	dirMade bool
}

// Option configures a DailyFile.
type Option func(*DailyFile)

// WithClock replaces the clock used to pick the day file.
func WithClock(clock clockwork.Clock) Option {
	return func(d *DailyFile) {
		d.clock = clock
	}
}

// WithFallback sets where entries go when the day file cannot be written.
// Defaults to os.Stderr.
func WithFallback(w io.Writer) Option {
	return func(d *DailyFile) {
		d.fallback = w
	}
}

// NewDailyFile creates an audit log writing into dir.
// The directory is created on first append.
func NewDailyFile(dir string, opts ...Option) *DailyFile {
	d := &DailyFile{
		dir:      dir,
		clock:    clockwork.NewRealClock(),
		fallback: os.Stderr,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DefaultDir returns the logs directory next to the running executable,
// or "logs" in the working directory when the executable cannot be located.
func DefaultDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "logs"
	}
	return filepath.Join(filepath.Dir(exe), "logs")
}

// Append writes entry. Whitespace-only bodies are ignored.
// When the day file cannot be written the formatted entry goes to the
// fallback writer and the write error is returned.
func (d *DailyFile) Append(entry domain.LogEntry) error {
	if strings.TrimSpace(entry.Body) == "" {
		return nil
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = d.clock.Now()
	}
	text := Format(entry)

	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.fileLocked()
	if err == nil {
		_, err = io.WriteString(f, text)
	}
	if err != nil {
		_, _ = io.WriteString(d.fallback, text)
		return fmt.Errorf("writing audit log: %w", err)
	}
	return nil
}

// Path returns the file entries are written to today.
func (d *DailyFile) Path() string {
	return filepath.Join(d.dir, d.clock.Now().Format(FileNameLayout)+".log")
}

// Close closes the current day file.
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	d.day = ""
	return err
}

// fileLocked returns the open file for today (caller must hold mu).
func (d *DailyFile) fileLocked() (*os.File, error) {
	day := d.clock.Now().Format(FileNameLayout)
	if d.file != nil && d.day == day {
		return d.file, nil
	}

	if d.file != nil {
		if err := d.file.Close(); err != nil {
			logger.Warn("closing audit log %s: %v", d.day, err)
		}
		d.file = nil
	}

	if !d.dirMade {
		if err := os.MkdirAll(d.dir, 0755); err != nil {
			return nil, err
		}
		d.dirMade = true
	}

	path := filepath.Join(d.dir, day+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		d.dirMade = false
		return nil, err
	}
	d.file = f
	d.day = day
	return f, nil
}

// Format renders entry as a block of lines followed by a blank line:
//
//	[2006-01-02 15:04:05:000000]
//	[Log from Info]
//	Workfolder: /path/to/repo
//	body
func Format(entry domain.LogEntry) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(FormatTimestamp(entry.Timestamp))
	b.WriteString("]\n[Log from ")
	b.WriteString(entry.Kind.String())
	b.WriteString("]\n")
	if entry.Workfolder != "" {
		b.WriteString("Workfolder: ")
		b.WriteString(entry.Workfolder)
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimRight(entry.Body, "\r\n"))
	b.WriteString("\n\n")
	return b.String()
}

// FormatTimestamp renders ts as "2006-01-02 15:04:05:000000".
func FormatTimestamp(ts time.Time) string {
	return fmt.Sprintf("%s:%06d", ts.Format(TimestampLayout), ts.Nanosecond()/int(time.Microsecond))
}
