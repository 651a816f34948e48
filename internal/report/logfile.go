package report

import (
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
)

// LogFile appends report lines to a shared file under an OS file lock, so
// concurrent harness processes writing to the same log do not interleave
// mid-run. The lock is held for the lifetime of the run.
type LogFile struct {
	f    *os.File
	lock *flock.Flock
}

// OpenLogFile acquires the lock for path and opens it for appending. The
// companion ".lock" file carries the flock so the log itself can be tailed
// while a run holds the lock.
func OpenLogFile(path string) (*LogFile, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock log file %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	return &LogFile{f: f, lock: lock}, nil
}

// Writer returns the underlying append writer.
func (l *LogFile) Writer() io.Writer {
	return l.f
}

// Close flushes the file and releases the lock.
func (l *LogFile) Close() error {
	err := l.f.Close()
	if uerr := l.lock.Unlock(); err == nil {
		err = uerr
	}
	return err
}
