package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"flowlog/render"
)

// FileOptions controls file sink construction.
type FileOptions struct {
	// Lock acquires an advisory flock on a sibling ".lock" file for the
	// sink's lifetime, serializing appends across processes.
	Lock bool
}

// File appends rendered events to a log file.
type File struct {
	path string
	file *os.File
	lock *flock.Flock
}

// NewFile opens (creating if needed) path for appending. Parent directories
// are created.
func NewFile(path string, opts FileOptions) (*File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}

	var lock *flock.Flock
	if opts.Lock {
		lock = flock.New(path + ".lock")
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire log lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("log file %s is locked by another process", path)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	return &File{path: path, file: file, lock: lock}, nil
}

// Write implements Sink.
func (f *File) Write(ev render.Event) error {
	if _, err := f.file.Write(append(ev.Bytes, '\n')); err != nil {
		return fmt.Errorf("append to %s: %w", f.path, err)
	}
	return nil
}

// Sync flushes the file to stable storage.
func (f *File) Sync() error {
	return f.file.Sync()
}

// Close releases the file and, when held, the advisory lock.
func (f *File) Close() error {
	err := f.file.Close()
	if f.lock != nil {
		if lerr := f.lock.Unlock(); lerr != nil && err == nil {
			err = lerr
		}
	}
	if err != nil {
		return fmt.Errorf("close log file %s: %w", f.path, err)
	}
	return nil
}

// Path returns the file path the sink appends to.
func (f *File) Path() string { return f.path }
