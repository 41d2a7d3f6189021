package fileio

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/raven-betanet/elf-header/internal/utils"
)

// Handle is an open input file
type Handle interface {
	io.Reader
	io.Closer
	Fd() uintptr
}

// Opener acquires a Handle for a path
type Opener func(path string) (Handle, error)

// OSOpener opens path read-only on the local filesystem
func OSOpener(path string) (Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenError is returned when the input cannot be acquired
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("open %s: %v", e.Path, e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// ReadError is returned when reading the input fails
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// CloseError is returned when the input cannot be released
type CloseError struct {
	Fd  uintptr
	Err error
}

func (e *CloseError) Error() string { return fmt.Sprintf("close fd %d: %v", e.Fd, e.Err) }
func (e *CloseError) Unwrap() error { return e.Err }

// Reader reads the leading bytes of input files
type Reader struct {
	open   Opener
	logger *utils.Logger
}

// NewReader creates a Reader. A nil opener selects OSOpener and a nil
// logger selects utils.NewDefaultLogger.
func NewReader(open Opener, logger *utils.Logger) *Reader {
	if open == nil {
		open = OSOpener
	}
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Reader{open: open, logger: logger}
}

// WithHeader opens path, reads up to size bytes and calls fn with them while
// the file is still held. The file is closed on every return path.
//
// A file shorter than size is not an error here; fn receives the bytes that
// were available. An error from opening, reading or fn takes precedence over
// a close failure, which is then only logged.
func (r *Reader) WithHeader(path string, size int, fn func([]byte) error) (err error) {
	log := r.logger.WithComponent("fileio").WithField("path", path)

	h, err := r.open(path)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	fd := h.Fd()
	log.WithField("fd", fd).Debug("opened input")

	defer func() {
		cerr := h.Close()
		if cerr == nil {
			log.WithField("fd", fd).Debug("closed input")
			return
		}
		closeErr := &CloseError{Fd: fd, Err: cerr}
		if err == nil {
			err = closeErr
			return
		}
		log.WithError(closeErr).Warn("close failed after earlier error")
	}()

	buf := make([]byte, size)
	n, rerr := io.ReadFull(h, buf)
	switch {
	case rerr == nil:
	case errors.Is(rerr, io.EOF), errors.Is(rerr, io.ErrUnexpectedEOF):
		log.Debugf("short read: %d of %d bytes", n, size)
	default:
		return &ReadError{Path: path, Err: errors.Wrapf(rerr, "after %d bytes", n)}
	}

	return fn(buf[:n])
}
