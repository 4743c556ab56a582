// Package xlog centralizes structured logging and the error kinds named
// in the error-handling design: DecodeError, StoreError, and NoMatch.
// DuplicateTone / DuplicateAddressCouple are not modeled as errors —
// callers that hit them simply no-op.
package xlog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mdobak/go-xerrors"
)

var (
	once    sync.Once
	logger  *slog.Logger
	handler slog.Handler
)

// Logger returns the process-wide structured logger, building it lazily
// with a text handler on first use.
func Logger() *slog.Logger {
	once.Do(func() {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
		logger = slog.New(handler)
	})
	return logger
}

// SetVerbose raises or lowers the log level, wired to the CLI --verbose flag.
func SetVerbose(verbose bool) {
	once.Do(func() {}) // keep a later Logger() call from replacing this handler
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
}

// Wrap attaches a stack trace to err via go-xerrors, labeled with op.
// Returns nil if err is nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return xerrors.New(fmt.Errorf("%s: %w", op, err))
}

// DecodeError is fatal for the file/clip being processed: malformed WAVE,
// unsupported bit width, or a failing external decoder subprocess.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError wraps err as a DecodeError for the given path.
func NewDecodeError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Path: path, Err: err}
}

// StoreError surfaces any index-store failure other than the two
// silently-accepted duplicate cases.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err as a StoreError for the given operation name.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// ErrNoMatch reports that search found no tone meeting any threshold.
// It is not a failure: callers report it as "not found".
var ErrNoMatch = xerrors.New("no match")
