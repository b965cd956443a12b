package errprocess

import (
	"errors"

	"overlay_editor_service/pkg/logger"

	"go.uber.org/zap"
)

// Kind classify editor errors, every kind is recoverable by the user
type Kind string

const (
	// Validation bad input (no video, wrong file type, too large ...)
	Validation Kind = "validation"
	// Connectivity render service unreachable or request failed
	Connectivity Kind = "connectivity"
	// Timeout request exceeded its bound
	Timeout Kind = "timeout"
	// Remote render job reported failure
	Remote Kind = "remote"
	// State operation not allowed in current state
	State Kind = "state"
	// NotFound unknown overlay or job
	NotFound Kind = "not_found"
)

// Error editor error with kind
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is two editor errors match when kind and message match
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == e.Msg
}

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// New log and return a kinded error
func New(kind Kind, msg string, cause error) *Error {
	e := &Error{Kind: kind, Msg: msg, Err: cause}
	if kind == Validation || kind == State || kind == NotFound {
		logger.Log.Warn(msg, zap.String("kind", string(kind)), zap.Error(cause))
	} else {
		logger.Log.Error(msg, zap.String("kind", string(kind)), zap.Error(cause))
	}
	return e
}

// KindOf return kind of err, "" when err is not an editor error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind check err kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
