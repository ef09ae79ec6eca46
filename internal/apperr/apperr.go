package apperr

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream error")
)

// Error carries a human readable message and the kind it belongs to.
// errors.Is(err, ErrNotFound) matches any Error built with that kind.
type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the sentinel kind of err, or ErrUpstream when err is not
// one of ours.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrUnauthorized, ErrUpstream} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrUpstream
}

// Message returns the message meant for the caller. Upstream failures are
// opaque.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.kind != ErrUpstream {
		return e.msg
	}
	return "database error"
}
