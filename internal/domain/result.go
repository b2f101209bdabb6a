package domain

// ErrorKind classifies a failed operation for display purposes. UI code
// only branches on success/failure; the kind is informational.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindTransport    ErrorKind = "transport"
	KindServer       ErrorKind = "server"
	KindPrecondition ErrorKind = "precondition"
	KindAuth         ErrorKind = "auth"
)

// Failure is the error half of a Result.
type Failure struct {
	Kind    ErrorKind
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Unwrap exposes the sentinel matching the failure kind, so callers can use
// errors.Is(f, ErrValidation) and friends.
func (f *Failure) Unwrap() error {
	switch f.Kind {
	case KindValidation:
		return ErrValidation
	case KindTransport:
		return ErrTransport
	case KindPrecondition:
		return ErrPrecondition
	case KindAuth:
		return ErrUnauthorized
	}
	return nil
}

// Result is the single outcome type shared by every service call:
// either Ok carrying Data, or Err carrying a Failure.
type Result[T any] struct {
	Data T
	Err  *Failure
}

// Ok wraps a successful value.
func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// Err builds a failed result of the given kind.
func Err[T any](kind ErrorKind, message string) Result[T] {
	return Result[T]{Err: &Failure{Kind: kind, Message: message}}
}

// OK reports whether the result carries data.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Message returns the failure message, or "" on success.
func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Message
}
