// Package apperr holds the client/server error kinds shared by the store
// and the HTTP layer. Status codes are assigned in internal/api only.
package apperr

import "fmt"

type ClientKind int

const (
	NotFound ClientKind = iota
	InvalidInput
)

func (k ClientKind) String() string {
	switch k {
	case NotFound:
		return "resource not found"
	case InvalidInput:
		return "invalid input"
	default:
		return "client error"
	}
}

// ClientError is caused by the caller: an unknown resource or malformed input.
type ClientError struct {
	Kind ClientKind
	Msg  string
}

func (e *ClientError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

func NewNotFound(format string, args ...any) error {
	return &ClientError{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

func NewInvalidInput(format string, args ...any) error {
	return &ClientError{Kind: InvalidInput, Msg: fmt.Sprintf(format, args...)}
}

type ServerKind int

const (
	Database ServerKind = iota
	FileIO
)

func (k ServerKind) String() string {
	switch k {
	case Database:
		return "database error"
	case FileIO:
		return "file i/o error"
	default:
		return "server error"
	}
}

// ServerError wraps an internal failure with the operation that hit it.
type ServerError struct {
	Kind ServerKind
	Op   string
	Err  error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }

func NewDatabase(op string, err error) error {
	return &ServerError{Kind: Database, Op: op, Err: err}
}

func NewFileIO(op string, err error) error {
	return &ServerError{Kind: FileIO, Op: op, Err: err}
}
