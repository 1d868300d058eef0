package core

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal pipeline error
type Kind int

const (
	KindUnknown Kind = iota
	KindUsage
	KindTransport
	KindParse
	KindFilesystem
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage error"
	case KindTransport:
		return "network error"
	case KindParse:
		return "parse error"
	case KindFilesystem:
		return "filesystem error"
	default:
		return "error"
	}
}

// ExitCode is the process exit status reported for errors of this kind
func (k Kind) ExitCode() int {
	switch k {
	case KindUsage:
		return 2
	case KindTransport:
		return 3
	case KindParse:
		return 4
	case KindFilesystem:
		return 5
	default:
		return 1
	}
}

// Error wraps a cause with its Kind
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// UsageError reports invalid arguments or configuration
func UsageError(format string, args ...interface{}) error {
	return newError(KindUsage, format, args...)
}

// TransportError reports a failed download
func TransportError(format string, args ...interface{}) error {
	return newError(KindTransport, format, args...)
}

// ParseError reports malformed XML or a failed XPath evaluation
func ParseError(format string, args ...interface{}) error {
	return newError(KindParse, format, args...)
}

// FilesystemError reports directory creation or file write failures
func FilesystemError(format string, args ...interface{}) error {
	return newError(KindFilesystem, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
