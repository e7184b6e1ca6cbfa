package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSourceNotFound = errors.New("source not found")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrOutputLocked   = errors.New("output locked")
	ErrOutput         = errors.New("output error")
)

type ErrorKind string

const (
	KindSourceNotFound ErrorKind = "source_not_found"
	KindInvalidConfig  ErrorKind = "invalid_config"
	KindOutputLocked   ErrorKind = "output_locked"
	KindOutput         ErrorKind = "output"
)

// OpError wraps an underlying error with the operation and a coarse kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match an OpError against the sentinel for its kind.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindSourceNotFound:
		return target == ErrSourceNotFound
	case KindInvalidConfig:
		return target == ErrInvalidConfig
	case KindOutputLocked:
		return target == ErrOutputLocked
	case KindOutput:
		return target == ErrOutput
	}
	return false
}

func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}
