package yuv

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig matches every *ConfigError.
	ErrConfig = errors.New("invalid configuration")
	// ErrShortRead matches every *ShortReadError.
	ErrShortRead = errors.New("short read")
)

// ConfigError reports an input that makes the run impossible before any frame is read.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// Configf builds a *ConfigError for field.
func Configf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ShortReadError reports a stream that ended before a whole frame or mask plane.
type ShortReadError struct {
	Stream string // "reference", "test" or "mask"
	Frame  int
	Want   int
	Got    int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("short read on %s stream at frame %d: want %d bytes, got %d",
		e.Stream, e.Frame, e.Want, e.Got)
}

func (e *ShortReadError) Is(target error) bool { return target == ErrShortRead }
