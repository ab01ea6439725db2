// Package errors holds the failure classes shared by the light manager and
// the HTTP API. Import it in place of the standard errors package.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNotFound is returned when a light or bridge doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for malformed IDs, values and configuration
	ErrInvalidInput = errors.New("invalid input")
	// ErrDeviceUnavailable is returned when the bridge can't be reached
	ErrDeviceUnavailable = errors.New("bridge unavailable")
	// ErrInternal is returned for failures that are nobody's input
	ErrInternal = errors.New("internal error")
)

// LogErrorAndReturn logs err with message and the key/value pairs in args,
// then returns it unchanged. A nil logger logs to the default logger.
func LogErrorAndReturn(logger *slog.Logger, err error, message string, args ...any) error {
	if err == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(message, append([]any{"error", err}, args...)...)
	return err
}

// WrapErrorf prefixes err with a formatted message; nil stays nil
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return wrapf(err, format, args)
}

func wrapf(target error, format string, args []any) error {
	return fmt.Errorf(format+": %w", append(args, target)...)
}

// NotFoundf returns a formatted ErrNotFound error
func NotFoundf(format string, args ...any) error { return wrapf(ErrNotFound, format, args) }

// InvalidInputf returns a formatted ErrInvalidInput error
func InvalidInputf(format string, args ...any) error { return wrapf(ErrInvalidInput, format, args) }

// DeviceUnavailablef returns a formatted ErrDeviceUnavailable error
func DeviceUnavailablef(format string, args ...any) error {
	return wrapf(ErrDeviceUnavailable, format, args)
}

// Internalf returns a formatted ErrInternal error
func Internalf(format string, args ...any) error { return wrapf(ErrInternal, format, args) }

// IsNotFound reports whether err wraps ErrNotFound
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidInput reports whether err wraps ErrInvalidInput
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsDeviceUnavailable reports whether err wraps ErrDeviceUnavailable
func IsDeviceUnavailable(err error) bool { return errors.Is(err, ErrDeviceUnavailable) }

// IsInternal reports whether err wraps ErrInternal
func IsInternal(err error) bool { return errors.Is(err, ErrInternal) }

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target
func As(err error, target any) bool { return errors.As(err, target) }

// Join wraps the non-nil errors in errs
func Join(errs ...error) error { return errors.Join(errs...) }
