package hue

import (
	"errors"
	"fmt"
)

// Errors returned by the bridge client
var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrAlreadyAuthorized      = errors.New("already authorized")
	ErrNotAuthorized          = errors.New("no application key")
	ErrConnection             = errors.New("bridge connection failed")
	ErrUnsupported            = errors.New("unsupported by light")
	ErrUnexpected             = errors.New("unexpected bridge response")
	ErrUnknown                = errors.New("unknown bridge error")
	ErrInvalidApplicationName = errors.New("invalid application name")
	ErrInvalidDeviceName      = errors.New("invalid device name")
)

// ErrorCode is the numeric error type of the bridge's v1 API
type ErrorCode int

const (
	ErrorCodeUnauthorized               ErrorCode = 1
	ErrorCodeInvalidJSON                ErrorCode = 2
	ErrorCodeResourceNotAvailable       ErrorCode = 3
	ErrorCodeResourceMethodNotAvailable ErrorCode = 4
	ErrorCodeParameterMissing           ErrorCode = 5
	ErrorCodeParameterNotAvailable      ErrorCode = 6
	ErrorCodeParameterValue             ErrorCode = 7
	ErrorCodeParameterNotModifiable     ErrorCode = 8
	ErrorCodeTooManyItems               ErrorCode = 11
	ErrorCodePortalConnectionRequired   ErrorCode = 12
	ErrorCodeLinkButtonNotPressed       ErrorCode = 101
	ErrorCodeInternalError              ErrorCode = 901
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeUnauthorized:
		return "unauthorized user"
	case ErrorCodeInvalidJSON:
		return "invalid json"
	case ErrorCodeResourceNotAvailable:
		return "resource not available"
	case ErrorCodeResourceMethodNotAvailable:
		return "method not available for resource"
	case ErrorCodeParameterMissing:
		return "missing parameters in body"
	case ErrorCodeParameterNotAvailable:
		return "parameter not available"
	case ErrorCodeParameterValue:
		return "invalid value for parameter"
	case ErrorCodeParameterNotModifiable:
		return "parameter is not modifiable"
	case ErrorCodeTooManyItems:
		return "too many items in list"
	case ErrorCodePortalConnectionRequired:
		return "portal connection required"
	case ErrorCodeLinkButtonNotPressed:
		return "link button not pressed"
	case ErrorCodeInternalError:
		return "internal error"
	default:
		return fmt.Sprintf("error %d", int(c))
	}
}

// APIError is an error object returned by the bridge in a v1 response
type APIError struct {
	Type        ErrorCode `json:"type"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("bridge error %d at %q: %s", int(e.Type), e.Address, e.Description)
	}
	return fmt.Sprintf("bridge error %d at %q: %s", int(e.Type), e.Address, e.Type)
}

// Unwrap maps the bridge error code onto the package sentinels
func (e *APIError) Unwrap() error {
	switch e.Type {
	case ErrorCodeUnauthorized, ErrorCodeLinkButtonNotPressed:
		return ErrUnauthorized
	default:
		return ErrUnknown
	}
}
