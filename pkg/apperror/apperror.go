package apperror

import (
	"fmt"
	"strings"
)

// AppError is an operational error whose message is safe to return to clients.
type AppError struct {
	StatusCode    int
	Status        string
	Message       string
	IsOperational bool
}

// New creates an operational AppError. 4xx codes get the "fail" status, everything else "error".
func New(message string, statusCode int) *AppError {
	status := "error"
	if strings.HasPrefix(fmt.Sprint(statusCode), "4") {
		status = "fail"
	}
	return &AppError{
		StatusCode:    statusCode,
		Status:        status,
		Message:       message,
		IsOperational: true,
	}
}

func (e *AppError) Error() string {
	return e.Message
}

// CastError reports a value that could not be converted to the type stored at Path.
type CastError struct {
	Path  string
	Value string
	Err   error
}

// NewCastError wraps a conversion failure for the given path.
func NewCastError(path, value string, err error) *CastError {
	return &CastError{Path: path, Value: value, Err: err}
}

func (e *CastError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cast to %s failed for value %q: %v", e.Path, e.Value, e.Err)
	}
	return fmt.Sprintf("cast to %s failed for value %q", e.Path, e.Value)
}

func (e *CastError) Unwrap() error {
	return e.Err
}
