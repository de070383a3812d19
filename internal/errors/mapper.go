package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Recoverable reports whether an error belongs to the classes the
// orchestration loop converts into tool-result messages instead of
// surfacing to the caller.
func Recoverable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUnknownTool) ||
		errors.Is(err, ErrInvalidArguments) ||
		errors.Is(err, ErrToolExecution) ||
		errors.Is(err, ErrMalformedModelOutput)
}

// MapProviderError maps raw provider/SDK errors onto the taxonomy. Context
// errors propagate as-is so cancellation stays distinguishable upstream.
func MapProviderError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timeout: %w", ErrTransient)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "rate limit"), strings.Contains(errStr, "quota"), strings.Contains(errStr, "too many requests"):
		return fmt.Errorf("rate limited: %w", ErrTransient)
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return fmt.Errorf("request timeout: %w", ErrTransient)
	case strings.Contains(errStr, "network"), strings.Contains(errStr, "connection"), strings.Contains(errStr, "unreachable"):
		return fmt.Errorf("network error: %w", ErrTransient)
	case strings.Contains(errStr, "not found"), strings.Contains(errStr, "does not exist"):
		return fmt.Errorf("resource not found: %w", ErrNotFound)
	case strings.Contains(errStr, "invalid request"), strings.Contains(errStr, "bad request"):
		return fmt.Errorf("invalid request: %w", ErrInvalidInput)
	default:
		return fmt.Errorf("provider error: %w", ErrInternal)
	}
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DuplicateTool wraps message as duplicate tool
func DuplicateTool(message string) error {
	return fmt.Errorf("%s: %w", message, ErrDuplicateTool)
}

// UnknownTool wraps message as unknown tool
func UnknownTool(message string) error {
	return fmt.Errorf("%s: %w", message, ErrUnknownTool)
}

// InvalidArguments wraps message as invalid arguments
func InvalidArguments(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidArguments)
}

// ToolExecution wraps message as tool execution failure
func ToolExecution(message string) error {
	return fmt.Errorf("%s: %w", message, ErrToolExecution)
}

// MalformedModelOutput wraps message as malformed model output
func MalformedModelOutput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrMalformedModelOutput)
}

// NotFound wraps message as not found
func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// InvalidInput wraps message as invalid input
func InvalidInput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidInput)
}

// Transient wraps message as transient
func Transient(message string) error {
	return fmt.Errorf("%s: %w", message, ErrTransient)
}

// Internal wraps message as internal
func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}

// IsCategory checks if error belongs to a specific category
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}
