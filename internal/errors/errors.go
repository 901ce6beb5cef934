// Package errors provides custom error types for the gportal client.
//
// This package defines the domain-specific errors used across the
// client toolkit. Only CallError ever reaches UI code, and it does so
// as data inside an api.Result rather than as a returned error.
package errors

import (
	stderrors "errors"
	"fmt"
)

// User-facing failure messages shown when a backend call cannot complete.
const (
	// NetworkErrorMessage is the generic message for any client-side call failure.
	NetworkErrorMessage = "Network error. Please try again."

	// ClassificationFailedMessage is used by the lightweight realtime classification path.
	ClassificationFailedMessage = "Classification failed"
)

// CallError describes a client-side call failure.
//
// This error is produced when:
//   - The backend is unreachable or the connection drops
//   - The response body is not valid JSON
//   - The request cannot be built (bad URL, unreadable attachment)
//
// Message is what the user sees. Err keeps the underlying cause for logs.
type CallError struct {
	Op      string // Logical operation, e.g. "login"
	Message string // User-facing message, never empty
	Err     error  // Underlying cause
}

func (e *CallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *CallError) Unwrap() error {
	return e.Err
}

// NewCallError creates a call failure for op.
// An empty msg falls back to NetworkErrorMessage.
func NewCallError(op, msg string, err error) *CallError {
	if msg == "" {
		msg = NetworkErrorMessage
	}
	return &CallError{Op: op, Message: msg, Err: err}
}

// ConfigError indicates invalid or missing configuration.
//
// Recovery strategy: fix the environment or .env file and restart
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Message)
}

// NewConfigError creates a new configuration error for key
func NewConfigError(key, msg string) *ConfigError {
	return &ConfigError{Key: key, Message: msg}
}

// DeliveryError wraps failures to deliver a digest or alert to Telegram.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Channel, e.Err)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// NewDeliveryError creates a new delivery error with context
func NewDeliveryError(channel string, err error) *DeliveryError {
	return &DeliveryError{Channel: channel, Err: err}
}

// IsCallError checks if the error chain contains a CallError
func IsCallError(err error) bool {
	var ce *CallError
	return stderrors.As(err, &ce)
}

// IsConfigError checks if the error chain contains a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return stderrors.As(err, &ce)
}

// IsDeliveryError checks if the error chain contains a DeliveryError
func IsDeliveryError(err error) bool {
	var de *DeliveryError
	return stderrors.As(err, &de)
}
