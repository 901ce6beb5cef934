package api

import (
	"encoding/json"
	"fmt"

	"gportal/internal/errors"
)

// Result is the outcome of a single backend call.
//
// Exactly one of Payload and Failure is set:
//   - Payload: the backend's JSON body, unmodified
//   - Failure: a client-side call failure with a non-empty message
//
// Backend-reported domain errors (wrong password, unknown department)
// arrive as ordinary payloads. Use DomainError to inspect them.
type Result struct {
	Payload    json.RawMessage
	Failure    *errors.CallError
	StatusCode int // HTTP status of the response, 0 when none was received
}

// Success wraps a JSON payload.
func Success(payload json.RawMessage, status int) Result {
	return Result{Payload: payload, StatusCode: status}
}

// Failed wraps a call failure.
func Failed(err *errors.CallError) Result {
	return Result{Failure: err}
}

// OK reports whether the call produced a payload.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Err returns the call failure, or nil when the call produced a payload.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Message returns the user-facing failure message, or "" on success.
func (r Result) Message() string {
	if r.Failure == nil {
		return ""
	}
	return r.Failure.Message
}

// Match calls exactly one of onOK and onFail.
func (r Result) Match(onOK func(json.RawMessage), onFail func(*errors.CallError)) {
	if r.Failure != nil {
		onFail(r.Failure)
		return
	}
	onOK(r.Payload)
}

// Decode unmarshals the payload into v.
// It returns the call failure unchanged when there is no payload.
func (r Result) Decode(v any) error {
	if r.Failure != nil {
		return r.Failure
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// DomainError reports a backend-side error carried inside a payload.
//
// Recognised shapes:
//   - {"error": "..."}
//   - {"success": false, "message": "..."}
//   - {"detail": "..."} (framework-level HTTP errors)
//
// Arrays, successful payloads and call failures report ("", false).
func (r Result) DomainError() (string, bool) {
	if r.Failure != nil {
		return "", false
	}

	var body struct {
		Error   string          `json:"error"`
		Success *bool           `json:"success"`
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(r.Payload, &body); err != nil {
		return "", false
	}

	switch {
	case body.Error != "":
		return body.Error, true
	case body.Success != nil && !*body.Success:
		if body.Message == "" {
			return "request was not successful", true
		}
		return body.Message, true
	case len(body.Detail) > 0:
		var detail string
		if json.Unmarshal(body.Detail, &detail) == nil {
			return detail, true
		}
		return string(body.Detail), true
	}
	return "", false
}

// MarshalJSON renders the payload verbatim, or {"error": message} on failure.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(map[string]string{"error": r.Failure.Message})
	}
	if len(r.Payload) == 0 {
		return []byte("null"), nil
	}
	return r.Payload, nil
}
