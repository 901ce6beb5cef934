package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gportal/internal/errors"
	"gportal/internal/metrics"
)

// Field is one form field. Order is preserved on the wire.
type Field struct {
	Name  string
	Value string
}

// File is an optional file part of a multipart form.
type File struct {
	Field    string    // Form field name, e.g. "attachment"
	Filename string    // Name reported to the backend
	Content  io.Reader // File bytes
}

// Request describes one logical backend call.
type Request struct {
	Op     string     // Operation name for logs, metrics and failures
	Method string     // HTTP method
	Path   string     // Path relative to the base URL, e.g. "/login"
	Query  url.Values // Query string for read calls

	Form  []Field // Multipart form fields for mutating calls
	Files []File  // Optional file parts
	JSON  any     // JSON body; mutually exclusive with Form/Files

	// Simulate marks officer calls that dry-run mode must not send.
	Simulate bool

	// FailureMessage overrides the default network error text.
	FailureMessage string
}

// Call issues req once and normalizes the outcome.
//
// Flow:
//  1. Build the URL and body (multipart, JSON or empty)
//  2. Send with a fresh X-Request-ID header
//  3. Read the whole body and require it to be valid JSON
//  4. Return the body verbatim, whatever the HTTP status
//
// Any failure along the way, including a panic while encoding the body,
// becomes a failure Result. Call never returns an error.
func (c *Client) Call(ctx context.Context, req Request) (res Result) {
	start := time.Now()
	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String("operation", req.Op),
		zap.String("request_id", requestID),
	)

	defer func() {
		if p := recover(); p != nil {
			res = c.fail(log, req, fmt.Errorf("panic: %v", p), start)
		}
	}()

	if c.dryRun && req.Simulate {
		return c.simulate(log, req)
	}

	payload, status, err := c.roundTrip(ctx, req, requestID)
	if err != nil {
		return c.fail(log, req, err, start)
	}

	log.Debug("backend call completed",
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)),
	)
	c.metrics.RecordCall(req.Op, metrics.OutcomeSuccess, time.Since(start))
	return Success(payload, status)
}

func (c *Client) fail(log *zap.Logger, req Request, err error, start time.Time) Result {
	log.Warn("backend call failed", zap.Error(err))
	c.metrics.RecordCall(req.Op, metrics.OutcomeFailure, time.Since(start))
	return Failed(errors.NewCallError(req.Op, req.FailureMessage, err))
}

func (c *Client) simulate(log *zap.Logger, req Request) Result {
	fields := make([]string, 0, len(req.Form))
	for _, f := range req.Form {
		fields = append(fields, f.Name+"="+f.Value)
	}
	log.Info("dry run: skipping backend call",
		zap.String("method", req.Method),
		zap.String("url", c.baseURL+req.Path),
		zap.Strings("form", fields),
	)
	c.metrics.RecordCall(req.Op, metrics.OutcomeDryRun, 0)

	payload, _ := json.Marshal(map[string]any{
		"dry_run":   true,
		"operation": req.Op,
		"message":   "Dry run: request not sent",
	})
	return Success(payload, 0)
}

// roundTrip performs the HTTP exchange and returns the raw JSON body.
func (c *Client) roundTrip(ctx context.Context, req Request, requestID string) (json.RawMessage, int, error) {
	target, err := c.endpoint(req.Path, req.Query)
	if err != nil {
		return nil, 0, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if !json.Valid(data) {
		return nil, resp.StatusCode, fmt.Errorf("response is not JSON (HTTP %d)", resp.StatusCode)
	}

	return json.RawMessage(data), resp.StatusCode, nil
}

// endpoint joins the base URL, path and encoded query.
func (c *Client) endpoint(path string, query url.Values) (string, error) {
	target, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target, nil
}

// encodeBody serializes the request body and returns its content type.
// Requests without form, files or JSON have no body.
func encodeBody(req Request) (io.Reader, string, error) {
	switch {
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil

	case len(req.Form) > 0 || len(req.Files) > 0:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, f := range req.Form {
			if err := w.WriteField(f.Name, f.Value); err != nil {
				return nil, "", fmt.Errorf("encode field %s: %w", f.Name, err)
			}
		}
		for _, f := range req.Files {
			part, err := w.CreateFormFile(f.Field, f.Filename)
			if err != nil {
				return nil, "", fmt.Errorf("encode file %s: %w", f.Field, err)
			}
			if _, err := io.Copy(part, f.Content); err != nil {
				return nil, "", fmt.Errorf("read attachment %s: %w", f.Filename, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("close multipart body: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	}
	return nil, "", nil
}
