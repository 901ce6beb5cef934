// Package telegram delivers digests and alerts to a Telegram chat.
//
// Only the send side of the Bot API is used:
//   - sendMessage for reminder statistics and critical alerts
//   - sendPhoto for the petition summary image
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gportal/internal/errors"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	channel        = "telegram"
)

// Client represents a Telegram bot client.
//
// Fields:
//   - BotToken: Telegram bot API token
//   - ChatID: Target chat ID
//   - DebugMode: If true, log what would be sent instead of calling the API
type Client struct {
	BotToken  string
	ChatID    string
	DebugMode bool

	apiBase    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Message represents a Telegram message for sending.
type Message struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int `json:"message_id"`
	} `json:"result"`
}

// NewClient creates a Telegram client.
//
// Returns nil when botToken or chatID is empty; every method treats a
// nil client as "not configured" and does nothing.
func NewClient(botToken, chatID string, debugMode bool, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if botToken == "" || chatID == "" {
		logger.Info("telegram not configured, delivery disabled",
			zap.Bool("missing_token", botToken == ""),
			zap.Bool("missing_chat_id", chatID == ""),
		)
		return nil
	}
	return &Client{
		BotToken:   botToken,
		ChatID:     chatID,
		DebugMode:  debugMode,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// WithAPIBase points the client at another Bot API host.
func (c *Client) WithAPIBase(base string) *Client {
	if c != nil {
		c.apiBase = base
	}
	return c
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.BotToken, method)
}

// post sends body to a Bot API method and checks the "ok" flag.
func (c *Client) post(ctx context.Context, method, contentType string, body io.Reader) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), body)
	if err != nil {
		return 0, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read %s response: %w", method, err)
	}

	var result apiResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return 0, fmt.Errorf("parse %s response: %w", method, err)
	}
	if !result.OK {
		return 0, fmt.Errorf("telegram API error (HTTP %d): %s", resp.StatusCode, result.Description)
	}
	return result.Result.MessageID, nil
}

// SendMessage sends an HTML formatted text message.
//
// Returns:
//   - int: Telegram message ID (0 in debug mode or when not configured)
//   - error: DeliveryError on failure
func (c *Client) SendMessage(ctx context.Context, text string) (int, error) {
	if c == nil {
		return 0, nil
	}
	if c.DebugMode {
		c.logger.Info("debug mode: telegram message not sent", zap.String("text", text))
		return 0, nil
	}

	payload, err := json.Marshal(Message{
		ChatID:                c.ChatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return 0, errors.NewDeliveryError(channel, err)
	}

	id, err := c.post(ctx, "sendMessage", "application/json", bytes.NewReader(payload))
	if err != nil {
		return 0, errors.NewDeliveryError(channel, err)
	}
	c.logger.Debug("telegram message sent", zap.Int("message_id", id))
	return id, nil
}

// SendPhoto uploads a PNG with an optional caption.
func (c *Client) SendPhoto(ctx context.Context, caption, filename string, image []byte) (int, error) {
	if c == nil {
		return 0, nil
	}
	if c.DebugMode {
		c.logger.Info("debug mode: telegram photo not sent",
			zap.String("filename", filename),
			zap.Int("bytes", len(image)),
		)
		return 0, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", c.ChatID); err != nil {
		return 0, errors.NewDeliveryError(channel, err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return 0, errors.NewDeliveryError(channel, err)
		}
	}
	part, err := w.CreateFormFile("photo", filename)
	if err != nil {
		return 0, errors.NewDeliveryError(channel, err)
	}
	if _, err := part.Write(image); err != nil {
		return 0, errors.NewDeliveryError(channel, err)
	}
	if err := w.Close(); err != nil {
		return 0, errors.NewDeliveryError(channel, err)
	}

	id, err := c.post(ctx, "sendPhoto", w.FormDataContentType(), &buf)
	if err != nil {
		return 0, errors.NewDeliveryError(channel, err)
	}
	c.logger.Debug("telegram photo sent", zap.Int("message_id", id), zap.Int("bytes", len(image)))
	return id, nil
}

// SendCriticalAlert reports a failure that needs manual attention, such
// as repeated reminder sweep failures.
//
// Parameters:
//   - errorType: short label (e.g. "Reminder sweep failure")
//   - errorMsg: detailed error text
//   - attempts: consecutive failed attempts so far
func (c *Client) SendCriticalAlert(ctx context.Context, errorType, errorMsg string, attempts int) error {
	message := fmt.Sprintf(
		"<b>CRITICAL ALERT - GRIEVANCE PORTAL</b>\n\n"+
			"<b>Error Type:</b> %s\n"+
			"<b>Error Message:</b> %s\n"+
			"<b>Failed Attempts:</b> %d\n"+
			"<b>Timestamp:</b> %s\n\n"+
			"<b>Action Required:</b> Please check the backend.",
		html.EscapeString(errorType),
		html.EscapeString(errorMsg),
		attempts,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	_, err := c.SendMessage(ctx, message)
	return err
}
