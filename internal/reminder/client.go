// Package reminder wraps the backend's reminder endpoints used by the
// officer dashboard.
//
// The backend owns reminder scheduling. This package can only list what
// it produced, read aggregate statistics and trigger a sweep by hand.
// Calls follow the same one-shot contract as package api: every method
// returns an api.Result and never an error.
package reminder

import (
	"context"
	"net/http"
	"net/url"

	"gportal/internal/api"
)

// Client issues reminder calls through an api.Client, sharing its base
// address, transport, logging and metrics.
type Client struct {
	api *api.Client
}

// New creates a reminder client on top of c.
func New(c *api.Client) *Client {
	return &Client{api: c}
}

// LoadReminders lists reminders.
//
// With a department, the backend returns the grievances of that
// department that are due a reminder. Without one it returns the 50 most
// recent reminders sent across all departments.
func (c *Client) LoadReminders(ctx context.Context, department string) api.Result {
	var query url.Values
	if department != "" {
		query = url.Values{"department": {department}}
	}
	return c.api.Call(ctx, api.Request{
		Op:     "load_reminders",
		Method: http.MethodGet,
		Path:   "/admin/reminders",
		Query:  query,
	})
}

// Stats fetches reminder totals, the last-7-days count and the per-department breakdown.
func (c *Client) Stats(ctx context.Context) api.Result {
	return c.api.Call(ctx, api.Request{
		Op:     "reminder_stats",
		Method: http.MethodGet,
		Path:   "/admin/reminder_stats",
	})
}

// TriggerManualCheck asks the backend to run its reminder sweep now.
func (c *Client) TriggerManualCheck(ctx context.Context) api.Result {
	return c.api.Call(ctx, api.Request{
		Op:       "send_reminders",
		Method:   http.MethodPost,
		Path:     "/admin/send_reminders",
		Simulate: true,
	})
}

// SendIndividualReminder sends a reminder for one grievance, identified
// by its record id or tracking id.
func (c *Client) SendIndividualReminder(ctx context.Context, reminderID string) api.Result {
	return c.api.Call(ctx, api.Request{
		Op:       "send_individual_reminder",
		Method:   http.MethodPost,
		Path:     "/admin/send_individual_reminder",
		JSON:     map[string]string{"reminderId": reminderID},
		Simulate: true,
	})
}
