package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// AdminPetitions lists every petition owned by department.
//
// The backend answers with a JSON array of petition records, or an
// {"error": ...} object for an unknown department.
func (c *Client) AdminPetitions(ctx context.Context, department string) Result {
	return c.Call(ctx, Request{
		Op:     "admin_petitions",
		Method: http.MethodGet,
		Path:   "/admin/petitions",
		Query:  url.Values{"department": {department}},
	})
}

// AdminPetitionsByPriority lists a department's petitions filtered by
// priority. An empty priority leaves the parameter out so the backend
// returns all priorities.
func (c *Client) AdminPetitionsByPriority(ctx context.Context, department, priority string) Result {
	query := url.Values{"department": {department}}
	if priority != "" {
		query.Set("priority", priority)
	}
	return c.Call(ctx, Request{
		Op:     "admin_petitions_by_priority",
		Method: http.MethodGet,
		Path:   "/admin/petitions/by_priority",
		Query:  query,
	})
}

// UpdateGrievanceStatus moves a grievance to a new status as an officer.
//
// Request body (multipart form):
//
//	grievance_id=<id>&status=<status>&department=<dept>&comment=<comment>
//
// comment is sent as an empty string when absent. The backend appends a
// timeline entry and notifies the petitioner when the status changes.
// In dry-run mode the request is logged and not sent.
func (c *Client) UpdateGrievanceStatus(ctx context.Context, grievanceID, status, department, comment string) Result {
	return c.Call(ctx, Request{
		Op:     "update_status",
		Method: http.MethodPost,
		Path:   "/update_grievance_status",
		Form: []Field{
			{"grievance_id", grievanceID},
			{"status", status},
			{"department", department},
			{"comment", comment},
		},
		Simulate: true,
	})
}

// NotificationLogs lists the most recent petitioner notifications.
// A limit <= 0 uses DefaultNotificationLimit.
func (c *Client) NotificationLogs(ctx context.Context, limit int) Result {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return c.Call(ctx, Request{
		Op:     "notification_logs",
		Method: http.MethodGet,
		Path:   "/admin/notifications",
		Query:  url.Values{"limit": {strconv.Itoa(limit)}},
	})
}

// TestSimilarityDetection runs the backend's similarity self-test.
func (c *Client) TestSimilarityDetection(ctx context.Context) Result {
	return c.Call(ctx, Request{
		Op:     "test_similarity",
		Method: http.MethodPost,
		Path:   "/admin/test_similarity",
	})
}

// TestNotificationSystem runs the backend's notification self-test.
// It sends a real test notification, so dry-run mode skips it.
func (c *Client) TestNotificationSystem(ctx context.Context) Result {
	return c.Call(ctx, Request{
		Op:       "test_notifications",
		Method:   http.MethodPost,
		Path:     "/admin/test_notifications",
		Simulate: true,
	})
}
