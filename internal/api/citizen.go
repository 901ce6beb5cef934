package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"gportal/internal/errors"
)

// Login authenticates a citizen or department officer.
//
// Form fields: user_id, passcode. Officers get back their department
// and dashboard; citizens get a user dashboard. Wrong credentials come
// back as a payload with an "error" field.
func (c *Client) Login(ctx context.Context, username, password string) Result {
	return c.Call(ctx, Request{
		Op:     "login",
		Method: http.MethodPost,
		Path:   "/login",
		Form: []Field{
			{"user_id", username},
			{"passcode", password},
		},
	})
}

// Register creates a citizen account.
func (c *Client) Register(ctx context.Context, fullName, username, password string) Result {
	return c.Call(ctx, Request{
		Op:     "register",
		Method: http.MethodPost,
		Path:   "/register",
		Form: []Field{
			{"full_name", fullName},
			{"new_user", username},
			{"new_pass", password},
		},
	})
}

// ClassifyPetition asks the backend which department should own the text.
func (c *Client) ClassifyPetition(ctx context.Context, petitionText string) Result {
	return c.Call(ctx, Request{
		Op:     "classify",
		Method: http.MethodPost,
		Path:   "/classify",
		Form:   []Field{{"petition_text", petitionText}},
	})
}

// ClassifyRealtime is the lightweight classification used while the
// citizen is still typing. Failures carry "Classification failed".
func (c *Client) ClassifyRealtime(ctx context.Context, petitionText string) Result {
	return c.Call(ctx, Request{
		Op:             "classify_realtime",
		Method:         http.MethodPost,
		Path:           "/classify_realtime",
		Form:           []Field{{"petition_text", petitionText}},
		FailureMessage: errors.ClassificationFailedMessage,
	})
}

// SubmitPetition files a petition with its department.
//
// Field mapping:
//   - address, district: empty string when absent
//   - petition_type: always "General"
//   - category: "General" when absent
//   - attachment: file part only when p.Attachment is set
func (c *Client) SubmitPetition(ctx context.Context, p Petition) Result {
	category := p.Category
	if category == "" {
		category = DefaultCategory
	}

	req := Request{
		Op:     "submit_petition",
		Method: http.MethodPost,
		Path:   "/submit_to_department",
		Form: []Field{
			{"name", p.Name},
			{"phone", p.Phone},
			{"address", p.Address},
			{"district", p.District},
			{"petition_type", DefaultPetitionType},
			{"petition_subject", p.Subject},
			{"petition_description", p.Description},
			{"category", category},
		},
	}
	if p.Attachment != nil && p.Attachment.Content != nil {
		req.Files = []File{{
			Field:    "attachment",
			Filename: p.Attachment.Filename,
			Content:  p.Attachment.Content,
		}}
	}

	return c.Call(ctx, req)
}

// TrackGrievance looks up a grievance by tracking ID, verified by phone.
func (c *Client) TrackGrievance(ctx context.Context, grievanceID, phone string) Result {
	return c.Call(ctx, Request{
		Op:     "track_grievance",
		Method: http.MethodPost,
		Path:   "/track_grievance",
		Form: []Field{
			{"grievance_id", grievanceID},
			{"phone", phone},
		},
	})
}

// GrievanceTimeline returns the ordered timeline events of a grievance.
func (c *Client) GrievanceTimeline(ctx context.Context, trackingID, department string) Result {
	return c.Call(ctx, Request{
		Op:     "grievance_timeline",
		Method: http.MethodGet,
		Path:   "/grievance/timeline",
		Query: url.Values{
			"tracking_id": {trackingID},
			"department":  {department},
		},
	})
}

// CheckSimilarGrievances finds existing grievances resembling text.
// A threshold <= 0 uses DefaultSimilarityThreshold.
func (c *Client) CheckSimilarGrievances(ctx context.Context, department, text string, threshold float64) Result {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return c.Call(ctx, Request{
		Op:     "check_similar",
		Method: http.MethodGet,
		Path:   "/grievance/similar",
		Query: url.Values{
			"department": {department},
			"text":       {text},
			"threshold":  {strconv.FormatFloat(threshold, 'f', -1, 64)},
		},
	})
}
