package api

import "io"

// Defaults applied when optional arguments are left empty.
const (
	DefaultPetitionType        = "General"
	DefaultCategory            = "General"
	DefaultSimilarityThreshold = 0.8
	DefaultNotificationLimit   = 50
)

// Grievance statuses understood by the backend.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

// Priority levels used by the by-priority listing.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Petition is the citizen submission sent to /submit_to_department.
//
// Address, District and Category are optional; Attachment is sent only
// when non-nil.
type Petition struct {
	Name        string
	Phone       string
	Address     string
	District    string
	Subject     string
	Description string
	Category    string
	Attachment  *Attachment
}

// Attachment is an optional file uploaded with a petition.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// The types below are typed views of known backend payloads. The client
// never requires them; callers may Decode a Result into them.

// LoginResponse is returned by /login.
type LoginResponse struct {
	Message    string `json:"message"`
	Role       string `json:"role"`
	Dashboard  string `json:"dashboard"`
	Department string `json:"department,omitempty"`
	Error      string `json:"error,omitempty"`
}

// IsOfficer reports whether the login resolved to a department officer.
func (r LoginResponse) IsOfficer() bool {
	return r.Role == "admin"
}

// MessageResponse covers the plain {message} / {success, message} / {error} replies.
type MessageResponse struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ClassifyResponse is returned by /classify and /classify_realtime.
type ClassifyResponse struct {
	Category string `json:"category"`
	Error    string `json:"error,omitempty"`
}

// SimilarGrievance is one candidate match from similarity detection.
type SimilarGrievance struct {
	GrievanceID     string  `json:"grievance_id"`
	SimilarityScore float64 `json:"similarity_score"`
	Subject         string  `json:"subject"`
	Description     string  `json:"description"`
}

// SubmitResponse is returned by /submit_to_department.
type SubmitResponse struct {
	Message                string             `json:"message"`
	Department             string             `json:"department"`
	Priority               string             `json:"priority"`
	TrackingID             string             `json:"tracking_id"`
	SimilarityDetected     bool               `json:"similarity_detected"`
	SimilarGrievancesCount int                `json:"similar_grievances_count"`
	SimilarGrievances      []SimilarGrievance `json:"similar_grievances,omitempty"`
	SimilarityMessage      string             `json:"similarity_message,omitempty"`
	Error                  string             `json:"error,omitempty"`
}

// TimelineEntry is one entry of a petition's stored timeline.
type TimelineEntry struct {
	Timestamp  string `json:"timestamp"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Status     string `json:"status"`
	Comment    string `json:"comment"`
	UpdateType string `json:"update_type"`
}

// Petition record as listed by the officer endpoints.
type PetitionRecord struct {
	ID                  string          `json:"_id"`
	TrackingID          string          `json:"tracking_id"`
	Name                string          `json:"name"`
	Phone               string          `json:"phone"`
	Address             string          `json:"address"`
	PetitionType        string          `json:"petition_type"`
	PetitionSubject     string          `json:"petition_subject"`
	PetitionDescription string          `json:"petition_description"`
	Status              string          `json:"status"`
	Priority            string          `json:"priority"`
	CreatedAt           string          `json:"created_at"`
	Department          string          `json:"department"`
	Timeline            []TimelineEntry `json:"timeline,omitempty"`
	SimilarityDetected  bool            `json:"similarity_detected"`
	RelatedTo           []string        `json:"related_to,omitempty"`
}

// StatusUpdate is a display entry of the citizen-facing progress list.
type StatusUpdate struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TrackedGrievance is the grievance returned by /track_grievance.
type TrackedGrievance struct {
	PetitionRecord
	DisplayID string         `json:"id"`
	Updates   []StatusUpdate `json:"updates"`
}

// TrackResponse is returned by /track_grievance.
type TrackResponse struct {
	Found     bool              `json:"found"`
	Grievance *TrackedGrievance `json:"grievance,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// StatusUpdateResponse is returned by /update_grievance_status.
type StatusUpdateResponse struct {
	Success          bool         `json:"success"`
	Message          string       `json:"message"`
	TimelineUpdate   StatusUpdate `json:"timeline_update"`
	NotificationSent bool         `json:"notification_sent"`
}

// TimelineResponse is returned by /grievance/timeline.
type TimelineResponse struct {
	Success  bool            `json:"success"`
	Timeline []TimelineEntry `json:"timeline"`
	Message  string          `json:"message,omitempty"`
}

// SimilarityResponse is returned by /grievance/similar.
type SimilarityResponse struct {
	Success           bool               `json:"success"`
	SimilarGrievances []SimilarGrievance `json:"similar_grievances"`
	Count             int                `json:"count"`
	Message           string             `json:"message,omitempty"`
}

// NotificationLog is one petitioner notification recorded by the backend.
type NotificationLog struct {
	ID               string `json:"_id"`
	GrievanceID      string `json:"grievance_id"`
	RecipientName    string `json:"recipient_name"`
	RecipientPhone   string `json:"recipient_phone"`
	NotificationType string `json:"notification_type"`
	OldStatus        string `json:"old_status"`
	NewStatus        string `json:"new_status"`
	SentAt           string `json:"sent_at"`
}

// NotificationLogResponse is returned by /admin/notifications.
type NotificationLogResponse struct {
	Success       bool              `json:"success"`
	Notifications []NotificationLog `json:"notifications"`
	Message       string            `json:"message,omitempty"`
}
