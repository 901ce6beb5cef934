package reminder

// Reminder is one entry returned by LoadReminders.
//
// Department listings fill TrackingID, Subject, CreatedAt and
// LastReminder; the global history fills GrievanceID, SentAt, Reason and
// DaysPending.
type Reminder struct {
	ID           string `json:"_id"`
	TrackingID   string `json:"tracking_id,omitempty"`
	GrievanceID  string `json:"grievance_id,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Department   string `json:"department"`
	CreatedAt    string `json:"created_at,omitempty"`
	LastReminder string `json:"last_reminder,omitempty"`
	OfficerID    string `json:"officer_id,omitempty"`
	SentAt       string `json:"sent_at,omitempty"`
	Reason       string `json:"reason,omitempty"`
	DaysPending  int    `json:"days_pending,omitempty"`
}

// ListResponse is returned by /admin/reminders.
type ListResponse struct {
	Success bool       `json:"success"`
	Data    []Reminder `json:"data"`
	Message string     `json:"message,omitempty"`
}

// DepartmentCount is one row of the per-department breakdown.
type DepartmentCount struct {
	Department string `json:"_id"`
	Count      int    `json:"count"`
}

// Stats is the payload of /admin/reminder_stats.
type Stats struct {
	Total        int               `json:"total"`
	Recent       int               `json:"recent"`
	ByDepartment []DepartmentCount `json:"by_department"`
}

// StatsResponse wraps Stats.
type StatsResponse struct {
	Success bool   `json:"success"`
	Data    Stats  `json:"data"`
	Message string `json:"message,omitempty"`
}
