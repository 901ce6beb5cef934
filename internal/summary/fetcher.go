// Package summary renders a department's open petitions as a PNG table.
package summary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gportal/internal/api"
	"gportal/internal/reminder"
)

// Row holds the fields displayed in the summary table.
type Row struct {
	TrackingID string
	Name       string
	Phone      string
	Subject    string
	Priority   string
	Status     string
	Created    string

	created time.Time
}

// FetchOpenPetitions lists a department's petitions and keeps the ones
// that are not resolved or rejected, oldest first.
//
// Returns an error when the call fails or the backend reports one
// (e.g. an unknown department).
func FetchOpenPetitions(ctx context.Context, c *api.Client, department string) ([]Row, error) {
	res := c.AdminPetitions(ctx, department)
	if msg, ok := res.DomainError(); ok {
		return nil, fmt.Errorf("list petitions for %s: %s", department, msg)
	}

	var records []api.PetitionRecord
	if err := res.Decode(&records); err != nil {
		return nil, fmt.Errorf("list petitions for %s: %w", department, err)
	}
	return OpenRows(records), nil
}

// OpenRows converts records to table rows, dropping closed petitions,
// sorted by creation date ascending. Rows with unparseable dates sort
// last in their original order.
func OpenRows(records []api.PetitionRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		if r.Status == api.StatusResolved || r.Status == api.StatusRejected {
			continue
		}
		created, _ := reminder.ParseDate(r.CreatedAt)
		rows = append(rows, Row{
			TrackingID: r.TrackingID,
			Name:       r.Name,
			Phone:      r.Phone,
			Subject:    r.PetitionSubject,
			Priority:   r.Priority,
			Status:     statusOrPending(r.Status),
			Created:    r.CreatedAt,
			created:    created,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].created, rows[j].created
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})
	return rows
}

func statusOrPending(s string) string {
	if s == "" {
		return api.StatusPending
	}
	return s
}
