package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatReminderDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-07-09T14:30:00", "Jul 9, 2025, 2:30 PM"},
		{"2025-07-09T14:30:00.123456", "Jul 9, 2025, 2:30 PM"},
		{"2025-07-09T09:05:00Z", "Jul 9, 2025, 9:05 AM"},
		{"2025-07-09T00:00:00+05:30", "Jul 8, 2025, 6:30 PM"},
		{"2025-12-31 23:59:59", "Dec 31, 2025, 11:59 PM"},
		{"2025-07-09", "Jul 9, 2025, 12:00 AM"},
		{"09-Jul-2025", "Jul 9, 2025, 12:00 AM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatReminderDateIn(tt.in, time.UTC), tt.in)
	}
}

func TestFormatReminderDateConvertsToDisplayZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		in   string
		want string
	}{
		// Offsets are converted.
		{"2025-07-09T09:05:00Z", "Jul 9, 2025, 2:35 PM"},
		{"2025-07-09T14:30:00+05:30", "Jul 9, 2025, 2:30 PM"},
		// Offset-less times are wall-clock times in the display zone.
		{"2025-07-09T14:30:00", "Jul 9, 2025, 2:30 PM"},
		{"09-Jul-2025", "Jul 9, 2025, 12:00 AM"},
		// A plain ISO date is UTC midnight.
		{"2025-07-09", "Jul 9, 2025, 5:30 AM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatReminderDateIn(tt.in, ist), tt.in)
	}
}

func TestFormatReminderDateReturnsInputWhenUnparseable(t *testing.T) {
	for _, in := range []string{"", "N/A", "yesterday", "2025-13-45"} {
		assert.Equal(t, in, FormatReminderDate(in))
	}
}
