package reminder

import "time"

// displayLayout renders like "Jul 9, 2025, 2:30 PM".
const displayLayout = "Jan 2, 2006, 3:04 PM"

// isoDate is read as UTC midnight; every other offset-less layout is a
// wall-clock time in the display location.
const isoDate = "2006-01-02"

// inputLayouts are the date shapes the backend emits: RFC 3339,
// Python isoformat() with and without fractional seconds, plain dates,
// and the DD-Mon-YYYY form used for created_at.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	isoDate,
	"02-Jan-2006",
}

// ParseDate parses any date shape the backend emits. Offset-less
// times are taken as UTC.
func ParseDate(s string) (time.Time, bool) {
	return parseIn(s, time.UTC)
}

func parseIn(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range inputLayouts {
		in := loc
		if layout == isoDate {
			in = time.UTC
		}
		if t, err := time.ParseInLocation(layout, s, in); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatReminderDate renders a backend date in local time.
// Input that matches no known layout is returned unchanged.
func FormatReminderDate(s string) string {
	return FormatReminderDateIn(s, time.Local)
}

// FormatReminderDateIn renders a backend date in loc.
func FormatReminderDateIn(s string, loc *time.Location) string {
	if t, ok := parseIn(s, loc); ok {
		return t.In(loc).Format(displayLayout)
	}
	return s
}
