// Package ui holds the presentation helpers shared by the portal pages:
// date and ID formatting, input validation, URL parameters, page
// navigation and transient notifications.
package ui

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"regexp"
	"time"
)

const dateLayout = "02-Jan-2006"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// FormatDate renders t as DD-Mon-YYYY, e.g. 09-Jul-2025.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// GenerateGrievanceID returns a local grievance reference of the form
// GR-<year>-<nnn>. It is a display aid only; the backend issues the
// authoritative tracking ID and uniqueness is not guaranteed.
func GenerateGrievanceID() string {
	return GenerateGrievanceIDAt(time.Now(), nil)
}

// GenerateGrievanceIDAt is GenerateGrievanceID with an explicit clock
// and random source. A nil rnd uses the global source.
func GenerateGrievanceIDAt(now time.Time, rnd *rand.Rand) string {
	var n int
	if rnd != nil {
		n = rnd.IntN(1000)
	} else {
		n = rand.IntN(1000)
	}
	return fmt.Sprintf("GR-%d-%03d", now.Year(), n)
}

// IsValidEmail reports whether s looks like local@domain.tld: exactly
// one '@', no whitespace, and a dot somewhere after the '@'.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s is exactly ten ASCII digits.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// QueryParam reads a query parameter from rawURL.
// It returns ("", false) when the parameter is absent or the URL does
// not parse. A present but empty parameter returns ("", true).
func QueryParam(rawURL, name string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	values, ok := u.Query()[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// NavigationTarget maps a landing-page action to its page file.
func NavigationTarget(page string) string {
	switch page {
	case "citizen":
		return "login.html"
	case "officer":
		return "officer_login.html"
	case "file":
		return "file_grievance.html"
	case "track":
		return "track_grievance.html"
	default:
		return "index.html"
	}
}
