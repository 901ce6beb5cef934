package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gportal/internal/ui"
)

func TestPageURL(t *testing.T) {
	tests := []struct {
		base string
		page string
		want string
	}{
		{"http://localhost:5500", "citizen", "http://localhost:5500/login.html"},
		{"http://localhost:5500/", "officer", "http://localhost:5500/officer_login.html"},
		{"https://portal.example.gov/frontend", "file", "https://portal.example.gov/frontend/file_grievance.html"},
		{"https://portal.example.gov/frontend/", "track", "https://portal.example.gov/frontend/track_grievance.html"},
		{"http://localhost:5500", "unknown", "http://localhost:5500/index.html"},
	}
	for _, tt := range tests {
		got, err := PageURL(tt.base, tt.page)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := PageURL("http://[::1", "citizen")
	assert.Error(t, err)
}

func TestMountScript(t *testing.T) {
	n := ui.Notification{
		ID:       7,
		Message:  `Grievance "TN-1" submitted </script>`,
		Severity: ui.SeveritySuccess,
		Scheme:   ui.SchemeFor(ui.SeveritySuccess),
	}

	script := mountScript(n)

	assert.Contains(t, script, `"notification-container"`)
	assert.Contains(t, script, `"notification-7"`)
	assert.Contains(t, script, `"notification notification-success"`)
	assert.Contains(t, script, `Grievance \"TN-1\" submitted \u003c/script\u003e`)
	assert.Contains(t, script, "z-index: 1000")
	assert.Contains(t, script, "background-color: #d4edda; color: #155724; border-left: 4px solid #28a745;")
	assert.Contains(t, script, "padding: 15px 20px;")
	assert.Contains(t, script, "border-radius: 5px;")
	assert.Contains(t, script, "box-shadow: 0 4px 8px rgba(0, 0, 0, 0.1);")
	assert.Contains(t, script, "font-size: 14px;")
	assert.Contains(t, script, "opacity: 0")
}

func TestVisibilityAndRemoveScripts(t *testing.T) {
	n := ui.Notification{ID: 3}

	assert.Contains(t, visibilityScript(n, true), `el.style.opacity = "1"`)
	assert.Contains(t, visibilityScript(n, false), `el.style.opacity = "0"`)
	assert.Contains(t, removeScript(n), `getElementById("notification-3")`)
	assert.Contains(t, removeScript(n), "removeChild(el)")
}

func TestFocusScript(t *testing.T) {
	script := focusScript()

	assert.Contains(t, script, `"a, button, input, select, textarea, [tabindex]:not([tabindex=\"-1\"])"`)
	assert.Contains(t, script, `el.style.outline = "2px solid #27ae60"`)
	assert.Contains(t, script, `el.style.outlineOffset = "2px"`)
	assert.Contains(t, script, "el.style.outline = '';")
	assert.NotContains(t, script, "'none'")
	assert.Contains(t, script, "translateY(-2px)")
	assert.Contains(t, script, ".form-submit")
}
