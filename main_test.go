package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gportal/internal/api"
	"gportal/internal/config"
	"gportal/internal/health"
	"gportal/internal/metrics"
	"gportal/internal/reminder"
	"gportal/internal/storage"
	"gportal/internal/telegram"
	"gportal/internal/ui"
)

type backend struct {
	mu       sync.Mutex
	requests []*http.Request
	forms    []map[string]string
	srv      *httptest.Server
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	reply := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			form := map[string]string{}
			if err := r.ParseMultipartForm(1 << 20); err == nil {
				for k, v := range r.MultipartForm.Value {
					form[k] = v[0]
				}
			}
			b.mu.Lock()
			b.requests = append(b.requests, r)
			b.forms = append(b.forms, form)
			b.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, body)
		}
	}

	r := mux.NewRouter()
	r.HandleFunc("/login", reply(`{"message":"Login successful","role":"citizen","dashboard":"user_dashboard.html"}`)).Methods(http.MethodPost)
	r.HandleFunc("/admin/petitions", reply(`[{"_id":"1","tracking_id":"TN-1","name":"Asha","petition_subject":"Power cut","status":"pending","created_at":"2025-07-09T10:00:00"}]`)).Methods(http.MethodGet)
	r.HandleFunc("/update_grievance_status", reply(`{"success":true,"message":"Status updated successfully"}`)).Methods(http.MethodPost)
	r.HandleFunc("/grievance/timeline", reply(`{"success":true,"timeline":[]}`)).Methods(http.MethodGet)
	r.HandleFunc("/admin/reminders", reply(`{"success":true,"data":[{"_id":"r1","grievance_id":"TN-1","department":"Energy Department","sent_at":"2025-07-09T14:30:00","reason":"pending"}]}`)).Methods(http.MethodGet)
	r.HandleFunc("/admin/reminder_stats", reply(`{"success":true,"data":{"total":3,"recent":1,"by_department":[{"_id":"Energy Department","count":2}]}}`)).Methods(http.MethodGet)
	r.HandleFunc("/admin/send_reminders", reply(`{"error":"Scheduler unavailable"}`)).Methods(http.MethodPost)
	r.HandleFunc("/classify", reply(`{"department":"Energy Department"}`)).Methods(http.MethodPost)

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) snapshot() ([]*http.Request, []map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*http.Request(nil), b.requests...), append([]map[string]string(nil), b.forms...)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	_, out, errOut, err := executeApp(t, args...)
	return out, errOut, err
}

func executeApp(t *testing.T, args ...string) (*app, string, string, error) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	var out, errOut bytes.Buffer
	a := &app{out: &out, errOut: &errOut}
	err := run(a, append([]string{"--log-level", "error"}, args...))
	return a, out.String(), errOut.String(), err
}

func TestLoginPrintsPayload(t *testing.T) {
	b := newBackend(t)

	out, _, err := execute(t, "--base-url", b.srv.URL, "login", "asha", "secret")
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "citizen", payload["role"])

	_, forms := b.snapshot()
	require.Len(t, forms, 1)
	assert.Equal(t, map[string]string{"user_id": "asha", "passcode": "secret"}, forms[0])
}

func TestUnreachableBackendShowsNotification(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	out, errOut, err := execute(t, "--base-url", addr, "classify", "street", "lights")
	assert.ErrorIs(t, err, errReported)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Network error. Please try again.")
}

func TestFailedCommandStillClosesApp(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	a, _, _, err := executeApp(t, "--base-url", addr, "classify", "street", "lights")
	assert.ErrorIs(t, err, errReported)
	require.NotNil(t, a.notifier)
	assert.Zero(t, a.notifier.Show("after exit", ui.SeverityInfo, 0).ID)
}

func TestTelegramOnlyWhenFullyConfigured(t *testing.T) {
	tests := []struct {
		token, chat string
		want        bool
	}{
		{"", "", false},
		{"token", "", false},
		{"", "42", false},
		{"token", "42", true},
	}
	for _, tt := range tests {
		a := &app{cfg: &config.Config{TelegramBotToken: tt.token, TelegramChatID: tt.chat}, log: zap.NewNop()}
		assert.Equal(t, tt.want, a.telegram() != nil, "token=%q chat=%q", tt.token, tt.chat)
	}
}

func TestPetitionsResolvesOfficerCode(t *testing.T) {
	b := newBackend(t)

	_, _, err := execute(t, "--base-url", b.srv.URL, "petitions", "ene")
	require.NoError(t, err)

	reqs, _ := b.snapshot()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Energy Department", reqs[0].URL.Query().Get("department"))
}

func TestUpdateStatusDryRunSendsNothing(t *testing.T) {
	b := newBackend(t)

	out, _, err := execute(t, "--base-url", b.srv.URL, "--dry-run", "update-status", "TN-1", "resolved", "-d", "pwd")
	require.NoError(t, err)
	assert.Contains(t, out, `"dry_run": true`)

	reqs, _ := b.snapshot()
	assert.Empty(t, reqs)
}

func TestTimelineBatch(t *testing.T) {
	b := newBackend(t)

	out, _, err := execute(t, "--base-url", b.srv.URL, "timeline", "-d", "ene", "TN-1", "TN-2", "TN-3")
	require.NoError(t, err)

	var byID map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &byID))
	assert.Len(t, byID, 3)

	reqs, _ := b.snapshot()
	assert.Len(t, reqs, 3)
}

func TestRemindersTableFormatsDates(t *testing.T) {
	b := newBackend(t)

	out, _, err := execute(t, "--base-url", b.srv.URL, "reminders", "list", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "TN-1")
	assert.Contains(t, out, "Jul 9, 2025, 2:30 PM")
}

func TestRemindersTriggerDomainErrorWarns(t *testing.T) {
	b := newBackend(t)

	out, errOut, err := execute(t, "--base-url", b.srv.URL, "reminders", "trigger")
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduler unavailable")
	assert.Contains(t, errOut, "Scheduler unavailable")
	assert.NotContains(t, errOut, "Reminder check triggered")
}

func TestValidate(t *testing.T) {
	out, _, err := execute(t, "validate", "phone", "9876543210")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)

	out, errOut, err := execute(t, "validate", "email", "not-an-email")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, `"valid": false`)
	assert.Contains(t, errOut, "Please enter a valid email address")
}

func TestNewID(t *testing.T) {
	out, _, err := execute(t, "new-id")
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Regexp(t, `^GR-\d{4}-\d{3}$`, payload["grievance_id"])
	assert.Regexp(t, `^\d{2}-[A-Z][a-z]{2}-\d{4}$`, payload["date"])
}

func TestDigestWritesImage(t *testing.T) {
	b := newBackend(t)
	path := filepath.Join(t.TempDir(), "digest.png")

	out, _, err := execute(t, "--base-url", b.srv.URL, "digest", "ene", "-o", path)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Energy Department", payload["department"])
	assert.EqualValues(t, 1, payload["open_petitions"])
	assert.Equal(t, false, payload["delivered"])

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestDigestText(t *testing.T) {
	stats := &reminder.Stats{
		Total:        3,
		Recent:       1,
		ByDepartment: []reminder.DepartmentCount{{Department: "Energy Department", Count: 2}},
	}
	now := mustDate(t, "2025-07-09")

	text := digestText("Energy Department", 4, stats, now)
	assert.Contains(t, text, "09-Jul-2025")
	assert.Contains(t, text, "<b>Open petitions:</b> 4")
	assert.Contains(t, text, "3 total, 1 in the last 7 days")
	assert.Contains(t, text, "<b>This department:</b> 2")

	assert.Contains(t, digestText("A & B", 0, nil, now), "A &amp; B")
	assert.Contains(t, digestText("A", 0, nil, now), "unavailable")
}

func TestWatcherSweepTracksFailures(t *testing.T) {
	b := newBackend(t)
	reg := prometheus.NewRegistry()
	w := &watcher{
		reminders: reminder.New(api.New(b.srv.URL)),
		monitor:   health.NewMonitor(),
		metrics:   metrics.NewMetrics(reg),
		log:       zap.NewNop(),
	}

	for range health.UnhealthyAfter {
		err := w.sweep(context.Background())
		assert.EqualError(t, err, "Scheduler unavailable")
	}
	assert.Equal(t, "unhealthy", w.monitor.GetStatus().Status)
}

func TestWatcherSweepDryRun(t *testing.T) {
	b := newBackend(t)
	w := &watcher{
		reminders: reminder.New(api.New(b.srv.URL, api.WithDryRun(true))),
		monitor:   health.NewMonitor(),
		metrics:   metrics.NewMetrics(prometheus.NewRegistry()),
		log:       zap.NewNop(),
		dryRun:    true,
	}

	require.NoError(t, w.sweep(context.Background()))
	assert.Equal(t, "success", w.monitor.GetStatus().LastSweepStatus)

	reqs, _ := b.snapshot()
	assert.Empty(t, reqs)
}

// announceFixture is a backend whose reminder history can be swapped
// between sweeps, plus a Telegram fake that records message texts.
type announceFixture struct {
	mu      sync.Mutex
	history string
	texts   []string
	seen    *storage.Storage
	w       *watcher
}

func newAnnounceFixture(t *testing.T, history string) *announceFixture {
	t.Helper()
	f := &announceFixture{history: history}

	r := mux.NewRouter()
	r.HandleFunc("/admin/send_reminders", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"message":"Reminder check completed successfully"}`)
	}).Methods(http.MethodPost)
	r.HandleFunc("/admin/reminders", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		io.WriteString(w, `{"success":true,"data":`+f.history+`}`)
	}).Methods(http.MethodGet)
	backendSrv := httptest.NewServer(r)
	t.Cleanup(backendSrv.Close)

	bot := http.NewServeMux()
	bot.HandleFunc("/botT/sendMessage", func(w http.ResponseWriter, req *http.Request) {
		var msg telegram.Message
		json.NewDecoder(req.Body).Decode(&msg)
		f.mu.Lock()
		f.texts = append(f.texts, msg.Text)
		f.mu.Unlock()
		io.WriteString(w, `{"ok":true,"result":{"message_id":77}}`)
	})
	botSrv := httptest.NewServer(bot)
	t.Cleanup(botSrv.Close)

	seen, err := storage.New(filepath.Join(t.TempDir(), "seen.csv"), nil)
	require.NoError(t, err)
	f.seen = seen

	f.w = &watcher{
		reminders: reminder.New(api.New(backendSrv.URL)),
		monitor:   health.NewMonitor(),
		metrics:   metrics.NewMetrics(prometheus.NewRegistry()),
		alerts:    telegram.NewClient("T", "1", false, nil).WithAPIBase(botSrv.URL),
		seen:      seen,
		log:       zap.NewNop(),
	}
	return f
}

func (f *announceFixture) setHistory(h string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = h
}

func (f *announceFixture) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func TestWatcherAnnouncesNewReminders(t *testing.T) {
	f := newAnnounceFixture(t, `[{"_id":"r1","grievance_id":"TN-1","department":"Energy Department"}]`)

	// First sweep records the backlog without announcing it.
	require.NoError(t, f.w.sweep(context.Background()))
	assert.False(t, f.seen.IsNew("r1"))
	assert.Empty(t, f.sent())

	f.setHistory(`[{"_id":"r2","grievance_id":"TN-2","department":"Law Department","days_pending":9},{"_id":"r1","grievance_id":"TN-1","department":"Energy Department"}]`)
	require.NoError(t, f.w.sweep(context.Background()))

	texts := f.sent()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "TN-2")
	assert.Contains(t, texts[0], "<b>Pending:</b> 9 days")

	rec, ok := f.seen.Get("r2")
	require.True(t, ok)
	assert.Equal(t, "77", rec.MessageID)

	// Reminders dropped from the history are forgotten.
	f.setHistory(`[{"_id":"r2","grievance_id":"TN-2","department":"Law Department"}]`)
	require.NoError(t, f.w.sweep(context.Background()))
	assert.True(t, f.seen.IsNew("r1"))
	assert.Equal(t, 1, f.seen.Len())
}

func TestWatcherAnnouncesAfterEmptyFirstHistory(t *testing.T) {
	f := newAnnounceFixture(t, `[]`)

	require.NoError(t, f.w.sweep(context.Background()))
	assert.Empty(t, f.sent())

	f.setHistory(`[{"_id":"r1","grievance_id":"TN-1","department":"Energy Department"}]`)
	require.NoError(t, f.w.sweep(context.Background()))

	texts := f.sent()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "TN-1")
	assert.False(t, f.seen.IsNew("r1"))
}

func TestWatcherAnnouncesAfterHistoryEmptied(t *testing.T) {
	f := newAnnounceFixture(t, `[{"_id":"r1","grievance_id":"TN-1","department":"Energy Department"}]`)

	require.NoError(t, f.w.sweep(context.Background()))
	f.setHistory(`[]`)
	require.NoError(t, f.w.sweep(context.Background()))
	assert.Zero(t, f.seen.Len())

	f.setHistory(`[{"_id":"r2","grievance_id":"TN-2","department":"Law Department"}]`)
	require.NoError(t, f.w.sweep(context.Background()))

	texts := f.sent()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "TN-2")
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
