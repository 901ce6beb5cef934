package ui

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Severity selects the colour scheme of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Default timings.
const (
	DefaultDuration = 3000 * time.Millisecond
	DefaultFadeIn   = 10 * time.Millisecond
	DefaultFadeOut  = 300 * time.Millisecond
)

// Scheme holds the CSS colours of one severity.
type Scheme struct {
	Background string
	Text       string
	Border     string
}

var schemes = map[Severity]Scheme{
	SeveritySuccess: {Background: "#d4edda", Text: "#155724", Border: "#28a745"},
	SeverityError:   {Background: "#f8d7da", Text: "#721c24", Border: "#dc3545"},
	SeverityWarning: {Background: "#fff3cd", Text: "#856404", Border: "#ffc107"},
	SeverityInfo:    {Background: "#d1ecf1", Text: "#0c5460", Border: "#17a2b8"},
}

// SchemeFor returns the colours for s. Unknown severities get the info scheme.
func SchemeFor(s Severity) Scheme {
	if scheme, ok := schemes[s]; ok {
		return scheme
	}
	return schemes[SeverityInfo]
}

// Notification is one transient message in the container.
type Notification struct {
	ID       int64
	Message  string
	Severity Severity
	Scheme   Scheme
	Visible  bool
}

// Renderer draws notifications somewhere: a terminal, a browser page.
// Calls for one notification always arrive in the order Mount,
// SetVisible(true), SetVisible(false), Remove, though any of the later
// steps may be skipped when the Notifier is closed.
type Renderer interface {
	Mount(n Notification) error
	SetVisible(n Notification, visible bool) error
	Remove(n Notification) error
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithDefaultDuration sets the display time used when Show gets a
// non-positive duration.
func WithDefaultDuration(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.defaultDuration = d
		}
	}
}

// WithFades overrides the fade-in delay and fade-out length.
func WithFades(in, out time.Duration) Option {
	return func(n *Notifier) {
		n.fadeIn = in
		n.fadeOut = out
	}
}

// WithLogger sets the logger used for renderer failures.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

type entry struct {
	n      Notification
	timers []*time.Timer
}

// Notifier is the notification container. Create one at application
// start and share it; it is safe for concurrent use.
type Notifier struct {
	renderer        Renderer
	logger          *zap.Logger
	defaultDuration time.Duration
	fadeIn          time.Duration
	fadeOut         time.Duration

	mu     sync.Mutex
	nextID int64
	active []*entry
	closed bool
}

// NewNotifier creates a Notifier drawing through r.
func NewNotifier(r Renderer, opts ...Option) *Notifier {
	n := &Notifier{
		renderer:        r,
		logger:          zap.NewNop(),
		defaultDuration: DefaultDuration,
		fadeIn:          DefaultFadeIn,
		fadeOut:         DefaultFadeOut,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show displays message for duration (DefaultDuration when <= 0) and
// returns the mounted notification. The notification fades in shortly
// after mounting, fades out when duration elapses and is removed once
// the fade-out finishes. Each notification runs on its own timers.
//
// After Close, Show returns a zero Notification and renders nothing.
func (n *Notifier) Show(message string, severity Severity, duration time.Duration) Notification {
	if duration <= 0 {
		duration = n.defaultDuration
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return Notification{}
	}

	n.nextID++
	e := &entry{n: Notification{
		ID:       n.nextID,
		Message:  message,
		Severity: severity,
		Scheme:   SchemeFor(severity),
	}}
	n.active = append(n.active, e)
	n.render("mount", e.n, n.renderer.Mount(e.n))

	id := e.n.ID
	e.timers = append(e.timers,
		time.AfterFunc(n.fadeIn, func() { n.setVisible(id, true) }),
		time.AfterFunc(duration, func() { n.hide(id) }),
	)
	return e.n
}

// Active returns the mounted notifications, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notification, 0, len(n.active))
	for _, e := range n.active {
		out = append(out, e.n)
	}
	return out
}

// Close stops every pending timer. Mounted notifications stay where
// they are; no further renderer calls are made.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	for _, e := range n.active {
		for _, t := range e.timers {
			t.Stop()
		}
	}
}

func (n *Notifier) setVisible(id int64, visible bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	e := n.find(id)
	if e == nil || n.closed || e.n.Visible == visible {
		return
	}
	e.n.Visible = visible
	n.render("set visible", e.n, n.renderer.SetVisible(e.n, visible))
}

func (n *Notifier) hide(id int64) {
	n.setVisible(id, false)

	n.mu.Lock()
	defer n.mu.Unlock()

	if e := n.find(id); e != nil && !n.closed {
		e.timers = append(e.timers, time.AfterFunc(n.fadeOut, func() { n.remove(id) }))
	}
}

func (n *Notifier) remove(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	for i, e := range n.active {
		if e.n.ID == id {
			n.active = append(n.active[:i], n.active[i+1:]...)
			n.render("remove", e.n, n.renderer.Remove(e.n))
			return
		}
	}
}

// find must be called with n.mu held.
func (n *Notifier) find(id int64) *entry {
	for _, e := range n.active {
		if e.n.ID == id {
			return e
		}
	}
	return nil
}

func (n *Notifier) render(step string, note Notification, err error) {
	if err != nil {
		n.logger.Warn("notification render failed",
			zap.String("step", step),
			zap.Int64("id", note.ID),
			zap.Error(err),
		)
	}
}
