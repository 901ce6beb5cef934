package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TerminalRenderer prints each notification as one styled line when it
// is mounted. Fades and removal have no terminal equivalent and are
// ignored.
type TerminalRenderer struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
}

// NewTerminalRenderer creates a renderer writing to w. Colours are only
// emitted when w is a colour-capable terminal.
func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{w: w, renderer: lipgloss.NewRenderer(w)}
}

func (t *TerminalRenderer) Mount(n Notification) error {
	style := t.renderer.NewStyle().
		Foreground(lipgloss.Color(n.Scheme.Text)).
		Background(lipgloss.Color(n.Scheme.Background)).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color(n.Scheme.Border)).
		Padding(0, 1)

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.w, style.Render(n.Message))
	return err
}

func (t *TerminalRenderer) SetVisible(Notification, bool) error { return nil }

func (t *TerminalRenderer) Remove(Notification) error { return nil }
