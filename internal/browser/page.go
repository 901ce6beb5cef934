package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"gportal/internal/ui"
)

// Focus styling applied to every keyboard-reachable element.
const (
	FocusableSelector  = `a, button, input, select, textarea, [tabindex]:not([tabindex="-1"])`
	FocusOutline       = "2px solid #27ae60"
	FocusOutlineOffset = "2px"
)

const containerID = "notification-container"

// PageRenderer renders ui notifications into the page held by a
// ContextHolder. It implements ui.Renderer.
type PageRenderer struct {
	holder *ContextHolder
}

// NewPageRenderer creates a renderer for the browser in h.
func NewPageRenderer(h *ContextHolder) *PageRenderer {
	return &PageRenderer{holder: h}
}

func (r *PageRenderer) Mount(n ui.Notification) error {
	return r.eval(mountScript(n))
}

func (r *PageRenderer) SetVisible(n ui.Notification, visible bool) error {
	return r.eval(visibilityScript(n, visible))
}

func (r *PageRenderer) Remove(n ui.Notification) error {
	return r.eval(removeScript(n))
}

func (r *PageRenderer) eval(script string) error {
	if err := chromedp.Run(r.holder.Get(), chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("evaluate notification script: %w", err)
	}
	return nil
}

// ApplyFocusStyles attaches focus and blur listeners to every focusable
// element of the current page and the hover lift to .form-submit
// buttons. It waits for the document to finish loading and returns the
// number of focusable elements found.
func ApplyFocusStyles(ctx context.Context) (int, error) {
	var count int
	err := chromedp.Run(ctx,
		chromedp.Evaluate(focusScript(), &count, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("apply focus styles: %w", err)
	}
	return count, nil
}

// Navigate opens the page behind a landing-page action, resolved
// against the frontend base URL.
func Navigate(ctx context.Context, frontendURL, page string) (string, error) {
	target, err := PageURL(frontendURL, page)
	if err != nil {
		return "", err
	}
	if err := chromedp.Run(ctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("navigate to %s: %w", target, err)
	}
	return target, nil
}

// PageURL resolves ui.NavigationTarget(page) against frontendURL.
func PageURL(frontendURL, page string) (string, error) {
	base, err := url.Parse(strings.TrimSuffix(frontendURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("parse frontend url: %w", err)
	}
	return base.ResolveReference(&url.URL{Path: ui.NavigationTarget(page)}).String(), nil
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func elementID(n ui.Notification) string {
	return fmt.Sprintf("notification-%d", n.ID)
}

func mountScript(n ui.Notification) string {
	return fmt.Sprintf(`(() => {
	let container = document.getElementById(%[1]s);
	if (!container) {
		container = document.createElement('div');
		container.id = %[1]s;
		container.style.cssText = 'position: fixed; top: 20px; right: 20px; z-index: 1000;';
		document.body.appendChild(container);
	}
	const el = document.createElement('div');
	el.id = %[2]s;
	el.className = %[3]s;
	el.textContent = %[4]s;
	el.style.cssText = %[5]s;
	container.appendChild(el);
})()`,
		jsString(containerID),
		jsString(elementID(n)),
		jsString("notification notification-"+string(n.Severity)),
		jsString(n.Message),
		jsString(notificationCSS(n.Scheme)),
	)
}

func notificationCSS(s ui.Scheme) string {
	return fmt.Sprintf("background-color: %s; color: %s; border-left: 4px solid %s; "+
		"padding: 15px 20px; margin-bottom: 10px; border-radius: 5px; "+
		"box-shadow: 0 4px 8px rgba(0, 0, 0, 0.1); font-size: 14px; "+
		"opacity: 0; transition: opacity 0.3s ease-in-out;",
		s.Background, s.Text, s.Border)
}

func visibilityScript(n ui.Notification, visible bool) string {
	opacity := "0"
	if visible {
		opacity = "1"
	}
	return fmt.Sprintf(`(() => {
	const el = document.getElementById(%s);
	if (el) el.style.opacity = %s;
})()`, jsString(elementID(n)), jsString(opacity))
}

func removeScript(n ui.Notification) string {
	return fmt.Sprintf(`(() => {
	const el = document.getElementById(%s);
	if (el && el.parentNode) el.parentNode.removeChild(el);
})()`, jsString(elementID(n)))
}

func focusScript() string {
	return fmt.Sprintf(`new Promise(resolve => {
	const apply = () => {
		const focusable = document.querySelectorAll(%[1]s);
		focusable.forEach(el => {
			el.addEventListener('focus', () => {
				el.style.outline = %[2]s;
				el.style.outlineOffset = %[3]s;
			});
			el.addEventListener('blur', () => {
				el.style.outline = '';
			});
		});
		document.querySelectorAll('.form-submit').forEach(btn => {
			btn.addEventListener('mouseenter', () => { btn.style.transform = 'translateY(-2px)'; });
			btn.addEventListener('mouseleave', () => { btn.style.transform = 'translateY(0)'; });
		});
		resolve(focusable.length);
	};
	if (document.readyState === 'loading') {
		document.addEventListener('DOMContentLoaded', apply);
	} else {
		apply();
	}
})`, jsString(FocusableSelector), jsString(FocusOutline), jsString(FocusOutlineOffset))
}
