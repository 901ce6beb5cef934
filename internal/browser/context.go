// Package browser drives a live portal page through Chrome using ChromeDP.
//
// It renders notifications into the page, applies the keyboard focus
// styling and navigates between portal pages. Browser lifecycle is
// owned by a ContextHolder shared by everything that talks to the page.
package browser

import (
	"context"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ContextHolder provides thread-safe access to a browser context.
//
// The browser can be restarted after errors; callers always Get the
// current context instead of keeping their own copy.
type ContextHolder struct {
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
	headless bool
	logger   *zap.Logger
}

// NewContextHolder starts a browser and wraps its context.
//
// Parameters:
//   - headless: run Chrome without a window
//   - logger: receives ChromeDP debug output (nil for none)
func NewContextHolder(headless bool, logger *zap.Logger) *ContextHolder {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := NewContext(headless, logger)
	return &ContextHolder{
		ctx:      ctx,
		cancel:   cancel,
		headless: headless,
		logger:   logger,
	}
}

// Get returns the current browser context.
func (h *ContextHolder) Get() context.Context {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ctx
}

// Set swaps in a new browser context, cancelling the old one.
func (h *ContextHolder) Set(ctx context.Context, cancel context.CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
	}
	h.ctx = ctx
	h.cancel = cancel
}

// Restart replaces the browser with a fresh one using the same options.
func (h *ContextHolder) Restart() {
	h.logger.Warn("restarting browser context")
	ctx, cancel := NewContext(h.headless, h.logger)
	h.Set(ctx, cancel)
}

// Cancel shuts the browser down. Call it on application exit.
func (h *ContextHolder) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// NewContext creates a Chrome allocator and browser context.
//
// Returns the browser context and a cancel function that tears down
// both the tab and the Chrome process.
func NewContext(headless bool, logger *zap.Logger) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	ctx, ctxCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Sugar().Debugf),
		chromedp.WithErrorf(logger.Sugar().Errorf),
	)
	logger.Debug("browser context created", zap.Bool("headless", headless))

	return ctx, func() {
		ctxCancel()
		allocCancel()
	}
}
