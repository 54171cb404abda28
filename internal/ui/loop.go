package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/hotpot-dev/hotpot/internal/config"
	"github.com/hotpot-dev/hotpot/internal/logging"
	"github.com/hotpot-dev/hotpot/internal/screen"
	"github.com/hotpot-dev/hotpot/internal/terminal"
)

// RunOptions configures the event loop.
type RunOptions struct {
	TickInterval time.Duration
	// Changes signals that the store was modified by another process.
	Changes <-chan struct{}
	// ReloadInterval is the minimum time between two reloads.
	ReloadInterval time.Duration
	// Debug traces reloads and frame writes.
	Debug bool
}

// Run drives the dashboard until the user quits, ctx is done or input ends.
// Keys, ticks and store changes are handled one at a time on this goroutine,
// and at most one frame is drawn per event. The terminal is restored on every
// return path.
func Run(ctx context.Context, d *Dashboard, t terminal.Terminal, opts RunOptions) (err error) {
	if opts.TickInterval <= 0 {
		opts.TickInterval = config.DefaultTickInterval
	}
	if opts.ReloadInterval <= 0 {
		opts.ReloadInterval = 500 * time.Millisecond
	}

	if err := t.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer func() {
		if stopErr := t.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	width, height, err := t.Size()
	if err != nil {
		return err
	}
	scr := screen.New(t, width, height)
	d.Resize(width, height)

	ticker := time.NewTicker(opts.TickInterval)
	defer ticker.Stop()

	reloads := rate.NewLimiter(rate.Every(opts.ReloadInterval), 1)
	pendingReload := false

	draw := func() error {
		if w, h, err := t.Size(); err == nil && scr.Resize(w, h) {
			d.Resize(w, h)
			log.Printf("[DASHBOARD] resized to %dx%d", w, h)
		}
		d.Draw(scr.Begin())
		stats, err := scr.Flush()
		if stats.Bytes > 0 {
			logging.Debugf(opts.Debug, "[DASHBOARD] frame full=%t cells=%d runs=%d bytes=%d", stats.Full, stats.Cells, stats.Runs, stats.Bytes)
		}
		return err
	}

	d.Tick(time.Now())
	if err := draw(); err != nil {
		return err
	}

	keys := t.Keys()
	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return t.Err()
			}
			d.HandleKey(k)
		case now := <-ticker.C:
			d.Tick(now)
		case <-opts.Changes:
			pendingReload = true
		}

		if d.Quitting() {
			return nil
		}
		if pendingReload {
			if reloads.Allow() {
				pendingReload = false
				d.Reload()
				logging.Debugf(opts.Debug, "[DASHBOARD] reloaded %d accounts", len(d.Accounts()))
			} else {
				logging.Debugf(opts.Debug, "[DASHBOARD] reload deferred")
			}
		}
		if err := draw(); err != nil {
			return err
		}
	}
}
