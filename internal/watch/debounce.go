package watch

import (
	"context"
	"time"
)

// Debouncer coalesces bursts of change notifications into a single deploy
// trigger after a quiet window with no further activity. Deploys run
// synchronously inside the loop, so at most one is in flight; triggers
// arriving mid-deploy buffer exactly one follow-up.
type Debouncer struct {
	quiet   time.Duration
	trigger chan struct{}
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = 2 * time.Second
	}
	return &Debouncer{
		quiet:   quiet,
		trigger: make(chan struct{}, 1),
	}
}

// Trigger requests a deploy. Never blocks; a pending trigger absorbs
// further requests.
func (d *Debouncer) Trigger() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

// Run loops until ctx is done, invoking fire after each quiet window that
// follows one or more triggers.
func (d *Debouncer) Run(ctx context.Context, fire func()) {
	timer := time.NewTimer(d.quiet)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			if armed && !timer.Stop() {
				<-timer.C
			}
			return
		case <-d.trigger:
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(d.quiet)
			armed = true
		case <-timer.C:
			armed = false
			fire()
		}
	}
}
