// Package reveal decides when a page section starts its enter animation.
//
// A Trigger watches a single region and latches a revealed flag the first
// time the region crosses a visibility threshold. The flag never resets:
// scrolling the region back out of view leaves it revealed.
package reveal

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

const (
	DefaultThreshold = 0.15
	DefaultFallback  = time.Second
)

// Options configures a Trigger. The zero value uses DefaultThreshold, no
// margin, no delay and DefaultFallback.
type Options struct {
	// Threshold is the fraction of the region that must be visible. Zero
	// means DefaultThreshold, so use a small positive value such as 0.001
	// to reveal on the first visible pixel.
	Threshold float64
	// Margin grows the viewport on both edges, in pixels, so sections can
	// start animating shortly before they scroll into view.
	Margin float64
	// Delay is waited after the geometric condition holds.
	Delay time.Duration
	// Fallback reveals the region when the viewport cannot observe it.
	Fallback time.Duration
	Kind     Kind
}

// Normalize fills in defaults and clamps out-of-range values.
func (o Options) Normalize() Options {
	switch {
	case o.Threshold <= 0:
		o.Threshold = DefaultThreshold
	case o.Threshold > 1:
		o.Threshold = 1
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.Fallback <= 0 {
		o.Fallback = DefaultFallback
	}
	if o.Kind == "" {
		o.Kind = FadeUp
	}
	return o
}

// Trigger is the one-way visibility latch for one region.
type Trigger struct {
	opts  Options
	clock clock.Clock

	mu        sync.Mutex
	mounted   bool
	unmounted bool
	scheduled bool
	revealed  bool
	sub       Subscription
	stop      chan struct{}
	done      chan struct{}
}

// New returns an unmounted trigger. A nil clock uses the wall clock.
func New(opts Options, c clock.Clock) *Trigger {
	if c == nil {
		c = clock.NewClock()
	}
	return &Trigger{
		opts:  opts.Normalize(),
		clock: c,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Options returns the normalized options in use.
func (t *Trigger) Options() Options {
	return t.opts
}

// Mount starts watching region. Content already inside the viewport is
// revealed after the delay without registering an observation. When the
// viewport is nil or refuses to observe, the region is revealed after the
// fallback timeout so it can never stay hidden.
func (t *Trigger) Mount(region Region, vp Viewport) {
	t.mu.Lock()
	if t.mounted || t.unmounted {
		t.mu.Unlock()
		return
	}
	t.mounted = true
	t.mu.Unlock()

	if vp == nil || region == nil {
		t.schedule(t.opts.Fallback + t.opts.Delay)
		return
	}

	if t.satisfied(VisibleRatio(region.Rect(), vp.Height(), t.opts.Margin)) {
		t.schedule(t.opts.Delay)
		return
	}

	sub, err := vp.Observe(region, t.opts.Threshold, t.opts.Margin, t.observed)
	if err != nil {
		t.schedule(t.opts.Fallback + t.opts.Delay)
		return
	}

	t.mu.Lock()
	if t.scheduled || t.unmounted {
		// the callback fired inside Observe, or we were torn down meanwhile
		t.mu.Unlock()
		sub.Unobserve()
		return
	}
	t.sub = sub
	t.mu.Unlock()
}

// Unmount cancels the observation and any pending reveal. It is safe to
// call more than once.
func (t *Trigger) Unmount() {
	t.mu.Lock()
	if t.unmounted {
		t.mu.Unlock()
		return
	}
	t.unmounted = true
	sub := t.sub
	t.sub = nil
	close(t.stop)
	t.mu.Unlock()

	if sub != nil {
		sub.Unobserve()
	}
}

// Revealed reports the latch state.
func (t *Trigger) Revealed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revealed
}

// Done is closed when the region is revealed.
func (t *Trigger) Done() <-chan struct{} {
	return t.done
}

// Style returns the classes for the current latch state.
func (t *Trigger) Style() Style {
	return t.opts.Kind.StyleFor(t.Revealed())
}

func (t *Trigger) satisfied(ratio float64) bool {
	return ratio > 0 && ratio >= t.opts.Threshold
}

func (t *Trigger) observed(ratio float64) {
	if !t.satisfied(ratio) {
		return
	}

	t.mu.Lock()
	sub := t.sub
	t.sub = nil
	t.mu.Unlock()
	if sub != nil {
		sub.Unobserve()
	}

	t.schedule(t.opts.Delay)
}

func (t *Trigger) schedule(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.scheduled || t.unmounted {
		return
	}
	t.scheduled = true

	if d <= 0 {
		t.latch()
		return
	}

	timer := t.clock.NewTimer(d)
	go func() {
		select {
		case <-timer.C():
			t.mu.Lock()
			if !t.unmounted {
				t.latch()
			}
			t.mu.Unlock()
		case <-t.stop:
			timer.Stop()
		}
	}()
}

// latch must be called with mu held.
func (t *Trigger) latch() {
	if t.revealed {
		return
	}
	t.revealed = true
	close(t.done)
}
