package guidance

import (
	"sync"
	"time"
)

const (
	// DefaultFrameInterval approximates one animation frame at 60 fps.
	DefaultFrameInterval = 16 * time.Millisecond

	dashStep = 0.5
)

// FrameFunc receives the dash offset of each animation frame. It runs on the
// animation goroutine and must not block.
type FrameFunc func(offset float64)

// Display keeps the route currently shown on a floor plan and owns the dash
// animation drawn along it. Each resolved instruction replaces the running animation.
type Display struct {
	planner  *Planner
	interval time.Duration
	onFrame  FrameFunc

	mu    sync.Mutex
	route *Route
	anim  *animation
}

// NewDisplay creates a display. interval <= 0 selects DefaultFrameInterval;
// onFrame may be nil.
func NewDisplay(planner *Planner, interval time.Duration, onFrame FrameFunc) *Display {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Display{
		planner:  planner,
		interval: interval,
		onFrame:  onFrame,
	}
}

// Apply plans the instruction. On success the route is replaced and the
// animation restarted; when nothing resolves the display is left untouched
// and Apply reports false.
func (d *Display) Apply(text string) (*Route, bool) {
	route, err := d.planner.PlanText(text)

	if err != nil {
		return d.Route(), false
	}

	d.mu.Lock()
	previous := d.anim
	d.route = route
	d.anim = startAnimation(d.interval, d.onFrame)
	d.mu.Unlock()

	if previous != nil {
		previous.stop()
	}

	return route, true
}

// Route returns the route on display, or nil when none was ever resolved.
func (d *Display) Route() *Route {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.route
}

// Animating reports whether a dash animation is running.
func (d *Display) Animating() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.anim != nil
}

// Close stops the animation. The route stays readable.
func (d *Display) Close() {
	d.mu.Lock()
	anim := d.anim
	d.anim = nil
	d.mu.Unlock()

	if anim != nil {
		anim.stop()
	}
}

type animation struct {
	quit chan struct{}
	done chan struct{}
}

func startAnimation(interval time.Duration, onFrame FrameFunc) *animation {
	a := &animation{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(a.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		offset := 0.0
		for {
			select {
			case <-a.quit:
				return
			case <-ticker.C:
				offset -= dashStep
				if onFrame != nil {
					onFrame(offset)
				}
			}
		}
	}()

	return a
}

// stop ends the loop and waits for the goroutine to exit.
func (a *animation) stop() {
	close(a.quit)
	<-a.done
}
