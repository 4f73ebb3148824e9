// Package gate defers navigations requested while a screen is being dismissed.
//
// The platform navigator misbehaves when a push lands in the middle of a pop
// animation. The container reports the start and end of every dismissal via
// OnWillPop and OnDidPop; navigations requested in between are queued and
// replayed in order once the dismissal completes.
package gate

import (
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/navcore-dev/navcore/pkg/navcore/constants"
	"github.com/navcore-dev/navcore/pkg/navcore/internal"
	"github.com/navcore-dev/navcore/pkg/navcore/routes"
	"github.com/navcore-dev/navcore/pkg/navcore/tracker"
)

// Scheduler runs the queue flush that follows OnDidPop.
type Scheduler func(flush func())

// Immediate runs the flush before OnDidPop returns.
func Immediate(flush func()) { flush() }

// Async runs the flush on its own goroutine.
func Async(flush func()) { go flush() }

// Config configures a Gate.
type Config struct {
	// NativeCooldown is the debounce window for native routes. Zero uses
	// constants.DefaultNativeCooldown; a negative value disables debouncing.
	NativeCooldown time.Duration
	Clock          func() time.Time
	Scheduler      Scheduler
	Logger         *slog.Logger
	// Debug panics on mismatched params instead of dropping the navigation.
	Debug bool
}

// Gate sits in front of a tracker.Tracker and decides whether a navigation is
// dispatched now, queued, or dropped.
type Gate struct {
	tracker   *tracker.Tracker
	cooldown  *internal.Cooldown
	clock     func() time.Time
	scheduler Scheduler
	logger    *slog.Logger
	debug     bool

	mu           sync.Mutex
	closed       *atomic.Bool
	flushPending bool
	queue        []func()
}

// New creates an open Gate dispatching through t.
func New(t *tracker.Tracker, cfg Config) *Gate {
	window := cfg.NativeCooldown
	if window == 0 {
		window = constants.DefaultNativeCooldown
	}

	g := &Gate{
		tracker:   t,
		cooldown:  internal.NewCooldown(window),
		clock:     cfg.Clock,
		scheduler: cfg.Scheduler,
		logger:    internal.LoggerOr(cfg.Logger),
		debug:     cfg.Debug,
		closed:    atomic.NewBool(false),
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	if g.scheduler == nil {
		g.scheduler = Immediate
	}
	return g
}

type navigateOptions struct {
	replace bool
}

// NavigateOption modifies a single Navigate call.
type NavigateOption func(*navigateOptions)

// Replace replaces the focused route instead of pushing.
func Replace() NavigateOption {
	return func(o *navigateOptions) { o.replace = true }
}

// WithReplace sets replace from a boolean.
func WithReplace(replace bool) NavigateOption {
	return func(o *navigateOptions) { o.replace = replace }
}

// Navigate requests a navigation to route.
//
// Routes outside the catalog bypass the gate. Native routes requested again
// within the cooldown window are dropped. While a dismissal is in flight, or
// its queue has not been flushed yet, the navigation is queued.
func (g *Gate) Navigate(route routes.Route, params routes.Params, opts ...NavigateOption) {
	var o navigateOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !routes.Known(route) {
		g.tracker.Dispatch(route, params, o.replace)
		return
	}

	if err := routes.ValidateParams(route, params); err != nil {
		if g.debug {
			panic(err)
		}
		g.logger.Error("dropping navigation with mismatched params", "route", route.String(), "error", err)
		return
	}

	if routes.IsNative(route) && !g.cooldown.TryAcquire(g.clock()) {
		g.logger.Debug("debounced native navigation", "route", route.String())
		return
	}

	g.mu.Lock()
	if g.closed.Load() || g.flushPending {
		g.queue = append(g.queue, func() {
			g.tracker.Dispatch(route, params, o.replace)
		})
		pending := len(g.queue)
		g.mu.Unlock()
		g.logger.Debug("queued navigation behind dismissal", "route", route.String(), "pending", pending)
		return
	}
	g.mu.Unlock()

	g.tracker.Dispatch(route, params, o.replace)
}

// DispatchAction sends an action object straight to the tracker. Actions are
// never gated.
func (g *Gate) DispatchAction(action tracker.Action) {
	g.tracker.DispatchAction(action)
}

// GoBack pops one platform level. It is not gated.
func (g *Gate) GoBack() {
	g.tracker.GoBack()
}

// OnWillPop closes the gate. Call when a dismissal animation starts.
func (g *Gate) OnWillPop() {
	g.mu.Lock()
	g.closed.Store(true)
	g.mu.Unlock()
}

// OnDidPop opens the gate and schedules a flush of queued navigations.
// Call when the dismissal animation has finished.
func (g *Gate) OnDidPop() {
	g.mu.Lock()
	g.closed.Store(false)
	if len(g.queue) == 0 || g.flushPending {
		g.mu.Unlock()
		return
	}
	g.flushPending = true
	g.mu.Unlock()

	g.scheduler(g.flush)
}

// flush runs queued navigations in FIFO order. It stops early if one of them
// starts a new dismissal; the rest wait for the next OnDidPop.
func (g *Gate) flush() {
	for {
		g.mu.Lock()
		if g.closed.Load() || len(g.queue) == 0 {
			g.flushPending = false
			g.mu.Unlock()
			return
		}
		next := g.queue[0]
		g.queue[0] = nil
		g.queue = g.queue[1:]
		g.mu.Unlock()

		next()
	}
}

// IsClosed reports whether a dismissal is in flight.
func (g *Gate) IsClosed() bool {
	return g.closed.Load()
}

// Pending returns the number of queued navigations.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}

// Reset drops every queued navigation and clears the cooldown. The open or
// closed state is left alone.
func (g *Gate) Reset() {
	g.mu.Lock()
	dropped := len(g.queue)
	g.queue = nil
	g.mu.Unlock()

	g.cooldown.Reset()
	if dropped > 0 {
		g.logger.Warn("dropped queued navigations", "count", dropped)
	}
}

// Tracker returns the tracker the gate dispatches through.
func (g *Gate) Tracker() *tracker.Tracker {
	return g.tracker
}
