// Package sheet composes modal bottom sheets on top of a persistent main route.
//
// A Stack holds the navigator state. A Composer watches it and keeps one
// Container per open sheet. Removal is two-phase: a sheet that leaves the
// state is told to dismiss, and stays mounted until its container reports the
// dismissal animation finished.
package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/navcore-dev/navcore/pkg/navcore/constants"
	"github.com/navcore-dev/navcore/pkg/navcore/internal"
	"github.com/navcore-dev/navcore/pkg/navcore/routes"
)

var (
	ErrNoRoot              = errors.New("sheet: no root descriptor")
	ErrMultipleRoots       = errors.New("sheet: more than one root descriptor")
	ErrDuplicateDescriptor = errors.New("sheet: route registered twice")
	ErrUnknownRoute        = errors.New("sheet: route not in catalog")
	ErrNotRegistered       = errors.New("sheet: route not registered with composer")
	ErrNoFactory           = errors.New("sheet: no container factory")
)

// Options configures how a route is presented.
type Options struct {
	Root            bool    // The persistent main route
	Height          float64 // Fraction of the screen height; 0 lets the container size to content
	BackdropOpacity float64
	ScrollEnabled   bool
	// OnDismiss is called after the sheet's dismissal animation completes.
	OnDismiss func(Entry)
}

// Descriptor registers a route with the composer.
type Descriptor struct {
	Name    routes.Route
	Options Options
}

// Container is the host's dismissible bottom-sheet wrapper.
type Container interface {
	Present()
	Dismiss()
}

// ContainerFactory creates the container for entry. The container must call
// onDismissed once its dismissal animation completes, whether the dismissal
// was requested by the composer or by the user.
type ContainerFactory func(entry Entry, opts Options, onDismissed func()) Container

// Timer is the subset of *time.Timer the composer uses.
type Timer interface {
	Stop() bool
}

// Config configures a Composer.
type Config struct {
	Descriptors []Descriptor
	Factory     ContainerFactory
	// LeakTimeout is how long a dismissing sheet may stay mounted before it
	// is reported. Zero uses constants.DefaultSheetLeakTimeout; a negative
	// value disables reporting.
	LeakTimeout time.Duration
	// Debug enables stuck-sheet reporting.
	Debug bool
	// OnStuck is called, in debug, for every sheet reported as stuck.
	OnStuck   func(Entry)
	AfterFunc func(d time.Duration, f func()) Timer
	Logger    *slog.Logger
}

type mountedSheet struct {
	entry      Entry
	options    Options
	container  Container
	dismissing bool
	leak       Timer
}

// Composer keeps containers in sync with a sheet Stack.
type Composer struct {
	stack       *Stack
	descriptors map[routes.Route]Descriptor
	factory     ContainerFactory
	leakTimeout time.Duration
	debug       bool
	onStuck     func(Entry)
	afterFunc   func(d time.Duration, f func()) Timer
	logger      *slog.Logger
	unsubscribe func()

	mu      sync.Mutex
	mounted []*mountedSheet
	byKey   map[string]*mountedSheet
}

// NewComposer validates the descriptors, creates the sheet Stack rooted at
// the root descriptor and starts following it.
func NewComposer(cfg Config) (*Composer, error) {
	if cfg.Factory == nil {
		return nil, ErrNoFactory
	}

	descriptors := make(map[routes.Route]Descriptor, len(cfg.Descriptors))
	var root *Descriptor
	for i, d := range cfg.Descriptors {
		if !routes.Known(d.Name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, d.Name)
		}
		if _, dup := descriptors[d.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDescriptor, d.Name)
		}
		if d.Options.Root {
			if root != nil {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleRoots, root.Name, d.Name)
			}
			root = &cfg.Descriptors[i]
		}
		descriptors[d.Name] = d
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	c := &Composer{
		stack:       NewStack(root.Name),
		descriptors: descriptors,
		factory:     cfg.Factory,
		leakTimeout: cfg.LeakTimeout,
		debug:       cfg.Debug,
		onStuck:     cfg.OnStuck,
		afterFunc:   cfg.AfterFunc,
		logger:      internal.LoggerOr(cfg.Logger),
		byKey:       make(map[string]*mountedSheet),
	}
	if c.leakTimeout == 0 {
		c.leakTimeout = constants.DefaultSheetLeakTimeout
	}
	if c.afterFunc == nil {
		c.afterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	c.unsubscribe = c.stack.Subscribe(c.Sync)
	return c, nil
}

// Stack returns the navigator state the composer follows.
func (c *Composer) Stack() *Stack {
	return c.stack
}

// Main returns the main entry. It is always mounted.
func (c *Composer) Main() Entry {
	return c.stack.Main()
}

// Open pushes a sheet for a registered route.
func (c *Composer) Open(name routes.Route, params routes.Params) (Entry, error) {
	d, ok := c.descriptors[name]
	if !ok || d.Options.Root {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return c.stack.Push(name, params)
}

// Dismiss removes the sheet with key from the navigator state. The sheet
// stays mounted until its container finishes dismissing.
func (c *Composer) Dismiss(key string) bool {
	return c.stack.Remove(key)
}

// DismissTop removes the top sheet from the navigator state.
func (c *Composer) DismissTop() (Entry, bool) {
	return c.stack.Pop()
}

// DismissAll removes every sheet from the navigator state.
func (c *Composer) DismissAll() {
	c.stack.PopToRoot()
}

// Sync reconciles mounted containers with entries. Entries new to the
// composer are mounted and presented; mounted sheets missing from entries are
// told to dismiss.
func (c *Composer) Sync(entries []Entry) {
	mainKey := c.stack.Main().Key

	var present, dismiss []Container
	var created []*mountedSheet

	c.mu.Lock()
	inState := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Key == mainKey {
			continue
		}
		inState[e.Key] = struct{}{}

		if m, ok := c.byKey[e.Key]; ok {
			if m.dismissing {
				// Back in the state before the exit animation finished.
				m.dismissing = false
				c.stopLeakLocked(m)
				if m.container != nil {
					present = append(present, m.container)
				}
			}
			continue
		}

		d, ok := c.descriptors[e.Name]
		if !ok || d.Options.Root {
			c.logger.Warn("no sheet registered for route", "route", e.Name.String(), "key", e.Key)
			continue
		}
		// Reserved now, container attached once the factory returns.
		m := &mountedSheet{entry: e, options: d.Options}
		c.mounted = append(c.mounted, m)
		c.byKey[e.Key] = m
		created = append(created, m)
	}

	for _, m := range c.mounted {
		if _, ok := inState[m.entry.Key]; ok || m.dismissing {
			continue
		}
		m.dismissing = true
		c.startLeakLocked(m)
		if m.container != nil {
			dismiss = append(dismiss, m.container)
		}
	}
	c.mu.Unlock()

	// The factory is host code and may call back into the composer.
	for _, m := range created {
		c.attach(m)
	}
	for _, container := range present {
		container.Present()
	}
	for _, container := range dismiss {
		container.Dismiss()
	}
}

// attach creates the container for a reserved sheet and presents it, unless
// the sheet left the state or finished dismissing while the factory ran.
func (c *Composer) attach(m *mountedSheet) {
	key := m.entry.Key
	container := c.factory(m.entry, m.options, func() { c.handleDismissed(key) })

	c.mu.Lock()
	current, mounted := c.byKey[key]
	mounted = mounted && current == m
	if mounted {
		m.container = container
	}
	dismissing := m.dismissing
	c.mu.Unlock()

	switch {
	case !mounted:
	case dismissing:
		container.Dismiss()
	default:
		container.Present()
	}
}

// handleDismissed unmounts key once its container has finished dismissing.
// A sheet the user dismissed directly is still in the navigator state, so it
// is removed from there as well.
func (c *Composer) handleDismissed(key string) {
	c.mu.Lock()
	m, ok := c.byKey[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.byKey, key)
	for i, other := range c.mounted {
		if other == m {
			c.mounted = append(c.mounted[:i:i], c.mounted[i+1:]...)
			break
		}
	}
	c.stopLeakLocked(m)
	userDismissed := !m.dismissing
	c.mu.Unlock()

	if userDismissed {
		c.stack.Remove(key)
	}
	if m.options.OnDismiss != nil {
		m.options.OnDismiss(m.entry)
	}
}

func (c *Composer) startLeakLocked(m *mountedSheet) {
	if !c.debug || c.leakTimeout < 0 {
		return
	}
	key := m.entry.Key
	m.leak = c.afterFunc(c.leakTimeout, func() { c.reportStuck(key) })
}

func (c *Composer) stopLeakLocked(m *mountedSheet) {
	if m.leak != nil {
		m.leak.Stop()
		m.leak = nil
	}
}

func (c *Composer) reportStuck(key string) {
	c.mu.Lock()
	m, ok := c.byKey[key]
	stuck := ok && m.dismissing
	var entry Entry
	if stuck {
		entry = m.entry
	}
	c.mu.Unlock()

	if !stuck {
		return
	}
	c.logger.Warn("sheet still mounted after dismissal",
		"route", entry.Name.String(), "key", key, "timeout", c.leakTimeout.String())
	if c.onStuck != nil {
		c.onStuck(entry)
	}
}

// Mounted returns the keys of every mounted sheet, in mount order. The main
// entry is not included.
func (c *Composer) Mounted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.mounted))
	for _, m := range c.mounted {
		out = append(out, m.entry.Key)
	}
	return out
}

// Dismissing returns the keys of mounted sheets waiting for their dismissal
// to complete.
func (c *Composer) Dismissing() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, m := range c.mounted {
		if m.dismissing {
			out = append(out, m.entry.Key)
		}
	}
	return out
}

// IsMounted reports whether key is the main entry or a mounted sheet.
func (c *Composer) IsMounted(key string) bool {
	if key == c.stack.Main().Key {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.byKey[key]
	return ok
}

// Close stops following the stack and cancels pending leak timers. Mounted
// containers are left alone.
func (c *Composer) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.mounted {
		c.stopLeakLocked(m)
	}
}
