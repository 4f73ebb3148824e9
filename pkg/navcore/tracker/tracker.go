// Package tracker holds the reference to the top-level platform navigator.
//
// The platform navigator only exists after the root container has mounted,
// but navigation requests can come from boot code that runs earlier. The
// Tracker therefore starts unbound; while unbound every read returns
// (zero, false) and every dispatch is dropped.
package tracker

import (
	"log/slog"

	"go.uber.org/atomic"

	"github.com/navcore-dev/navcore/pkg/navcore/internal"
	"github.com/navcore-dev/navcore/pkg/navcore/routes"
)

// ActionKind is the kind of imperative action sent to the platform navigator.
type ActionKind int

const (
	ActionNavigate ActionKind = iota // Push (or focus) a route
	ActionReplace                    // Replace the focused route
	ActionGoBack                     // Pop one level
	ActionReset                      // Reset the platform stack to Route
)

func (k ActionKind) String() string {
	switch k {
	case ActionNavigate:
		return "navigate"
	case ActionReplace:
		return "replace"
	case ActionGoBack:
		return "go_back"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Action is an imperative navigation command.
type Action struct {
	Kind   ActionKind
	Route  routes.Route
	Params routes.Params
}

// RouteState describes the focused leaf route of the platform navigator.
type RouteState struct {
	Name    routes.Route
	Key     string
	Params  routes.Params
	Options map[string]any
}

// Handle is the platform navigator as seen by navcore.
type Handle interface {
	Dispatch(action Action)
	CurrentRoute() (RouteState, bool)
}

type binding struct {
	handle Handle
}

// Tracker is the process-wide holder for the top-level navigator handle.
// Create one per navigation container and pass it to whoever needs it.
type Tracker struct {
	current *atomic.Pointer[binding]
	logger  *slog.Logger
}

// New creates an unbound Tracker. A nil logger uses the navcore logger.
func New(logger *slog.Logger) *Tracker {
	return &Tracker{
		current: atomic.NewPointer[binding](nil),
		logger:  internal.LoggerOr(logger),
	}
}

// SetTopLevelNavigator binds h. The last call wins; passing nil unbinds.
func (t *Tracker) SetTopLevelNavigator(h Handle) {
	if h == nil {
		t.current.Store(nil)
		return
	}
	t.current.Store(&binding{handle: h})
}

// IsBound reports whether a navigator handle has been bound.
func (t *Tracker) IsBound() bool {
	return t.handle() != nil
}

func (t *Tracker) handle() Handle {
	b := t.current.Load()
	if b == nil {
		return nil
	}
	return b.handle
}

// ActiveRoute returns the focused leaf route.
func (t *Tracker) ActiveRoute() (RouteState, bool) {
	h := t.handle()
	if h == nil {
		return RouteState{}, false
	}
	return h.CurrentRoute()
}

// ActiveRouteName returns the name of the focused leaf route.
func (t *Tracker) ActiveRouteName() (routes.Route, bool) {
	state, ok := t.ActiveRoute()
	if !ok {
		return "", false
	}
	return state.Name, true
}

// ActiveRouteOptions returns the screen options of the focused leaf route.
func (t *Tracker) ActiveRouteOptions() (map[string]any, bool) {
	state, ok := t.ActiveRoute()
	if !ok {
		return nil, false
	}
	return state.Options, true
}

// Dispatch pushes name, or replaces the focused route when replace is set.
func (t *Tracker) Dispatch(name routes.Route, params routes.Params, replace bool) {
	kind := ActionNavigate
	if replace {
		kind = ActionReplace
	}
	t.DispatchAction(Action{Kind: kind, Route: name, Params: params})
}

// GoBack pops one level of the platform navigator.
func (t *Tracker) GoBack() {
	t.DispatchAction(Action{Kind: ActionGoBack})
}

// DispatchAction sends a raw action to the bound navigator.
func (t *Tracker) DispatchAction(action Action) {
	h := t.handle()
	if h == nil {
		t.logger.Debug("navigator not bound, dropping action",
			"action", action.Kind.String(), "route", action.Route.String())
		return
	}
	h.Dispatch(action)
}
