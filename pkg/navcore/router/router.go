package router

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/google/go-cmp/cmp"

	"github.com/navcore-dev/navcore/pkg/navcore/constants"
	"github.com/navcore-dev/navcore/pkg/navcore/internal"
	"github.com/navcore-dev/navcore/pkg/navcore/observer"
)

var (
	// ErrNoRoutes is returned by New when no routes are declared.
	ErrNoRoutes = errors.New("router: no routes declared")
	// ErrDuplicateRoute is returned by New when a route is declared twice.
	ErrDuplicateRoute = errors.New("router: duplicate route")
	// ErrInitialRouteUndeclared is returned by New when the initial route is not declared.
	ErrInitialRouteUndeclared = errors.New("router: initial route not declared")
	// ErrUnknownRoute is returned when navigating to a route the navigator does not declare.
	ErrUnknownRoute = errors.New("router: route not declared")
	// ErrIndexOutOfRange is returned by HandlePagerIndexChange for an index with no route.
	ErrIndexOutOfRange = errors.New("router: pager index out of range")
)

// exportAll lets cmp.Equal look into unexported fields instead of panicking.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// RouteChange is published on the side-channel whenever the active route changes.
type RouteChange[R comparable] struct {
	From R
	To   R
	Back bool // the change popped history
}

// Config configures a Navigator.
type Config[R comparable, P any] struct {
	InitialRoute R
	// Routes is the closed set of routes, in pager order.
	Routes []R
	// KeyPrefix is prepended to route keys. Defaults to constants.DefaultKeyPrefix.
	KeyPrefix string
	// OnRouteChange is called with the active route after every route change,
	// and after a pager settle on the already active route.
	OnRouteChange func(route R)
	// OnParamsChange is called when a route's params actually change.
	OnParamsChange func(route R, params P)
	// Channel receives every route change. Several navigators may share one.
	Channel *observer.Registry[RouteChange[R]]
	// Equal compares params. Defaults to cmp.Equal over exported and
	// unexported fields.
	Equal func(a, b P) bool
	// Debug panics on undeclared routes instead of ignoring them.
	Debug  bool
	Logger *slog.Logger
}

// State is a snapshot of a Navigator.
type State[R comparable, P any] struct {
	ActiveRoute R
	History     []R
	Params      map[R]P
}

// Navigator is an in-memory navigation state machine for a closed set of
// virtual routes. It never talks to the platform navigator.
type Navigator[R comparable, P any] struct {
	routes         []R
	index          map[R]int
	keyPrefix      string
	onRouteChange  func(R)
	onParamsChange func(R, P)
	channel        *observer.Registry[RouteChange[R]]
	equal          func(a, b P) bool
	debug          bool
	logger         *slog.Logger
	initial        R

	mu      sync.Mutex
	active  R
	history *Stack[R]
	params  map[R]P
}

// New creates a Navigator positioned on cfg.InitialRoute with empty history
// and no params.
func New[R comparable, P any](cfg Config[R, P]) (*Navigator[R, P], error) {
	if len(cfg.Routes) == 0 {
		return nil, ErrNoRoutes
	}

	index := make(map[R]int, len(cfg.Routes))
	for i, r := range cfg.Routes {
		if _, dup := index[r]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRoute, r)
		}
		index[r] = i
	}
	if _, ok := index[cfg.InitialRoute]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrInitialRouteUndeclared, cfg.InitialRoute)
	}

	n := &Navigator[R, P]{
		routes:         append([]R(nil), cfg.Routes...),
		index:          index,
		keyPrefix:      cfg.KeyPrefix,
		onRouteChange:  cfg.OnRouteChange,
		onParamsChange: cfg.OnParamsChange,
		channel:        cfg.Channel,
		equal:          cfg.Equal,
		debug:          cfg.Debug,
		logger:         internal.LoggerOr(cfg.Logger),
		initial:        cfg.InitialRoute,
		active:         cfg.InitialRoute,
		history:        NewStack[R](),
		params:         make(map[R]P),
	}
	if n.keyPrefix == "" {
		n.keyPrefix = constants.DefaultKeyPrefix
	}
	if n.equal == nil {
		n.equal = func(a, b P) bool { return cmp.Equal(a, b, exportAll) }
	}
	return n, nil
}

// Navigate makes route active, keeping any params stored for it.
func (n *Navigator[R, P]) Navigate(route R) error {
	return n.navigate(route, nil)
}

// NavigateWithParams makes route active and stores params for it when they
// differ from the stored ones.
func (n *Navigator[R, P]) NavigateWithParams(route R, params P) error {
	return n.navigate(route, &params)
}

func (n *Navigator[R, P]) navigate(route R, params *P) error {
	if err := n.check(route); err != nil {
		return err
	}

	n.mu.Lock()
	change, moved := n.moveLocked(route)
	changed := n.setParamsLocked(route, params)
	n.mu.Unlock()

	if changed {
		n.paramsChanged(route, *params)
	}
	if moved {
		n.routeChanged(change)
	}
	return nil
}

// moveLocked pushes the active route and activates route. Navigating to the
// active route does nothing.
func (n *Navigator[R, P]) moveLocked(route R) (RouteChange[R], bool) {
	if route == n.active {
		return RouteChange[R]{}, false
	}
	from := n.active
	n.history.Push(from)
	n.active = route
	return RouteChange[R]{From: from, To: route}, true
}

func (n *Navigator[R, P]) backLocked() (RouteChange[R], bool) {
	prev, ok := n.history.Pop()
	if !ok {
		return RouteChange[R]{}, false
	}
	from := n.active
	n.active = prev
	return RouteChange[R]{From: from, To: prev, Back: true}, true
}

func (n *Navigator[R, P]) setParamsLocked(route R, params *P) bool {
	if params == nil {
		return false
	}
	if current, ok := n.params[route]; ok && n.equal(current, *params) {
		return false
	}
	n.params[route] = *params
	return true
}

// GoBack returns to the most recent history entry. It does nothing when the
// history is empty.
func (n *Navigator[R, P]) GoBack() {
	n.mu.Lock()
	change, moved := n.backLocked()
	n.mu.Unlock()

	if moved {
		n.routeChanged(change)
	}
}

// SetParams stores params for route when they differ from the stored ones.
func (n *Navigator[R, P]) SetParams(route R, params P) error {
	if err := n.check(route); err != nil {
		return err
	}

	n.mu.Lock()
	changed := n.setParamsLocked(route, &params)
	n.mu.Unlock()

	if changed {
		n.paramsChanged(route, params)
	}
	return nil
}

// Params returns the params stored for route.
func (n *Navigator[R, P]) Params(route R) (P, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	p, ok := n.params[route]
	return p, ok
}

// ActiveRoute returns the active route.
func (n *Navigator[R, P]) ActiveRoute() R {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

// IsRouteActive reports whether route is the active route.
func (n *Navigator[R, P]) IsRouteActive(route R) bool {
	return n.ActiveRoute() == route
}

// State returns a copy of the navigator state.
func (n *Navigator[R, P]) State() State[R, P] {
	n.mu.Lock()
	defer n.mu.Unlock()

	params := make(map[R]P, len(n.params))
	for r, p := range n.params {
		params[r] = p
	}
	return State[R, P]{
		ActiveRoute: n.active,
		History:     n.history.Entries(),
		Params:      params,
	}
}

// Reset restores the state New produced: initial route, no history, no params.
func (n *Navigator[R, P]) Reset() {
	n.mu.Lock()
	from := n.active
	n.active = n.initial
	n.history.Clear()
	n.params = make(map[R]P)
	n.mu.Unlock()

	if from != n.initial {
		n.routeChanged(RouteChange[R]{From: from, To: n.initial})
	}
}

// HandlePagerIndexChange syncs the navigator with a pager that settled on
// index. Settling on the route that was active before the current one counts
// as going back; any other route is a forward navigation.
func (n *Navigator[R, P]) HandlePagerIndexChange(index int) error {
	route, ok := n.RouteAt(index)
	if !ok {
		n.logger.Debug("pager index has no route", "index", index)
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	n.mu.Lock()
	if route == n.active {
		n.mu.Unlock()
		if n.onRouteChange != nil {
			n.onRouteChange(route)
		}
		return nil
	}

	var change RouteChange[R]
	if prev, ok := n.history.Peek(); ok && prev == route {
		change, _ = n.backLocked()
	} else {
		change, _ = n.moveLocked(route)
	}
	n.mu.Unlock()

	n.routeChanged(change)
	return nil
}

// Routes returns the declared routes in pager order.
func (n *Navigator[R, P]) Routes() []R {
	return append([]R(nil), n.routes...)
}

// IndexOf returns the pager index of route, or -1.
func (n *Navigator[R, P]) IndexOf(route R) int {
	if i, ok := n.index[route]; ok {
		return i
	}
	return -1
}

// RouteAt returns the route at pager index i.
func (n *Navigator[R, P]) RouteAt(i int) (R, bool) {
	var zero R
	if i < 0 || i >= len(n.routes) {
		return zero, false
	}
	return n.routes[i], true
}

// Key returns the render key for route.
func (n *Navigator[R, P]) Key(route R) string {
	return fmt.Sprintf("%s%v", n.keyPrefix, route)
}

func (n *Navigator[R, P]) check(route R) error {
	if _, ok := n.index[route]; ok {
		return nil
	}
	err := fmt.Errorf("%w: %v", ErrUnknownRoute, route)
	if n.debug {
		panic(err)
	}
	n.logger.Warn("ignoring navigation to undeclared virtual route", "route", fmt.Sprint(route))
	return err
}

func (n *Navigator[R, P]) routeChanged(change RouteChange[R]) {
	if n.onRouteChange != nil {
		n.onRouteChange(change.To)
	}
	if n.channel != nil {
		n.channel.Notify(change)
	}
}

func (n *Navigator[R, P]) paramsChanged(route R, params P) {
	if n.onParamsChange != nil {
		n.onParamsChange(route, params)
	}
}
