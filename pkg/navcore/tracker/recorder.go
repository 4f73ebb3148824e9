package tracker

import (
	"sync"

	"github.com/navcore-dev/navcore/pkg/navcore/routes"
)

// Recorder is an in-memory Handle that keeps a platform-like route stack and
// records every action it receives. It backs the navtrace tool and tests.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
	stack   []RouteState

	// OnDispatch, when set, runs after each action is applied.
	OnDispatch func(Action)
}

// NewRecorder creates a Recorder whose stack starts at root.
func NewRecorder(root routes.Route) *Recorder {
	r := &Recorder{}
	if root != "" {
		r.stack = append(r.stack, RouteState{Name: root, Key: string(root)})
	}
	return r
}

// Dispatch implements Handle.
func (r *Recorder) Dispatch(action Action) {
	r.mu.Lock()
	r.actions = append(r.actions, action)
	switch action.Kind {
	case ActionNavigate:
		r.stack = append(r.stack, RouteState{Name: action.Route, Key: string(action.Route), Params: action.Params})
	case ActionReplace:
		top := RouteState{Name: action.Route, Key: string(action.Route), Params: action.Params}
		if len(r.stack) == 0 {
			r.stack = append(r.stack, top)
		} else {
			r.stack[len(r.stack)-1] = top
		}
	case ActionGoBack:
		if len(r.stack) > 1 {
			r.stack = r.stack[:len(r.stack)-1]
		}
	case ActionReset:
		r.stack = []RouteState{{Name: action.Route, Key: string(action.Route), Params: action.Params}}
	}
	hook := r.OnDispatch
	r.mu.Unlock()

	if hook != nil {
		hook(action)
	}
}

// CurrentRoute implements Handle.
func (r *Recorder) CurrentRoute() (RouteState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return RouteState{}, false
	}
	return r.stack[len(r.stack)-1], true
}

// Actions returns a copy of every action received so far.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Action(nil), r.actions...)
}

// Routes returns the route of every recorded action, in order.
func (r *Recorder) Routes() []routes.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]routes.Route, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, a.Route)
	}
	return out
}

// Depth returns the size of the recorded route stack.
func (r *Recorder) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}
