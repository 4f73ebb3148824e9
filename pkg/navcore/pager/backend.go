package pager

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/navcore-dev/navcore/pkg/navcore/internal"
)

// State is the scroll state of the platform pager.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// ScrollEvent is a scroll-state event reported by the platform pager.
type ScrollEvent int

const (
	EventDragStart ScrollEvent = iota // The user put a finger down and started dragging
	EventSettle                       // The pager is animating towards a page
	EventIdle                         // The pager came to rest
)

func (e ScrollEvent) String() string {
	switch e {
	case EventDragStart:
		return "drag_start"
	case EventSettle:
		return "settle"
	case EventIdle:
		return "idle"
	default:
		return "unknown"
	}
}

var transitions = map[State]map[ScrollEvent]State{
	StateIdle: {
		EventDragStart: StateDragging,
		EventSettle:    StateSettling,
	},
	StateDragging: {
		EventSettle: StateSettling,
		EventIdle:   StateIdle,
	},
	StateSettling: {
		EventDragStart: StateDragging,
		EventIdle:      StateIdle,
	},
}

var (
	ErrNoJumper     = errors.New("pager: no jumper")
	ErrNoPages      = errors.New("pager: page count must be positive")
	ErrPageOutRange = errors.New("pager: page index out of range")
)

// Jumper is the platform pager capability the backend drives.
type Jumper interface {
	JumpToIndex(index int, animated bool)
}

// BackendConfig configures a Backend.
type BackendConfig struct {
	Jumper       Jumper
	PageCount    int
	InitialIndex int
	// OnIndexChange is called when the user settles on a new page.
	// Wire it to router.Navigator.HandlePagerIndexChange.
	OnIndexChange func(index int)
	// OnStateChange is called after every scroll state transition.
	OnStateChange func(from, to State)
	// Position, when set, receives every Scroll value.
	Position *Writer
	Logger   *slog.Logger
}

type jump struct {
	index    int
	animated bool
}

// Backend is the pager state machine. It turns platform scroll events into
// settled page changes and holds programmatic jumps until the user lets go.
type Backend struct {
	jumper        Jumper
	pageCount     int
	onIndexChange func(int)
	onStateChange func(from, to State)
	position      *Writer
	logger        *slog.Logger

	mu       sync.Mutex
	state    State
	index    int
	selected int
	pending  *jump
}

// NewBackend creates an idle Backend on cfg.InitialIndex.
func NewBackend(cfg BackendConfig) (*Backend, error) {
	if cfg.Jumper == nil {
		return nil, ErrNoJumper
	}
	if cfg.PageCount <= 0 {
		return nil, ErrNoPages
	}
	if cfg.InitialIndex < 0 || cfg.InitialIndex >= cfg.PageCount {
		return nil, fmt.Errorf("%w: %d", ErrPageOutRange, cfg.InitialIndex)
	}
	return &Backend{
		jumper:        cfg.Jumper,
		pageCount:     cfg.PageCount,
		onIndexChange: cfg.OnIndexChange,
		onStateChange: cfg.OnStateChange,
		position:      cfg.Position,
		logger:        internal.LoggerOr(cfg.Logger),
		state:         StateIdle,
		index:         cfg.InitialIndex,
		selected:      cfg.InitialIndex,
	}, nil
}

// HandleScrollEvent applies a scroll-state event. Events with no transition
// from the current state are ignored.
func (b *Backend) HandleScrollEvent(event ScrollEvent) {
	b.mu.Lock()
	from := b.state
	to, ok := transitions[from][event]
	if !ok {
		b.mu.Unlock()
		b.logger.Debug("ignoring pager event", "state", from.String(), "event", event.String())
		return
	}
	b.state = to

	settled := -1
	var next *jump
	if to == StateIdle {
		settled = b.commitLocked()
		next = b.pending
		b.pending = nil
		if next != nil {
			b.index = next.index
			b.selected = next.index
		}
	}
	b.mu.Unlock()

	if b.onStateChange != nil {
		b.onStateChange(from, to)
	}
	if settled >= 0 && b.onIndexChange != nil {
		b.onIndexChange(settled)
	}
	if next != nil {
		b.jumper.JumpToIndex(next.index, next.animated)
	}
}

// PageSelected records the page the platform pager selected. The change is
// reported once the pager is idle.
func (b *Backend) PageSelected(index int) {
	if index < 0 || index >= b.pageCount {
		b.logger.Debug("ignoring out of range page", "index", index)
		return
	}

	b.mu.Lock()
	b.selected = index
	settled := -1
	if b.state == StateIdle {
		settled = b.commitLocked()
	}
	b.mu.Unlock()

	if settled >= 0 && b.onIndexChange != nil {
		b.onIndexChange(settled)
	}
}

// commitLocked makes the selected page current and returns it, or -1 when it
// did not change.
func (b *Backend) commitLocked() int {
	if b.selected == b.index {
		return -1
	}
	b.index = b.selected
	return b.index
}

// Scroll forwards continuous progress to the shared Position.
func (b *Backend) Scroll(progress float64) {
	if b.position == nil {
		return
	}
	if err := b.position.Set(progress); err != nil {
		b.logger.Debug("dropping pager progress", "error", err)
	}
}

// SetIndex moves the pager to index. While the user is dragging or the pager
// is settling the jump is held and applied when it comes to rest; a later
// SetIndex replaces a held one.
func (b *Backend) SetIndex(index int, animated bool) error {
	if index < 0 || index >= b.pageCount {
		return fmt.Errorf("%w: %d", ErrPageOutRange, index)
	}

	b.mu.Lock()
	if b.state != StateIdle {
		b.pending = &jump{index: index, animated: animated}
		b.mu.Unlock()
		return nil
	}
	b.index = index
	b.selected = index
	b.mu.Unlock()

	b.jumper.JumpToIndex(index, animated)
	return nil
}

// State returns the current scroll state.
func (b *Backend) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Index returns the current page.
func (b *Backend) Index() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index
}

// HasPendingJump reports whether a programmatic jump is waiting for idle.
func (b *Backend) HasPendingJump() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending != nil
}
