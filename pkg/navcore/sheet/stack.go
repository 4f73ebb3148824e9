package sheet

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/navcore-dev/navcore/pkg/navcore/observer"
	"github.com/navcore-dev/navcore/pkg/navcore/routes"
)

// Entry is one route in the sheet navigator's state.
type Entry struct {
	Key    string
	Name   routes.Route
	Params routes.Params
}

// NewKey returns a unique key for a new entry of name.
func NewKey(name routes.Route) string {
	return fmt.Sprintf("%s-%s", name, uuid.NewString())
}

// Stack is the sheet navigator's state: the main entry, always first, and
// the sheets opened on top of it, oldest first.
type Stack struct {
	mu      sync.Mutex
	main    Entry
	sheets  []Entry
	changes observer.Registry[[]Entry]
}

// NewStack creates a Stack with only the main route.
func NewStack(main routes.Route) *Stack {
	return &Stack{main: Entry{Key: NewKey(main), Name: main}}
}

// Main returns the main entry.
func (s *Stack) Main() Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.main
}

// Entries returns the main entry followed by every open sheet.
func (s *Stack) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesLocked()
}

func (s *Stack) entriesLocked() []Entry {
	out := make([]Entry, 0, len(s.sheets)+1)
	out = append(out, s.main)
	return append(out, s.sheets...)
}

// Len returns the number of open sheets.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sheets)
}

// Push opens a sheet for name on top of the stack.
func (s *Stack) Push(name routes.Route, params routes.Params) (Entry, error) {
	if err := routes.ValidateParams(name, params); err != nil {
		return Entry{}, err
	}
	entry := Entry{Key: NewKey(name), Name: name, Params: params}

	s.mu.Lock()
	s.sheets = append(s.sheets, entry)
	snapshot := s.entriesLocked()
	s.mu.Unlock()

	s.changes.Notify(snapshot)
	return entry, nil
}

// Pop removes the top sheet. It never removes the main entry.
func (s *Stack) Pop() (Entry, bool) {
	s.mu.Lock()
	if len(s.sheets) == 0 {
		s.mu.Unlock()
		return Entry{}, false
	}
	top := s.sheets[len(s.sheets)-1]
	s.sheets = s.sheets[:len(s.sheets)-1]
	snapshot := s.entriesLocked()
	s.mu.Unlock()

	s.changes.Notify(snapshot)
	return top, true
}

// Remove removes the sheet with key, wherever it is in the stack.
func (s *Stack) Remove(key string) bool {
	s.mu.Lock()
	idx := -1
	for i, e := range s.sheets {
		if e.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.sheets = append(s.sheets[:idx:idx], s.sheets[idx+1:]...)
	snapshot := s.entriesLocked()
	s.mu.Unlock()

	s.changes.Notify(snapshot)
	return true
}

// PopToRoot removes every sheet.
func (s *Stack) PopToRoot() {
	s.mu.Lock()
	if len(s.sheets) == 0 {
		s.mu.Unlock()
		return
	}
	s.sheets = nil
	snapshot := s.entriesLocked()
	s.mu.Unlock()

	s.changes.Notify(snapshot)
}

// Contains reports whether key is the main entry or an open sheet.
func (s *Stack) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.main.Key == key {
		return true
	}
	for _, e := range s.sheets {
		if e.Key == key {
			return true
		}
	}
	return false
}

// Subscribe registers fn to receive the full entry list after every change.
func (s *Stack) Subscribe(fn func([]Entry)) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}
