package router

// Stack is the history of previously active routes. The most recent entry
// is the route GoBack returns to.
type Stack[R comparable] struct {
	entries []R
}

// NewStack creates a new empty history stack.
func NewStack[R comparable]() *Stack[R] {
	return &Stack[R]{
		entries: make([]R, 0),
	}
}

// Push adds route to the top of the stack.
// Called when navigating forward to a new route.
func (s *Stack[R]) Push(route R) {
	s.entries = append(s.entries, route)
}

// Pop removes and returns the top entry.
// Returns false if the stack is empty.
func (s *Stack[R]) Pop() (R, bool) {
	var zero R
	if len(s.entries) == 0 {
		return zero, false
	}
	route := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return route, true
}

// Peek returns the top entry without removing it.
// Returns false if the stack is empty.
func (s *Stack[R]) Peek() (R, bool) {
	var zero R
	if len(s.entries) == 0 {
		return zero, false
	}
	return s.entries[len(s.entries)-1], true
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack[R]) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the stack.
func (s *Stack[R]) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the stack, oldest first.
func (s *Stack[R]) Entries() []R {
	out := make([]R, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear removes all entries from the stack.
func (s *Stack[R]) Clear() {
	s.entries = s.entries[:0]
}
