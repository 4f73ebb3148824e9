// Package observer provides a small subscribe/notify registry used for
// navigation side-channels, sheet stack changes and pager position readers.
package observer

import "sync"

// Registry holds listeners for values of type T.
// The zero value is ready to use.
type Registry[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it again.
// The returned function is safe to call more than once.
func (r *Registry[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, listener[T]{id: id, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Registry[T]) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.listeners {
		if l.id == id {
			// Copy instead of splicing in place so snapshots held by an
			// in-flight Notify keep their contents.
			next := make([]listener[T], 0, len(r.listeners)-1)
			next = append(next, r.listeners[:i]...)
			next = append(next, r.listeners[i+1:]...)
			r.listeners = next
			return
		}
	}
}

// Notify calls every listener registered at the time of the call, in
// subscription order. Listeners may subscribe or unsubscribe from inside
// the callback; changes apply to the next Notify.
func (r *Registry[T]) Notify(v T) {
	r.mu.Lock()
	snapshot := r.listeners
	r.mu.Unlock()

	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of registered listeners.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}
