package catalog

import (
	"slices"
	"sync"
)

// State is the load state of a List.
type State int

const (
	Unloaded State = iota
	Loading
	Loaded
	Errored
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// ErrorPolicy decides what a failed fetch does to the items already held.
type ErrorPolicy int

const (
	// PreserveOnError keeps the last loaded items visible after a failure.
	PreserveOnError ErrorPolicy = iota
	// ClearOnError drops the items on failure.
	ClearOnError
)

// Snapshot is a copy of a List's state.
type Snapshot[T any] struct {
	State State
	Items []T
	Err   error
}

// List is the client-side copy of one backend collection. Every fetch is
// stamped with a generation; only the result of the latest fetch is applied.
type List[T any] struct {
	mu     sync.RWMutex
	policy ErrorPolicy
	state  State
	items  []T
	err    error
	gen    uint64
}

// NewList returns an Unloaded list with the given error policy.
func NewList[T any](policy ErrorPolicy) *List[T] {
	return &List[T]{policy: policy}
}

// Snapshot returns a copy of the current state.
func (l *List[T]) Snapshot() Snapshot[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot[T]{State: l.state, Items: slices.Clone(l.items), Err: l.err}
}

// begin marks the list Loading and returns the generation of the new fetch.
func (l *List[T]) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.state = Loading
	return l.gen
}

// finish applies the outcome of fetch gen. It reports false and changes
// nothing if a newer fetch or a reset happened since.
func (l *List[T]) finish(gen uint64, items []T, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	if err != nil {
		l.state = Errored
		l.err = err
		if l.policy == ClearOnError {
			l.items = nil
		}
		return true
	}
	l.state = Loaded
	l.err = nil
	l.items = items
	return true
}

// reset empties the list and invalidates any fetch in flight.
func (l *List[T]) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.state = Unloaded
	l.items = nil
	l.err = nil
}
