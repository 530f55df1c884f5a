package model

import (
	"sync"

	"github.com/goliatone/go-propedit/pkg/docgen"
)

// ActionUpdateProp replaces the value bound to a prop.
const ActionUpdateProp = "UPDATE_PROP"

// Action is a request to mutate the model. Dispatch is the only write path.
type Action struct {
	Type     string         `json:"type"`
	PropName string         `json:"propName"`
	PropType docgen.TypeTag `json:"propType"`
	Value    any            `json:"value"`
}

// UpdateProp builds an ActionUpdateProp action. The type tag travels with the
// value so the store can re-tag it without consulting the documentation.
func UpdateProp(name string, tag docgen.TypeTag, value any) Action {
	return Action{
		Type:     ActionUpdateProp,
		PropName: name,
		PropType: tag,
		Value:    value,
	}
}

// Dispatcher accepts actions.
type Dispatcher interface {
	Dispatch(action Action)
}

// Listener observes actions after the store applied them.
type Listener func(action Action)

type entry struct {
	value any
	tag   docgen.TypeTag
}

// Store holds the live prop values of the component being edited. Actions are
// applied one at a time under the write lock.
type Store struct {
	mu        sync.RWMutex
	values    map[string]entry
	listeners map[int]Listener
	nextID    int
}

// NewStore seeds the store with initial values. Initial values carry no type
// tag until they are first written through Dispatch.
func NewStore(initial map[string]any) *Store {
	values := make(map[string]entry, len(initial))
	for name, value := range initial {
		values[name] = entry{value: value}
	}
	return &Store{
		values:    values,
		listeners: make(map[int]Listener),
	}
}

// GetValue returns the value bound to name, or nil when none is set. The tag
// is accepted for parity with selectors that derive defaults from the type;
// this store returns unset props as nil regardless of tag.
func (s *Store) GetValue(name string, _ docgen.TypeTag) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[name].value
}

// TypeOf reports the tag recorded by the last write to name.
func (s *Store) TypeOf(name string) (docgen.TypeTag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	current, ok := s.values[name]
	if !ok || current.tag == "" {
		return "", false
	}
	return current.tag, true
}

// Snapshot returns a copy of every bound value.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for name, current := range s.values {
		out[name] = current.value
	}
	return out
}

// Dispatch applies action and then notifies subscribers. Unknown action types
// are ignored.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	applied := s.reduce(action)
	var listeners []Listener
	if applied {
		listeners = make([]Listener, 0, len(s.listeners))
		for id := 0; id < s.nextID; id++ {
			if fn, ok := s.listeners[id]; ok {
				listeners = append(listeners, fn)
			}
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(action)
	}
}

// Subscribe registers fn to run after every applied action. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) reduce(action Action) bool {
	switch action.Type {
	case ActionUpdateProp:
		s.values[action.PropName] = entry{value: action.Value, tag: action.PropType}
		return true
	default:
		return false
	}
}
