package docgen

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrPropNotFound is returned when a prop name is not documented.
var ErrPropNotFound = errors.New("docgen: prop not found")

// Store is the read-only documentation source consumed by prop bindings. The
// whole document can be swapped with Replace when the generator output
// changes on disk.
type Store struct {
	mu  sync.RWMutex
	doc Document
}

// NewStore constructs a store around doc. Descriptor names are normalised to
// their map keys.
func NewStore(doc Document) *Store {
	s := &Store{}
	s.Replace(doc)
	return s
}

// GetProp returns the descriptor for name. Unknown names fail with an error
// wrapping ErrPropNotFound.
func (s *Store) GetProp(name string) (PropDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prop, ok := s.doc.Props[name]
	if !ok {
		return PropDescriptor{}, fmt.Errorf("%w: %q", ErrPropNotFound, name)
	}
	if prop.DefaultValue != nil {
		value := *prop.DefaultValue
		prop.DefaultValue = &value
	}
	return prop, nil
}

// Names returns the documented prop names in lexical order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.doc.Props))
	for name := range s.doc.Props {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Document returns a copy of the current document.
func (s *Store) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Replace swaps the stored document.
func (s *Store) Replace(doc Document) {
	next := doc.Clone()
	for name, prop := range next.Props {
		prop.Name = name
		next.Props[name] = prop
	}

	s.mu.Lock()
	s.doc = next
	s.mu.Unlock()
}
