package game

import (
	"errors"
	"maps"
)

// SwitchObserver is notified after a switch write.
type SwitchObserver interface {
	AfterSwitchSet(id int, old, value bool) error
}

// SwitchObserverFunc adapts a function to SwitchObserver.
type SwitchObserverFunc func(id int, old, value bool) error

// AfterSwitchSet implements SwitchObserver.
func (f SwitchObserverFunc) AfterSwitchSet(id int, old, value bool) error {
	if f == nil {
		return nil
	}
	return f(id, old, value)
}

// Switches is an indexed container of boolean flags. Unset flags read as
// false. Not safe for concurrent use.
type Switches struct {
	values    map[int]bool
	observers []SwitchObserver
}

// NewSwitches returns an empty container.
func NewSwitches() *Switches {
	return &Switches{values: map[int]bool{}}
}

// Value returns the current state of id.
func (s *Switches) Value(id int) bool {
	if s == nil {
		return false
	}
	return s.values[id]
}

// SetValue stores value under id and notifies observers, joining their
// errors.
func (s *Switches) SetValue(id int, value bool) error {
	if s.values == nil {
		s.values = map[int]bool{}
	}
	old := s.values[id]
	s.values[id] = value

	var errs []error
	for _, observer := range s.observers {
		if err := observer.AfterSwitchSet(id, old, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Observe appends observer to the notification list.
func (s *Switches) Observe(observer SwitchObserver) {
	if observer == nil {
		return
	}
	s.observers = append(s.observers, observer)
}

// Values returns a copy of every flag that was written.
func (s *Switches) Values() map[int]bool {
	if s == nil {
		return map[int]bool{}
	}
	return maps.Clone(s.values)
}

func (s *Switches) restore(values map[int]bool) {
	s.values = maps.Clone(values)
	if s.values == nil {
		s.values = map[int]bool{}
	}
}
