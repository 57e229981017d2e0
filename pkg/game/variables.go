package game

import (
	"errors"
	"maps"
)

// VariableObserver is notified after a variable write.
type VariableObserver interface {
	AfterVariableSet(id int, old, value float64) error
}

// VariableObserverFunc adapts a function to VariableObserver.
type VariableObserverFunc func(id int, old, value float64) error

// AfterVariableSet implements VariableObserver.
func (f VariableObserverFunc) AfterVariableSet(id int, old, value float64) error {
	if f == nil {
		return nil
	}
	return f(id, old, value)
}

// Variables is an indexed container of numeric cells. Unset cells read as 0.
// Not safe for concurrent use.
type Variables struct {
	values    map[int]float64
	observers []VariableObserver
}

// NewVariables returns an empty container.
func NewVariables() *Variables {
	return &Variables{values: map[int]float64{}}
}

// Value returns the current value of id.
func (v *Variables) Value(id int) float64 {
	if v == nil {
		return 0
	}
	return v.values[id]
}

// SetValue stores value under id, then notifies every observer in
// registration order. The write is kept even when observers fail; their
// errors are joined.
func (v *Variables) SetValue(id int, value float64) error {
	if v.values == nil {
		v.values = map[int]float64{}
	}
	old := v.values[id]
	v.values[id] = value

	var errs []error
	for _, observer := range v.observers {
		if err := observer.AfterVariableSet(id, old, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Observe appends observer to the notification list.
func (v *Variables) Observe(observer VariableObserver) {
	if observer == nil {
		return
	}
	v.observers = append(v.observers, observer)
}

// Values returns a copy of every cell that was written.
func (v *Variables) Values() map[int]float64 {
	if v == nil {
		return map[int]float64{}
	}
	return maps.Clone(v.values)
}

// restore replaces the cells without notifying observers.
func (v *Variables) restore(values map[int]float64) {
	v.values = maps.Clone(values)
	if v.values == nil {
		v.values = map[int]float64{}
	}
}
