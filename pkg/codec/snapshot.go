package codec

import (
	"maps"
	"slices"
	"strconv"
)

// Snapshot is the persisted payload: the current value of every global
// variable and switch. It is always a full capture, never a diff.
type Snapshot struct {
	Variables map[int]float64 `json:"variables"`
	Switches  map[int]bool    `json:"switches"`
}

// NewSnapshot returns a snapshot with non-nil maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Variables: map[int]float64{},
		Switches:  map[int]bool{},
	}
}

// Clone returns a detached copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := NewSnapshot()
	maps.Copy(out.Variables, s.Variables)
	maps.Copy(out.Switches, s.Switches)
	return out
}

// Equal reports whether both snapshots hold the same cells. Nil and empty
// maps compare equal.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return maps.Equal(s.Variables, other.Variables) && maps.Equal(s.Switches, other.Switches)
}

// VariableIDs returns the variable ids in ascending order.
func (s *Snapshot) VariableIDs() []int {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.Variables))
}

// SwitchIDs returns the switch ids in ascending order.
func (s *Snapshot) SwitchIDs() []int {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.Switches))
}

// Binding exposes the snapshot as a generic map with stringified ids, the
// same shape the structured-text form uses.
func (s *Snapshot) Binding() map[string]any {
	variables := map[string]any{}
	switches := map[string]any{}
	if s != nil {
		for id, value := range s.Variables {
			variables[strconv.Itoa(id)] = value
		}
		for id, value := range s.Switches {
			switches[strconv.Itoa(id)] = value
		}
	}
	return map[string]any{
		"variables": variables,
		"switches":  switches,
	}
}
