package globals

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Registry is the immutable set of variable and switch ids that are shared
// across save slots. The zero value and a nil *Registry are empty.
type Registry struct {
	variables map[int]struct{}
	switches  map[int]struct{}
}

// NewRegistry builds a registry from id lists. Ids <= 0 are ignored and
// duplicates collapse.
func NewRegistry(variableIDs, switchIDs []int) *Registry {
	return &Registry{
		variables: idSet(variableIDs),
		switches:  idSet(switchIDs),
	}
}

// ParseRegistry builds a registry from the raw parameter form of each list.
// See ParseIDs.
func ParseRegistry(rawVariables, rawSwitches string) *Registry {
	return NewRegistry(ParseIDs(rawVariables), ParseIDs(rawSwitches))
}

// ParseIDs parses a JSON array of ids written as strings or numbers, for
// example `["1","5"]` or `[1, 5]`. Blank input, malformed JSON, and any
// element that is not a positive integer all yield an empty list. The result
// is sorted and free of duplicates.
func ParseIDs(raw string) []int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []int{}
	}
	ids := make([]int, 0, len(items))
	for _, item := range items {
		id, ok := parseID(item)
		if !ok {
			return []int{}
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func parseID(item json.RawMessage) (int, bool) {
	var text string
	if err := json.Unmarshal(item, &text); err != nil {
		text = string(item)
	}
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// IsGlobalVariable reports whether variable id is shared across saves.
func (r *Registry) IsGlobalVariable(id int) bool {
	if r == nil {
		return false
	}
	_, ok := r.variables[id]
	return ok
}

// IsGlobalSwitch reports whether switch id is shared across saves.
func (r *Registry) IsGlobalSwitch(id int) bool {
	if r == nil {
		return false
	}
	_, ok := r.switches[id]
	return ok
}

// VariableIDs returns the global variable ids in ascending order.
func (r *Registry) VariableIDs() []int {
	if r == nil {
		return []int{}
	}
	return slices.Sorted(maps.Keys(r.variables))
}

// SwitchIDs returns the global switch ids in ascending order.
func (r *Registry) SwitchIDs() []int {
	if r == nil {
		return []int{}
	}
	return slices.Sorted(maps.Keys(r.switches))
}

// Empty reports whether no cell is global.
func (r *Registry) Empty() bool {
	return r == nil || (len(r.variables) == 0 && len(r.switches) == 0)
}

func idSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id > 0 {
			set[id] = struct{}{}
		}
	}
	return set
}
