package globals_test

import (
	"slices"
	"testing"

	globals "github.com/goliatone/go-globals"
)

func TestParseIDs(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []int
	}{
		{name: "string ids", raw: `["1","5"]`, want: []int{1, 5}},
		{name: "numeric ids", raw: `[3, 2]`, want: []int{2, 3}},
		{name: "mixed with spaces", raw: ` [" 7 ", 4] `, want: []int{4, 7}},
		{name: "duplicates collapse", raw: `["2","2",2]`, want: []int{2}},
		{name: "empty array", raw: `[]`, want: []int{}},
		{name: "blank", raw: "", want: []int{}},
		{name: "invalid json", raw: `["1",`, want: []int{}},
		{name: "not an array", raw: `{"1":true}`, want: []int{}},
		{name: "non integer element", raw: `["1","abc"]`, want: []int{}},
		{name: "fractional element", raw: `[1.5]`, want: []int{}},
		{name: "zero id", raw: `["0","1"]`, want: []int{}},
		{name: "negative id", raw: `[-4]`, want: []int{}},
		{name: "null", raw: `null`, want: []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := globals.ParseIDs(tc.raw)
			if got == nil {
				t.Fatalf("expected non-nil slice")
			}
			if !slices.Equal(got, tc.want) {
				t.Fatalf("ParseIDs(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestRegistryMembership(t *testing.T) {
	registry := globals.ParseRegistry(`["1","5"]`, `["3"]`)

	if !registry.IsGlobalVariable(1) || !registry.IsGlobalVariable(5) {
		t.Fatalf("expected variables 1 and 5 to be global")
	}
	if registry.IsGlobalVariable(3) || registry.IsGlobalVariable(2) {
		t.Fatalf("unexpected global variable")
	}
	if !registry.IsGlobalSwitch(3) || registry.IsGlobalSwitch(1) {
		t.Fatalf("unexpected switch membership")
	}
	if ids := registry.VariableIDs(); !slices.Equal(ids, []int{1, 5}) {
		t.Fatalf("unexpected variable ids %v", ids)
	}
	if ids := registry.SwitchIDs(); !slices.Equal(ids, []int{3}) {
		t.Fatalf("unexpected switch ids %v", ids)
	}
}

func TestRegistryMalformedListIsEmpty(t *testing.T) {
	registry := globals.ParseRegistry(`not json`, `["x"]`)
	if !registry.Empty() {
		t.Fatalf("expected empty registry")
	}
	var nilRegistry *globals.Registry
	if nilRegistry.IsGlobalVariable(1) || nilRegistry.IsGlobalSwitch(1) || !nilRegistry.Empty() {
		t.Fatalf("expected nil registry to be empty")
	}
}

func TestRegistryIDsAreCopies(t *testing.T) {
	registry := globals.NewRegistry([]int{1, 2, 0, -1}, nil)
	ids := registry.VariableIDs()
	ids[0] = 99
	if !registry.IsGlobalVariable(1) || registry.IsGlobalVariable(99) || registry.IsGlobalVariable(0) {
		t.Fatalf("registry must not change through returned ids")
	}
	if len(registry.SwitchIDs()) != 0 {
		t.Fatalf("expected no switch ids")
	}
}
