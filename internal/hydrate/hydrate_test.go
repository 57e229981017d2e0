package hydrate

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type cells struct {
	Variables map[int]float64 `json:"variables"`
	Switches  map[int]bool    `json:"switches"`
}

func TestDecoderCases(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		options   []DecoderOption[cells]
		expect    cells
		expectErr string
	}{
		{
			name:   "integer keys",
			text:   `{"variables":{"1":42,"7":-3.5},"switches":{"3":true}}`,
			expect: cells{Variables: map[int]float64{1: 42, 7: -3.5}, Switches: map[int]bool{3: true}},
		},
		{
			name:      "non integer key",
			text:      `{"variables":{"gold":1},"switches":{}}`,
			expectErr: "hydrate: decode codec:test",
		},
		{
			name:      "not an object",
			text:      `[1,2,3]`,
			expectErr: "hydrate: parse codec:test",
		},
		{
			name:      "null payload",
			text:      `null`,
			expectErr: "payload is nil",
		},
		{
			name:   "unknown fields ignored",
			text:   `{"variables":{"1":2},"switches":{},"extra":1}`,
			expect: cells{Variables: map[int]float64{1: 2}, Switches: map[int]bool{}},
		},
		{
			name: "pre hook fills missing section",
			text: `{"variables":{"2":5}}`,
			options: []DecoderOption[cells]{WithPreHook[cells](func(_ Context, payload map[string]any) (map[string]any, error) {
				if _, ok := payload["switches"]; !ok {
					payload["switches"] = map[string]any{}
				}
				return payload, nil
			})},
			expect: cells{Variables: map[int]float64{2: 5}, Switches: map[int]bool{}},
		},
		{
			name: "post hook error is wrapped",
			text: `{"variables":{},"switches":{}}`,
			options: []DecoderOption[cells]{WithPostHook[cells](func(Context, *cells) error {
				return errors.New("rejected")
			})},
			expectErr: "post-hook for codec:test failed: rejected",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoder := NewDecoder[cells](tc.options...)
			result, err := decoder.DecodeText(Context{Codec: "codec", Source: "test"}, []byte(tc.text))

			if tc.expectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.expectErr)
				}
				if !strings.Contains(err.Error(), tc.expectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if !reflect.DeepEqual(tc.expect, result) {
				t.Fatalf("decoded mismatch:\nwant: %#v\n got: %#v", tc.expect, result)
			}
		})
	}
}

func TestDecodeDoesNotMutateInput(t *testing.T) {
	payload := map[string]any{"variables": map[string]any{"1": 1.0}}
	decoder := NewDecoder[cells](WithPreHook[cells](func(_ Context, p map[string]any) (map[string]any, error) {
		p["switches"] = map[string]any{"9": true}
		return p, nil
	}))

	if _, err := decoder.Decode(Context{Codec: "codec"}, payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := payload["switches"]; ok {
		t.Fatalf("expected caller payload untouched, got %v", payload)
	}
}
