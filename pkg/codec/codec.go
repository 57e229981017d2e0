// Package codec turns a Snapshot into the compact text blob kept in a
// Store and back.
//
// Encoding is always two steps: the snapshot is written as a JSON object
// (`{"variables": {"1": 42}, "switches": {"3": true}}`) and the JSON text is
// compressed. The compressor depends on the host variant and the two are not
// interchangeable: a blob written by one codec cannot be read by the other.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-globals/internal/hydrate"
	"github.com/goliatone/go-globals/pkg/state"
)

// ErrCorrupt marks blobs that are present but cannot be decoded.
var ErrCorrupt = errors.New("codec: corrupt blob")

// Codec converts snapshots to and from stored blobs.
//
// Encode(nil) returns the empty blob "" without touching the compressor.
// Decode("") returns (nil, nil): nothing stored yet is not an error.
type Codec interface {
	Name() string
	Encode(snapshot *Snapshot) (string, error)
	Decode(blob string) (*Snapshot, error)
}

// ForVariant returns the codec the host variant writes with.
func ForVariant(variant state.Variant) (Codec, error) {
	switch variant {
	case state.VariantMV:
		return LZString(), nil
	case state.VariantMZ:
		return Deflate(), nil
	default:
		return nil, fmt.Errorf("%w: %q", state.ErrUnknownVariant, variant)
	}
}

// MarshalText renders the structured-text form of snapshot. Missing maps are
// written as empty objects so the payload always carries both sections.
func MarshalText(snapshot *Snapshot) ([]byte, error) {
	out := snapshot.Clone()
	if out == nil {
		out = NewSnapshot()
	}
	text, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal snapshot: %w", err)
	}
	return text, nil
}

var textDecoder = hydrate.NewDecoder[Snapshot](
	hydrate.WithPreHook[Snapshot](requireSections),
	hydrate.WithPostHook[Snapshot](ensureMaps),
)

// UnmarshalText parses the structured-text form produced by MarshalText.
func UnmarshalText(name string, text []byte) (*Snapshot, error) {
	snapshot, err := textDecoder.DecodeText(hydrate.Context{Codec: name}, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return &snapshot, nil
}

// requireSections accepts payloads that omit a section but rejects sections
// that are present and not objects.
func requireSections(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	for _, section := range []string{"variables", "switches"} {
		value, ok := payload[section]
		if !ok || value == nil {
			payload[section] = map[string]any{}
			continue
		}
		if _, isObject := value.(map[string]any); !isObject {
			return nil, fmt.Errorf("section %q must be an object, got %T", section, value)
		}
	}
	return payload, nil
}

func ensureMaps(_ hydrate.Context, snapshot *Snapshot) error {
	if snapshot.Variables == nil {
		snapshot.Variables = map[int]float64{}
	}
	if snapshot.Switches == nil {
		snapshot.Switches = map[int]bool{}
	}
	return nil
}
