package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrKeyRequired = errors.New("state: key is required")

var ErrUnknownVariant = errors.New("state: unknown variant")

var ErrUnknownRuntime = errors.New("state: unknown runtime")

// ErrKeyValueUnavailable is returned when the browser runtime has no durable
// key-value store to open.
var ErrKeyValueUnavailable = errors.New("state: key-value store unavailable")

// Store reads and writes one encoded blob per key. Read reports ok=false with
// a nil error when nothing has been written under key yet.
type Store interface {
	Read(ctx context.Context, key string) (blob string, ok bool, err error)
	Write(ctx context.Context, key string, blob string) error
}

// Variant identifies the host flavour. It decides both the save-file
// extension and which codec produced the blob, so it must stay fixed for the
// lifetime of a stored artifact.
type Variant string

const (
	VariantMV Variant = "MV"
	VariantMZ Variant = "MZ"
)

// ParseVariant accepts "mv"/"mz" in any case.
func ParseVariant(value string) (Variant, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "MV":
		return VariantMV, nil
	case "MZ":
		return VariantMZ, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, value)
	}
}

// Extension returns the save-file extension used by the variant.
func (v Variant) Extension() string {
	if v == VariantMV {
		return ".rpgsave"
	}
	return ".rmmzsave"
}

// Runtime names the storage capability of the host environment.
type Runtime string

const (
	RuntimeAuto    Runtime = "auto"
	RuntimeDesktop Runtime = "desktop"
	RuntimeBrowser Runtime = "browser"
)

// ParseRuntime accepts auto, desktop or browser. Empty means auto.
func ParseRuntime(value string) (Runtime, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return RuntimeAuto, nil
	case "desktop", "fs", "file":
		return RuntimeDesktop, nil
	case "browser", "kv", "web":
		return RuntimeBrowser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRuntime, value)
	}
}

const (
	// KeyValueKey is the fixed key used by key-value backends.
	KeyValueKey = "RPG Globals"
	// FileBaseName is the file name (without extension) used on disk.
	FileBaseName = "globals"
	// DefaultSaveDir is the save root relative to the working directory.
	DefaultSaveDir = "save"
	// DefaultKVDir is the database directory, under the save root, used by
	// the browser runtime when no path is configured.
	DefaultKVDir = "kv"
)
