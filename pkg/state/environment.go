package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Environment describes where the host keeps durable data.
type Environment struct {
	Variant Variant
	Runtime Runtime
	// SaveDir is the save root used by the desktop runtime.
	SaveDir string
	// KVPath is the database directory used by the browser runtime. Detect
	// defaults it to DefaultKVDir under SaveDir.
	KVPath string
	// InMemory backs the browser runtime with a MemoryStore. Nothing
	// survives the process; intended for tests.
	InMemory bool
}

// Location is the resolved medium and key for the global snapshot.
type Location struct {
	Runtime Runtime
	Key     string
	// Path is the file (desktop) or database directory (browser, may be empty).
	Path string
}

func (l Location) String() string {
	if l.Path == "" {
		return fmt.Sprintf("%s key=%q (memory)", l.Runtime, l.Key)
	}
	return fmt.Sprintf("%s key=%q path=%s", l.Runtime, l.Key, l.Path)
}

// WriteCheck reports whether the environment can write files under dir.
type WriteCheck func(dir string) bool

// Detect resolves RuntimeAuto into a concrete runtime using writable and fills
// defaults. It runs once at startup; the result must not be re-detected per
// call.
func Detect(env Environment, writable WriteCheck) (Environment, error) {
	if env.Variant == "" {
		env.Variant = VariantMZ
	}
	if env.Variant != VariantMV && env.Variant != VariantMZ {
		return Environment{}, fmt.Errorf("%w: %q", ErrUnknownVariant, env.Variant)
	}
	if env.SaveDir == "" {
		env.SaveDir = DefaultSaveDir
	}
	switch env.Runtime {
	case RuntimeDesktop, RuntimeBrowser:
	case "", RuntimeAuto:
		if writable == nil {
			writable = WritableDir
		}
		if writable(env.SaveDir) {
			env.Runtime = RuntimeDesktop
		} else {
			env.Runtime = RuntimeBrowser
		}
	default:
		return Environment{}, fmt.Errorf("%w: %q", ErrUnknownRuntime, env.Runtime)
	}
	if env.Runtime == RuntimeBrowser && env.KVPath == "" && !env.InMemory {
		env.KVPath = filepath.Join(env.SaveDir, DefaultKVDir)
	}
	return env, nil
}

// Locate returns the key and path the environment uses for the snapshot.
func (env Environment) Locate() Location {
	switch env.Runtime {
	case RuntimeDesktop:
		key := FileBaseName + env.Variant.Extension()
		return Location{Runtime: env.Runtime, Key: key, Path: filepath.Join(env.SaveDir, key)}
	case RuntimeBrowser:
		if env.InMemory {
			return Location{Runtime: env.Runtime, Key: KeyValueKey}
		}
		return Location{Runtime: env.Runtime, Key: KeyValueKey, Path: env.KVPath}
	default:
		return Location{Runtime: env.Runtime}
	}
}

// Opener builds the key-value Store for a browser environment with a
// database path. The badgerstore package provides the default.
type Opener func(ctx context.Context, path string) (Store, func() error, error)

// Open builds the Store selected by a detected environment. The browser
// runtime needs kv and a KVPath unless InMemory is set; it never falls back
// to a store that loses writes. The returned close function is never nil.
func Open(ctx context.Context, env Environment, kv Opener) (Store, Location, func() error, error) {
	loc := env.Locate()
	noop := func() error { return nil }
	switch loc.Runtime {
	case RuntimeDesktop:
		return NewFileStore(env.SaveDir), loc, noop, nil
	case RuntimeBrowser:
		if env.InMemory {
			return NewMemoryStore(), loc, noop, nil
		}
		if env.KVPath == "" {
			return nil, Location{}, noop, fmt.Errorf("%w: database path is empty", ErrKeyValueUnavailable)
		}
		if kv == nil {
			return nil, Location{}, noop, fmt.Errorf("%w: no opener for %s", ErrKeyValueUnavailable, env.KVPath)
		}
		store, closeFn, err := kv(ctx, env.KVPath)
		if err != nil {
			return nil, Location{}, noop, fmt.Errorf("state: open key-value store %s: %w", env.KVPath, err)
		}
		if closeFn == nil {
			closeFn = noop
		}
		return store, loc, closeFn, nil
	default:
		return nil, Location{}, noop, fmt.Errorf("%w: %q (run Detect first)", ErrUnknownRuntime, loc.Runtime)
	}
}

// WritableDir creates dir when missing and checks that a file can be
// created inside it.
func WritableDir(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
