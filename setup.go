package globals

import (
	"context"
	"fmt"

	"github.com/goliatone/go-globals/pkg/codec"
	"github.com/goliatone/go-globals/pkg/state"
)

// Backend is the store and codec selected for an environment.
type Backend struct {
	Environment state.Environment
	Location    state.Location
	Store       state.Store
	Codec       codec.Codec
	// Close releases the store. Never nil.
	Close func() error
}

// OpenBackend detects env, opens the matching store, and picks the codec of
// its variant. kv opens the key-value database for the browser runtime and
// may be nil.
func OpenBackend(ctx context.Context, env state.Environment, writable state.WriteCheck, kv state.Opener) (*Backend, error) {
	detected, err := state.Detect(env, writable)
	if err != nil {
		return nil, fmt.Errorf("globals: detect environment: %w", err)
	}
	c, err := codec.ForVariant(detected.Variant)
	if err != nil {
		return nil, fmt.Errorf("globals: select codec: %w", err)
	}
	store, location, closeFn, err := state.Open(ctx, detected, kv)
	if err != nil {
		return nil, fmt.Errorf("globals: open store: %w", err)
	}
	return &Backend{
		Environment: detected,
		Location:    location,
		Store:       store,
		Codec:       c,
		Close:       closeFn,
	}, nil
}

// Options returns the syncer options that point a Syncer at the backend.
func (b *Backend) Options() []Option {
	return []Option{WithCodec(b.Codec), WithLocation(b.Location)}
}

// NewSyncer builds a syncer over the backend's store. opts are applied after
// the backend's own options.
func (b *Backend) NewSyncer(registry *Registry, live State, opts ...Option) (*Syncer, error) {
	return NewSyncer(b.Store, registry, live, append(b.Options(), opts...)...)
}
