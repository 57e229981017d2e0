package globals

import (
	"context"
	"strconv"

	"github.com/goliatone/go-globals/pkg/game"
)

// Host is the part of a game host the lifecycle wraps.
type Host interface {
	CreateGameObjects(ctx context.Context) error
	// LoadGame reports whether slot was loaded.
	LoadGame(ctx context.Context, slot int) (bool, error)
}

// AsyncHost is a host whose load settles later.
type AsyncHost interface {
	Host
	LoadGameAsync(ctx context.Context, slot int) Pending
}

// Lifecycle runs the host's bootstrap and load steps and hydrates the global
// cells once the host is done with them. The host never sees the syncer.
type Lifecycle struct {
	host   Host
	syncer *Syncer
}

// NewLifecycle wraps host.
func NewLifecycle(host Host, syncer *Syncer) *Lifecycle {
	return &Lifecycle{host: host, syncer: syncer}
}

// CreateGameObjects runs the host bootstrap, then hydrates.
func (l *Lifecycle) CreateGameObjects(ctx context.Context) error {
	if err := l.host.CreateGameObjects(ctx); err != nil {
		return err
	}
	return l.syncer.hydrate(ctx, "create")
}

// LoadGame runs the host load and hydrates only when it succeeded. The
// host's result is returned unchanged.
func (l *Lifecycle) LoadGame(ctx context.Context, slot int) (bool, error) {
	ok, err := l.host.LoadGame(ctx, slot)
	if err != nil || !ok {
		return ok, err
	}
	if err := l.syncer.hydrate(ctx, loadTrigger(slot)); err != nil {
		return ok, err
	}
	return ok, nil
}

// LoadGameAsync starts the host load and returns a Pending that, once
// awaited, hydrates only if the load succeeded. Hosts without an async load
// get their synchronous LoadGame deferred to Await.
func (l *Lifecycle) LoadGameAsync(ctx context.Context, slot int) Pending {
	var pending Pending
	if async, ok := l.host.(AsyncHost); ok {
		pending = async.LoadGameAsync(ctx, slot)
	} else {
		pending = game.PendingFunc(func(ctx context.Context) (bool, error) {
			return l.host.LoadGame(ctx, slot)
		})
	}
	return game.PendingFunc(func(ctx context.Context) (bool, error) {
		if pending == nil {
			return false, nil
		}
		ok, err := pending.Await(ctx)
		if err != nil || !ok {
			return ok, err
		}
		if err := l.syncer.hydrate(ctx, loadTrigger(slot)); err != nil {
			return ok, err
		}
		return ok, nil
	})
}

func loadTrigger(slot int) string {
	return "load:" + strconv.Itoa(slot)
}
