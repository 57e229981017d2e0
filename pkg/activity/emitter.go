package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "globals"

// Config controls emission. It is usually filled from the activity section
// of the configuration file.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter forwards events to hooks when enabled.
type Emitter struct {
	hooks   Hooks
	channel string
}

// NewEmitter constructs an emitter. An emitter with no hooks or with
// Enabled false drops every event.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	e := &Emitter{channel: channel}
	if cfg.Enabled {
		e.hooks = hooks.Compact()
	}
	return e
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit forwards event to all hooks, filling in the default channel.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}
