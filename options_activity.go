package globals

import "github.com/goliatone/go-globals/pkg/activity"

// WithActivityHooks attaches hooks notified after every successful persist
// and hydrate. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *syncerConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel overrides the channel applied to emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *syncerConfig) {
		cfg.activityChannel = channel
	}
}

// ActivityHooks returns a copy of the hooks configured on the syncer. The
// returned slice can be safely mutated by the caller.
func (s *Syncer) ActivityHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return cloneActivityHooks(s.cfg.activityHooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	return hooks.Compact()
}
