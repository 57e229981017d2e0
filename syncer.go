package globals

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-globals/pkg/activity"
	"github.com/goliatone/go-globals/pkg/codec"
	"github.com/goliatone/go-globals/pkg/state"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Syncer persists the global cells of a live State after every write to one
// of them and hydrates them back from the store.
//
// A Syncer belongs to one session and is driven from a single goroutine.
// The hydrating flag is what keeps writes applied during Hydrate from
// triggering a persist of their own.
type Syncer struct {
	store    state.Store
	registry *Registry
	live     State
	cfg      syncerConfig
	metrics  *syncMetrics
	emitter  *activity.Emitter

	hydrating bool
}

// NewSyncer builds a syncer over store and live. A nil registry makes no
// cell global.
func NewSyncer(store state.Store, registry *Registry, live State, opts ...Option) (*Syncer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if live == nil {
		return nil, ErrStateRequired
	}
	if registry == nil {
		registry = NewRegistry(nil, nil)
	}
	cfg := applyOptions(opts)
	metrics, err := newSyncMetrics(cfg.registerer)
	if err != nil {
		return nil, err
	}
	return &Syncer{
		store:    store,
		registry: registry,
		live:     live,
		cfg:      cfg,
		metrics:  metrics,
		emitter: activity.NewEmitter(cfg.activityHooks, activity.Config{
			Enabled: len(cfg.activityHooks) > 0,
			Channel: cfg.activityChannel,
		}),
	}, nil
}

// Attach registers the syncer as a post-write observer of live.
func (s *Syncer) Attach(live Observable) {
	live.ObserveVariables(s)
	live.ObserveSwitches(s)
}

// Registry returns the registry the syncer filters on.
func (s *Syncer) Registry() *Registry {
	return s.registry
}

// Key returns the store key the snapshot is written under.
func (s *Syncer) Key() string {
	return s.cfg.key
}

// Hydrating reports whether a hydration is being applied.
func (s *Syncer) Hydrating() bool {
	return s.hydrating
}

// AfterVariableSet persists when id is a global variable. It fires on every
// call, whether or not the value changed, and does nothing while hydrating.
func (s *Syncer) AfterVariableSet(id int, _, _ float64) error {
	if s.hydrating || !s.registry.IsGlobalVariable(id) {
		return nil
	}
	return s.persist(context.Background(), "variable:"+strconv.Itoa(id))
}

// AfterSwitchSet persists when id is a global switch.
func (s *Syncer) AfterSwitchSet(id int, _, _ bool) error {
	if s.hydrating || !s.registry.IsGlobalSwitch(id) {
		return nil
	}
	return s.persist(context.Background(), "switch:"+strconv.Itoa(id))
}

// Snapshot captures the current value of every global cell from live state.
func (s *Syncer) Snapshot() *Snapshot {
	snapshot := codec.NewSnapshot()
	for _, id := range s.registry.VariableIDs() {
		snapshot.Variables[id] = s.live.Variable(id)
	}
	for _, id := range s.registry.SwitchIDs() {
		snapshot.Switches[id] = s.live.Switch(id)
	}
	return snapshot
}

// Persist encodes a full snapshot of the global cells and writes it to the
// store, synchronously. Failures are returned as *SyncError.
func (s *Syncer) Persist(ctx context.Context) error {
	return s.persist(ctx, "")
}

func (s *Syncer) persist(ctx context.Context, trigger string) (err error) {
	start := time.Now()
	ctx, span := s.cfg.tracer.Start(ctx, "globals.persist", trace.WithAttributes(
		attribute.String("globals.key", s.cfg.key),
		attribute.String("globals.trigger", trigger),
	))
	defer span.End()

	snapshot := s.Snapshot()
	defer func() {
		duration := time.Since(start)
		s.metrics.observePersist(duration, err)
		s.cfg.logger.LogSync(SyncEvent{
			Op:        OpPersist,
			Key:       s.cfg.key,
			Backend:   s.cfg.backend,
			Codec:     s.cfg.codec.Name(),
			Trigger:   trigger,
			Variables: len(snapshot.Variables),
			Switches:  len(snapshot.Switches),
			Duration:  duration,
			Err:       err,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err := ctx.Err(); err != nil {
		return wrapSyncError(OpPersist, s.cfg.key, trigger, err)
	}
	blob, err := s.cfg.codec.Encode(snapshot)
	if err != nil {
		return wrapSyncError(OpPersist, s.cfg.key, trigger, err)
	}
	if err := s.store.Write(ctx, s.cfg.key, blob); err != nil {
		return wrapSyncError(OpPersist, s.cfg.key, trigger, err)
	}

	span.SetAttributes(
		attribute.Int("globals.variables", len(snapshot.Variables)),
		attribute.Int("globals.switches", len(snapshot.Switches)),
	)
	s.emit(ctx, activity.BuildPersistedEvent(s.eventInput(trigger, len(snapshot.Variables), len(snapshot.Switches))))
	return nil
}

// Hydrate reads the stored snapshot and applies its cells to live state.
// Only ids the registry currently marks as global are applied; stored ids
// that were unregistered since the snapshot was written are skipped rather
// than restored. Nothing stored is a no-op. Writes made while applying do
// not persist.
//
// Hydrate is not re-entrant: an observer that calls it while a hydration is
// being applied gets ErrHydrating.
func (s *Syncer) Hydrate(ctx context.Context) error {
	return s.hydrate(ctx, "")
}

func (s *Syncer) hydrate(ctx context.Context, trigger string) (err error) {
	if s.hydrating {
		return ErrHydrating
	}

	start := time.Now()
	ctx, span := s.cfg.tracer.Start(ctx, "globals.hydrate", trace.WithAttributes(
		attribute.String("globals.key", s.cfg.key),
		attribute.String("globals.trigger", trigger),
	))
	defer span.End()

	var (
		absent              bool
		variables, switches int
	)
	defer func() {
		duration := time.Since(start)
		s.metrics.observeHydrate(absent, variables, switches, err)
		s.cfg.logger.LogSync(SyncEvent{
			Op:        OpHydrate,
			Key:       s.cfg.key,
			Backend:   s.cfg.backend,
			Codec:     s.cfg.codec.Name(),
			Trigger:   trigger,
			Variables: variables,
			Switches:  switches,
			Absent:    absent,
			Duration:  duration,
			Err:       err,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err := ctx.Err(); err != nil {
		return wrapSyncError(OpHydrate, s.cfg.key, trigger, err)
	}
	blob, ok, err := s.store.Read(ctx, s.cfg.key)
	if err != nil {
		return wrapSyncError(OpHydrate, s.cfg.key, trigger, err)
	}
	if !ok || blob == "" {
		absent = true
		return nil
	}
	snapshot, err := s.cfg.codec.Decode(blob)
	if err != nil {
		return wrapSyncError(OpHydrate, s.cfg.key, trigger, err)
	}
	if snapshot == nil {
		absent = true
		return nil
	}

	variables, switches, err = s.apply(snapshot)
	if err != nil {
		return wrapSyncError(OpHydrate, s.cfg.key, trigger, err)
	}

	span.SetAttributes(
		attribute.Int("globals.variables", variables),
		attribute.Int("globals.switches", switches),
	)
	s.emit(ctx, activity.BuildHydratedEvent(s.eventInput(trigger, variables, switches)))
	return nil
}

// apply writes the registry-filtered cells of snapshot through the live
// setters with the hydrating flag raised. The flag drops on every exit path.
func (s *Syncer) apply(snapshot *Snapshot) (variables, switches int, err error) {
	s.hydrating = true
	defer func() { s.hydrating = false }()

	for _, id := range snapshot.VariableIDs() {
		if !s.registry.IsGlobalVariable(id) {
			continue
		}
		if err := s.live.SetVariable(id, snapshot.Variables[id]); err != nil {
			return variables, switches, fmt.Errorf("apply variable %d: %w", id, err)
		}
		variables++
	}
	for _, id := range snapshot.SwitchIDs() {
		if !s.registry.IsGlobalSwitch(id) {
			continue
		}
		if err := s.live.SetSwitch(id, snapshot.Switches[id]); err != nil {
			return variables, switches, fmt.Errorf("apply switch %d: %w", id, err)
		}
		switches++
	}
	return variables, switches, nil
}

// ReadSnapshot decodes what is currently stored without touching live
// state. It returns (nil, nil) when nothing is stored.
func (s *Syncer) ReadSnapshot(ctx context.Context) (*Snapshot, error) {
	blob, ok, err := s.store.Read(ctx, s.cfg.key)
	if err != nil {
		return nil, wrapSyncError(OpHydrate, s.cfg.key, "", err)
	}
	if !ok {
		return nil, nil
	}
	snapshot, err := s.cfg.codec.Decode(blob)
	if err != nil {
		return nil, wrapSyncError(OpHydrate, s.cfg.key, "", err)
	}
	return snapshot, nil
}

func (s *Syncer) eventInput(trigger string, variables, switches int) activity.SyncEventInput {
	return activity.SyncEventInput{
		ActorID:    s.cfg.actorID,
		SnapshotID: uuid.NewString(),
		Key:        s.cfg.key,
		Backend:    s.cfg.backend,
		Codec:      s.cfg.codec.Name(),
		Variables:  variables,
		Switches:   switches,
		Trigger:    trigger,
	}
}

// emit logs hook failures instead of returning them.
func (s *Syncer) emit(ctx context.Context, event activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.cfg.logger.LogSync(SyncEvent{
			Op:      "activity",
			Key:     s.cfg.key,
			Backend: s.cfg.backend,
			Trigger: event.Verb,
			Err:     err,
		})
	}
}
