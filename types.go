package globals

import (
	"time"

	"github.com/goliatone/go-globals/pkg/codec"
	"github.com/goliatone/go-globals/pkg/game"
)

// Snapshot is the persisted payload: every global variable and switch with
// its current value.
type Snapshot = codec.Snapshot

// Pending is a host load that settles when awaited.
type Pending = game.Pending

// State is the live variable and switch storage the syncer reads when it
// persists and writes through when it hydrates. Setters must run the same
// observers a gameplay write would.
type State interface {
	Variable(id int) float64
	SetVariable(id int, value float64) error
	Switch(id int) bool
	SetSwitch(id int, value bool) error
}

// Observable is live state that accepts post-write observers.
type Observable interface {
	ObserveVariables(game.VariableObserver)
	ObserveSwitches(game.SwitchObserver)
}

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// RuleContext carries the inputs of one query evaluation.
type RuleContext struct {
	Snapshot *Snapshot
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	if ctx.Now == nil {
		return time.Now()
	}
	return *ctx.Now
}

// variable and flag back the variable(id) and flag(id) query helpers. Unset
// cells read as 0 and false, like the live containers.
func (ctx RuleContext) variable(id int) float64 {
	if ctx.Snapshot == nil {
		return 0
	}
	return ctx.Snapshot.Variables[id]
}

func (ctx RuleContext) flag(id int) bool {
	if ctx.Snapshot == nil {
		return false
	}
	return ctx.Snapshot.Switches[id]
}

// binding is the variable set every engine exposes to expressions.
func (ctx RuleContext) binding() map[string]any {
	binding := ctx.Snapshot.Binding()
	binding["now"] = ctx.timestamp()
	binding["args"] = ctx.Args
	binding["metadata"] = ctx.Metadata
	return binding
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}
