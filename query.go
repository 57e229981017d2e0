package globals

import (
	"fmt"
	"strings"
	"time"
)

// Evaluation engines accepted by NewEvaluator.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// QueryOption configures a Query.
type QueryOption func(*queryConfig)

type queryConfig struct {
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       EvaluatorLogger
}

func applyQueryOptions(opts []QueryOption) queryConfig {
	cfg := queryConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator sets the engine a Query evaluates with. Defaults to expr.
func WithEvaluator(e Evaluator) QueryOption {
	return func(cfg *queryConfig) {
		cfg.evaluator = e
	}
}

// WithEvaluatorLogger attaches an evaluation logger.
func WithEvaluatorLogger(logger EvaluatorLogger) QueryOption {
	return func(cfg *queryConfig) {
		if logger == nil {
			cfg.logger = noopEvaluatorLogger{}
			return
		}
		cfg.logger = logger
	}
}

// Query evaluates expressions over a snapshot. Expressions see:
//
//	variable(id)   value of variable id, 0 when unset
//	flag(id)       state of switch id, false when unset
//	variables      map of stringified id to value
//	switches       map of stringified id to state
//	now, args, metadata
type Query struct {
	snapshot *Snapshot
	cfg      queryConfig
}

// NewQuery binds a query to a copy of snapshot.
func NewQuery(snapshot *Snapshot, opts ...QueryOption) *Query {
	return &Query{
		snapshot: snapshot.Clone(),
		cfg:      applyQueryOptions(opts),
	}
}

// Query evaluates expr over the current global cells of live state.
func (s *Syncer) Query(expr string, opts ...QueryOption) (Response[any], error) {
	return NewQuery(s.Snapshot(), opts...).Evaluate(expr)
}

// Evaluate runs expr against the bound snapshot.
func (q *Query) Evaluate(expr string) (Response[any], error) {
	return q.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith runs expr using ctx, falling back to the bound snapshot when
// ctx.Snapshot is nil.
func (q *Query) EvaluateWith(ctx RuleContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := q.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = q.snapshot
	}
	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, expr, evalErr)
	q.logger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

func (q *Query) logger() EvaluatorLogger {
	if q.cfg.logger != nil {
		return q.cfg.logger
	}
	return noopEvaluatorLogger{}
}

func (q *Query) resolveEvaluator() (Evaluator, error) {
	if q.cfg.evaluator != nil {
		return q.cfg.evaluator, nil
	}
	evaluator, err := NewEvaluator(EngineExpr, q.cfg.programCache, q.cfg.functions)
	if err != nil {
		return nil, err
	}
	q.cfg.evaluator = evaluator
	return evaluator, nil
}

// NewEvaluator builds the evaluator for engine. cache and registry may be
// nil. The js engine needs the js_eval build tag.
func NewEvaluator(engine string, cache ProgramCache, registry *FunctionRegistry) (Evaluator, error) {
	var evaluator Evaluator
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineExpr:
		evaluator = NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(registry))
	case EngineCEL:
		evaluator = NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(registry))
	case EngineJS:
		evaluator = NewJSEvaluator(JSWithProgramCache(cache), JSWithFunctionRegistry(registry))
	default:
		return nil, fmt.Errorf("globals: unknown evaluator engine %q", engine)
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEvaluator, engine)
	}
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return EngineExpr
	case *celEvaluator:
		return EngineCEL
	default:
		if isJSEvaluator(e) {
			return EngineJS
		}
		return "custom"
	}
}
