package globals

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator. The cache
// holds checked ASTs; programs are planned per evaluation because the
// variable and flag helpers are bound to the evaluated snapshot.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	ctx = ctx.withDefaults()
	env, err := e.buildEnv(ctx)
	if err != nil {
		return nil, err
	}
	ast, err := e.loadOrCheck(env, expression)
	if err != nil {
		return nil, err
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	out, _, err := program.Eval(e.activation(ctx))
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

// Compile checks expression up front so syntax and type errors surface
// before the first evaluation.
func (e *celEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	env, err := e.buildEnv(RuleContext{}.withDefaults())
	if err != nil {
		return nil, err
	}
	if _, err := e.loadOrCheck(env, expression); err != nil {
		return nil, err
	}
	return &celCompiledRule{
		evaluator:  e,
		expression: expression,
	}, nil
}

func (e *celEvaluator) loadOrCheck(env *celgo.Env, expression string) (*celgo.Ast, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if ast, ok := cached.(*celgo.Ast); ok {
				return ast, nil
			}
		}
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if e.cache != nil {
		e.cache.Set(expression, ast)
	}
	return ast, nil
}

func (e *celEvaluator) buildEnv(ctx RuleContext) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
		celgo.Variable("variables", celgo.MapType(celgo.StringType, celgo.DoubleType)),
		celgo.Variable("switches", celgo.MapType(celgo.StringType, celgo.BoolType)),
		celgo.Function("variable", celgo.Overload("variable_int",
			[]*celgo.Type{celgo.IntType}, celgo.DoubleType,
			celgo.UnaryBinding(func(id ref.Val) ref.Val {
				n, ok := id.Value().(int64)
				if !ok {
					return types.NewErr("globals: variable id must be int")
				}
				return types.Double(ctx.variable(int(n)))
			}),
		)),
		celgo.Function("flag", celgo.Overload("flag_int",
			[]*celgo.Type{celgo.IntType}, celgo.BoolType,
			celgo.UnaryBinding(func(id ref.Val) ref.Val {
				n, ok := id.Value().(int64)
				if !ok {
					return types.NewErr("globals: switch id must be int")
				}
				return types.Bool(ctx.flag(int(n)))
			}),
		)),
	}
	if e.registry != nil {
		// CEL has no variadic functions: call takes up to three arguments.
		binding := celgo.FunctionBinding(e.callBinding())
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string", []*celgo.Type{celgo.StringType}, celgo.DynType, binding),
			celgo.Overload("call_string_dyn", []*celgo.Type{celgo.StringType, celgo.DynType}, celgo.DynType, binding),
			celgo.Overload("call_string_dyn_dyn", []*celgo.Type{celgo.StringType, celgo.DynType, celgo.DynType}, celgo.DynType, binding),
			celgo.Overload("call_string_dyn_dyn_dyn", []*celgo.Type{celgo.StringType, celgo.DynType, celgo.DynType, celgo.DynType}, celgo.DynType, binding),
		))
	}
	return celgo.NewEnv(opts...)
}

// activation converts the binding maps to the typed maps the declarations
// promise.
func (e *celEvaluator) activation(ctx RuleContext) map[string]any {
	variables := map[string]float64{}
	switches := map[string]bool{}
	binding := ctx.binding()
	for key, value := range binding["variables"].(map[string]any) {
		variables[key] = value.(float64)
	}
	for key, value := range binding["switches"].(map[string]any) {
		switches[key] = value.(bool)
	}
	return map[string]any{
		"now":       ctx.timestamp(),
		"args":      ctx.Args,
		"metadata":  ctx.Metadata,
		"variables": variables,
		"switches":  switches,
	}
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, fmt.Errorf("cel compiled rule missing evaluator")
	}
	return r.evaluator.Evaluate(ctx, r.expression)
}

func (e *celEvaluator) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("globals: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("globals: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("globals: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
