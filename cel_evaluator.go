package opts

import (
	"reflect"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

const engineCEL = "cel"

var anySliceType = reflect.TypeOf([]any{})

// CELEvaluatorOption configures NewCELEvaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache caches programs per expression and declared key set.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry exposes registry functions through
// call(name, [args]).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator returns an engine backed by github.com/google/cel-go.
//
// Evaluate declares only the keys set in the snapshot, so referencing an
// unset key is a compile error. Use has(options.key) to test for presence.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Engine() string { return engineCEL }

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	env := newRuleEnv(ctx)
	rule, err := e.compile(expression, sortedMapKeys(env.options))
	if err != nil {
		return nil, wrapEvaluationError(engineCEL, expression, ctx.scopeLabel(), err)
	}
	return rule.eval(ctx, env)
}

func (e *celEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	cfg := applyCompileOptions(opts)
	rule, err := e.compile(expression, cfg.keys)
	if err != nil {
		return nil, wrapEvaluationError(engineCEL, expression, "", err)
	}
	return rule, nil
}

func (e *celEvaluator) compile(expression string, keys []string) (*celRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	cacheKey := engineCEL + ":" + expression + "|" + strings.Join(keys, ",")
	program, err := cachedProgram(e.cache, cacheKey, func() (celgo.Program, error) {
		env, err := e.environment(keys)
		if err != nil {
			return nil, err
		}
		ast, issues := env.Compile(expression)
		if issues != nil && issues.Err() != nil {
			return nil, issues.Err()
		}
		return env.Program(ast)
	})
	if err != nil {
		return nil, err
	}
	return &celRule{program: program, expression: expression}, nil
}

func (e *celEvaluator) environment(keys []string) (*celgo.Env, error) {
	dynMap := celgo.MapType(celgo.StringType, celgo.DynType)
	decls := []celgo.EnvOption{
		celgo.Variable("options", dynMap),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", dynMap),
		celgo.Variable("metadata", dynMap),
		celgo.Variable("scope", dynMap),
	}
	for _, key := range keys {
		decls = append(decls, celgo.Variable(key, celgo.DynType))
	}
	if e.registry != nil {
		decls = append(decls, celgo.Function("call", celgo.Overload(
			"call_string_list",
			[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
			celgo.DynType,
			celgo.BinaryBinding(e.call()),
		)))
	}
	return celgo.NewEnv(decls...)
}

// call implements call(name, [args]) against the registry.
func (e *celEvaluator) call() functions.BinaryOp {
	return func(name, list ref.Val) ref.Val {
		fn, ok := name.Value().(string)
		if !ok {
			return types.NewErr("opts: call name must be a string")
		}
		native, err := list.ConvertToNative(anySliceType)
		if err != nil {
			return types.NewErr("opts: call arguments: %v", err)
		}
		result, err := e.registry.Call(fn, native.([]any)...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

type celRule struct {
	program    celgo.Program
	expression string
}

func (r *celRule) Evaluate(ctx RuleContext) (any, error) {
	return r.eval(ctx, newRuleEnv(ctx))
}

func (r *celRule) eval(ctx RuleContext, env ruleEnv) (any, error) {
	out, _, err := r.program.Eval(env.variables())
	if err != nil {
		return nil, wrapEvaluationError(engineCEL, r.expression, ctx.scopeLabel(), err)
	}
	return out.Value(), nil
}
