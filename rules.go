package opts

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-embed-options/layering"
)

var (
	// ErrNoEvaluator indicates no rule engine could be configured.
	ErrNoEvaluator = errors.New("opts: evaluator not configured")
	// ErrEmptyExpression indicates a rule without an expression.
	ErrEmptyExpression = errors.New("opts: expression must not be empty")
)

// Evaluator executes rule expressions against a resolved option record.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule is an expression prepared once and evaluated many times.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures Evaluator.Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	keys []string
}

// WithDeclaredKeys lists the option keys a compiled rule may reference.
// Engines with static declarations, such as CEL, only see declared keys.
func WithDeclaredKeys(keys ...string) CompileOption {
	return func(cfg *compileConfig) {
		cfg.keys = append(cfg.keys, keys...)
	}
}

func applyCompileOptions(opts []CompileOption) compileConfig {
	var cfg compileConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	sort.Strings(cfg.keys)
	return cfg
}

// RuleContext carries the inputs of one evaluation. A nil Snapshot means the
// wrapper's resolved record; a nil Now means the current time.
type RuleContext struct {
	Snapshot  any
	Now       *time.Time
	Args      map[string]any
	Metadata  map[string]any
	Scope     Scope
	ScopeName string
}

func (ctx RuleContext) scopeLabel() string {
	switch {
	case ctx.Scope.Name != "":
		return ctx.Scope.Name
	case ctx.ScopeName != "":
		return ctx.ScopeName
	default:
		return "unknown"
	}
}

// ruleEnv is the variable set every engine binds. Each set option key is a
// top-level variable and is also reachable through the options map, so
// rules can test presence without referencing an unbound name.
type ruleEnv struct {
	options  map[string]any
	now      time.Time
	args     map[string]any
	metadata map[string]any
	scope    map[string]any
}

func newRuleEnv(ctx RuleContext) ruleEnv {
	env := ruleEnv{
		options:  snapshotAsMap(ctx.Snapshot),
		now:      time.Now(),
		args:     ctx.Args,
		metadata: ctx.Metadata,
		scope:    scopeToBinding(ctx.Scope),
	}
	if ctx.Now != nil {
		env.now = *ctx.Now
	}
	if env.args == nil {
		env.args = map[string]any{}
	}
	if env.metadata == nil {
		env.metadata = map[string]any{}
	}
	if env.scope == nil {
		env.scope = map[string]any{}
		if ctx.ScopeName != "" {
			env.scope["name"] = ctx.ScopeName
		}
	}
	return env
}

func (env ruleEnv) variables() map[string]any {
	vars := make(map[string]any, len(env.options)+5)
	for key, value := range env.options {
		vars[key] = value
	}
	vars["options"] = env.options
	vars["now"] = env.now
	vars["args"] = env.args
	vars["metadata"] = env.metadata
	vars["scope"] = env.scope
	return vars
}

// Evaluate runs expr against the resolved record.
func (o *Options[T]) Evaluate(expr string) (Response[any], error) {
	return o.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith runs expr with ctx. The wrapper's scope fills an empty
// ctx.Scope and the resolved record fills a nil ctx.Snapshot.
func (o *Options[T]) EvaluateWith(ctx RuleContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, ErrEmptyExpression
	}
	evaluator, err := o.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = o.Value
	}
	if ctx.Scope.isZero() && ctx.ScopeName == "" {
		ctx.Scope = o.cfg.scope.clone()
	}

	engine := engineName(evaluator)
	start := time.Now()
	value, err := evaluator.Evaluate(ctx, expr)
	err = wrapEvaluationError(engine, expr, ctx.scopeLabel(), err)
	o.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Scope:    ctx.scopeLabel(),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return Response[any]{}, err
	}
	return Response[any]{Value: value}, nil
}

// EvaluateBool evaluates expr and requires a boolean result.
func (o *Options[T]) EvaluateBool(expr string) (bool, error) {
	resp, err := o.Evaluate(expr)
	if err != nil {
		return false, err
	}
	b, ok := resp.Value.(bool)
	if !ok {
		return false, fmt.Errorf("opts: expression %q returned %T, want bool", expr, resp.Value)
	}
	return b, nil
}

// Compile prepares expr for repeated evaluation against records of type T.
// Every key of T is declared, set or not.
func (o *Options[T]) Compile(expr string) (CompiledRule, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}
	evaluator, err := o.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	return evaluator.Compile(expr, WithDeclaredKeys(layering.FieldNames[T]()...))
}

func (o *Options[T]) resolveEvaluator() (Evaluator, error) {
	if o == nil {
		return nil, ErrNoEvaluator
	}
	if evaluator := o.cfg.evaluator; evaluator != nil {
		return evaluator, nil
	}
	evaluator := NewExprEvaluator(
		ExprWithProgramCache(o.cfg.programCache),
		ExprWithFunctionRegistry(o.cfg.functions),
	)
	o.cfg.evaluator = evaluator
	return evaluator, nil
}

func engineName(e Evaluator) string {
	if named, ok := e.(interface{ Engine() string }); ok {
		return named.Engine()
	}
	return "custom"
}

// snapshotAsMap binds a snapshot for evaluators: maps are used as-is and
// option records are reduced to their set keys.
func snapshotAsMap(value any) map[string]any {
	switch v := value.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	default:
		return layering.FieldValues(v)
	}
}

func sortedMapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
