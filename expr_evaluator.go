package opts

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

const engineExpr = "expr"

// ExprEvaluatorOption configures NewExprEvaluator.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache caches compiled programs by expression.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry exposes each registered function by name and
// through call(name, args...).
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator returns the default engine, backed by
// github.com/expr-lang/expr. Unset option keys evaluate to nil.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) Engine() string { return engineExpr }

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *exprEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	return e.compile(expression)
}

func (e *exprEvaluator) compile(expression string) (*exprRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := cachedProgram(e.cache, engineExpr+":"+expression, func() (*exprvm.Program, error) {
		options := []exprlang.Option{
			exprlang.Env(map[string]any{}),
			exprlang.AllowUndefinedVariables(),
		}
		for _, name := range e.registry.Names() {
			options = append(options, exprlang.Function(name, e.registryCall(name)))
		}
		return exprlang.Compile(expression, options...)
	})
	if err != nil {
		return nil, wrapEvaluationError(engineExpr, expression, "", err)
	}
	return &exprRule{program: program, expression: expression, registry: e.registry}, nil
}

func (e *exprEvaluator) registryCall(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}

type exprRule struct {
	program    *exprvm.Program
	expression string
	registry   *FunctionRegistry
}

func (r *exprRule) Evaluate(ctx RuleContext) (any, error) {
	vars := newRuleEnv(ctx).variables()
	if r.registry != nil {
		vars["call"] = r.registry.Call
	}
	out, err := exprlang.Run(r.program, vars)
	if err != nil {
		return nil, wrapEvaluationError(engineExpr, r.expression, ctx.scopeLabel(), err)
	}
	return out, nil
}
