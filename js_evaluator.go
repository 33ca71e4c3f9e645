//go:build js_eval

package opts

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	settings jsSettings
}

// NewJSEvaluator returns an engine backed by github.com/dop251/goja. Each
// evaluation runs in a fresh runtime. Unset option keys are not defined;
// test options.key !== undefined instead.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	return &jsEvaluator{settings: newJSSettings(opts)}
}

func (e *jsEvaluator) Engine() string { return engineJS }

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	return e.compile(expression)
}

func (e *jsEvaluator) compile(expression string) (*jsRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := cachedProgram(e.settings.cache, engineJS+":"+expression, func() (*goja.Program, error) {
		return goja.Compile("rule", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	})
	if err != nil {
		return nil, wrapEvaluationError(engineJS, expression, "", err)
	}
	return &jsRule{program: program, expression: expression, registry: e.settings.registry}, nil
}

type jsRule struct {
	program    *goja.Program
	expression string
	registry   *FunctionRegistry
}

func (r *jsRule) Evaluate(ctx RuleContext) (any, error) {
	vm := goja.New()
	vars := newRuleEnv(ctx).variables()
	if r.registry != nil {
		vars["call"] = r.registry.Call
	}
	for name, value := range vars {
		if err := vm.Set(name, value); err != nil {
			return nil, wrapEvaluationError(engineJS, r.expression, ctx.scopeLabel(), err)
		}
	}
	value, err := vm.RunProgram(r.program)
	if err != nil {
		return nil, wrapEvaluationError(engineJS, r.expression, ctx.scopeLabel(), err)
	}
	return value.Export(), nil
}

func jsEvaluatorAvailable() bool { return true }
