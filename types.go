package opts

import (
	"github.com/goliatone/go-embed-options/pkg/activity"
	"github.com/rs/zerolog"
)

// Options wraps a resolved option record together with the layers that
// produced it and the rule engine configuration used to query it.
type Options[T any] struct {
	Value T

	cfg    optionsConfig
	layers []layerSnapshot
}

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// Option configures an Options wrapper and, through Resolve, a resolution
// pass.
type Option func(*optionsConfig)

type optionsConfig struct {
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	logger        EvaluatorLogger
	log           *zerolog.Logger
	scope         Scope
	activityHooks activity.Hooks
}

func applyOptions(opts []Option) optionsConfig {
	cfg := optionsConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (o *Options[T]) evaluatorLogger() EvaluatorLogger {
	if o.cfg.logger != nil {
		return o.cfg.logger
	}
	return noopEvaluatorLogger{}
}

// WithScope sets the scope bound as "scope" in rule evaluations that do not
// name one.
func WithScope(scope Scope) Option {
	return func(cfg *optionsConfig) {
		cfg.scope = scope.clone()
	}
}

// WithLogger sets the structured logger used during resolution.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *optionsConfig) {
		cfg.log = &logger
	}
}

func (cfg optionsConfig) logOrNop() zerolog.Logger {
	if cfg.log == nil {
		return zerolog.Nop()
	}
	return *cfg.log
}

func scopeToBinding(scope Scope) map[string]any {
	if scope.isZero() {
		return nil
	}
	binding := map[string]any{
		"name":     scope.Name,
		"label":    scope.Label,
		"priority": scope.Priority,
	}
	if len(scope.Metadata) > 0 {
		binding["metadata"] = copyMetadata(scope.Metadata)
	}
	return binding
}
