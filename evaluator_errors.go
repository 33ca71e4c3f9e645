package opts

import (
	"errors"
	"fmt"
)

// EvaluationError reports a rule that failed to compile or run, with the
// engine, expression and scope it ran under.
type EvaluationError struct {
	Engine string
	Expr   string
	Scope  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	scope := e.Scope
	if scope == "" {
		scope = "unknown"
	}
	return fmt.Sprintf("opts: %s rule %q in scope %s: %v", e.Engine, e.Expr, scope, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapEvaluationError attaches rule metadata to err. An EvaluationError
// already in the chain keeps its fields and only gains the empty ones.
// Sentinel errors of this package pass through unwrapped.
func wrapEvaluationError(engine, expr, scope string, err error) error {
	if err == nil || errors.Is(err, ErrEmptyExpression) || errors.Is(err, ErrNoEvaluator) {
		return err
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return &EvaluationError{Engine: engine, Expr: expr, Scope: scope, Err: err}
	}
	if evalErr.Engine == "" {
		evalErr.Engine = engine
	}
	if evalErr.Expr == "" {
		evalErr.Expr = expr
	}
	if evalErr.Scope == "" {
		evalErr.Scope = scope
	}
	return evalErr
}
