package opts

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-embed-options/layering"
)

// ErrUnknownKey indicates a lookup for a key the record does not carry.
var ErrUnknownKey = errors.New("opts: unknown option key")

// New constructs an Options wrapper around the provided value.
func New[T any](value T, opts ...Option) *Options[T] {
	cfg := applyOptions(opts)
	return &Options[T]{
		Value: value,
		cfg:   cfg,
	}
}

// Load constructs an Options wrapper and runs validation when supported by the
// underlying type.
func Load[T any](value T, opts ...Option) (*Options[T], error) {
	wrapper := New(value, opts...)
	if err := validateValue(wrapper.Value); err != nil {
		return nil, err
	}
	return wrapper, nil
}

// WithEvaluator configures an evaluator on the Options wrapper.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *optionsConfig) {
		cfg.evaluator = e
	}
}

// WithValue returns a copy of the wrapper holding value. Configuration and
// layer provenance are kept.
func (o *Options[T]) WithValue(value T) *Options[T] {
	if o == nil {
		return New(value)
	}
	return &Options[T]{
		Value:  value,
		cfg:    o.cfg,
		layers: append([]layerSnapshot(nil), o.layers...),
	}
}

// Get returns the effective value for key. Unset keys return nil and no
// error; keys the record does not define return ErrUnknownKey.
func (o *Options[T]) Get(key string) (any, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if !knownKey[T](key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return layering.FieldValues(o.Value)[key], nil
}

// Snapshot returns the set keys of the wrapped record and their values.
func (o *Options[T]) Snapshot() map[string]any {
	if o == nil {
		return map[string]any{}
	}
	return layering.FieldValues(o.Value)
}

// Validate invokes the Validate method on the wrapped value when present.
func (o *Options[T]) Validate() error {
	return validateValue(o.Value)
}

func validateValue[T any](value T) error {
	if v, ok := any(value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	if rv := reflect.ValueOf(value); rv.Kind() != reflect.Pointer && rv.CanAddr() {
		if v, ok := rv.Addr().Interface().(interface{ Validate() error }); ok {
			return v.Validate()
		}
	}
	if v, ok := any(&value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

func knownKey[T any](key string) bool {
	for _, name := range layering.FieldNames[T]() {
		if name == key {
			return true
		}
	}
	return false
}
