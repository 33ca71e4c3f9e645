package opts

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/goliatone/go-embed-options/layering"
)

var (
	// ErrScopeNameRequired indicates a layer whose scope has no name.
	ErrScopeNameRequired = errors.New("scope: name must be provided")
	// ErrDuplicateScopeName indicates two layers share a scope name.
	ErrDuplicateScopeName = errors.New("scope: names must be unique")
	// ErrPriorityOrder indicates two layers share a priority.
	ErrPriorityOrder = errors.New("scope: priorities must be strictly ordered")
	// ErrEmptyStack indicates a merge was requested without layers.
	ErrEmptyStack = errors.New("scope: stack must include at least one layer")
)

// Scope names one configuration source. Higher priorities win.
type Scope struct {
	Name     string         `json:"name"`
	Label    string         `json:"label,omitempty"`
	Priority int            `json:"priority"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ScopeOption configures NewScope.
type ScopeOption func(*Scope)

// WithScopeLabel sets a human readable label.
func WithScopeLabel(label string) ScopeOption {
	return func(s *Scope) {
		s.Label = label
	}
}

// WithScopeMetadata attaches a copy of metadata, such as the host element
// src or the page href.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(s *Scope) {
		if len(metadata) > 0 {
			s.Metadata = copyMetadata(metadata)
		}
	}
}

// NewScope builds a scope. Validation happens when a Stack is built.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	scope := Scope{Name: name, Priority: priority}
	for _, opt := range opts {
		if opt != nil {
			opt(&scope)
		}
	}
	return scope
}

// LevelScope builds the scope of a standard configuration source, named and
// prioritised by its level.
func LevelScope(level layering.Level, opts ...ScopeOption) Scope {
	return NewScope(level.String(), level.Priority(), opts...)
}

// Level reports the standard level a scope stands for, or LevelUnknown.
func (s Scope) Level() layering.Level {
	return layering.ParseLevel(s.Name)
}

func (s Scope) clone() Scope {
	s.Metadata = copyMetadata(s.Metadata)
	return s
}

func (s Scope) isZero() bool {
	return s.Name == "" && s.Label == "" && s.Priority == 0 && len(s.Metadata) == 0
}

// Layer is the record one scope contributed to a resolution pass.
type Layer[T any] struct {
	Scope      Scope
	Snapshot   T
	SnapshotID string
}

// LayerOption configures NewLayer.
type LayerOption[T any] func(*Layer[T])

// WithSnapshotID tags the layer with the resolution pass it belongs to.
func WithSnapshotID[T any](id string) LayerOption[T] {
	return func(layer *Layer[T]) {
		layer.SnapshotID = id
	}
}

// NewLayer pairs scope with a deep copy of snapshot.
func NewLayer[T any](scope Scope, snapshot T, opts ...LayerOption[T]) Layer[T] {
	layer := Layer[T]{Scope: scope.clone(), Snapshot: layering.Clone(snapshot)}
	for _, opt := range opts {
		if opt != nil {
			opt(&layer)
		}
	}
	return layer
}

func (l Layer[T]) clone() Layer[T] {
	return Layer[T]{
		Scope:      l.Scope.clone(),
		Snapshot:   layering.Clone(l.Snapshot),
		SnapshotID: l.SnapshotID,
	}
}

// Stack is an immutable, validated set of layers ordered strongest first.
type Stack[T any] struct {
	layers []Layer[T]
}

// NewStack copies layers, sorts them strongest first and checks that names
// are present and unique and that no two layers share a priority.
func NewStack[T any](layers ...Layer[T]) (*Stack[T], error) {
	sorted := make([]Layer[T], 0, len(layers))
	names := make(map[string]struct{}, len(layers))
	for _, layer := range layers {
		if layer.Scope.Name == "" {
			return nil, ErrScopeNameRequired
		}
		if _, seen := names[layer.Scope.Name]; seen {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, layer.Scope.Name)
		}
		names[layer.Scope.Name] = struct{}{}
		sorted = append(sorted, layer.clone())
	}

	slices.SortStableFunc(sorted, func(a, b Layer[T]) int {
		return cmp.Compare(b.Scope.Priority, a.Scope.Priority)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Scope.Priority == sorted[i-1].Scope.Priority {
			return nil, fmt.Errorf("%w: %s and %s share %d", ErrPriorityOrder,
				sorted[i-1].Scope.Name, sorted[i].Scope.Name, sorted[i].Scope.Priority)
		}
	}
	return &Stack[T]{layers: sorted}, nil
}

// Layers returns copies of the layers, strongest first.
func (s *Stack[T]) Layers() []Layer[T] {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Layer[T], len(s.layers))
	for i, layer := range s.layers {
		out[i] = layer.clone()
	}
	return out
}

// Layer returns a copy of the layer whose scope is called name.
func (s *Stack[T]) Layer(name string) (Layer[T], bool) {
	if s != nil {
		for _, layer := range s.layers {
			if layer.Scope.Name == name {
				return layer.clone(), true
			}
		}
	}
	return Layer[T]{}, false
}

// Len returns the number of layers.
func (s *Stack[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merge resolves the stack into an Options wrapper. Each set key comes from
// the strongest layer that sets it, and the wrapper keeps every layer's
// values for tracing.
func (s *Stack[T]) Merge(opts ...Option) (*Options[T], error) {
	if s.Len() == 0 {
		return nil, ErrEmptyStack
	}
	records := make([]T, len(s.layers))
	provenance := make([]layerSnapshot, len(s.layers))
	for i, layer := range s.layers {
		records[i] = layer.Snapshot
		provenance[i] = layerSnapshot{
			Scope:      layer.Scope.clone(),
			Values:     layering.FieldValues(layer.Snapshot),
			SnapshotID: layer.SnapshotID,
		}
	}
	merged := New(layering.MergeLayers(records...), opts...)
	merged.layers = provenance
	return merged, nil
}

// layerSnapshot is what a merged wrapper remembers about one layer.
type layerSnapshot struct {
	Scope      Scope
	Values     map[string]any
	SnapshotID string
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	return maps.Clone(origin)
}
