package opts

import "github.com/goliatone/go-embed-options/layering"

// Priorities of the three configuration sources. Higher numbers win.
var (
	ScopePriorityDefaults = layering.LevelDefaults.Priority()
	ScopePriorityElement  = layering.LevelElement.Priority()
	ScopePriorityQuery    = layering.LevelQuery.Priority()
)

// DefaultsElementQuery assembles the canonical three-layer stack
// (defaults < element < query) and returns the merged options wrapper.
func DefaultsElementQuery[T any](defaults, element, query T, opts ...Option) (*Options[T], error) {
	stack, err := NewStack(
		NewLayer(LevelScope(layering.LevelQuery, WithScopeLabel("URL Parameters")), query),
		NewLayer(LevelScope(layering.LevelElement, WithScopeLabel("Host Element")), element),
		NewLayer(LevelScope(layering.LevelDefaults, WithScopeLabel("Defaults")), defaults),
	)
	if err != nil {
		return nil, err
	}
	return stack.Merge(opts...)
}
