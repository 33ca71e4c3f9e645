package opts

import "github.com/goliatone/go-embed-options/layering"

// LayerWith merges layers ordered strongest to weakest with the current
// snapshot as the fallback, returning a new wrapper with the merged value.
func (o *Options[T]) LayerWith(layers ...T) *Options[T] {
	if o == nil {
		if len(layers) == 0 {
			return nil
		}
		return &Options[T]{Value: layering.MergeLayers(layers...)}
	}

	combined := append([]T(nil), layers...)
	combined = append(combined, o.Value)
	return o.WithValue(layering.MergeLayers(combined...))
}
