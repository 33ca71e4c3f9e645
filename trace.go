package opts

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goliatone/go-embed-options/layering"
)

// Trace captures provenance information for a key across the scoped layers
// that produced the effective value.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how a specific scope contributed to a traced key.
type Provenance struct {
	Scope      Scope  `json:"scope"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Path       string `json:"path"`
	Value      any    `json:"value,omitempty"`
	Found      bool   `json:"found"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// ResolveWithTrace returns the effective value of key together with every
// layer's contribution, strongest first. Wrappers built without a stack
// report a single synthetic layer.
func (o *Options[T]) ResolveWithTrace(key string) (any, Trace, error) {
	value, err := o.Get(key)
	if err != nil {
		return nil, Trace{}, err
	}
	trace := Trace{Path: key}
	for _, layer := range o.traceLayers() {
		v, found := layer.Values[key]
		trace.Layers = append(trace.Layers, Provenance{
			Scope:      layer.Scope.clone(),
			SnapshotID: layer.SnapshotID,
			Path:       key,
			Value:      v,
			Found:      found,
		})
	}
	return value, trace, nil
}

// FlattenWithProvenance attributes every set key to the strongest layer that
// set it. Results are sorted by key.
func (o *Options[T]) FlattenWithProvenance() ([]Provenance, error) {
	if o == nil {
		return nil, fmt.Errorf("opts: options wrapper is nil")
	}
	layers := o.traceLayers()
	values := layering.FieldValues(o.Value)
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Provenance, 0, len(keys))
	for _, key := range keys {
		prov := Provenance{Path: key, Value: values[key]}
		for _, layer := range layers {
			if _, found := layer.Values[key]; found {
				prov.Scope = layer.Scope.clone()
				prov.SnapshotID = layer.SnapshotID
				prov.Found = true
				break
			}
		}
		out = append(out, prov)
	}
	return out, nil
}

func (o *Options[T]) traceLayers() []layerSnapshot {
	if len(o.layers) > 0 {
		return o.layers
	}
	scope := o.cfg.scope
	if scope.isZero() {
		scope = Scope{Name: "snapshot"}
	}
	return []layerSnapshot{{
		Scope:  scope,
		Values: layering.FieldValues(o.Value),
	}}
}
