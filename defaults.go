package opts

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-embed-options/browser"
	"github.com/goliatone/go-embed-options/internal/hydrate"
	"github.com/goliatone/go-embed-options/layering"
	"gopkg.in/yaml.v3"
)

// ErrUnknownDefault indicates a defaults object carried keys no record
// defines.
var ErrUnknownDefault = errors.New("opts: unknown defaults key")

// Defaults holds the caller's explicit options, the weakest configuration
// layer.
type Defaults struct {
	Tracer    browser.TracerOptions
	Embedding browser.EmbeddingOptions
}

// DefaultsFromMap decodes a single flat defaults object into both records.
// component_name is accepted as an alias of group_name. Null values leave a
// key unset.
func DefaultsFromMap(payload map[string]any) (Defaults, error) {
	tracerKeys := layering.FieldNames[browser.TracerOptions]()
	embeddingKeys := layering.FieldNames[browser.EmbeddingOptions]()

	known := map[string]struct{}{browser.KeyComponentName: {}}
	for _, key := range append(append([]string{}, tracerKeys...), embeddingKeys...) {
		known[key] = struct{}{}
	}
	var unknown []string
	for key := range payload {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Defaults{}, fmt.Errorf("%w: %v", ErrUnknownDefault, unknown)
	}

	tracerDecoder := hydrate.NewDecoder[browser.TracerOptions](
		hydrate.WithPreHook[browser.TracerOptions](hydrate.DropNulls),
		hydrate.WithPreHook[browser.TracerOptions](hydrate.AliasKey(browser.KeyComponentName, browser.KeyGroupName)),
		hydrate.WithPreHook[browser.TracerOptions](hydrate.SelectKeys(tracerKeys...)),
		hydrate.WithDisallowUnknownFields[browser.TracerOptions](),
	)
	embeddingDecoder := hydrate.NewDecoder[browser.EmbeddingOptions](
		hydrate.WithPreHook[browser.EmbeddingOptions](hydrate.DropNulls),
		hydrate.WithPreHook[browser.EmbeddingOptions](hydrate.SelectKeys(embeddingKeys...)),
		hydrate.WithDisallowUnknownFields[browser.EmbeddingOptions](),
	)

	tracer, err := tracerDecoder.Decode(hydrate.Context{Source: "defaults", Record: "tracer"}, payload)
	if err != nil {
		return Defaults{}, err
	}
	embedding, err := embeddingDecoder.Decode(hydrate.Context{Source: "defaults", Record: "embedding"}, payload)
	if err != nil {
		return Defaults{}, err
	}
	return Defaults{Tracer: tracer, Embedding: embedding}, nil
}

// DefaultsFromYAML parses a YAML mapping and decodes it like DefaultsFromMap.
func DefaultsFromYAML(data []byte) (Defaults, error) {
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return Defaults{}, fmt.Errorf("opts: parse defaults yaml: %w", err)
	}
	return DefaultsFromMap(payload)
}
