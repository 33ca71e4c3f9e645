package opts

import (
	"context"
	"time"

	"github.com/goliatone/go-embed-options/browser"
	"github.com/goliatone/go-embed-options/layering"
	"github.com/goliatone/go-embed-options/pkg/activity"
	"github.com/google/uuid"
)

// Record names used in logs and activity metadata.
const (
	RecordTracer    = "tracer"
	RecordEmbedding = "embedding"
)

// Page is the environment a resolution pass reads from.
type Page struct {
	Document *browser.Document
	Href     string
}

// Resolution is the outcome of one pass over defaults, the host element and
// the page URL.
type Resolution struct {
	ID          string
	Host        *browser.Element
	Query       browser.QueryParams
	Tracer      *Options[browser.TracerOptions]
	Embedding   *Options[browser.EmbeddingOptions]
	Assignments []browser.Assignment
}

// Resolve runs a pass with a background context.
func Resolve(page Page, defaults Defaults, opts ...Option) (*Resolution, error) {
	return ResolveContext(context.Background(), page, defaults, opts...)
}

// ResolveContext layers defaults, host element attributes and URL query
// parameters into both option records. Query parameters only affect the
// tracer record. Activity hook failures are logged and never returned.
func ResolveContext(ctx context.Context, page Page, defaults Defaults, opts ...Option) (*Resolution, error) {
	cfg := applyOptions(opts)
	log := cfg.logOrNop()
	id := uuid.NewString()
	log = log.With().Str("pass_id", id).Logger()

	result := &Resolution{ID: id}
	resolver := browser.NewResolver(
		browser.WithLogger(log),
		browser.WithObserver(func(a browser.Assignment) {
			result.Assignments = append(result.Assignments, a)
		}),
	)

	result.Host = browser.LocateHostElement(page.Document)
	var (
		elementTracer    browser.TracerOptions
		elementEmbedding browser.EmbeddingOptions
		queryTracer      browser.TracerOptions
	)
	resolver.ParseElementOptions(&elementTracer, &elementEmbedding, result.Host)
	result.Query = resolver.ParseQueryString(&queryTracer, page.Href)

	defaultsScope := LevelScope(layering.LevelDefaults, WithScopeLabel("Defaults"))
	elementScope := LevelScope(layering.LevelElement, WithScopeLabel("Host Element"), WithScopeMetadata(hostMetadata(result.Host)))
	queryScope := LevelScope(layering.LevelQuery, WithScopeLabel("URL Parameters"), WithScopeMetadata(queryMetadata(page.Href)))

	tracerStack, err := NewStack(
		NewLayer(queryScope, queryTracer, WithSnapshotID[browser.TracerOptions](id)),
		NewLayer(elementScope, elementTracer, WithSnapshotID[browser.TracerOptions](id)),
		NewLayer(defaultsScope, defaults.Tracer, WithSnapshotID[browser.TracerOptions](id)),
	)
	if err != nil {
		return nil, err
	}
	if result.Tracer, err = tracerStack.Merge(opts...); err != nil {
		return nil, err
	}

	embeddingStack, err := NewStack(
		NewLayer(elementScope, elementEmbedding, WithSnapshotID[browser.EmbeddingOptions](id)),
		NewLayer(defaultsScope, defaults.Embedding, WithSnapshotID[browser.EmbeddingOptions](id)),
	)
	if err != nil {
		return nil, err
	}
	if result.Embedding, err = embeddingStack.Merge(opts...); err != nil {
		return nil, err
	}

	log.Debug().
		Bool("host_found", result.Host != nil).
		Int("assignments", len(result.Assignments)).
		Strs("tracer_keys", result.Tracer.Value.Keys()).
		Strs("embedding_keys", result.Embedding.Value.Keys()).
		Msg("resolved options")

	emitter := activity.NewEmitter(cfg.activityHooks, activity.Config{Enabled: true})
	if emitter.Enabled() {
		if err := emitter.EmitAll(ctx, result.events(time.Now().UTC())); err != nil {
			log.Warn().Err(err).Msg("activity hooks failed")
		}
	}
	return result, nil
}

// ApplyInPlace overlays the host element and URL query onto records the
// caller already holds, in precedence order. It records no provenance.
func ApplyInPlace(page Page, tracer *browser.TracerOptions, embedding *browser.EmbeddingOptions) {
	host := browser.LocateHostElement(page.Document)
	browser.ParseElementOptions(tracer, embedding, host)
	browser.ParseQueryOptions(tracer, browser.ParseQuery(page.Href))
}

func (r *Resolution) events(now time.Time) []activity.Event {
	var events []activity.Event
	events = append(events, layerEvents(RecordTracer, r.Tracer.layers, now)...)
	events = append(events, layerEvents(RecordEmbedding, r.Embedding.layers, now)...)

	keys := append(r.Tracer.Value.Keys(), r.Embedding.Value.Keys()...)
	events = append(events, activity.BuildResolvedEvent(activity.ResolutionEventInput{
		Keys:       keys,
		Scope:      activity.ScopeContext{SnapshotID: r.ID},
		Metadata:   map[string]any{"host_found": r.Host != nil},
		OccurredAt: now,
	}))
	return events
}

// layerEvents walks layers weakest first so key events replay in the order
// values were applied.
func layerEvents(record string, layers []layerSnapshot, now time.Time) []activity.Event {
	var events []activity.Event
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if len(layer.Values) == 0 {
			continue
		}
		scope := scopeContext(layer.Scope, layer.SnapshotID)
		keys := sortedMapKeys(layer.Values)
		for _, key := range keys {
			events = append(events, activity.BuildKeyAppliedEvent(activity.ResolutionEventInput{
				Record:     record,
				Key:        key,
				Value:      layer.Values[key],
				Scope:      scope,
				OccurredAt: now,
			}))
		}
		events = append(events, activity.BuildLayerAppliedEvent(activity.ResolutionEventInput{
			Record:     record,
			Keys:       keys,
			Scope:      scope,
			OccurredAt: now,
		}))
	}
	return events
}

func hostMetadata(host *browser.Element) map[string]any {
	if host == nil {
		return nil
	}
	if src, ok := host.Attr("src"); ok && src != "" {
		return map[string]any{"src": src}
	}
	return nil
}

func queryMetadata(href string) map[string]any {
	if href == "" {
		return nil
	}
	return map[string]any{"href": href}
}
