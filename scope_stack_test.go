package opts

import (
	"errors"
	"testing"

	"github.com/goliatone/go-embed-options/browser"
	"github.com/goliatone/go-embed-options/layering"
)

func TestNewScopeCopiesMetadata(t *testing.T) {
	meta := map[string]any{"src": "/tracer.js"}
	scope := NewScope("element", 200,
		WithScopeLabel("Host Element"),
		WithScopeMetadata(meta),
	)

	meta["src"] = "mutated"

	if got := scope.Metadata["src"]; got != "/tracer.js" {
		t.Fatalf("expected metadata copy to remain '/tracer.js', got %q", got)
	}
	if scope.Label != "Host Element" {
		t.Fatalf("label not set, got %q", scope.Label)
	}
}

func TestLevelScopeUsesLevelPriority(t *testing.T) {
	scope := LevelScope(layering.LevelQuery)
	if scope.Name != "query" || scope.Priority != ScopePriorityQuery {
		t.Fatalf("unexpected query scope %+v", scope)
	}
	if !(ScopePriorityQuery > ScopePriorityElement && ScopePriorityElement > ScopePriorityDefaults) {
		t.Fatalf("priorities out of order: %d %d %d", ScopePriorityDefaults, ScopePriorityElement, ScopePriorityQuery)
	}
}

func TestNewLayerClonesSnapshot(t *testing.T) {
	snapshot := browser.TracerOptions{
		AccessToken:   browser.String("token"),
		CollectorPort: browser.Int(443),
	}

	layer := NewLayer(NewScope("element", 200), snapshot, WithSnapshotID[browser.TracerOptions]("abc-123"))

	*snapshot.AccessToken = "mutated"
	if *layer.Snapshot.AccessToken != "token" {
		t.Fatalf("expected layer snapshot to remain immutable; got %q", *layer.Snapshot.AccessToken)
	}
	*layer.Snapshot.CollectorPort = 80
	if *snapshot.CollectorPort != 443 {
		t.Fatalf("mutating layer snapshot should not affect original, got %d", *snapshot.CollectorPort)
	}
	if layer.SnapshotID != "abc-123" {
		t.Fatalf("snapshot id not set, got %q", layer.SnapshotID)
	}
}

func TestNewStackOrdersAndValidates(t *testing.T) {
	query := NewLayer(LevelScope(layering.LevelQuery), browser.TracerOptions{})
	element := NewLayer(LevelScope(layering.LevelElement), browser.TracerOptions{})
	defaults := NewLayer(LevelScope(layering.LevelDefaults), browser.TracerOptions{})

	stack, err := NewStack(defaults, query, element)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stack.Len() != 3 {
		t.Fatalf("expected 3 layers, got %d", stack.Len())
	}
	layers := stack.Layers()
	wantOrder := []string{"query", "element", "defaults"}
	for i, want := range wantOrder {
		if layers[i].Scope.Name != want {
			t.Fatalf("expected layer %d to be %q, got %q", i, want, layers[i].Scope.Name)
		}
	}

	if _, err := NewStack(query, NewLayer(NewScope("query", 50), browser.TracerOptions{})); !errors.Is(err, ErrDuplicateScopeName) {
		t.Fatalf("expected duplicate scope name error, got %v", err)
	}
	if _, err := NewStack(
		NewLayer(NewScope("alpha", 100), browser.TracerOptions{}),
		NewLayer(NewScope("beta", 100), browser.TracerOptions{}),
	); !errors.Is(err, ErrPriorityOrder) {
		t.Fatalf("expected priority order error, got %v", err)
	}
	if _, err := NewStack(NewLayer(Scope{Priority: 1}, browser.TracerOptions{})); !errors.Is(err, ErrScopeNameRequired) {
		t.Fatalf("expected scope name error, got %v", err)
	}
}

func TestStackMergeAppliesPrecedence(t *testing.T) {
	defaults := NewLayer(LevelScope(layering.LevelDefaults), browser.TracerOptions{
		AccessToken: browser.String("default-token"),
		Verbose:     browser.Int(0),
		Debug:       browser.Bool(false),
	})
	element := NewLayer(LevelScope(layering.LevelElement), browser.TracerOptions{
		AccessToken: browser.String("element-token"),
		Verbose:     browser.Int(2),
	})
	query := NewLayer(LevelScope(layering.LevelQuery), browser.TracerOptions{
		Verbose: browser.Int(4),
	})

	stack, err := NewStack(defaults, query, element)
	if err != nil {
		t.Fatalf("stack validation failed: %v", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if got := *merged.Value.AccessToken; got != "element-token" {
		t.Fatalf("expected element token, got %q", got)
	}
	if got := *merged.Value.Verbose; got != 4 {
		t.Fatalf("expected query verbose 4, got %d", got)
	}
	if merged.Value.Debug == nil || *merged.Value.Debug {
		t.Fatalf("expected defaults debug=false to survive, got %v", merged.Value.Debug)
	}
	if merged.Value.CollectorHost != nil {
		t.Fatalf("collector_host should stay unset, got %q", *merged.Value.CollectorHost)
	}
}

func TestStackMergeEmpty(t *testing.T) {
	stack, err := NewStack[browser.TracerOptions]()
	if err != nil {
		t.Fatalf("empty stack: %v", err)
	}
	if _, err := stack.Merge(); !errors.Is(err, ErrEmptyStack) {
		t.Fatalf("expected ErrEmptyStack, got %v", err)
	}
}

func TestDefaultsElementQuery(t *testing.T) {
	merged, err := DefaultsElementQuery(
		browser.EmbeddingOptions{InitGlobalTracer: browser.Bool(true)},
		browser.EmbeddingOptions{InitGlobalTracer: browser.Bool(false), XHRInstrumentation: browser.Bool(true)},
		browser.EmbeddingOptions{},
	)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if *merged.Value.InitGlobalTracer {
		t.Fatalf("expected element to override init_global_tracer")
	}
	if !*merged.Value.XHRInstrumentation {
		t.Fatalf("expected xhr_instrumentation from element")
	}
}

func TestOptionsGet(t *testing.T) {
	opts := New(browser.TracerOptions{GroupName: browser.String("checkout")})

	value, err := opts.Get(browser.KeyGroupName)
	if err != nil || value != "checkout" {
		t.Fatalf("expected checkout, got %v err=%v", value, err)
	}
	value, err = opts.Get(browser.KeyCollectorHost)
	if err != nil || value != nil {
		t.Fatalf("expected unset key to return nil, got %v err=%v", value, err)
	}
	if _, err := opts.Get("collector"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestLayerWithPrefersSuppliedLayers(t *testing.T) {
	base := New(browser.TracerOptions{
		AccessToken: browser.String("base"),
		Enable:      browser.Bool(true),
	})
	layered := base.LayerWith(browser.TracerOptions{AccessToken: browser.String("override")})

	if *layered.Value.AccessToken != "override" {
		t.Fatalf("expected override token, got %q", *layered.Value.AccessToken)
	}
	if !*layered.Value.Enable {
		t.Fatalf("expected enable from base")
	}
	if *base.Value.AccessToken != "base" {
		t.Fatalf("base wrapper must not change, got %q", *base.Value.AccessToken)
	}
}

func TestStackLayerLookup(t *testing.T) {
	stack, err := NewStack(
		NewLayer(LevelScope(layering.LevelElement), browser.TracerOptions{Enable: browser.Bool(false)}),
		NewLayer(LevelScope(layering.LevelDefaults), browser.TracerOptions{Enable: browser.Bool(true)}),
	)
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	layer, ok := stack.Layer("element")
	if !ok || *layer.Snapshot.Enable {
		t.Fatalf("expected element layer with enable=false, got %+v ok=%v", layer, ok)
	}
	if layer.Scope.Level() != layering.LevelElement {
		t.Fatalf("expected element level, got %v", layer.Scope.Level())
	}
	*layer.Snapshot.Enable = true
	again, _ := stack.Layer("element")
	if *again.Snapshot.Enable {
		t.Fatalf("Layer must return copies")
	}
	if _, ok := stack.Layer("query"); ok {
		t.Fatalf("query layer should be absent")
	}
	if NewScope("custom", 5).Level() != layering.LevelUnknown {
		t.Fatalf("custom scopes have no standard level")
	}
}
