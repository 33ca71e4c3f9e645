package opts

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-embed-options/browser"
	"github.com/goliatone/go-embed-options/layering"
)

func tracedStack(t *testing.T) *Options[browser.TracerOptions] {
	t.Helper()
	defaults := NewLayer(LevelScope(layering.LevelDefaults), browser.TracerOptions{
		CollectorHost: browser.String("collector.example.com"),
		Verbose:       browser.Int(0),
	}, WithSnapshotID[browser.TracerOptions]("pass-1"))
	element := NewLayer(LevelScope(layering.LevelElement), browser.TracerOptions{
		CollectorHost: browser.String("localhost"),
		Verbose:       browser.Int(1),
	}, WithSnapshotID[browser.TracerOptions]("pass-1"))
	query := NewLayer(LevelScope(layering.LevelQuery), browser.TracerOptions{
		Verbose: browser.Int(3),
	}, WithSnapshotID[browser.TracerOptions]("pass-1"))

	stack, err := NewStack(defaults, element, query)
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	opts, err := stack.Merge()
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	return opts
}

func TestResolveWithTraceReturnsLayerProvenance(t *testing.T) {
	opts := tracedStack(t)

	value, trace, err := opts.ResolveWithTrace(browser.KeyCollectorHost)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if value != "localhost" {
		t.Fatalf("expected element override, got %v", value)
	}
	if len(trace.Layers) != 3 {
		t.Fatalf("expected 3 provenance entries, got %d", len(trace.Layers))
	}
	if trace.Layers[0].Scope.Name != "query" || trace.Layers[0].Found {
		t.Fatalf("expected query layer first and not found, got %+v", trace.Layers[0])
	}
	if !trace.Layers[1].Found || trace.Layers[1].Scope.Name != "element" {
		t.Fatalf("expected element layer found, got %+v", trace.Layers[1])
	}
	if !trace.Layers[2].Found || trace.Layers[2].Value != "collector.example.com" {
		t.Fatalf("expected defaults layer to provide fallback value, got %+v", trace.Layers[2])
	}
	if trace.Layers[2].SnapshotID != "pass-1" {
		t.Fatalf("expected snapshot id, got %q", trace.Layers[2].SnapshotID)
	}
}

func TestResolveWithTraceUnknownKey(t *testing.T) {
	opts := tracedStack(t)
	if _, _, err := opts.ResolveWithTrace("lightstep_verbose"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestResolveWithTraceWithoutStack(t *testing.T) {
	opts := New(browser.EmbeddingOptions{InitGlobalTracer: browser.Bool(true)})
	value, trace, err := opts.ResolveWithTrace(browser.KeyInitGlobalTracer)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if value != true {
		t.Fatalf("expected true, got %v", value)
	}
	if len(trace.Layers) != 1 || !trace.Layers[0].Found || trace.Layers[0].Scope.Name != "snapshot" {
		t.Fatalf("expected single synthetic layer, got %+v", trace.Layers)
	}
}

func TestFlattenWithProvenanceAttributesStrongestLayer(t *testing.T) {
	opts := tracedStack(t)

	results, err := opts.FlattenWithProvenance()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 set keys, got %+v", results)
	}
	want := map[string]string{
		browser.KeyCollectorHost: "element",
		browser.KeyVerbose:       "query",
	}
	for _, prov := range results {
		if !prov.Found || prov.Scope.Name != want[prov.Path] {
			t.Fatalf("%s attributed to %q, want %q", prov.Path, prov.Scope.Name, want[prov.Path])
		}
	}
	if results[0].Path != browser.KeyCollectorHost {
		t.Fatalf("expected results sorted by key, got %+v", results)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	trace := Trace{
		Path: browser.KeyDebug,
		Layers: []Provenance{{
			Scope: Scope{Name: "query", Priority: ScopePriorityQuery},
			Path:  browser.KeyDebug,
			Value: true,
			Found: true,
		}},
	}
	raw, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("expected valid json, got %s", raw)
	}
	restore, err := TraceFromJSON(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restore.Path != trace.Path || len(restore.Layers) != 1 || restore.Layers[0].Scope.Priority != ScopePriorityQuery {
		t.Fatalf("round trip mismatch: %+v vs %+v", restore, trace)
	}
}
