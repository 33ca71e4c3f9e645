package browser

import (
	"reflect"
	"testing"
)

func TestRecordKeys(t *testing.T) {
	opts := TracerOptions{
		Verbose:     Int(0),
		AccessToken: String("tok"),
		Debug:       Bool(false),
	}
	want := []string{KeyAccessToken, KeyDebug, KeyVerbose}
	if got := opts.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if !opts.IsSet(KeyDebug) || opts.IsSet(KeyEnable) {
		t.Fatalf("IsSet mismatch for %+v", opts.Values())
	}
	if opts.Values()[KeyVerbose] != 0 {
		t.Fatalf("expected verbose 0 to count as set")
	}

	var behavior EmbeddingOptions
	if len(behavior.Keys()) != 0 || behavior.IsSet(KeyInitGlobalTracer) {
		t.Fatalf("zero record should have no keys")
	}
	behavior.XHRInstrumentation = Bool(true)
	if !behavior.IsSet(KeyXHRInstrumentation) {
		t.Fatalf("expected xhr_instrumentation set")
	}
}

func TestNilRecordValues(t *testing.T) {
	var opts *TracerOptions
	if len(opts.Values()) != 0 || opts.IsSet(KeyAccessToken) {
		t.Fatalf("nil record should report nothing set")
	}
}
