package opts

import (
	"context"
	"testing"

	"github.com/goliatone/go-embed-options/browser"
	"github.com/goliatone/go-embed-options/pkg/activity"
)

func TestWithActivityHooksClonesAndFiltersNil(t *testing.T) {
	hook := activity.HookFunc(func(context.Context, activity.Event) error { return nil })

	opts := New(browser.TracerOptions{Debug: browser.Bool(true)}, WithActivityHooks(activity.Hooks{nil, hook}))
	hooks := opts.ActivityHooks()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	hooks[0] = nil
	again := opts.ActivityHooks()
	if len(again) != 1 || again[0] == nil {
		t.Fatalf("expected cloned hooks unaffected by mutation, got %+v", again)
	}

	value, err := opts.Get(browser.KeyDebug)
	if err != nil || value != true {
		t.Fatalf("expected Get unaffected, got value=%v err=%v", value, err)
	}
}

func TestActivityHooksDefaultNil(t *testing.T) {
	opts := New(browser.TracerOptions{})
	if hooks := opts.ActivityHooks(); hooks != nil {
		t.Fatalf("expected nil hooks by default, got %+v", hooks)
	}
}

func TestActivityHooksSurviveResolve(t *testing.T) {
	hook := activity.HookFunc(func(context.Context, activity.Event) error { return nil })
	res, err := Resolve(Page{}, Defaults{}, WithActivityHooks(activity.Hooks{hook}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.Tracer.ActivityHooks()) != 1 || len(res.Embedding.ActivityHooks()) != 1 {
		t.Fatalf("expected hooks to persist through resolve")
	}
}

func TestResolveWithoutLayersEmitsOnlyResolved(t *testing.T) {
	capture := &activity.CaptureHook{}
	if _, err := Resolve(Page{}, Defaults{}, WithActivityHooks(activity.Hooks{capture})); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	verbs := capture.Verbs()
	if len(verbs) != 1 || verbs[0] != activity.VerbResolved {
		t.Fatalf("expected a single resolved event, got %v", verbs)
	}
}
