package activity

import (
	"strings"
	"time"
)

// Verbs and object types emitted while resolving configuration.
const (
	VerbKeyApplied   = "options.key.applied"
	VerbLayerApplied = "options.layer.applied"
	VerbResolved     = "options.resolved"

	ObjectKey     = "options.key"
	ObjectLayer   = "options.layer"
	ObjectOptions = "options"
)

// ScopeContext captures the configuration source an event relates to.
type ScopeContext struct {
	Name       string
	Label      string
	Priority   int
	Metadata   map[string]any
	SnapshotID string
}

// ResolutionEventInput describes the common fields of resolution events.
type ResolutionEventInput struct {
	ActorID    string
	TenantID   string
	Channel    string
	Record     string
	Key        string
	Value      any
	Keys       []string
	Scope      ScopeContext
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildKeyAppliedEvent describes one key written by a configuration source.
func BuildKeyAppliedEvent(input ResolutionEventInput) Event {
	event := buildResolutionEvent(VerbKeyApplied, ObjectKey, input)
	event.ObjectID = firstNonEmpty(input.Key, event.ObjectID)
	return event
}

// BuildLayerAppliedEvent describes a configuration source that contributed
// at least one key.
func BuildLayerAppliedEvent(input ResolutionEventInput) Event {
	event := buildResolutionEvent(VerbLayerApplied, ObjectLayer, input)
	event.ObjectID = firstNonEmpty(input.Scope.Name, event.ObjectID)
	return event
}

// BuildResolvedEvent marks the end of a resolution pass.
func BuildResolvedEvent(input ResolutionEventInput) Event {
	return buildResolutionEvent(VerbResolved, ObjectOptions, input)
}

func buildResolutionEvent(verb, objectType string, input ResolutionEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.Record != "" {
		set("record", input.Record)
	}
	if input.Key != "" {
		set("key", input.Key)
		set("value", input.Value)
	}
	if len(input.Keys) > 0 {
		set("keys", append([]string{}, input.Keys...))
	}
	if input.Scope.Name != "" {
		set("scope_name", input.Scope.Name)
		set("scope_priority", input.Scope.Priority)
		if input.Scope.Label != "" {
			set("scope_label", input.Scope.Label)
		}
		if len(input.Scope.Metadata) > 0 {
			set("scope_metadata", cloneMap(input.Scope.Metadata))
		}
	}
	if input.Scope.SnapshotID != "" {
		set("snapshot_id", input.Scope.SnapshotID)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   firstNonEmpty(input.Scope.SnapshotID, objectType),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}
