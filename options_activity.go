package opts

import "github.com/goliatone/go-embed-options/pkg/activity"

// WithActivityHooks attaches activity hooks notified after each resolution
// pass. Nil entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *optionsConfig) {
		cfg.activityHooks = normalized
	}
}

// ActivityHooks returns a copy of the hooks configured on the wrapper.
func (o *Options[T]) ActivityHooks() activity.Hooks {
	if o == nil {
		return nil
	}
	return cloneActivityHooks(o.cfg.activityHooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	var normalized activity.Hooks
	for _, hook := range hooks {
		if hook != nil {
			normalized = append(normalized, hook)
		}
	}
	return normalized
}

func scopeContext(scope Scope, snapshotID string) activity.ScopeContext {
	return activity.ScopeContext{
		Name:       scope.Name,
		Label:      scope.Label,
		Priority:   scope.Priority,
		Metadata:   copyMetadata(scope.Metadata),
		SnapshotID: snapshotID,
	}
}
