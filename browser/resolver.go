package browser

import (
	"github.com/rs/zerolog"
)

// Source identifies where an assigned value came from.
type Source string

const (
	SourceElement Source = "element"
	SourceQuery   Source = "query"
)

// QueryPrefix namespaces URL parameters so they do not collide with the host
// application's own parameters.
const QueryPrefix = "lightstep_"

// Query parameter names understood by ParseQueryOptions.
const (
	QueryDebug        = QueryPrefix + KeyDebug
	QueryVerbose      = QueryPrefix + KeyVerbose
	QueryLogToConsole = QueryPrefix + KeyLogToConsole
)

// Assignment describes a single value written into a record.
type Assignment struct {
	Source Source
	Key    string
	Value  any
}

// Observer is told about every assignment a resolver makes.
type Observer func(Assignment)

// Resolver overlays markup attributes and URL parameters onto option records.
// The zero value is not usable; call NewResolver.
type Resolver struct {
	logger    zerolog.Logger
	observers []Observer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used to report skipped and rejected inputs.
func WithLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithObserver registers an observer for assignments.
func WithObserver(observer Observer) ResolverOption {
	return func(r *Resolver) {
		if observer != nil {
			r.observers = append(r.observers, observer)
		}
	}
}

// NewResolver builds a resolver. Without WithLogger it logs nothing.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var defaultResolver = NewResolver()

// ParseElementOptions overlays host's data attributes onto opts and behavior
// using a silent resolver.
func ParseElementOptions(opts *TracerOptions, behavior *EmbeddingOptions, host *Element) {
	defaultResolver.ParseElementOptions(opts, behavior, host)
}

// ParseQueryOptions overlays the prefixed URL parameters onto opts using a
// silent resolver.
func ParseQueryOptions(opts *TracerOptions, params QueryParams) {
	defaultResolver.ParseQueryOptions(opts, params)
}

// ParseElementOptions overlays host's data attributes onto opts and behavior.
// Only present, well-formed values are written; nothing is ever cleared. A
// nil host makes the call a no-op.
func (r *Resolver) ParseElementOptions(opts *TracerOptions, behavior *EmbeddingOptions, host *Element) {
	if host == nil {
		r.logger.Debug().Msg("no host element, skipping attribute options")
		return
	}
	data := host.Dataset()

	if opts != nil {
		if v, ok := data.Get(KeyAccessToken); ok && v != "" {
			opts.AccessToken = String(v)
			r.assigned(SourceElement, KeyAccessToken, v)
		}

		// component_name supersedes the legacy group_name.
		group := data[KeyComponentName]
		if group == "" {
			group = data[KeyGroupName]
		}
		if group != "" {
			opts.GroupName = String(group)
			r.assigned(SourceElement, KeyGroupName, group)
		}

		if v, ok := data.Get(KeyCollectorHost); ok && v != "" {
			opts.CollectorHost = String(v)
			r.assigned(SourceElement, KeyCollectorHost, v)
		}
		if v := data[KeyCollectorPort]; v != "" {
			if port, ok := ParseInt(v); ok {
				opts.CollectorPort = Int(port)
				r.assigned(SourceElement, KeyCollectorPort, port)
			} else {
				r.rejected(SourceElement, KeyCollectorPort, v)
			}
		}
		if v := data[KeyCollectorEncryption]; v != "" {
			opts.CollectorEncryption = String(v)
			r.assigned(SourceElement, KeyCollectorEncryption, v)
		}

		if v, ok := data.Get(KeyEnable); ok {
			if enable, ok := parseStrictBool(v); ok {
				opts.Enable = Bool(enable)
				r.assigned(SourceElement, KeyEnable, enable)
			} else {
				r.rejected(SourceElement, KeyEnable, v)
			}
		}
		if v, ok := data.Get(KeyDebug); ok {
			if v == "true" {
				opts.Debug = Bool(true)
				r.assigned(SourceElement, KeyDebug, true)
			} else {
				r.rejected(SourceElement, KeyDebug, v)
			}
		}
		// verbose is written even when it does not parse.
		if v, ok := data.Get(KeyVerbose); ok {
			level, ok := ParseInt(v)
			if !ok {
				level = NotANumber
			}
			opts.Verbose = Int(level)
			r.assigned(SourceElement, KeyVerbose, level)
		}
	}

	if behavior != nil {
		if v, ok := data.Get(KeyInitGlobalTracer); ok {
			if initTracer, ok := parseStrictBool(v); ok {
				behavior.InitGlobalTracer = Bool(initTracer)
				r.assigned(SourceElement, KeyInitGlobalTracer, initTracer)
			} else {
				r.rejected(SourceElement, KeyInitGlobalTracer, v)
			}
		}
		if v, ok := data.Get(KeyXHRInstrumentation); ok {
			if v == "true" {
				behavior.XHRInstrumentation = Bool(true)
				r.assigned(SourceElement, KeyXHRInstrumentation, true)
			} else {
				r.rejected(SourceElement, KeyXHRInstrumentation, v)
			}
		}
	}
}

// ParseQueryOptions overlays the lightstep_ prefixed parameters onto opts.
// Malformed values are ignored.
func (r *Resolver) ParseQueryOptions(opts *TracerOptions, params QueryParams) {
	if opts == nil || len(params) == 0 {
		return
	}
	if params[QueryDebug].Truthy() {
		opts.Debug = Bool(true)
		r.assigned(SourceQuery, KeyDebug, true)
	}
	if v := params[QueryVerbose]; v.Truthy() {
		if level, ok := ParseInt(v.Value); ok {
			opts.Verbose = Int(level)
			r.assigned(SourceQuery, KeyVerbose, level)
		} else {
			r.rejected(SourceQuery, QueryVerbose, v.Value)
		}
	}
	if params[QueryLogToConsole].Truthy() {
		opts.LogToConsole = Bool(true)
		r.assigned(SourceQuery, KeyLogToConsole, true)
	}
}

// ParseQueryString parses href and overlays its parameters onto opts,
// logging any segment that could not be decoded.
func (r *Resolver) ParseQueryString(opts *TracerOptions, href string) QueryParams {
	params, dropped := parseQuery(href)
	for _, segment := range dropped {
		r.logger.Debug().Str("segment", segment).Msg("dropped malformed query segment")
	}
	r.ParseQueryOptions(opts, params)
	return params
}

func (r *Resolver) assigned(source Source, key string, value any) {
	for _, observe := range r.observers {
		observe(Assignment{Source: source, Key: key, Value: value})
	}
}

func (r *Resolver) rejected(source Source, key, raw string) {
	r.logger.Debug().
		Str("source", string(source)).
		Str("key", key).
		Str("raw", raw).
		Msg("ignored option value")
}
