package browser

import "sort"

// TracerOptions configures the tracing library itself. A nil field is unset
// and falls through to weaker configuration sources.
type TracerOptions struct {
	AccessToken         *string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	GroupName           *string `json:"group_name,omitempty" yaml:"group_name,omitempty"`
	CollectorHost       *string `json:"collector_host,omitempty" yaml:"collector_host,omitempty"`
	CollectorPort       *int    `json:"collector_port,omitempty" yaml:"collector_port,omitempty"`
	CollectorEncryption *string `json:"collector_encryption,omitempty" yaml:"collector_encryption,omitempty"`
	Enable              *bool   `json:"enable,omitempty" yaml:"enable,omitempty"`
	Debug               *bool   `json:"debug,omitempty" yaml:"debug,omitempty"`
	Verbose             *int    `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	LogToConsole        *bool   `json:"log_to_console,omitempty" yaml:"log_to_console,omitempty"`
}

// EmbeddingOptions configures how the library integrates with its host page.
type EmbeddingOptions struct {
	InitGlobalTracer   *bool `json:"init_global_tracer,omitempty" yaml:"init_global_tracer,omitempty"`
	XHRInstrumentation *bool `json:"xhr_instrumentation,omitempty" yaml:"xhr_instrumentation,omitempty"`
}

// Option keys as they appear in markup, URLs and defaults objects.
const (
	KeyAccessToken         = "access_token"
	KeyComponentName       = "component_name"
	KeyGroupName           = "group_name"
	KeyCollectorHost       = "collector_host"
	KeyCollectorPort       = "collector_port"
	KeyCollectorEncryption = "collector_encryption"
	KeyEnable              = "enable"
	KeyDebug               = "debug"
	KeyVerbose             = "verbose"
	KeyLogToConsole        = "log_to_console"
	KeyInitGlobalTracer    = "init_global_tracer"
	KeyXHRInstrumentation  = "xhr_instrumentation"
)

// Values returns the set fields keyed by option name.
func (o *TracerOptions) Values() map[string]any {
	out := map[string]any{}
	if o == nil {
		return out
	}
	putString(out, KeyAccessToken, o.AccessToken)
	putString(out, KeyGroupName, o.GroupName)
	putString(out, KeyCollectorHost, o.CollectorHost)
	putInt(out, KeyCollectorPort, o.CollectorPort)
	putString(out, KeyCollectorEncryption, o.CollectorEncryption)
	putBool(out, KeyEnable, o.Enable)
	putBool(out, KeyDebug, o.Debug)
	putInt(out, KeyVerbose, o.Verbose)
	putBool(out, KeyLogToConsole, o.LogToConsole)
	return out
}

// Keys returns the names of the set fields, sorted.
func (o *TracerOptions) Keys() []string {
	return sortedKeys(o.Values())
}

// IsSet reports whether the named option has a value.
func (o *TracerOptions) IsSet(key string) bool {
	_, ok := o.Values()[key]
	return ok
}

// Values returns the set fields keyed by option name.
func (o *EmbeddingOptions) Values() map[string]any {
	out := map[string]any{}
	if o == nil {
		return out
	}
	putBool(out, KeyInitGlobalTracer, o.InitGlobalTracer)
	putBool(out, KeyXHRInstrumentation, o.XHRInstrumentation)
	return out
}

// Keys returns the names of the set fields, sorted.
func (o *EmbeddingOptions) Keys() []string {
	return sortedKeys(o.Values())
}

// IsSet reports whether the named option has a value.
func (o *EmbeddingOptions) IsSet(key string) bool {
	_, ok := o.Values()[key]
	return ok
}

// String, Int and Bool return pointers to copies of their argument.
func String(v string) *string { return &v }
func Int(v int) *int          { return &v }
func Bool(v bool) *bool       { return &v }

func putString(out map[string]any, key string, v *string) {
	if v != nil {
		out[key] = *v
	}
}

func putInt(out map[string]any, key string, v *int) {
	if v != nil {
		out[key] = *v
	}
}

func putBool(out map[string]any, key string, v *bool) {
	if v != nil {
		out[key] = *v
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
