// Package activity turns configuration resolution into auditable events.
//
// A resolution pass emits one options.key.applied event per key a source
// wrote, one options.layer.applied event per source that wrote anything and
// a closing options.resolved event. Hooks receive normalized events; the
// usersink subpackage forwards them to a go-users activity sink.
package activity
