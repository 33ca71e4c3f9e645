package browser

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// QueryValue is a decoded query parameter value. Set is false for segments
// that carry no "=" at all, which are present but unusable.
type QueryValue struct {
	Value string
	Set   bool
}

// Truthy reports whether the value would enable a flag: it must be set and
// non-empty.
func (v QueryValue) Truthy() bool {
	return v.Set && v.Value != ""
}

// QueryParams maps decoded parameter names to decoded values.
type QueryParams map[string]QueryValue

// Get returns the value for name and whether the name appeared at all.
func (p QueryParams) Get(name string) (QueryValue, bool) {
	value, ok := p[name]
	return value, ok
}

// ParseQuery extracts the query parameters of href.
//
// Only the first literal "+" in the whole query string is turned into a
// space; later ones are kept as "+". Segments whose name or value fail to
// decode are dropped without affecting the others.
func ParseQuery(href string) QueryParams {
	params, _ := parseQuery(href)
	return params
}

// parseQuery also returns the raw segments that were dropped.
func parseQuery(href string) (QueryParams, []string) {
	params := QueryParams{}
	qi := strings.IndexByte(href, '?')
	if qi < 0 {
		return params, nil
	}
	query := href[qi+1:]
	if hi := strings.IndexByte(query, '#'); hi >= 0 {
		query = query[:hi]
	}
	if query == "" {
		return params, nil
	}
	query = strings.Replace(query, "+", "%20", 1)

	var dropped []string
	for _, segment := range strings.Split(query, "&") {
		rawName, rawValue, hasValue := strings.Cut(segment, "=")
		name, ok := decodeComponent(rawName)
		if !ok {
			dropped = append(dropped, segment)
			continue
		}
		value := QueryValue{}
		if hasValue {
			decoded, ok := decodeComponent(rawValue)
			if !ok {
				dropped = append(dropped, segment)
				continue
			}
			value = QueryValue{Value: decoded, Set: true}
		}
		params[name] = value
	}
	return params, dropped
}

// decodeComponent percent-decodes s without treating "+" as a space and
// rejects byte sequences that are not valid UTF-8.
func decodeComponent(s string) (string, bool) {
	decoded, err := url.PathUnescape(s)
	if err != nil || !utf8.ValidString(decoded) {
		return "", false
	}
	return decoded, true
}
