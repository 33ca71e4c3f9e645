package layering

import (
	"reflect"
	"strings"
)

// Overlay copies every non-nil pointer field of src onto dst. dst must be a
// non-nil pointer to a struct and src a struct or pointer to the same struct
// type. Nil fields in src never clear dst. It reports the JSON names of the
// fields it wrote.
func Overlay(dst, src any) []string {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.IsNil() || dv.Elem().Kind() != reflect.Struct {
		return nil
	}
	target := dv.Elem()
	source := indirect(reflect.ValueOf(src))
	if !source.IsValid() || source.Type() != target.Type() {
		return nil
	}

	var written []string
	for i := 0; i < source.NumField(); i++ {
		field := source.Field(i)
		if field.Kind() != reflect.Pointer || field.IsNil() || !target.Field(i).CanSet() {
			continue
		}
		target.Field(i).Set(clonePointer(field))
		written = append(written, fieldName(source.Type().Field(i)))
	}
	return written
}

// MergeLayers composes snapshots ordered from strongest to weakest. Each set
// pointer field comes from the strongest layer that sets it; other fields are
// not merged.
func MergeLayers[T any](layers ...T) T {
	var merged T
	for i := len(layers) - 1; i >= 0; i-- {
		Overlay(&merged, layers[i])
	}
	return merged
}

// Clone returns a copy of v whose pointer fields no longer alias v's.
func Clone[T any](v T) T {
	out := v
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if field.Kind() == reflect.Pointer && !field.IsNil() && field.CanSet() {
			field.Set(clonePointer(field))
		}
	}
	return out
}

// FieldValues returns the set pointer fields of v keyed by JSON name.
func FieldValues(v any) map[string]any {
	out := map[string]any{}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if field.Kind() != reflect.Pointer || field.IsNil() || !rv.Type().Field(i).IsExported() {
			continue
		}
		out[fieldName(rv.Type().Field(i))] = field.Elem().Interface()
	}
	return out
}

// FieldNames lists every JSON name carried by struct type T, set or not.
func FieldNames[T any]() []string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil
	}
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			names = append(names, fieldName(t.Field(i)))
		}
	}
	return names
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func clonePointer(v reflect.Value) reflect.Value {
	clone := reflect.New(v.Type().Elem())
	clone.Elem().Set(v.Elem())
	return clone
}

func fieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
