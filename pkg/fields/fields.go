package fields

import (
	"reflect"
	"strings"
)

const tagName = "json"

// Lookup returns the value of the property called name on target.
// Pointers are dereferenced; a nil pointer has no properties.
func Lookup(target any, name string) (any, bool) {
	rv, ok := indirect(reflect.ValueOf(target))
	if !ok {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		f, ok := structField(rv, name)
		if !ok {
			return nil, false
		}
		return f.Interface(), true
	default:
		return nil, false
	}
}

// TypeOf returns the declared type of the property called name. For maps it
// is the dynamic type of the stored value, which is nil for a nil entry.
func TypeOf(target any, name string) (reflect.Type, bool) {
	rv, ok := indirect(reflect.ValueOf(target))
	if !ok {
		return nil, false
	}
	if rv.Kind() == reflect.Struct {
		f, ok := structField(rv, name)
		if !ok {
			return nil, false
		}
		return f.Type(), true
	}
	v, ok := Lookup(target, name)
	if !ok {
		return nil, false
	}
	return reflect.TypeOf(v), true
}

// Names lists the property names of target in declaration order; map keys
// are returned unordered.
func Names(target any) []string {
	rv, ok := indirect(reflect.ValueOf(target))
	if !ok {
		return nil
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		names := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			names = append(names, k.String())
		}
		return names
	case reflect.Struct:
		return structNames(rv.Type(), nil)
	default:
		return nil
	}
}

func indirect(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	rt := rv.Type()
	var embedded []int

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Anonymous && tagged(sf) == "" {
			embedded = append(embedded, i)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		key, skip := fieldName(sf)
		if skip {
			continue
		}
		if key == name {
			return rv.Field(i), true
		}
	}

	for _, i := range embedded {
		inner, ok := indirect(rv.Field(i))
		if !ok || inner.Kind() != reflect.Struct {
			continue
		}
		if f, ok := structField(inner, name); ok {
			return f, true
		}
	}
	return reflect.Value{}, false
}

func structNames(rt reflect.Type, out []string) []string {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Anonymous && tagged(sf) == "" {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				out = structNames(et, out)
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if key, skip := fieldName(sf); !skip {
			out = append(out, key)
		}
	}
	return out
}

func tagged(sf reflect.StructField) string {
	tag, _, _ := strings.Cut(sf.Tag.Get(tagName), ",")
	return tag
}

func fieldName(sf reflect.StructField) (string, bool) {
	tag := tagged(sf)
	switch tag {
	case "-":
		return "", true
	case "":
		return sf.Name, false
	default:
		return tag, false
	}
}
