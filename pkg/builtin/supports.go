package builtin

import "reflect"

func elem(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// kinds builds a supports predicate accepting the given kinds, through
// pointers. Untyped nil is accepted so the rule can let it pass.
func kinds(ks ...reflect.Kind) func(reflect.Type) bool {
	return func(t reflect.Type) bool {
		t = elem(t)
		if t == nil || t.Kind() == reflect.Interface {
			return true
		}
		for _, k := range ks {
			if t.Kind() == k {
				return true
			}
		}
		return false
	}
}

var (
	stringsOnly = kinds(reflect.String)
	lengthy     = kinds(reflect.String, reflect.Slice, reflect.Array, reflect.Map)
	numeric     = kinds(
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
	)
)
