package builtin

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// toInt converts the numeric parameter shapes produced by YAML, JSON and Go code.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return int(reflect.ValueOf(n).Convert(reflect.TypeFor[int64]()).Int()), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %v is not a whole number", ErrInvalidParam, n)
		}
		return int(n), nil
	case float32:
		return toInt(float64(n))
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidParam, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: expected a number, got %T", ErrInvalidParam, v)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func toStrings(v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		return s, nil
	case []any:
		out := make([]string, len(s))
		for i, item := range s {
			out[i] = fmt.Sprint(item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidParam, v)
	}
}

func toBounds(v any) (lo, hi float64, err error) {
	var items []any
	switch b := v.(type) {
	case [2]float64:
		lo, hi = b[0], b[1]
	case []float64:
		items = make([]any, len(b))
		for i := range b {
			items[i] = b[i]
		}
	case []int:
		items = make([]any, len(b))
		for i := range b {
			items[i] = b[i]
		}
	case []any:
		items = b
	default:
		return 0, 0, fmt.Errorf("%w: expected [min, max], got %T", ErrInvalidParam, v)
	}

	if items != nil {
		if len(items) != 2 {
			return 0, 0, fmt.Errorf("%w: expected [min, max], got %d items", ErrInvalidParam, len(items))
		}
		var ok1, ok2 bool
		lo, ok1 = toFloat(items[0])
		hi, ok2 = toFloat(items[1])
		if !ok1 || !ok2 {
			return 0, 0, fmt.Errorf("%w: range bounds must be numbers", ErrInvalidParam)
		}
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("%w: min %v is greater than max %v", ErrInvalidParam, lo, hi)
	}
	return lo, hi, nil
}

// toOptions reads a map parameter such as {table: users, column: email}.
// A plain string is taken as the value of key.
func toOptions(v any, key string) (map[string]string, error) {
	switch o := v.(type) {
	case nil:
		return map[string]string{}, nil
	case string:
		return map[string]string{key: o}, nil
	case map[string]string:
		return o, nil
	case map[string]any:
		out := make(map[string]string, len(o))
		for k, val := range o {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: option %q must be a string, got %T", ErrInvalidParam, k, val)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected options map, got %T", ErrInvalidParam, v)
	}
}

// isEmpty reports whether v carries no value worth checking.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isEmpty(rv.Elem().Interface())
	case reflect.Slice, reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	}
	return false
}

// deref unwraps pointers so predicates see the underlying value.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
