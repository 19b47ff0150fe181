// Package convert holds loose coercions between the dynamic value shapes
// produced by YAML plan documents and JSON API responses.
package convert

import (
	"fmt"
	"reflect"
	"strconv"
)

var (
	errNotMap        = fmt.Errorf("input data is not a map")
	errNotSlice      = fmt.Errorf("input data is not a slice")
	errNotMapElement = fmt.Errorf("slice element is not a map")
	errNotInteger    = fmt.Errorf("value is not an integer")
)

// ToStringMap converts map[string]any or map[string]string to map[string]string,
// rendering non-string values with fmt. Returns a nil map for nil input.
func ToStringMap(data any) (map[string]string, error) {
	if data == nil {
		return nil, nil
	}
	if m, ok := data.(map[string]string); ok {
		return m, nil
	}
	if mAny, ok := data.(map[string]any); ok {
		result := make(map[string]string, len(mAny))
		for k, v := range mAny {
			result[k] = fmt.Sprintf("%v", v)
		}
		return result, nil
	}
	return nil, fmt.Errorf("%w: input type %T", errNotMap, data)
}

// ToAnyMap converts map-shaped values (including map[any]any from YAML) to
// map[string]any.
func ToAnyMap(data any) (map[string]any, error) {
	if data == nil {
		return nil, nil
	}
	switch m := data.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		result := make(map[string]any, len(m))
		for k, v := range m {
			result[fmt.Sprintf("%v", k)] = v
		}
		return result, nil
	}
	return nil, fmt.Errorf("%w: input type %T", errNotMap, data)
}

// ToStringSlice converts slice types to []string, rendering elements with fmt.
// Returns an empty slice for nil input.
func ToStringSlice(data any) ([]string, error) {
	if data == nil {
		return []string{}, nil
	}
	if slice, ok := data.([]string); ok {
		return slice, nil
	}
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: input type %T", errNotSlice, data)
	}
	result := make([]string, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		result = append(result, fmt.Sprintf("%v", val.Index(i).Interface()))
	}
	return result, nil
}

// ToAnySlice converts any slice type to []any.
func ToAnySlice(data any) ([]any, error) {
	if data == nil {
		return []any{}, nil
	}
	if slice, ok := data.([]any); ok {
		return slice, nil
	}
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: input type %T", errNotSlice, data)
	}
	result := make([]any, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		result = append(result, val.Index(i).Interface())
	}
	return result, nil
}

// ToMapSlice converts slice types ([]map[string]any, []any) to []map[string]any.
func ToMapSlice(data any) ([]map[string]any, error) {
	if data == nil {
		return []map[string]any{}, nil
	}
	if sliceMap, ok := data.([]map[string]any); ok {
		return sliceMap, nil
	}
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: input type %T", errNotSlice, data)
	}
	result := make([]map[string]any, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		item := val.Index(i).Interface()
		m, err := ToAnyMap(item)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w (type %T)", i, errNotMapElement, item)
		}
		result = append(result, m)
	}
	return result, nil
}

// ToInt64 converts the numeric shapes seen on the wire (int, int64, float64,
// json.Number-style strings) to int64.
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("%w: %v", errNotInteger, v)
		}
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotInteger, n)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("%w: type %T", errNotInteger, v)
}

// ToBool accepts real booleans and the textual boolean spellings ZFS property
// rawvalues use ("on"/"off"/"true"/"false"/"1"/"0").
func ToBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch b {
		case "true", "on", "1", "yes":
			return true, nil
		case "false", "off", "0", "no":
			return false, nil
		}
	}
	return false, fmt.Errorf("value %v (type %T) is not a boolean", v, v)
}
