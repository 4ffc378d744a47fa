package journey

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Params is the read-only key/value map shared by every journey and step of a
// run. Values are deep-copied on construction and composite values are
// deep-copied again on read, so a step can never mutate what another step sees.
type Params struct {
	values map[string]interface{}
}

// NewParams freezes a copy of the supplied map.
func NewParams(values map[string]interface{}) Params {
	frozen := make(map[string]interface{}, len(values))
	for k, v := range values {
		frozen[k] = deepCopy(v)
	}
	return Params{values: frozen}
}

// Get returns a copy of the value stored under key.
func (p Params) Get(key string) (interface{}, bool) {
	v, ok := p.values[key]
	if !ok {
		return nil, false
	}
	return deepCopy(v), true
}

// String returns the value under key formatted as a string, or "" when absent.
func (p Params) String(key string) string {
	v, ok := p.values[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of parameters.
func (p Params) Len() int {
	return len(p.values)
}

// Map returns a mutable deep copy of all parameters.
func (p Params) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(p.values))
	for k, v := range p.values {
		out[k] = deepCopy(v)
	}
	return out
}

// MarshalJSON renders the parameters as a JSON object.
func (p Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.values)
}

// deepCopy returns a copy of v that shares no mutable state with it. Untyped
// YAML maps are normalised to map[string]interface{}.
func deepCopy(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if typed, ok := v.(map[interface{}]interface{}); ok {
		out := make(map[string]interface{}, len(typed))
		for k, inner := range typed {
			out[fmt.Sprint(k)] = deepCopy(inner)
		}
		return out
	}
	return copyValue(reflect.ValueOf(v), map[visit]reflect.Value{}).Interface()
}

type visit struct {
	ptr uintptr
	typ reflect.Type
}

// copyValue copies v recursively. seen maps already-copied pointers and maps
// so shared references and cycles stay shared in the copy.
func copyValue(v reflect.Value, seen map[visit]reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		inner := v.Elem()
		if m, ok := inner.Interface().(map[interface{}]interface{}); ok {
			out.Set(reflect.ValueOf(deepCopy(m)))
			return out
		}
		out.Set(copyValue(inner, seen))
		return out
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if done, ok := seen[key]; ok {
			return done
		}
		out := reflect.New(v.Type().Elem())
		seen[key] = out
		out.Elem().Set(copyValue(v.Elem(), seen))
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if done, ok := seen[key]; ok {
			return done
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		seen[key] = out
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(copyValue(iter.Key(), seen), copyValue(iter.Value(), seen))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(copyValue(v.Index(i), seen))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(copyValue(v.Index(i), seen))
		}
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if field := out.Field(i); field.CanSet() {
				field.Set(copyValue(v.Field(i), seen))
			}
		}
		return out
	default:
		return v
	}
}
