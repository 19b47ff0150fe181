// Package canon reduces raw field values to canonical comparable forms.
// Two values are considered semantically equal under a policy exactly when
// their canonical forms are equal; the diff engine relies on this property.
package canon

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	jsoniter "github.com/json-iterator/go"

	"github.com/nasadm/truenasctl/pkg/convert"
)

// sortedJSON produces deterministic encodings of canonical elements so that
// unordered sequences can be sorted stably.
var sortedJSON = jsoniter.Config{SortMapKeys: true}.Froze()

type PolicyKind string

const (
	KindExact         PolicyKind = "exact"
	KindSet           PolicyKind = "set"
	KindDeepUnordered PolicyKind = "deep-unordered"
	KindFoldCase      PolicyKind = "fold-case"
)

// Policy describes how a field value is normalized before comparison.
type Policy struct {
	Kind        PolicyKind
	ExcludeKeys []string
}

func Exact() Policy         { return Policy{Kind: KindExact} }
func Set() Policy           { return Policy{Kind: KindSet} }
func DeepUnordered() Policy { return Policy{Kind: KindDeepUnordered} }
func FoldCase() Policy      { return Policy{Kind: KindFoldCase} }

// DeepUnorderedExcluding strips the named keys from every element before
// comparison, so drift confined to those keys never registers.
func DeepUnorderedExcluding(keys ...string) Policy {
	return Policy{Kind: KindDeepUnordered, ExcludeKeys: keys}
}

// Canonical returns the canonical form of v under the policy. The function is
// pure: it never mutates v and has no side effects.
func (p Policy) Canonical(v any) (any, error) {
	switch p.Kind {
	case KindSet:
		return canonicalSet(v)
	case KindDeepUnordered:
		return canonicalDeepUnordered(v, p.ExcludeKeys)
	case KindFoldCase:
		return canonicalFoldCase(v)
	case KindExact, "":
		return canonicalValue(v)
	}
	return nil, fmt.Errorf("unknown normalization policy %q", p.Kind)
}

// Equal reports whether a and b are semantically equivalent under the policy.
func (p Policy) Equal(a, b any) (bool, error) {
	ca, err := p.Canonical(a)
	if err != nil {
		return false, err
	}
	cb, err := p.Canonical(b)
	if err != nil {
		return false, err
	}
	return cmp.Equal(ca, cb, cmpopts.EquateEmpty()), nil
}

// canonicalValue normalizes scalars and recurses into containers preserving
// order. Numbers collapse to float64 so YAML ints and JSON floats compare
// equal; pointers and interfaces are dereferenced.
func canonicalValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	for (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := canonicalValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			elem, err := canonicalValue(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[key] = elem
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot canonicalize value of type %T", v)
}

// canonicalSet treats a sequence of scalars as a set: order and duplicates
// are irrelevant.
func canonicalSet(v any) (any, error) {
	if v == nil {
		return []any{}, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("set policy requires a sequence, got %T", v)
	}
	seen := make(map[string]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := canonicalValue(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		enc, err := sortedJSON.MarshalToString(elem)
		if err != nil {
			return nil, fmt.Errorf("encoding set element: %w", err)
		}
		seen[enc] = elem
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out, nil
}

// canonicalDeepUnordered reduces a sequence of mappings to a form independent
// of element order and of key order within elements, optionally stripping
// excluded keys from every element first.
func canonicalDeepUnordered(v any, exclude []string) (any, error) {
	if v == nil {
		return []any{}, nil
	}
	elems, err := convert.ToMapSlice(v)
	if err != nil {
		return nil, fmt.Errorf("deep-unordered policy requires a sequence of mappings: %w", err)
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		excluded[k] = struct{}{}
	}

	type keyed struct {
		sortKey string
		value   map[string]any
	}
	canonical := make([]keyed, 0, len(elems))
	for i, elem := range elems {
		stripped := make(map[string]any, len(elem))
		for k, val := range elem {
			if _, skip := excluded[k]; skip {
				continue
			}
			cv, err := canonicalValue(val)
			if err != nil {
				return nil, fmt.Errorf("element %d key %q: %w", i, k, err)
			}
			stripped[k] = cv
		}
		encoded, err := sortedJSON.MarshalToString(stripped)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		canonical = append(canonical, keyed{sortKey: encoded, value: stripped})
	}

	sort.Slice(canonical, func(i, j int) bool {
		return canonical[i].sortKey < canonical[j].sortKey
	})
	out := make([]any, 0, len(canonical))
	for _, k := range canonical {
		out = append(out, k.value)
	}
	return out, nil
}

// canonicalFoldCase trims incidental whitespace and folds case, for enum-like
// string fields whose remote spelling is unstable (ZFS property rawvalues).
func canonicalFoldCase(v any) (any, error) {
	cv, err := canonicalValue(v)
	if err != nil {
		return nil, err
	}
	if s, ok := cv.(string); ok {
		return strings.ToLower(strings.TrimSpace(s)), nil
	}
	if f, ok := cv.(float64); ok {
		// Numeric properties arrive as strings from rawvalue and as numbers
		// from the plan; render both the same way.
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", f))), nil
	}
	return cv, nil
}
