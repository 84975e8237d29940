// Package schema checks generic JSON-shaped values against a fixed field
// tree before they are decoded into typed layout or document values.
//
// Values arrive as the output of encoding/json or yaml.v3 decoding
// (map[string]any, []any, string, float64, int, bool, nil). [Check] only
// descends into the children its [Field] declares, so the depth of the walk is
// bounded by the schema and never by the input: self-referencing maps and
// arbitrarily nested unknown keys are harmless.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Prefix tags every message produced by Check.
const Prefix = "Schema validation"

// Kind is a bit set of accepted value kinds.
type Kind uint8

const (
	String Kind = 1 << iota
	Number
	Integer
	Bool
	Object
	Array
)

// Any accepts every value, including null.
const Any Kind = 0

func (k Kind) String() string {
	if k == Any {
		return "any"
	}
	var names []string
	for _, e := range []struct {
		k    Kind
		name string
	}{{String, "string"}, {Number, "number"}, {Integer, "integer"}, {Bool, "boolean"}, {Object, "object"}, {Array, "array"}} {
		if k&e.k != 0 {
			names = append(names, e.name)
		}
	}
	return strings.Join(names, " or ")
}

// Field describes one value in the schema tree.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Enum     []string // allowed values for strings
	Fields   []Field  // children of an object
	Items    *Field   // element schema of an array
	MinItems int
	MaxItems int // 0 means unbounded
}

// Check validates v against f and returns one message per violation.
// path names v in the messages; it may be empty for the root.
func Check(v any, f Field, path string) []string {
	var errs []string
	check(v, f, path, &errs)
	return errs
}

func check(v any, f Field, path string, errs *[]string) {
	if f.Kind == Any {
		return
	}
	kind := KindOf(v)
	if !accepts(f.Kind, kind, v) {
		*errs = append(*errs, fmt.Sprintf("%s: %s: expected %s, got %s", Prefix, label(path), f.Kind, describe(v)))
		return
	}

	switch kind {
	case Number:
		if f.Kind&Number == 0 {
			if _, ok := Int(v); !ok {
				*errs = append(*errs, fmt.Sprintf("%s: %s: integer %v is out of range [%d, %d]", Prefix, label(path), v, math.MinInt32, math.MaxInt32))
			}
		}
	case String:
		if len(f.Enum) > 0 && !slices.Contains(f.Enum, v.(string)) {
			*errs = append(*errs, fmt.Sprintf("%s: %s: must be one of %s, got %q", Prefix, label(path), strings.Join(f.Enum, ", "), v))
		}
	case Object:
		obj := v.(map[string]any)
		for _, child := range f.Fields {
			cv, ok := obj[child.Name]
			if !ok {
				if child.Required {
					*errs = append(*errs, fmt.Sprintf("%s: %s: required field is missing", Prefix, label(join(path, child.Name))))
				}
				continue
			}
			check(cv, child, join(path, child.Name), errs)
		}
	case Array:
		arr := v.([]any)
		if len(arr) < f.MinItems {
			*errs = append(*errs, fmt.Sprintf("%s: %s: must contain at least %d item(s), got %d", Prefix, label(path), f.MinItems, len(arr)))
		}
		if f.MaxItems > 0 && len(arr) > f.MaxItems {
			*errs = append(*errs, fmt.Sprintf("%s: %s: must contain at most %d item(s), got %d", Prefix, label(path), f.MaxItems, len(arr)))
		}
		if f.Items != nil {
			for i, item := range arr {
				check(item, *f.Items, fmt.Sprintf("%s[%d]", path, i), errs)
			}
		}
	}
}

func accepts(want, got Kind, v any) bool {
	switch {
	case got == 0:
		return false
	case want&got != 0:
		return true
	case got == Number && want&Integer != 0:
		n, _ := Float(v)
		return n == math.Trunc(n)
	}
	return false
}

// KindOf classifies a decoded value. Integers decoded by yaml.v3 report
// Number, like every JSON number; nil and unsupported types report 0.
func KindOf(v any) Kind {
	switch v.(type) {
	case string:
		return String
	case bool:
		return Bool
	case map[string]any:
		return Object
	case []any:
		return Array
	}
	if _, ok := Float(v); ok {
		return Number
	}
	return 0
}

// Float converts any numeric value to float64. NaN and infinities are
// rejected.
func Float(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int converts an integral numeric value in the int32 range to int.
func Int(v any) (int, bool) {
	f, ok := Float(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Normalize turns input into a generic decoded value. Raw JSON ([]byte,
// json.RawMessage or string) is decoded; generic maps and slices pass
// through; any other value is round-tripped through encoding/json.
func Normalize(input any) (any, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decode(v)
	case json.RawMessage:
		return decode(v)
	case string:
		return decode([]byte(v))
	case map[string]any, []any:
		return v, nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	if k := KindOf(v); k != 0 {
		return k.String()
	}
	return fmt.Sprintf("%T", v)
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func label(path string) string {
	if path == "" {
		return "input"
	}
	return path
}
