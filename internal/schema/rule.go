package schema

import (
	"encoding/json"
	"math"
)

// Kind is the expected type of a field value.
type Kind int

// Supported kinds.
const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindArray
)

// String returns the JSON Schema type name, or "" for KindAny.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindArray:
		return "array"
	default:
		return ""
	}
}

// Rule describes the constraints of a single field.
// Min and Max bound string length in characters, array length in items or
// numeric value; a nil bound is not checked.
type Rule struct {
	Kind     Kind
	Min      *float64
	Max      *float64
	Integer  bool
	Optional bool
	// Items is the kind every array element must have.
	Items Kind
}

// String declares a string field with a character length range.
func String(minLen, maxLen int) Rule {
	return Rule{Kind: KindString, Min: bound(minLen), Max: bound(maxLen)}
}

// Integer declares an unbounded integer field.
func Integer() Rule {
	return Rule{Kind: KindNumber, Integer: true}
}

// StringArray declares an array of strings with at most maxItems entries.
func StringArray(maxItems int) Rule {
	return Rule{Kind: KindArray, Items: KindString, Max: bound(maxItems)}
}

// Any declares a field accepting every value, including null.
func Any() Rule {
	return Rule{Kind: KindAny}
}

// AsOptional returns a copy of the rule that accepts an absent field.
func (r Rule) AsOptional() Rule {
	r.Optional = true

	return r
}

func bound(v int) *float64 {
	f := float64(v)

	return &f
}

// document renders the rule as a JSON Schema fragment.
func (r Rule) document() map[string]any {
	doc := make(map[string]any)

	switch r.Kind {
	case KindString:
		doc["type"] = KindString.String()
		setBounds(doc, "minLength", "maxLength", r)
	case KindNumber:
		doc["type"] = KindNumber.String()
		if r.Integer {
			doc["type"] = "integer"
		}

		setBounds(doc, "minimum", "maximum", r)
	case KindArray:
		doc["type"] = KindArray.String()
		if items := r.Items.String(); items != "" {
			doc["items"] = map[string]any{"type": items}
		}

		setBounds(doc, "minItems", "maxItems", r)
	case KindAny:
	}

	return doc
}

func setBounds(doc map[string]any, minKey, maxKey string, r Rule) {
	if r.Min != nil {
		doc[minKey] = *r.Min
	}

	if r.Max != nil {
		doc[maxKey] = *r.Max
	}
}

// Number converts the numeric representations produced by JSON decoding
// (float64, json.Number) and by Go callers (ints) into a finite float64.
func Number(value any) (float64, bool) {
	var f float64

	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}

		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
