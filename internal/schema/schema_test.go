package schema

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pulse-sentry/internal/domain/alert"
)

func testSchema() *Schema {
	return &Schema{
		Name:   "test",
		Strict: true,
		Fields: map[string]Rule{
			"id":   String(3, 8),
			"note": String(1, 10).AsOptional(),
			"tags": StringArray(2).AsOptional(),
			"ts":   Integer().AsOptional(),
		},
	}
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "want *ValidationError, got %v", err)

	names := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		names = append(names, fe.Field)
	}

	return names
}

// TestValidate_OK accepts a payload matching every rule.
func TestValidate_OK(t *testing.T) {
	t.Parallel()

	err := testSchema().Validate(map[string]any{
		"id":   "abc",
		"note": "héllo",
		"tags": []any{"a", "b"},
		"ts":   json.Number("1700000000"),
	})
	require.NoError(t, err)
}

// TestValidate_Strict rejects unknown fields and reports all problems at once.
func TestValidate_Strict(t *testing.T) {
	t.Parallel()

	err := testSchema().Validate(map[string]any{
		"id":    "ab",
		"extra": true,
		"tags":  []any{"a", "b", "c"},
		"ts":    1.5,
	})
	require.ErrorIs(t, err, alert.ErrValidation)
	require.Equal(t, []string{"extra", "id", "tags", "ts"}, fieldNames(t, err))
	require.True(t, strings.HasPrefix(err.Error(), "schema test: "))
}

// TestValidate_Types covers type mismatches and null handling.
func TestValidate_Types(t *testing.T) {
	t.Parallel()

	err := testSchema().Validate(map[string]any{
		"id":   12,
		"note": nil,
		"tags": []any{"a", 1},
		"ts":   "now",
	})
	require.Equal(t, []string{"id", "note", "tags.1", "ts"}, fieldNames(t, err))

	err = testSchema().Validate(map[string]any{})
	require.Equal(t, []string{"id"}, fieldNames(t, err))

	err = testSchema().Validate(nil)
	require.Equal(t, []string{"$"}, fieldNames(t, err))
}

// TestValidate_NonStrict ignores unknown fields and accepts any value for KindAny.
func TestValidate_NonStrict(t *testing.T) {
	t.Parallel()

	s := &Schema{
		Name:   "feature_entry",
		Fields: map[string]Rule{"key": String(1, 256), "value": Any()},
	}

	require.NoError(t, s.Validate(map[string]any{"key": "currentTime", "value": nil, "other": 1}))
	require.Error(t, s.Validate(map[string]any{"value": 1}))
}

// TestValidate_Messages reports one entry per missing or unknown field.
func TestValidate_Messages(t *testing.T) {
	t.Parallel()

	s := &Schema{
		Name:   "pair",
		Strict: true,
		Fields: map[string]Rule{"a": String(1, 4), "b": Integer()},
	}

	err := s.Validate(map[string]any{"x": 1, "y": 2})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []FieldError{
		{Field: "a", Message: "is required"},
		{Field: "b", Message: "is required"},
		{Field: "x", Message: "is not allowed"},
		{Field: "y", Message: "is not allowed"},
	}, verr.Errors)
}

// TestSchema_Document renders rules as a JSON Schema document.
func TestSchema_Document(t *testing.T) {
	t.Parallel()

	doc := testSchema().Document()
	require.Equal(t, "object", doc["type"])
	require.Equal(t, []string{"id"}, doc["required"])
	require.Equal(t, false, doc["additionalProperties"])

	properties, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, map[string]any{"type": "string", "minLength": 3.0, "maxLength": 8.0}, properties["id"])
	require.Equal(t, map[string]any{"type": "integer"}, properties["ts"])
	require.Equal(t, map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string"},
		"maxItems": 2.0,
	}, properties["tags"])
}

// TestNumber converts JSON and Go numeric types and rejects non-finite values.
func TestNumber(t *testing.T) {
	t.Parallel()

	for _, v := range []any{3, int64(3), int32(3), float32(3), 3.0, json.Number("3")} {
		n, ok := Number(v)
		require.True(t, ok)
		require.InDelta(t, 3.0, n, 0)
	}

	for _, v := range []any{"3", nil, math.NaN(), math.Inf(1), json.Number("x")} {
		_, ok := Number(v)
		require.False(t, ok)
	}
}

// TestRegistry validates by name and rejects unknown schemas.
func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testSchema())
	require.NoError(t, r.Validate("test", map[string]any{"id": "abcd"}))
	require.ErrorIs(t, r.Validate("missing", map[string]any{}), alert.ErrValidation)
}
