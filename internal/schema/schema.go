package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/oshokin/pulse-sentry/internal/domain/alert"
)

const (
	// rootField names the payload itself in field errors.
	rootField      = "$"
	msgNotAnObject = "payload must be an object"
)

//nolint:gochecknoglobals // Read-only printer for validator messages.
var printer = message.NewPrinter(language.English)

// Schema is a named set of field rules compiled to a JSON Schema document
// on first use.
type Schema struct {
	Name string
	// Strict rejects fields missing from Fields.
	Strict bool
	Fields map[string]Rule

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string
	Message string
}

// Error implements error.
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError lists every field rejected by a schema.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Error())
	}

	return fmt.Sprintf("schema %s: %s", e.Schema, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match alert.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return alert.ErrValidation
}

// Document returns the JSON Schema equivalent of the rules.
func (s *Schema) Document() map[string]any {
	properties := make(map[string]any, len(s.Fields))
	required := make([]string, 0, len(s.Fields))

	for name, rule := range s.Fields {
		properties[name] = rule.document()

		if !rule.Optional {
			required = append(required, name)
		}
	}

	sort.Strings(required)

	doc := map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}

	if s.Strict {
		doc["additionalProperties"] = false
	}

	return doc
}

// compile builds the validator once.
func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		doc, err := canonical(s.Document())
		if err != nil {
			s.err = err

			return
		}

		location := s.Name + ".json"
		compiler := jsonschema.NewCompiler()

		if s.err = compiler.AddResource(location, doc); s.err != nil {
			return
		}

		s.compiled, s.err = compiler.Compile(location)
	})

	return s.compiled, s.err
}

// Validate checks payload against the schema.
// It returns nil or a *ValidationError with fields sorted by name.
func (s *Schema) Validate(payload map[string]any) error {
	if payload == nil {
		return s.rejectPayload(msgNotAnObject)
	}

	compiled, err := s.compile()
	if err != nil {
		return fmt.Errorf("compile schema %s: %w", s.Name, err)
	}

	instance, err := canonical(payload)
	if err != nil {
		return s.rejectPayload(err.Error())
	}

	err = compiled.Validate(instance)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return s.rejectPayload(err.Error())
	}

	errs := collect(verr, nil)
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationError{Schema: s.Name, Errors: errs}
}

func (s *Schema) rejectPayload(msg string) *ValidationError {
	return &ValidationError{
		Schema: s.Name,
		Errors: []FieldError{{Field: rootField, Message: msg}},
	}
}

// canonical round-trips value through JSON so the validator only sees the
// types it decodes itself.
func canonical(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// collect flattens the leaf causes of verr into field errors.
func collect(verr *jsonschema.ValidationError, errs []FieldError) []FieldError {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			errs = collect(cause, errs)
		}

		return errs
	}

	location := fieldPath(verr.InstanceLocation)

	switch k := verr.ErrorKind.(type) {
	case *kind.Required:
		for _, name := range k.Missing {
			errs = append(errs, FieldError{Field: child(location, name), Message: "is required"})
		}
	case *kind.AdditionalProperties:
		for _, name := range k.Properties {
			errs = append(errs, FieldError{Field: child(location, name), Message: "is not allowed"})
		}
	default:
		errs = append(errs, FieldError{Field: location, Message: verr.ErrorKind.LocalizedString(printer)})
	}

	return errs
}

func fieldPath(location []string) string {
	if len(location) == 0 {
		return rootField
	}

	return strings.Join(location, ".")
}

func child(location, name string) string {
	if location == rootField {
		return name
	}

	return location + "." + name
}

// Registry holds schemas by name.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry creates a registry with the provided schemas.
func NewRegistry(schemas ...*Schema) *Registry {
	r := &Registry{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		r.Add(s)
	}

	return r
}

// Add registers or replaces a schema.
func (r *Registry) Add(s *Schema) {
	r.schemas[s.Name] = s
}

// Validate checks payload against the named schema.
func (r *Registry) Validate(name string, payload map[string]any) error {
	s, ok := r.schemas[name]
	if !ok {
		return fmt.Errorf("%w: unknown schema %q", alert.ErrValidation, name)
	}

	return s.Validate(payload)
}
