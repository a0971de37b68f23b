// Package schema validates loosely typed payloads against declarative schemas.
//
// A Schema maps field names to Rules (type, bounds, optionality) and is
// compiled to a JSON Schema document checked by santhosh-tekuri/jsonschema.
// Strict schemas also reject fields they do not declare. Validation reports
// every failing field instead of stopping at the first one.
package schema
