// Package format turns raw validation failures into display-ready messages.
//
// Message resolution for each failure kind follows a strict precedence: an
// explicit message embedded in the failure detail, then a field-local override,
// then the catalog template (with {{ placeholder }} interpolation from the
// detail), then the unknown-failure fallback.
package format
