package format

import (
	"github.com/goliatone/go-formvalidator/pkg/model"
)

// DefaultUnknownMessage is used when neither the catalog nor the configured
// fallback yields a message.
const DefaultUnknownMessage = "[This field is invalid]"

// Formatter resolves failure kinds into messages using a catalog and an
// unknown-failure fallback. The zero value formats every failure with
// DefaultUnknownMessage unless the detail carries its own message.
type Formatter struct {
	catalog map[string]string
	unknown string
}

// New constructs a Formatter. The catalog is copied.
func New(catalog map[string]string, unknown string) *Formatter {
	f := &Formatter{unknown: unknown}
	if len(catalog) > 0 {
		f.catalog = make(map[string]string, len(catalog))
		for key, value := range catalog {
			f.catalog[key] = value
		}
	}
	return f
}

// Format returns one entry per failure, in failure order. local holds the
// field-level overrides keyed by failure kind. The result is never nil.
func (f *Formatter) Format(failures model.Failures, local map[string]string) []model.FormattedError {
	out := make([]model.FormattedError, 0, len(failures))
	for _, failure := range failures {
		out = append(out, model.FormattedError{
			Key:     failure.Kind,
			Message: f.Message(failure.Kind, failure.Detail, local),
		})
	}
	return out
}

// Message resolves the message for a single failure kind.
func (f *Formatter) Message(kind string, detail model.Detail, local map[string]string) string {
	if msg := detail.Message(); msg != "" {
		return msg
	}
	if msg := local[kind]; msg != "" {
		return msg
	}
	if f != nil {
		if tmpl := f.catalog[kind]; tmpl != "" {
			return Interpolate(tmpl, detail)
		}
		if f.unknown != "" {
			return f.unknown
		}
	}
	return DefaultUnknownMessage
}
