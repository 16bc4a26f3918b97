package schema

import (
	"fmt"
	"maps"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formvalidator/pkg/forms"
	"github.com/goliatone/go-formvalidator/pkg/validators"
)

// Operation is an API operation with the fields of its request body.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
	Fields  []Field
}

// Field is one request body property and its constraints. Object properties
// carry their own Fields.
type Field struct {
	Name      string
	Path      string
	Type      string
	Format    string
	Required  bool
	MinLength *int
	MaxLength *int
	Minimum   *float64
	Maximum   *float64
	Pattern   string
	Default   any
	Messages  map[string]string
	Fields    []Field
}

// IsGroup reports whether the field is a nested object.
func (f Field) IsGroup() bool {
	return f.Type == "object" && len(f.Fields) > 0
}

// Validators returns the validators matching the field's constraints, in the
// order required, length, bounds, pattern, format.
func (f Field) Validators() ([]forms.ValidatorFn, error) {
	var out []forms.ValidatorFn
	if f.Required {
		out = append(out, validators.Required())
	}
	if f.MinLength != nil {
		out = append(out, validators.MinLength(*f.MinLength))
	}
	if f.MaxLength != nil {
		out = append(out, validators.MaxLength(*f.MaxLength))
	}
	if f.Minimum != nil {
		out = append(out, validators.Min(*f.Minimum))
	}
	if f.Maximum != nil {
		out = append(out, validators.Max(*f.Maximum))
	}
	if f.Pattern != "" {
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: pattern: %w", f.Path, err)
		}
		out = append(out, validators.PatternRegexp(re))
	}
	switch strings.ToLower(f.Format) {
	case "email", "idn-email":
		out = append(out, validators.Email())
	case "uri", "url", "iri":
		out = append(out, validators.URL())
	}
	return out, nil
}

func objectFields(prefix string, ref *openapi3.SchemaRef) []Field {
	if ref == nil || ref.Value == nil || len(ref.Value.Properties) == 0 {
		return nil
	}
	src := ref.Value
	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		fields = append(fields, convertField(name, path, required[name], src.Properties[name]))
	}
	return fields
}

func convertField(name, path string, required bool, ref *openapi3.SchemaRef) Field {
	field := Field{Name: name, Path: path, Required: required}
	if ref == nil || ref.Value == nil {
		return field
	}
	src := ref.Value

	if src.Type != nil && len(src.Type.Slice()) > 0 {
		field.Type = src.Type.Slice()[0]
	}
	field.Format = src.Format
	field.Default = src.Default
	field.Pattern = src.Pattern

	if src.MinLength != 0 {
		value := int(src.MinLength)
		field.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		field.MaxLength = &value
	}
	if src.Min != nil {
		value := *src.Min
		field.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		field.Maximum = &value
	}
	field.Messages = extensionMessages(src.Extensions[MessagesExtension])

	if field.Type == "object" {
		field.Fields = objectFields(path, ref)
	}
	return field
}

func extensionMessages(raw any) map[string]string {
	mapped, ok := raw.(map[string]any)
	if !ok || len(mapped) == 0 {
		return nil
	}
	out := make(map[string]string, len(mapped))
	for kind, value := range mapped {
		if text, ok := value.(string); ok && strings.TrimSpace(text) != "" {
			out[kind] = text
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Group builds a form group with one control per field. Nested objects
// become nested groups.
func (op Operation) Group(groupValidators ...forms.ValidatorFn) (*forms.Group, error) {
	return BuildGroup(op.Fields, groupValidators...)
}

// BuildGroup builds a form group from fields.
func BuildGroup(fields []Field, groupValidators ...forms.ValidatorFn) (*forms.Group, error) {
	group := forms.NewGroup(groupValidators...)
	for _, field := range fields {
		if field.IsGroup() {
			child, err := BuildGroup(field.Fields)
			if err != nil {
				return nil, err
			}
			group.Add(field.Name, child)
			continue
		}
		fns, err := field.Validators()
		if err != nil {
			return nil, err
		}
		group.Add(field.Name, forms.NewControl(initialValue(field), fns...))
	}
	return group, nil
}

// Messages collects the field-local messages of every field, keyed by path.
func (op Operation) Messages() map[string]map[string]string {
	out := make(map[string]map[string]string)
	collectMessages(op.Fields, out)
	return out
}

func collectMessages(fields []Field, out map[string]map[string]string) {
	for _, field := range fields {
		if len(field.Messages) > 0 {
			out[field.Path] = maps.Clone(field.Messages)
		}
		collectMessages(field.Fields, out)
	}
}

func initialValue(field Field) any {
	if field.Default != nil {
		return field.Default
	}
	switch field.Type {
	case "boolean":
		return false
	case "array":
		return []any{}
	case "integer", "number":
		return nil
	default:
		return ""
	}
}
