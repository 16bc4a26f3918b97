package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formvalidator/pkg/model"
	"github.com/goliatone/go-formvalidator/pkg/render/template"
)

// ErrInvalidTemplate reports a custom message template that cannot be parsed.
var ErrInvalidTemplate = errors.New("render: invalid message template")

const (
	// DefaultUnitName names the built-in plain message unit.
	DefaultUnitName = "default"
	// MaterialUnitName names the built-in design-system message unit.
	MaterialUnitName = "material"
)

// MessageUnit renders a list of formatted errors with an optional class
// string applied to its root element.
type MessageUnit interface {
	Name() string
	RenderMessages(errors []model.FormattedError, classes string) (string, error)
}

// UnitFunc adapts a function to MessageUnit.
type UnitFunc struct {
	UnitName string
	Fn       func(errors []model.FormattedError, classes string) (string, error)
}

// Name returns the unit name.
func (u UnitFunc) Name() string { return u.UnitName }

// RenderMessages calls Fn.
func (u UnitFunc) RenderMessages(errors []model.FormattedError, classes string) (string, error) {
	if u.Fn == nil {
		return "", fmt.Errorf("render: unit %q has no render function", u.UnitName)
	}
	return u.Fn(errors, classes)
}

// TemplateUnit renders through a compiled template. Templates receive
// `errors` (each with `key` and `message`) and `classes`.
type TemplateUnit struct {
	name      string
	compiled  template.Compiled
	sanitizer Sanitizer
}

// NewTemplateUnit parses source with engine. Parse failures wrap
// ErrInvalidTemplate.
func NewTemplateUnit(name, source string, engine template.Compiler, sanitizer Sanitizer) (*TemplateUnit, error) {
	if engine == nil {
		return nil, errors.New("render: template engine is required")
	}
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: template %q is empty", ErrInvalidTemplate, name)
	}
	compiled, err := engine.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, name, err)
	}
	return &TemplateUnit{name: name, compiled: compiled, sanitizer: sanitizer}, nil
}

// Name returns the unit name.
func (u *TemplateUnit) Name() string {
	return u.name
}

// RenderMessages executes the template and sanitises the result.
func (u *TemplateUnit) RenderMessages(errors []model.FormattedError, classes string) (string, error) {
	if errors == nil {
		errors = []model.FormattedError{}
	}
	out, err := u.compiled.Execute(map[string]any{
		"errors":  errors,
		"classes": strings.TrimSpace(classes),
	})
	if err != nil {
		return "", fmt.Errorf("render: unit %q: %w", u.name, err)
	}
	if u.sanitizer != nil {
		out = u.sanitizer.Sanitize(out)
	}
	return out, nil
}
