package formvalidator

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formvalidator/pkg/binding"
	"github.com/goliatone/go-formvalidator/pkg/config"
	"github.com/goliatone/go-formvalidator/pkg/render"
)

// GroupBinding aliases binding.GroupBinding.
type GroupBinding = binding.GroupBinding

// FieldBinding aliases binding.FieldBinding.
type FieldBinding = binding.FieldBinding

// Display is the resolved display configuration of a binding.
type Display = config.Display

// Override replaces parts of an inherited Display.
type Override = config.Override

// GroupOption configures BindGroup.
type GroupOption = binding.GroupOption

// FieldOption configures BindField.
type FieldOption = binding.FieldOption

// Re-exported options so callers can stay on the top-level package.
var (
	WithDisplay           = binding.WithDisplay
	WithGroupConfig       = binding.WithGroupConfig
	WithSkipValidate      = binding.WithSkipValidate
	WithName              = binding.WithName
	WithMessages          = binding.WithMessages
	WithMessageTemplate   = binding.WithMessageTemplate
	WithTarget            = binding.WithTarget
	WithContainer         = binding.WithContainer
	WithFieldConfig       = binding.WithFieldConfig
	WithFieldSkipValidate = binding.WithFieldSkipValidate
)

// DefaultConfig returns the library defaults: the built-in English catalog,
// the (dirty && touched) || submitted policy and the plain strategy. Set
// Framework to model.FrameworkAuto to detect the layout from host classes.
func DefaultConfig() Display {
	return config.Default()
}

// BindGroup binds a form or nested group to its host element. Pass a nil
// parent for the root form.
func BindGroup(parent *GroupBinding, group binding.Group, host *html.Node, opts ...GroupOption) (*GroupBinding, error) {
	return binding.BindGroup(parent, group, host, opts...)
}

// BindField binds a control to its host element under parent.
func BindField(parent *GroupBinding, control binding.Control, host *html.Node, opts ...FieldOption) (*FieldBinding, error) {
	return binding.BindField(parent, control, host, opts...)
}

// LoadConfig reads a YAML, JSON or TOML display file and compiles it into the
// root display and the per-field overrides.
func LoadConfig(path string) (Display, map[string]Override, error) {
	return LoadConfigWith(path, nil)
}

// LoadConfigWith is LoadConfig resolving message units from lib.
func LoadConfigWith(path string, lib *render.Library) (Display, map[string]Override, error) {
	file, err := config.LoadFile(path)
	if err != nil {
		return Display{}, nil, err
	}
	display, err := file.Display(lib)
	if err != nil {
		return Display{}, nil, fmt.Errorf("formvalidator: %s: %w", path, err)
	}
	fields, err := file.Overrides()
	if err != nil {
		return Display{}, nil, fmt.Errorf("formvalidator: %s: %w", path, err)
	}
	return display, fields, nil
}

// FieldOptions turns a per-field override returned by LoadConfig into field
// options. File messages become field-local messages so the inherited catalog
// still covers the other failure kinds.
func FieldOptions(override Override) []FieldOption {
	var opts []FieldOption
	if override.Messages != nil {
		opts = append(opts, binding.WithMessages(override.Messages))
		override.Messages = nil
	}
	if !override.Empty() {
		opts = append(opts, binding.WithFieldConfig(override))
	}
	return opts
}
