package config

import (
	"io"
	"log/slog"
	"maps"
	"strings"

	"github.com/goliatone/go-formvalidator/pkg/format"
	"github.com/goliatone/go-formvalidator/pkg/framework"
	"github.com/goliatone/go-formvalidator/pkg/model"
	"github.com/goliatone/go-formvalidator/pkg/render"
	"github.com/goliatone/go-formvalidator/pkg/visibility"
)

// DefaultRule is the textual form of visibility.DefaultPolicy.
const DefaultRule = "(dirty && touched) || submitted"

// Display configures how validation errors are displayed.
type Display struct {
	// SkipValidate disables display for everything bound with this value.
	SkipValidate bool
	// VisibleWhen decides visibility. Nil shows any non-empty error set.
	VisibleWhen visibility.Policy
	// Messages is the catalog of templates keyed by failure kind.
	Messages map[string]string
	// UnknownMessage is used when neither a detail message, a local override
	// nor a catalog entry exists.
	UnknownMessage string
	// Framework selects the display strategy.
	Framework model.Framework
	// MessageUnit renders messages; nil uses render.DefaultUnit.
	MessageUnit render.MessageUnit
	// Detector resolves FrameworkAuto; nil uses framework.DefaultDetector.
	Detector framework.Detector
	// Locales holds per-locale catalogs merged over Messages by ForLocale.
	Locales map[string]map[string]string
	// Logger receives diagnostics; nil discards them.
	Logger *slog.Logger
}

// DefaultMessages returns a copy of the built-in catalog.
func DefaultMessages() map[string]string {
	return map[string]string{
		"required":  "This field is required.",
		"email":     "Email is invalid",
		"max":       "Value should be less than or equal to {{ max }}.",
		"maxlength": "{{ requiredLength }} characters are allowed.",
		"min":       "Value should be greater than or equal to {{ min }}.",
		"minlength": "Should have at least {{ requiredLength }} characters.",
		"pattern":   "Invalid pattern. Please review your input.",
	}
}

// Default returns the library defaults: the built-in catalog, the
// `(dirty && touched) || submitted` policy and the plain strategy.
func Default() Display {
	return Display{
		VisibleWhen:    visibility.DefaultPolicy,
		Messages:       DefaultMessages(),
		UnknownMessage: format.DefaultUnknownMessage,
		Framework:      model.FrameworkNone,
	}
}

// Formatter builds a formatter over the catalog.
func (d Display) Formatter() *format.Formatter {
	return format.New(d.Messages, d.UnknownMessage)
}

// Unit returns the configured message unit or the built-in default.
func (d Display) Unit() render.MessageUnit {
	if d.MessageUnit != nil {
		return d.MessageUnit
	}
	return render.DefaultUnit()
}

// FrameworkDetector returns the configured detector or the default one.
func (d Display) FrameworkDetector() framework.Detector {
	if d.Detector != nil {
		return d.Detector
	}
	return framework.DefaultDetector
}

// Log returns the configured logger or one that discards output.
func (d Display) Log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return discardLogger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ForLocale returns a copy whose catalog has the locale's entries merged over
// the base catalog. Region tags fall back to their language (es-MX to es).
// Unknown locales return d unchanged.
func (d Display) ForLocale(locale string) Display {
	catalog, ok := d.lookupLocale(locale)
	if !ok {
		return d
	}
	out := d
	out.Messages = maps.Clone(d.Messages)
	if out.Messages == nil {
		out.Messages = make(map[string]string, len(catalog))
	}
	maps.Copy(out.Messages, catalog)
	return out
}

func (d Display) lookupLocale(locale string) (map[string]string, bool) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" || len(d.Locales) == 0 {
		return nil, false
	}
	if catalog, ok := d.Locales[locale]; ok {
		return catalog, true
	}
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		catalog, ok := d.Locales[locale[:i]]
		return catalog, ok
	}
	return nil, false
}

// Override narrows a Display for a subtree. Nil or zero fields keep the base
// value; Messages replaces the catalog wholesale.
type Override struct {
	SkipValidate   *bool
	VisibleWhen    visibility.Policy
	Messages       map[string]string
	UnknownMessage string
	Framework      model.Framework
	MessageUnit    render.MessageUnit
	Detector       framework.Detector
	Logger         *slog.Logger
}

// Empty reports whether the override changes nothing.
func (o Override) Empty() bool {
	return o.SkipValidate == nil && o.VisibleWhen == nil && o.Messages == nil &&
		o.UnknownMessage == "" && o.Framework == "" && o.MessageUnit == nil &&
		o.Detector == nil && o.Logger == nil
}

// Apply returns base with the override's fields applied. Base is not modified.
func (o Override) Apply(base Display) Display {
	out := base
	if o.SkipValidate != nil {
		out.SkipValidate = *o.SkipValidate
	}
	if o.VisibleWhen != nil {
		out.VisibleWhen = o.VisibleWhen
	}
	if o.Messages != nil {
		out.Messages = maps.Clone(o.Messages)
	}
	if o.UnknownMessage != "" {
		out.UnknownMessage = o.UnknownMessage
	}
	if o.Framework != "" {
		out.Framework = o.Framework
	}
	if o.MessageUnit != nil {
		out.MessageUnit = o.MessageUnit
	}
	if o.Detector != nil {
		out.Detector = o.Detector
	}
	if o.Logger != nil {
		out.Logger = o.Logger
	}
	return out
}

// Bool returns a pointer to v, for Override.SkipValidate.
func Bool(v bool) *bool {
	return &v
}
