package render

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formvalidator/pkg/render/template/gotemplate"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const (
	// PartialMessages and PartialMaterialMessages are the theme partial keys
	// that replace the built-in unit templates.
	PartialMessages         = "validation.messages"
	PartialMaterialMessages = "validation.messages.material"

	defaultTemplate  = "validation-messages"
	materialTemplate = "mat-validation-messages"
)

// Option configures a Library.
type Option func(*libraryConfig)

type libraryConfig struct {
	templates []fs.FS
	theme     *theme.RendererConfig
	sanitizer Sanitizer
}

// WithTemplatesFS adds a file system searched before the embedded templates.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *libraryConfig) {
		if files != nil {
			cfg.templates = append(cfg.templates, files)
		}
	}
}

// WithTheme selects unit templates from the theme's partials and exposes the
// theme tokens to templates as `theme`.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(lc *libraryConfig) {
		lc.theme = cfg
	}
}

// WithSanitizer overrides the bluemonday message policy.
func WithSanitizer(s Sanitizer) Option {
	return func(cfg *libraryConfig) {
		cfg.sanitizer = s
	}
}

// Library builds message units from templates. Units are registered under
// DefaultUnitName and MaterialUnitName.
type Library struct {
	engine    *gotemplate.Engine
	sanitizer Sanitizer
	units     *Registry
}

// NewLibrary loads the built-in units, honouring theme partial overrides.
func NewLibrary(opts ...Option) (*Library, error) {
	cfg := &libraryConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.sanitizer == nil {
		cfg.sanitizer = MessagePolicy()
	}

	builtin, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("render: embedded templates: %w", err)
	}
	files := append(append([]fs.FS{}, cfg.templates...), builtin)

	engineOpts := []gotemplate.Option{gotemplate.WithFS(files...)}
	if cfg.theme != nil {
		engineOpts = append(engineOpts, gotemplate.WithGlobalData(map[string]any{
			"theme": map[string]any{
				"name":    cfg.theme.Theme,
				"variant": cfg.theme.Variant,
				"tokens":  cfg.theme.Tokens,
				"cssVars": cfg.theme.CSSVars,
			},
		}))
	}
	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("render: template engine: %w", err)
	}

	lib := &Library{engine: engine, sanitizer: cfg.sanitizer, units: NewRegistry()}
	for _, builtinUnit := range []struct {
		name, partial, template string
	}{
		{DefaultUnitName, PartialMessages, defaultTemplate},
		{MaterialUnitName, PartialMaterialMessages, materialTemplate},
	} {
		name := partialOr(cfg.theme, builtinUnit.partial, builtinUnit.template)
		compiled, err := engine.Load(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, builtinUnit.name, err)
		}
		if err := lib.units.Register(&TemplateUnit{name: builtinUnit.name, compiled: compiled, sanitizer: cfg.sanitizer}); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func partialOr(cfg *theme.RendererConfig, key, fallback string) string {
	if cfg == nil || cfg.Partials == nil {
		return fallback
	}
	if name := strings.TrimSpace(cfg.Partials[key]); name != "" {
		return name
	}
	return fallback
}

// Unit returns a registered unit.
func (l *Library) Unit(name string) (MessageUnit, error) {
	return l.units.Get(name)
}

// Register adds a custom unit to the library.
func (l *Library) Register(unit MessageUnit) error {
	return l.units.Register(unit)
}

// Units lists registered unit names.
func (l *Library) Units() []string {
	return l.units.List()
}

// Inline builds a unit from template source. Parse failures wrap
// ErrInvalidTemplate.
func (l *Library) Inline(name, source string) (*TemplateUnit, error) {
	if name == "" {
		name = "inline"
	}
	return NewTemplateUnit(name, source, l.engine, l.sanitizer)
}

var (
	defaultLibraryOnce sync.Once
	defaultLibrary     *Library
	defaultLibraryErr  error
)

// Default returns the shared library built from the embedded templates.
func Default() *Library {
	defaultLibraryOnce.Do(func() {
		defaultLibrary, defaultLibraryErr = NewLibrary()
	})
	if defaultLibraryErr != nil {
		panic(defaultLibraryErr)
	}
	return defaultLibrary
}

// DefaultUnit returns the built-in plain message unit.
func DefaultUnit() MessageUnit {
	unit, err := Default().Unit(DefaultUnitName)
	if err != nil {
		panic(err)
	}
	return unit
}

// MaterialUnit returns the built-in design-system message unit.
func MaterialUnit() MessageUnit {
	unit, err := Default().Unit(MaterialUnitName)
	if err != nil {
		panic(err)
	}
	return unit
}

// MustInline is Inline on the default library, panicking on parse failure.
func MustInline(name, source string) MessageUnit {
	unit, err := Default().Inline(name, source)
	if err != nil {
		panic(err)
	}
	return unit
}
