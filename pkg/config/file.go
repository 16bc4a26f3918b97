package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formvalidator/pkg/model"
	"github.com/goliatone/go-formvalidator/pkg/render"
	"github.com/goliatone/go-formvalidator/pkg/visibility"
	"github.com/goliatone/go-formvalidator/pkg/visibility/expr"
)

// ErrUnsupportedFormat is returned for file extensions with no decoder.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// File is the on-disk shape of a display configuration.
type File struct {
	SkipValidate    bool                         `json:"skip_validate" yaml:"skip_validate" toml:"skip_validate"`
	VisibleWhen     *string                      `json:"visible_when" yaml:"visible_when" toml:"visible_when"`
	UnknownMessage  string                       `json:"unknown_message" yaml:"unknown_message" toml:"unknown_message"`
	Framework       string                       `json:"framework" yaml:"framework" toml:"framework"`
	MessageUnit     string                       `json:"message_unit" yaml:"message_unit" toml:"message_unit"`
	MessageTemplate string                       `json:"message_template" yaml:"message_template" toml:"message_template"`
	ReplaceMessages bool                         `json:"replace_messages" yaml:"replace_messages" toml:"replace_messages"`
	Messages        map[string]string            `json:"messages" yaml:"messages" toml:"messages"`
	Locale          string                       `json:"locale" yaml:"locale" toml:"locale"`
	Locales         map[string]map[string]string `json:"locales" yaml:"locales" toml:"locales"`
	Fields          map[string]FieldFile         `json:"fields" yaml:"fields" toml:"fields"`
	Log             LogFile                      `json:"log" yaml:"log" toml:"log"`
}

// FieldFile configures a single field by control name.
type FieldFile struct {
	SkipValidate *bool             `json:"skip_validate" yaml:"skip_validate" toml:"skip_validate"`
	VisibleWhen  string            `json:"visible_when" yaml:"visible_when" toml:"visible_when"`
	Messages     map[string]string `json:"messages" yaml:"messages" toml:"messages"`
	Framework    string            `json:"framework" yaml:"framework" toml:"framework"`
}

// LogFile configures the diagnostics logger.
type LogFile struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"`
}

// LoadFile reads and decodes path, choosing the decoder by extension.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// LoadFS reads and decodes path from fsys.
func LoadFS(fsys fs.FS, path string) (*File, error) {
	if fsys == nil {
		return nil, errors.New("config: file system is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// MustLoadFile panics when the file cannot be loaded.
func MustLoadFile(path string) *File {
	file, err := LoadFile(path)
	if err != nil {
		panic(err)
	}
	return file
}

// Parse decodes data in the given format: "yaml", "yml", "json" or "toml",
// with or without a leading dot. Unknown keys are rejected.
func Parse(data []byte, format string) (*File, error) {
	file := &File{}
	if len(bytes.TrimSpace(data)) == 0 {
		return file, nil
	}

	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".") {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(file); err != nil {
			return nil, fmt.Errorf("config: decode json: %w", err)
		}
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(file); err != nil {
			return nil, fmt.Errorf("config: decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return file, nil
}

// Display compiles the file over Default(). Units are looked up in lib, or
// the default render library when lib is nil.
func (f *File) Display(lib *render.Library) (Display, error) {
	out := Default()
	if f == nil {
		return out, nil
	}
	if lib == nil {
		lib = render.Default()
	}

	out.SkipValidate = f.SkipValidate
	if f.VisibleWhen != nil {
		policy, err := compileRule(*f.VisibleWhen)
		if err != nil {
			return Display{}, err
		}
		out.VisibleWhen = policy
	}
	if msg := strings.TrimSpace(f.UnknownMessage); msg != "" {
		out.UnknownMessage = msg
	}

	fw, err := model.ParseFramework(f.Framework)
	if err != nil {
		return Display{}, fmt.Errorf("config: %w", err)
	}
	out.Framework = fw

	switch {
	case strings.TrimSpace(f.MessageTemplate) != "":
		unit, err := lib.Inline("config", f.MessageTemplate)
		if err != nil {
			return Display{}, fmt.Errorf("config: message_template: %w", err)
		}
		out.MessageUnit = unit
	case strings.TrimSpace(f.MessageUnit) != "":
		unit, err := lib.Unit(strings.TrimSpace(f.MessageUnit))
		if err != nil {
			return Display{}, fmt.Errorf("config: message_unit: %w", err)
		}
		out.MessageUnit = unit
	}

	if f.ReplaceMessages {
		out.Messages = maps.Clone(f.Messages)
	} else {
		maps.Copy(out.Messages, f.Messages)
	}

	if len(f.Locales) > 0 {
		out.Locales = make(map[string]map[string]string, len(f.Locales))
		for locale, catalog := range f.Locales {
			out.Locales[strings.ToLower(strings.TrimSpace(locale))] = maps.Clone(catalog)
		}
	}
	if f.Locale != "" {
		out = out.ForLocale(f.Locale)
	}

	if f.Log.Level != "" || f.Log.Format != "" {
		logger, err := NewLogger(nil, f.Log.Level, f.Log.Format)
		if err != nil {
			return Display{}, err
		}
		out.Logger = logger
	}
	return out, nil
}

// Overrides compiles the per-field sections keyed by control name.
func (f *File) Overrides() (map[string]Override, error) {
	if f == nil || len(f.Fields) == 0 {
		return nil, nil
	}
	out := make(map[string]Override, len(f.Fields))
	for name, field := range f.Fields {
		var override Override
		override.SkipValidate = field.SkipValidate
		if field.VisibleWhen != "" {
			policy, err := compileRule(field.VisibleWhen)
			if err != nil {
				return nil, fmt.Errorf("config: field %q: %w", name, err)
			}
			override.VisibleWhen = policy
		}
		if field.Framework != "" {
			fw, err := model.ParseFramework(field.Framework)
			if err != nil {
				return nil, fmt.Errorf("config: field %q: %w", name, err)
			}
			override.Framework = fw
		}
		override.Messages = maps.Clone(field.Messages)
		out[name] = override
	}
	return out, nil
}

func compileRule(rule string) (visibility.Policy, error) {
	policy, err := expr.Policy(rule)
	if err != nil {
		return nil, fmt.Errorf("config: visible_when %q: %w", rule, err)
	}
	return policy, nil
}
