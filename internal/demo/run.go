package demo

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	formvalidator "github.com/goliatone/go-formvalidator"
	"github.com/goliatone/go-formvalidator/pkg/binding"
	"github.com/goliatone/go-formvalidator/pkg/config"
	"github.com/goliatone/go-formvalidator/pkg/dom"
	"github.com/goliatone/go-formvalidator/pkg/forms"
	"github.com/goliatone/go-formvalidator/pkg/model"
)

// Options controls a demo run.
type Options struct {
	// Form names the demo form, see Names.
	Form string
	// Display is the base configuration. The form's framework is applied on
	// top of it.
	Display config.Display
	// Fields holds per-field overrides keyed by control path or name.
	Fields map[string]config.Override
	// Submit submits the form after the interaction.
	Submit bool
	// Prompter asks for values interactively. Nil replays the form's script.
	Prompter Prompter
}

// Result is the outcome of a demo run.
type Result struct {
	HTML      string
	Valid     bool
	Submitted bool
	Prevented bool
	Shown     []string
}

type session struct {
	form   *Form
	body   *html.Node
	root   *binding.GroupBinding
	groups map[string]*binding.GroupBinding
	fields []*binding.FieldBinding
}

// Run builds the form, binds it, drives the interaction and returns the
// resulting markup.
func Run(ctx context.Context, opts Options) (Result, error) {
	form, err := Build(opts.Form)
	if err != nil {
		return Result{}, err
	}

	s, err := bind(form, opts)
	if err != nil {
		return Result{}, err
	}
	defer s.destroy()

	submit := opts.Submit
	if opts.Prompter != nil {
		if submit, err = s.prompt(ctx, opts.Prompter); err != nil {
			return Result{}, err
		}
	} else {
		s.replay()
	}

	result := Result{Valid: form.Group.Valid()}
	if submit {
		result.Submitted = true
		result.Prevented = s.root.Submit(binding.SubmitFunc(func() {}))
	}
	for _, field := range s.fields {
		if field.State() == binding.Shown {
			result.Shown = append(result.Shown, field.Name())
		}
	}
	result.HTML = dom.Render(dom.Find(s.body, dom.ByID(FormID)))
	return result, nil
}

func bind(form *Form, opts Options) (*session, error) {
	doc, err := dom.Parse("<!DOCTYPE html><html><head></head><body>" + form.Markup + "</body></html>")
	if err != nil {
		return nil, err
	}
	s := &session{form: form, body: doc, groups: make(map[string]*binding.GroupBinding)}

	root, err := binding.BindGroup(nil, form.Group, s.node(FormID),
		binding.WithDisplay(opts.Display),
		binding.WithGroupConfig(config.Override{Framework: form.Framework}))
	if err != nil {
		return nil, fmt.Errorf("demo: bind form: %w", err)
	}
	s.root = root

	for _, spec := range form.Groups {
		group, ok := form.Group.Control(spec.Name).(*forms.Group)
		if !ok {
			s.destroy()
			return nil, fmt.Errorf("demo: %q is not a group", spec.Name)
		}
		gb, err := binding.BindGroup(root, group, s.node(spec.HostID))
		if err != nil {
			s.destroy()
			return nil, fmt.Errorf("demo: bind group %q: %w", spec.Name, err)
		}
		s.groups[spec.Name] = gb
	}

	for _, spec := range form.Fields {
		control, ok := form.Group.Get(spec.Path).(*forms.Control)
		if !ok {
			s.destroy()
			return nil, fmt.Errorf("demo: %q is not a control", spec.Path)
		}

		fieldOpts := []binding.FieldOption{binding.WithName(spec.Path)}
		if spec.TargetID != "" {
			fieldOpts = append(fieldOpts, binding.WithTarget(s.node(spec.TargetID)))
		}
		if override, ok := lookupOverride(opts.Fields, spec.Path); ok {
			fieldOpts = append(fieldOpts, formvalidator.FieldOptions(override)...)
		}

		fb, err := binding.BindField(s.parentOf(spec.Path), control, s.node(spec.HostID), fieldOpts...)
		if err != nil {
			s.destroy()
			return nil, fmt.Errorf("demo: bind field %q: %w", spec.Path, err)
		}
		s.fields = append(s.fields, fb)
	}
	return s, nil
}

func lookupOverride(overrides map[string]config.Override, path string) (config.Override, bool) {
	if override, ok := overrides[path]; ok {
		return override, true
	}
	name := path[strings.LastIndex(path, ".")+1:]
	override, ok := overrides[name]
	return override, ok
}

func (s *session) node(id string) *html.Node {
	return dom.Find(s.body, dom.ByID(id))
}

func (s *session) parentOf(path string) *binding.GroupBinding {
	if i := strings.LastIndex(path, "."); i > 0 {
		if gb, ok := s.groups[path[:i]]; ok {
			return gb
		}
	}
	return s.root
}

func (s *session) field(path string) *binding.FieldBinding {
	for _, field := range s.fields {
		if field.Name() == path {
			return field
		}
	}
	return nil
}

func (s *session) enter(path string, value any) {
	control, ok := s.form.Group.Get(path).(*forms.Control)
	if !ok {
		return
	}
	control.Input(value)
	if field := s.field(path); field != nil {
		field.Blur()
	}
}

func (s *session) replay() {
	for _, step := range s.form.Script {
		s.enter(step.Path, step.Value)
	}
}

func (s *session) prompt(ctx context.Context, p Prompter) (bool, error) {
	for _, spec := range s.form.Fields {
		cfg := InputConfig{Message: spec.Label + ":", Help: describe(s.form.Group.Get(spec.Path).Errors())}
		var (
			value string
			err   error
		)
		if spec.Secret {
			value, err = p.Password(ctx, cfg)
		} else {
			value, err = p.Input(ctx, cfg)
		}
		if err != nil {
			return false, err
		}
		s.enter(spec.Path, value)
	}
	return p.Confirm(ctx, ConfirmConfig{Message: "Submit the form?", Default: true})
}

func describe(failures model.Failures) string {
	if failures.Empty() {
		return ""
	}
	return "Currently failing: " + strings.Join(failures.Kinds(), ", ")
}

func (s *session) destroy() {
	for _, field := range s.fields {
		field.Destroy()
	}
	for _, group := range s.groups {
		group.Destroy()
	}
	if s.root != nil {
		s.root.Destroy()
	}
}
