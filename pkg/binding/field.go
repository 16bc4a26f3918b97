package binding

import (
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formvalidator/pkg/config"
	"github.com/goliatone/go-formvalidator/pkg/dom"
	"github.com/goliatone/go-formvalidator/pkg/events"
	"github.com/goliatone/go-formvalidator/pkg/format"
	"github.com/goliatone/go-formvalidator/pkg/framework"
	"github.com/goliatone/go-formvalidator/pkg/model"
	"github.com/goliatone/go-formvalidator/pkg/render"
	"github.com/goliatone/go-formvalidator/pkg/target"
	"github.com/goliatone/go-formvalidator/pkg/visibility"
)

// Control is the leaf form control a FieldBinding observes.
type Control interface {
	Errors() model.Failures
	Dirty() bool
	Touched() bool
}

// toucher is implemented by controls that can be marked touched on blur.
type toucher interface {
	MarkAsTouched()
}

// State is the display state of a field.
type State int

const (
	Hidden State = iota
	Shown
)

func (s State) String() string {
	if s == Shown {
		return "shown"
	}
	return "hidden"
}

// FieldOption customises a FieldBinding.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	name     string
	skip     bool
	messages map[string]string
	template string
	unit     render.MessageUnit
	explicit target.Explicit
	override config.Override
}

// WithName names the field in log output. The host's name or id attribute is
// used otherwise.
func WithName(name string) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.name = name
	}
}

// WithFieldSkipValidate disables display for the field.
func WithFieldSkipValidate(skip bool) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.skip = skip
	}
}

// WithMessages sets field-local messages keyed by failure kind. They win over
// the catalog but not over a message carried by the failure itself.
func WithMessages(messages map[string]string) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.messages = maps.Clone(messages)
	}
}

// WithMessageTemplate renders the field's messages with a custom template.
// The template receives `errors` and `classes`.
func WithMessageTemplate(source string) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.template = source
	}
}

// WithMessageUnit renders the field's messages with unit.
func WithMessageUnit(unit render.MessageUnit) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.unit = unit
	}
}

// WithTarget mounts messages after node instead of after the host.
func WithTarget(node *html.Node) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.explicit.Target = node
	}
}

// WithContainer mounts messages at the target inside node.
func WithContainer(node *html.Node) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.explicit.Container = node
	}
}

// WithFieldConfig narrows the group configuration for this field.
func WithFieldConfig(override config.Override) FieldOption {
	return func(cfg *fieldConfig) {
		cfg.override = override
	}
}

// FieldBinding displays the validation errors of one control.
type FieldBinding struct {
	parent    *GroupBinding
	control   Control
	host      *html.Node
	name      string
	skip      atomic.Bool
	local     map[string]string
	unit      render.MessageUnit
	explicit  target.Explicit
	display   config.Display
	formatter *format.Formatter

	blur *events.Subject[model.FieldEvent]
	sub  events.Subscription
	once sync.Once

	mu        sync.Mutex
	state     State
	snapshot  string
	view      dom.View
	marker    string
	lastErr   error
	destroyed bool
}

// BindField binds control, rendered at host, under parent and evaluates the
// initial display state.
func BindField(parent *GroupBinding, control Control, host *html.Node, opts ...FieldOption) (*FieldBinding, error) {
	if parent == nil {
		return nil, ErrNoParentGroup
	}
	if control == nil {
		return nil, ErrNilControl
	}
	if host == nil {
		return nil, fmt.Errorf("%w: field", ErrNilHost)
	}
	if parent.Destroyed() {
		return nil, fmt.Errorf("%w: field", ErrGroupDestroyed)
	}

	cfg := fieldConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	name := cfg.name
	if name == "" {
		name = hostName(host)
	}

	f := &FieldBinding{
		parent:   parent,
		control:  control,
		host:     host,
		name:     name,
		local:    cfg.messages,
		unit:     cfg.unit,
		explicit: cfg.explicit,
		display:  cfg.override.Apply(parent.Config()),
		blur:     events.NewSubject[model.FieldEvent](),
	}
	f.formatter = f.display.Formatter()
	f.skip.Store(cfg.skip)

	if cfg.template != "" {
		unit, err := render.Default().Inline(name, cfg.template)
		if err != nil {
			return nil, fmt.Errorf("binding: field %q: %w", name, err)
		}
		f.unit = unit
	}

	if f.display.Framework == model.FrameworkMaterial && target.FieldWrapper(host) == nil {
		return nil, fmt.Errorf("%w: field %q", ErrMissingFieldWrapper, name)
	}

	f.sub = events.Merge[model.FieldEvent](parent.Events(), f.blur).Subscribe(f.handle)
	return f, nil
}

func hostName(host *html.Node) string {
	for _, key := range []string{"name", "id", "formcontrolname"} {
		if v, ok := dom.Attr(host, key); ok && v != "" {
			return v
		}
	}
	return host.Data
}

// Name returns the field name used in log output.
func (f *FieldBinding) Name() string {
	return f.name
}

// Host returns the host element.
func (f *FieldBinding) Host() *html.Node {
	return f.host
}

// State returns the current display state.
func (f *FieldBinding) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastError returns the most recent render or mount failure.
func (f *FieldBinding) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// SkipValidate reports whether display is disabled for the field.
func (f *FieldBinding) SkipValidate() bool {
	return f.skip.Load() || f.display.SkipValidate || f.parent.SkipValidate()
}

// SetSkipValidate changes the field's own flag, effective from the next event.
func (f *FieldBinding) SetSkipValidate(skip bool) {
	f.skip.Store(skip)
}

// Blur marks the control touched, when it supports it, and emits Blurred.
func (f *FieldBinding) Blur() {
	if t, ok := f.control.(toucher); ok {
		t.MarkAsTouched()
	}
	f.blur.Emit(model.FieldEvent{Kind: model.EventBlurred})
}

// Destroy stops listening and releases mounted messages. Later calls do
// nothing.
func (f *FieldBinding) Destroy() {
	f.once.Do(func() {
		if f.sub != nil {
			f.sub.Unsubscribe()
		}
		f.blur.Close()

		f.mu.Lock()
		defer f.mu.Unlock()
		f.destroyed = true
		f.release()
		f.unmark()
		f.snapshot = ""
		f.state = Hidden
	})
}

func (f *FieldBinding) handle(ev model.FieldEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.destroyed {
		return
	}
	f.validate(ev)
}

func (f *FieldBinding) validate(ev model.FieldEvent) {
	if f.SkipValidate() {
		f.release()
		f.hide()
		return
	}

	errs := f.formatter.Format(f.control.Errors(), f.local)
	raw, err := json.Marshal(errs)
	if err != nil {
		f.display.Log().Error("binding: snapshot errors", "field", f.name, "error", err)
		return
	}
	snapshot := string(raw)
	if snapshot == f.snapshot {
		return
	}

	f.release()

	state := model.State{
		Dirty:     f.control.Dirty(),
		Touched:   f.control.Touched(),
		Submitted: f.parent.Submitted(),
	}
	if !visibility.ShouldShow(errs, f.display.VisibleWhen, state) {
		f.hide()
		return
	}

	kind := f.kind()
	view, err := strategyFor(kind)(f, errs)
	if err != nil {
		f.lastErr = err
		f.display.Log().Error("binding: render validation messages",
			"field", f.name, "framework", kind.String(), "event", string(ev.Kind), "error", err)
		f.hide()
		return
	}

	f.view = view
	f.snapshot = snapshot
	f.state = Shown
	if marker := kind.MarkerClass(); marker != "" {
		dom.AddClass(f.host, marker)
		f.marker = marker
	}
	f.display.Log().Debug("binding: messages shown",
		"field", f.name, "framework", kind.String(), "event", string(ev.Kind), "count", len(errs))
}

func (f *FieldBinding) hide() {
	f.snapshot = ""
	f.state = Hidden
	f.unmark()
}

func (f *FieldBinding) unmark() {
	if f.marker != "" {
		dom.RemoveClass(f.host, f.marker)
		f.marker = ""
	}
}

func (f *FieldBinding) release() {
	if f.view != nil {
		f.view.Destroy()
		f.view = nil
	}
}

func (f *FieldBinding) kind() framework.Kind {
	return framework.Select(f.display.Framework, f.display.FrameworkDetector(), func() framework.Markers {
		return framework.Markers{
			Classes:         dom.Classes(f.host),
			HasFieldWrapper: target.FieldWrapper(f.host) != nil,
		}
	})
}
