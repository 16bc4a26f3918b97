package binding

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formvalidator/pkg/config"
	"github.com/goliatone/go-formvalidator/pkg/dom"
	"github.com/goliatone/go-formvalidator/pkg/events"
	"github.com/goliatone/go-formvalidator/pkg/model"
)

// Group is the composite form node a GroupBinding observes.
type Group interface {
	Invalid() bool
	Submitted() bool
	Value() any
	ValueChanges() events.Stream[any]
	StatusChanges() events.Stream[model.Status]
	MarkSubmitted()
}

// SubmitEvent is the host submit notification handed to GroupBinding.Submit.
type SubmitEvent interface {
	PreventDefault()
}

// SubmitFunc adapts a function to SubmitEvent.
type SubmitFunc func()

// PreventDefault calls fn.
func (fn SubmitFunc) PreventDefault() {
	if fn != nil {
		fn()
	}
}

// GroupOption customises a GroupBinding.
type GroupOption func(*groupConfig)

type groupConfig struct {
	skip     bool
	display  *config.Display
	override config.Override
	mounts   dom.Mounts
}

// WithSkipValidate disables display for every field under the group.
func WithSkipValidate(skip bool) GroupOption {
	return func(cfg *groupConfig) {
		cfg.skip = skip
	}
}

// WithDisplay sets the base configuration. Only root groups use it; nested
// groups start from their parent's configuration.
func WithDisplay(display config.Display) GroupOption {
	return func(cfg *groupConfig) {
		d := display
		cfg.display = &d
	}
}

// WithGroupConfig narrows the inherited configuration for the subtree.
func WithGroupConfig(override config.Override) GroupOption {
	return func(cfg *groupConfig) {
		cfg.override = override
	}
}

// WithMounts replaces the mount registry used by the subtree.
func WithMounts(mounts dom.Mounts) GroupOption {
	return func(cfg *groupConfig) {
		if mounts != nil {
			cfg.mounts = mounts
		}
	}
}

// GroupBinding sources FieldEvents for one group and its descendants.
type GroupBinding struct {
	parent  *GroupBinding
	group   Group
	host    *html.Node
	skip    atomic.Bool
	display config.Display
	mounts  dom.Mounts

	local     *events.Subject[model.FieldEvent]
	upstream  *events.Bag
	once      sync.Once
	destroyed atomic.Bool
}

// BindGroup binds group, rendered at host, under parent. Parent is nil for a
// root group.
func BindGroup(parent *GroupBinding, group Group, host *html.Node, opts ...GroupOption) (*GroupBinding, error) {
	if group == nil {
		return nil, ErrNilGroup
	}
	if host == nil {
		return nil, fmt.Errorf("%w: group", ErrNilHost)
	}
	if parent.Destroyed() {
		return nil, fmt.Errorf("%w: group", ErrGroupDestroyed)
	}

	cfg := groupConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	base := config.Default()
	switch {
	case parent != nil:
		base = parent.display
	case cfg.display != nil:
		base = *cfg.display
	}

	mounts := cfg.mounts
	if mounts == nil && parent != nil {
		mounts = parent.mounts
	}
	if mounts == nil {
		mounts = dom.NewRegistry()
	}

	g := &GroupBinding{
		parent:   parent,
		group:    group,
		host:     host,
		display:  cfg.override.Apply(base),
		mounts:   mounts,
		local:    events.NewSubject[model.FieldEvent](),
		upstream: events.NewBag(),
	}
	g.skip.Store(cfg.skip)

	g.upstream.Add(group.StatusChanges().Subscribe(func(model.Status) {
		g.local.Emit(model.FieldEvent{Kind: model.EventStatusChanged, Payload: group.Value()})
	}))
	g.upstream.Add(group.ValueChanges().Subscribe(func(value any) {
		g.local.Emit(model.FieldEvent{Kind: model.EventValueChanged, Payload: value})
	}))

	return g, nil
}

// Events returns this group's events, starting with Initial, merged with
// every ancestor group's events.
func (g *GroupBinding) Events() events.Stream[model.FieldEvent] {
	if g == nil {
		return events.Never[model.FieldEvent]()
	}
	local := events.StartWith[model.FieldEvent](g.local, model.FieldEvent{Kind: model.EventInitial})
	if g.parent == nil {
		return local
	}
	return events.Merge(local, g.parent.Events())
}

// SkipValidate reports whether display is disabled for this group, by its own
// flag, its configuration or any ancestor.
func (g *GroupBinding) SkipValidate() bool {
	if g == nil {
		return false
	}
	return g.skip.Load() || g.display.SkipValidate || g.parent.SkipValidate()
}

// SetSkipValidate changes the group's own flag. Fields consult it on their
// next event.
func (g *GroupBinding) SetSkipValidate(skip bool) {
	g.skip.Store(skip)
}

// Submitted reports whether this group or any ancestor was submitted.
func (g *GroupBinding) Submitted() bool {
	if g == nil {
		return false
	}
	return g.group.Submitted() || g.parent.Submitted()
}

// Submit handles a submit of the host element. Hosts that are not <form>
// elements ignore it. An invalid group has its default action prevented. A
// Submitted event is always emitted for form hosts. Submit reports whether
// the default action was prevented.
func (g *GroupBinding) Submit(ev SubmitEvent) bool {
	if g == nil || !dom.IsElement(g.host, "form") {
		return false
	}
	g.group.MarkSubmitted()

	prevented := false
	if g.group.Invalid() {
		if ev != nil {
			ev.PreventDefault()
		}
		prevented = true
	}
	g.local.Emit(model.FieldEvent{Kind: model.EventSubmitted, Payload: g.group.Value()})
	return prevented
}

// Destroy releases the upstream subscriptions. Later calls do nothing.
func (g *GroupBinding) Destroy() {
	if g == nil {
		return
	}
	g.once.Do(func() {
		g.destroyed.Store(true)
		g.upstream.Unsubscribe()
		g.local.Close()
	})
}

// Destroyed reports whether this group or any ancestor was destroyed.
func (g *GroupBinding) Destroyed() bool {
	if g == nil {
		return false
	}
	return g.destroyed.Load() || g.parent.Destroyed()
}

// Config returns the effective configuration of the group.
func (g *GroupBinding) Config() config.Display {
	return g.display
}

// Parent returns the enclosing group binding, or nil for a root.
func (g *GroupBinding) Parent() *GroupBinding {
	return g.parent
}

// Host returns the element the group is rendered at.
func (g *GroupBinding) Host() *html.Node {
	return g.host
}

// Mounts returns the mount registry shared by the subtree.
func (g *GroupBinding) Mounts() dom.Mounts {
	return g.mounts
}
