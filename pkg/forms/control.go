package forms

import (
	"github.com/goliatone/go-formvalidator/pkg/events"
	"github.com/goliatone/go-formvalidator/pkg/model"
)

// ValidatorFn inspects a control and returns its failures, or nil when valid.
type ValidatorFn func(AbstractControl) model.Failures

// AbstractControl is implemented by *Control and *Group.
type AbstractControl interface {
	Value() any
	Errors() model.Failures
	Status() model.Status
	Valid() bool
	Invalid() bool
	Disabled() bool
	Dirty() bool
	Touched() bool
	Parent() *Group
	Root() AbstractControl
	ValueChanges() events.Stream[any]
	StatusChanges() events.Stream[model.Status]
	UpdateValueAndValidity(opts ...UpdateOption)
	SetErrors(failures model.Failures, opts ...UpdateOption)
	MarkAsDirty()
	MarkAsTouched()
	MarkAsPristine()
	MarkAsUntouched()

	setParent(*Group)
	childrenInvalid() bool
}

// UpdateOption tunes UpdateValueAndValidity and SetErrors.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	onlySelf bool
	silent   bool
}

// OnlySelf stops propagation to the parent.
func OnlySelf() UpdateOption {
	return func(o *updateOptions) { o.onlySelf = true }
}

// Silent suppresses value and status notifications.
func Silent() UpdateOption {
	return func(o *updateOptions) { o.silent = true }
}

func collect(opts []UpdateOption) updateOptions {
	var out updateOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

// base carries the state shared by controls and groups. self points back at
// the embedding value so hooks dispatch to the concrete type.
type base struct {
	self       AbstractControl
	parent     *Group
	validators []ValidatorFn

	errors   model.Failures
	status   model.Status
	disabled bool
	dirty    bool
	touched  bool

	valueChanges  *events.Subject[any]
	statusChanges *events.Subject[model.Status]
}

func newBase(validators []ValidatorFn) base {
	return base{
		validators:    validators,
		status:        model.StatusValid,
		valueChanges:  events.NewSubject[any](),
		statusChanges: events.NewSubject[model.Status](),
	}
}

func (b *base) Errors() model.Failures { return b.errors }
func (b *base) Status() model.Status   { return b.status }
func (b *base) Valid() bool            { return b.status == model.StatusValid }
func (b *base) Invalid() bool          { return b.status == model.StatusInvalid }
func (b *base) Disabled() bool         { return b.disabled }
func (b *base) Dirty() bool            { return b.dirty }
func (b *base) Touched() bool          { return b.touched }
func (b *base) Parent() *Group         { return b.parent }

func (b *base) setParent(g *Group) { b.parent = g }

// Root returns the top-most ancestor, or the control itself.
func (b *base) Root() AbstractControl {
	var root AbstractControl = b.self
	for root.Parent() != nil {
		root = root.Parent()
	}
	return root
}

// ValueChanges publishes the value after every update.
func (b *base) ValueChanges() events.Stream[any] { return b.valueChanges }

// StatusChanges publishes the status after every update.
func (b *base) StatusChanges() events.Stream[model.Status] { return b.statusChanges }

// MarkAsDirty marks the control and its ancestors as edited.
func (b *base) MarkAsDirty() {
	b.dirty = true
	if b.parent != nil {
		b.parent.MarkAsDirty()
	}
}

// MarkAsTouched marks the control and its ancestors as visited.
func (b *base) MarkAsTouched() {
	b.touched = true
	if b.parent != nil {
		b.parent.MarkAsTouched()
	}
}

// MarkAsPristine clears the dirty flag.
func (b *base) MarkAsPristine() { b.dirty = false }

// MarkAsUntouched clears the touched flag.
func (b *base) MarkAsUntouched() { b.touched = false }

// AddValidators appends validators; they run on the next update.
func (b *base) AddValidators(validators ...ValidatorFn) {
	b.validators = append(b.validators, validators...)
}

// UpdateValueAndValidity reruns the validators, recalculates the status,
// notifies subscribers and propagates to the parent.
func (b *base) UpdateValueAndValidity(opts ...UpdateOption) {
	o := collect(opts)
	if b.disabled {
		b.errors = nil
		b.status = model.StatusDisabled
	} else {
		b.errors = b.runValidators()
		b.status = b.calculateStatus()
	}
	if !o.silent {
		b.valueChanges.Emit(b.self.Value())
		b.statusChanges.Emit(b.status)
	}
	if !o.onlySelf && b.parent != nil {
		b.parent.UpdateValueAndValidity(opts...)
	}
}

// SetErrors replaces the failures without running validators and refreshes
// the status of this control and its ancestors.
func (b *base) SetErrors(failures model.Failures, opts ...UpdateOption) {
	b.errors = failures
	b.refreshStatus(collect(opts))
}

func (b *base) refreshStatus(o updateOptions) {
	if b.disabled {
		b.status = model.StatusDisabled
	} else {
		b.status = b.calculateStatus()
	}
	if !o.silent {
		b.statusChanges.Emit(b.status)
	}
	if b.parent != nil {
		b.parent.refreshStatus(o)
	}
}

func (b *base) runValidators() model.Failures {
	if len(b.validators) == 0 {
		return nil
	}
	sets := make([]model.Failures, 0, len(b.validators))
	for _, validate := range b.validators {
		if validate == nil {
			continue
		}
		sets = append(sets, validate(b.self))
	}
	return model.Merge(sets...)
}

func (b *base) calculateStatus() model.Status {
	if !b.errors.Empty() || b.self.childrenInvalid() {
		return model.StatusInvalid
	}
	return model.StatusValid
}

// Control is a leaf form control.
type Control struct {
	base
	value   any
	initial any
}

var _ AbstractControl = (*Control)(nil)

// NewControl returns a control holding value, validated once without
// notifications.
func NewControl(value any, validators ...ValidatorFn) *Control {
	c := &Control{value: value, initial: value}
	c.base = newBase(validators)
	c.self = c
	c.UpdateValueAndValidity(OnlySelf(), Silent())
	return c
}

// Value returns the current value.
func (c *Control) Value() any { return c.value }

// SetValue replaces the value programmatically and revalidates.
func (c *Control) SetValue(value any, opts ...UpdateOption) {
	c.value = value
	c.UpdateValueAndValidity(opts...)
}

// Input records a user edit: the control becomes dirty, then takes value.
func (c *Control) Input(value any) {
	c.MarkAsDirty()
	c.SetValue(value)
}

// Reset restores the initial value and clears the interaction flags.
func (c *Control) Reset() {
	c.dirty = false
	c.touched = false
	c.SetValue(c.initial)
}

// Disable excludes the control from validation and from its group's value.
func (c *Control) Disable() {
	c.disabled = true
	c.UpdateValueAndValidity()
}

// Enable reverses Disable.
func (c *Control) Enable() {
	c.disabled = false
	c.UpdateValueAndValidity()
}

func (c *Control) childrenInvalid() bool { return false }
