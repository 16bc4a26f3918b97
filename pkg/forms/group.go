package forms

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formvalidator/pkg/model"
)

// Group aggregates named controls. Its value is a map of the enabled
// children's values and it is invalid when its own validators fail or any
// enabled child is invalid.
type Group struct {
	base
	names     []string
	controls  map[string]AbstractControl
	submitted bool
}

var _ AbstractControl = (*Group)(nil)

// NewGroup returns an empty group with the given group-level validators.
func NewGroup(validators ...ValidatorFn) *Group {
	g := &Group{controls: make(map[string]AbstractControl)}
	g.base = newBase(validators)
	g.self = g
	return g
}

// Add registers control under name and revalidates the group silently.
// Adding a name twice panics.
func (g *Group) Add(name string, control AbstractControl) *Group {
	name = strings.TrimSpace(name)
	if name == "" || control == nil {
		panic("forms: group control requires a name and a control")
	}
	if _, exists := g.controls[name]; exists {
		panic(fmt.Sprintf("forms: control %q already registered", name))
	}
	control.setParent(g)
	g.names = append(g.names, name)
	g.controls[name] = control
	g.UpdateValueAndValidity(OnlySelf(), Silent())
	return g
}

// Names returns the control names in registration order.
func (g *Group) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Control returns the direct child called name.
func (g *Group) Control(name string) AbstractControl {
	return g.controls[name]
}

// Get resolves a dotted path such as "address.city".
func (g *Group) Get(path string) AbstractControl {
	var current AbstractControl = g
	for _, segment := range strings.Split(path, ".") {
		group, ok := current.(*Group)
		if !ok {
			return nil
		}
		next, ok := group.controls[strings.TrimSpace(segment)]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// Value returns the values of the enabled children keyed by name.
func (g *Group) Value() any {
	out := make(map[string]any, len(g.names))
	for _, name := range g.names {
		control := g.controls[name]
		if control.Disabled() {
			continue
		}
		out[name] = control.Value()
	}
	return out
}

// Submitted reports whether the group was submitted since the last reset.
func (g *Group) Submitted() bool { return g.submitted }

// MarkSubmitted records a submit attempt.
func (g *Group) MarkSubmitted() { g.submitted = true }

// MarkAllAsTouched touches every descendant control.
func (g *Group) MarkAllAsTouched() {
	g.touched = true
	for _, name := range g.names {
		switch control := g.controls[name].(type) {
		case *Group:
			control.MarkAllAsTouched()
		default:
			control.MarkAsTouched()
		}
	}
}

// Reset resets every child and clears the submitted flag.
func (g *Group) Reset() {
	g.submitted = false
	g.dirty = false
	g.touched = false
	for _, name := range g.names {
		switch control := g.controls[name].(type) {
		case *Control:
			control.dirty = false
			control.touched = false
			control.value = control.initial
			control.UpdateValueAndValidity(OnlySelf(), Silent())
		case *Group:
			control.Reset()
		}
	}
	g.UpdateValueAndValidity()
}

func (g *Group) childrenInvalid() bool {
	for _, name := range g.names {
		control := g.controls[name]
		if !control.Disabled() && control.Status() == model.StatusInvalid {
			return true
		}
	}
	return false
}
