package binding

import "errors"

var (
	// ErrNoParentGroup is returned when a field is bound without a group.
	ErrNoParentGroup = errors.New("binding: field must be bound inside a group")
	// ErrNilControl is returned when a field binding has no control.
	ErrNilControl = errors.New("binding: control is nil")
	// ErrNilGroup is returned when a group binding has no group.
	ErrNilGroup = errors.New("binding: group is nil")
	// ErrNilHost is returned when the host element is missing.
	ErrNilHost = errors.New("binding: host element is nil")
	// ErrGroupDestroyed is returned when binding under a destroyed group.
	ErrGroupDestroyed = errors.New("binding: group binding is destroyed")
	// ErrMissingFieldWrapper is returned when the design-system strategy is
	// selected for a host that has no enclosing field wrapper.
	ErrMissingFieldWrapper = errors.New("binding: design-system field has no enclosing field wrapper")
)
