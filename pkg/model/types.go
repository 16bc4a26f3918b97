package model

import (
	"fmt"
	"strings"
)

// FormattedError is a display-ready message for a single failure kind.
type FormattedError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// EventKind enumerates the lifecycle events consumed by field bindings.
type EventKind string

const (
	EventInitial       EventKind = "FORM_INITIAL"
	EventValueChanged  EventKind = "VALUE_CHANGES"
	EventStatusChanged EventKind = "STATUS_CHANGES"
	EventSubmitted     EventKind = "FORM_SUBMIT"
	EventBlurred       EventKind = "BLUR"
)

// FieldEvent is a single occurrence on a group or field event stream. Payload
// carries the group value for group-sourced events and is nil for blur.
type FieldEvent struct {
	Kind    EventKind
	Payload any
}

// Status is the aggregate validity of a control or group.
type Status string

const (
	StatusValid    Status = "VALID"
	StatusInvalid  Status = "INVALID"
	StatusDisabled Status = "DISABLED"
)

// State is the interaction state consulted by visibility policies.
type State struct {
	Dirty     bool `json:"dirty"`
	Touched   bool `json:"touched"`
	Submitted bool `json:"submitted"`
}

// Framework selects the rendering strategy for error messages.
type Framework string

const (
	FrameworkNone      Framework = "none"
	FrameworkBootstrap Framework = "bootstrap"
	FrameworkMaterial  Framework = "angular-material"
	FrameworkAuto      Framework = "auto"
)

// ParseFramework normalises a framework name. "default" and the empty string
// map to FrameworkNone; "material" is accepted as an alias.
func ParseFramework(raw string) (Framework, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "default", "plain":
		return FrameworkNone, nil
	case "bootstrap":
		return FrameworkBootstrap, nil
	case "angular-material", "material":
		return FrameworkMaterial, nil
	case "auto":
		return FrameworkAuto, nil
	default:
		return "", fmt.Errorf("model: unknown ui framework %q", raw)
	}
}
