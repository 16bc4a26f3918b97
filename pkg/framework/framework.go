// Package framework selects the display strategy for a bound field from the
// configured UI framework or, in auto mode, from marker classes on the host.
package framework

import (
	"github.com/goliatone/go-formvalidator/pkg/model"
)

// Kind is the closed set of display strategies.
type Kind int

const (
	Plain Kind = iota
	Grid
	DesignSystem
)

func (k Kind) String() string {
	switch k {
	case Grid:
		return "grid"
	case DesignSystem:
		return "design-system"
	default:
		return "plain"
	}
}

// MessageClasses returns the class string handed to the message unit.
func (k Kind) MessageClasses() string {
	switch k {
	case Grid:
		return "invalid-feedback"
	case DesignSystem:
		return "mat-mdc-form-field-error-wrapper"
	default:
		return ""
	}
}

// MarkerClass returns the class toggled on the host while errors are shown.
// Only the grid strategy uses one.
func (k Kind) MarkerClass() string {
	if k == Grid {
		return "is-invalid"
	}
	return ""
}

// Markers are the presentation hints auto detection works from.
type Markers struct {
	Classes         []string
	HasFieldWrapper bool
}

// Has reports whether class is among the markers.
func (m Markers) Has(class string) bool {
	for _, candidate := range m.Classes {
		if candidate == class {
			return true
		}
	}
	return false
}

// HasAny reports whether any of classes is among the markers.
func (m Markers) HasAny(classes ...string) bool {
	for _, class := range classes {
		if m.Has(class) {
			return true
		}
	}
	return false
}

// Detector maps markers to a strategy.
type Detector interface {
	Detect(markers Markers) Kind
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(Markers) Kind

// Detect calls fn.
func (fn DetectorFunc) Detect(markers Markers) Kind {
	if fn == nil {
		return Plain
	}
	return fn(markers)
}

// GridClasses and DesignSystemClasses are the host classes DefaultDetector
// recognises.
var (
	GridClasses         = []string{"form-control", "form-select", "form-check-input"}
	DesignSystemClasses = []string{"mat-mdc-input-element", "mat-mdc-select"}
)

// DefaultDetector recognises grid form controls first, then design-system
// inputs that sit inside a field wrapper, and falls back to Plain.
var DefaultDetector Detector = DetectorFunc(func(m Markers) Kind {
	if m.HasAny(GridClasses...) {
		return Grid
	}
	if m.HasFieldWrapper && m.HasAny(DesignSystemClasses...) {
		return DesignSystem
	}
	return Plain
})

// Select resolves the strategy for a configured framework. Auto consults
// detector, or DefaultDetector when nil; markers are only read in auto mode.
func Select(configured model.Framework, detector Detector, markers func() Markers) Kind {
	switch configured {
	case model.FrameworkBootstrap:
		return Grid
	case model.FrameworkMaterial:
		return DesignSystem
	case model.FrameworkAuto:
		if detector == nil {
			detector = DefaultDetector
		}
		var m Markers
		if markers != nil {
			m = markers()
		}
		return detector.Detect(m)
	default:
		return Plain
	}
}
