// Package target resolves where validation messages for a field are mounted.
package target

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-formvalidator/pkg/dom"
)

const (
	// ContainerAttr marks an element whose first descendant target receives
	// the messages of every field placed inside it.
	ContainerAttr = "data-validator-container"
	// TargetAttr marks an explicit mount location.
	TargetAttr = "data-validator-target"

	// FieldWrapperTag and FieldWrapperClass identify a design-system field wrapper.
	FieldWrapperTag   = "mat-form-field"
	FieldWrapperClass = "mat-mdc-form-field"
	// SubscriptClass identifies the wrapper's error subscript region.
	SubscriptClass = "mat-mdc-form-field-subscript-wrapper"
)

// Source describes which rule produced a resolution.
type Source int

const (
	SourceHost Source = iota
	SourceContainer
	SourceTarget
)

func (s Source) String() string {
	switch s {
	case SourceContainer:
		return "container"
	case SourceTarget:
		return "target"
	default:
		return "host"
	}
}

// Explicit carries locations supplied by the caller instead of markup
// attributes. Either field may be nil.
type Explicit struct {
	Container *html.Node
	Target    *html.Node
}

// Resolution is the outcome of Resolve. Anchor is the element views are
// inserted after.
type Resolution struct {
	Anchor   *html.Node
	Source   Source
	Explicit bool
}

// Resolve picks the mount anchor for host: the target inside an enclosing
// container first, then a target declared for the field itself, then the
// host element.
func Resolve(host *html.Node, explicit Explicit) Resolution {
	container := explicit.Container
	if container == nil {
		container = dom.Closest(host, dom.ByAttr(ContainerAttr))
	}
	if container != nil {
		if anchor := dom.Find(container, dom.ByAttr(TargetAttr)); anchor != nil {
			return Resolution{Anchor: anchor, Source: SourceContainer, Explicit: true}
		}
	}

	anchor := explicit.Target
	if anchor == nil {
		anchor = dom.Closest(dom.ParentElement(host), dom.ByAttr(TargetAttr))
	}
	if anchor != nil {
		return Resolution{Anchor: anchor, Source: SourceTarget, Explicit: true}
	}

	return Resolution{Anchor: host, Source: SourceHost}
}

// FieldWrapper returns the nearest design-system field wrapper around host.
func FieldWrapper(host *html.Node) *html.Node {
	return dom.Closest(host, dom.AnyOf(dom.ByTag(FieldWrapperTag), dom.ByClass(FieldWrapperClass)))
}

// SubscriptRegion returns the wrapper's error subscript region, if present.
func SubscriptRegion(wrapper *html.Node) *html.Node {
	return dom.Find(wrapper, dom.ByClass(SubscriptClass))
}
