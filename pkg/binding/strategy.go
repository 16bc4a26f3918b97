package binding

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formvalidator/pkg/dom"
	"github.com/goliatone/go-formvalidator/pkg/framework"
	"github.com/goliatone/go-formvalidator/pkg/model"
	"github.com/goliatone/go-formvalidator/pkg/render"
	"github.com/goliatone/go-formvalidator/pkg/target"
)

// strategy renders and mounts errs for one framework kind.
type strategy func(f *FieldBinding, errs []model.FormattedError) (dom.View, error)

func strategyFor(kind framework.Kind) strategy {
	switch kind {
	case framework.Grid:
		return showGrid
	case framework.DesignSystem:
		return showDesignSystem
	default:
		return showPlain
	}
}

// showPlain mounts after the resolved target.
func showPlain(f *FieldBinding, errs []model.FormattedError) (dom.View, error) {
	res := target.Resolve(f.host, f.explicit)
	return f.mount(res.Anchor, f.unitFor(framework.Plain), framework.Plain.MessageClasses(), errs)
}

// showGrid mounts after the resolved target. Without an explicit target the
// messages move to the end of the host's parent element, after any input
// group addons.
func showGrid(f *FieldBinding, errs []model.FormattedError) (dom.View, error) {
	res := target.Resolve(f.host, f.explicit)
	view, err := f.mount(res.Anchor, f.unitFor(framework.Grid), framework.Grid.MessageClasses(), errs)
	if err != nil {
		return nil, err
	}
	if res.Explicit {
		return view, nil
	}
	if parent := dom.ParentElement(f.host); parent != nil {
		if err := appendAll(parent, view.RootNodes()); err != nil {
			view.Destroy()
			return nil, err
		}
	}
	return view, nil
}

// showDesignSystem mounts after the host and moves the messages into the
// subscript region of the enclosing field wrapper.
func showDesignSystem(f *FieldBinding, errs []model.FormattedError) (dom.View, error) {
	wrapper := target.FieldWrapper(f.host)
	if wrapper == nil {
		return nil, fmt.Errorf("%w: field %q", ErrMissingFieldWrapper, f.name)
	}
	view, err := f.mount(f.host, f.unitFor(framework.DesignSystem), framework.DesignSystem.MessageClasses(), errs)
	if err != nil {
		return nil, err
	}
	region := target.SubscriptRegion(wrapper)
	if region == nil {
		region = wrapper
	}
	if err := appendAll(region, view.RootNodes()); err != nil {
		view.Destroy()
		return nil, err
	}
	return view, nil
}

func appendAll(parent *html.Node, nodes []*html.Node) error {
	for _, node := range nodes {
		if err := dom.AppendChild(parent, node); err != nil {
			return fmt.Errorf("binding: relocate messages: %w", err)
		}
	}
	return nil
}

// unitFor picks the field's own unit, then the design-system default when no
// unit is configured, then the configured or built-in unit.
func (f *FieldBinding) unitFor(kind framework.Kind) render.MessageUnit {
	if f.unit != nil {
		return f.unit
	}
	if kind == framework.DesignSystem && f.display.MessageUnit == nil {
		return render.MaterialUnit()
	}
	return f.display.Unit()
}

func (f *FieldBinding) mount(anchor *html.Node, unit render.MessageUnit, classes string, errs []model.FormattedError) (dom.View, error) {
	markup, err := unit.RenderMessages(errs, classes)
	if err != nil {
		return nil, fmt.Errorf("binding: render %q: %w", unit.Name(), err)
	}
	mp := f.parent.Mounts().ContainerFor(anchor)
	view, err := mp.Insert(mp.Len(), markup)
	if err != nil {
		return nil, fmt.Errorf("binding: mount %q: %w", unit.Name(), err)
	}
	return view, nil
}
