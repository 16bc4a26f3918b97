// Package formvalidator shows validation messages next to reactive form
// controls.
//
// A GroupBinding attaches to the element hosting a form or nested group and
// fans lifecycle events (status changes, value changes, submits) down to its
// descendants. A FieldBinding attaches to a control's host element, formats
// the control's failures through the message catalog, decides visibility from
// the interaction state and mounts the rendered messages in the place the
// detected CSS framework expects.
//
// Most applications only need the helpers in this package:
//
//	display, fields, err := formvalidator.LoadConfig("validation.yaml")
//	root, err := formvalidator.BindGroup(nil, form, formNode, formvalidator.WithDisplay(display))
//	email, err := formvalidator.BindField(root, form.Get("email"), inputNode)
//
// The subpackages hold the building blocks: pkg/forms (reactive controls),
// pkg/validators, pkg/format (message catalog), pkg/visibility, pkg/render
// (message units), pkg/framework (layout detection) and pkg/schema (controls
// derived from OpenAPI request bodies).
package formvalidator
