// Package binding attaches validation display to form groups and fields.
//
// A GroupBinding turns a group's status, value and submit notifications into
// a FieldEvent stream that also carries every ancestor group's events. A
// FieldBinding listens to its group's stream plus its own blur events and,
// on each event, formats the control's failures, asks the visibility policy
// whether to show them and mounts or releases the rendered message markup.
//
//	root, _ := binding.BindGroup(nil, form, formNode, binding.WithDisplay(cfg))
//	field, _ := binding.BindField(root, form.Control("email"), inputNode)
//	defer field.Destroy()
package binding
