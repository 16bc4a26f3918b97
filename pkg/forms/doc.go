// Package forms is a small reactive form model: controls hold a value and the
// failures produced by their validators, groups aggregate named children, and
// both publish value and status notifications. It is the collaborator field
// and group bindings observe.
//
// Forms are driven from a single goroutine, like the UI event loop they model.
package forms
