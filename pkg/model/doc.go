// Package model defines the value types shared by the validation display
// pipeline: ordered validation failures produced by validators, the formatted
// messages rendered next to controls, the lifecycle events flowing through the
// group/field bindings, and the interaction state consulted by visibility
// policies. Types here carry no behaviour beyond small accessors so every
// other package can depend on them without cycles.
package model
