// Package config holds the display configuration shared by every binding:
// the message catalog, the visibility policy, the UI framework and the message
// unit. Display values are treated as immutable; Override.Apply narrows a
// configuration for a subtree by returning a new value. Files in YAML, JSON or
// TOML are loaded into File and compiled into a Display.
package config
