// Package template defines the template engine seam message units render
// through. The gotemplate subpackage provides the pongo2-backed engine.
package template
