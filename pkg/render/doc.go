// Package render turns formatted validation errors into HTML markup through
// message units. Units are backed by pongo2 templates: the built-in default and
// material units are embedded, themes may swap them through go-theme partials,
// and callers may supply inline templates that are parsed when the unit is
// built. Rendered markup is sanitised with bluemonday before it reaches the
// document.
package render
