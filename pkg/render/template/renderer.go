package template

import (
	"io"
)

// TemplateRenderer is the engine contract message units render through.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// Compiled is a parsed template ready for repeated execution.
type Compiled interface {
	Execute(data any, out ...io.Writer) (string, error)
}

// Compiler parses template source up front so syntax errors surface before
// the first render.
type Compiler interface {
	Compile(templateContent string) (Compiled, error)
}
