package template

import (
	"io"
)

// TemplateRenderer is the seam HTML adapters render through. Output is
// returned and, when writers are given, also copied to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
