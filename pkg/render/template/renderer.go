package template

// TemplateRenderer renders a named template with a data value.
type TemplateRenderer interface {
	RenderTemplate(name string, data any) (string, error)
}
