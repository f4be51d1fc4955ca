package render

import "context"

// Renderer turns a PageView into bytes (HTML, plain text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view PageView, options RenderOptions) ([]byte, error)
}

// ConfirmRenderer is implemented by renderers that can show the delete
// confirmation step as its own document.
type ConfirmRenderer interface {
	RenderConfirm(ctx context.Context, view ConfirmView, options RenderOptions) ([]byte, error)
}
