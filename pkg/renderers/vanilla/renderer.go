// Package vanilla renders the book page as server-side HTML using the pongo2
// engine with autoescaping. It needs no client-side script: edit, delete and
// cancel are plain links and form posts.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-bookform/pkg/render"
	rendertemplate "github.com/goliatone/go-bookform/pkg/render/template"
	"github.com/goliatone/go-bookform/pkg/render/template/gotemplate"
)

// Routes are the URL patterns the page links to. %s is replaced by the record
// id.
type Routes struct {
	Edit       string
	Delete     string
	Cancel     string
	Home       string
	Stylesheet string
}

// DefaultRoutes match the web front-end.
func DefaultRoutes() Routes {
	return Routes{
		Edit:       "/books/%s/edit",
		Delete:     "/books/%s/delete",
		Cancel:     "/cancel",
		Home:       "/",
		Stylesheet: "/assets/" + StylesheetName,
	}
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	routes     Routes
	funcs      map[string]any
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithRoutes overrides the link patterns. Empty entries keep their default.
func WithRoutes(routes Routes) Option {
	return func(cfg *config) {
		if routes.Edit != "" {
			cfg.routes.Edit = routes.Edit
		}
		if routes.Delete != "" {
			cfg.routes.Delete = routes.Delete
		}
		if routes.Cancel != "" {
			cfg.routes.Cancel = routes.Cancel
		}
		if routes.Home != "" {
			cfg.routes.Home = routes.Home
		}
		if routes.Stylesheet != "" {
			cfg.routes.Stylesheet = routes.Stylesheet
		}
	}
}

// WithTemplateFuncs registers helpers (for example render.TemplateI18nFuncs)
// with the default engine.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.funcs[name] = fn
		}
	}
}

// Renderer implements render.Renderer and render.ConfirmRenderer.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	routes    Routes
}

var (
	_ render.Renderer        = (*Renderer)(nil)
	_ render.ConfirmRenderer = (*Renderer)(nil)
)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), routes: DefaultRoutes()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine, err := gotemplate.New(
		gotemplate.WithFS(cfg.templateFS),
		gotemplate.WithTemplateFunc(cfg.funcs),
	)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
	}

	return &Renderer{templates: engine, routes: cfg.routes}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type fieldData struct {
	render.FieldView
	ControlID string `json:"controlId"`
	InputType string `json:"inputType"`
	Step      string `json:"step,omitempty"`
}

type rowData struct {
	render.RowView
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
	EditHref        string `json:"editHref"`
	DeleteHref      string `json:"deleteHref"`
}

// Render produces the full page: form, error area, notice and table.
func (r *Renderer) Render(_ context.Context, view render.PageView, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	view = clonePage(view)
	render.LocalizePage(&view, opts)
	if len(opts.HiddenFields) > 0 {
		base := make(map[string]string, len(view.Form.Hidden))
		for _, h := range view.Form.Hidden {
			base[h.Name] = h.Value
		}
		view.Form.Hidden = render.SortedHiddenFields(render.MergeHiddenFields(base, hiddenList(opts.HiddenFields)...))
	}

	fields := make([]fieldData, 0, len(view.Form.Fields))
	for _, f := range view.Form.Fields {
		fields = append(fields, fieldData{
			FieldView: f,
			ControlID: controlID(f.ID),
			InputType: inputType(f.Kind),
			Step:      inputStep(f.Kind),
		})
	}

	rows := make([]rowData, 0, len(view.List.Rows))
	for _, row := range view.List.Rows {
		rows = append(rows, rowData{
			RowView:         row,
			DescriptionHTML: sanitizeDescription(row.Description),
			EditHref:        r.href(r.routes.Edit, row.ID),
			DeleteHref:      r.href(r.routes.Delete, row.ID),
		})
	}

	result, err := r.templates.RenderTemplate("page", map[string]any{
		"page":         view,
		"fields":       fields,
		"rows":         rows,
		"classes":      chromeClasses(),
		"cancelAction": r.routes.Cancel,
		"stylesheet":   r.routes.Stylesheet,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderConfirm produces the delete confirmation page.
func (r *Renderer) RenderConfirm(_ context.Context, view render.ConfirmView, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if view.Action == "" {
		view.Action = r.href(r.routes.Delete, view.Row.ID)
	}
	if view.Back == "" {
		view.Back = r.routes.Home
	}
	if opts.Translator != nil {
		locale := opts.Locale
		if locale == "" {
			locale = view.Locale
		}
		view.Locale = render.ResolveLocale(locale)
		view.Question = render.Translate(opts.Translator, opts.OnMissing, locale, render.KeyDeleteConfirm, view.Question)
		view.Yes = render.Translate(opts.Translator, opts.OnMissing, locale, render.KeyConfirmYes, view.Yes)
		view.No = render.Translate(opts.Translator, opts.OnMissing, locale, render.KeyConfirmNo, view.No)
		view.Title = render.Translate(opts.Translator, opts.OnMissing, locale, render.KeyPageTitle, view.Title)
	}

	result, err := r.templates.RenderTemplate("confirm", map[string]any{
		"confirm":    view,
		"hidden":     render.SortedHiddenFields(opts.HiddenFields),
		"classes":    chromeClasses(),
		"stylesheet": r.routes.Stylesheet,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render confirm template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) href(pattern, id string) string {
	if !strings.Contains(pattern, "%s") {
		return pattern
	}
	return fmt.Sprintf(pattern, id)
}

func hiddenList(fields map[string]string) []render.HiddenField {
	return render.SortedHiddenFields(fields)
}

func clonePage(view render.PageView) render.PageView {
	out := view
	out.Form.Fields = append([]render.FieldView(nil), view.Form.Fields...)
	out.Form.Hidden = append([]render.HiddenField(nil), view.Form.Hidden...)
	out.List.Rows = append([]render.RowView(nil), view.List.Rows...)
	out.List.Columns = append([]string(nil), view.List.Columns...)
	return out
}
