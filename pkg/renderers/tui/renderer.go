// Package tui drives the book page from a terminal: the list prints as a
// table and every action is a survey prompt.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/goliatone/go-bookform/pkg/render"
)

// Renderer implements render.Renderer as plain text.
type Renderer struct {
	theme Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer.
func New(options ...Option) *Renderer {
	cfg := newConfig(options)
	return &Renderer{theme: cfg.theme}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prints the title, any notice or form error, and the record table.
// The actions column is replaced by the record id, which is what the menu
// prompts refer to.
func (r *Renderer) Render(ctx context.Context, view render.PageView, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view.List.Columns = append([]string(nil), view.List.Columns...)
	view.Form.Fields = append([]render.FieldView(nil), view.Form.Fields...)
	render.LocalizePage(&view, opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", view.Title)
	if view.Notice != "" {
		fmt.Fprintf(&buf, "%s%s\n", r.theme.ErrorPrefix, view.Notice)
	}
	if view.Form.ErrorVisible && view.Form.Error != "" {
		fmt.Fprintf(&buf, "%s%s\n", r.theme.ErrorPrefix, view.Form.Error)
	}

	if len(view.List.Rows) == 0 {
		fmt.Fprintf(&buf, "%s%s\n", r.theme.InfoPrefix, view.List.Empty)
		return buf.Bytes(), nil
	}

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(tableHeader(view.List.Columns))
	for _, row := range view.List.Rows {
		table.Append([]string{row.ID, row.Title, row.Author, row.ISBN, row.Price, row.PublishDate, row.Publisher})
	}
	table.Render()
	return buf.Bytes(), nil
}

func tableHeader(columns []string) []string {
	header := []string{"ID"}
	for i, col := range columns {
		if i == 6 {
			break
		}
		header = append(header, col)
	}
	return header
}
