package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/listing"
	"github.com/goliatone/go-bookform/pkg/render"
)

// Page is the page model a session drives.
type Page interface {
	Load(ctx context.Context) error
	Submit(ctx context.Context, values book.Values) error
	EnterEditMode(ctx context.Context, id book.ID) error
	Cancel()
	Delete(ctx context.Context, id book.ID, confirm listing.Confirmer) (bool, error)
	View() render.PageView
	ClearNotice()
}

type menuAction int

const (
	actionCreate menuAction = iota
	actionEdit
	actionDelete
	actionRefresh
	actionQuit
)

var _ listing.Confirmer = (*Session)(nil)

// Session runs the interactive menu loop.
type Session struct {
	page     Page
	cfg      config
	renderer *Renderer
}

// NewSession binds a page to the terminal.
func NewSession(page Page, options ...Option) *Session {
	cfg := newConfig(options)
	return &Session{
		page:     page,
		cfg:      cfg,
		renderer: &Renderer{theme: cfg.theme},
	}
}

// Run loads the list and loops until the user quits or aborts. Aborting with
// Ctrl+C ends the session without error. Failures the page reports as
// notices are printed once, with the next table.
func (s *Session) Run(ctx context.Context) error {
	_ = s.page.Load(ctx)
	for {
		if err := s.show(ctx); err != nil {
			return err
		}

		action, err := s.menu(ctx)
		if err != nil {
			return quiet(err)
		}

		switch action {
		case actionCreate:
			err = s.fill(ctx)
		case actionEdit:
			err = s.edit(ctx)
		case actionDelete:
			err = s.remove(ctx)
		case actionRefresh:
			_ = s.page.Load(ctx)
		case actionQuit:
			return nil
		}
		if err != nil {
			return quiet(err)
		}
	}
}

// Confirm asks a yes/no question. It satisfies listing.Confirmer.
func (s *Session) Confirm(ctx context.Context, question string) bool {
	ok, err := s.cfg.driver.Confirm(ctx, ConfirmConfig{Message: question})
	return err == nil && ok
}

func (s *Session) show(ctx context.Context) error {
	out, err := s.renderer.Render(ctx, s.page.View(), render.RenderOptions{})
	if err != nil {
		return err
	}
	if _, err := s.cfg.out.Write(out); err != nil {
		return err
	}
	s.page.ClearNotice()
	return nil
}

func (s *Session) menu(ctx context.Context) (menuAction, error) {
	entries := []struct {
		action menuAction
		label  string
	}{
		{actionCreate, s.cfg.tr(render.KeyMenuCreate, "새 도서 등록")},
		{actionEdit, s.cfg.tr(render.KeyMenuEdit, "도서 수정")},
		{actionDelete, s.cfg.tr(render.KeyMenuDelete, "도서 삭제")},
		{actionRefresh, s.cfg.tr(render.KeyMenuRefresh, "새로고침")},
		{actionQuit, s.cfg.tr(render.KeyMenuQuit, "종료")},
	}
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.label
	}

	idx, err := s.cfg.driver.Select(ctx, SelectConfig{
		Message: s.cfg.tr(render.KeyMenuPrompt, "무엇을 하시겠습니까?"),
		Options: labels,
	})
	if err != nil {
		return actionQuit, err
	}
	if idx < 0 || idx >= len(entries) {
		return actionQuit, ErrNoSelection
	}
	return entries[idx].action, nil
}

// fill prompts every field, seeded with the form's current values, and
// submits. A rejected submit may be retried with the entered values kept;
// otherwise the form is cancelled.
func (s *Session) fill(ctx context.Context) error {
	for {
		values := book.EmptyValues()
		for _, field := range s.page.View().Form.Fields {
			answer, err := s.ask(ctx, field)
			if err != nil {
				s.page.Cancel()
				return err
			}
			values[field.ID] = answer
		}

		if err := s.page.Submit(ctx, values); err == nil {
			return nil
		}

		form := s.page.View().Form
		if form.ErrorVisible {
			_ = s.cfg.driver.Info(ctx, s.cfg.theme.ErrorPrefix+form.Error)
		}
		retry, err := s.cfg.driver.Confirm(ctx, ConfirmConfig{
			Message: s.cfg.tr(render.KeyRetry, "다시 입력하시겠습니까?"),
			Default: true,
		})
		if err != nil || !retry {
			s.page.Cancel()
			return err
		}
	}
}

func (s *Session) ask(ctx context.Context, field render.FieldView) (string, error) {
	label := field.Label
	if field.Required {
		label += " *"
	}
	if field.Kind == string(book.FieldKindTextArea) {
		return s.cfg.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: field.Value})
	}
	return s.cfg.driver.Input(ctx, InputConfig{Message: label, Default: field.Value})
}

func (s *Session) edit(ctx context.Context) error {
	id, ok, err := s.pick(ctx)
	if err != nil || !ok {
		return err
	}
	if err := s.page.EnterEditMode(ctx, id); err != nil {
		return nil
	}
	return s.fill(ctx)
}

func (s *Session) remove(ctx context.Context) error {
	id, ok, err := s.pick(ctx)
	if err != nil || !ok {
		return err
	}
	_, _ = s.page.Delete(ctx, id, s)
	return nil
}

// pick asks for one of the displayed rows. ok is false when there is nothing
// to pick.
func (s *Session) pick(ctx context.Context) (book.ID, bool, error) {
	view := s.page.View()
	if len(view.List.Rows) == 0 {
		_ = s.cfg.driver.Info(ctx, s.cfg.theme.InfoPrefix+view.List.Empty)
		return 0, false, nil
	}

	labels := make([]string, len(view.List.Rows))
	for i, row := range view.List.Rows {
		labels[i] = fmt.Sprintf("#%s %s (%s)", row.ID, row.Title, row.Author)
	}
	idx, err := s.cfg.driver.Select(ctx, SelectConfig{
		Message: s.cfg.tr(render.KeyPickBook, "도서를 선택하세요"),
		Options: labels,
	})
	if err != nil {
		return 0, false, err
	}
	if idx < 0 || idx >= len(view.List.Rows) {
		return 0, false, ErrNoSelection
	}
	id, err := book.ParseID(view.List.Rows[idx].ID)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func quiet(err error) error {
	if errors.Is(err, ErrAborted) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
