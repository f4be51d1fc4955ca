package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-bookform/pkg/render"
)

func sampleView() render.PageView {
	return render.PageView{
		Locale: "ko",
		Title:  "도서 관리",
		List: render.ListView{
			Columns: render.ListColumns(nil, nil, "ko"),
			Rows: []render.RowView{
				{ID: "3", Title: "클린 코드", Author: "로버트", ISBN: "978", Price: "33,000", PublishDate: "2013-12-24", Publisher: "인사이트"},
			},
			Empty: "등록된 도서가 없습니다.",
		},
	}
}

func TestRenderTable(t *testing.T) {
	r := New(WithPromptDriver(&stubDriver{}))

	out, err := r.Render(context.Background(), sampleView(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	got := string(out)
	for _, want := range []string{"도서 관리", "ID", "제목", "출판사", "클린 코드", "33,000", "2013-12-24", "인사이트"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestTableHeaderReplacesActionsWithID(t *testing.T) {
	header := tableHeader(render.ListColumns(nil, nil, "ko"))
	want := []string{"ID", "제목", "저자", "ISBN", "가격", "출판일", "출판사"}
	if strings.Join(header, ",") != strings.Join(want, ",") {
		t.Fatalf("header mismatch\nwant: %v\n got: %v", want, header)
	}
}

func TestRenderEmptyListAndMessages(t *testing.T) {
	r := New(WithTheme(Theme{ErrorPrefix: "[x] ", InfoPrefix: "- "}))

	view := sampleView()
	view.List.Rows = nil
	view.Notice = "도서 목록을 불러오지 못했습니다."
	view.Form.Error = "제목은 필수입니다."
	view.Form.ErrorVisible = true

	out, err := r.Render(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "도서 관리\n[x] 도서 목록을 불러오지 못했습니다.\n[x] 제목은 필수입니다.\n- 등록된 도서가 없습니다.\n"
	if string(out) != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, string(out))
	}
}

func TestRenderTranslatesHeaders(t *testing.T) {
	r := New()

	out, err := r.Render(context.Background(), sampleView(), render.RenderOptions{
		Locale:     "en",
		Translator: render.DefaultCatalog(),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, "Books") || !strings.Contains(got, "Publish date") {
		t.Fatalf("expected english headers:\n%s", got)
	}
}

func TestRenderRequiresLiveContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Render(ctx, sampleView(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}

func TestRendererMetadata(t *testing.T) {
	r := New()
	if r.Name() != "tui" {
		t.Fatalf("unexpected name %q", r.Name())
	}
	if !strings.HasPrefix(r.ContentType(), "text/plain") {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}
