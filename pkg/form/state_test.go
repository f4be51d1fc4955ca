package form_test

import (
	"testing"

	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/form"
)

func TestEditStateLabels(t *testing.T) {
	idle := form.Idle()
	if idle.SubmitLabel() != "도서 등록" || idle.CancelVisible() {
		t.Fatalf("idle state: label %q cancel %v", idle.SubmitLabel(), idle.CancelVisible())
	}

	editing := form.Editing(7)
	if editing.SubmitLabel() != "도서 수정" || !editing.CancelVisible() {
		t.Fatalf("editing state: label %q cancel %v", editing.SubmitLabel(), editing.CancelVisible())
	}
	id, ok := editing.ID()
	if !ok || id != book.ID(7) {
		t.Fatalf("editing id = %v, %v", id, ok)
	}
	if _, ok := idle.ID(); ok {
		t.Fatalf("idle state must not carry an id")
	}
	if (form.EditState{}) != form.Idle() {
		t.Fatalf("zero value must be idle")
	}
}

func TestEditStateTokenRoundTrip(t *testing.T) {
	cases := []form.EditState{form.Idle(), form.Editing(1), form.Editing(9001)}
	for _, state := range cases {
		got, err := form.ParseToken(state.Token())
		if err != nil {
			t.Fatalf("parse %q: %v", state.Token(), err)
		}
		if got != state {
			t.Fatalf("round trip %v -> %q -> %v", state, state.Token(), got)
		}
	}

	if _, err := form.ParseToken("abc"); err == nil {
		t.Fatalf("expected malformed token error")
	}
}
