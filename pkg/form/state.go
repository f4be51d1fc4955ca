package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-bookform/pkg/book"
)

// Mode distinguishes creating a new record from editing an existing one.
type Mode int

const (
	ModeIdle Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	default:
		return "idle"
	}
}

// EditState is either Idle or Editing(id). The zero value is Idle.
type EditState struct {
	mode Mode
	id   book.ID
}

// Idle returns the create-mode state.
func Idle() EditState {
	return EditState{}
}

// Editing returns the state that addresses id on the next submit.
func Editing(id book.ID) EditState {
	return EditState{mode: ModeEditing, id: id}
}

// Mode reports the current mode.
func (s EditState) Mode() Mode {
	return s.mode
}

// IsEditing reports whether a record is being edited.
func (s EditState) IsEditing() bool {
	return s.mode == ModeEditing
}

// ID returns the captured record id while editing.
func (s EditState) ID() (book.ID, bool) {
	if s.mode != ModeEditing {
		return 0, false
	}
	return s.id, true
}

// SubmitLabel is the default submit button text for the state.
func (s EditState) SubmitLabel() string {
	if s.IsEditing() {
		return "도서 수정"
	}
	return "도서 등록"
}

// CancelVisible reports whether the cancel control is shown.
func (s EditState) CancelVisible() bool {
	return s.IsEditing()
}

// Token encodes the state for round-tripping through a stateless front-end:
// empty for Idle, the decimal id otherwise.
func (s EditState) Token() string {
	if !s.IsEditing() {
		return ""
	}
	return s.id.String()
}

func (s EditState) String() string {
	if s.IsEditing() {
		return fmt.Sprintf("editing(%s)", s.id)
	}
	return "idle"
}

// ParseToken reverses Token.
func ParseToken(token string) (EditState, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Idle(), nil
	}
	id, err := book.ParseID(token)
	if err != nil {
		return Idle(), fmt.Errorf("form: parse edit state %q: %w", token, err)
	}
	return Editing(id), nil
}
