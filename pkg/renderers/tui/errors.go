package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSelection is returned when a choice prompt yields no usable option.
	ErrNoSelection = errors.New("tui: nothing selected")
)
