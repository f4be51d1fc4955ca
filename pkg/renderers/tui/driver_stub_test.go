package tui

import (
	"context"
)

// stubDriver replays scripted answers. An empty scripted input accepts the
// prompt default, as survey does. Running out of answers aborts.
type stubDriver struct {
	inputs    []string
	textAreas []string
	selectIdx []int
	confirm   []bool

	inputPos   int
	textPos    int
	selectPos  int
	confirmPos int

	defaults     []string
	selects      []SelectConfig
	questions    []string
	infoMessages []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.defaults = append(s.defaults, cfg.Default)
	if s.inputPos >= len(s.inputs) {
		return "", ErrAborted
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if val == "" {
		return cfg.Default, nil
	}
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", ErrAborted
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	if val == "" {
		return cfg.Default, nil
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.questions = append(s.questions, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, ErrAborted
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, ErrAborted
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

// fieldAnswers returns one scripted input per single line field, title first.
// Remaining entries accept their defaults.
func fieldAnswers(first ...string) []string {
	out := make([]string, 10)
	copy(out, first)
	return out
}
