package models

import (
	"errors"
	"fmt"
)

var ErrShapeMismatch = errors.New("shape mismatch")
var ErrUnknownLabel = errors.New("unknown label")
var ErrInputTooLong = errors.New("input too long")
var ErrEmptyText = errors.New("text is empty")
var ErrBackendUnavailable = errors.New("inference backend unavailable")

// ShapeMismatchError signals that the inference backend returned score
// vectors whose dimensionality does not match the label set. The decoder
// never pads or truncates around it.
type ShapeMismatchError struct {
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("score vector has %d classes, label set has %d", e.Got, e.Want)
}

func (e *ShapeMismatchError) Unwrap() error {
	return ErrShapeMismatch
}

func NewShapeMismatchError(want, got int) error {
	return &ShapeMismatchError{Want: want, Got: got}
}

// UnknownLabelError signals a tag name outside the closed label enumeration,
// i.e. a configuration mismatch between model and engine.
type UnknownLabelError struct {
	Name string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown label %q", e.Name)
}

func (e *UnknownLabelError) Unwrap() error {
	return ErrUnknownLabel
}

func NewUnknownLabelError(name string) error {
	return &UnknownLabelError{Name: name}
}

// InputTooLongError signals an input exceeding the inference backend's
// sequence length budget. Recoverable per-item in batch mode.
type InputTooLongError struct {
	Tokens int
	Budget int
}

func (e *InputTooLongError) Error() string {
	return fmt.Sprintf("input tokenizes to %d tokens, budget is %d", e.Tokens, e.Budget)
}

func (e *InputTooLongError) Unwrap() error {
	return ErrInputTooLong
}

func NewInputTooLongError(tokens, budget int) error {
	return &InputTooLongError{Tokens: tokens, Budget: budget}
}
