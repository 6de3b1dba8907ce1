// internal/resource/editor.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidTransition is returned when an editor action does not fit its phase.
var ErrInvalidTransition = errors.New("invalid editor transition")

// Phase of a list-editing page.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDialogOpen
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDialogOpen:
		return "dialog-open"
	case PhaseSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Mode of an open dialog.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Editor drives the Idle → DialogOpen → Submitting → Idle cycle of a page
// over a Manager. The draft is a transient copy; nothing reaches the manager
// until Submit.
type Editor[T Entity] struct {
	manager  *Manager[T]
	newDraft func() T

	mu     sync.Mutex
	phase  Phase
	mode   Mode
	editID int64
	draft  T
}

// NewEditor creates an editor. newDraft builds the blank record for create dialogs.
func NewEditor[T Entity](m *Manager[T], newDraft func() T) *Editor[T] {
	return &Editor[T]{manager: m, newDraft: newDraft}
}

// Phase returns the current phase.
func (e *Editor[T]) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Mode returns the mode of the open dialog.
func (e *Editor[T]) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// OpenCreate opens the dialog with a blank draft.
func (e *Editor[T]) OpenCreate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseIdle {
		return fmt.Errorf("open create dialog while %s: %w", e.phase, ErrInvalidTransition)
	}
	e.phase = PhaseDialogOpen
	e.mode = ModeCreate
	e.editID = 0
	e.draft = e.newDraft()
	return nil
}

// OpenEdit opens the dialog with a copy of item.
func (e *Editor[T]) OpenEdit(item T) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseIdle {
		return fmt.Errorf("open edit dialog while %s: %w", e.phase, ErrInvalidTransition)
	}
	e.phase = PhaseDialogOpen
	e.mode = ModeEdit
	e.editID = item.ResourceID()
	e.draft = item
	return nil
}

// Draft returns the current draft.
func (e *Editor[T]) Draft() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Edit changes the draft in place.
func (e *Editor[T]) Edit(fn func(*T)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseDialogOpen {
		return fmt.Errorf("edit draft while %s: %w", e.phase, ErrInvalidTransition)
	}
	fn(&e.draft)
	return nil
}

// Cancel abandons the dialog without any mutation.
func (e *Editor[T]) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseDialogOpen {
		return fmt.Errorf("cancel while %s: %w", e.phase, ErrInvalidTransition)
	}
	e.reset()
	return nil
}

// Submit sends the draft. The editor returns to idle whatever the outcome.
func (e *Editor[T]) Submit(ctx context.Context) (T, error) {
	e.mu.Lock()
	if e.phase != PhaseDialogOpen {
		phase := e.phase
		e.mu.Unlock()
		var zero T
		return zero, fmt.Errorf("submit while %s: %w", phase, ErrInvalidTransition)
	}
	e.phase = PhaseSubmitting
	mode, id, draft := e.mode, e.editID, e.draft
	e.mu.Unlock()

	var (
		saved T
		err   error
	)
	if mode == ModeEdit {
		saved, err = e.manager.Update(ctx, id, draft)
	} else {
		saved, err = e.manager.Create(ctx, draft)
	}

	e.mu.Lock()
	e.reset()
	e.mu.Unlock()
	return saved, err
}

func (e *Editor[T]) reset() {
	var zero T
	e.phase = PhaseIdle
	e.mode = ModeCreate
	e.editID = 0
	e.draft = zero
}
