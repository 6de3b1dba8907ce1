// cmd/kscli/editor.go
package main

import (
	"context"

	"github.com/spf13/cobra"

	"kingdomseekers/internal/resource"
)

// createWith walks the create dialog: open a fresh draft, fill it, submit.
func createWith[T resource.Entity](ctx context.Context, m *resource.Manager[T], newDraft func() T, fill func(*T) error) (T, error) {
	ed := resource.NewEditor(m, newDraft)
	if err := ed.OpenCreate(); err != nil {
		var zero T
		return zero, err
	}
	return fillAndSubmit(ctx, ed, fill)
}

// editWith walks the edit dialog over a copy of item.
func editWith[T resource.Entity](ctx context.Context, m *resource.Manager[T], item T, fill func(*T) error) (T, error) {
	ed := resource.NewEditor(m, func() T { return item })
	if err := ed.OpenEdit(item); err != nil {
		var zero T
		return zero, err
	}
	return fillAndSubmit(ctx, ed, fill)
}

func fillAndSubmit[T resource.Entity](ctx context.Context, ed *resource.Editor[T], fill func(*T) error) (T, error) {
	var fillErr error
	if err := ed.Edit(func(d *T) { fillErr = fill(d) }); err != nil {
		var zero T
		return zero, err
	}
	if fillErr != nil {
		_ = ed.Cancel()
		var zero T
		return zero, fillErr
	}
	return ed.Submit(ctx)
}

// setString copies a flag value into dst when the flag was given.
func setString(cmd *cobra.Command, name string, dst *string, value string) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}
