// internal/resource/editor_test.go
package resource

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kingdomseekers/internal/clients"
)

func blankWidget() widget { return widget{} }

func TestEditorCreateCycle(t *testing.T) {
	api := &fakeAPI{}
	m := newWidgets(api)
	e := NewEditor(m, blankWidget)

	assert.Equal(t, PhaseIdle, e.Phase())
	require.NoError(t, e.OpenCreate())
	assert.Equal(t, PhaseDialogOpen, e.Phase())
	assert.Equal(t, ModeCreate, e.Mode())

	require.NoError(t, e.Edit(func(w *widget) { w.Name = "fresh" }))
	api.setList(widget{ID: 8, Name: "fresh"})

	saved, err := e.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", saved.Name)
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Equal(t, 1, api.count(http.MethodPost, "/widgets"))
	assert.Equal(t, 1, api.count(http.MethodGet, "/widgets"))
}

func TestEditorEditUsesUpdate(t *testing.T) {
	api := &fakeAPI{}
	m := newWidgets(api)
	e := NewEditor(m, blankWidget)

	require.NoError(t, e.OpenEdit(widget{ID: 5, Name: "five"}))
	assert.Equal(t, ModeEdit, e.Mode())
	assert.Equal(t, "five", e.Draft().Name)

	_, err := e.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, api.count(http.MethodPut, "/widgets/5"))
}

func TestEditorCancelDoesNotMutate(t *testing.T) {
	api := &fakeAPI{}
	e := NewEditor(newWidgets(api), blankWidget)

	require.NoError(t, e.OpenCreate())
	require.NoError(t, e.Edit(func(w *widget) { w.Name = "abandoned" }))
	require.NoError(t, e.Cancel())

	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Equal(t, widget{}, e.Draft())
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.calls)
}

func TestEditorFailureReturnsToIdleWithoutRefresh(t *testing.T) {
	api := &fakeAPI{}
	api.fail(http.MethodPost, "/widgets", &clients.ServerFailure{StatusCode: http.StatusBadRequest})
	e := NewEditor(newWidgets(api), blankWidget)

	require.NoError(t, e.OpenCreate())
	require.NoError(t, e.Edit(func(w *widget) { w.Name = "x" }))
	_, err := e.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Equal(t, 0, api.count(http.MethodGet, "/widgets"))
}

func TestEditorInvalidTransitions(t *testing.T) {
	e := NewEditor(newWidgets(&fakeAPI{}), blankWidget)

	_, err := e.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, e.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, e.Edit(func(*widget) {}), ErrInvalidTransition)

	require.NoError(t, e.OpenCreate())
	assert.ErrorIs(t, e.OpenCreate(), ErrInvalidTransition)
	assert.ErrorIs(t, e.OpenEdit(widget{ID: 1}), ErrInvalidTransition)
}

func TestNoticesExpire(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	n := NewNotices(6*time.Second, func() time.Time { return now })

	_, ok := n.Active()
	assert.False(t, ok)

	n.Notify(Outcome{Resource: "bookings", Action: ActionCreate, ID: 3})
	got, ok := n.Active()
	require.True(t, ok)
	assert.Equal(t, SeveritySuccess, got.Severity)
	assert.Equal(t, "Booking created successfully!", got.Message)

	now = now.Add(5 * time.Second)
	_, ok = n.Active()
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = n.Active()
	assert.False(t, ok)
}

func TestNoticesDismissAndFanout(t *testing.T) {
	n := NewNotices(time.Minute, nil)
	var seen []Outcome
	f := Fanout(n, NotifierFunc(func(o Outcome) { seen = append(seen, o) }))

	f.Notify(Outcome{Resource: "rooms", Action: ActionRemove, ID: 2})
	assert.Len(t, seen, 1)
	_, ok := n.Active()
	assert.True(t, ok)

	n.Dismiss()
	_, ok = n.Active()
	assert.False(t, ok)
}
