// internal/resource/manager.go

// Package resource implements the list-backed view model shared by every
// collection the administration API exposes: fetch the collection, mutate
// one record, then re-synchronize the whole list from the server.
package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"kingdomseekers/internal/clients"
)

var (
	// ErrUnsupported is returned for operations the route table does not offer.
	ErrUnsupported = errors.New("operation not supported for resource")
	// ErrClosed is returned when a closed manager is asked to mutate.
	ErrClosed = errors.New("resource manager closed")
)

// Entity is a record with a server-assigned integer identifier.
type Entity interface {
	ResourceID() int64
}

// Validator is implemented by drafts that can check their required fields.
type Validator interface {
	Validate() error
}

// Routes is the per-resource route table.
type Routes struct {
	// Collection is the collection path, e.g. "/members".
	Collection string
	Update     bool
	Delete     bool
}

func (r Routes) item(id int64) string {
	return r.Collection + "/" + strconv.FormatInt(id, 10)
}

// FieldPatch is a narrow mutation addressed below an item,
// e.g. PATCH /members/{id}/vetting?status=APPROVED.
type FieldPatch struct {
	Field string
	Path  string
	Query url.Values
}

// Manager mediates between a list view and a remote collection.
type Manager[T Entity] struct {
	client   clients.Doer
	name     string
	routes   Routes
	logger   *zap.Logger
	notifier Notifier

	mu         sync.RWMutex
	items      []T
	loaded     bool
	generation uint64
	closed     bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	logger   *zap.Logger
	notifier Notifier
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(o *managerOptions) { o.logger = l }
}

// WithNotifier sets where mutation outcomes are reported.
func WithNotifier(n Notifier) ManagerOption {
	return func(o *managerOptions) { o.notifier = n }
}

// NewManager creates a manager for the named resource.
func NewManager[T Entity](client clients.Doer, name string, routes Routes, opts ...ManagerOption) *Manager[T] {
	o := managerOptions{logger: zap.NewNop(), notifier: nopNotifier{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[T]{
		client:   client,
		name:     name,
		routes:   routes,
		logger:   o.logger.With(zap.String("resource", name)),
		notifier: o.notifier,
	}
}

// Name returns the resource name.
func (m *Manager[T]) Name() string { return m.name }

// Routes returns the manager's route table.
func (m *Manager[T]) Routes() Routes { return m.routes }

// Items returns a copy of the local state, in server order.
func (m *Manager[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Loaded reports whether a list has been applied since creation or Close.
func (m *Manager[T]) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Find looks up a locally held record.
func (m *Manager[T]) Find(id int64) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ResourceID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Close drops local state and discards responses still in flight.
func (m *Manager[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.generation++
	m.items = nil
	m.loaded = false
}

// List fetches the whole collection and replaces local state with it.
// On failure local state is left untouched.
func (m *Manager[T]) List(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	var items []T
	err := m.client.Do(ctx, clients.Request{Method: http.MethodGet, Path: m.routes.Collection}, &items)
	if err != nil {
		m.logger.Error("failed to list", zap.String("op", "list"), zap.Error(err))
		return nil, fmt.Errorf("list %s: %w", m.name, err)
	}
	if items == nil {
		items = []T{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.generation {
		m.logger.Debug("discarding stale list response",
			zap.Uint64("generation", gen),
			zap.Uint64("current", m.generation))
		return items, nil
	}
	m.items = items
	m.loaded = true
	return items, nil
}

// Get fetches one record without touching local state.
func (m *Manager[T]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	if err := m.client.Do(ctx, clients.Request{Method: http.MethodGet, Path: m.routes.item(id)}, &item); err != nil {
		return item, fmt.Errorf("get %s %d: %w", m.name, id, err)
	}
	return item, nil
}

// Query runs a server-side lookup below the collection path, e.g.
// Query(ctx, "/vetting/PENDING", nil). Local state is not touched.
func (m *Manager[T]) Query(ctx context.Context, path string, params url.Values) ([]T, error) {
	var items []T
	req := clients.Request{Method: http.MethodGet, Path: m.routes.Collection + path, Query: params}
	if err := m.client.Do(ctx, req, &items); err != nil {
		m.logger.Error("failed to query", zap.String("op", "query"), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("query %s%s: %w", m.routes.Collection, path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Lookup fetches a single record addressed below the collection path, e.g.
// Lookup(ctx, "/reference/HG-1"). Local state is not touched.
func (m *Manager[T]) Lookup(ctx context.Context, path string) (T, error) {
	var item T
	req := clients.Request{Method: http.MethodGet, Path: m.routes.Collection + path}
	if err := m.client.Do(ctx, req, &item); err != nil {
		return item, fmt.Errorf("lookup %s%s: %w", m.routes.Collection, path, err)
	}
	return item, nil
}

// Create submits a new record and then refreshes the list.
func (m *Manager[T]) Create(ctx context.Context, draft T) (T, error) {
	var created T
	err := m.mutate(ctx, ActionCreate, 0, func() error {
		if err := validate(m.name, draft); err != nil {
			return err
		}
		return m.client.Do(ctx, clients.Request{Method: http.MethodPost, Path: m.routes.Collection, Body: draft}, &created)
	})
	return created, err
}

// Update replaces the record with the given id and then refreshes the list.
func (m *Manager[T]) Update(ctx context.Context, id int64, patch T) (T, error) {
	var updated T
	err := m.mutate(ctx, ActionUpdate, id, func() error {
		if !m.routes.Update {
			return ErrUnsupported
		}
		if err := validate(m.name, patch); err != nil {
			return err
		}
		return m.client.Do(ctx, clients.Request{Method: http.MethodPut, Path: m.routes.item(id), Body: patch}, &updated)
	})
	return updated, err
}

// Patch applies a narrow field mutation and then refreshes the list.
func (m *Manager[T]) Patch(ctx context.Context, id int64, p FieldPatch) (T, error) {
	var patched T
	err := m.mutate(ctx, ActionPatch, id, func() error {
		req := clients.Request{Method: http.MethodPatch, Path: m.routes.item(id) + p.Path, Query: p.Query}
		return m.client.Do(ctx, req, &patched)
	}, zap.String("field", p.Field))
	return patched, err
}

// Remove deletes the record with the given id and then refreshes the list.
func (m *Manager[T]) Remove(ctx context.Context, id int64) error {
	return m.mutate(ctx, ActionRemove, id, func() error {
		if !m.routes.Delete {
			return ErrUnsupported
		}
		return m.client.Do(ctx, clients.Request{Method: http.MethodDelete, Path: m.routes.item(id)}, nil)
	})
}

func (m *Manager[T]) mutate(ctx context.Context, action Action, id int64, send func() error, fields ...zap.Field) error {
	logger := m.logger.With(zap.String("op", string(action)))
	if id != 0 {
		logger = logger.With(zap.Int64("id", id))
	}
	logger = logger.With(fields...)

	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()

	var err error
	if closed {
		err = ErrClosed
	} else {
		err = send()
	}
	if err != nil {
		logger.Error("mutation failed", zap.Error(err))
		err = fmt.Errorf("%s %s: %w", action, m.name, err)
		m.notifier.Notify(Outcome{Resource: m.name, Action: action, ID: id, Err: err})
		return err
	}

	logger.Info("mutation succeeded")
	m.notifier.Notify(Outcome{Resource: m.name, Action: action, ID: id})

	// A failed refresh is logged by List; the mutation itself stands.
	_, _ = m.List(ctx)
	return nil
}

func validate(name string, draft any) error {
	v, ok := draft.(Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		var gap *ValidationGap
		if errors.As(err, &gap) && gap.Resource == "" {
			gap.Resource = name
		}
		return err
	}
	return nil
}
