// Package memory is an in-process implementation of the store repositories.
// It backs STORE_DRIVER=memory for local development and the handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/nonprofit-site-go/store"
)

// table is a mutex-guarded slice with an optional unique key. Rows cross
// the table boundary through clone so callers never share pointer or slice
// fields with stored rows.
type table[T any] struct {
	mu     sync.RWMutex
	rows   []T
	unique func(*T) string
	less   func(a, b *T) bool
	clone  func(T) T
}

func (t *table[T]) copyOf(row T) T {
	if t.clone == nil {
		return row
	}
	return t.clone(row)
}

func (t *table[T]) insert(row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unique != nil {
		key := t.unique(&row)
		for i := range t.rows {
			if t.unique(&t.rows[i]) == key {
				return store.ErrDuplicate
			}
		}
	}
	t.rows = append(t.rows, t.copyOf(row))
	return nil
}

func (t *table[T]) find(match func(*T) bool) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.rows {
		if match(&t.rows[i]) {
			out := t.copyOf(t.rows[i])
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (t *table[T]) list(match func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []T{}
	for i := range t.rows {
		if match(&t.rows[i]) {
			out = append(out, t.copyOf(t.rows[i]))
		}
	}
	if t.less != nil {
		sort.SliceStable(out, func(i, j int) bool { return t.less(&out[i], &out[j]) })
	}
	return out
}

func (t *table[T]) count(match func(*T) bool) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for i := range t.rows {
		if match(&t.rows[i]) {
			n++
		}
	}
	return n
}

// update mutates the first matching row in place. A unique-key collision
// introduced by the mutation is rolled back.
func (t *table[T]) update(match func(*T) bool, mutate func(*T)) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if !match(&t.rows[i]) {
			continue
		}
		before := t.rows[i]
		mutate(&t.rows[i])
		if t.unique != nil {
			key := t.unique(&t.rows[i])
			for j := range t.rows {
				if j != i && t.unique(&t.rows[j]) == key {
					t.rows[i] = before
					return nil, store.ErrDuplicate
				}
			}
		}
		out := t.copyOf(t.rows[i])
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func (t *table[T]) remove(match func(*T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if match(&t.rows[i]) {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (t *table[T]) reset() {
	t.mu.Lock()
	t.rows = nil
	t.mu.Unlock()
}

func all[T any](*T) bool { return true }

func clonePtr[V any](v *V) *V {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func byObjectID[T any](id primitive.ObjectID, get func(*T) primitive.ObjectID) func(*T) bool {
	return func(row *T) bool { return get(row) == id }
}

// Store satisfies store.Backend.
type Store struct {
	events        *eventTable
	opportunities *opportunityTable
	messages      *messageTable
	registrations *registrationTable
	applications  *applicationTable
	projects      *projectTable
	users         *userTable
}

func New() *Store {
	return &Store{
		events:        newEventTable(),
		opportunities: newOpportunityTable(),
		messages:      newMessageTable(),
		registrations: newRegistrationTable(),
		applications:  newApplicationTable(),
		projects:      newProjectTable(),
		users:         newUserTable(),
	}
}

func (s *Store) Repos() store.Repositories {
	return store.Repositories{
		Events:        s.events,
		Opportunities: s.opportunities,
		Messages:      s.messages,
		Registrations: s.registrations,
		Applications:  s.applications,
		Projects:      s.projects,
		Users:         s.users,
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) Reset(context.Context) error {
	s.events.reset()
	s.opportunities.reset()
	s.messages.reset()
	s.registrations.reset()
	s.applications.reset()
	s.projects.reset()
	s.users.reset()
	return nil
}
