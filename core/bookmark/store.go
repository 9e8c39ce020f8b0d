// Package bookmark tracks the content items a user saved or joined. Every
// mutation synchronously persists the full collection through the Storage
// collaborator; reads only ever touch the in-memory mirror, hydrated once at
// construction.
package bookmark

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Storage persists the full bookmark/enrollment state.
type Storage interface {
	Load() (State, error)
	Save(State) error
}

type Store struct {
	mu          sync.Mutex
	bookmarks   []Item
	enrollments []Enrollment
	storage     Storage
}

// NewStore hydrates a store from its storage.
func NewStore(storage Storage) (*Store, error) {
	state, err := storage.Load()
	if err != nil {
		return nil, errors.Wrap(err, "hydrating bookmark store")
	}
	return &Store{
		bookmarks:   state.Bookmarks,
		enrollments: state.Enrollments,
		storage:     storage,
	}, nil
}

// Add bookmarks an item. Adding an already-bookmarked id is a no-op.
func (s *Store) Add(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookmarks {
		if b.ID == item.ID {
			return nil
		}
	}
	if item.SavedAt.IsZero() {
		item.SavedAt = time.Now().UTC()
	}
	s.bookmarks = append(s.bookmarks, item)
	return s.persist()
}

// Remove drops a bookmark by id. Removing an unknown id is a no-op.
// Enrollments have no counterpart; they are not removable.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.bookmarks {
		if b.ID == id {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			return s.persist()
		}
	}
	return nil
}

// AddEnrollment joins an item. Adding an already-enrolled id is a no-op.
func (s *Store) AddEnrollment(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.enrollments {
		if e.ID == item.ID {
			return nil
		}
	}
	now := time.Now().UTC()
	if item.SavedAt.IsZero() {
		item.SavedAt = now
	}
	s.enrollments = append(s.enrollments, Enrollment{Item: item, EnrolledAt: now})
	return s.persist()
}

func (s *Store) IsBookmarked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookmarks {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) IsEnrolled(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.enrollments {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Bookmarks returns the saved items, oldest first.
func (s *Store) Bookmarks() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

// Enrollments returns the joined items, oldest first.
func (s *Store) Enrollments() []Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Enrollment, len(s.enrollments))
	copy(out, s.enrollments)
	return out
}

// Clear empties both collections.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks = nil
	s.enrollments = nil
	return s.persist()
}

// persist writes the full state through; callers must hold s.mu.
func (s *Store) persist() error {
	state := State{Bookmarks: s.bookmarks, Enrollments: s.enrollments}
	return errors.Wrap(s.storage.Save(state), "persisting bookmark store")
}
