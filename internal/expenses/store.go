// Package expenses holds the session-wide, in-memory collection of expenses
// shared by the list and form views.
package expenses

import (
	"sync"

	"github.com/mmynk/expenses/internal/models"
)

// Store is an ordered in-memory collection of expenses with at most one entry per ID.
// A Store lives for one application session and is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	expenses []models.Expense
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Set replaces the whole collection, e.g. with the list fetched at session start.
// Later duplicates of an ID win.
func (s *Store) Set(list []models.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses = s.expenses[:0]
	for _, e := range list {
		s.putLocked(e)
	}
}

// Add appends an expense built from server-confirmed data.
// If the ID is already present the existing entry is replaced in place.
func (s *Store) Add(e models.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(e)
}

// Update replaces the description, amount and date of the expense with the given ID.
// The ID is preserved. Unknown IDs are ignored.
func (s *Store) Update(id string, data models.ExpenseData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	s.expenses[i] = data.WithID(id)
}

// Delete removes the expense with the given ID. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
}

// Find returns the expense with the given ID.
func (s *Store) Find(id string) (models.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Expense{}, false
	}
	return s.expenses[i], true
}

// Expenses returns a snapshot of the collection in insertion order.
func (s *Store) Expenses() []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// Len returns the number of expenses held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.expenses)
}

func (s *Store) putLocked(e models.Expense) {
	e.Date = models.NormalizeDate(e.Date)
	if i := s.indexLocked(e.ID); i >= 0 {
		s.expenses[i] = e
		return
	}
	s.expenses = append(s.expenses, e)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			return i
		}
	}
	return -1
}
