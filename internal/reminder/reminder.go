// Package reminder keeps the registry of scheduled plant-care tasks.
package reminder

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ferntree/sprout/internal/store"
)

// StoreKey is the persistence key for the registry.
const StoreKey = "reminders"

// Type classifies a care task.
type Type string

const (
	TypeFertilizer Type = "fertilizer"
	TypePesticide  Type = "pesticide"
	TypeWatering   Type = "watering"
	TypeOther      Type = "other"
)

// ParseType validates a user-supplied type string.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeFertilizer, TypePesticide, TypeWatering, TypeOther:
		return t, nil
	default:
		return "", fmt.Errorf("unknown reminder type %q (want fertilizer, pesticide, watering or other)", s)
	}
}

// Reminder is one scheduled care task. Date is a calendar day; any
// time-of-day component is ignored everywhere reminders are compared.
// Completed is the only field that changes after creation.
type Reminder struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Type      Type      `json:"type"`
	PlantName string    `json:"plantName,omitempty"`
	Completed bool      `json:"completed"`
}

// New builds a Reminder with a fresh id.
func New(title string, date time.Time, typ Type, plantName string) Reminder {
	return Reminder{
		ID:        uuid.New().String(),
		Title:     title,
		Date:      date,
		Type:      typ,
		PlantName: plantName,
	}
}

// SameDay reports whether a and b fall on the same calendar day in local
// time, regardless of their time-of-day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Registry is the persistent reminder collection. Storage order is
// insertion order; date ordering is a read-time projection (ForMonth).
// The in-memory copy is loaded once and written through on every mutation.
//
// Reads and mutations may run concurrently with Reload, which the watch
// daemon calls when another process writes the store.
type Registry struct {
	mu    sync.RWMutex
	col   store.Collection[Reminder]
	items []Reminder
}

// NewRegistry loads the registry from s. A missing or corrupt record yields
// an empty registry.
func NewRegistry(s store.Store) *Registry {
	col := store.NewCollection[Reminder](s, StoreKey)
	return &Registry{col: col, items: col.Load()}
}

// Add appends r and persists the updated registry.
func (r *Registry) Add(rem Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, rem)
	return r.col.Save(r.items)
}

// ToggleCompletion flips the completed flag of the reminder with the given
// id and persists. An unknown id is a silent no-op.
func (r *Registry) ToggleCompletion(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Completed = !r.items[i].Completed
			return r.col.Save(r.items)
		}
	}
	return nil
}

// Delete removes the reminder with the given id and persists. An unknown id
// is a silent no-op.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return r.col.Save(r.items)
		}
	}
	return nil
}

// All returns a copy of the registry in insertion order.
func (r *Registry) All() []Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Reminder, len(r.items))
	copy(out, r.items)
	return out
}

// ForMonth returns the reminders falling in the given month, ordered by
// ascending date. The sequence is lazy and restartable: each range takes a
// fresh snapshot, and the registry itself is never reordered.
func (r *Registry) ForMonth(year int, month time.Month) iter.Seq[Reminder] {
	return func(yield func(Reminder) bool) {
		var due []Reminder
		for _, rem := range r.All() {
			y, m, _ := rem.Date.Date()
			if y == year && m == month {
				due = append(due, rem)
			}
		}
		slices.SortStableFunc(due, func(a, b Reminder) int {
			return a.Date.Compare(b.Date)
		})
		for _, rem := range due {
			if !yield(rem) {
				return
			}
		}
	}
}

// DueOn returns the reminders whose date falls on the given calendar day,
// in insertion order. Completion is not considered here; callers filter.
func (r *Registry) DueOn(day time.Time) []Reminder {
	var due []Reminder
	for _, rem := range r.All() {
		if SameDay(rem.Date, day) {
			due = append(due, rem)
		}
	}
	return due
}

// Reload replaces the in-memory copy with the stored record. Used by the
// watch daemon when the store changes underneath it; everywhere else the
// session's own copy stays authoritative.
func (r *Registry) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = r.col.Load()
}
