package history

import "github.com/ferntree/sprout/internal/store"

// StoreKey is the persistence key for the ledger.
const StoreKey = "history"

// Ledger is the append-only history record. The in-memory copy is loaded
// once at construction and is authoritative for the session; every mutation
// writes the whole sequence back through the store. Entries are kept newest
// first and can only be added or cleared in bulk, never edited or removed
// individually.
//
// Not safe for concurrent use.
type Ledger struct {
	col   store.Collection[Item]
	items []Item
}

// NewLedger loads the ledger from s. A missing or corrupt record yields an
// empty ledger.
func NewLedger(s store.Store) *Ledger {
	col := store.NewCollection[Item](s, StoreKey)
	return &Ledger{col: col, items: col.Load()}
}

// Append adds it as the newest entry and persists the updated ledger. The
// item keeps its creation id and timestamp; the ledger assigns nothing.
func (l *Ledger) Append(it Item) error {
	l.items = append([]Item{it}, l.items...)
	return l.col.Save(l.items)
}

// Clear discards every entry, in memory and in the store.
func (l *Ledger) Clear() error {
	l.items = nil
	return l.col.Save(nil)
}

// Items returns a copy of the ledger, newest first.
func (l *Ledger) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.items) }
