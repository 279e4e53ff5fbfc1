package inmemdb

import (
	"sync"

	"github.com/trezcool/eduhelp/core/dashboard"
	"github.com/trezcool/eduhelp/core/session"
)

type (
	// table keeps rows in insertion order.
	table[T any] struct {
		mutex sync.RWMutex
		order []string
		rows  map[string]T
	}

	DB struct {
		session *table[session.Session]

		request     *table[dashboard.Request]
		user        *table[dashboard.User]
		tutor       *table[dashboard.Tutor]
		tutorSess   *table[dashboard.Session]
		testimonial *table[dashboard.Testimonial]
		pricing     *table[dashboard.PricingItem]

		student studentData
	}

	studentData struct {
		upcoming     []dashboard.UpcomingSession
		assignments  []dashboard.Assignment
		invoices     []dashboard.Invoice
		pastSessions []dashboard.PastSession
	}
)

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

// Open returns an empty database.
func Open() *DB {
	return &DB{
		session:     newTable[session.Session](),
		request:     newTable[dashboard.Request](),
		user:        newTable[dashboard.User](),
		tutor:       newTable[dashboard.Tutor](),
		tutorSess:   newTable[dashboard.Session](),
		testimonial: newTable[dashboard.Testimonial](),
		pricing:     newTable[dashboard.PricingItem](),
	}
}

// OpenSeeded returns a database filled with the demo data.
func OpenSeeded() *DB {
	db := Open()
	db.Seed()
	return db
}

func (t *table[T]) insert(id string, row T) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) get(id string) (T, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

// modify applies fn to the row with the given id and stores the result, holding the write lock throughout
// so concurrent modifications of a row never overwrite each other.
// ok is false when the id is unknown. Nothing is stored when fn fails and the stored row is returned with the error.
func (t *table[T]) modify(id string, fn func(row *T) error) (row T, ok bool, err error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	stored, ok := t.rows[id]
	if !ok {
		return row, false, nil
	}
	row = stored
	if err = fn(&row); err != nil {
		return stored, true, err
	}
	t.rows[id] = row
	return row, true, nil
}

func (t *table[T]) delete(id string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *table[T]) filter(keep func(row T) bool) []T {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	rows := make([]T, 0, len(t.order))
	for _, id := range t.order {
		if row := t.rows[id]; keep == nil || keep(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (t *table[T]) len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.rows)
}
