package report

import (
	"container/list"
	"sync"
)

// Lister returns the most recently touched records, newest first.
type Lister interface {
	Recent(n int) []*Record
}

// LRUStore keeps the most recent records in memory and falls back to a
// backing Store on miss. Its ordering backs the recent-runs listing.
type LRUStore struct {
	mu    sync.Mutex
	cap   int
	back  Store
	order *list.List // of *Record, front is newest
	index map[string]*list.Element
}

// NewLRUStore returns an LRUStore holding at most cap records. A cap below
// one is raised to one.
func NewLRUStore(cap int, back Store) *LRUStore {
	if cap < 1 {
		cap = 1
	}
	return &LRUStore{
		cap:   cap,
		back:  back,
		order: list.New(),
		index: make(map[string]*list.Element, cap),
	}
}

// Save writes rec to the backing store first, so a record is only listed
// once it can be loaded again.
func (s *LRUStore) Save(rec *Record) error {
	if err := s.back.Save(rec); err != nil {
		return err
	}
	s.mu.Lock()
	s.touch(rec)
	s.mu.Unlock()
	return nil
}

// Load checks the cache first. On miss, it loads from the backing store
// and promotes the record.
func (s *LRUStore) Load(runID string) (*Record, error) {
	s.mu.Lock()
	if el, ok := s.index[runID]; ok {
		s.order.MoveToFront(el)
		rec := el.Value.(*Record)
		s.mu.Unlock()
		return rec, nil
	}
	s.mu.Unlock()

	rec, err := s.back.Load(runID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.touch(rec)
	s.mu.Unlock()
	return rec, nil
}

// Recent returns up to n cached records, newest first. n <= 0 returns all.
func (s *LRUStore) Recent(n int) []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || n > s.order.Len() {
		n = s.order.Len()
	}
	out := make([]*Record, 0, n)
	for el := s.order.Front(); el != nil && len(out) < n; el = el.Next() {
		out = append(out, el.Value.(*Record))
	}
	return out
}

// touch inserts or refreshes rec at the front and evicts past cap.
// Callers hold s.mu.
func (s *LRUStore) touch(rec *Record) {
	if el, ok := s.index[rec.ID]; ok {
		el.Value = rec
		s.order.MoveToFront(el)
		return
	}
	s.index[rec.ID] = s.order.PushFront(rec)
	for s.order.Len() > s.cap {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.index, oldest.Value.(*Record).ID)
	}
}
