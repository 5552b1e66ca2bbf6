package memory

import (
	"sync/atomic"

	"lodging_query/internal/domain"
)

// Holder publishes the store currently being served. Reload swaps in a whole
// new Store; readers that already took a store keep using it.
type Holder struct {
	cur  atomic.Pointer[Store]
	next atomic.Uint64
}

func NewHolder(s *Store) *Holder {
	h := &Holder{}
	h.Swap(s)
	return h
}

func (h *Holder) Current() domain.RecordStore { return h.cur.Load() }

// Swap stamps s with a fresh generation and publishes it. s must not be
// shared with another Holder.
func (h *Holder) Swap(s *Store) {
	s.gen = h.next.Add(1)
	h.cur.Store(s)
}

// Reload loads path and swaps it in on success. On error the served store is
// left untouched.
func (h *Holder) Reload(path string) (LoadReport, error) {
	s, rep, err := LoadFile(path)
	if err != nil {
		return rep, err
	}
	h.Swap(s)
	return rep, nil
}
