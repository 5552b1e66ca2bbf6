package memory

import (
	"fmt"
	"sort"
	"strings"

	"lodging_query/internal/domain"
)

// Store is an immutable, insertion-ordered record collection. It is never
// written after construction, so concurrent readers need no locking.
type Store struct {
	records []domain.Record
	gen     uint64
}

var _ domain.RecordStore = (*Store)(nil)

func newStore(rs []domain.Record) *Store {
	return &Store{records: rs}
}

// NewStore builds a store over a copy of rs. Keys are (re)canonicalized.
func NewStore(rs []domain.Record) *Store {
	cp := make([]domain.Record, len(rs))
	for i, r := range rs {
		r.MunicipalityKey = domain.Canonical(r.Municipality)
		r.TypeKey = domain.Canonical(r.Type)
		cp[i] = r
	}
	return newStore(cp)
}

func (s *Store) Generation() uint64 { return s.gen }

func (s *Store) All() []domain.Record {
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Count() int { return len(s.records) }

// ByIndex returns the 0-based nth record, or domain.ErrInvalidRow.
func (s *Store) ByIndex(n int) (domain.Record, error) {
	if n < 0 || n >= len(s.records) {
		return domain.Record{}, fmt.Errorf("row %d of %d: %w", n, len(s.records), domain.ErrInvalidRow)
	}
	return s.records[n], nil
}

func (s *Store) filter(keep func(domain.Record) bool) []domain.Record {
	out := []domain.Record{}
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func equalFold(field, want string) bool {
	return strings.EqualFold(strings.TrimSpace(field), strings.TrimSpace(want))
}

func (s *Store) FilterByMunicipality(name string) []domain.Record {
	key := domain.Canonical(name)
	return s.filter(func(r domain.Record) bool { return r.MunicipalityKey == key })
}

func (s *Store) FilterByProvince(code string) []domain.Record {
	return s.filter(func(r domain.Record) bool { return equalFold(r.Province, code) })
}

func (s *Store) FilterByStarRating(value string) []domain.Record {
	return s.filter(func(r domain.Record) bool { return equalFold(r.Stars, value) })
}

func (s *Store) FilterByLocalTourismBoard(name string) []domain.Record {
	return s.filter(func(r domain.Record) bool { return equalFold(r.TourismBoard, name) })
}

func (s *Store) FilterByType(key string) []domain.Record {
	k := domain.Canonical(key)
	return s.filter(func(r domain.Record) bool { return r.TypeKey == k })
}

// FilterByQualityMark accepts Q, Yes or Ecolabel in any case.
func (s *Store) FilterByQualityMark(mark string) []domain.Record {
	mark = strings.TrimSpace(mark)
	return s.filter(func(r domain.Record) bool { return r.HasMark(mark) })
}

func (s *Store) FilterAccessible() []domain.Record {
	return s.filter(domain.Record.IsAccessible)
}

func (s *Store) FilterAirConditioned() []domain.Record {
	return s.filter(domain.Record.HasAirConditioning)
}

func (s *Store) FilterCardPayable() []domain.Record {
	return s.filter(domain.Record.AcceptsCards)
}

func (s *Store) FilterPetFriendly() []domain.Record {
	return s.filter(domain.Record.AcceptsPets)
}

func (s *Store) FilterWithParking() []domain.Record {
	return s.filter(domain.Record.HasParking)
}

// SearchByNameContains matches keyword as a case-insensitive substring of
// the establishment name.
func (s *Store) SearchByNameContains(keyword string) []domain.Record {
	kw := strings.ToLower(keyword)
	return s.filter(func(r domain.Record) bool {
		return strings.Contains(strings.ToLower(r.Name), kw)
	})
}

func (s *Store) DistinctMunicipalities() []string {
	return s.distinct(func(r domain.Record) string { return r.MunicipalityKey })
}

func (s *Store) DistinctTypes() []string {
	return s.distinct(func(r domain.Record) string { return r.TypeKey })
}

func (s *Store) CountByMunicipality() map[string]int {
	return s.countBy(func(r domain.Record) string { return r.MunicipalityKey })
}

func (s *Store) CountByType() map[string]int {
	return s.countBy(func(r domain.Record) string { return r.TypeKey })
}

func (s *Store) distinct(key func(domain.Record) string) []string {
	counts := s.countBy(key)
	out := make([]string, 0, len(counts))
	for k := range counts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Store) countBy(key func(domain.Record) string) map[string]int {
	out := make(map[string]int)
	for _, r := range s.records {
		out[key(r)]++
	}
	return out
}
