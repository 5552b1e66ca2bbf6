package domain

import "context"

// RecordStore is the read-only query surface over one loaded dataset.
// Implementations must be safe for concurrent readers.
type RecordStore interface {
	All() []Record
	Count() int
	ByIndex(n int) (Record, error)

	FilterByMunicipality(name string) []Record
	FilterByProvince(code string) []Record
	FilterByStarRating(value string) []Record
	FilterByLocalTourismBoard(name string) []Record
	FilterByType(key string) []Record
	FilterByQualityMark(mark string) []Record

	FilterAccessible() []Record
	FilterAirConditioned() []Record
	FilterCardPayable() []Record
	FilterPetFriendly() []Record
	FilterWithParking() []Record

	SearchByNameContains(keyword string) []Record

	DistinctMunicipalities() []string
	DistinctTypes() []string
	CountByMunicipality() map[string]int
	CountByType() map[string]int

	// Generation identifies the loaded dataset; it changes on every reload.
	Generation() uint64
}

// StoreProvider hands out the dataset currently being served.
type StoreProvider interface {
	Current() RecordStore
}

// RecordRepository is the write side of the optional read-only projection
// the exporter fills.
type RecordRepository interface {
	Migrate(ctx context.Context) error
	UpsertRecords(ctx context.Context, rs []IndexedRecord) error
	CountRecords(ctx context.Context) (int, error)
	GetRecord(ctx context.Context, row int) (Record, error)
}

// IndexedRecord pairs a record with its 1-based row number in the source.
type IndexedRecord struct {
	Row    int
	Record Record
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
