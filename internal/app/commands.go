package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"lodging_query/internal/domain"
)

// ExportReport summarizes one projection run.
type ExportReport struct {
	Records  int
	Batches  int
	Duration time.Duration
}

// ExportService writes the served dataset out to the read-only projections:
// a MySQL table through RecordRepository or a flat CSV file.
type ExportService struct {
	stores  domain.StoreProvider
	repo    domain.RecordRepository
	workers int
	batch   int
}

func NewExportService(p domain.StoreProvider, r domain.RecordRepository, workers, batch int) *ExportService {
	if workers <= 0 {
		workers = 1
	}
	if batch <= 0 {
		batch = 200
	}
	return &ExportService{stores: p, repo: r, workers: workers, batch: batch}
}

// ExportToRepo migrates the projection and upserts every record keyed by its
// 1-based row number. At most workers batches are in flight; the first
// failing batch cancels the rest and is returned. After all batches land the
// last row is read back and checked.
func (s *ExportService) ExportToRepo(ctx context.Context) (ExportReport, error) {
	start := time.Now()
	if s.repo == nil {
		return ExportReport{}, fmt.Errorf("export: no repository configured")
	}
	if err := s.repo.Migrate(ctx); err != nil {
		return ExportReport{}, err
	}

	all := s.stores.Current().All()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup
	rep := ExportReport{Records: len(all)}

	for lo := 0; lo < len(all); lo += s.batch {
		hi := min(lo+s.batch, len(all))
		rows := make([]domain.IndexedRecord, 0, hi-lo)
		for i := lo; i < hi; i++ {
			rows = append(rows, domain.IndexedRecord{Row: i + 1, Record: all[i]})
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		rep.Batches++
		wg.Add(1)
		go func(first int, rows []domain.IndexedRecord) {
			defer wg.Done()
			defer sem.Release(1)
			if err := s.repo.UpsertRecords(ctx, rows); err != nil {
				log.Warn().Int("first_row", first).Int("size", len(rows)).Err(err).Msg("export batch failed")
				cancel(fmt.Errorf("batch at row %d: %w", first, err))
				return
			}
			log.Debug().Int("first_row", first).Int("size", len(rows)).Msg("export batch ok")
		}(lo+1, rows)
	}
	wg.Wait()

	rep.Duration = time.Since(start)
	if err := context.Cause(ctx); err != nil {
		return rep, err
	}
	if err := s.verifyLast(ctx, all); err != nil {
		return rep, err
	}
	return rep, nil
}

// verifyLast reads the last exported row back and compares it with the
// served record.
func (s *ExportService) verifyLast(ctx context.Context, all []domain.Record) error {
	if len(all) == 0 {
		return nil
	}
	row := len(all)
	got, err := s.repo.GetRecord(ctx, row)
	if err != nil {
		return fmt.Errorf("export verify row %d: %w", row, err)
	}
	if got != all[row-1] {
		return fmt.Errorf("export verify row %d: read back differs", row)
	}
	return nil
}

// WriteCSV writes CSVHeader followed by one row per record in
// Record.Fields order. Fields holding commas, quotes or newlines are quoted.
func (s *ExportService) WriteCSV(w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, err
	}
	all := s.stores.Current().All()
	for _, r := range all {
		if err := cw.Write(r.Fields()); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(all), cw.Error()
}

// ExportCSVFile writes the CSV projection to path through a temp file in the
// same directory, so readers never see a partial file.
func (s *ExportService) ExportCSVFile(path string) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := s.WriteCSV(tmp)
	if err == nil {
		err = tmp.Sync()
	}
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, err
	}
	return n, nil
}

// CSVHeader names the exported columns in Record.Fields order.
var CSVHeader = []string{
	"COMUNE", "PROVINCIA", "ATL", "STELLE", "QUALIFICA", "TIPOLOGIA", "DENOMINAZIONE",
	"INDIRIZZO", "NUMERO_CIVICO", "CAP", "TELEFONO", "FAX", "EMAIL",
	"ALTITUDINE_COMUNE", "ALTITUDINE_STRUTTURA",
	"MARCHIO_ECOLABEL", "MARCHIO_Q", "MARCHIO_YES", "DISABILI", "ANIMALI",
	"ASSEGNI", "BANCOMAT", "CARTE_CREDITO", "GARAGE", "ASCENSORE",
	"PARCHEGGIO_RISERVATO", "ARIA_CONDIZIONATA_CAMERE", "ARIA_CONDIZIONATA_APPARTAMENTI",
}
