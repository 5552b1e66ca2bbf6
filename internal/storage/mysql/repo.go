package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lodging_query/internal/domain"
)

// Repo is the MySQL projection of the dataset, keyed by source row number.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the projection table if it does not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *Repo) UpsertRecords(ctx context.Context, rs []domain.IndexedRecord) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*paramsPerRow)
	for _, ir := range rs {
		values = append(values, rowPlaceholders)
		args = append(args, ir.Row)
		for _, f := range ir.Record.Fields() {
			args = append(args, f)
		}
		args = append(args, ir.Record.MunicipalityKey, ir.Record.TypeKey)
	}
	sqlStr := insertRecordsPrefix + strings.Join(values, ",") + insertRecordsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) CountRecords(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countRecordsSQL).Scan(&n)
	return n, err
}

func (r *Repo) GetRecord(ctx context.Context, row int) (domain.Record, error) {
	f := make([]string, len(fieldColumns))
	dst := make([]any, len(f))
	for i := range f {
		dst[i] = &f[i]
	}
	if err := r.db.QueryRowContext(ctx, getRecordSQL, row).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, domain.ErrNotFound
		}
		return domain.Record{}, err
	}
	return domain.NewRecord(f), nil
}
