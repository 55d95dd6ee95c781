package kpi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const entryColumns = `
    id, kpi_template_id, created_for, created_by, "values", total_score, status, period_key, created_at, updated_at
`

func (s *Store) GetByID(ctx context.Context, entryID string) (*Entry, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+entryColumns+`
    FROM kpi_entries
    WHERE id = $1
  `, entryID)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *Store) ListByPair(ctx context.Context, templateID, createdFor string) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+entryColumns+`
    FROM kpi_entries
    WHERE kpi_template_id = $1 AND created_for = $2
    ORDER BY created_at DESC
  `, templateID, createdFor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *Store) List(ctx context.Context, filter EntryFilter, limit, offset int) ([]Entry, int, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.KPITemplateID != "" {
		args = append(args, filter.KPITemplateID)
		where += fmt.Sprintf(" AND kpi_template_id = $%d", len(args))
	}
	if filter.CreatedFor != "" {
		args = append(args, filter.CreatedFor)
		where += fmt.Sprintf(" AND created_for = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filter.CreatedFrom.IsZero() {
		args = append(args, filter.CreatedFrom)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.CreatedTo.IsZero() {
		args = append(args, filter.CreatedTo)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM kpi_entries"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + entryColumns + "FROM kpi_entries" + where
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *Store) ListForReport(ctx context.Context, templateID string, memberIDs []string) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+entryColumns+`
    FROM kpi_entries
    WHERE kpi_template_id = $1 AND created_for = ANY($2) AND status <> $3
    ORDER BY created_at
  `, templateID, memberIDs, StatusGenerated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *Store) Create(ctx context.Context, entry Entry) (*Entry, error) {
	valuesJSON, err := json.Marshal(entry.Values)
	if err != nil {
		return nil, err
	}
	row := s.DB.QueryRow(ctx, `
    INSERT INTO kpi_entries (kpi_template_id, created_for, created_by, "values", total_score, status, period_key)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING`+entryColumns+`
  `, entry.KPITemplateID, entry.CreatedFor, entry.CreatedBy, valuesJSON, entry.TotalScore, entry.Status, entry.PeriodKey)
	created, err := scanEntry(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPeriodConflict
		}
		return nil, err
	}
	return created, nil
}

func (s *Store) UpdateValues(ctx context.Context, entryID string, values []EntryValue, totalScore float64) (*Entry, error) {
	valuesJSON, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	row := s.DB.QueryRow(ctx, `
    UPDATE kpi_entries
    SET "values" = $1, total_score = $2, updated_at = now()
    WHERE id = $3 AND status <> $4
    RETURNING`+entryColumns+`
  `, valuesJSON, totalScore, entryID, StatusGenerated)
	updated, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return updated, nil
}

// MarkGenerated is the sole status transition to generated. The status guard
// in the WHERE clause makes the bulk update the actual concurrency boundary:
// an entry created after selection simply stays initiated for the next run.
func (s *Store) MarkGenerated(ctx context.Context, entryIDs []string) (int, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE kpi_entries
    SET status = $1, updated_at = now()
    WHERE id = ANY($2) AND status <> $1
  `, StatusGenerated, entryIDs)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var entry Entry
	var valuesJSON []byte
	if err := row.Scan(&entry.ID, &entry.KPITemplateID, &entry.CreatedFor, &entry.CreatedBy, &valuesJSON,
		&entry.TotalScore, &entry.Status, &entry.PeriodKey, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return nil, err
	}
	if len(valuesJSON) > 0 {
		if err := json.Unmarshal(valuesJSON, &entry.Values); err != nil {
			return nil, err
		}
	}
	return &entry, nil
}

func collectEntries(rows pgx.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
