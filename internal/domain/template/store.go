package template

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, templateID string) (*Template, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, name, role, frequency, items, created_by, created_at, updated_at
    FROM kpi_templates
    WHERE id = $1
  `, templateID)
	tmpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tmpl, nil
}

func (s *Store) List(ctx context.Context, role string) ([]Template, error) {
	query := `
    SELECT id, name, role, frequency, items, created_by, created_at, updated_at
    FROM kpi_templates
  `
	args := []any{}
	if role != "" {
		query += " WHERE role = $1"
		args = append(args, role)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tmpl)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, tmpl Template) (string, error) {
	itemsJSON, err := json.Marshal(tmpl.Items)
	if err != nil {
		return "", err
	}
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO kpi_templates (name, role, frequency, items, created_by)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tmpl.Name, tmpl.Role, string(tmpl.Frequency), itemsJSON, tmpl.CreatedBy).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func scanTemplate(row pgx.Row) (*Template, error) {
	var tmpl Template
	var frequency string
	var itemsJSON []byte
	if err := row.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Role, &frequency, &itemsJSON, &tmpl.CreatedBy, &tmpl.CreatedAt, &tmpl.UpdatedAt); err != nil {
		return nil, err
	}
	tmpl.Frequency = Frequency(frequency)
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &tmpl.Items); err != nil {
			return nil, err
		}
	}
	return &tmpl, nil
}
