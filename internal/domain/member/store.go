package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("member not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const memberColumns = `
    m.user_id, u.name, u.email, m.role, m.department_slug, u.status
`

func (s *Store) Get(ctx context.Context, userID string) (*Member, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+memberColumns+`
    FROM members m
    JOIN users u ON u.id = m.user_id
    WHERE m.user_id = $1
  `, userID)
	var m Member
	if err := row.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.DepartmentSlug, &m.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Search pages through the directory. Exact filters are ANDed; the text
// filters form one ORed group so a single search term can hit either the
// name or the email.
func (s *Store) Search(ctx context.Context, filter SearchFilter, limit, offset int) (SearchResult, error) {
	where, args := buildSearchWhere(filter)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM members m JOIN users u ON u.id = m.user_id"+where, args...).Scan(&total); err != nil {
		return SearchResult{}, err
	}

	query := "SELECT" + memberColumns + "FROM members m JOIN users u ON u.id = m.user_id" + where
	query += fmt.Sprintf(" ORDER BY u.name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return SearchResult{}, err
	}
	defer rows.Close()

	result := SearchResult{Total: total}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.DepartmentSlug, &m.Status); err != nil {
			return SearchResult{}, err
		}
		result.Docs = append(result.Docs, m)
	}
	return result, rows.Err()
}

// ListByDepartment returns the full roster of a department, unbounded, in a
// stable order.
func (s *Store) ListByDepartment(ctx context.Context, departmentSlug string) ([]Member, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+memberColumns+`
    FROM members m
    JOIN users u ON u.id = m.user_id
    WHERE m.department_slug = $1
    ORDER BY m.role, u.name
  `, departmentSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.DepartmentSlug, &m.Status); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func buildSearchWhere(filter SearchFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	var textClauses []string
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		textClauses = append(textClauses, fmt.Sprintf("u.name ILIKE $%d", len(args)))
	}
	if filter.Email != "" {
		args = append(args, "%"+filter.Email+"%")
		textClauses = append(textClauses, fmt.Sprintf("u.email ILIKE $%d", len(args)))
	}
	if len(textClauses) > 0 {
		where += " AND (" + textClauses[0]
		for _, clause := range textClauses[1:] {
			where += " OR " + clause
		}
		where += ")"
	}

	if filter.Department != "" {
		args = append(args, filter.Department)
		where += fmt.Sprintf(" AND m.department_slug = $%d", len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where += fmt.Sprintf(" AND m.role = $%d", len(args))
	}
	return where, args
}
