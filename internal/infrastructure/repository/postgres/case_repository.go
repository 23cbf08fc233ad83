package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/casewell/docvault/internal/core/domain"
)

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cases (id, name, description, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)
`, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

const caseColumns = `
c.id, c.name, c.description,
(SELECT COUNT(*) FROM documents d WHERE d.case_id = c.id) AS document_count,
(SELECT COUNT(*) FROM drafts dr WHERE dr.case_id = c.id) AS draft_count,
c.created_at, c.updated_at`

func (r *CaseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+caseColumns+`
FROM cases c
WHERE c.id = $1
`, id)

	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCaseNotFound, "get case", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan case: %w", err)
	}
	return c, nil
}

func (r *CaseRepository) List(ctx context.Context) ([]domain.Case, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+caseColumns+`
FROM cases c
ORDER BY c.created_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return out, nil
}

// Delete removes the case record. Documents and drafts go with it through
// the foreign key cascade.
func (r *CaseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete case rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrCaseNotFound, "delete case", fmt.Errorf("id=%s", id))
	}
	return nil
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var c domain.Case
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.DocumentCount,
		&c.DraftCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
