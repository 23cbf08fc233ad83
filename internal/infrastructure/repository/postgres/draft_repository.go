package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/casewell/docvault/internal/core/domain"
)

type DraftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Create(ctx context.Context, d *domain.Draft) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO drafts (id, case_id, draft_type, title, content, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, d.ID, d.CaseID, string(d.Kind), d.Title, d.Content, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) ListByCase(ctx context.Context, caseID string) ([]domain.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, case_id, draft_type, title, content, created_at
FROM drafts
WHERE case_id = $1
ORDER BY created_at DESC
`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Draft, 0)
	for rows.Next() {
		var d domain.Draft
		var kind string
		if err := rows.Scan(&d.ID, &d.CaseID, &kind, &d.Title, &d.Content, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		d.Kind = domain.DraftKind(kind)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return out, nil
}
