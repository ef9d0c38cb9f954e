package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/opencongress/congresso/models"
)

type EPosterRepository struct {
	db *sql.DB
}

func NewEPosterRepository(db *sql.DB) *EPosterRepository {
	return &EPosterRepository{db: db}
}

const eposterColumns = `id, congress_id, title, authors, pdf_path, page_count, rendered_at, created_at`

func (r *EPosterRepository) GetEPostersByCongressID(ctx context.Context, congressID string) ([]models.EPoster, error) {
	query := `SELECT ` + eposterColumns + ` FROM eposters WHERE congress_id = $1 ORDER BY title ASC`
	return r.queryEPosters(ctx, query, congressID)
}

// GetUnrenderedEPosters returns e-posters whose flipbook pages have not yet
// been pre-rendered. Consumed by the scheduler tick.
func (r *EPosterRepository) GetUnrenderedEPosters(ctx context.Context) ([]models.EPoster, error) {
	query := `SELECT ` + eposterColumns + ` FROM eposters WHERE rendered_at IS NULL ORDER BY created_at ASC`
	return r.queryEPosters(ctx, query)
}

func (r *EPosterRepository) queryEPosters(ctx context.Context, query string, args ...any) ([]models.EPoster, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query eposters: %w", err)
	}
	defer rows.Close()

	var eposters []models.EPoster
	for rows.Next() {
		var e models.EPoster
		if err := rows.Scan(&e.ID, &e.CongressID, &e.Title, &e.Authors, &e.PDFPath, &e.PageCount, &e.RenderedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan eposter row: %w", err)
		}
		eposters = append(eposters, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating eposter rows: %w", err)
	}

	if eposters == nil {
		eposters = []models.EPoster{}
	}
	return eposters, nil
}

func (r *EPosterRepository) GetEPosterByID(ctx context.Context, eposterID string) (*models.EPoster, error) {
	query := `SELECT ` + eposterColumns + ` FROM eposters WHERE id = $1`
	var e models.EPoster
	row := r.db.QueryRowContext(ctx, query, eposterID)
	err := row.Scan(&e.ID, &e.CongressID, &e.Title, &e.Authors, &e.PDFPath, &e.PageCount, &e.RenderedAt, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("eposter not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get eposter by ID: %w", err)
	}
	return &e, nil
}

// MarkEPosterRendered records the page count and render completion time
// after the pre-render worker has stored the page images.
func (r *EPosterRepository) MarkEPosterRendered(ctx context.Context, eposterID string, pageCount int) error {
	query := `UPDATE eposters SET page_count = $1, rendered_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, pageCount, eposterID)
	if err != nil {
		return fmt.Errorf("failed to mark eposter %s rendered: %w", eposterID, err)
	}
	return checkRowAffected(result)
}
