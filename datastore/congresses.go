package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/opencongress/congresso/models"
)

type CongressRepository struct {
	db *sql.DB
}

func NewCongressRepository(db *sql.DB) *CongressRepository {
	return &CongressRepository{db: db}
}

const congressColumns = `
	id, name, slug, location, start_date, end_date, state, description,
	image_count, poster_path, program_path, created_at`

func scanCongress(row interface{ Scan(...any) error }) (*models.Congress, error) {
	var c models.Congress
	var stateStr string
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Location, &c.StartDate, &c.EndDate,
		&stateStr, &c.Description, &c.ImageCount, &c.PosterPath, &c.ProgramPath,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.State = models.CongressState(stateStr)
	return &c, nil
}

func (r *CongressRepository) GetAllCongresses(ctx context.Context) ([]models.Congress, error) {
	query := `SELECT ` + congressColumns + ` FROM congresses ORDER BY start_date DESC`
	return r.queryCongresses(ctx, query)
}

func (r *CongressRepository) GetCongressesByState(ctx context.Context, state models.CongressState) ([]models.Congress, error) {
	query := `SELECT ` + congressColumns + ` FROM congresses WHERE state = $1 ORDER BY start_date DESC`
	return r.queryCongresses(ctx, query, string(state))
}

func (r *CongressRepository) queryCongresses(ctx context.Context, query string, args ...any) ([]models.Congress, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query congresses: %w", err)
	}
	defer rows.Close()

	var congresses []models.Congress
	for rows.Next() {
		c, err := scanCongress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan congress row: %w", err)
		}
		congresses = append(congresses, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating congress rows: %w", err)
	}

	if congresses == nil {
		congresses = []models.Congress{}
	}
	return congresses, nil
}

func (r *CongressRepository) GetCongressByID(ctx context.Context, congressID string) (*models.Congress, error) {
	query := `SELECT ` + congressColumns + ` FROM congresses WHERE id = $1`
	c, err := scanCongress(r.db.QueryRowContext(ctx, query, congressID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("congress not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get congress by ID: %w", err)
	}
	return c, nil
}

func (r *CongressRepository) GetCongressBySlug(ctx context.Context, slug string) (*models.Congress, error) {
	query := `SELECT ` + congressColumns + ` FROM congresses WHERE slug = $1`
	c, err := scanCongress(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("congress not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get congress by slug: %w", err)
	}
	return c, nil
}

// UpdateCongressState writes the derived lifecycle state. Called by the
// scheduler tick when the stored state has drifted from the date range.
func (r *CongressRepository) UpdateCongressState(ctx context.Context, congressID string, state models.CongressState) error {
	query := `UPDATE congresses SET state = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, string(state), congressID)
	if err != nil {
		return fmt.Errorf("failed to update state of congress %s: %w", congressID, err)
	}
	return checkRowAffected(result)
}
