package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/opencongress/congresso/models"
)

type WebinarRepository struct {
	db *sql.DB
}

func NewWebinarRepository(db *sql.DB) *WebinarRepository {
	return &WebinarRepository{db: db}
}

func (r *WebinarRepository) GetWebinarsByCongressID(ctx context.Context, congressID string) ([]models.Webinar, error) {
	query := `
		SELECT id, congress_id, title, speaker, video_url, description, recorded_at, created_at
		FROM webinars
		WHERE congress_id = $1
		ORDER BY recorded_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, congressID)
	if err != nil {
		return nil, fmt.Errorf("failed to query webinars for congress %s: %w", congressID, err)
	}
	defer rows.Close()

	var webinars []models.Webinar
	for rows.Next() {
		var w models.Webinar
		if err := rows.Scan(&w.ID, &w.CongressID, &w.Title, &w.Speaker, &w.VideoURL, &w.Description, &w.RecordedAt, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan webinar row: %w", err)
		}
		webinars = append(webinars, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating webinar rows: %w", err)
	}

	if webinars == nil {
		webinars = []models.Webinar{}
	}
	return webinars, nil
}

func (r *WebinarRepository) GetWebinarByID(ctx context.Context, webinarID string) (*models.Webinar, error) {
	query := `
		SELECT id, congress_id, title, speaker, video_url, description, recorded_at, created_at
		FROM webinars
		WHERE id = $1
	`
	var w models.Webinar
	row := r.db.QueryRowContext(ctx, query, webinarID)
	err := row.Scan(&w.ID, &w.CongressID, &w.Title, &w.Speaker, &w.VideoURL, &w.Description, &w.RecordedAt, &w.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("webinar not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get webinar by ID: %w", err)
	}
	return &w, nil
}
