package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/opencongress/congresso/models"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) GetActivitiesByCongressID(ctx context.Context, congressID string) ([]models.Activity, error) {
	query := `
		SELECT id, congress_id, title, speaker, room, starts_at, ends_at, created_at
		FROM activities
		WHERE congress_id = $1
		ORDER BY starts_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, congressID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities for congress %s: %w", congressID, err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.CongressID, &a.Title, &a.Speaker, &a.Room, &a.StartsAt, &a.EndsAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}
