package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/opencongress/congresso/models"
)

type StatusTransitionRepository struct {
	db *sql.DB
}

func NewStatusTransitionRepository(db *sql.DB) *StatusTransitionRepository {
	return &StatusTransitionRepository{db: db}
}

// CreateStatusTransition appends one audit record. Transition rows are
// never updated or deleted.
func (r *StatusTransitionRepository) CreateStatusTransition(ctx context.Context, t *models.StatusTransition) error {
	query := `
		INSERT INTO status_transitions (id, abstract_id, from_status, to_status, actor_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.AbstractID, string(t.FromStatus), string(t.ToStatus), t.ActorID, t.Note, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert status transition: %w", err)
	}
	return nil
}

func (r *StatusTransitionRepository) GetTransitionsByAbstractID(ctx context.Context, abstractID string) ([]models.StatusTransition, error) {
	query := `
		SELECT id, abstract_id, from_status, to_status, actor_id, note, created_at
		FROM status_transitions
		WHERE abstract_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, abstractID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions for abstract %s: %w", abstractID, err)
	}
	defer rows.Close()

	var transitions []models.StatusTransition
	for rows.Next() {
		var t models.StatusTransition
		var fromStr, toStr string
		if err := rows.Scan(&t.ID, &t.AbstractID, &fromStr, &toStr, &t.ActorID, &t.Note, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transition row: %w", err)
		}
		t.FromStatus = models.AbstractStatus(fromStr)
		t.ToStatus = models.AbstractStatus(toStr)
		transitions = append(transitions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transition rows: %w", err)
	}

	if transitions == nil {
		transitions = []models.StatusTransition{}
	}
	return transitions, nil
}
