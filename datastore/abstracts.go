package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/opencongress/congresso/models"
)

type AbstractRepository struct {
	db *sql.DB
}

func NewAbstractRepository(db *sql.DB) *AbstractRepository {
	return &AbstractRepository{db: db}
}

const abstractColumns = `
	id, account_id, title, introduction, materials, results, discussion,
	conclusion, observations, type, theme, author_name, author_surname,
	author_email, author_phone, co_authors, status, admin_notes,
	final_file_path, final_file_hash, version, created_at, updated_at`

func scanAbstract(row interface{ Scan(...any) error }) (*models.Abstract, error) {
	var a models.Abstract
	var statusStr, typeStr, themeStr string
	err := row.Scan(
		&a.ID, &a.AccountID, &a.Title, &a.Introduction, &a.Materials, &a.Results,
		&a.Discussion, &a.Conclusion, &a.Observations, &typeStr, &themeStr,
		&a.AuthorName, &a.AuthorSurname, &a.AuthorEmail, &a.AuthorPhone,
		pq.Array(&a.CoAuthors), &statusStr, &a.AdminNotes,
		&a.FinalFilePath, &a.FinalFileHash, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = models.AbstractStatus(statusStr)
	a.Type = models.AbstractType(typeStr)
	a.Theme = models.AbstractTheme(themeStr)
	if a.CoAuthors == nil {
		a.CoAuthors = []string{}
	}
	return &a, nil
}

// CreateAbstract inserts a new abstract record.
func (r *AbstractRepository) CreateAbstract(ctx context.Context, a *models.Abstract) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt
	if a.Version == 0 {
		a.Version = 1
	}

	query := `
		INSERT INTO abstracts (
			id, account_id, title, introduction, materials, results, discussion,
			conclusion, observations, type, theme, author_name, author_surname,
			author_email, author_phone, co_authors, status, admin_notes,
			final_file_path, final_file_hash, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.AccountID, a.Title, a.Introduction, a.Materials, a.Results,
		a.Discussion, a.Conclusion, a.Observations, string(a.Type), string(a.Theme),
		a.AuthorName, a.AuthorSurname, a.AuthorEmail, a.AuthorPhone,
		pq.Array(a.CoAuthors), string(a.Status), a.AdminNotes,
		a.FinalFilePath, a.FinalFileHash, a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert abstract: %w", err)
	}
	return nil
}

func (r *AbstractRepository) GetAbstractByID(ctx context.Context, abstractID string) (*models.Abstract, error) {
	query := `SELECT ` + abstractColumns + ` FROM abstracts WHERE id = $1`
	a, err := scanAbstract(r.db.QueryRowContext(ctx, query, abstractID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("abstract not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get abstract by ID: %w", err)
	}
	return a, nil
}

func (r *AbstractRepository) GetAbstractsByAccountID(ctx context.Context, accountID string) ([]models.Abstract, error) {
	query := `SELECT ` + abstractColumns + ` FROM abstracts WHERE account_id = $1 ORDER BY created_at DESC`
	return r.queryAbstracts(ctx, query, accountID)
}

func (r *AbstractRepository) GetAbstractsByStatus(ctx context.Context, status models.AbstractStatus) ([]models.Abstract, error) {
	query := `SELECT ` + abstractColumns + ` FROM abstracts WHERE status = $1 ORDER BY created_at DESC`
	return r.queryAbstracts(ctx, query, string(status))
}

func (r *AbstractRepository) GetAllAbstracts(ctx context.Context) ([]models.Abstract, error) {
	query := `SELECT ` + abstractColumns + ` FROM abstracts ORDER BY created_at DESC`
	return r.queryAbstracts(ctx, query)
}

func (r *AbstractRepository) queryAbstracts(ctx context.Context, query string, args ...any) ([]models.Abstract, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query abstracts: %w", err)
	}
	defer rows.Close()

	var abstracts []models.Abstract
	for rows.Next() {
		a, err := scanAbstract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan abstract row: %w", err)
		}
		abstracts = append(abstracts, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating abstract rows: %w", err)
	}

	// Return empty slice, not nil, if no abstracts found
	if abstracts == nil {
		abstracts = []models.Abstract{}
	}
	return abstracts, nil
}

// UpdateAbstractContent replaces the editable fields of a draft abstract.
// Guarded by the version token.
func (r *AbstractRepository) UpdateAbstractContent(ctx context.Context, a *models.Abstract, expectedVersion int) error {
	query := `
		UPDATE abstracts
		SET title = $1, introduction = $2, materials = $3, results = $4,
		    discussion = $5, conclusion = $6, observations = $7, type = $8,
		    theme = $9, co_authors = $10, version = version + 1, updated_at = NOW()
		WHERE id = $11 AND version = $12
	`
	result, err := r.db.ExecContext(ctx, query,
		a.Title, a.Introduction, a.Materials, a.Results, a.Discussion,
		a.Conclusion, a.Observations, string(a.Type), string(a.Theme),
		pq.Array(a.CoAuthors), a.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update abstract %s: %w", a.ID, err)
	}
	return checkVersionedUpdate(result)
}

// UpdateAbstractStatus writes a new status under the version guard.
func (r *AbstractRepository) UpdateAbstractStatus(ctx context.Context, abstractID string, status models.AbstractStatus, expectedVersion int) error {
	query := `
		UPDATE abstracts
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`
	result, err := r.db.ExecContext(ctx, query, string(status), abstractID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update status of abstract %s: %w", abstractID, err)
	}
	return checkVersionedUpdate(result)
}

// UpdateAbstractTypeAndStatus flips the presentation type and sets the new
// status in a single guarded write.
func (r *AbstractRepository) UpdateAbstractTypeAndStatus(ctx context.Context, abstractID string, abstractType models.AbstractType, status models.AbstractStatus, expectedVersion int) error {
	query := `
		UPDATE abstracts
		SET type = $1, status = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4
	`
	result, err := r.db.ExecContext(ctx, query, string(abstractType), string(status), abstractID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update type of abstract %s: %w", abstractID, err)
	}
	return checkVersionedUpdate(result)
}

// SetAbstractFinalVersion records the final file and moves the abstract to
// final-version in a single guarded write.
func (r *AbstractRepository) SetAbstractFinalVersion(ctx context.Context, abstractID, filePath, fileHash string, expectedVersion int) error {
	query := `
		UPDATE abstracts
		SET status = $1, final_file_path = $2, final_file_hash = $3,
		    version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		string(models.AbstractStatusFinalVersion), filePath, fileHash, abstractID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to set final version of abstract %s: %w", abstractID, err)
	}
	return checkVersionedUpdate(result)
}

// UpdateAbstractAdminNotes replaces the reviewer notes. Notes are advisory
// and not version-guarded.
func (r *AbstractRepository) UpdateAbstractAdminNotes(ctx context.Context, abstractID, notes string) error {
	query := `UPDATE abstracts SET admin_notes = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, notes, abstractID)
	if err != nil {
		return fmt.Errorf("failed to update admin notes of abstract %s: %w", abstractID, err)
	}
	return checkRowAffected(result)
}

// DeleteDraftAbstract hard-deletes an abstract, but only while it is still
// a draft. Submitted abstracts are never deleted.
func (r *AbstractRepository) DeleteDraftAbstract(ctx context.Context, abstractID string) error {
	query := `DELETE FROM abstracts WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, abstractID, string(models.AbstractStatusDraft))
	if err != nil {
		return fmt.Errorf("failed to delete draft abstract %s: %w", abstractID, err)
	}
	return checkRowAffected(result)
}

// checkVersionedUpdate distinguishes a version conflict from a vanished row.
// Either way zero rows matched the guard, so the caller's view is stale.
func checkVersionedUpdate(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

func checkRowAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
