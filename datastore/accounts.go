package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/opencongress/congresso/models"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, a *models.Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt

	query := `
		INSERT INTO accounts (id, email, name, surname, phone, institution, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.Name, a.Surname, a.Phone, a.Institution, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, accountID string) (*models.Account, error) {
	query := `
		SELECT id, email, name, surname, phone, institution, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var a models.Account
	row := r.db.QueryRowContext(ctx, query, accountID)
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Surname, &a.Phone, &a.Institution, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return &a, nil
}

func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, email, name, surname, phone, institution, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	var a models.Account
	row := r.db.QueryRowContext(ctx, query, email)
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Surname, &a.Phone, &a.Institution, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &a, nil
}

// UpdateAccountProfile replaces the profile fields used by the
// profile-completeness gate.
func (r *AccountRepository) UpdateAccountProfile(ctx context.Context, a *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, surname = $2, phone = $3, institution = $4, updated_at = NOW()
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, a.Name, a.Surname, a.Phone, a.Institution, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", a.ID, err)
	}
	return checkRowAffected(result)
}
