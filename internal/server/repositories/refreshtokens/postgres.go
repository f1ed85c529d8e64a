package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledgerauth/internal/common"
	"ledgerauth/internal/dbx"
	"ledgerauth/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores the record and returns the row as persisted.
func (r *PostgresRepository) Insert(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, is_active, created_on)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, token, is_active, created_on
	`
	stored := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query,
		token.ID, token.UserID, token.Token, token.IsActive, token.CreatedOn).
		Scan(&stored.ID, &stored.UserID, &stored.Token, &stored.IsActive, &stored.CreatedOn)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

// FindActive returns the active row for the given token string, or
// common.ErrorNotFound.
func (r *PostgresRepository) FindActive(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, is_active, created_on
		FROM refresh_tokens
		WHERE token = $1 AND is_active = TRUE
	`
	record := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&record.ID, &record.UserID, &record.Token, &record.IsActive, &record.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// Redeem flips the row inactive only while it is still active, in one
// statement. Concurrent calls with the same token serialize on the row
// lock; the loser re-evaluates the predicate against the committed flip,
// matches nothing, and gets common.ErrorNotFound.
func (r *PostgresRepository) Redeem(ctx context.Context, token string) (string, error) {
	query := `
		UPDATE refresh_tokens
		SET is_active = FALSE
		WHERE token = $1 AND is_active = TRUE
		RETURNING user_id
	`
	var userID string
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}

// RevokeAllForUser deactivates the user's whole active chain in one
// statement and reports how many rows it flipped. Calling it again is a
// no-op returning zero.
func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET is_active = FALSE
		WHERE user_id = $1 AND is_active = TRUE
	`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return rows, nil
}
