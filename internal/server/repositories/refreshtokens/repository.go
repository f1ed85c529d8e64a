// Package refreshtokens declares the server-side repository contract for
// refresh-token rows in persistent storage.
package refreshtokens

import (
	"context"

	"ledgerauth/internal/server/models"
)

// Repository defines operations for persisting, redeeming, and revoking
// refresh tokens. A row's is_active flag moves one way only, from true to
// false; no operation deletes rows or reactivates them.
type Repository interface {
	// Insert stores a new refresh-token record and returns the stored row.
	Insert(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)

	// FindActive looks up the still-active record with the exact token
	// string. Returns common.ErrorNotFound when no such record exists;
	// revoked and unknown tokens are indistinguishable to callers.
	FindActive(ctx context.Context, token string) (*models.RefreshToken, error)

	// Redeem atomically deactivates the record with the given token string
	// and returns its owning user id. It succeeds at most once per token:
	// the conditional update evaluates "still active" and flips the flag
	// indivisibly, so concurrent redemptions of one token cannot both win.
	// Returns common.ErrorNotFound when the token is unknown or already
	// revoked.
	Redeem(ctx context.Context, token string) (string, error)

	// RevokeAllForUser deactivates every active record belonging to userID
	// in a single statement and returns the number of rows affected.
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)
}
