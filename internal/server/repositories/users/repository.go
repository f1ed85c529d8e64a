// Package users declares the server-side repository contract for account
// rows consumed by the authentication flows.
package users

import (
	"context"

	"ledgerauth/internal/server/models"
)

// Repository defines the user-store operations the authentication core
// consumes. Implementations return common.ErrorNotFound for absent rows.
type Repository interface {
	// GetByEmail returns the user owning the given email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Update persists the mutable user fields and returns the stored row.
	Update(ctx context.Context, user *models.User) (*models.User, error)
}
