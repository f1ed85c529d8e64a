package auth

import (
	"time"

	"github.com/google/uuid"

	"ledgerauth/internal/server/models"
)

// NewRefreshToken builds an unsaved refresh-token record for user. The token
// string is a self-encoded signed claim with its own, longer validity, but
// the stored row's IsActive flag remains the authority for revocation;
// redemption checks both.
func NewRefreshToken(secret []byte, user *models.User, validity time.Duration) (*models.RefreshToken, error) {
	claims := NewClaims(user.ID, TokenTypeRefresh, validity)
	token, err := Encode(claims, secret)
	if err != nil {
		return nil, err
	}
	return &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		IsActive:  true,
		CreatedOn: time.Now(),
	}, nil
}
