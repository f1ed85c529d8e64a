package auth

import (
	"time"

	"ledgerauth/internal/server/models"
)

// AccessToken wraps an encoded claim so only its string form is reachable.
// The encoded string is still a bearer secret; keep it out of logs.
type AccessToken struct {
	token string
}

// NewAccessToken issues a short-lived access token for user. Pure function
// of its inputs and the current time; no side effects.
func NewAccessToken(secret []byte, user *models.User, validity time.Duration) (*AccessToken, error) {
	claims := NewClaims(user.ID, TokenTypeAccess, validity)
	token, err := Encode(claims, secret)
	if err != nil {
		return nil, err
	}
	return &AccessToken{token: token}, nil
}

func (t *AccessToken) String() string {
	return t.token
}
