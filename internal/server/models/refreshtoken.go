package models

import "time"

// RefreshToken is a stored refresh-token row. IsActive only ever flips from
// true to false; rows are never deleted by the service. The row, not the
// token's embedded expiry, is the authority for revocation.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	IsActive  bool
	CreatedOn time.Time
}
