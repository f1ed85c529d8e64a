// Package repomanager vends repository implementations bound to a database
// handle, so services can run the same repository code on the pool or
// inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"ledgerauth/internal/dbx"
	"ledgerauth/internal/server/repositories/refreshtokens"
	"ledgerauth/internal/server/repositories/users"
)

// RepositoryManager constructs repositories bound to the provided DBTX and
// exposes a schema migration hook.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
