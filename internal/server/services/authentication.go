// Package services contains server-side business logic. This file
// implements AuthenticationService, which composes the login, refresh,
// password-update, and logout flows over the token codec, the stores, and
// the password hasher.
package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"ledgerauth/internal/common"
	"ledgerauth/internal/dbx"
	"ledgerauth/internal/logging"
	"ledgerauth/internal/password"
	"ledgerauth/internal/server/auth"
	"ledgerauth/internal/server/config"
	"ledgerauth/internal/server/models"
	"ledgerauth/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a longer-lived refresh
// token, always issued together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// emailPattern is a shape check only; deliverability is not this service's
// problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// AuthenticationService provides the credential flows:
//   - Login: verify email+password and mint a token pair
//   - Refresh: rotate a refresh token exactly once and mint a new pair
//   - UpdatePassword: re-authenticate, change the hash, revoke all tokens
//   - Logout: revoke the user's whole refresh-token chain
//
// Every externally observable identity failure is common.ErrorUnauthorized;
// the concrete cause goes to the logger only. Storage trouble surfaces as
// common.ErrorInternal.
type AuthenticationService struct {
	db                           *sql.DB
	repos                        repomanager.RepositoryManager
	hasher                       password.Hasher
	logger                       logging.Logger
	tokenSecret                  []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthenticationService constructs an AuthenticationService from its
// injected collaborators and server config. The signing secret is owned
// here; nothing reads it from ambient state.
func NewAuthenticationService(db *sql.DB, repos repomanager.RepositoryManager,
	hasher password.Hasher, logger logging.Logger, cfg *config.Config) *AuthenticationService {
	return &AuthenticationService{
		db:                           db,
		repos:                        repos,
		hasher:                       hasher,
		logger:                       logger.With("module", "authentication"),
		tokenSecret:                  []byte(cfg.TokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login verifies the credentials and, on success, returns a fresh token
// pair with the refresh token persisted. A malformed email, an unknown
// email, and a wrong password all produce the identical error.
func (s *AuthenticationService) Login(ctx context.Context, email, plaintext string) (*TokenPair, error) {
	if !emailPattern.MatchString(email) {
		s.logger.Warn(ctx, "login rejected", "cause", "malformed email")
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "login rejected", "cause", "unknown email")
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		s.logger.Warn(ctx, "login rejected", "cause", "password mismatch", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	return s.issueTokenPair(ctx, user, s.db)
}

// Refresh redeems a presented refresh token and rotates the user's chain:
// decode and validate the claim, then, atomically with respect to any
// concurrent presentation of the same token, deactivate the presented
// record, revoke the rest of the chain, and persist a new pair. Presenting
// the same token twice yields at most one success.
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.decodeToken(ctx, refreshToken, auth.TokenTypeRefresh, "refresh")
	if err != nil {
		return nil, err
	}

	var pair *TokenPair
	txErr := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.repos.RefreshTokens(tx)

		// The replay detector: one conditional update, not check-then-act.
		userID, err := tokens.Redeem(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				s.logger.Warn(ctx, "refresh rejected", "cause", "token revoked or unknown", "user_id", claims.Subject)
				return common.ErrorUnauthorized
			}
			s.logger.Error(ctx, "refresh token redeem failed", "error", err.Error())
			return common.ErrorInternal
		}
		if userID != claims.Subject {
			s.logger.Warn(ctx, "refresh rejected", "cause", "claim subject mismatch", "user_id", userID)
			return common.ErrorUnauthorized
		}

		if _, err := tokens.RevokeAllForUser(ctx, userID); err != nil {
			s.logger.Error(ctx, "refresh token revocation failed", "error", err.Error())
			return common.ErrorInternal
		}

		user, err := s.repos.Users(tx).GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				s.logger.Warn(ctx, "refresh rejected", "cause", "subject unknown", "user_id", userID)
				return common.ErrorUnauthorized
			}
			s.logger.Error(ctx, "user lookup failed", "error", err.Error())
			return common.ErrorInternal
		}

		pair, err = s.issueTokenPair(ctx, user, tx)
		return err
	})
	if txErr != nil {
		return nil, s.flowError(ctx, txErr)
	}
	return pair, nil
}

// UpdatePassword re-authenticates the access token's subject with the old
// password, stores the new hash, and revokes every outstanding refresh
// token before issuing a fresh pair. Requires an active, verified account.
func (s *AuthenticationService) UpdatePassword(ctx context.Context, accessToken, oldPassword, newPassword string) (*TokenPair, error) {
	// Request-shape check comes before any credential is evaluated, so the
	// validation error cannot leak whether the token or old password was
	// right.
	if len(newPassword) < minPasswordLength {
		s.logger.Warn(ctx, "password update rejected", "cause", "new password too short")
		return nil, common.ErrorValidation
	}

	claims, err := s.decodeToken(ctx, accessToken, auth.TokenTypeAccess, "password update")
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "password update rejected", "cause", "subject unknown", "user_id", claims.Subject)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !user.IsActive {
		s.logger.Warn(ctx, "password update rejected", "cause", "account inactive", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}
	if !user.IsVerified {
		s.logger.Warn(ctx, "password update rejected", "cause", "account unverified", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		s.logger.Warn(ctx, "password update rejected", "cause", "old password mismatch", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	txErr := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user.PasswordHash = newHash
		updated, err := s.repos.Users(tx).Update(ctx, user)
		if err != nil {
			s.logger.Error(ctx, "password update failed", "error", err.Error())
			return common.ErrorInternal
		}

		if _, err := s.repos.RefreshTokens(tx).RevokeAllForUser(ctx, updated.ID); err != nil {
			s.logger.Error(ctx, "refresh token revocation failed", "error", err.Error())
			return common.ErrorInternal
		}

		pair, err = s.issueTokenPair(ctx, updated, tx)
		return err
	})
	if txErr != nil {
		return nil, s.flowError(ctx, txErr)
	}
	return pair, nil
}

// Logout revokes every refresh token belonging to the presented token's
// owner and returns the number of records revoked.
func (s *AuthenticationService) Logout(ctx context.Context, refreshToken string) (int64, error) {
	if _, err := s.decodeToken(ctx, refreshToken, auth.TokenTypeRefresh, "logout"); err != nil {
		return 0, err
	}

	tokens := s.repos.RefreshTokens(s.db)

	record, err := tokens.FindActive(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "logout rejected", "cause", "token revoked or unknown")
			return 0, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "refresh token lookup failed", "error", err.Error())
		return 0, common.ErrorInternal
	}

	rows, err := tokens.RevokeAllForUser(ctx, record.UserID)
	if err != nil {
		s.logger.Error(ctx, "refresh token revocation failed", "error", err.Error())
		return 0, common.ErrorInternal
	}

	s.logger.Info(ctx, "logged out", "user_id", record.UserID, "rows_affected", rows)
	return rows, nil
}

// decodeToken validates a presented token string as a claim of the wanted
// type with a well-formed subject. All failure causes collapse to the
// uniform authentication error after logging.
func (s *AuthenticationService) decodeToken(ctx context.Context, tokenString string, want auth.TokenType, flow string) (*auth.Claims, error) {
	claims, err := auth.Decode(tokenString, s.tokenSecret)
	if err != nil {
		s.logger.Warn(ctx, flow+" rejected", "cause", err.Error())
		return nil, common.ErrorUnauthorized
	}
	if claims.TokenType != want {
		s.logger.Warn(ctx, flow+" rejected", "cause", common.ErrTokenTypeInvalid.Error())
		return nil, common.ErrorUnauthorized
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		s.logger.Warn(ctx, flow+" rejected", "cause", "claim subject is not an id")
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

// issueTokenPair mints an access token and persists a new refresh token for
// user on the given handle (pool or transaction).
func (s *AuthenticationService) issueTokenPair(ctx context.Context, user *models.User, db dbx.DBTX) (*TokenPair, error) {
	accessToken, err := auth.NewAccessToken(s.tokenSecret, user, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "access token signing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	refreshToken, err := auth.NewRefreshToken(s.tokenSecret, user, s.refreshTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "refresh token signing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	stored, err := s.repos.RefreshTokens(db).Insert(ctx, refreshToken)
	if err != nil {
		s.logger.Error(ctx, "refresh token insert failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken.String(), RefreshToken: stored.Token}, nil
}

// flowError normalizes an error escaping a transactional flow: the two
// service sentinels pass through, anything else (driver commit failures and
// the like) becomes the opaque internal error.
func (s *AuthenticationService) flowError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrorInternal) || errors.Is(err, common.ErrorValidation) {
		return err
	}
	s.logger.Error(ctx, "transaction failed", "error", err.Error())
	return common.ErrorInternal
}
