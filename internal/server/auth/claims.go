// Package auth implements the signed identity claims behind both token
// kinds: the claim codec, the short-lived access token, and the builder for
// stored refresh tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ledgerauth/internal/common"
)

// TokenIssuer is the fixed issuer embedded in every claim and enforced on
// every decode. Issuer and verifier must agree on it.
const TokenIssuer = "ledgerauth"

// TokenType discriminates the two credential kinds inside a claim.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the signed payload asserting an identity and its validity
// window. Immutable once constructed.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"jty"`
}

// NewClaims builds a claim set for subject, valid from now until
// now+validity. The jti makes every encoded token unique even when two are
// minted for one subject within the same second.
func NewClaims(subject string, tokenType TokenType, validity time.Duration) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    TokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		TokenType: tokenType,
	}
}

// Encode signs claims with HMAC-SHA256 under secret, producing a URL-safe
// compact token string.
func Encode(claims Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Decode parses tokenString and validates signature, expiry, and issuer as
// one step; there is no way to obtain claims while skipping a check.
// Failures are reported as the token sentinels in the common package.
func Decode(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classifyDecodeError(err)
	}
	return claims, nil
}

// classifyDecodeError is total over golang-jwt's validation errors; anything
// unrecognized counts as malformed.
func classifyDecodeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return common.ErrTokenIssuerInvalid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return common.ErrTokenSignatureInvalid
	default:
		return common.ErrTokenMalformed
	}
}
