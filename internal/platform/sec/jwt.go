// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces defined at the point of use.
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/pkg/uuid"
)

// # Token Kinds

// TokenKind distinguishes the two session credentials.
//
// Each kind is signed with its own secret, so possession of one kind's secret
// cannot forge the other kind.
type TokenKind string

const (
	// KindAccess is the short-lived credential authorizing individual requests.
	KindAccess TokenKind = "access"

	// KindRefresh is the long-lived credential used solely to mint a new pair.
	KindRefresh TokenKind = "refresh"
)

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	AccessTokenTTL = 1 * time.Hour

	// RefreshTokenTTL is the duration a refresh token remains valid.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// SessionClaims represents the payload embedded inside a session JWT.
//
// # Why custom claims?
//
// By embedding the AdminID and Role directly inside the JWT, middleware can
// gate most requests WITHOUT querying the database. The verifier still
// re-confirms the principal on the full verification path.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	AdminID string `json:"uid"`
	Role    string `json:"rol"`
}

// TokenService handles generation and verification of session JWTs using HS256.
//
// # Concurrency
//
// TokenService is immutable after construction and safe for concurrent use.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string

	// now is the clock used for issuing and verifying. Overridable in tests
	// to exercise expiry boundaries without sleeping.
	now func() time.Time
}

// NewTokenService creates a new TokenService with per-kind signing secrets.
//
// Empty secrets are tolerated here and reported lazily by [TokenService.Mint]
// and [TokenService.Verify] as configuration errors, so a partially configured
// deployment fails loudly on first use rather than at wiring time.
func NewTokenService(accessSecret, refreshSecret, issuer string) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		now:           time.Now,
	}
}

// TTL returns the validity window for the given token kind.
func TTL(kind TokenKind) time.Duration {
	if kind == KindRefresh {
		return RefreshTokenTTL
	}
	return AccessTokenTTL
}

/*
Mint creates a signed, time-bound session token of the given kind.

Description: Encodes {id, role} plus standard issued-at/expiry claims and
signs with the kind-specific secret.

Parameters:
  - adminID: string (Principal identifier)
  - role: string (Principal role at issuance time)
  - kind: TokenKind

Returns:
  - string: Signed JWT
  - error: apperr.Configuration if the kind's secret is missing, signing failures
*/
func (service *TokenService) Mint(adminID, role string, kind TokenKind) (string, error) {

	// Resolve the per-kind secret. An unset secret is a deployment fault.
	secret, err := service.secretFor(kind)
	if err != nil {
		return "", err
	}

	currentTime := service.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique jti so two pairs minted within the same second still
			// produce distinct tokens; rotation depends on this.
			ID:        uuid.New(),
			Subject:   adminID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(TTL(kind))),
		},
		AdminID: adminID,
		Role:    role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", apperr.Internal(err)
	}

	return signedToken, nil
}

/*
Verify checks the signature and validity window of a session token.

Description: Expired and invalid tokens are reported as distinct error kinds
because callers react differently (expired drives a refresh attempt, invalid
is terminal).

Parameters:
  - tokenString: string
  - kind: TokenKind (Selects the verification secret)

Returns:
  - *SessionClaims: Decoded payload
  - error: apperr.TokenExpired, apperr.TokenInvalid, or apperr.Configuration
*/
func (service *TokenService) Verify(tokenString string, kind TokenKind) (*SessionClaims, error) {

	secret, err := service.secretFor(kind)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("sec: unexpected signing method")
			}
			return secret, nil
		},
		jwt.WithTimeFunc(service.now),
		jwt.WithIssuer(service.issuer),
	)

	if err != nil {
		// Expiry must stay distinguishable from every other parse failure.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired()
		}
		return nil, apperr.TokenInvalid("Invalid " + string(kind) + " token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, apperr.TokenInvalid("Invalid token claims")
	}

	return claims, nil
}

// VerifyAccessToken is a convenience wrapper for bearer-auth middleware.
func (service *TokenService) VerifyAccessToken(tokenString string) (*SessionClaims, error) {
	return service.Verify(tokenString, KindAccess)
}

// secretFor maps a token kind to its signing secret.
func (service *TokenService) secretFor(kind TokenKind) ([]byte, error) {
	switch kind {
	case KindAccess:
		if len(service.accessSecret) == 0 {
			return nil, apperr.Configuration("Access token secret is not configured")
		}
		return service.accessSecret, nil
	case KindRefresh:
		if len(service.refreshSecret) == 0 {
			return nil, apperr.Configuration("Refresh token secret is not configured")
		}
		return service.refreshSecret, nil
	default:
		return nil, apperr.Configuration("Unknown token kind: " + string(kind))
	}
}
