// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// # Admin Data Access

// AdminRepository defines the data access contract for administrator accounts.
//
// # Mutation Discipline
//
// Only the sign-in and refresh paths write the stored refresh token, and every
// write is a full overwrite. This guarantees that at most one refresh token is
// outstanding per admin at any time.
type AdminRepository interface {

	/*
		FindByID returns the account with the given ID, including credential
		columns (password hash, stored refresh token).

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Admin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Admin, error)

	/*
		FindByIDAndRole returns the account matching both ID and role, using the
		safe projection (no credential columns). Used by session verification to
		re-confirm that the principal behind a token still exists unchanged.

		Parameters:
		  - context: context.Context
		  - id: string
		  - role: string

		Returns:
		  - *Admin: Hydrated entity without secrets
		  - error: Database retrieval failures
	*/
	FindByIDAndRole(context context.Context, id, role string) (*Admin, error)

	/*
		FindByUsername returns the account with the given username, including
		credential columns for password verification.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *Admin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*Admin, error)

	/*
		FindByEmail returns the account with the given email (safe projection).

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Admin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Admin, error)

	/*
		FindByRefreshToken returns the account whose stored refresh token equals
		the given value exactly. Used by sign-out to revoke by credential.

		Parameters:
		  - context: context.Context
		  - refreshToken: string

		Returns:
		  - *Admin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByRefreshToken(context context.Context, refreshToken string) (*Admin, error)

	/*
		Create persists a brand-new admin account to the storage.

		Parameters:
		  - context: context.Context
		  - admin: *Admin

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, admin *Admin) error

	/*
		SaveRefreshToken overwrites the stored refresh token and stamps the
		last-login time. This is the sign-in rotation point: any refresh token a
		previous device held becomes invalid.

		Parameters:
		  - context: context.Context
		  - adminID: string
		  - refreshToken: string
		  - lastLogin: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SaveRefreshToken(context context.Context, adminID, refreshToken string, lastLogin time.Time) error

	/*
		RotateRefreshToken replaces the stored refresh token only if its current
		value still equals currentToken (compare-and-swap). A zero-row update
		means a concurrent rotation won; callers receive a SECURITY_VIOLATION.

		Parameters:
		  - context: context.Context
		  - adminID: string
		  - currentToken: string
		  - newToken: string

		Returns:
		  - error: SECURITY_VIOLATION on a lost swap, or persistence failures
	*/
	RotateRefreshToken(context context.Context, adminID, currentToken, newToken string) error

	/*
		ClearRefreshToken nulls the stored refresh token, revoking the session.

		Parameters:
		  - context: context.Context
		  - adminID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRefreshToken(context context.Context, adminID string) error

	/*
		Activate transitions an unverified account to active.

		Parameters:
		  - context: context.Context
		  - adminID: string

		Returns:
		  - error: Persistence failures
	*/
	Activate(context context.Context, adminID string) error
}

// # Volatile Data Access

// VerificationTokenRepository defines the contract for storing volatile
// account verification tokens.
type VerificationTokenRepository interface {

	/*
		Set stores a verification token associated with an adminID.

		Parameters:
		  - context: context.Context
		  - token: string
		  - adminID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, adminID string, ttl time.Duration) error

	/*
		Get retrieves the adminID associated with a given verification token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: AdminID
		  - error: Retrieval failures
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a verification token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
