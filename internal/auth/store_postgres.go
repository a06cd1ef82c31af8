// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

// PostgreSQL implementation of the auth storage layer.
//
// # Architecture
//
// Repositories here are strictly separated from domain logic. They implement
// the domain-defined interfaces (e.g., [AdminRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lehoangduc/academix/internal/platform/apperr"
)

// # Admin Repository

// safeColumns is the client-facing projection: credential columns excluded.
const safeColumns = `id, username, email, fullname, role, status, lastlogin, createdat, updatedat`

// credentialColumns adds the secrets needed on verification paths.
const credentialColumns = safeColumns + `, passwordhash, COALESCE(refreshtoken, '')`

// PostgresAdminRepository implements the AdminRepository interface using pgx.
type PostgresAdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new PostgreSQL implementation of the AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

/*
Create persists a new admin record into the users.admin table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - admin: *Admin (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresAdminRepository) Create(context context.Context, admin *Admin) error {
	const query = `
		INSERT INTO users.admin (
			id, username, email, passwordhash, fullname, role, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		admin.ID,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
		admin.FullName,
		admin.Role,
		admin.Status,
		admin.CreatedAt,
		admin.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_admin_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves an admin record by ID, including credential columns.

Description: Used by the session refresher, which must compare the stored
refresh token against the presented one.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Admin: Hydrated account entity with secrets
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAdminRepository) FindByID(context context.Context, id string) (*Admin, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM users.admin
		WHERE id = $1 AND deletedat IS NULL`

	admin, err := repository.scanWithCredentials(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Admin not found with this id")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_id_failed: %w", err)
	}

	return admin, nil
}

/*
FindByIDAndRole retrieves an admin by ID and role using the safe projection.

Description: The session verifier's re-confirmation lookup. A role change since
issuance makes the token's claims stale, so the role participates in the match.

Parameters:
  - context: context.Context
  - id: string
  - role: string

Returns:
  - *Admin: Hydrated account entity without secrets
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAdminRepository) FindByIDAndRole(context context.Context, id, role string) (*Admin, error) {
	query := `
		SELECT ` + safeColumns + `
		FROM users.admin
		WHERE id = $1 AND role = $2 AND deletedat IS NULL`

	admin, err := repository.scanSafe(repository.pool.QueryRow(context, query, id, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Admin not found with this id and role")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_id_role_failed: %w", err)
	}

	return admin, nil
}

/*
FindByUsername retrieves an admin record by their unique username.

Description: Sign-in lookup; explicitly selects credential columns for
password verification.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Admin: Hydrated account entity with secrets
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAdminRepository) FindByUsername(context context.Context, username string) (*Admin, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM users.admin
		WHERE username = $1 AND deletedat IS NULL`

	admin, err := repository.scanWithCredentials(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Admin not found with this username")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_username_failed: %w", err)
	}

	return admin, nil
}

/*
FindByEmail retrieves an admin record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Admin: Hydrated account entity without secrets
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAdminRepository) FindByEmail(context context.Context, email string) (*Admin, error) {
	query := `
		SELECT ` + safeColumns + `
		FROM users.admin
		WHERE email = $1 AND deletedat IS NULL`

	admin, err := repository.scanSafe(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Admin not found with this email")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_email_failed: %w", err)
	}

	return admin, nil
}

/*
FindByRefreshToken retrieves the admin whose stored refresh token equals the
given value exactly.

Description: Sign-out lookup; revocation by credential rather than identity.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Admin: Hydrated account entity with secrets
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAdminRepository) FindByRefreshToken(context context.Context, refreshToken string) (*Admin, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM users.admin
		WHERE refreshtoken = $1 AND deletedat IS NULL`

	admin, err := repository.scanWithCredentials(repository.pool.QueryRow(context, query, refreshToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Admin not found with this refresh token")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_refresh_token_failed: %w", err)
	}

	return admin, nil
}

/*
SaveRefreshToken overwrites the stored refresh token and stamps last-login.

Description: The sign-in rotation point. A full overwrite, never a partial
update, to guarantee the single-outstanding-token invariant.

Parameters:
  - context: context.Context
  - adminID: string
  - refreshToken: string
  - lastLogin: time.Time

Returns:
  - error: Persistence failures
*/
func (repository *PostgresAdminRepository) SaveRefreshToken(context context.Context, adminID, refreshToken string, lastLogin time.Time) error {
	const query = `
		UPDATE users.admin
		SET refreshtoken = $2, lastlogin = $3, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, adminID, refreshToken, lastLogin)
	if err != nil {
		return fmt.Errorf("postgres_admin_repo_save_refresh_token_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Admin not found with this id")
	}

	return nil
}

/*
RotateRefreshToken swaps the stored refresh token with a compare-and-swap.

Description: The UPDATE only matches while the stored value still equals
currentToken, so two racing refreshes cannot both rotate; the loser observes
zero affected rows and receives a SECURITY_VIOLATION.

Parameters:
  - context: context.Context
  - adminID: string
  - currentToken: string
  - newToken: string

Returns:
  - error: apperr.SecurityViolation on a lost swap, or persistence failures
*/
func (repository *PostgresAdminRepository) RotateRefreshToken(context context.Context, adminID, currentToken, newToken string) error {
	const query = `
		UPDATE users.admin
		SET refreshtoken = $3, updatedat = NOW()
		WHERE id = $1 AND refreshtoken = $2 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, adminID, currentToken, newToken)
	if err != nil {
		return fmt.Errorf("postgres_admin_repo_rotate_refresh_token_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.SecurityViolation("Refresh token is no longer current")
	}

	return nil
}

/*
ClearRefreshToken nulls the stored refresh token, revoking the live session.

Parameters:
  - context: context.Context
  - adminID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresAdminRepository) ClearRefreshToken(context context.Context, adminID string) error {
	const query = `
		UPDATE users.admin
		SET refreshtoken = NULL, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	if _, err := repository.pool.Exec(context, query, adminID); err != nil {
		return fmt.Errorf("postgres_admin_repo_clear_refresh_token_failed: %w", err)
	}

	return nil
}

/*
Activate transitions an unverified account to active.

Parameters:
  - context: context.Context
  - adminID: string

Returns:
  - error: apperr.NotFound if no unverified account matches, or persistence failures
*/
func (repository *PostgresAdminRepository) Activate(context context.Context, adminID string) error {
	const query = `
		UPDATE users.admin
		SET status = $2, updatedat = NOW()
		WHERE id = $1 AND status = $3 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, adminID, StatusActive, StatusUnverified)
	if err != nil {
		return fmt.Errorf("postgres_admin_repo_activate_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Unverified admin not found with this id")
	}

	return nil
}

// # Row Scanning

// scanSafe hydrates an Admin from the safe projection column order.
func (repository *PostgresAdminRepository) scanSafe(row pgx.Row) (*Admin, error) {
	admin := &Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.FullName,
		&admin.Role,
		&admin.Status,
		&admin.LastLogin,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// scanWithCredentials hydrates an Admin including credential columns.
func (repository *PostgresAdminRepository) scanWithCredentials(row pgx.Row) (*Admin, error) {
	admin := &Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.FullName,
		&admin.Role,
		&admin.Status,
		&admin.LastLogin,
		&admin.CreatedAt,
		&admin.UpdatedAt,
		&admin.PasswordHash,
		&admin.RefreshToken,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}
