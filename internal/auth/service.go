// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

/*
Package auth implements the core identity and session management system.

It handles admin enrollment, secure password hashing, and the full session
lifecycle: issuance, verification, rotation-on-refresh, and revocation.

Architecture:

  - Service: Orchestrates business logic (SignIn, VerifySession, RefreshSession).
  - Repository: Abstracted interfaces for Postgres (Admins) and Redis (verification tokens).
  - Security: Bcrypt password hashing and per-kind HS256 signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/internal/platform/sec"
	"github.com/lehoangduc/academix/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for minting and verifying session tokens.
type TokenProvider interface {
	// Mint creates a signed JWT of the given kind carrying {id, role}.
	Mint(adminID, role string, kind sec.TokenKind) (string, error)

	// Verify checks signature and expiry under the given kind's secret.
	// Failures are distinguishable: TOKEN_EXPIRED vs TOKEN_INVALID.
	Verify(tokenString string, kind sec.TokenKind) (*sec.SessionClaims, error)
}

// Service implements the admin authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, rotation,
// or replay-detection logic must be reviewed by the security team.
type Service struct {
	adminRepository             AdminRepository
	verificationTokenRepository VerificationTokenRepository
	tokenProvider               TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	adminRepo AdminRepository,
	verifyRepo VerificationTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		adminRepository:             adminRepo,
		verificationTokenRepository: verifyRepo,
		tokenProvider:               tokenProv,
	}
}

// # Session Issuance

// SignInInput defines credentials for an authentication attempt.
type SignInInput struct {
	Username string
	Password string
}

/*
SignIn validates admin credentials and issues a session token pair.

Description: Verifies identity with a constant-time password comparison,
mints an access/refresh pair, and persists the refresh token on the admin
record. The overwrite is the rotation point: whatever refresh token a
previous device held is invalidated here.

Parameters:
  - context: context.Context
  - input: SignInInput

Returns:
  - *Admin: The authenticated principal
  - *TokenPair: Transport-ready session credentials
  - err: NotFound, Unauthorized, AccountUnavailable, or internal failures
*/
func (service *Service) SignIn(context context.Context, input SignInInput) (*Admin, *TokenPair, error) {

	// Usernames are stored lowercase, so the lookup is case-insensitive
	// from the caller's point of view
	admin, err := service.adminRepository.FindByUsername(context, strings.ToLower(input.Username))
	if err != nil {
		return nil, nil, apperr.NotFound("Account")
	}

	// Verify password hash using constant-time comparison to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, admin.PasswordHash) {
		return nil, nil, apperr.Unauthorized("Incorrect password")
	}

	// Only active accounts may hold a session. No cookies, no rotation.
	if admin.Status != StatusActive {
		return nil, nil, apperr.AccountUnavailable(string(admin.Status))
	}

	// Mint the pair
	pair, err := service.mintPair(admin)
	if err != nil {
		return nil, nil, err
	}

	// Persist the refresh token onto the admin record (full overwrite)
	now := time.Now()
	if err := service.adminRepository.SaveRefreshToken(context, admin.ID, pair.RefreshToken, now); err != nil {
		return nil, nil, fmt.Errorf("auth_service_save_refresh_token_failed: %w", err)
	}

	admin.RefreshToken = pair.RefreshToken
	admin.LastLogin = &now

	return admin, pair, nil
}

// # Session Verification

/*
VerifySession validates an access token end to end.

Description: Checks signature and expiry, enforces the role allow-list, and
re-confirms that the principal behind the token still exists with the same
role. Never writes; verification has no side effects.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *VerifiedSession: The live principal and the decoded claims
  - err: TokenExpired, TokenInvalid, MalformedToken, Forbidden, or Unauthorized
*/
func (service *Service) VerifySession(context context.Context, accessToken string) (*VerifiedSession, error) {
	if accessToken == "" {
		return nil, apperr.Unauthorized("Missing access token")
	}

	// Signature and expiry. The two failure kinds stay distinguishable because
	// callers react differently: expired earns a refresh, invalid does not.
	claims, err := service.tokenProvider.Verify(accessToken, sec.KindAccess)
	if err != nil {
		return nil, err
	}

	// A decoded payload without identity claims is malformed, not forged
	if claims.AdminID == "" || claims.Role == "" {
		return nil, apperr.MalformedToken("Token payload is missing identity claims")
	}

	// Role allow-list for the protected surface
	if !sec.AdminRole(claims.Role).CanHoldSession() {
		return nil, apperr.Forbidden("Role is not permitted to hold a session")
	}

	// Re-confirm the principal still exists and the role still matches
	admin, err := service.adminRepository.FindByIDAndRole(context, claims.AdminID, claims.Role)
	if err != nil {
		return nil, apperr.Unauthorized("Account no longer exists")
	}

	return &VerifiedSession{Admin: admin, Claims: claims}, nil
}

// # Session Rotation

/*
RefreshSession implements the refresh token rotation mechanism.

Description: Verifies the refresh token cryptographically, confirms it matches
the single token on record (replay check), mints a fresh pair, and rotates the
stored value with a compare-and-swap so concurrent refreshes cannot both win.

A mismatch means the presented token is stale (already rotated) or stolen.
The stored token is cleared defensively, forcing the legitimate holder to
re-authenticate too.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: Rotated session credentials
  - *sec.SessionClaims: Claims carried by the new access token
  - err: Unauthorized, TokenExpired, TokenInvalid, SecurityViolation, or internal failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (*TokenPair, *sec.SessionClaims, error) {
	if refreshToken == "" {
		return nil, nil, apperr.Unauthorized("Missing refresh token")
	}

	// Cryptographic verification under the refresh secret. Expiry here is
	// terminal: the caller must force a full re-authentication.
	claims, err := service.tokenProvider.Verify(refreshToken, sec.KindRefresh)
	if err != nil {
		return nil, nil, err
	}

	// Load the principal including the stored refresh token
	admin, err := service.adminRepository.FindByID(context, claims.AdminID)
	if err != nil {
		return nil, nil, apperr.Unauthorized("Account no longer exists")
	}

	// Replay check: the presented token must equal the stored one exactly.
	// A refresh token is single-use across rotations.
	if admin.RefreshToken != refreshToken {
		_ = service.adminRepository.ClearRefreshToken(context, admin.ID)
		return nil, nil, apperr.SecurityViolation("Refresh token mismatch")
	}

	// Mint the rotated pair
	pair, err := service.mintPair(admin)
	if err != nil {
		return nil, nil, err
	}

	// Compare-and-swap rotation: only succeeds if the stored token is still
	// the one we just validated. A lost swap is treated like a replay.
	if err := service.adminRepository.RotateRefreshToken(context, admin.ID, refreshToken, pair.RefreshToken); err != nil {
		if apperr.HasCode(err, apperr.CodeSecurityViolation) {
			_ = service.adminRepository.ClearRefreshToken(context, admin.ID)
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("auth_service_rotate_refresh_token_failed: %w", err)
	}

	newClaims := &sec.SessionClaims{AdminID: admin.ID, Role: string(admin.Role)}
	return pair, newClaims, nil
}

// # Session Revocation

/*
SignOut revokes the session identified by the given refresh token.

Description: Finds the admin holding the token and clears the stored value.
Sign-out is idempotent: an unknown or empty token is still a success, because
the end state ("no live session for this credential") already holds.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Always nil for the client-visible outcome
*/
func (service *Service) SignOut(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	admin, err := service.adminRepository.FindByRefreshToken(context, refreshToken)
	if err != nil {
		// Already revoked or never existed; idempotent success
		return nil
	}

	_ = service.adminRepository.ClearRefreshToken(context, admin.ID)
	return nil
}

// # Enrollment Flow

// RegisterInput holds the data required to enroll a new administrator.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

/*
Register validates, hashes, and persists a brand new admin account.

Description: Deep-enrollment of a new administrator. The account starts in the
unverified state and cannot sign in until the verification token is redeemed.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Admin: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Admin, error) {

	// Usernames are case-normalized at this boundary so the uniqueness
	// check and later sign-in lookups agree on one canonical form
	input.Username = strings.ToLower(input.Username)

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.adminRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.adminRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new Admin entity. Time-sortable ID to prevent PG index fragmentation.
	admin := &Admin{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		Role:         sec.RoleInstructor,
		Status:       StatusUnverified,
	}

	// Persist the admin to the database
	if err := service.adminRepository.Create(context, admin); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Generate and store a verification token in Redis as an async-ready side effect
	token, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err == nil {
		_ = service.verificationTokenRepository.Set(context, token, admin.ID, VerificationTokenTTL)
		// TODO: Trigger email service with the verification link
	}

	return admin, nil
}

/*
VerifyAccount activates an admin account using a verification token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - err: Database or resolution errors
*/
func (service *Service) VerifyAccount(context context.Context, token string) error {

	// Retrieve the admin ID associated with the verification token from Redis
	adminID, err := service.verificationTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// Transition the account to active in persistent storage
	if err := service.adminRepository.Activate(context, adminID); err != nil {
		return fmt.Errorf("auth_service_verify_account_failed: %w", err)
	}

	// Cleanup the used verification token from Redis
	_ = service.verificationTokenRepository.Delete(context, token)

	return nil
}

// # Helpers

// mintPair mints an access/refresh token pair for the given admin.
func (service *Service) mintPair(admin *Admin) (*TokenPair, error) {
	accessToken, err := service.tokenProvider.Mint(admin.ID, string(admin.Role), sec.KindAccess)
	if err != nil {
		return nil, err
	}

	refreshToken, err := service.tokenProvider.Mint(admin.ID, string(admin.Role), sec.KindRefresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
