// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehoangduc/academix/internal/auth"
	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/internal/platform/sec"
)

// # In-Memory Fakes

type fakeAdminRepository struct {
	admins map[string]*auth.Admin
}

func newFakeAdminRepository(admins ...*auth.Admin) *fakeAdminRepository {
	repo := &fakeAdminRepository{admins: make(map[string]*auth.Admin)}
	for _, admin := range admins {
		repo.admins[admin.ID] = admin
	}
	return repo
}

func (repo *fakeAdminRepository) FindByID(_ context.Context, id string) (*auth.Admin, error) {
	if admin, ok := repo.admins[id]; ok {
		return admin, nil
	}
	return nil, apperr.NotFound("Admin")
}

func (repo *fakeAdminRepository) FindByIDAndRole(_ context.Context, id, role string) (*auth.Admin, error) {
	if admin, ok := repo.admins[id]; ok && string(admin.Role) == role {
		return admin, nil
	}
	return nil, apperr.NotFound("Admin")
}

func (repo *fakeAdminRepository) FindByUsername(_ context.Context, username string) (*auth.Admin, error) {
	for _, admin := range repo.admins {
		if admin.Username == username {
			return admin, nil
		}
	}
	return nil, apperr.NotFound("Admin")
}

func (repo *fakeAdminRepository) FindByEmail(_ context.Context, email string) (*auth.Admin, error) {
	for _, admin := range repo.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return nil, apperr.NotFound("Admin")
}

func (repo *fakeAdminRepository) FindByRefreshToken(_ context.Context, refreshToken string) (*auth.Admin, error) {
	for _, admin := range repo.admins {
		if admin.RefreshToken != "" && admin.RefreshToken == refreshToken {
			return admin, nil
		}
	}
	return nil, apperr.NotFound("Admin")
}

func (repo *fakeAdminRepository) Create(_ context.Context, admin *auth.Admin) error {
	repo.admins[admin.ID] = admin
	return nil
}

func (repo *fakeAdminRepository) SaveRefreshToken(_ context.Context, adminID, refreshToken string, lastLogin time.Time) error {
	admin, ok := repo.admins[adminID]
	if !ok {
		return apperr.NotFound("Admin")
	}
	admin.RefreshToken = refreshToken
	admin.LastLogin = &lastLogin
	return nil
}

func (repo *fakeAdminRepository) RotateRefreshToken(_ context.Context, adminID, currentToken, newToken string) error {
	admin, ok := repo.admins[adminID]
	if !ok {
		return apperr.NotFound("Admin")
	}
	if admin.RefreshToken != currentToken {
		return apperr.SecurityViolation("Refresh token is no longer current")
	}
	admin.RefreshToken = newToken
	return nil
}

func (repo *fakeAdminRepository) ClearRefreshToken(_ context.Context, adminID string) error {
	if admin, ok := repo.admins[adminID]; ok {
		admin.RefreshToken = ""
	}
	return nil
}

func (repo *fakeAdminRepository) Activate(_ context.Context, adminID string) error {
	admin, ok := repo.admins[adminID]
	if !ok || admin.Status != auth.StatusUnverified {
		return apperr.NotFound("Unverified admin")
	}
	admin.Status = auth.StatusActive
	return nil
}

type fakeVerificationTokenRepository struct {
	tokens map[string]string
}

func newFakeVerificationTokenRepository() *fakeVerificationTokenRepository {
	return &fakeVerificationTokenRepository{tokens: make(map[string]string)}
}

func (repo *fakeVerificationTokenRepository) Set(_ context.Context, token, adminID string, _ time.Duration) error {
	repo.tokens[token] = adminID
	return nil
}

func (repo *fakeVerificationTokenRepository) Get(_ context.Context, token string) (string, error) {
	if adminID, ok := repo.tokens[token]; ok {
		return adminID, nil
	}
	return "", apperr.NotFound("Verification token")
}

func (repo *fakeVerificationTokenRepository) Delete(_ context.Context, token string) error {
	delete(repo.tokens, token)
	return nil
}

// # Fixtures

const testPassword = "Passw0rd!"

func newTestTokenService() *sec.TokenService {
	return sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "academix.test")
}

func newActiveInstructor(t *testing.T) *auth.Admin {
	t.Helper()

	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)

	return &auth.Admin{
		ID:           "0198c9a0-0000-7000-8000-000000000001",
		Username:     "johndoe12",
		Email:        "johndoe@academix.app",
		PasswordHash: hash,
		FullName:     "John Doe",
		Role:         sec.RoleInstructor,
		Status:       auth.StatusActive,
	}
}

func newTestService(t *testing.T, admins ...*auth.Admin) (*auth.Service, *fakeAdminRepository, *fakeVerificationTokenRepository) {
	t.Helper()

	adminRepo := newFakeAdminRepository(admins...)
	verifyRepo := newFakeVerificationTokenRepository()
	service := auth.NewService(adminRepo, verifyRepo, newTestTokenService())

	return service, adminRepo, verifyRepo
}

// # Session Issuance

/*
TestSignIn_Success covers the canonical happy path: an active instructor signs
in and the stored refresh token equals the minted one exactly.
*/
func TestSignIn_Success(t *testing.T) {
	admin := newActiveInstructor(t)
	service, repo, _ := newTestService(t, admin)

	signedIn, pair, err := service.SignIn(context.Background(), auth.SignInInput{
		Username: "johndoe12",
		Password: testPassword,
	})

	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, admin.ID, signedIn.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	// The persisted refresh token must match the minted one exactly
	assert.Equal(t, pair.RefreshToken, repo.admins[admin.ID].RefreshToken)
	assert.NotNil(t, repo.admins[admin.ID].LastLogin)
}

/*
TestSignIn_UsernameCaseInsensitive checks that sign-in accepts any casing of
the username, because the stored form is always lowercase.
*/
func TestSignIn_UsernameCaseInsensitive(t *testing.T) {
	admin := newActiveInstructor(t)
	service, _, _ := newTestService(t, admin)

	signedIn, pair, err := service.SignIn(context.Background(), auth.SignInInput{
		Username: "JohnDoe12",
		Password: testPassword,
	})

	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, admin.ID, signedIn.ID)
}

/*
TestSignIn_Failures checks every rejection path and that none of them touches
the stored refresh token.
*/
func TestSignIn_Failures(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		status   auth.AdminStatus
		wantCode string
	}{
		{"unknown_username", "nobody99", testPassword, auth.StatusActive, apperr.CodeNotFound},
		{"incorrect_password", "johndoe12", "wrong-password", auth.StatusActive, apperr.CodeUnauthorized},
		{"unverified_account", "johndoe12", testPassword, auth.StatusUnverified, apperr.CodeAccountUnavailable},
		{"suspended_account", "johndoe12", testPassword, auth.StatusSuspended, apperr.CodeAccountUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := newActiveInstructor(t)
			admin.Status = tt.status
			admin.RefreshToken = "pre-existing-token"
			service, repo, _ := newTestService(t, admin)

			_, pair, err := service.SignIn(context.Background(), auth.SignInInput{
				Username: tt.username,
				Password: tt.password,
			})

			require.Error(t, err)
			assert.Nil(t, pair)
			assert.True(t, apperr.HasCode(err, tt.wantCode))

			// Failed attempts never rotate or clear the stored token
			assert.Equal(t, "pre-existing-token", repo.admins[admin.ID].RefreshToken)
		})
	}
}

// # Session Verification

/*
TestVerifySession_Success verifies the full path including the principal
re-confirmation lookup.
*/
func TestVerifySession_Success(t *testing.T) {
	admin := newActiveInstructor(t)
	service, _, _ := newTestService(t, admin)

	_, pair, err := service.SignIn(context.Background(), auth.SignInInput{
		Username: "johndoe12",
		Password: testPassword,
	})
	require.NoError(t, err)

	session, err := service.VerifySession(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, session.Admin.ID)
	assert.Equal(t, admin.ID, session.Claims.AdminID)
	assert.Equal(t, string(sec.RoleInstructor), session.Claims.Role)
}

/*
TestVerifySession_RoleGate checks that an otherwise-valid token whose role is
outside the allow-list is rejected with Forbidden.
*/
func TestVerifySession_RoleGate(t *testing.T) {
	admin := newActiveInstructor(t)
	admin.Role = sec.RoleSupport
	service, _, _ := newTestService(t, admin)

	// Signature and expiry are fine; only the role is unacceptable
	token, err := newTestTokenService().Mint(admin.ID, string(sec.RoleSupport), sec.KindAccess)
	require.NoError(t, err)

	_, err = service.VerifySession(context.Background(), token)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

/*
TestVerifySession_Rejections covers missing, forged, and kind-confused tokens.
*/
func TestVerifySession_Rejections(t *testing.T) {
	admin := newActiveInstructor(t)
	service, _, _ := newTestService(t, admin)

	tokens := newTestTokenService()
	refreshToken, err := tokens.Mint(admin.ID, string(admin.Role), sec.KindRefresh)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{"missing_token", "", apperr.CodeUnauthorized},
		{"garbage_token", "not.a.jwt", apperr.CodeTokenInvalid},
		{"refresh_token_as_access", refreshToken, apperr.CodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifySession(context.Background(), tt.token)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.wantCode))
		})
	}
}

/*
TestVerifySession_DeletedPrincipal ensures a token for a vanished admin fails
even though the token itself still verifies.
*/
func TestVerifySession_DeletedPrincipal(t *testing.T) {
	service, _, _ := newTestService(t)

	token, err := newTestTokenService().Mint("ghost-id", string(sec.RoleAdmin), sec.KindAccess)
	require.NoError(t, err)

	_, err = service.VerifySession(context.Background(), token)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

// # Session Rotation & Replay

/*
TestRefreshSession_Rotation checks the single-outstanding-token invariant:
after a refresh, the new token is stored and works, and the old one is stale.
*/
func TestRefreshSession_Rotation(t *testing.T) {
	admin := newActiveInstructor(t)
	service, repo, _ := newTestService(t, admin)

	_, pair, err := service.SignIn(context.Background(), auth.SignInInput{
		Username: "johndoe12",
		Password: testPassword,
	})
	require.NoError(t, err)
	tokenA := pair.RefreshToken

	// A -> B
	rotated, claims, err := service.RefreshSession(context.Background(), tokenA)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.NotEqual(t, tokenA, rotated.RefreshToken)
	assert.Equal(t, rotated.RefreshToken, repo.admins[admin.ID].RefreshToken)

	// B -> C still works
	_, _, err = service.RefreshSession(context.Background(), rotated.RefreshToken)
	require.NoError(t, err)
}

/*
TestRefreshSession_ReplayDetection exercises the core anti-replay invariant:
reusing a rotated-away token is a security violation that also revokes the
legitimate holder's token.
*/
func TestRefreshSession_ReplayDetection(t *testing.T) {
	admin := newActiveInstructor(t)
	service, repo, _ := newTestService(t, admin)

	_, pair, err := service.SignIn(context.Background(), auth.SignInInput{
		Username: "johndoe12",
		Password: testPassword,
	})
	require.NoError(t, err)
	tokenA := pair.RefreshToken

	// A -> B; A is now stale
	rotated, _, err := service.RefreshSession(context.Background(), tokenA)
	require.NoError(t, err)
	tokenB := rotated.RefreshToken

	// Replaying A must fail and defensively clear the stored token
	_, _, err = service.RefreshSession(context.Background(), tokenA)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeSecurityViolation))
	assert.Empty(t, repo.admins[admin.ID].RefreshToken)

	// The legitimate holder of B is forced to re-authenticate too
	_, _, err = service.RefreshSession(context.Background(), tokenB)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeSecurityViolation))
}

/*
TestRefreshSession_Rejections covers the terminal failure paths that never
reach the rotation step.
*/
func TestRefreshSession_Rejections(t *testing.T) {
	admin := newActiveInstructor(t)
	service, _, _ := newTestService(t, admin)

	accessToken, err := newTestTokenService().Mint(admin.ID, string(admin.Role), sec.KindAccess)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{"missing_token", "", apperr.CodeUnauthorized},
		{"garbage_token", "not.a.jwt", apperr.CodeTokenInvalid},
		{"access_token_as_refresh", accessToken, apperr.CodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.RefreshSession(context.Background(), tt.token)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.wantCode))
		})
	}
}

// # Session Revocation

/*
TestSignOut_Idempotent checks that sign-out clears the stored token when it
matches and is a silent success otherwise.
*/
func TestSignOut_Idempotent(t *testing.T) {
	admin := newActiveInstructor(t)
	service, repo, _ := newTestService(t, admin)

	_, pair, err := service.SignIn(context.Background(), auth.SignInInput{
		Username: "johndoe12",
		Password: testPassword,
	})
	require.NoError(t, err)

	// First sign-out revokes
	require.NoError(t, service.SignOut(context.Background(), pair.RefreshToken))
	assert.Empty(t, repo.admins[admin.ID].RefreshToken)

	// Repeating with the same (now unknown) token is still a success
	require.NoError(t, service.SignOut(context.Background(), pair.RefreshToken))

	// So is signing out with no token at all
	require.NoError(t, service.SignOut(context.Background(), ""))
}

// # Enrollment

/*
TestRegister_And_VerifyAccount walks the full enrollment flow from sign-up
through token-driven activation.
*/
func TestRegister_And_VerifyAccount(t *testing.T) {
	service, repo, verifyRepo := newTestService(t)

	admin, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "JaneDoe34",
		Email:    "janedoe@academix.app",
		Password: testPassword,
		FullName: "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.StatusUnverified, admin.Status)
	assert.Equal(t, sec.RoleInstructor, admin.Role)

	// Usernames are stored in their lowercase canonical form
	assert.Equal(t, "janedoe34", admin.Username)
	assert.NotEqual(t, testPassword, repo.admins[admin.ID].PasswordHash)

	// An unverified admin cannot sign in yet
	_, _, err = service.SignIn(context.Background(), auth.SignInInput{
		Username: "janedoe34",
		Password: testPassword,
	})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeAccountUnavailable))

	// Redeem the verification token
	require.Len(t, verifyRepo.tokens, 1)
	var token string
	for stored := range verifyRepo.tokens {
		token = stored
	}
	require.NoError(t, service.VerifyAccount(context.Background(), token))
	assert.Equal(t, auth.StatusActive, repo.admins[admin.ID].Status)
	assert.Empty(t, verifyRepo.tokens)

	// Sign-in now succeeds
	_, _, err = service.SignIn(context.Background(), auth.SignInInput{
		Username: "janedoe34",
		Password: testPassword,
	})
	require.NoError(t, err)
}

/*
TestRegister_Conflicts checks uniqueness enforcement for email and username.
*/
func TestRegister_Conflicts(t *testing.T) {
	admin := newActiveInstructor(t)
	service, _, _ := newTestService(t, admin)

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"duplicate_email", "freshname1", "johndoe@academix.app"},
		{"duplicate_username", "johndoe12", "fresh@academix.app"},
		{"duplicate_username_mixed_case", "JohnDoe12", "fresh@academix.app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), auth.RegisterInput{
				Username: tt.username,
				Email:    tt.email,
				Password: testPassword,
				FullName: "Someone Else",
			})
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
		})
	}
}
