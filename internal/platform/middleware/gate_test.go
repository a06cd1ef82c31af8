// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehoangduc/academix/internal/auth"
	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/internal/platform/constants"
	"github.com/lehoangduc/academix/internal/platform/ctxutil"
	"github.com/lehoangduc/academix/internal/platform/middleware"
	"github.com/lehoangduc/academix/internal/platform/sec"
)

// # Fakes

type fakeVerifier struct {
	session *auth.VerifiedSession
	err     error
	calls   int
}

func (verifier *fakeVerifier) VerifySession(_ context.Context, _ string) (*auth.VerifiedSession, error) {
	verifier.calls++
	return verifier.session, verifier.err
}

type fakeRefresher struct {
	pair   *auth.TokenPair
	claims *sec.SessionClaims
	err    error
	calls  int
}

func (refresher *fakeRefresher) RefreshSession(_ context.Context, _ string) (*auth.TokenPair, *sec.SessionClaims, error) {
	refresher.calls++
	return refresher.pair, refresher.claims, refresher.err
}

// # Harness

func instructorSession() *auth.VerifiedSession {
	claims := &sec.SessionClaims{AdminID: "a1", Role: string(sec.RoleInstructor)}
	return &auth.VerifiedSession{
		Admin:  &auth.Admin{ID: "a1", Role: sec.RoleInstructor, Status: auth.StatusActive},
		Claims: claims,
	}
}

// serveGate runs a request through the gate and reports whether the inner
// handler ran, along with the claims it observed.
func serveGate(t *testing.T, gate *middleware.SessionGate, request *http.Request) (*httptest.ResponseRecorder, bool, *sec.SessionClaims) {
	t.Helper()

	var reached bool
	var observed *sec.SessionClaims
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reached = true
		observed = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	gate.Handler(inner).ServeHTTP(recorder, request)
	return recorder, reached, observed
}

func withAccessCookie(request *http.Request, value string) *http.Request {
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: value})
	return request
}

func withRefreshCookie(request *http.Request, value string) *http.Request {
	request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: value})
	return request
}

func clearedCookieNames(recorder *httptest.ResponseRecorder) []string {
	var names []string
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.MaxAge < 0 {
			names = append(names, cookie.Name)
		}
	}
	return names
}

// # Jurisdiction & Public Routes

/*
TestGate_ExcludedPaths checks that API, static, and dotted asset paths bypass
the gate entirely, even with no session at all.
*/
func TestGate_ExcludedPaths(t *testing.T) {
	verifier := &fakeVerifier{err: apperr.TokenInvalid("missing")}
	gate := middleware.NewSessionGate(verifier, &fakeRefresher{}, false)

	for _, path := range []string{"/api/v1/courses", "/static/app.css", "/favicon.ico", "/assets/logo.svg"} {
		t.Run(path, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, path, nil)
			recorder, reached, _ := serveGate(t, gate, request)

			assert.True(t, reached)
			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Zero(t, verifier.calls)
		})
	}
}

/*
TestGate_PublicRoutes covers both public branches: anonymous visitors pass,
already-authenticated visitors are bounced to home.
*/
func TestGate_PublicRoutes(t *testing.T) {
	publicPaths := []string{"/sign-in", "/sign-up", "/pending-verification", "/pending-verification/abc123"}

	t.Run("anonymous_passes_through", func(t *testing.T) {
		gate := middleware.NewSessionGate(&fakeVerifier{}, &fakeRefresher{}, false)

		for _, path := range publicPaths {
			request := httptest.NewRequest(http.MethodGet, path, nil)
			recorder, reached, claims := serveGate(t, gate, request)

			assert.True(t, reached, path)
			assert.Equal(t, http.StatusOK, recorder.Code, path)
			assert.Nil(t, claims, path)
		}
	})

	t.Run("authenticated_redirects_home", func(t *testing.T) {
		// Presence of the cookie is enough; the gate does not verify it here
		verifier := &fakeVerifier{}
		gate := middleware.NewSessionGate(verifier, &fakeRefresher{}, false)

		for _, path := range publicPaths {
			request := withAccessCookie(httptest.NewRequest(http.MethodGet, path, nil), "some-token")
			recorder, reached, _ := serveGate(t, gate, request)

			assert.False(t, reached, path)
			assert.Equal(t, http.StatusFound, recorder.Code, path)
			assert.Equal(t, constants.RouteHome, recorder.Header().Get("Location"), path)
		}
		assert.Zero(t, verifier.calls)
	})
}

// # Protected Routes

/*
TestGate_ValidToken_Allows checks the VERIFY -> ALLOW transition with claims
injected for downstream handlers.
*/
func TestGate_ValidToken_Allows(t *testing.T) {
	verifier := &fakeVerifier{session: instructorSession()}
	refresher := &fakeRefresher{}
	gate := middleware.NewSessionGate(verifier, refresher, false)

	request := withAccessCookie(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "valid-token")
	recorder, reached, claims := serveGate(t, gate, request)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "a1", claims.AdminID)
	assert.Zero(t, refresher.calls)
}

/*
TestGate_ExpiredToken_RefreshSucceeds checks VERIFY -> REFRESH -> ALLOW with
rotated cookies on the response.
*/
func TestGate_ExpiredToken_RefreshSucceeds(t *testing.T) {
	verifier := &fakeVerifier{err: apperr.TokenExpired()}
	refresher := &fakeRefresher{
		pair:   &auth.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"},
		claims: &sec.SessionClaims{AdminID: "a1", Role: string(sec.RoleInstructor)},
	}
	gate := middleware.NewSessionGate(verifier, refresher, false)

	request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	withAccessCookie(request, "expired-token")
	withRefreshCookie(request, "still-valid-refresh")

	recorder, reached, claims := serveGate(t, gate, request)

	assert.True(t, reached)
	assert.Equal(t, 1, refresher.calls)
	require.NotNil(t, claims)
	assert.Equal(t, "a1", claims.AdminID)

	// Rotated cookies accompany the allowed response
	cookies := recorder.Result().Cookies()
	values := map[string]string{}
	for _, cookie := range cookies {
		values[cookie.Name] = cookie.Value
	}
	assert.Equal(t, "new-access", values[constants.AccessTokenCookieName])
	assert.Equal(t, "new-refresh", values[constants.RefreshTokenCookieName])
}

/*
TestGate_ExpiredToken_RefreshFails checks VERIFY -> REFRESH -> DENY: cleared
cookies and a redirect to sign-in.
*/
func TestGate_ExpiredToken_RefreshFails(t *testing.T) {
	verifier := &fakeVerifier{err: apperr.TokenExpired()}
	refresher := &fakeRefresher{err: apperr.SecurityViolation("Refresh token mismatch")}
	gate := middleware.NewSessionGate(verifier, refresher, false)

	request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	withAccessCookie(request, "expired-token")
	withRefreshCookie(request, "stale-refresh")

	recorder, reached, _ := serveGate(t, gate, request)

	assert.False(t, reached)
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, constants.RouteSignIn, recorder.Header().Get("Location"))
	assert.ElementsMatch(t,
		[]string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName},
		clearedCookieNames(recorder),
	)
}

/*
TestGate_InvalidToken_DeniesWithoutRefresh checks that only expiry earns a
refresh attempt; every other verification failure is terminal.
*/
func TestGate_InvalidToken_DeniesWithoutRefresh(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"missing_token", apperr.Unauthorized("Missing access token")},
		{"forged_token", apperr.TokenInvalid("Invalid access token")},
		{"malformed_payload", apperr.MalformedToken("Token payload is missing identity claims")},
		{"role_not_allowed", apperr.Forbidden("Role is not permitted to hold a session")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &fakeVerifier{err: tt.err}
			refresher := &fakeRefresher{}
			gate := middleware.NewSessionGate(verifier, refresher, false)

			request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			recorder, reached, _ := serveGate(t, gate, request)

			assert.False(t, reached)
			assert.Zero(t, refresher.calls)
			assert.Equal(t, http.StatusFound, recorder.Code)
			assert.Equal(t, constants.RouteSignIn, recorder.Header().Get("Location"))
			assert.ElementsMatch(t,
				[]string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName},
				clearedCookieNames(recorder),
			)
		})
	}
}
