// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lehoangduc/academix/internal/auth"
	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/internal/platform/constants"
	"github.com/lehoangduc/academix/internal/platform/ctxutil"
	"github.com/lehoangduc/academix/internal/platform/sec"
)

// SessionVerifier validates an access token end to end: signature, expiry,
// role allow-list, and a live lookup of the admin record.
type SessionVerifier interface {
	VerifySession(ctx context.Context, accessToken string) (*auth.VerifiedSession, error)
}

// SessionRefresher exchanges a still-valid refresh token for a rotated pair.
type SessionRefresher interface {
	RefreshSession(ctx context.Context, refreshToken string) (*auth.TokenPair, *sec.SessionClaims, error)
}

// SessionGate is the request gate that fronts every admin page route.
//
// # Decision Flow
//
// Each request is decided independently; the only state carried between
// requests lives in the session cookies and the credential store.
//
//	public path, no access cookie  -> pass through
//	public path, access cookie     -> redirect to home
//	protected, token valid         -> allow (claims injected into context)
//	protected, token expired       -> one silent refresh attempt
//	    refresh succeeds           -> allow with rotated cookies
//	    refresh fails              -> deny
//	protected, token invalid       -> deny
//	deny                           -> clear both cookies, redirect to sign-in
//
// There is no retry: a single refresh attempt is made per request, and any
// failure forces interactive re-authentication.
type SessionGate struct {
	verifier      SessionVerifier
	refresher     SessionRefresher
	secureCookies bool
}

// NewSessionGate wires the gate with its session collaborators.
// secureCookies must be true in production so rotated cookies stay HTTPS-only.
func NewSessionGate(verifier SessionVerifier, refresher SessionRefresher, secureCookies bool) *SessionGate {
	return &SessionGate{
		verifier:      verifier,
		refresher:     refresher,
		secureCookies: secureCookies,
	}
}

// Handler returns the gate as a standard middleware for page routes.
func (gate *SessionGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		path := request.URL.Path

		// ── 1. Jurisdiction ───────────────────────────────────────────────
		// API routes carry their own auth middleware and static assets are
		// harmless; neither goes through the gate.
		if isGateExcludedPath(path) {
			next.ServeHTTP(writer, request)
			return
		}

		accessToken := cookieValue(request, constants.AccessTokenCookieName)

		// ── 2. Public Pages ───────────────────────────────────────────────
		if isPublicPath(path) {
			// An already-signed-in admin has no business on the auth pages.
			if accessToken != "" {
				http.Redirect(writer, request, constants.RouteHome, http.StatusFound)
				return
			}
			next.ServeHTTP(writer, request)
			return
		}

		// ── 3. Verify ─────────────────────────────────────────────────────
		session, err := gate.verifier.VerifySession(request.Context(), accessToken)
		if err == nil {
			ctx := ctxutil.WithAuthUser(request.Context(), session.Claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
			return
		}

		// Only an expired token earns a silent refresh. Everything else
		// (missing, forged, malformed, role not allowed) is terminal.
		if !apperr.HasCode(err, apperr.CodeTokenExpired) {
			gate.deny(writer, request)
			return
		}

		// ── 4. Refresh ────────────────────────────────────────────────────
		refreshToken := cookieValue(request, constants.RefreshTokenCookieName)
		pair, refreshedClaims, err := gate.refresher.RefreshSession(request.Context(), refreshToken)
		if err != nil {
			gate.deny(writer, request)
			return
		}

		// ── 5. Allow with rotated cookies ─────────────────────────────────
		auth.SetSessionCookies(writer, pair, gate.secureCookies)
		ctx := ctxutil.WithAuthUser(request.Context(), refreshedClaims)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// deny clears both session cookies and sends the visitor to interactive sign-in.
func (gate *SessionGate) deny(writer http.ResponseWriter, request *http.Request) {
	auth.ClearSessionCookies(writer, gate.secureCookies)
	http.Redirect(writer, request, constants.RouteSignIn, http.StatusFound)
}

// isGateExcludedPath reports whether the path is outside the gate's matcher.
// Asset requests like /favicon.ico carry a dot in their final segment and
// bypass the gate the same way /static/ does.
func isGateExcludedPath(path string) bool {
	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/static/") {
		return true
	}
	return strings.Contains(path[strings.LastIndex(path, "/"):], ".")
}

// isPublicPath reports whether the path is on the public-route allow-list.
func isPublicPath(path string) bool {
	if path == constants.RouteSignIn || path == constants.RouteSignUp {
		return true
	}
	return strings.HasPrefix(path, constants.RoutePendingVerification)
}

// cookieValue returns the named cookie's value, or "" when absent.
func cookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
