// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package auth

import (
	"net/http"

	"github.com/lehoangduc/academix/internal/platform/constants"
	"github.com/lehoangduc/academix/internal/platform/sec"
)

// # Session Cookie Transport

// SetSessionCookies writes both session cookies onto the response.
//
// Both cookies are HttpOnly with SameSite=Strict; the Secure flag follows the
// deployment environment. Max-Age mirrors each token's validity window so the
// browser drops the cookie roughly when the credential stops verifying anyway.
func SetSessionCookies(writer http.ResponseWriter, pair *TokenPair, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    pair.AccessToken,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(sec.AccessTokenTTL.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    pair.RefreshToken,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(sec.RefreshTokenTTL.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookies expires both session cookies on the client.
func ClearSessionCookies(writer http.ResponseWriter, secure bool) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.SessionCookiePath,
			MaxAge:   -1,
			Secure:   secure,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
