// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// UsernameMinLen and UsernameMaxLen bound the admin username.
	UsernameMinLen = 4
	UsernameMaxLen = 25

	// PasswordMinLen is the minimum sign-in/sign-up password length.
	PasswordMinLen = 8

	// VerificationTokenTTL is the duration an account verification token remains valid.
	// Long-lived (24 hours) as admins might not check email immediately.
	VerificationTokenTTL = 24 * time.Hour

	// VerificationTokenLength is the byte length of the random verification token.
	VerificationTokenLength = 32
)
