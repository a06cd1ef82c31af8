// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

/*
Package auth implements the administrator identity and session lifecycle.

It defines the core domain entity (Admin) and the logic for sign-in, session
verification, rotation-on-refresh, and revocation.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no external
dependencies and encapsulates all business rules related to admin identity.
*/
package auth

import (
	"time"

	"github.com/lehoangduc/academix/internal/platform/sec"
)

// # Domain Entities

// AdminStatus is the account lifecycle state of an administrator.
type AdminStatus string

const (
	StatusActive     AdminStatus = "active"
	StatusInactive   AdminStatus = "inactive"
	StatusSuspended  AdminStatus = "suspended"
	StatusUnverified AdminStatus = "unverified"
)

// IsValid reports whether the status is a member of the closed enumeration.
func (status AdminStatus) IsValid() bool {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended, StatusUnverified:
		return true
	}
	return false
}

// Admin represents a back-office principal of the Academix platform.
//
// # Security
//
// PasswordHash and RefreshToken are excluded from every client-facing
// projection; repository methods select them explicitly only where
// verification requires the raw values.
type Admin struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"` // Explicitly omitted from JSON for security.
	FullName     string        `json:"full_name"`
	Role         sec.AdminRole `json:"role"`
	Status       AdminStatus   `json:"status"`
	RefreshToken string        `json:"-"` // The single currently-valid refresh credential. Omitted for security.
	LastLogin    *time.Time    `json:"last_login,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// VerifiedSession is the outcome of a successful end-to-end session verification.
type VerifiedSession struct {
	Admin  *Admin
	Claims *sec.SessionClaims
}

// TokenPair carries a freshly minted access/refresh credential pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldID        = "id"
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFullName  = "full_name"
	FieldToken     = "token"
	FieldSuccess   = "success"
	FieldIsValid   = "isValid"
	FieldIsExpired = "isExpired"
	FieldPrincipal = "principal"
	FieldMessage   = "message"
)
