// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

/*
HTTP delivery layer for the admin session lifecycle.

# Architecture

The handler acts as a thin mediation layer between the web and the domain service:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles cookie injection/clearing for both session tokens.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
All token/credential errors are translated to the error taxonomy at this boundary;
nothing propagates as an unhandled failure to the client.
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/internal/platform/constants"
	requestutil "github.com/lehoangduc/academix/internal/platform/request"
	"github.com/lehoangduc/academix/internal/platform/respond"
	"github.com/lehoangduc/academix/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session lifecycle entry points (sign-in, session
// verification, rotation, sign-out) plus admin enrollment.
type Handler struct {
	authService   *Service
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
// secureCookies should be true in production deployments.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with session lifecycle routes.
//
// # Endpoints
//   - POST /sign-in        : Authenticates and sets both session cookies.
//   - GET  /verify-session : Validates the current access token.
//   - GET  /refresh-token  : Rotates the session token pair.
//   - POST /sign-out       : Revokes the session (idempotent).
//   - POST /sign-up        : Enrolls a new admin (unverified).
//   - POST /verify-account : Activates an enrolled admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/sign-in", handler.signIn)
	router.Get("/verify-session", handler.verifySession)
	router.Get("/refresh-token", handler.refreshToken)
	router.Post("/sign-out", handler.signOut)
	router.Post("/sign-up", handler.signUp)
	router.Post("/verify-account", handler.verifyAccount)

	return router
}

// # Request Payloads

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type verifyAccountRequest struct {
	Token string `json:"token"`
}

/*
SignIn authenticates an admin and establishes a session.

POST /api/v1/auth/sign-in

Description: Verifies credentials, mints the access/refresh pair, persists the
rotated refresh token, and sets both session cookies.

Request:
  - Body: signInRequest (Username, Password)

Response:
  - 200: {success, id} with both cookies set
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: ErrUnauthorized: Incorrect password
  - 403: AccountUnavailable: Non-active account status
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLen).
		MaxLen(FieldUsername, input.Username, UsernameMaxLen).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLen)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, pair, err := handler.authService.SignIn(request.Context(), SignInInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	SetSessionCookies(writer, pair, handler.secureCookies)

	respond.OK(writer, map[string]any{
		FieldSuccess: true,
		FieldID:      admin.ID,
	})
}

/*
VerifySession validates the current access token.

GET /api/v1/auth/verify-session

Description: Reads the access token from the cookie first, falling back to the
Authorization header, and runs the full verification path (signature, expiry,
role allow-list, principal re-confirmation).

Response:
  - 200: {isValid: true, principal}
  - 401: {isValid: false, isExpired, error} for expired or invalid tokens
  - 403: Role not in the allow-list
  - 500: Signing secret misconfiguration
*/
func (handler *Handler) verifySession(writer http.ResponseWriter, request *http.Request) {

	// Cookie first, bearer second
	accessToken := requestutil.CookieValue(request, constants.AccessTokenCookieName)
	if accessToken == "" {
		accessToken = requestutil.BearerToken(request)
	}

	session, err := handler.authService.VerifySession(request.Context(), accessToken)
	if err != nil {
		handler.respondVerifyFailure(writer, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		FieldIsValid:   true,
		FieldPrincipal: session.Admin,
	})
}

// respondVerifyFailure writes the verify-session failure envelope. The shape
// differs from the standard error envelope because gate-style callers branch
// on {isValid, isExpired} rather than on codes.
func (handler *Handler) respondVerifyFailure(writer http.ResponseWriter, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	respond.JSON(writer, appError.HTTPStatus, map[string]any{
		FieldIsValid:         false,
		FieldIsExpired:       appError.Code == apperr.CodeTokenExpired,
		constants.FieldError: appError.Message,
		constants.FieldCode:  appError.Code,
	})
}

/*
RefreshToken rotates the session token pair.

GET /api/v1/auth/refresh-token

Description: Reads the refresh token from the Authorization header first,
falling back to the cookie. On success, both cookies are replaced with the
rotated pair. Any failure proactively clears both cookies; a single attempt
is made and failure is terminal for the session.

Response:
  - 200: {success, id} with rotated cookies set
  - 401: Missing, expired, or invalid refresh token
  - 403: SecurityViolation: stored-token mismatch (replay detected)
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {

	// Header first, cookie second
	refreshToken := requestutil.BearerToken(request)
	if refreshToken == "" {
		refreshToken = requestutil.CookieValue(request, constants.RefreshTokenCookieName)
	}

	pair, claims, err := handler.authService.RefreshSession(request.Context(), refreshToken)
	if err != nil {
		ClearSessionCookies(writer, handler.secureCookies)
		respond.Error(writer, request, err)
		return
	}

	SetSessionCookies(writer, pair, handler.secureCookies)

	respond.OK(writer, map[string]any{
		FieldSuccess: true,
		FieldID:      claims.AdminID,
	})
}

/*
SignOut revokes the current session.

POST /api/v1/auth/sign-out

Description: If a refresh token cookie is present, the matching stored token is
cleared. Both cookies are always cleared and the response is always 200; the
operation is idempotent and never fails the client-visible outcome.

Response:
  - 200: {success: true}
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	refreshToken := requestutil.CookieValue(request, constants.RefreshTokenCookieName)

	_ = handler.authService.SignOut(request.Context(), refreshToken)

	ClearSessionCookies(writer, handler.secureCookies)

	respond.OK(writer, map[string]any{
		FieldSuccess: true,
	})
}

/*
SignUp enrolls a new admin account.

POST /api/v1/auth/sign-up

Description: Validates input, checks for identity conflicts, and persists a new
unverified admin. A verification token is issued out-of-band.

Request:
  - Body: signUpRequest (Username, Email, Password, FullName)

Response:
  - 201: Admin: Created profile (unverified)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLen).
		MaxLen(FieldUsername, input.Username, UsernameMaxLen).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLen)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, admin)
}

/*
VerifyAccount activates an enrolled admin using a verification token.

POST /api/v1/auth/verify-account

Description: Validates the token and transitions the account to active.

Request:
  - Body: verifyAccountRequest (Token)

Response:
  - 200: Success: Account activated
  - 400: ErrInvalidJSON: Missing token
  - 404: ErrNotFound: Token invalid or expired
*/
func (handler *Handler) verifyAccount(writer http.ResponseWriter, request *http.Request) {
	var input verifyAccountRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	if err := handler.authService.VerifyAccount(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Account verified successfully",
	})
}
