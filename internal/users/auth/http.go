// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/constants"
	"github.com/taibuivan/comunidad/internal/platform/ctxutil"
	"github.com/taibuivan/comunidad/internal/platform/middleware"
	requestutil "github.com/taibuivan/comunidad/internal/platform/request"
	"github.com/taibuivan/comunidad/internal/platform/respond"
	"github.com/taibuivan/comunidad/internal/platform/validate"
)

// credentialAttempts bounds login and recovery attempts per IP and minute.
const credentialAttempts = 10

/*
Handler serves the /auth endpoints.

Browsers keep the session in two HttpOnly cookies: the access token on every
path and the refresh token scoped to [constants.RefreshTokenCookiePath].
Other clients send the access token from the response body as a Bearer
header.
*/
type Handler struct {
	authService  *Service
	cookieSecure bool
}

// NewHandler constructs an auth [Handler].
func NewHandler(service *Service, cookieSecure bool) *Handler {
	return &Handler{authService: service, cookieSecure: cookieSecure}
}

// Routes returns the /auth router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/reset-password", handler.resetPassword)

	limited := router.With(middleware.LimitByClient(credentialAttempts, time.Minute))
	limited.Post("/login", handler.login)
	limited.Post("/forgot-password", handler.forgotPassword)

	router.With(middleware.RequireAuth).Post("/change-password", handler.changePassword)

	return router
}

// # Payloads

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type tokenPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type passwordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// tokenResponse is returned by login and refresh.
type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user,omitempty"`
}

type message struct {
	Message string `json:"message"`
}

// decode reads the JSON body into a T, answering the request itself on failure.
func decode[T any](writer http.ResponseWriter, request *http.Request) (T, bool) {
	var payload T
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return payload, false
	}
	return payload, true
}

// # Sessions

/*
POST /api/v1/auth/register.

Response:
  - 201: User holding the base member role
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	payload, ok := decode[credentials](writer, request)
	if !ok {
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput(payload))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
POST /api/v1/auth/login.

Response:
  - 200: tokenResponse with the user, plus both session cookies
  - 401: Invalid credentials
  - 429: Too many attempts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	payload, ok := decode[credentials](writer, request)
	if !ok {
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, payload.Email).Required(FieldPassword, payload.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     payload.Email,
		Password:  payload.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session, true)
}

/*
POST /api/v1/auth/refresh.

Description: Rotates the refresh token. A rejected token also clears the
cookies so the browser stops retrying it.

Response:
  - 200: tokenResponse, plus both session cookies
  - 401: Missing, revoked or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	token := refreshToken(request)
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	session, err := handler.authService.RefreshSession(request.Context(), token, request.UserAgent(), middleware.RealIP(request))
	if err != nil {
		handler.expireCookies(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session, false)
}

// POST /api/v1/auth/logout. Always 204; an unknown token is not an error.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if token := refreshToken(request); token != "" {
		if err := handler.authService.Logout(request.Context(), token); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	handler.expireCookies(writer)
	respond.NoContent(writer)
}

// # Recovery

// POST /api/v1/auth/verify-email. 404 when the token is unknown or expired.
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	payload, ok := decode[tokenPayload](writer, request)
	if !ok {
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), payload.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, message{"Email verified successfully"})
}

/*
POST /api/v1/auth/forgot-password.

Description: Answers the same way whether or not the address is registered.
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	payload, ok := decode[credentials](writer, request)
	if !ok {
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, payload.Email).Email(FieldEmail, payload.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), payload.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, message{"If this email is registered, a reset link has been sent."})
}

// POST /api/v1/auth/reset-password. Every session of the account is revoked.
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	payload, ok := decode[tokenPayload](writer, request)
	if !ok {
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), payload.Token, payload.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, message{"Password updated successfully"})
}

/*
POST /api/v1/auth/change-password.

Description: Keeps the session the access token was issued from and signs
out every other device.

Response:
  - 200: Password changed
  - 401: Anonymous caller or wrong current password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	payload, ok := decode[passwordChange](writer, request)
	if !ok {
		return
	}

	err := handler.authService.ChangePassword(request.Context(), claims.UserID, payload.CurrentPassword, payload.NewPassword, claims.SessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, message{"Password changed successfully"})
}

// # Transport Helpers

// refreshToken returns the refresh cookie value, or "" without one.
func refreshToken(request *http.Request) string {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// writeSession sets both cookies and answers with the access token.
func (handler *Handler) writeSession(writer http.ResponseWriter, session *LoginSession, withUser bool) {
	handler.setCookie(writer, constants.AccessTokenCookieName, session.AccessToken, "/", session.AccessTokenExpiresAt, http.SameSiteLaxMode)
	handler.setCookie(writer, constants.RefreshTokenCookieName, session.RefreshToken, constants.RefreshTokenCookiePath, session.RefreshTokenExpiresAt, http.SameSiteStrictMode)

	body := tokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(AccessTokenTTL / time.Second),
		ExpiresAt:   session.AccessTokenExpiresAt,
	}
	if withUser {
		body.User = session.User
	}
	respond.OK(writer, body)
}

func (handler *Handler) setCookie(writer http.ResponseWriter, name, value, path string, expires time.Time, sameSite http.SameSite) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		Secure:   handler.cookieSecure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

func (handler *Handler) expireCookies(writer http.ResponseWriter) {
	for _, cookie := range []struct{ name, path string }{
		{constants.AccessTokenCookieName, "/"},
		{constants.RefreshTokenCookieName, constants.RefreshTokenCookiePath},
	} {
		http.SetCookie(writer, &http.Cookie{
			Name:     cookie.name,
			Path:     cookie.path,
			MaxAge:   -1,
			Secure:   handler.cookieSecure,
			HttpOnly: true,
		})
	}
}
