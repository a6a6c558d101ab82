package http

import (
	"encoding/json"
	"net/http"

	"github.com/bookvault/server/internal/domain"
	"github.com/bookvault/server/internal/service"
	"github.com/bookvault/server/pkg/httpx"
	"github.com/bookvault/server/pkg/slogx"
)

// AuthHandler handles registration, login and the MFA verification step.
type AuthHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyMFARequest struct {
	OTP string `json:"otp"`
}

type tokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	MFARequired bool          `json:"mfa_required,omitempty"`
	Message     string        `json:"message,omitempty"`
	User        *userResponse `json:"user,omitempty"`
}

// userResponse is the sanitized user shape. The password hash and MFA secret
// are never serialized.
type userResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	MFAEnabled bool   `json:"mfa_enabled"`
	CreatedAt  string `json:"created_at"`
}

func newUserResponse(u domain.User) *userResponse {
	return &userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		MFAEnabled: u.MFAActive(),
		CreatedAt:  u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleRegister handles POST /register. New accounts always get the "user"
// role; the response includes an immediately usable token.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidBody.Write(w)
		return
	}

	session, err := h.AuthService.Register(ctx, req.Name, req.Email, req.Password, req.PasswordConfirmation)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("user registered", "user_id", session.User.ID)
	httpx.WriteJSON(w, http.StatusCreated, tokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   session.ExpiresIn,
		User:        newUserResponse(session.User),
	})
}

// HandleLogin handles POST /login. When the account has MFA enabled the
// response is flagged mfa_required and the token must be upgraded via
// /verify-mfa before it represents a complete login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidBody.Write(w)
		return
	}

	session, err := h.AuthService.Login(ctx, req.Email, req.Password, httpx.IPKeyExtractor(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := tokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   session.ExpiresIn,
		User:        newUserResponse(session.User),
	}
	if session.MFARequired {
		resp.MFARequired = true
		resp.Message = "MFA required"
	}

	log.Info("user logged in", "user_id", session.User.ID, "mfa_required", session.MFARequired)
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleVerifyMFA handles POST /verify-mfa. Requires authentication; a valid
// code yields a fully authenticated token.
func (h *AuthHandler) HandleVerifyMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.ErrUnauthorized.Write(w)
		return
	}

	var req verifyMFARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidBody.Write(w)
		return
	}

	session, err := h.AuthService.VerifyMFA(ctx, userID, req.OTP)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("mfa verified", "user_id", userID)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   session.ExpiresIn,
	})
}
