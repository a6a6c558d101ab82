package http

import (
	"encoding/json"
	"net/http"

	"github.com/bookvault/server/internal/service"
	"github.com/bookvault/server/pkg/httpx"
	"github.com/bookvault/server/pkg/slogx"
)

// AccountHandler handles authenticated account maintenance. Both operations
// re-verify the password before applying the change.
type AccountHandler struct {
	AuthService *service.AuthService
}

type changeEmailRequest struct {
	NewEmail string `json:"new_email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword         string `json:"current_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

// HandleChangeEmail handles POST /change-email.
func (h *AccountHandler) HandleChangeEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.ErrUnauthorized.Write(w)
		return
	}

	var req changeEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidBody.Write(w)
		return
	}

	if err := h.AuthService.ChangeEmail(ctx, userID, req.NewEmail, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("email changed", "user_id", userID)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Email changed successfully, please log in again.",
	})
}

// HandleChangePassword handles POST /change-password.
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.ErrUnauthorized.Write(w)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidBody.Write(w)
		return
	}

	err := h.AuthService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirmation)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("password changed", "user_id", userID)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully, please log in again.",
	})
}
