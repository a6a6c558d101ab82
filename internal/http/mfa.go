package http

import (
	"net/http"

	"github.com/bookvault/server/internal/service"
	"github.com/bookvault/server/pkg/httpx"
	"github.com/bookvault/server/pkg/slogx"
)

// MFAHandler handles TOTP enrollment.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnable handles POST /enable-mfa. Generates and stores a TOTP secret
// for the authenticated user and returns the otpauth URI the client renders
// as a QR code. Re-enabling replaces the previous secret.
func (h *MFAHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.ErrUnauthorized.Write(w)
		return
	}

	uri, err := h.MFAService.EnableMFA(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("mfa enabled", "user_id", userID)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "MFA enabled successfully",
		"qr_code_url": uri,
		"mfa_enabled": true,
	})
}
