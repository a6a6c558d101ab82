package http

import (
	"net/http"

	"github.com/bookvault/server/internal/service"
	"github.com/bookvault/server/pkg/httpx"
)

// ProfileHandler returns the authenticated user's record.
type ProfileHandler struct {
	AuthService *service.AuthService
}

// HandleProfile handles GET /user-profile.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.ErrUnauthorized.Write(w)
		return
	}

	user, err := h.AuthService.Profile(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user": newUserResponse(user),
	})
}
