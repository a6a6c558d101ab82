package http

import (
	"encoding/json"
	"net/http"

	"github.com/bookvault/server/internal/domain"
	"github.com/bookvault/server/internal/service"
	"github.com/bookvault/server/pkg/httpx"
	"github.com/bookvault/server/pkg/slogx"
)

// BooksHandler handles the book record endpoints.
type BooksHandler struct {
	BookService *service.BookService
}

type createBookRequest struct {
	Title  string `json:"title"`
	Secret string `json:"secret"`
}

type bookResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Secret    string `json:"secret,omitempty"`
	CreatedAt string `json:"created_at"`
}

func newBookResponse(b domain.Book) bookResponse {
	return bookResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		Title:     b.Title,
		Secret:    b.Secret,
		CreatedAt: b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func requesterRole(r *http.Request) domain.Role {
	if v, ok := r.Context().Value(httpx.CtxKeyRole).(string); ok {
		return domain.ParseRole(v)
	}
	return domain.RoleUser
}

// HandleCreate handles POST /books.
func (h *BooksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.ErrUnauthorized.Write(w)
		return
	}

	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidBody.Write(w)
		return
	}

	book, err := h.BookService.Create(ctx, userID, req.Title, req.Secret)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("book created", "book_id", book.ID, "user_id", userID)
	httpx.WriteJSON(w, http.StatusCreated, newBookResponse(book))
}

// HandleList handles GET /books. The listing is visible to every
// authenticated user and never includes secrets.
func (h *BooksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.BookService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]bookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, newBookResponse(b))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"books": resp})
}

// HandleGet handles GET /books/{id}. The secret is included, so access is
// restricted to the owner or an admin.
func (h *BooksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.ErrUnauthorized.Write(w)
		return
	}

	book, err := h.BookService.Get(ctx, r.PathValue("id"), userID, requesterRole(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newBookResponse(book))
}

// HandleDelete handles DELETE /books/{id}. Admin only.
func (h *BooksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id := r.PathValue("id")
	if err := h.BookService.Delete(ctx, id, requesterRole(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("book deleted", "book_id", id)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Book deleted successfully",
	})
}
