// internal/reservation/handler.go
package reservation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the reservation endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Post("/", h.handleReserve)
	r.Get("/rankings", h.handleRankings)
	r.Get("/stats", h.handleStats)
	r.Get("/user/{id}", h.handleListForUser)
	r.Get("/book/{isbn}", h.handleListForBook)
	r.Delete("/book/{isbn}", h.handleClearForBook)
	r.Get("/book/{isbn}/next", h.handleNextForBook)
	r.Get("/user/{id}/book/{isbn}", h.handlePosition)
	r.Delete("/user/{id}/book/{isbn}", h.handleCancel)
	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListAll(r.Context()))
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		ISBN   string `json:"isbn"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.service.Reserve(r.Context(), req.UserID, req.ISBN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handlePosition(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Position(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "isbn"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "isbn")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListForUser(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.ListForUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleListForBook(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.ListForBook(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleClearForBook(w http.ResponseWriter, r *http.Request) {
	dropped, err := h.service.ClearForBook(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"dropped": dropped})
}

func (h *Handler) handleNextForBook(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.NextForBook(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleRankings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, h.service.Rankings(r.Context(), limit))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Stats(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrBookNotFound), errors.Is(err, ErrNotInQueue):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrStockAvailable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrEmptyUserID), errors.Is(err, ErrEmptyISBN):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrQueueFull):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
