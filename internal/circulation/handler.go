// internal/circulation/handler.go
package circulation

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

// Routes mounts the circulation endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/borrow", h.handleBorrow)
	r.Post("/return", h.handleReturn)
	r.Post("/fulfill/{isbn}", h.handleFulfill)
	r.Get("/rankings", h.handleMostLoaned)
	r.Get("/stats", h.handleStats)
	r.Get("/history/{id}", h.handleHistory)
	r.Get("/history/{id}/last", h.handleLastLoan)
	r.Get("/history/{id}/book/{isbn}", h.handleHasBorrowed)
	return r
}

type loanRequest struct {
	UserID string `json:"user_id"`
	ISBN   string `json:"isbn"`
}

func (h *Handler) handleBorrow(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := h.service.Borrow(r.Context(), req.UserID, req.ISBN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Return(r.Context(), req.UserID, req.ISBN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleFulfill(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Fulfill(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.HistoryForUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleLastLoan(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.LastLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleHasBorrowed(w http.ResponseWriter, r *http.Request) {
	borrowed, err := h.service.HasBorrowed(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "isbn"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"borrowed": borrowed})
}

func (h *Handler) handleMostLoaned(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, h.service.MostLoaned(r.Context(), limit))
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
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrBookNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrLoanLimit), errors.Is(err, ErrNoStock), errors.Is(err, ErrUserInactive),
		errors.Is(err, ErrNotBorrowed), errors.Is(err, ErrNoOpenLoans):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrEmptyISBN):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
