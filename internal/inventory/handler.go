// internal/inventory/handler.go
package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the inventory endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleListBooks)
	r.Post("/", h.handleAddBook)
	r.Get("/search", h.handleSearch)
	r.Get("/available", h.handleAvailable)
	r.Get("/report", h.handleReport)
	r.Get("/stats", h.handleStats)
	r.Get("/consistency", h.handleConsistency)
	r.Get("/{isbn}", h.handleGetBook)
	r.Patch("/{isbn}", h.handleUpdateBook)
	r.Delete("/{isbn}", h.handleRemoveBook)
	return r
}

func (h *Handler) handleListBooks(w http.ResponseWriter, r *http.Request) {
	sorted := r.URL.Query().Get("view") == "sorted"
	writeJSON(w, http.StatusOK, h.service.ListBooks(r.Context(), sorted))
}

func (h *Handler) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req Book
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, err := h.service.AddBook(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *Handler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetBook(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *Handler) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var req Update
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, err := h.service.UpdateBook(r.Context(), chi.URLParam(r, "isbn"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *Handler) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveBook(r.Context(), chi.URLParam(r, "isbn")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if title := r.URL.Query().Get("title"); title != "" {
		writeJSON(w, http.StatusOK, h.service.SearchTitle(r.Context(), title))
		return
	}
	if author := r.URL.Query().Get("author"); author != "" {
		writeJSON(w, http.StatusOK, h.service.SearchAuthor(r.Context(), author))
		return
	}
	http.Error(w, "missing title or author query", http.StatusBadRequest)
}

func (h *Handler) handleAvailable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Available(r.Context(), r.URL.Query().Get("author")))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Report(r.Context()))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Stats(r.Context()))
}

func (h *Handler) handleConsistency(w http.ResponseWriter, r *http.Request) {
	report := h.service.Verify(r.Context())
	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBookNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDuplicateISBN):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrEmptyISBN), errors.Is(err, ErrEmptyTitle), errors.Is(err, ErrNegativeValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
