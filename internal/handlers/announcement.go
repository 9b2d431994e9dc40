package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cama-app/apiserver/internal/services"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/cama-app/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// AnnouncementHandler provides announcement CRUD endpoints.
type AnnouncementHandler struct {
	service *services.AnnouncementService
}

func NewAnnouncementHandler(service *services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// AnnouncementRouter registers announcement routes on the given router.
func AnnouncementRouter(r chi.Router, service *services.AnnouncementService) {
	handler := NewAnnouncementHandler(service)

	r.Get("/announcements", handler.List)
	r.Post("/announcements", handler.Create)
	r.Put("/announcements/{id}", handler.Update)
	r.Delete("/announcements/{id}", handler.Delete)
}

func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, announcements)
}

type AnnouncementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := parseAnnouncementBody(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), types.Announcement{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *AnnouncementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid announcement id")
		return
	}

	req, ok := parseAnnouncementBody(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), types.Announcement{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Announcement not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid announcement id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Announcement not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeMessage(w, http.StatusOK, "Deleted successfully")
}

func parseAnnouncementBody(w http.ResponseWriter, r *http.Request) (AnnouncementRequest, bool) {
	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Title and description are required")
		return AnnouncementRequest{}, false
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "Title and description are required")
		return AnnouncementRequest{}, false
	}
	return req, true
}
