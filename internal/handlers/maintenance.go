package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cama-app/apiserver/internal/services"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/cama-app/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const maxMediaFiles = 9

// MaintenanceHandler provides the maintenance-request endpoints.
type MaintenanceHandler struct {
	service *services.MaintenanceService
}

func NewMaintenanceHandler(service *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

// MaintenanceRouter registers maintenance routes on the given router.
// The underscore and hyphen paths are distinct endpoints the mobile
// client already depends on: the former is the full list/update pair,
// the latter the read-only high-priority feed.
func MaintenanceRouter(r chi.Router, service *services.MaintenanceService) {
	handler := NewMaintenanceHandler(service)

	r.Post("/maintenance", handler.Create)
	r.Get("/maintenance_requests", handler.List)
	r.Put("/maintenance_requests/{id}", handler.UpdateStatus)
	r.Get("/maintenance-requests", handler.HighPriority)
}

type MaintenanceCreateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Create files a new request from a multipart form with up to nine
// attached media files, each capped at 10 MB.
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, MaintenanceCreateResponse{Success: false, Message: "Invalid form data"})
		return
	}

	userID := strings.TrimSpace(r.FormValue("user_id"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	description := strings.TrimSpace(r.FormValue("description"))
	priority := strings.TrimSpace(r.FormValue("priority"))

	if userID == "" || subject == "" || description == "" || priority == "" {
		writeJSON(w, http.StatusBadRequest, MaintenanceCreateResponse{Success: false, Message: "All fields are required."})
		return
	}

	id, err := strconv.Atoi(userID)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, MaintenanceCreateResponse{Success: false, Message: "Invalid user id"})
		return
	}

	uploads, err := parseMediaFiles(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, MaintenanceCreateResponse{Success: false, Message: err.Error()})
		return
	}

	_, err = h.service.Create(r.Context(), types.MaintenanceRequest{
		UserID:      id,
		Subject:     subject,
		Description: description,
		Priority:    priority,
	}, uploads)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPriority) {
			writeJSON(w, http.StatusBadRequest, MaintenanceCreateResponse{Success: false, Message: "Invalid priority"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, MaintenanceCreateResponse{Success: false, Message: "Server error!"})
		return
	}

	writeJSON(w, http.StatusOK, MaintenanceCreateResponse{Success: true, Message: "Request submitted successfully!"})
}

// List returns every request with its media, re-classified from the
// stored bytes. An empty table answers 404, which the mobile client
// treats as the empty state.
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server Error. Please try again later.")
		return
	}
	if len(requests) == 0 {
		writeMessage(w, http.StatusNotFound, "No maintenance requests found")
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type StatusUpdateResponse struct {
	Message string                   `json:"message"`
	Data    types.MaintenanceRequest `json:"data"`
}

// UpdateStatus sets a request's status to any of the four values; no
// transition ordering is enforced.
func (h *MaintenanceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Request ID not found")
		default:
			writeError(w, http.StatusInternalServerError, "Server Error. Please try again later.")
		}
		return
	}

	writeJSON(w, http.StatusOK, StatusUpdateResponse{
		Message: "Status updated successfully",
		Data:    updated,
	})
}

// HighPriorityItem is the trimmed row shape of the dashboard feed.
type HighPriorityItem struct {
	RequestID   int       `json:"request_id"`
	UserID      int       `json:"user_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// HighPriority returns the read-only high-priority feed.
func (h *MaintenanceHandler) HighPriority(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.HighPriority(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	items := make([]HighPriorityItem, 0, len(requests))
	for _, request := range requests {
		items = append(items, HighPriorityItem{
			RequestID:   request.ID,
			UserID:      request.UserID,
			Subject:     request.Subject,
			Description: request.Description,
			Status:      request.Status,
			CreatedAt:   request.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func parseMediaFiles(r *http.Request) ([]services.MediaUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := r.MultipartForm.File["media"]
	if len(files) > maxMediaFiles {
		return nil, errors.New("too many media files")
	}

	uploads := make([]services.MediaUpload, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, errors.New("failed to read media file")
		}

		data, err := readFileLimited(file, maxUploadBytes)
		_ = file.Close()
		if err != nil {
			return nil, err
		}

		uploads = append(uploads, services.MediaUpload{
			Filename:    fileHeader.Filename,
			Data:        data,
			ContentType: fileHeader.Header.Get("Content-Type"),
		})
	}
	return uploads, nil
}
