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

// ResidentHandler provides resident, family-member, rental-agreement
// and security-log endpoints.
type ResidentHandler struct {
	residents *services.ResidentService
	family    *services.FamilyService
	rentals   *services.RentalService
	security  *services.SecurityLogService
}

func NewResidentHandler(residents *services.ResidentService, family *services.FamilyService, rentals *services.RentalService, security *services.SecurityLogService) *ResidentHandler {
	return &ResidentHandler{
		residents: residents,
		family:    family,
		rentals:   rentals,
		security:  security,
	}
}

// ResidentRouter registers the resident-facing routes. Path shapes
// follow what the mobile client calls today, camelCase included.
func ResidentRouter(r chi.Router, residents *services.ResidentService, family *services.FamilyService, rentals *services.RentalService, security *services.SecurityLogService) {
	handler := NewResidentHandler(residents, family, rentals, security)

	r.Get("/residents", handler.List)
	r.Post("/residents", handler.Create)
	r.Delete("/residents/{id}", handler.Delete)
	r.Get("/residents/{userID}", handler.NameByUserID)

	r.Post("/addFamilyMember", handler.AddFamilyMember)
	r.Get("/familyMembers/{residentID}", handler.ListFamilyMembers)
	r.Delete("/deleteFamilyMember/{memberID}", handler.RemoveFamilyMember)

	r.Get("/rental-agreements/{userID}", handler.RentalAgreement)
	r.Put("/rental-agreements/{agreementID}", handler.UpdateRentalAgreement)

	r.Get("/security-logs", handler.SecurityLogs)
}

func (h *ResidentHandler) List(w http.ResponseWriter, r *http.Request) {
	residents, err := h.residents.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, residents)
}

type ResidentCreateRequest struct {
	UserID        int    `json:"user_id"`
	FullName      string `json:"full_name"`
	Apartment     string `json:"apartment"`
	ContactNumber string `json:"contact_number"`
}

func (h *ResidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ResidentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if req.UserID < 1 || strings.TrimSpace(req.FullName) == "" ||
		strings.TrimSpace(req.Apartment) == "" || strings.TrimSpace(req.ContactNumber) == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	created, err := h.residents.Create(r.Context(), types.Resident{
		UserID:        req.UserID,
		FullName:      req.FullName,
		Apartment:     req.Apartment,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// Delete removes a resident by the linked account id, not the resident
// row id.
func (h *ResidentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID < 1 {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.residents.DeleteByUserID(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Resident not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeMessage(w, http.StatusOK, "Resident removed successfully")
}

type ResidentNameResponse struct {
	Name string `json:"name"`
}

// NameByUserID looks up the resident's full name by account id. The
// contract screen uses it to label the agreement.
func (h *ResidentHandler) NameByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID < 1 {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	name, err := h.residents.GetNameByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Resident not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, ResidentNameResponse{Name: name})
}

type FamilyMemberResponse struct {
	Message string             `json:"message"`
	Member  types.FamilyMember `json:"member"`
}

// AddFamilyMember accepts age and resident_id as either JSON numbers or
// numeric strings, which is how the client has historically sent them.
func (h *ResidentHandler) AddFamilyMember(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	name, _ := body["name"].(string)
	relationship, _ := body["relationship"].(string)
	residentID, okResident := parseNumeric(body["resident_id"])
	age, okAge := parseNumeric(body["age"])

	if strings.TrimSpace(name) == "" || strings.TrimSpace(relationship) == "" || !okResident || !okAge {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	member, err := h.family.Add(r.Context(), types.FamilyMember{
		ResidentID:   int(residentID),
		Name:         name,
		Age:          int(age),
		Relationship: relationship,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database Error")
		return
	}
	writeJSON(w, http.StatusOK, FamilyMemberResponse{
		Message: "Family Member Added",
		Member:  member,
	})
}

func (h *ResidentHandler) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	residentID, err := strconv.Atoi(chi.URLParam(r, "residentID"))
	if err != nil || residentID < 1 {
		writeError(w, http.StatusBadRequest, "Invalid resident id")
		return
	}

	members, err := h.family.ListByResident(r.Context(), residentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database Error")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *ResidentHandler) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.Atoi(chi.URLParam(r, "memberID"))
	if err != nil || memberID < 1 {
		writeError(w, http.StatusBadRequest, "Invalid member id")
		return
	}

	if err := h.family.Remove(r.Context(), memberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Family member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database Error")
		return
	}
	writeMessage(w, http.StatusOK, "Family Member Removed")
}

func (h *ResidentHandler) RentalAgreement(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID < 1 {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	agreement, err := h.rentals.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Rental agreement not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, agreement)
}

type RentalUpdateResponse struct {
	Message string                `json:"message"`
	Data    types.RentalAgreement `json:"data"`
}

// UpdateRentalAgreement replaces the financial terms of one agreement.
// All three numeric fields are required; numeric strings are accepted.
func (h *ResidentHandler) UpdateRentalAgreement(w http.ResponseWriter, r *http.Request) {
	agreementID, err := strconv.Atoi(chi.URLParam(r, "agreementID"))
	if err != nil || agreementID < 1 {
		writeMessage(w, http.StatusBadRequest, "Invalid agreement id")
		return
	}

	var body map[string]any
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields (monthly_rent, security_deposit, notice_period) are required")
		return
	}

	rentRaw, hasRent := body["monthly_rent"]
	depositRaw, hasDeposit := body["security_deposit"]
	noticeRaw, hasNotice := body["notice_period"]
	if !hasRent || !hasDeposit || !hasNotice {
		writeMessage(w, http.StatusBadRequest, "All fields (monthly_rent, security_deposit, notice_period) are required")
		return
	}

	rent, okRent := parseNumeric(rentRaw)
	deposit, okDeposit := parseNumeric(depositRaw)
	notice, okNotice := parseNumeric(noticeRaw)
	if !okRent || !okDeposit || !okNotice {
		writeMessage(w, http.StatusBadRequest, "Invalid input: all fields must be numbers")
		return
	}

	updated, err := h.rentals.Update(r.Context(), types.RentalAgreement{
		ID:              agreementID,
		MonthlyRent:     rent,
		SecurityDeposit: deposit,
		NoticePeriod:    int(notice),
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Rental agreement not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, RentalUpdateResponse{
		Message: "Rental agreement updated successfully",
		Data:    updated,
	})
}

func (h *ResidentHandler) SecurityLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.security.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
