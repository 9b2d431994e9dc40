package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cama-app/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// OTPHandler provides the email one-time-password endpoints.
type OTPHandler struct {
	otpService *services.OTPService
}

func NewOTPHandler(otpService *services.OTPService) *OTPHandler {
	return &OTPHandler{otpService: otpService}
}

// OTPRouter registers OTP routes on the given router.
func OTPRouter(r chi.Router, otpService *services.OTPService) {
	handler := NewOTPHandler(otpService)

	r.Post("/send-otp", handler.Send)
	r.Post("/verify-otp", handler.Verify)
}

type SendOTPRequest struct {
	Email string `json:"email"`
}

type SendOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Send generates and mails a fresh code. The code itself never appears
// in the response; it travels only through the mail channel.
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SendOTPResponse{Success: false, Message: "Email is required."})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, SendOTPResponse{Success: false, Message: "Email is required."})
		return
	}

	if err := h.otpService.Send(r.Context(), req.Email); err != nil {
		writeJSON(w, http.StatusInternalServerError, SendOTPResponse{Success: false, Message: "Error sending OTP"})
		return
	}

	writeJSON(w, http.StatusOK, SendOTPResponse{Success: true, Message: "OTP sent successfully."})
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Verify checks a submitted code; a match consumes it.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Email and OTP are required.")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if req.Email == "" || req.OTP == "" {
		writeMessage(w, http.StatusBadRequest, "Email and OTP are required.")
		return
	}

	if !h.otpService.Verify(req.Email, req.OTP) {
		writeMessage(w, http.StatusBadRequest, "Invalid OTP. Please try again.")
		return
	}

	writeMessage(w, http.StatusOK, "OTP verified successfully. Proceed to dashboard.")
}
